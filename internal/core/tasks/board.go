// Package tasks keeps the task list pomodoros are credited to.
package tasks

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"focusdash/internal/core/clock"
	"focusdash/internal/core/model"
)

var (
	// ErrTaskNotFound indicates no task has the given id.
	ErrTaskNotFound = errors.New("task not found")
	// ErrEmptyTitle indicates a blank task title.
	ErrEmptyTitle = errors.New("task title is empty")
	// ErrInvalidStatus indicates an unknown task status.
	ErrInvalidStatus = errors.New("invalid task status")
)

// Board is an ordered task list with at most one focused task.
// It is not safe for concurrent use.
type Board struct {
	tasks   []model.Task
	focusID string
	clock   clock.Clock
	newID   func() string
}

// NewBoard restores a board from persisted tasks.
func NewBoard(tasks []model.Task, focusID string, clk clock.Clock) *Board {
	if clk == nil {
		clk = clock.RealClock{}
	}
	board := &Board{
		tasks: append([]model.Task(nil), tasks...),
		clock: clk,
		newID: func() string { return uuid.NewString() },
	}
	if _, ok := board.find(focusID); ok {
		board.focusID = focusID
	}
	return board
}

// List returns a copy of all tasks in insertion order.
func (board *Board) List() []model.Task {
	return append([]model.Task(nil), board.tasks...)
}

// FocusID returns the focused task id, or "" when nothing is focused.
func (board *Board) FocusID() string {
	return board.focusID
}

// Focused returns the focused task.
func (board *Board) Focused() (model.Task, bool) {
	index, ok := board.find(board.focusID)
	if !ok {
		return model.Task{}, false
	}
	return board.tasks[index], true
}

// Add appends a new todo task.
func (board *Board) Add(title string) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, ErrEmptyTitle
	}
	task := model.Task{
		ID:        board.newID(),
		Title:     title,
		Status:    model.TaskTodo,
		CreatedAt: board.clock.Now(),
	}
	board.tasks = append(board.tasks, task)
	return task, nil
}

// Focus makes the open task titled title the focused one, creating it if needed.
// The focused task moves to in-progress.
func (board *Board) Focus(title string) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, ErrEmptyTitle
	}

	index := -1
	for i, task := range board.tasks {
		if task.Status != model.TaskDone && strings.EqualFold(task.Title, title) {
			index = i
			break
		}
	}
	if index < 0 {
		if _, err := board.Add(title); err != nil {
			return model.Task{}, err
		}
		index = len(board.tasks) - 1
	}

	board.tasks[index].Status = model.TaskInProgress
	board.focusID = board.tasks[index].ID
	return board.tasks[index], nil
}

// Unfocus clears the focused task without changing its status.
func (board *Board) Unfocus() {
	board.focusID = ""
}

// SetStatus moves a task to another column. A done task loses focus.
func (board *Board) SetStatus(id string, status model.TaskStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	index, ok := board.find(id)
	if !ok {
		return fmt.Errorf("set status of %s: %w", id, ErrTaskNotFound)
	}
	board.tasks[index].Status = status
	if status == model.TaskDone && board.focusID == id {
		board.focusID = ""
	}
	return nil
}

// Remove deletes a task.
func (board *Board) Remove(id string) error {
	index, ok := board.find(id)
	if !ok {
		return fmt.Errorf("remove %s: %w", id, ErrTaskNotFound)
	}
	board.tasks = append(board.tasks[:index], board.tasks[index+1:]...)
	if board.focusID == id {
		board.focusID = ""
	}
	return nil
}

// CreditFocused adds one pomodoro to the focused task and reports whether one was credited.
func (board *Board) CreditFocused() bool {
	index, ok := board.find(board.focusID)
	if !ok {
		return false
	}
	board.tasks[index].Pomodoros++
	return true
}

// Apply copies the task list and focus into snapshot.
func (board *Board) Apply(snapshot *model.Snapshot) {
	snapshot.Tasks = board.List()
	snapshot.FocusTaskID = board.focusID
}

// Counts returns the number of tasks per status.
func (board *Board) Counts() map[model.TaskStatus]int {
	counts := make(map[model.TaskStatus]int, 3)
	for _, task := range board.tasks {
		counts[task.Status]++
	}
	return counts
}

func (board *Board) find(id string) (int, bool) {
	if id == "" {
		return 0, false
	}
	for i, task := range board.tasks {
		if task.ID == id {
			return i, true
		}
	}
	return 0, false
}
