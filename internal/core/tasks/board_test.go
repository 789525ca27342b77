package tasks

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusdash/internal/core/clock"
	"focusdash/internal/core/model"
)

var created = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func newTestBoard() *Board {
	board := NewBoard(nil, "", clock.Fixed(created))
	next := 0
	board.newID = func() string {
		next++
		return fmt.Sprintf("task-%d", next)
	}
	return board
}

func TestAdd(t *testing.T) {
	board := newTestBoard()

	task, err := board.Add("  write report ")

	require.NoError(t, err)
	assert.Equal(t, model.Task{ID: "task-1", Title: "write report", Status: model.TaskTodo, CreatedAt: created}, task)
	assert.Len(t, board.List(), 1)
}

func TestAdd_RejectsBlankTitle(t *testing.T) {
	board := newTestBoard()

	_, err := board.Add("   ")

	assert.ErrorIs(t, err, ErrEmptyTitle)
	assert.Empty(t, board.List())
}

func TestAdd_DefaultIDsAreUUIDs(t *testing.T) {
	board := NewBoard(nil, "", nil)

	task, err := board.Add("inbox zero")

	require.NoError(t, err)
	_, parseErr := uuid.Parse(task.ID)
	assert.NoError(t, parseErr)
}

func TestFocus_ReusesOpenTask(t *testing.T) {
	board := newTestBoard()
	existing, err := board.Add("Review PR")
	require.NoError(t, err)

	focused, err := board.Focus("review pr")

	require.NoError(t, err)
	assert.Equal(t, existing.ID, focused.ID)
	assert.Equal(t, model.TaskInProgress, focused.Status)
	assert.Equal(t, existing.ID, board.FocusID())
	assert.Len(t, board.List(), 1)
}

func TestFocus_CreatesTaskWhenOnlyDoneMatches(t *testing.T) {
	board := newTestBoard()
	done, err := board.Add("standup notes")
	require.NoError(t, err)
	require.NoError(t, board.SetStatus(done.ID, model.TaskDone))

	focused, err := board.Focus("standup notes")

	require.NoError(t, err)
	assert.NotEqual(t, done.ID, focused.ID)
	assert.Len(t, board.List(), 2)
}

func TestCreditFocused(t *testing.T) {
	board := newTestBoard()
	assert.False(t, board.CreditFocused())

	_, err := board.Focus("deep work")
	require.NoError(t, err)
	assert.True(t, board.CreditFocused())
	assert.True(t, board.CreditFocused())

	task, ok := board.Focused()
	require.True(t, ok)
	assert.Equal(t, 2, task.Pomodoros)
}

func TestSetStatus(t *testing.T) {
	board := newTestBoard()
	task, err := board.Focus("deep work")
	require.NoError(t, err)

	assert.ErrorIs(t, board.SetStatus(task.ID, "archived"), ErrInvalidStatus)
	assert.ErrorIs(t, board.SetStatus("nope", model.TaskDone), ErrTaskNotFound)

	require.NoError(t, board.SetStatus(task.ID, model.TaskDone))
	assert.Empty(t, board.FocusID())
	assert.Equal(t, map[model.TaskStatus]int{model.TaskDone: 1}, board.Counts())
}

func TestRemove(t *testing.T) {
	board := newTestBoard()
	first, _ := board.Add("first")
	second, _ := board.Focus("second")

	require.NoError(t, board.Remove(second.ID))

	assert.Equal(t, []model.Task{first}, board.List())
	assert.Empty(t, board.FocusID())
	assert.ErrorIs(t, board.Remove(second.ID), ErrTaskNotFound)
}

func TestNewBoard_DropsUnknownFocus(t *testing.T) {
	board := NewBoard([]model.Task{{ID: "a", Title: "a"}}, "b", nil)
	assert.Empty(t, board.FocusID())

	board = NewBoard([]model.Task{{ID: "a", Title: "a"}}, "a", nil)
	assert.Equal(t, "a", board.FocusID())
}

func TestApply(t *testing.T) {
	board := newTestBoard()
	task, _ := board.Focus("deep work")
	var snapshot model.Snapshot

	board.Apply(&snapshot)
	snapshot.Tasks[0].Title = "mutated"

	assert.Equal(t, task.ID, snapshot.FocusTaskID)
	focused, _ := board.Focused()
	assert.Equal(t, "deep work", focused.Title)
}
