package model

// Phase is the current countdown mode.
type Phase string

const (
	PhaseWork       Phase = "work"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
)

// Phases lists every phase in cycle order.
func Phases() []Phase {
	return []Phase{PhaseWork, PhaseShortBreak, PhaseLongBreak}
}

// Valid reports whether phase is one of the known phases.
func (phase Phase) Valid() bool {
	switch phase {
	case PhaseWork, PhaseShortBreak, PhaseLongBreak:
		return true
	}
	return false
}

// IsBreak reports whether phase is a short or long break.
func (phase Phase) IsBreak() bool {
	return phase == PhaseShortBreak || phase == PhaseLongBreak
}

// Label returns a human readable phase name.
func (phase Phase) Label() string {
	switch phase {
	case PhaseShortBreak:
		return "Short Break"
	case PhaseLongBreak:
		return "Long Break"
	default:
		return "Focus Time"
	}
}
