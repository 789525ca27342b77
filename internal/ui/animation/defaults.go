package animation

import "time"

// DefaultConfig returns the flash timing used by the tray.
func DefaultConfig() Config {
	return Config{
		Cycles: 4,
		OnDuration: Range{
			Min: 350 * time.Millisecond,
			Max: 450 * time.Millisecond,
		},
		OffDuration: Range{
			Min: 250 * time.Millisecond,
			Max: 300 * time.Millisecond,
		},
	}
}
