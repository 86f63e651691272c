// Package config holds the scheduler's startup configuration (spec.md
// §6.3), built as a literal struct in cmd/server — there is no
// file-backed configuration concern at the core.
package config

// Config is the scheduler's full startup configuration. The first five
// fields are exactly spec.md §6.3's list; DefaultTargetTemp and FeeRate
// are this implementation's documented resolutions of spec.md §9's two
// open questions.
type Config struct {
	RoomCount int

	ServingCapacity int
	// WaitingCapacity is the waiting queue's bound. 0 means unbounded.
	WaitingCapacity int

	TimeSliceSeconds int

	// InitialTemp returns a room's starting temperature by id.
	InitialTemp func(roomID int) float64

	// DefaultTargetTemp is used for both cooling and heating (spec.md §9
	// open question — a single configured default rather than a
	// per-mode split).
	DefaultTargetTemp float64

	// FeeRate is the monetary units charged per degree of actual
	// temperature change effected while serving (spec.md §4.4).
	FeeRate float64
}

// Default returns the configuration this repository's server boots with:
// five rooms, a serving capacity of three and waiting capacity of two
// (spec.md §3's "typically 3" / "typically 2"), a 30-second time slice,
// and the teacher's own per-room initial temperatures.
func Default() Config {
	initialTemps := map[int]float64{
		1: 32.0,
		2: 28.0,
		3: 30.0,
		4: 29.0,
		5: 35.0,
	}
	return Config{
		RoomCount:        5,
		ServingCapacity:  3,
		WaitingCapacity:  2,
		TimeSliceSeconds: 30,
		InitialTemp: func(roomID int) float64 {
			if t, ok := initialTemps[roomID]; ok {
				return t
			}
			return 30.0
		},
		DefaultTargetTemp: 25.0,
		FeeRate:           1.0,
	}
}
