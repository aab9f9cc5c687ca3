package euchre

import "time"

// game geometry
const (
	handSize  = 5
	kittySize = 3
)

// Options are options for creating a new euchre game
type Options struct {
	// TargetScore ends the game the moment a partnership reaches it
	TargetScore int

	// NextHandDelay is how long to wait after scoring before dealing the next hand
	NextHandDelay time.Duration

	// Seed forces the shuffle seed, for tests only. 0 means time-based.
	Seed int64
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		TargetScore:   10,
		NextHandDelay: time.Second * 5,
	}
}
