package euchre

import (
	"fmt"
)

// Seat is one of the four fixed positions at the table, in cyclic play order
type Seat int

// seat constants
const (
	South Seat = iota
	West
	North
	East

	// NoSeat is the zero-value sentinel for "no seat applies"
	NoSeat Seat = -1
)

// NumSeats is the number of seats at a euchre table
const NumSeats = 4

// Seats lists the seats in play order
var Seats = []Seat{South, West, North, East}

func (s Seat) String() string {
	switch s {
	case South:
		return "south"
	case West:
		return "west"
	case North:
		return "north"
	case East:
		return "east"
	case NoSeat:
		return "none"
	}

	panic(fmt.Sprintf("unknown seat: %d", int(s)))
}

// MarshalText implements encoding.TextMarshaler so seats serialize as names,
// including when used as JSON map keys
func (s Seat) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Seat) UnmarshalText(text []byte) error {
	switch string(text) {
	case "south":
		*s = South
	case "west":
		*s = West
	case "north":
		*s = North
	case "east":
		*s = East
	case "none":
		*s = NoSeat
	default:
		return fmt.Errorf("unknown seat: %s", string(text))
	}

	return nil
}

// Partner returns the seat directly across the table
func (s Seat) Partner() Seat {
	return (s + 2) % NumSeats
}

// next returns the seat one position along in play order
func (s Seat) next() Seat {
	return (s + 1) % NumSeats
}

// nextSeat advances one position in the cyclic seat order, skipping the
// sitting-out seat while a lone hand is active
func nextSeat(current Seat, aloneActive bool, sittingOut Seat) Seat {
	seat := current.next()
	if aloneActive && seat == sittingOut {
		seat = seat.next()
	}

	return seat
}

// Partnership is one of the two fixed partnerships
type Partnership int

// partnership constants
const (
	NorthSouth Partnership = iota
	EastWest
)

// Partnerships lists both partnerships
var Partnerships = []Partnership{NorthSouth, EastWest}

func (p Partnership) String() string {
	switch p {
	case NorthSouth:
		return "north-south"
	case EastWest:
		return "east-west"
	}

	panic(fmt.Sprintf("unknown partnership: %d", int(p)))
}

// MarshalText implements encoding.TextMarshaler
func (p Partnership) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Partnership) UnmarshalText(text []byte) error {
	switch string(text) {
	case "north-south":
		*p = NorthSouth
	case "east-west":
		*p = EastWest
	default:
		return fmt.Errorf("unknown partnership: %s", string(text))
	}

	return nil
}

// Opponent returns the other partnership
func (p Partnership) Opponent() Partnership {
	if p == NorthSouth {
		return EastWest
	}

	return NorthSouth
}

// PartnershipOf returns the partnership the seat belongs to
func PartnershipOf(seat Seat) Partnership {
	if seat == South || seat == North {
		return NorthSouth
	}

	return EastWest
}
