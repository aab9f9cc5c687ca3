package euchre

import (
	"euchre-server/pkg/deck"
)

// round is the state of a single hand, from deal through scoring
type round struct {
	Trump      deck.Suit     `json:"trump"`
	Maker      Seat          `json:"maker"`
	Alone      bool          `json:"alone"`
	SittingOut Seat          `json:"sittingOut"`
	UpCard     *deck.Card    `json:"upCard"`
	TurnedDown bool          `json:"turnedDown"`
	Kitty      deck.Hand     `json:"kitty"`
	Trick      []*playedCard `json:"trick"`
	Completed  []*trick      `json:"completed"`
}

func newRound(upCard *deck.Card, kitty deck.Hand) *round {
	return &round{
		Maker:      NoSeat,
		SittingOut: NoSeat,
		UpCard:     upCard,
		Kitty:      kitty,
	}
}

// expectedTrickSize is 3 while a lone hand is active, otherwise 4
func (r *round) expectedTrickSize() int {
	if r.Alone {
		return NumSeats - 1
	}

	return NumSeats
}

// partnershipTricks counts completed tricks won by each partnership
func (r *round) partnershipTricks() map[Partnership]int {
	tricks := make(map[Partnership]int)
	for _, t := range r.Completed {
		tricks[PartnershipOf(t.Winner)]++
	}

	return tricks
}
