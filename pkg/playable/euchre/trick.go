package euchre

import (
	"euchre-server/pkg/deck"
)

// playedCard is a single (seat, card) play within a trick
type playedCard struct {
	Seat Seat       `json:"seat"`
	Card *deck.Card `json:"card"`
}

// trick is an ordered sequence of plays. A completed trick holds 4 plays,
// or 3 while a lone hand is active.
type trick struct {
	Plays  []*playedCard `json:"plays"`
	Winner Seat          `json:"winner"`
}

// effectiveLedSuit returns the suit the first play leads. If the left bower
// leads, the effective suit is trump.
func effectiveLedSuit(plays []*playedCard, trump deck.Suit) deck.Suit {
	return deck.EffectiveSuit(plays[0].Card, trump)
}

// evaluateTrick resolves the winning seat of a completed trick.
// The result depends only on who led, not on the order of later plays.
func evaluateTrick(plays []*playedCard, trump deck.Suit) Seat {
	led := effectiveLedSuit(plays, trump)

	best := plays[0]
	for _, play := range plays[1:] {
		if beats(play.Card, best.Card, led, trump) {
			best = play
		}
	}

	return best.Seat
}

// beats returns true if card a outranks card b under the led and trump suits
func beats(a, b *deck.Card, led, trump deck.Suit) bool {
	aTrump, bTrump := deck.IsTrump(a, trump), deck.IsTrump(b, trump)
	if aTrump != bTrump {
		return aTrump
	}

	if !aTrump {
		// only a card following the effective led suit can take the trick
		aLed, bLed := deck.EffectiveSuit(a, trump) == led, deck.EffectiveSuit(b, trump) == led
		if aLed != bLed {
			return aLed
		}
	}

	return deck.Rank(a, led, trump) > deck.Rank(b, led, trump)
}
