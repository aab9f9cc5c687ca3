package deck

import (
	"strings"
)

// Hand represents a collection of cards
type Hand []*Card

func (h Hand) Len() int {
	return len(h)
}

func (h Hand) Less(i, j int) bool {
	if cmp := strings.Compare(string(h[i].Suit), string(h[j].Suit)); cmp != 0 {
		return cmp < 0
	}

	return h[i].Rank < h[j].Rank
}

func (h Hand) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

// AddCard adds a card to the hand
func (h *Hand) AddCard(card *Card) {
	*h = append(*h, card)
}

// HasCard returns true if the hand contains the specified card
func (h Hand) HasCard(card *Card) bool {
	for _, c := range h {
		if c.Equal(card) {
			return true
		}
	}

	return false
}

// Discard removes the specified card from the hand.
// Returns false if the card was not in the hand.
func (h *Hand) Discard(card *Card) bool {
	newHand := make(Hand, 0, len(*h))
	found := false
	for _, c := range *h {
		if !found && c.Equal(card) {
			found = true
			continue
		}

		newHand = append(newHand, c)
	}

	*h = newHand
	return found
}

// HasEffectiveSuit returns true if the hand holds a card of the given suit
// under trump rules. The left bower counts as trump, not as its printed suit.
func (h Hand) HasEffectiveSuit(suit, trump Suit) bool {
	for _, c := range h {
		if EffectiveSuit(c, trump) == suit {
			return true
		}
	}

	return false
}

// EffectiveSuit returns the suit a card plays as. Only the left bower
// differs from its printed suit.
func EffectiveSuit(c *Card, trump Suit) Suit {
	if IsLeftBower(c, trump) {
		return trump
	}

	return c.Suit
}

func (h Hand) String() string {
	return CardsToString(h)
}

// Clone returns a clone of the hand
func (h Hand) Clone() Hand {
	h2 := make(Hand, len(h))
	copy(h2, h)

	return h2
}
