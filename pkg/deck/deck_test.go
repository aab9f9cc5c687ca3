package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDeck(t *testing.T) {
	deck := New()

	assert.Equal(t, Size, deck.CardsLeft())

	assert.Equal(t, Card{Rank: 9, Suit: Clubs}, *deck.Cards[0])
	assert.Equal(t, Card{Rank: 14, Suit: Spades}, *deck.Cards[23])

	// every card is unique
	seen := make(map[Card]bool)
	for _, card := range deck.Cards {
		assert.False(t, seen[*card], "duplicate card: %s", card)
		seen[*card] = true
	}
	assert.Equal(t, Size, len(seen))
}

func TestDeck_Shuffle(t *testing.T) {
	deck := New()
	before := CardsToString(deck.Cards)

	deck.Shuffle(1)
	assert.Equal(t, int64(1), deck.Seed())
	assert.NotEqual(t, before, CardsToString(deck.Cards))

	// same multiset of cards
	seen := make(map[Card]bool)
	for _, card := range deck.Cards {
		seen[*card] = true
	}
	assert.Equal(t, Size, len(seen))

	// shuffling again rebuilds the full deck
	for i := 0; i < 5; i++ {
		_, err := deck.Draw()
		assert.NoError(t, err)
	}

	deck.Shuffle(2)
	assert.Equal(t, Size, deck.CardsLeft())
}

func TestDeck_Draw(t *testing.T) {
	deck := New()

	assert.True(t, deck.CanDraw(Size))
	assert.False(t, deck.CanDraw(Size+1))

	for i := 0; i < Size; i++ {
		card, err := deck.Draw()
		assert.NotNil(t, card)
		assert.NoError(t, err)
	}

	assert.False(t, deck.CanDraw(1))

	card, err := deck.Draw()
	assert.Nil(t, card)
	assert.Equal(t, ErrEndOfDeck, err)
}
