package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_constants(t *testing.T) {
	assert.Equal(t, 9, Nine)
	assert.Equal(t, 11, Jack)
	assert.Equal(t, 12, Queen)
	assert.Equal(t, 13, King)
	assert.Equal(t, 14, Ace)
}

func TestCard_String(t *testing.T) {
	card := Card{
		Rank: 9,
		Suit: Hearts,
	}

	assert.Equal(t, "9♡", card.String())

	card = Card{
		Rank: 11,
		Suit: Clubs,
	}

	assert.Equal(t, "J♣", card.String())

	card = Card{
		Rank: 12,
		Suit: Diamonds,
	}

	assert.Equal(t, "Q♢", card.String())

	card = Card{
		Rank: 14,
		Suit: Spades,
	}

	assert.Equal(t, "A♠", card.String())
}

func TestCard_Equal(t *testing.T) {
	a := CardFromString("11h")
	b := &Card{Rank: Jack, Suit: Hearts}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(CardFromString("11d")))
	assert.False(t, a.Equal(nil))
}

func TestCardFromString(t *testing.T) {
	assert.Equal(t, Card{Rank: 9, Suit: Clubs}, *CardFromString("9c"))
	assert.Equal(t, Card{Rank: 14, Suit: Spades}, *CardFromString("14s"))
	assert.Nil(t, CardFromString(""))

	assert.Panics(t, func() {
		CardFromString("2c")
	})

	assert.Panics(t, func() {
		CardFromString("11x")
	})
}

func TestCardsFromString(t *testing.T) {
	cards := CardsFromString("9c,10d,11h")
	assert.Equal(t, 3, len(cards))
	assert.Equal(t, "9c,10d,11h", CardsToString(cards))
	assert.Equal(t, 0, len(CardsFromString("")))
}

func TestSameColor(t *testing.T) {
	assert.True(t, SameColor(Hearts, Diamonds))
	assert.True(t, SameColor(Clubs, Spades))
	assert.False(t, SameColor(Hearts, Spades))
	assert.False(t, SameColor(Clubs, Diamonds))
}
