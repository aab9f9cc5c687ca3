package deck

// rank bands. Each band is strictly above the one below it, so cross-band
// comparisons hold regardless of the in-band rank value.
const (
	rightBowerValue = 400
	leftBowerValue  = 300
	trumpBand       = 200
	ledBand         = 100
)

// IsRightBower returns true if the card is the jack of the trump suit
func IsRightBower(c *Card, trump Suit) bool {
	return c.Rank == Jack && c.Suit == trump
}

// IsLeftBower returns true if the card is the jack of the same color as trump, other suit
func IsLeftBower(c *Card, trump Suit) bool {
	return c.Rank == Jack && c.Suit != trump && SameColor(c.Suit, trump)
}

// IsTrump returns true if the card belongs to the trump suit.
// The left bower counts as trump even though its printed suit differs.
func IsTrump(c *Card, trump Suit) bool {
	return c.Suit == trump || IsLeftBower(c, trump)
}

// Rank returns the comparable value of a card given the led and trump suits.
// Right bower > left bower > other trump by rank > led suit by rank > off-suit by rank.
func Rank(c *Card, led, trump Suit) int {
	switch {
	case IsRightBower(c, trump):
		return rightBowerValue
	case IsLeftBower(c, trump):
		return leftBowerValue
	case c.Suit == trump:
		return trumpBand + c.Rank
	case c.Suit == led:
		return ledBand + c.Rank
	default:
		return c.Rank
	}
}
