package euchre

import (
	"euchre-server/pkg/deck"
)

// Player is an individual seated in the game
type Player struct {
	PlayerID  int64
	Seat      Seat
	hand      deck.Hand
	tricksWon int
}

// NewPlayer returns a new player at the given seat
func NewPlayer(pid int64, seat Seat) *Player {
	return &Player{
		PlayerID: pid,
		Seat:     seat,
		hand:     make(deck.Hand, 0, handSize),
	}
}

// AddCard add a card to the players hand
func (p *Player) AddCard(card *deck.Card) {
	p.hand.AddCard(card)
}

// Hand returns a shallow clone of the player's hand
func (p *Player) Hand() deck.Hand {
	return p.hand.Clone()
}

// HasCard returns true if the player has the card in their hand
func (p *Player) HasCard(card *deck.Card) bool {
	return p.hand.HasCard(card)
}

// TricksWon returns how many tricks the player has taken this hand
func (p *Player) TricksWon() int {
	return p.tricksWon
}

// removeCard removes the card from the player's hand
func (p *Player) removeCard(card *deck.Card) error {
	if !p.hand.Discard(card) {
		return ErrCardNotInPlayersHand
	}

	return nil
}

// wonTrick marks the player as winning a trick
func (p *Player) wonTrick() {
	p.tricksWon++
}

// newHand resets per-hand state
func (p *Player) newHand() {
	p.tricksWon = 0
	p.hand = make(deck.Hand, 0, handSize)
}
