package euchre

import (
	"errors"
	"fmt"
)

// ErrWrongPhase is an error when an action is attempted in the wrong phase
var ErrWrongPhase = errors.New("action not valid in the current phase")

// ErrIsNotPlayersTurn is returned when it's not the player's turn
var ErrIsNotPlayersTurn = errors.New("not player's turn")

// ErrCardNotInPlayersHand happens when the player tries to play a card they don't have
var ErrCardNotInPlayersHand = errors.New("card is not in player's hand")

// ErrMustFollowSuit happens when the player can follow the led suit but plays off-suit
var ErrMustFollowSuit = errors.New("player must follow the led suit")

// ErrCannotNameTurnedDownSuit happens when a player names the turned-down suit in round two
var ErrCannotNameTurnedDownSuit = errors.New("cannot name the turned-down suit")

// ErrSeatsNotFilled is an error when a game is started without four seated players
var ErrSeatsNotFilled = errors.New("all four seats must be filled")

// ErrGameOver is an error when an action is attempted on an ended game
var ErrGameOver = errors.New("game is over")

// ErrNoCardSpecified happens when an action requires a card and none was sent
var ErrNoCardSpecified = errors.New("no card specified")

// ErrPlayerNotSeated happens when the acting player does not hold a seat
var ErrPlayerNotSeated = errors.New("player is not seated at this game")

// HandSizeError is an error on the dealer's hand size during the discard phase
type HandSizeError int

func (h HandSizeError) Error() string {
	return fmt.Sprintf("expected a hand of %d cards, got %d", handSize+1, int(h))
}
