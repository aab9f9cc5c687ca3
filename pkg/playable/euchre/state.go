package euchre

import (
	"euchre-server/pkg/deck"
	"euchre-server/pkg/playable"
)

// GameState is the overall game state
// This is safe for all players to see
type GameState struct {
	Phase        Phase                     `json:"phase"`
	Dealer       Seat                      `json:"dealer"`
	CurrentTurn  Seat                      `json:"currentTurn"`
	Trump        deck.Suit                 `json:"trump,omitempty"`
	UpCard       *deck.Card                `json:"upCard,omitempty"`
	TurnedDown   bool                      `json:"turnedDown"`
	Maker        Seat                      `json:"maker"`
	GoingAlone   bool                      `json:"goingAlone"`
	SittingOut   Seat                      `json:"sittingOut"`
	Players      map[Seat]*GameStatePlayer `json:"players"`
	Trick        []*playedCard             `json:"trick"`
	TricksPlayed int                       `json:"tricksPlayed"`
	KittySize    int                       `json:"kittySize"`
	Scores       map[Partnership]int       `json:"scores"`
}

// GameStatePlayer is the state of an individual player
// This is safe for all players to see; hands appear only as counts
type GameStatePlayer struct {
	PlayerID    int64 `json:"playerId"`
	Seat        Seat  `json:"seat"`
	CardsInHand int   `json:"cardsInHand"`
	TricksWon   int   `json:"tricksWon"`
	SittingOut  bool  `json:"sittingOut"`
}

// Response is the response format for this game
type Response struct {
	GameState *GameState `json:"gameState"`
	// Data below is player specific, and must only be shown to the intended player
	Seat Seat      `json:"seat"`
	Hand deck.Hand `json:"hand"`
}

// getGameState builds the shared projection. Hands are reduced to counts and
// a sitting-out seat always reports an empty hand so no viewer can infer the
// idle partner's cards.
func (g *Game) getGameState() *GameState {
	state := &GameState{
		Phase:       g.phase,
		Dealer:      g.dealer,
		CurrentTurn: g.turn,
		Maker:       NoSeat,
		SittingOut:  NoSeat,
		Players:     make(map[Seat]*GameStatePlayer),
		Scores:      g.Scores(),
	}

	for seat, player := range g.players {
		state.Players[seat] = &GameStatePlayer{
			PlayerID:    player.PlayerID,
			Seat:        seat,
			CardsInHand: len(player.hand),
			TricksWon:   player.tricksWon,
		}
	}

	if r := g.round; r != nil {
		state.Trump = r.Trump
		state.UpCard = r.UpCard
		state.TurnedDown = r.TurnedDown
		state.Maker = r.Maker
		state.GoingAlone = r.Alone
		state.SittingOut = r.SittingOut
		state.Trick = append([]*playedCard{}, r.Trick...)
		state.TricksPlayed = len(r.Completed)
		state.KittySize = len(r.Kitty)

		if r.SittingOut != NoSeat {
			sp := state.Players[r.SittingOut]
			sp.SittingOut = true
			sp.CardsInHand = 0
		}
	}

	return state
}

// GetPlayerState returns the state for the given player.
// A viewer without a seat receives the shared projection only.
func (g *Game) GetPlayerState(playerID int64) (*playable.Response, error) {
	res := &Response{
		GameState: g.getGameState(),
		Seat:      NoSeat,
	}

	if seat, ok := g.idToSeat[playerID]; ok {
		res.Seat = seat

		// a sitting-out seat shows as inactive, even to itself
		if g.round == nil || g.round.SittingOut != seat {
			res.Hand = g.players[seat].Hand()
		}
	}

	return &playable.Response{
		Key:   "game",
		Value: "euchre",
		Data:  res,
	}, nil
}
