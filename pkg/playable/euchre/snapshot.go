package euchre

import (
	"encoding/json"
	"time"

	"euchre-server/internal/rng"
	"euchre-server/pkg/deck"
	"euchre-server/pkg/playable"

	"github.com/sirupsen/logrus"
)

// gameSnapshot is the serializable form of the full game state
type gameSnapshot struct {
	Options Options                  `json:"options"`
	Players map[Seat]*playerSnapshot `json:"players"`
	Scores  map[Partnership]int      `json:"scores"`
	Dealer  Seat                     `json:"dealer"`
	Phase   Phase                    `json:"phase"`
	Turn    Seat                     `json:"turn"`
	Round   *round                   `json:"round"`
}

type playerSnapshot struct {
	PlayerID  int64     `json:"playerId"`
	Hand      deck.Hand `json:"hand"`
	TricksWon int       `json:"tricksWon"`
}

// Snapshot serializes the full game state
func (g *Game) Snapshot() ([]byte, error) {
	players := make(map[Seat]*playerSnapshot)
	for seat, player := range g.players {
		players[seat] = &playerSnapshot{
			PlayerID:  player.PlayerID,
			Hand:      player.hand.Clone(),
			TricksWon: player.tricksWon,
		}
	}

	return json.Marshal(&gameSnapshot{
		Options: g.options,
		Players: players,
		Scores:  g.Scores(),
		Dealer:  g.dealer,
		Phase:   g.phase,
		Turn:    g.turn,
		Round:   g.round,
	})
}

// RestoreGame rebuilds a game from a snapshot produced by Snapshot().
// A hand-over snapshot resumes by scheduling the next deal.
func RestoreGame(logger logrus.FieldLogger, data []byte) (*Game, error) {
	var snap gameSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}

	if len(snap.Players) != NumSeats {
		return nil, ErrSeatsNotFilled
	}

	players := make(map[Seat]*Player)
	idToSeat := make(map[int64]Seat)
	for seat, ps := range snap.Players {
		players[seat] = &Player{
			PlayerID:  ps.PlayerID,
			Seat:      seat,
			hand:      ps.Hand,
			tricksWon: ps.TricksWon,
		}
		idToSeat[ps.PlayerID] = seat
	}

	g := &Game{
		options:  snap.Options,
		players:  players,
		idToSeat: idToSeat,
		scores:   snap.Scores,
		dealer:   snap.Dealer,
		phase:    snap.Phase,
		turn:     snap.Turn,
		round:    snap.Round,
		rng:      rng.Crypto{},
		logger:   logger,
		logChan:  make(chan []*playable.LogMessage, 256),
	}

	if g.phase == PhaseHandOver {
		g.endHandResume()
	}

	return g, nil
}

// endHandResume schedules the next hand for a game restored mid-delay
func (g *Game) endHandResume() {
	g.pendingAction = &pendingDealerAction{
		Action:       dealerActionNextHand,
		ExecuteAfter: time.Now().Add(g.options.NextHandDelay),
	}
}
