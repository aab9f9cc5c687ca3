package euchre

import "fmt"

// Phase is the current phase of a euchre session
type Phase int

// phase constants
const (
	PhaseLobby Phase = iota
	PhaseDealing
	PhaseOrderUpRound1
	PhaseAwaitingDealerDiscard
	PhaseOrderUpRound2
	PhaseAwaitingGoAlone
	PhasePlayingTricks
	PhaseHandOver
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseDealing:
		return "dealing"
	case PhaseOrderUpRound1:
		return "order-up-round-1"
	case PhaseAwaitingDealerDiscard:
		return "awaiting-dealer-discard"
	case PhaseOrderUpRound2:
		return "order-up-round-2"
	case PhaseAwaitingGoAlone:
		return "awaiting-go-alone"
	case PhasePlayingTricks:
		return "playing-tricks"
	case PhaseHandOver:
		return "hand-over"
	case PhaseGameOver:
		return "game-over"
	}

	panic(fmt.Sprintf("unknown phase: %d", int(p)))
}

// MarshalText implements encoding.TextMarshaler
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Phase) UnmarshalText(text []byte) error {
	for phase := PhaseLobby; phase <= PhaseGameOver; phase++ {
		if phase.String() == string(text) {
			*p = phase
			return nil
		}
	}

	return fmt.Errorf("unknown phase: %s", string(text))
}

// action names accepted by the state machine
const (
	ActionStartGame     = "start-game"
	ActionOrderUp       = "order-up-decision"
	ActionDealerDiscard = "dealer-discard"
	ActionCallTrump     = "call-trump-decision"
	ActionGoAlone       = "go-alone-decision"
	ActionPlayCard      = "play-card"
)

// actionPhases is the closed (action, phase) validation table. An action is
// rejected with ErrWrongPhase before its handler runs unless the current
// phase is listed here.
var actionPhases = map[string]Phase{
	ActionStartGame:     PhaseLobby,
	ActionOrderUp:       PhaseOrderUpRound1,
	ActionDealerDiscard: PhaseAwaitingDealerDiscard,
	ActionCallTrump:     PhaseOrderUpRound2,
	ActionGoAlone:       PhaseAwaitingGoAlone,
	ActionPlayCard:      PhasePlayingTricks,
}
