package client

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"euchre-server/pkg/storage"

	"github.com/sirupsen/logrus"
)

// cacheTTL is how long a cached state survives without an update
const cacheTTL = time.Hour * 24

// maxApplyDepth bounds handler re-entry into ApplyUpdate
const maxApplyDepth = 8

// ErrUpdateCycle is returned when update handlers keep feeding updates back
// into the sync service
var ErrUpdateCycle = errors.New("update cycle detected")

// PlayerCache is the cached public view of a single seat
type PlayerCache struct {
	PlayerID    int64  `json:"playerId,omitempty"`
	Name        string `json:"name,omitempty"`
	CardsInHand int    `json:"cardsInHand"`
	TricksWon   int    `json:"tricksWon"`
	SittingOut  bool   `json:"sittingOut"`
}

// CardInfo is a card as it appears on the wire
type CardInfo struct {
	Rank int    `json:"rank"`
	Suit string `json:"suit"`
}

// TrickPlay is one play of the current trick
type TrickPlay struct {
	Seat string    `json:"seat"`
	Card *CardInfo `json:"card"`
}

// CachedState is the client's merged view of the game.
// Scalars overwrite on update, the players map merges key by key, and
// arrays are replaced wholesale.
type CachedState struct {
	Phase       string                  `json:"phase,omitempty"`
	Dealer      string                  `json:"dealer,omitempty"`
	CurrentTurn string                  `json:"currentTurn,omitempty"`
	Trump       string                  `json:"trump,omitempty"`
	Maker       string                  `json:"maker,omitempty"`
	GoingAlone  bool                    `json:"goingAlone,omitempty"`
	Scores      map[string]int          `json:"scores,omitempty"`
	Players     map[string]*PlayerCache `json:"players,omitempty"`
	Trick       []TrickPlay             `json:"trick,omitempty"`
	Hand        []CardInfo              `json:"hand,omitempty"`
	UpdatedAt   time.Time               `json:"updatedAt"`
}

func (c *CachedState) clone() *CachedState {
	out := *c

	if c.Scores != nil {
		out.Scores = make(map[string]int, len(c.Scores))
		for k, v := range c.Scores {
			out.Scores[k] = v
		}
	}

	if c.Players != nil {
		out.Players = make(map[string]*PlayerCache, len(c.Players))
		for k, v := range c.Players {
			player := *v
			out.Players[k] = &player
		}
	}

	out.Trick = append([]TrickPlay(nil), c.Trick...)
	out.Hand = append([]CardInfo(nil), c.Hand...)

	return &out
}

// merge applies an update to the state.
// json.Unmarshal overlays scalars and replaces slices, but it also replaces
// map values outright, so player entries are re-merged field by field.
func (c *CachedState) merge(update json.RawMessage) error {
	existing := make(map[string]PlayerCache, len(c.Players))
	for k, v := range c.Players {
		existing[k] = *v
	}

	if err := json.Unmarshal(update, c); err != nil {
		return err
	}

	var envelope struct {
		Players map[string]json.RawMessage `json:"players"`
	}
	if err := json.Unmarshal(update, &envelope); err != nil {
		return err
	}

	for key, raw := range envelope.Players {
		prev, ok := existing[key]
		if !ok {
			continue
		}

		merged := prev
		if err := json.Unmarshal(raw, &merged); err != nil {
			return err
		}

		c.Players[key] = &merged
	}

	return nil
}

// SyncService maintains the client's cached game state across updates,
// disconnects, and restarts
type SyncService struct {
	logger   logrus.FieldLogger
	kv       storage.KV
	cacheKey string

	mu    sync.Mutex
	state *CachedState

	onChange   func(*CachedState)
	applyDepth atomic.Int32
}

// NewSyncService returns a sync service whose cache persists through kv
// under the session's key
func NewSyncService(logger logrus.FieldLogger, kv storage.KV, sessionID string) *SyncService {
	return &SyncService{
		logger:   logger,
		kv:       kv,
		cacheKey: "cache:" + sessionID,
		state:    &CachedState{},
	}
}

// OnChange registers a callback invoked after each applied update
func (s *SyncService) OnChange(fn func(*CachedState)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// State returns a copy of the current cached state
func (s *SyncService) State() *CachedState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// ApplyUpdate merges an update into the cached state and persists the result.
// Re-applying the same non-array update is a no-op.
//
// Updates must be delivered from a single goroutine, as the transport read
// loop does. The depth counter only tells apart an OnChange handler feeding
// updates back into the service; concurrent callers would trip it as a cycle.
func (s *SyncService) ApplyUpdate(update json.RawMessage) error {
	if depth := s.applyDepth.Add(1); depth > maxApplyDepth {
		s.applyDepth.Add(-1)
		return ErrUpdateCycle
	}
	defer s.applyDepth.Add(-1)

	s.mu.Lock()
	next := s.state.clone()
	if err := next.merge(update); err != nil {
		s.mu.Unlock()
		return err
	}

	next.UpdatedAt = time.Now()
	s.state = next
	fn := s.onChange
	snapshot := next.clone()
	s.mu.Unlock()

	s.persist(snapshot)

	if fn != nil {
		fn(snapshot)
	}

	return nil
}

// Load restores the cached state from the store.
// A missing, expired, or unparseable cache entry leaves the state empty and
// is never an error.
func (s *SyncService) Load(ctx context.Context) {
	data, err := s.kv.Get(ctx, s.cacheKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.WithError(err).Warn("could not load cached state")
		}

		return
	}

	var cached CachedState
	if err := json.Unmarshal(data, &cached); err != nil {
		s.logger.WithError(err).Warn("discarding unparseable cached state")
		return
	}

	if time.Since(cached.UpdatedAt) > cacheTTL {
		s.logger.Warn("discarding expired cached state")
		return
	}

	s.mu.Lock()
	s.state = &cached
	s.mu.Unlock()
}

func (s *SyncService) persist(state *CachedState) {
	data, err := json.Marshal(state)
	if err != nil {
		s.logger.WithError(err).Warn("could not marshal cached state")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.kv.Set(ctx, s.cacheKey, data, cacheTTL); err != nil {
		s.logger.WithError(err).Warn("could not persist cached state")
	}
}

// Attach wires the sync service to a connection manager: game state updates
// feed the cache, and a reconnect with nothing queued asks the server for a
// full resync
func (s *SyncService) Attach(cm *ConnManager, transport Transport) {
	transport.On("game", func(payload json.RawMessage) {
		var envelope struct {
			Data struct {
				GameState json.RawMessage `json:"gameState"`
				Hand      json.RawMessage `json:"hand"`
			} `json:"data"`
		}
		if err := json.Unmarshal(payload, &envelope); err != nil {
			s.logger.WithError(err).Warn("could not parse game message")
			return
		}

		if len(envelope.Data.GameState) > 0 {
			if err := s.ApplyUpdate(envelope.Data.GameState); err != nil {
				s.logger.WithError(err).Error("could not apply update")
				return
			}
		}

		if hand := envelope.Data.Hand; len(hand) > 0 && string(hand) != "null" {
			update := json.RawMessage(`{"hand":` + string(hand) + `}`)
			if err := s.ApplyUpdate(update); err != nil {
				s.logger.WithError(err).Error("could not apply hand update")
			}
		}
	})

	cm.OnReconnected(func(replayed int) {
		if replayed > 0 {
			return
		}

		if err := cm.Send("resync", nil); err != nil {
			s.logger.WithError(err).Warn("could not request resync")
		}
	})
}
