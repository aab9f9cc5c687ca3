package room

import (
	"context"
	"errors"
	"sync"
	"time"

	"euchre-server/pkg/persist"
	"euchre-server/pkg/playable"
	"euchre-server/pkg/playable/euchre"

	"github.com/sirupsen/logrus"
)

type state int

const (
	stateClientEvent state = iota
	stateGameEvent
	stateGameEnded
)

const storeTimeout = time.Second * 5

// Dealer is responsible for controlling the game in a session
type Dealer struct {
	pitBoss   *PitBoss
	sessionID string
	logger    logrus.FieldLogger
	store     *persist.Store
	options   euchre.Options

	clients     map[*Client]bool
	lock        sync.RWMutex
	game        playable.Playable
	seats       map[euchre.Seat]*seatInfo
	logMessages []*playable.LogMessage

	execInRunLoop chan func()
	stateChanged  chan state
	close         chan bool
}

type seatInfo struct {
	PlayerID int64  `json:"playerId"`
	Name     string `json:"name"`
}

// NewDealer creates a new dealer object
// This is called from a blocking state, so it needs to return quickly
func NewDealer(pitBoss *PitBoss, logger logrus.FieldLogger, sessionID string, store *persist.Store, options euchre.Options) *Dealer {
	return &Dealer{
		pitBoss:       pitBoss,
		sessionID:     sessionID,
		logger:        logger.WithField("session", sessionID),
		store:         store,
		options:       options,
		clients:       make(map[*Client]bool),
		seats:         make(map[euchre.Seat]*seatInfo),
		execInRunLoop: make(chan func(), 256),
		stateChanged:  make(chan state, 256),
		close:         make(chan bool),
	}
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

func (d *Dealer) runLoop() {
	d.logger.Debug("creating dealer run loop")
	d.restoreGame()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		var logChan <-chan []*playable.LogMessage
		if d.game != nil {
			logChan = d.game.LogChan()
		}

		select {
		case s := <-d.stateChanged:
			switch s {
			case stateClientEvent:
				d.sendClientState()
			case stateGameEvent:
				d.sendGameData()
				d.saveSnapshot()
			case stateGameEnded:
				d.sendGameEnded()
				d.sendClientState()
			}
		case fn := <-d.execInRunLoop:
			fn()
		case messages := <-logChan:
			d.addLogMessages(messages)
			for _, client := range d.Clients() {
				client.Send(&playable.Response{
					Key:  "logs",
					Data: messages,
				})
			}
		case <-ticker.C:
			d.tickGame()
		case <-d.close:
			d.logger.Debug("terminating dealer run loop")
			return
		}
	}
}

// restoreGame loads a saved session snapshot, if one exists.
// A snapshot that cannot be used is discarded and the session starts fresh.
// NOTE: must only be called from the run loop
func (d *Dealer) restoreGame() {
	if d.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	snapshot, err := d.store.Load(ctx, d.sessionID)
	if err != nil {
		if errors.Is(err, persist.ErrNotFound) {
			return
		}

		d.logger.WithError(err).Warn("could not load session snapshot; starting fresh")
		_ = d.store.Remove(ctx, d.sessionID)
		return
	}

	game, err := euchre.RestoreGame(d.logger, snapshot.State)
	if err != nil {
		d.logger.WithError(err).Warn("could not restore game; starting fresh")
		_ = d.store.Remove(ctx, d.sessionID)
		return
	}

	for seat, playerID := range game.Seating() {
		d.seats[seat] = &seatInfo{PlayerID: playerID}
	}

	d.game = game
	d.logger.WithField("phase", game.Phase()).Info("restored game from snapshot")
}

// NOTE: must only be called from the run loop
func (d *Dealer) tickGame() {
	game, ok := d.game.(playable.Tickable)
	if !ok {
		return
	}

	update, err := game.Tick()
	if err != nil {
		d.logger.WithError(err).Error("tick failed")
		return
	}

	if update {
		d.sendGameData()
		d.saveSnapshot()
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) saveSnapshot() {
	game, ok := d.game.(*euchre.Game)
	if !ok || d.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if game.Phase() == euchre.PhaseGameOver {
		if err := d.store.Remove(ctx, d.sessionID); err != nil {
			d.logger.WithError(err).Error("could not remove session snapshot")
		}

		return
	}

	data, err := game.Snapshot()
	if err != nil {
		d.logger.WithError(err).Error("could not snapshot game")
		return
	}

	if err := d.store.Save(ctx, d.sessionID, data); err != nil {
		d.logger.WithError(err).Error("could not save session snapshot")
	}
}

// AddClient adds a client
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	client.dealer = d
	d.clients[client] = true
	d.lock.Unlock()

	d.stateChanged <- stateClientEvent
	d.execInRunLoop <- func() {
		if len(d.logMessages) > 0 {
			client.Send(&playable.Response{
				Key:  "logs",
				Data: d.logMessages,
			})
		}

		if d.game == nil {
			return
		}

		gs, err := d.game.GetPlayerState(client.playerID)
		if err != nil {
			d.logger.WithError(err).Error("could not get player state")
			return
		}

		client.Send(gs)
	}
}

// RemoveClient removes a client
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	delete(d.clients, client)
	nClients := len(d.clients)
	d.lock.Unlock()

	if nClients > 0 {
		d.stateChanged <- stateClientEvent
		return false
	}

	return true
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	close(d.close)
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendGameEnded() {
	for _, client := range d.Clients() {
		client.Send(&playable.Response{
			Key: "gameEnded",
		})
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendGameData() {
	if d.game == nil {
		d.logger.Error("game state changed, but there's no active game")
		return
	}

	for _, client := range d.Clients() {
		data, err := d.game.GetPlayerState(client.playerID)
		if err != nil {
			d.logger.WithError(err).Error("could not get player state")
			continue
		}

		client.Send(data)
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendClientState() {
	connected := make(map[int64]bool)
	clients := d.Clients()
	for _, client := range clients {
		connected[client.playerID] = true
	}

	seats := make(map[euchre.Seat]*clientStateSeat)
	for seat, info := range d.seats {
		seats[seat] = &clientStateSeat{
			seatInfo:    info,
			IsConnected: connected[info.PlayerID],
		}
	}

	cs := &clientState{
		Seats:       seats,
		GameStarted: d.game != nil,
	}

	for _, client := range clients {
		client.Send(&playable.Response{
			Key:  "clientState",
			Data: cs,
		})
	}
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *playable.PayloadIn) {
	switch msg.Action {
	case "ping":
		c.Send(&playable.Response{Key: "pong", Context: msg.Context})
	case "resync":
		d.execInRunLoop <- func() {
			if d.game == nil {
				d.stateChanged <- stateClientEvent
				return
			}

			gs, err := d.game.GetPlayerState(c.playerID)
			if err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			c.Send(gs)
		}
	case "sit":
		d.execInRunLoop <- func() {
			if err := d.sitClient(c); err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			c.Send(playable.OK(msg.Context))
			d.stateChanged <- stateClientEvent
		}
	case "stand":
		d.execInRunLoop <- func() {
			if err := d.standClient(c); err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			c.Send(playable.OK(msg.Context))
			d.stateChanged <- stateClientEvent
		}
	case "terminate-game":
		d.execInRunLoop <- func() {
			d.game = nil
			d.saveSnapshotRemoval()
			d.stateChanged <- stateGameEnded
			c.Send(playable.OK(msg.Context))
		}
	default:
		d.execInRunLoop <- func() {
			d.gameAction(c, msg)
		}
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) saveSnapshotRemoval() {
	if d.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := d.store.Remove(ctx, d.sessionID); err != nil {
		d.logger.WithError(err).Error("could not remove session snapshot")
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) sitClient(c *Client) error {
	if d.game != nil {
		return errors.New("cannot change seats during a game")
	}

	for _, info := range d.seats {
		if info.PlayerID == c.playerID {
			return errors.New("player is already seated")
		}
	}

	for _, seat := range euchre.Seats {
		if _, taken := d.seats[seat]; !taken {
			d.seats[seat] = &seatInfo{
				PlayerID: c.playerID,
				Name:     c.name,
			}

			return nil
		}
	}

	return errors.New("all seats are taken")
}

// NOTE: must only be called from the run loop
func (d *Dealer) standClient(c *Client) error {
	if d.game != nil {
		return errors.New("cannot change seats during a game")
	}

	for seat, info := range d.seats {
		if info.PlayerID == c.playerID {
			delete(d.seats, seat)
			return nil
		}
	}

	return errors.New("player is not seated")
}

// NOTE: must only be called from the run loop
func (d *Dealer) gameAction(c *Client, msg *playable.PayloadIn) {
	if d.game == nil {
		if msg.Action != "start-game" {
			d.logger.WithField("msg", msg).Warn("unknown message")
			return
		}

		game, err := d.createGame()
		if err != nil {
			c.Send(newErrorResponse(msg.Context, err))
			return
		}

		d.game = game
		d.stateChanged <- stateClientEvent
	}

	action, updateState, err := d.game.Action(c.playerID, msg)
	if err != nil {
		d.logger.WithError(err).WithField("client", c.String()).Error("could not perform action")
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	if action != nil {
		action.Context = msg.Context
		c.Send(action)
	}

	if updateState {
		d.stateChanged <- stateGameEvent
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) createGame() (*euchre.Game, error) {
	playerIDs := make([]int64, 0, euchre.NumSeats)
	for _, seat := range euchre.Seats {
		info, ok := d.seats[seat]
		if !ok {
			return nil, euchre.ErrSeatsNotFilled
		}

		playerIDs = append(playerIDs, info.PlayerID)
	}

	return euchre.NewGame(d.logger, playerIDs, d.options)
}
