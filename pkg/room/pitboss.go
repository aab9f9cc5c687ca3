package room

import (
	"euchre-server/pkg/persist"
	"euchre-server/pkg/playable/euchre"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PitBoss is responsible for dispatching players to game sessions
type PitBoss struct {
	logger     logrus.FieldLogger
	store      *persist.Store
	options    euchre.Options
	dealers    map[string]*Dealer
	connect    chan *Client
	disconnect chan *Client
}

// NewPitBoss returns a new dispatch object
// The store may be nil, in which case sessions are not persisted.
func NewPitBoss(logger logrus.FieldLogger, store *persist.Store, options euchre.Options) *PitBoss {
	return &PitBoss{
		logger:     logger,
		store:      store,
		options:    options,
		dealers:    make(map[string]*Dealer),
		connect:    make(chan *Client, 256),
		disconnect: make(chan *Client, 256),
	}
}

// NewSessionID returns a unique identifier for a new session
func NewSessionID() string {
	return uuid.New().String()
}

// StartShift starts the PitBoss run loop
func (p *PitBoss) StartShift() {
	go p.runLoop()
}

func (p *PitBoss) runLoop() {
	for {
		select {
		case client := <-p.connect:
			p.logger.WithField("player", client.String()).Debug("client connected")
			dealer, found := p.dealers[client.sessionID]
			if !found {
				dealer = NewDealer(p, p.logger, client.sessionID, p.store, p.options)
				dealer.StartShift()
				p.dealers[client.sessionID] = dealer
			}

			dealer.AddClient(client)
		case client := <-p.disconnect:
			p.logger.WithField("player", client.String()).Debug("client disconnected")
			dealer, found := p.dealers[client.sessionID]
			if !found {
				p.logger.WithField("session", client.sessionID).Error("session not found")
				continue
			}

			if dealer.RemoveClient(client) {
				dealer.EndShift()
				delete(p.dealers, client.sessionID)
			}
		}
	}
}

// ClientConnected is called when a client connects to the server
func (p *PitBoss) ClientConnected(client *Client) {
	p.connect <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (p *PitBoss) ClientDisconnected(client *Client) {
	p.disconnect <- client
}
