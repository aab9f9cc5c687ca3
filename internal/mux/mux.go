// Package mux provides the HTTP and websocket surface for the game server.
package mux

import (
	"net/http"

	"euchre-server/pkg/room"

	gmux "github.com/gorilla/mux"
)

const uuidPattern = `(?i)[a-f0-9]{8}(?:-[a-f0-9]{4}){3}-[a-f0-9]{12}`

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	pitBoss *room.PitBoss
}

// NewMux returns a new HTTP mux
func NewMux(version string, pitBoss *room.PitBoss) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		pitBoss: pitBoss,
	}

	r := this.Router
	r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	r.Methods(http.MethodPost).Path("/session").Handler(this.postSession())
	r.Methods(http.MethodGet).Path("/session/{uuid:" + uuidPattern + "}/ws").Handler(this.getSessionUUIDWS())

	return this
}
