package mux

import (
	"net/http"

	"euchre-server/pkg/room"
)

type sessionResponse struct {
	SessionID string `json:"sessionId"`
}

// postSession creates a new session identifier.
// The session itself spins up when the first client connects to its websocket.
func (m *Mux) postSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, sessionResponse{
			SessionID: room.NewSessionID(),
		})
	}
}
