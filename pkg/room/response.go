package room

import (
	"euchre-server/pkg/playable"
	"euchre-server/pkg/playable/euchre"
)

// clientState is the roster view sent to every client on join/leave/seat changes
type clientState struct {
	Seats       map[euchre.Seat]*clientStateSeat `json:"seats"`
	GameStarted bool                             `json:"gameStarted"`
}

type clientStateSeat struct {
	*seatInfo
	IsConnected bool `json:"isConnected"`
}

func newErrorResponse(ctx string, err error) *playable.Response {
	return &playable.Response{
		Key:     "error",
		Value:   err.Error(),
		Context: ctx,
	}
}
