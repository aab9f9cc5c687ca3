package euchre

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeat_Partner(t *testing.T) {
	assert.Equal(t, North, South.Partner())
	assert.Equal(t, East, West.Partner())
	assert.Equal(t, South, North.Partner())
	assert.Equal(t, West, East.Partner())
}

func TestPartnershipOf(t *testing.T) {
	assert.Equal(t, NorthSouth, PartnershipOf(South))
	assert.Equal(t, NorthSouth, PartnershipOf(North))
	assert.Equal(t, EastWest, PartnershipOf(West))
	assert.Equal(t, EastWest, PartnershipOf(East))
}

func TestPartnership_Opponent(t *testing.T) {
	assert.Equal(t, EastWest, NorthSouth.Opponent())
	assert.Equal(t, NorthSouth, EastWest.Opponent())
}

func Test_nextSeat(t *testing.T) {
	assert.Equal(t, West, nextSeat(South, false, NoSeat))
	assert.Equal(t, North, nextSeat(West, false, NoSeat))
	assert.Equal(t, East, nextSeat(North, false, NoSeat))
	assert.Equal(t, South, nextSeat(East, false, NoSeat))
}

func Test_nextSeat_alone(t *testing.T) {
	// north sits out: it must never be selected
	assert.Equal(t, West, nextSeat(South, true, North))
	assert.Equal(t, East, nextSeat(West, true, North))
	assert.Equal(t, South, nextSeat(East, true, North))

	// the sitting-out seat is only skipped while alone is active
	assert.Equal(t, North, nextSeat(West, false, North))
}

func TestSeat_json(t *testing.T) {
	data, err := json.Marshal(map[Seat]int{South: 1, East: 2})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"south":1,"east":2}`, string(data))

	var m map[Seat]int
	assert.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, 1, m[South])
	assert.Equal(t, 2, m[East])

	var s Seat
	assert.Error(t, s.UnmarshalText([]byte("middle")))
}

func TestPartnership_json(t *testing.T) {
	data, err := json.Marshal(map[Partnership]int{NorthSouth: 10, EastWest: 4})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"north-south":10,"east-west":4}`, string(data))
}
