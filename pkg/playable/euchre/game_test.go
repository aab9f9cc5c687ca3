package euchre

import (
	"testing"
	"time"

	"euchre-server/pkg/deck"
	"euchre-server/pkg/playable"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRNG int

func (f fakeRNG) Intn(n int) int {
	return int(f) % n
}

// seat ids: south=1, west=2, north=3, east=4
func newTestGame(t *testing.T) *Game {
	t.Helper()

	g, err := NewGame(logrus.StandardLogger(), []int64{1, 2, 3, 4}, Options{NextHandDelay: time.Minute})
	require.NoError(t, err)

	return g
}

func id(seat Seat) int64 {
	return int64(seat) + 1
}

// setupBidding puts the game directly into the first bidding round with fixed hands
func setupBidding(g *Game, dealer Seat, upCard string, hands map[Seat]string) {
	g.dealer = dealer
	for seat, cards := range hands {
		g.players[seat].hand = deck.Hand(deck.CardsFromString(cards))
	}

	g.round = newRound(deck.CardFromString(upCard), deck.Hand(deck.CardsFromString("9c,9d,9s")))
	g.phase = PhaseOrderUpRound1
	g.turn = dealer.next()
}

// setupPlaying puts the game directly into trick play
func setupPlaying(g *Game, dealer Seat, trump deck.Suit, maker Seat, alone bool, hands map[Seat]string) {
	setupBidding(g, dealer, "9c", hands)
	g.round.Trump = trump
	g.round.Maker = maker
	g.round.Alone = alone
	if alone {
		g.round.SittingOut = maker.Partner()
	}

	g.phase = PhasePlayingTricks
	g.turn = nextSeat(dealer, alone, g.round.SittingOut)
}

func action(g *Game, seat Seat, payload *playable.PayloadIn) error {
	_, _, err := g.Action(id(seat), payload)
	return err
}

func TestNewGame(t *testing.T) {
	g, err := NewGame(logrus.StandardLogger(), []int64{1, 2, 3}, Options{})
	assert.Nil(t, g)
	assert.Equal(t, ErrSeatsNotFilled, err)

	g = newTestGame(t)
	assert.Equal(t, PhaseLobby, g.phase)
	assert.Equal(t, NoSeat, g.turn)
	assert.Equal(t, NoSeat, g.dealer)
	assert.Equal(t, map[Partnership]int{NorthSouth: 0, EastWest: 0}, g.Scores())

	assert.Equal(t, South, g.idToSeat[1])
	assert.Equal(t, East, g.idToSeat[4])
}

func TestGame_startGame(t *testing.T) {
	g := newTestGame(t)
	g.rng = fakeRNG(0) // first dealer is south

	assert.NoError(t, action(g, West, &playable.PayloadIn{Action: ActionStartGame}))
	assert.Equal(t, PhaseOrderUpRound1, g.phase)
	assert.Equal(t, South, g.dealer)
	assert.Equal(t, West, g.turn, "actor is left of dealer")

	// 5x4 hands + up-card + 3-card kitty = 24 unique cards
	seen := make(map[deck.Card]bool)
	record := func(c *deck.Card) {
		assert.False(t, seen[*c], "duplicate card: %s", c)
		seen[*c] = true
	}

	for _, seat := range Seats {
		assert.Equal(t, 5, len(g.players[seat].hand))
		for _, c := range g.players[seat].hand {
			record(c)
		}
	}

	require.NotNil(t, g.round.UpCard)
	record(g.round.UpCard)

	assert.Equal(t, 3, len(g.round.Kitty))
	for _, c := range g.round.Kitty {
		record(c)
	}

	assert.Equal(t, deck.Size, len(seen))
}

func TestGame_actionValidation(t *testing.T) {
	g := newTestGame(t)

	// unknown player
	_, _, err := g.Action(99, &playable.PayloadIn{Action: ActionStartGame})
	assert.Equal(t, ErrPlayerNotSeated, err)

	// unknown action
	assert.EqualError(t, action(g, South, &playable.PayloadIn{Action: "fold"}), "unknown action: fold")

	// wrong phase
	assert.Equal(t, ErrWrongPhase, action(g, South, &playable.PayloadIn{Action: ActionPlayCard}))

	g.rng = fakeRNG(0)
	assert.NoError(t, action(g, South, &playable.PayloadIn{Action: ActionStartGame}))
	assert.Equal(t, ErrWrongPhase, action(g, South, &playable.PayloadIn{Action: ActionStartGame}))

	// wrong actor is a no-op
	assert.Equal(t, ErrIsNotPlayersTurn, action(g, North, &playable.PayloadIn{Action: ActionOrderUp, Accept: true}))
	assert.Equal(t, PhaseOrderUpRound1, g.phase)
	assert.Equal(t, West, g.turn)
}

// the end-to-end bidding walkthrough: dealer south, up-card J♥
func TestGame_biddingWalkthrough(t *testing.T) {
	g := newTestGame(t)
	setupBidding(g, South, "11h", map[Seat]string{
		South: "9h,10h,12h,13h,14h",
		West:  "9d,10d,11d,12d,13d",
		North: "10c,11c,12c,13c,14c",
		East:  "9s,10s,11s,12s,13s",
	})

	// west accepts the order-up
	assert.NoError(t, action(g, West, &playable.PayloadIn{Action: ActionOrderUp, Accept: true}))
	assert.Equal(t, deck.Hearts, g.round.Trump)
	assert.Equal(t, West, g.round.Maker)
	assert.Equal(t, 6, len(g.players[South].hand), "dealer picked up the up-card")
	assert.Equal(t, PhaseAwaitingDealerDiscard, g.phase)
	assert.Equal(t, South, g.turn)

	// the discard must name a held card
	assert.Equal(t, ErrNoCardSpecified, action(g, South, &playable.PayloadIn{Action: ActionDealerDiscard}))
	assert.Equal(t, ErrCardNotInPlayersHand,
		action(g, South, &playable.PayloadIn{Action: ActionDealerDiscard, Card: deck.CardFromString("9c")}))
	assert.Equal(t, 6, len(g.players[South].hand))

	assert.NoError(t, action(g, South, &playable.PayloadIn{Action: ActionDealerDiscard, Card: deck.CardFromString("9h")}))
	assert.Equal(t, 5, len(g.players[South].hand))
	assert.Equal(t, 4, len(g.round.Kitty), "kitty grew by one")
	assert.Equal(t, PhaseAwaitingGoAlone, g.phase)
	assert.Equal(t, West, g.turn, "trump caller decides on going alone")

	// west declines to go alone
	assert.NoError(t, action(g, West, &playable.PayloadIn{Action: ActionGoAlone, Accept: false}))
	assert.Equal(t, PhasePlayingTricks, g.phase)
	assert.False(t, g.round.Alone)
	assert.Equal(t, West, g.turn, "left of dealer leads")
}

func TestGame_dealerDiscardHandSize(t *testing.T) {
	g := newTestGame(t)
	setupBidding(g, South, "11h", map[Seat]string{
		South: "9h,10h,12h,13h,14h",
		West:  "9d,10d,11d,12d,13d",
		North: "10c,11c,12c,13c,14c",
		East:  "9s,10s,11s,12s,13s",
	})

	g.phase = PhaseAwaitingDealerDiscard
	g.turn = South

	err := action(g, South, &playable.PayloadIn{Action: ActionDealerDiscard, Card: deck.CardFromString("9h")})
	assert.EqualError(t, err, "expected a hand of 6 cards, got 5")
	assert.Equal(t, 5, len(g.players[South].hand))
}

func TestGame_orderUpAllPass(t *testing.T) {
	g := newTestGame(t)
	setupBidding(g, South, "11h", map[Seat]string{
		South: "9h", West: "9d", North: "10c", East: "9s",
	})

	for _, seat := range []Seat{West, North, East, South} {
		assert.NoError(t, action(g, seat, &playable.PayloadIn{Action: ActionOrderUp, Accept: false}))
	}

	assert.Equal(t, PhaseOrderUpRound2, g.phase)
	assert.True(t, g.round.TurnedDown)
	assert.Equal(t, West, g.turn, "round two starts left of dealer")
}

func TestGame_callTrump(t *testing.T) {
	g := newTestGame(t)
	setupBidding(g, South, "11h", map[Seat]string{
		South: "9h", West: "9d", North: "10c", East: "9s",
	})
	g.phase = PhaseOrderUpRound2
	g.turn = West

	// naming the turned-down suit is rejected with no mutation
	err := action(g, West, &playable.PayloadIn{Action: ActionCallTrump, Suit: deck.Hearts})
	assert.Equal(t, ErrCannotNameTurnedDownSuit, err)
	assert.Equal(t, PhaseOrderUpRound2, g.phase)
	assert.Equal(t, West, g.turn)

	assert.EqualError(t, action(g, West, &playable.PayloadIn{Action: ActionCallTrump, Suit: "stars"}), "unknown suit: stars")

	assert.NoError(t, action(g, West, &playable.PayloadIn{Action: ActionCallTrump, Suit: deck.Diamonds}))
	assert.Equal(t, deck.Diamonds, g.round.Trump)
	assert.Equal(t, West, g.round.Maker)
	assert.Equal(t, PhaseAwaitingGoAlone, g.phase)
	assert.Equal(t, West, g.turn)
}

func TestGame_callTrumpRedeal(t *testing.T) {
	g := newTestGame(t)
	setupBidding(g, South, "11h", map[Seat]string{
		South: "9h", West: "9d", North: "10c", East: "9s",
	})
	g.phase = PhaseOrderUpRound2
	g.turn = West

	for _, seat := range []Seat{West, North, East} {
		assert.NoError(t, action(g, seat, &playable.PayloadIn{Action: ActionCallTrump}))
	}

	// the dealer's pass closes the round and forces a full redeal
	assert.NoError(t, action(g, South, &playable.PayloadIn{Action: ActionCallTrump}))
	assert.Equal(t, PhaseOrderUpRound1, g.phase)
	assert.Equal(t, West, g.dealer, "redeal rotates the dealer")
	assert.Equal(t, North, g.turn)

	for _, seat := range Seats {
		assert.Equal(t, 5, len(g.players[seat].hand))
	}
	assert.False(t, g.round.TurnedDown)
}

func TestGame_goAlone(t *testing.T) {
	g := newTestGame(t)
	setupBidding(g, West, "11h", map[Seat]string{
		South: "9h", West: "9d", North: "10c", East: "9s",
	})
	g.round.Trump = deck.Spades
	g.round.Maker = South
	g.phase = PhaseAwaitingGoAlone
	g.turn = South

	assert.Equal(t, ErrIsNotPlayersTurn, action(g, East, &playable.PayloadIn{Action: ActionGoAlone, Accept: true}))

	assert.NoError(t, action(g, South, &playable.PayloadIn{Action: ActionGoAlone, Accept: true}))
	assert.True(t, g.round.Alone)
	assert.Equal(t, North, g.round.SittingOut)
	assert.Equal(t, PhasePlayingTricks, g.phase)

	// left of dealer is north, who sits out; lead passes to east
	assert.Equal(t, East, g.turn)
}

func TestGame_playCard(t *testing.T) {
	g := newTestGame(t)
	setupPlaying(g, South, deck.Spades, North, false, map[Seat]string{
		South: "13c,9d",
		West:  "9c,14d",
		North: "14c,9h",
		East:  "10s,10d",
	})

	require.Equal(t, West, g.turn)

	// not your turn
	assert.Equal(t, ErrIsNotPlayersTurn, action(g, North, &playable.PayloadIn{Action: ActionPlayCard, Card: deck.CardFromString("14c")}))

	// west leads a club
	assert.NoError(t, action(g, West, &playable.PayloadIn{Action: ActionPlayCard, Card: deck.CardFromString("9c")}))
	assert.Equal(t, North, g.turn)

	// north holds a club and must follow suit
	assert.Equal(t, ErrMustFollowSuit, action(g, North, &playable.PayloadIn{Action: ActionPlayCard, Card: deck.CardFromString("9h")}))
	assert.Equal(t, ErrCardNotInPlayersHand, action(g, North, &playable.PayloadIn{Action: ActionPlayCard, Card: deck.CardFromString("13h")}))
	assert.NoError(t, action(g, North, &playable.PayloadIn{Action: ActionPlayCard, Card: deck.CardFromString("14c")}))

	// east is void in clubs and trumps in
	assert.NoError(t, action(g, East, &playable.PayloadIn{Action: ActionPlayCard, Card: deck.CardFromString("10s")}))

	// dealer follows suit; the trick resolves to east's trump
	assert.NoError(t, action(g, South, &playable.PayloadIn{Action: ActionPlayCard, Card: deck.CardFromString("13c")}))

	assert.Equal(t, 1, len(g.round.Completed))
	assert.Equal(t, East, g.round.Completed[0].Winner)
	assert.Equal(t, 1, g.players[East].TricksWon())
	assert.Equal(t, 0, len(g.round.Trick))
	assert.Equal(t, East, g.turn, "trick winner leads next")
	assert.Equal(t, PhasePlayingTricks, g.phase)
}

func TestGame_aloneTrickSize(t *testing.T) {
	g := newTestGame(t)
	setupPlaying(g, South, deck.Hearts, West, true, map[Seat]string{
		South: "13c,9d",
		West:  "9c,14d",
		North: "14c,9h",
		East:  "10s,10d",
	})

	require.Equal(t, East, g.round.SittingOut)
	require.Equal(t, West, g.turn)

	assert.NoError(t, action(g, West, &playable.PayloadIn{Action: ActionPlayCard, Card: deck.CardFromString("9c")}))
	assert.NoError(t, action(g, North, &playable.PayloadIn{Action: ActionPlayCard, Card: deck.CardFromString("14c")}))

	// the trick completes after three plays
	assert.NoError(t, action(g, South, &playable.PayloadIn{Action: ActionPlayCard, Card: deck.CardFromString("13c")}))
	assert.Equal(t, 1, len(g.round.Completed))
	assert.Equal(t, North, g.round.Completed[0].Winner)
}

func TestGame_handOverScoring(t *testing.T) {
	g := newTestGame(t)
	setupPlaying(g, South, deck.Spades, West, false, map[Seat]string{
		South: "13c",
		West:  "9c",
		North: "14c",
		East:  "10d",
	})

	// simulate four earlier tricks taken by north
	for i := 0; i < 4; i++ {
		g.round.Completed = append(g.round.Completed, &trick{Winner: North})
		g.players[North].wonTrick()
	}

	assert.NoError(t, action(g, West, &playable.PayloadIn{Action: ActionPlayCard, Card: deck.CardFromString("9c")}))
	assert.NoError(t, action(g, North, &playable.PayloadIn{Action: ActionPlayCard, Card: deck.CardFromString("14c")}))
	assert.NoError(t, action(g, East, &playable.PayloadIn{Action: ActionPlayCard, Card: deck.CardFromString("10d")}))
	assert.NoError(t, action(g, South, &playable.PayloadIn{Action: ActionPlayCard, Card: deck.CardFromString("13c")}))

	// north-south took all five: the east-west makers are euchred
	assert.Equal(t, PhaseHandOver, g.phase)
	assert.Equal(t, NoSeat, g.turn)
	assert.Equal(t, map[Partnership]int{NorthSouth: 2, EastWest: 0}, g.Scores())
	require.NotNil(t, g.pendingAction)
	assert.Equal(t, dealerActionNextHand, g.pendingAction.Action)
}

func TestGame_gameOver(t *testing.T) {
	g := newTestGame(t)
	setupPlaying(g, South, deck.Spades, North, false, map[Seat]string{
		South: "13c",
		West:  "9c",
		North: "14c",
		East:  "10d",
	})
	g.scores[NorthSouth] = 9

	for i := 0; i < 4; i++ {
		g.round.Completed = append(g.round.Completed, &trick{Winner: North})
		g.players[North].wonTrick()
	}

	assert.NoError(t, action(g, West, &playable.PayloadIn{Action: ActionPlayCard, Card: deck.CardFromString("9c")}))
	assert.NoError(t, action(g, North, &playable.PayloadIn{Action: ActionPlayCard, Card: deck.CardFromString("14c")}))
	assert.NoError(t, action(g, East, &playable.PayloadIn{Action: ActionPlayCard, Card: deck.CardFromString("10d")}))
	assert.NoError(t, action(g, South, &playable.PayloadIn{Action: ActionPlayCard, Card: deck.CardFromString("13c")}))

	// 9 + 2 crosses the target; the session is terminal immediately
	assert.Equal(t, PhaseGameOver, g.phase)
	assert.Equal(t, 11, g.Scores()[NorthSouth])
	assert.Nil(t, g.pendingAction, "no further hands are dealt")

	assert.Equal(t, ErrGameOver, action(g, South, &playable.PayloadIn{Action: ActionPlayCard, Card: deck.CardFromString("13c")}))
}

func TestGame_tick(t *testing.T) {
	g := newTestGame(t)

	update, err := g.Tick()
	assert.NoError(t, err)
	assert.False(t, update)

	g.sendUpdate = true
	update, err = g.Tick()
	assert.NoError(t, err)
	assert.True(t, update)

	g.dealer = South
	g.pendingAction = &pendingDealerAction{
		Action:       dealerActionNextHand,
		ExecuteAfter: time.Now().Add(-time.Second),
	}

	update, err = g.Tick()
	assert.NoError(t, err)
	assert.True(t, update)
	assert.Nil(t, g.pendingAction)
	assert.Equal(t, PhaseOrderUpRound1, g.phase)
	assert.Equal(t, West, g.dealer, "dealer rotates between hands")
	assert.Equal(t, time.Second, g.Delay())
}

func TestGame_snapshotRoundtrip(t *testing.T) {
	g := newTestGame(t)
	setupBidding(g, South, "11h", map[Seat]string{
		South: "9h,10h,12h,13h,14h",
		West:  "9d,10d,11d,12d,13d",
		North: "10c,11c,12c,13c,14c",
		East:  "9s,10s,11s,12s,13s",
	})
	g.scores[EastWest] = 4

	data, err := g.Snapshot()
	require.NoError(t, err)

	restored, err := RestoreGame(logrus.StandardLogger(), data)
	require.NoError(t, err)

	assert.Equal(t, PhaseOrderUpRound1, restored.phase)
	assert.Equal(t, South, restored.dealer)
	assert.Equal(t, West, restored.turn)
	assert.Equal(t, 4, restored.Scores()[EastWest])
	assert.Equal(t, "9d,10d,11d,12d,13d", restored.players[West].hand.String())
	assert.True(t, restored.round.UpCard.Equal(deck.CardFromString("11h")))

	// the restored game accepts the same action stream
	assert.NoError(t, action(restored, West, &playable.PayloadIn{Action: ActionOrderUp, Accept: true}))
	assert.Equal(t, PhaseAwaitingDealerDiscard, restored.phase)
}

func TestRestoreGame_corrupt(t *testing.T) {
	_, err := RestoreGame(logrus.StandardLogger(), []byte("not json"))
	assert.Error(t, err)

	_, err = RestoreGame(logrus.StandardLogger(), []byte(`{"players":{}}`))
	assert.Equal(t, ErrSeatsNotFilled, err)
}

func TestRestoreGame_handOverResumes(t *testing.T) {
	g := newTestGame(t)
	setupBidding(g, South, "11h", map[Seat]string{
		South: "9h", West: "9d", North: "10c", East: "9s",
	})
	g.phase = PhaseHandOver
	g.turn = NoSeat

	data, err := g.Snapshot()
	require.NoError(t, err)

	restored, err := RestoreGame(logrus.StandardLogger(), data)
	require.NoError(t, err)
	require.NotNil(t, restored.pendingAction)
	assert.Equal(t, dealerActionNextHand, restored.pendingAction.Action)
}
