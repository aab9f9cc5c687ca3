package euchre

import (
	"fmt"
	"time"

	"euchre-server/internal/rng"
	"euchre-server/pkg/deck"
	"euchre-server/pkg/playable"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Game is a four-seat partnership game of euchre.
// All methods must be called from a single goroutine; the room dealer's run
// loop serializes access.
type Game struct {
	options  Options
	players  map[Seat]*Player
	idToSeat map[int64]Seat
	scores   map[Partnership]int

	dealer Seat
	phase  Phase
	turn   Seat
	round  *round

	rng     rng.Generator
	logger  logrus.FieldLogger
	logChan chan []*playable.LogMessage

	pendingAction *pendingDealerAction

	// sendUpdate will trigger a state broadcast on the next tick if true
	sendUpdate bool
}

// NewGame returns a new euchre game in the lobby phase.
// playerIDs must hold exactly four ids, in seat order south, west, north, east.
func NewGame(logger logrus.FieldLogger, playerIDs []int64, opts Options) (*Game, error) {
	if len(playerIDs) != NumSeats {
		return nil, ErrSeatsNotFilled
	}

	if opts.TargetScore <= 0 {
		opts.TargetScore = DefaultOptions().TargetScore
	}

	if opts.NextHandDelay <= 0 {
		opts.NextHandDelay = DefaultOptions().NextHandDelay
	}

	players := make(map[Seat]*Player)
	idToSeat := make(map[int64]Seat)
	for i, pid := range playerIDs {
		seat := Seats[i]
		players[seat] = NewPlayer(pid, seat)
		idToSeat[pid] = seat
	}

	scores := make(map[Partnership]int)
	for _, p := range Partnerships {
		scores[p] = 0
	}

	g := &Game{
		options:  opts,
		players:  players,
		idToSeat: idToSeat,
		scores:   scores,
		dealer:   NoSeat,
		phase:    PhaseLobby,
		turn:     NoSeat,
		rng:      rng.Crypto{},
		logger:   logger,
		logChan:  make(chan []*playable.LogMessage, 256),
	}

	return g, nil
}

// Name returns "euchre"
func (g *Game) Name() string {
	return "euchre"
}

// LogChan returns a channel for sending log messages
func (g *Game) LogChan() <-chan []*playable.LogMessage {
	return g.logChan
}

// Delay determines how often Tick() should be called
func (g *Game) Delay() time.Duration {
	return time.Second
}

// Tick will check the state of the game and possibly move the state along
func (g *Game) Tick() (bool, error) {
	if g.sendUpdate {
		g.sendUpdate = false
		return true, nil
	}

	if g.pendingAction != nil && time.Now().After(g.pendingAction.ExecuteAfter) {
		action := g.pendingAction.Action
		g.pendingAction = nil

		switch action {
		case dealerActionNextHand:
			g.startHand()
		default:
			panic(fmt.Sprintf("unknown dealer action: %d", action))
		}

		return true, nil
	}

	return false, nil
}

// Action performs an action for the player.
// Any violation of phase, turn, or card legality returns an error to the
// caller and leaves shared state untouched.
func (g *Game) Action(playerID int64, message *playable.PayloadIn) (playerResponse *playable.Response, updateState bool, err error) {
	seat, ok := g.idToSeat[playerID]
	if !ok {
		return nil, false, ErrPlayerNotSeated
	}

	if g.phase == PhaseGameOver {
		return nil, false, ErrGameOver
	}

	phase, ok := actionPhases[message.Action]
	if !ok {
		return nil, false, fmt.Errorf("unknown action: %s", message.Action)
	}

	if g.phase != phase {
		return nil, false, ErrWrongPhase
	}

	if message.Action != ActionStartGame && seat != g.turn {
		return nil, false, ErrIsNotPlayersTurn
	}

	log := g.logger.WithFields(logrus.Fields{
		"seat":   seat,
		"action": message.Action,
	})

	switch message.Action {
	case ActionStartGame:
		log.Debug("start game")
		g.startHand()
	case ActionOrderUp:
		log.WithField("accept", message.Accept).Debug("order-up decision")
		g.orderUpDecision(seat, message.Accept)
	case ActionDealerDiscard:
		log.WithField("card", message.Card).Debug("dealer discard")
		if err := g.dealerDiscard(seat, message.Card); err != nil {
			return nil, false, err
		}
	case ActionCallTrump:
		log.WithField("suit", message.Suit).Debug("call-trump decision")
		if err := g.callTrumpDecision(seat, message.Suit); err != nil {
			return nil, false, err
		}
	case ActionGoAlone:
		log.WithField("accept", message.Accept).Debug("go-alone decision")
		g.goAloneDecision(seat, message.Accept)
	case ActionPlayCard:
		log.WithField("card", message.Card).Debug("play card")
		if err := g.playCard(seat, message.Card); err != nil {
			return nil, false, err
		}
	}

	return playable.OK(), true, nil
}

// startHand deals a fresh hand: rotate the dealer, shuffle, deal five cards
// per seat starting left of the dealer, expose the up-card, bank the kitty
func (g *Game) startHand() {
	g.phase = PhaseDealing

	if g.dealer == NoSeat {
		g.dealer = Seats[g.rng.Intn(NumSeats)]
	} else {
		g.dealer = g.dealer.next()
	}

	d := deck.New()
	d.Shuffle(g.options.Seed)

	for _, player := range g.players {
		player.newHand()
	}

	for i := 0; i < handSize; i++ {
		seat := g.dealer
		for j := 0; j < NumSeats; j++ {
			seat = seat.next()

			card, err := d.Draw()
			if err != nil {
				panic(err)
			}

			g.players[seat].AddCard(card)
		}
	}

	upCard, err := d.Draw()
	if err != nil {
		panic(err)
	}

	kitty := make(deck.Hand, 0, kittySize+1)
	for d.CanDraw(1) {
		card, _ := d.Draw()
		kitty.AddCard(card)
	}

	g.round = newRound(upCard, kitty)
	g.phase = PhaseOrderUpRound1
	g.turn = g.dealer.next()

	g.sendLogMessages(
		g.newLogMessage(g.dealer, nil, "{} deals"),
		g.newLogMessage(NoSeat, upCard, "The up-card is showing"),
	)
}

// orderUpDecision handles the first bidding round
func (g *Game) orderUpDecision(seat Seat, accept bool) {
	r := g.round

	if accept {
		r.Trump = r.UpCard.Suit
		r.Maker = seat
		g.players[g.dealer].AddCard(r.UpCard)

		g.phase = PhaseAwaitingDealerDiscard
		g.turn = g.dealer

		g.sendLogMessages(g.newLogMessage(seat, r.UpCard, "{} ordered up %s", r.Trump))
		return
	}

	g.sendLogMessages(g.newLogMessage(seat, nil, "{} passed"))

	if seat == g.dealer {
		// round one is exhausted; turn the card down
		r.TurnedDown = true
		g.phase = PhaseOrderUpRound2
		g.turn = g.dealer.next()

		g.sendLogMessages(g.newLogMessage(g.dealer, r.UpCard, "{} turned the up-card down"))
		return
	}

	g.turn = g.turn.next()
}

// dealerDiscard moves the named card from the dealer's hand to the kitty
func (g *Game) dealerDiscard(seat Seat, card *deck.Card) error {
	if card == nil {
		return ErrNoCardSpecified
	}

	player := g.players[seat]
	if n := len(player.hand); n != handSize+1 {
		return HandSizeError(n)
	}

	if err := player.removeCard(card); err != nil {
		return err
	}

	g.round.Kitty.AddCard(card)

	g.phase = PhaseAwaitingGoAlone
	g.turn = g.round.Maker

	g.sendLogMessages(g.newLogMessage(seat, nil, "{} discarded"))
	return nil
}

// callTrumpDecision handles the second bidding round. Naming the turned-down
// suit is rejected outright; the dealer's pass forces a full redeal.
func (g *Game) callTrumpDecision(seat Seat, suit deck.Suit) error {
	r := g.round

	if suit == "" {
		g.sendLogMessages(g.newLogMessage(seat, nil, "{} passed"))

		if seat == g.dealer {
			g.sendLogMessages(g.newLogMessage(NoSeat, nil, "All four seats passed; redealing"))
			g.startHand()
			return nil
		}

		g.turn = g.turn.next()
		return nil
	}

	switch suit {
	case deck.Hearts, deck.Diamonds, deck.Clubs, deck.Spades:
	default:
		return fmt.Errorf("unknown suit: %s", suit)
	}

	if suit == r.UpCard.Suit {
		return ErrCannotNameTurnedDownSuit
	}

	r.Trump = suit
	r.Maker = seat

	g.phase = PhaseAwaitingGoAlone
	g.turn = seat

	g.sendLogMessages(g.newLogMessage(seat, nil, "{} called %s", suit))
	return nil
}

// goAloneDecision records whether the maker plays without their partner,
// then starts trick play with the seat left of the dealer leading
func (g *Game) goAloneDecision(seat Seat, accept bool) {
	r := g.round

	if accept {
		r.Alone = true
		r.SittingOut = seat.Partner()

		g.sendLogMessages(g.newLogMessage(seat, nil, "{} is going alone"))
	}

	g.phase = PhasePlayingTricks
	g.turn = nextSeat(g.dealer, r.Alone, r.SittingOut)
}

// playCard plays the card for the seat, resolving the trick and possibly the
// hand when complete
func (g *Game) playCard(seat Seat, card *deck.Card) error {
	if card == nil {
		return ErrNoCardSpecified
	}

	r := g.round
	player := g.players[seat]

	if !player.HasCard(card) {
		return ErrCardNotInPlayersHand
	}

	if len(r.Trick) > 0 {
		led := effectiveLedSuit(r.Trick, r.Trump)
		if deck.EffectiveSuit(card, r.Trump) != led && player.hand.HasEffectiveSuit(led, r.Trump) {
			return ErrMustFollowSuit
		}
	}

	if err := player.removeCard(card); err != nil {
		// already checked above
		panic(err)
	}

	r.Trick = append(r.Trick, &playedCard{Seat: seat, Card: card})
	g.sendLogMessages(g.newLogMessage(seat, card, "{} played a card"))

	if len(r.Trick) < r.expectedTrickSize() {
		g.turn = nextSeat(seat, r.Alone, r.SittingOut)
		return nil
	}

	winner := evaluateTrick(r.Trick, r.Trump)
	g.players[winner].wonTrick()
	r.Completed = append(r.Completed, &trick{Plays: r.Trick, Winner: winner})
	r.Trick = nil

	g.sendLogMessages(g.newLogMessage(winner, nil, "{} won the trick"))

	if len(g.players[winner].hand) == 0 {
		g.endHand()
		return nil
	}

	g.turn = winner
	return nil
}

// endHand invokes the scoring engine and either finishes the game or
// schedules the next hand
func (g *Game) endHand() {
	r := g.round

	g.phase = PhaseHandOver
	g.turn = NoSeat

	tricks := r.partnershipTricks()
	makers := PartnershipOf(r.Maker)
	points, makerAwarded := scoreHand(tricks[makers], tricks[makers.Opponent()], r.Alone)

	awarded := makers
	if !makerAwarded {
		awarded = makers.Opponent()
	}

	g.scores[awarded] += points

	if makerAwarded {
		g.sendLogMessages(g.newLogMessage(NoSeat, nil, "The %s partnership scored %d", awarded, points))
	} else {
		g.sendLogMessages(g.newLogMessage(NoSeat, nil, "Euchre! The %s partnership scored %d", awarded, points))
	}

	if g.scores[awarded] >= g.options.TargetScore {
		g.phase = PhaseGameOver
		g.sendLogMessages(g.newLogMessage(NoSeat, nil, "The %s partnership won the game %d to %d",
			awarded, g.scores[awarded], g.scores[awarded.Opponent()]))
		return
	}

	g.pendingAction = &pendingDealerAction{
		Action:       dealerActionNextHand,
		ExecuteAfter: time.Now().Add(g.options.NextHandDelay),
	}
}

// Scores returns a copy of the partnership scores
func (g *Game) Scores() map[Partnership]int {
	scores := make(map[Partnership]int)
	for p, s := range g.scores {
		scores[p] = s
	}

	return scores
}

// Phase returns the current phase
func (g *Game) Phase() Phase {
	return g.phase
}

// Seating returns the player occupying each seat
func (g *Game) Seating() map[Seat]int64 {
	seating := make(map[Seat]int64, len(g.players))
	for seat, player := range g.players {
		seating[seat] = player.PlayerID
	}

	return seating
}

func (g *Game) sendLogMessages(msg ...*playable.LogMessage) {
	if g.logChan != nil {
		select {
		case g.logChan <- msg:
		default:
		}
	}
}

func (g *Game) newLogMessage(seat Seat, card *deck.Card, format string, a ...interface{}) *playable.LogMessage {
	var playerIDs []int64
	if seat != NoSeat {
		playerIDs = []int64{g.players[seat].PlayerID}
	}

	var cards []*deck.Card
	if card != nil {
		cards = append(cards, card)
	}

	return &playable.LogMessage{
		UUID:      uuid.New().String(),
		PlayerIDs: playerIDs,
		Cards:     cards,
		Message:   fmt.Sprintf(format, a...),
		Time:      time.Now(),
	}
}
