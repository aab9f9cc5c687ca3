// Command client is a line-based terminal client for the euchre server.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"euchre-server/pkg/client"
	"euchre-server/pkg/deck"
	"euchre-server/pkg/storage"

	"github.com/sirupsen/logrus"
)

var (
	server   = flag.String("server", "localhost:5080", "server address")
	session  = flag.String("session", "", "session id (required)")
	playerID = flag.Int64("player", 0, "player id (required)")
	name     = flag.String("name", "", "display name")
)

func main() {
	flag.Parse()

	if *session == "" || *playerID <= 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger := logrus.StandardLogger()

	url := fmt.Sprintf("ws://%s/session/%s/ws?playerId=%d&name=%s", *server, *session, *playerID, *name)
	transport := client.NewWebSocketTransport(logger, url)

	cm := client.NewConnManager(logger, transport, client.DefaultOptions())
	defer cm.Dispose()

	sync := client.NewSyncService(logger, storage.NewMemory(), *session)
	sync.Attach(cm, transport)
	sync.OnChange(printState)

	cm.OnStatusChange(func(s client.Status) {
		fmt.Printf("* connection %s\n", s)
	})
	cm.OnFailure(func(err error) {
		logger.WithError(err).Fatal("gave up reconnecting")
	})

	if err := cm.Connect(context.Background()); err != nil {
		logger.WithError(err).Fatal("could not connect")
	}

	fmt.Println("commands: sit, stand, start, order <y|n>, discard <card>, call <suit|pass>, alone <y|n>, play <card>, quit")
	fmt.Println("cards are rank+suit, e.g. 11h for the jack of hearts")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" {
			return
		}

		if err := handleCommand(cm, line); err != nil {
			fmt.Printf("! %v\n", err)
		}
	}
}

type actionPayload struct {
	Accept bool       `json:"accept"`
	Card   *deck.Card `json:"card,omitempty"`
	Suit   deck.Suit  `json:"suit,omitempty"`
}

func handleCommand(cm *client.ConnManager, line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}

	switch cmd {
	case "sit":
		return cm.Send("sit", nil)
	case "stand":
		return cm.Send("stand", nil)
	case "start":
		return cm.Send("start-game", nil)
	case "order":
		return cm.Send("order-up-decision", actionPayload{Accept: arg == "y"})
	case "discard":
		card, err := parseCard(arg)
		if err != nil {
			return err
		}

		return cm.Send("dealer-discard", actionPayload{Card: card})
	case "call":
		if arg == "pass" || arg == "" {
			return cm.Send("call-trump-decision", nil)
		}

		return cm.Send("call-trump-decision", actionPayload{Suit: deck.Suit(arg)})
	case "alone":
		return cm.Send("go-alone-decision", actionPayload{Accept: arg == "y"})
	case "play":
		card, err := parseCard(arg)
		if err != nil {
			return err
		}

		return cm.Send("play-card", actionPayload{Card: card})
	}

	return fmt.Errorf("unknown command: %s", cmd)
}

func parseCard(s string) (card *deck.Card, err error) {
	defer func() {
		if r := recover(); r != nil {
			card, err = nil, fmt.Errorf("bad card: %s", s)
		}
	}()

	return deck.CardFromString(s), nil
}

func printState(state *client.CachedState) {
	fmt.Printf("= phase=%s turn=%s trump=%s scores=%v\n", state.Phase, state.CurrentTurn, state.Trump, state.Scores)

	if len(state.Hand) > 0 {
		cards := make([]string, len(state.Hand))
		for i, c := range state.Hand {
			cards[i] = fmt.Sprintf("%d%s", c.Rank, string(c.Suit[0]))
		}
		fmt.Printf("  hand: %s\n", strings.Join(cards, " "))
	}

	for _, play := range state.Trick {
		if play.Card != nil {
			fmt.Printf("  %s played %d of %s\n", play.Seat, play.Card.Rank, play.Card.Suit)
		}
	}
}
