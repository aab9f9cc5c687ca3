package euchre

import "time"

// dealerAction is an action the "dealer" takes on its own, such as dealing the next hand
type dealerAction int

const (
	dealerActionNextHand dealerAction = iota
)

type pendingDealerAction struct {
	Action       dealerAction
	ExecuteAfter time.Time
}
