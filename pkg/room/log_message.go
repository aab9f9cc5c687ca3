package room

import (
	"euchre-server/pkg/playable"
)

const logMessageLimit = 25

// addLogMessages appends game log messages, keeping only the most recent
// NOTE: must only be called from the run loop
func (d *Dealer) addLogMessages(messages []*playable.LogMessage) {
	m := append(d.logMessages, messages...)
	count := len(m)
	if count > logMessageLimit {
		m = m[count-logMessageLimit:]
	}

	d.logMessages = m
}
