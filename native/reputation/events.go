package reputation

import (
	"encoding/hex"
	"strconv"

	"bountychain/core/types"
)

// EventTypeGranted is emitted when the administrator grants reputation.
const EventTypeGranted = "reputation.granted"

// NewGrantedEvent returns the canonical event payload for an administrative
// grant.
func NewGrantedEvent(account [20]byte, amount, score uint64) *types.Event {
	return &types.Event{
		Type: EventTypeGranted,
		Attributes: map[string]string{
			"account": hex.EncodeToString(account[:]),
			"amount":  strconv.FormatUint(amount, 10),
			"score":   strconv.FormatUint(score, 10),
		},
	}
}
