package mirror

import (
	"encoding/json"

	"github.com/xmrbtc/swapmon/swapstate"
)

// ProtocolEvent is one progress milestone pushed by the daemon.  The tag
// names a transition, not a state; the current state name is derived from
// the most recent tag.  Details carries the tag-specific payload, which
// this layer keeps opaque.
type ProtocolEvent struct {
	Tag     string          `json:"tag"`
	Details json.RawMessage `json:"details,omitempty"`
}

// Progress event tags the daemon emits.  Tags overlap with but are not the
// same set as the protocol state names.
const (
	TagSwapStarted               = "SwapStarted"
	TagSwapSetupCompleted        = "SwapSetupCompleted"
	TagBtcLockTxInMempool        = "BtcLockTxInMempool"
	TagXmrLockProofReceived      = "XmrLockProofReceived"
	TagXmrLockTxConfirmed        = "XmrLockTxConfirmed"
	TagEncryptedSignatureSent    = "EncryptedSignatureSent"
	TagBtcRedeemTxInMempool      = "BtcRedeemTxInMempool"
	TagCancelTimelockExpired     = "CancelTimelockExpired"
	TagBtcCancelTxInMempool      = "BtcCancelTxInMempool"
	TagBtcRefundTxInMempool      = "BtcRefundTxInMempool"
	TagBtcRefunded               = "BtcRefunded"
	TagBtcEarlyRefundTxInMempool = "BtcEarlyRefundTxInMempool"
	TagBtcEarlyRefunded          = "BtcEarlyRefunded"
	TagBtcPunished               = "BtcPunished"
	TagXmrRedeemTxInMempool      = "XmrRedeemTxInMempool"
	TagSwapSafelyAborted         = "SwapSafelyAborted"

	// TagSwapReleased is a pure milestone: the daemon finished working on
	// the swap and released its lock on it.  It maps to no state.
	TagSwapReleased = "SwapReleased"
)

var tagStates = map[string]swapstate.StateName{
	TagSwapStarted:               swapstate.Started,
	TagSwapSetupCompleted:        swapstate.SetupCompleted,
	TagBtcLockTxInMempool:        swapstate.BtcLocked,
	TagXmrLockProofReceived:      swapstate.XmrLockProofReceived,
	TagXmrLockTxConfirmed:        swapstate.XmrLocked,
	TagEncryptedSignatureSent:    swapstate.EncSigSent,
	TagBtcRedeemTxInMempool:      swapstate.BtcRedeemed,
	TagCancelTimelockExpired:     swapstate.CancelTimelockExpired,
	TagBtcCancelTxInMempool:      swapstate.BtcCancelled,
	TagBtcRefundTxInMempool:      swapstate.BtcRefundPublished,
	TagBtcRefunded:               swapstate.BtcRefunded,
	TagBtcEarlyRefundTxInMempool: swapstate.EarlyRefundPublished,
	TagBtcEarlyRefunded:          swapstate.EarlyRefunded,
	TagBtcPunished:               swapstate.BtcPunished,
	TagXmrRedeemTxInMempool:      swapstate.XmrRedeemed,
	TagSwapSafelyAborted:         swapstate.SafelyAborted,
}

// StateFor maps an event tag to the protocol state it lands the swap in.
// Milestone-only tags and unknown tags return false.
func StateFor(tag string) (swapstate.StateName, bool) {
	s, ok := tagStates[tag]
	return s, ok
}

// terminalLooking reports whether an event should trigger a durable summary
// refresh: either it lands the swap in a completed state, or the daemon
// released the swap.
func terminalLooking(ev ProtocolEvent) bool {
	if ev.Tag == TagSwapReleased {
		return true
	}
	if s, ok := StateFor(ev.Tag); ok {
		return swapstate.IsCompleted(s)
	}
	return false
}
