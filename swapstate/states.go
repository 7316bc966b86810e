package swapstate

import "fmt"

// StateName is one point in the atomic swap protocol as the daemon reports
// it.  The set is closed: every function in this package switches over all
// of these explicitly and panics on anything else, because quietly
// misclassifying a swap as safe or finished is how people lose money.
type StateName string

const (
	Started               StateName = "Started"
	SetupCompleted        StateName = "SetupCompleted"
	BtcLocked             StateName = "BtcLocked"
	XmrLockProofReceived  StateName = "XmrLockProofReceived"
	XmrLocked             StateName = "XmrLocked"
	EncSigSent            StateName = "EncSigSent"
	BtcRedeemed           StateName = "BtcRedeemed"
	CancelTimelockExpired StateName = "CancelTimelockExpired"
	BtcCancelled          StateName = "BtcCancelled"
	BtcRefundPublished    StateName = "BtcRefundPublished"
	BtcRefunded           StateName = "BtcRefunded"
	EarlyRefundPublished  StateName = "EarlyRefundPublished"
	EarlyRefunded         StateName = "EarlyRefunded"
	BtcPunished           StateName = "BtcPunished"
	XmrRedeemed           StateName = "XmrRedeemed"
	SafelyAborted         StateName = "SafelyAborted"
)

// All returns every protocol state.  Mostly useful for exhaustiveness tests.
func All() []StateName {
	return []StateName{
		Started, SetupCompleted, BtcLocked, XmrLockProofReceived,
		XmrLocked, EncSigSent, BtcRedeemed, CancelTimelockExpired,
		BtcCancelled, BtcRefundPublished, BtcRefunded,
		EarlyRefundPublished, EarlyRefunded, BtcPunished, XmrRedeemed,
		SafelyAborted,
	}
}

// Known reports whether s is a member of the closed state set.  Data from
// outside the process goes through this before reaching the classifiers,
// which panic on anything unknown.
func Known(s StateName) bool {
	for _, v := range All() {
		if s == v {
			return true
		}
	}
	return false
}

func unhandled(fn string, s StateName) string {
	return fmt.Sprintf("swapstate: %s: unhandled protocol state %q", fn, s)
}

// IsCompleted reports whether the swap reached a terminal state and will not
// progress any further.
func IsCompleted(s StateName) bool {
	switch s {
	case XmrRedeemed, BtcRefunded, EarlyRefunded, BtcPunished, SafelyAborted:
		return true
	case Started, SetupCompleted, BtcLocked, XmrLockProofReceived,
		XmrLocked, EncSigSent, BtcRedeemed, CancelTimelockExpired,
		BtcCancelled, BtcRefundPublished, EarlyRefundPublished:
		return false
	}
	panic(unhandled("IsCompleted", s))
}

// IsRunning reports whether funds are locked and the outcome is still
// undecided.  Pre-lock states and terminal states are not running.
func IsRunning(s StateName) bool {
	switch s {
	case BtcLocked, XmrLockProofReceived, XmrLocked, EncSigSent,
		BtcRedeemed, CancelTimelockExpired, BtcCancelled,
		BtcRefundPublished, EarlyRefundPublished:
		return true
	case Started, SetupCompleted,
		XmrRedeemed, BtcRefunded, EarlyRefunded, BtcPunished,
		SafelyAborted:
		return false
	}
	panic(unhandled("IsRunning", s))
}

// IsPossiblyCancellable reports whether the bitcoin is locked but not yet
// redeemed, cancelled, refunded or punished, so publishing the cancel tx may
// still be an option.
func IsPossiblyCancellable(s StateName) bool {
	switch s {
	case BtcLocked, XmrLockProofReceived, XmrLocked, EncSigSent,
		CancelTimelockExpired:
		return true
	case Started, SetupCompleted, BtcRedeemed, BtcCancelled,
		BtcRefundPublished, BtcRefunded, EarlyRefundPublished,
		EarlyRefunded, BtcPunished, XmrRedeemed, SafelyAborted:
		return false
	}
	panic(unhandled("IsPossiblyCancellable", s))
}

// IsPossiblyRefundable is IsPossiblyCancellable plus the already-cancelled
// but not-yet-refunded case.
func IsPossiblyRefundable(s StateName) bool {
	switch s {
	case BtcLocked, XmrLockProofReceived, XmrLocked, EncSigSent,
		CancelTimelockExpired, BtcCancelled:
		return true
	case Started, SetupCompleted, BtcRedeemed, BtcRefundPublished,
		BtcRefunded, EarlyRefundPublished, EarlyRefunded, BtcPunished,
		XmrRedeemed, SafelyAborted:
		return false
	}
	panic(unhandled("IsPossiblyRefundable", s))
}
