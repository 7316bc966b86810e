package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xmrbtc/swapmon/approval"
	"github.com/xmrbtc/swapmon/bgtask"
	"github.com/xmrbtc/swapmon/mirror"
	"github.com/xmrbtc/swapmon/swaprpc"
	"github.com/xmrbtc/swapmon/timelock"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	dir, err := os.MkdirTemp("", "swapmon-client")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	c, err := New(Options{
		DaemonAddr:   "127.0.0.1:0",
		HistoryPath:  filepath.Join(dir, "history.db"),
		CancelOffset: 72,
		PunishOffset: 12,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(c.Stop)
	return c
}

func TestProgressEventsDriveMirror(t *testing.T) {
	c := newTestClient(t)

	c.Bus().Publish(swaprpc.SwapProgressEvent{
		SwapID: "swap-A",
		Event:  mirror.ProtocolEvent{Tag: mirror.TagBtcLockTxInMempool},
	})
	c.Bus().Publish(swaprpc.SwapProgressEvent{
		SwapID: "swap-A",
		Event:  mirror.ProtocolEvent{Tag: mirror.TagXmrLockTxConfirmed},
	})

	snap, ok := c.ActiveSwap()
	if !ok || snap.SwapID != "swap-A" {
		t.Fatalf("snapshot %+v (%t)", snap, ok)
	}
	if snap.Current.Tag != mirror.TagXmrLockTxConfirmed {
		t.Fatalf("current %s", snap.Current.Tag)
	}
	if snap.Previous == nil || snap.Previous.Tag != mirror.TagBtcLockTxInMempool {
		t.Fatalf("previous %v", snap.Previous)
	}

	state, ok := c.ActiveState()
	if !ok || state != "XmrLocked" {
		t.Fatalf("state %q (%t)", state, ok)
	}
}

func TestTimelockEventsDriveView(t *testing.T) {
	c := newTestClient(t)

	c.Bus().Publish(swaprpc.SwapProgressEvent{
		SwapID: "swap-A",
		Event:  mirror.ProtocolEvent{Tag: mirror.TagBtcLockTxInMempool},
	})
	c.Bus().Publish(swaprpc.SwapTimelockEvent{
		SwapID: "swap-A",
		Status: timelock.None{BlocksLeft: 0},
	})

	v, ok := c.ActiveTimelock()
	if !ok {
		t.Fatal("expected a timelock view")
	}
	if v.ActivePhase != timelock.PhaseRefund {
		t.Fatalf("phase %s", v.ActivePhase)
	}

	// Unknown swap ids don't create state.
	c.Bus().Publish(swaprpc.SwapTimelockEvent{
		SwapID: "swap-B",
		Status: timelock.Punish{},
	})
	v, _ = c.ActiveTimelock()
	if v.ActivePhase != timelock.PhaseRefund {
		t.Fatal("timelock for unknown swap applied")
	}
}

func TestApprovalEventsDriveStore(t *testing.T) {
	c := newTestClient(t)

	c.Bus().Publish(swaprpc.ApprovalRequestEvent{
		Request: approval.Request{RequestID: "r1", Kind: approval.KindLockBitcoin, ExpirationTs: 9999999999},
	})
	if len(c.PendingApprovals()) != 1 {
		t.Fatal("request not tracked")
	}

	// Without a daemon connection, local resolution fails and the
	// request stays pending.
	if err := c.Approve("r1"); err == nil {
		t.Fatal("approve without connection must fail")
	}
	if len(c.PendingApprovals()) != 1 {
		t.Fatal("failed approve removed the request")
	}

	c.Bus().Publish(swaprpc.ApprovalResolvedEvent{RequestID: "r1"})
	if len(c.PendingApprovals()) != 0 {
		t.Fatal("daemon resolution not applied")
	}
}

func TestBackgroundEventsDriveTracker(t *testing.T) {
	c := newTestClient(t)

	c.Bus().Publish(swaprpc.BackgroundProgressEvent{
		Status: bgtask.Status{ComponentID: "btc-1", Kind: bgtask.KindSyncingBitcoinWallet},
	})
	c.Bus().Publish(swaprpc.BackgroundProgressEvent{
		Status: bgtask.Status{ComponentID: "btc-2", Kind: bgtask.KindSyncingBitcoinWallet},
	})

	reps := c.BackgroundTasks()
	if len(reps) != 1 || reps[0].LiveCount != 2 {
		t.Fatalf("representatives %+v", reps)
	}
}
