package swaprpc

import (
	"encoding/json"
	"fmt"

	"github.com/xmrbtc/swapmon/approval"
	"github.com/xmrbtc/swapmon/bgtask"
	"github.com/xmrbtc/swapmon/eventbus"
	"github.com/xmrbtc/swapmon/mirror"
	"github.com/xmrbtc/swapmon/timelock"
)

// Names of the push notifications the daemon sends.  Store handlers
// register under these on the event bus.
const (
	EventSwapProgress       = "swap.progress"
	EventSwapTimelock       = "swap.timelock"
	EventApprovalRequest    = "approval.request"
	EventApprovalResolved   = "approval.resolved"
	EventBackgroundProgress = "background.progress"
	EventDaemonDisconnected = "daemon.disconnected"
)

// All daemon notifications are delivered synchronously on the receive loop
// goroutine, which is what serializes every store write.  Uncancellable
// because no handler gets to veto what already happened.
func notifyFlags() uint8 { return eventbus.EFLAG_UNCANCELLABLE }

type SwapProgressEvent struct {
	SwapID string               `json:"swap_id"`
	Event  mirror.ProtocolEvent `json:"event"`
}

func (SwapProgressEvent) Name() string { return EventSwapProgress }
func (SwapProgressEvent) Flags() uint8 { return notifyFlags() }

type SwapTimelockEvent struct {
	SwapID string
	Status timelock.Status
}

func (SwapTimelockEvent) Name() string { return EventSwapTimelock }
func (SwapTimelockEvent) Flags() uint8 { return notifyFlags() }

type ApprovalRequestEvent struct {
	Request approval.Request
}

func (ApprovalRequestEvent) Name() string { return EventApprovalRequest }
func (ApprovalRequestEvent) Flags() uint8 { return notifyFlags() }

type ApprovalResolvedEvent struct {
	RequestID string `json:"request_id"`
}

func (ApprovalResolvedEvent) Name() string { return EventApprovalResolved }
func (ApprovalResolvedEvent) Flags() uint8 { return notifyFlags() }

type BackgroundProgressEvent struct {
	Status bgtask.Status
}

func (BackgroundProgressEvent) Name() string { return EventBackgroundProgress }
func (BackgroundProgressEvent) Flags() uint8 { return notifyFlags() }

// DaemonDisconnectedEvent is synthesized locally when the websocket dies.
type DaemonDisconnectedEvent struct {
	Err error
}

func (DaemonDisconnectedEvent) Name() string { return EventDaemonDisconnected }
func (DaemonDisconnectedEvent) Flags() uint8 { return notifyFlags() }

type timelockWire struct {
	SwapID   string          `json:"swap_id"`
	Timelock json.RawMessage `json:"timelock"`
}

// DecodeNotification turns a daemon push into a typed bus event.
func DecodeNotification(name string, params json.RawMessage) (eventbus.Event, error) {
	switch name {
	case EventSwapProgress:
		var ev SwapProgressEvent
		if err := json.Unmarshal(params, &ev); err != nil {
			return nil, err
		}
		if ev.SwapID == "" || ev.Event.Tag == "" {
			return nil, fmt.Errorf("swap progress notification missing swap_id or tag")
		}
		return ev, nil

	case EventSwapTimelock:
		var wire timelockWire
		if err := json.Unmarshal(params, &wire); err != nil {
			return nil, err
		}
		status, err := timelock.StatusFromJSON(wire.Timelock)
		if err != nil {
			return nil, err
		}
		return SwapTimelockEvent{SwapID: wire.SwapID, Status: status}, nil

	case EventApprovalRequest:
		var req approval.Request
		if err := json.Unmarshal(params, &req); err != nil {
			return nil, err
		}
		if req.RequestID == "" {
			return nil, fmt.Errorf("approval request notification missing request_id")
		}
		return ApprovalRequestEvent{Request: req}, nil

	case EventApprovalResolved:
		var ev ApprovalResolvedEvent
		if err := json.Unmarshal(params, &ev); err != nil {
			return nil, err
		}
		return ev, nil

	case EventBackgroundProgress:
		var st bgtask.Status
		if err := json.Unmarshal(params, &st); err != nil {
			return nil, err
		}
		if st.ComponentID == "" {
			return nil, fmt.Errorf("background progress notification missing component_id")
		}
		return BackgroundProgressEvent{Status: st}, nil
	}
	return nil, fmt.Errorf("unknown notification %q", name)
}
