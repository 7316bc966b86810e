package client

import (
	"fmt"
	"sync"
	"time"

	"github.com/xmrbtc/swapmon/approval"
	"github.com/xmrbtc/swapmon/bgtask"
	"github.com/xmrbtc/swapmon/consts"
	"github.com/xmrbtc/swapmon/eventbus"
	"github.com/xmrbtc/swapmon/history"
	"github.com/xmrbtc/swapmon/logging"
	"github.com/xmrbtc/swapmon/mirror"
	"github.com/xmrbtc/swapmon/swaprpc"
	"github.com/xmrbtc/swapmon/timelock"
)

// Options configures a Client.
type Options struct {
	DaemonAddr  string
	AuthToken   string
	HistoryPath string

	CancelOffset uint32
	PunishOffset uint32

	AutoReconnect     bool
	ReconnectInterval time.Duration
}

// Client owns the three stores of the protocol mirror and keeps them fed
// from the daemon's notification stream.  All store writes happen in bus
// handlers, which the RPC receive loop invokes from a single goroutine;
// readers get snapshots.
type Client struct {
	opts Options

	bus       *eventbus.EventBus
	hist      *history.Store
	mir       *mirror.Mirror
	approvals *approval.Store
	tasks     *bgtask.Tracker
	refresher *mirror.Refresher

	rpcMtx    sync.Mutex
	rpc       *swaprpc.Client
	connected bool

	quit chan struct{}
}

// New builds an unconnected client.  Call Connect to reach the daemon.
func New(opts Options) (*Client, error) {
	if opts.CancelOffset == 0 {
		opts.CancelOffset = consts.DefaultCancelTimelock
	}
	if opts.PunishOffset == 0 {
		opts.PunishOffset = consts.DefaultPunishTimelock
	}
	if opts.ReconnectInterval == 0 {
		opts.ReconnectInterval = time.Duration(consts.ReconnectInterval) * time.Second
	}

	hist, err := history.OpenStore(opts.HistoryPath)
	if err != nil {
		return nil, err
	}

	c := &Client{
		opts: opts,
		bus:  eventbus.NewEventBus(),
		hist: hist,
		quit: make(chan struct{}),
	}
	c.refresher = mirror.NewRefresher(c, consts.SummaryRefreshDebounce, consts.SummaryRefreshSpacing)
	c.mir = mirror.New(opts.CancelOffset, opts.PunishOffset, c.refresher)
	c.approvals = approval.NewStore(c)
	c.tasks = bgtask.NewTracker()

	c.registerHandlers()
	return c, nil
}

// Connect dials the daemon and subscribes to its notification stream.
func (c *Client) Connect() error {
	rpc, err := swaprpc.Dial(c.opts.DaemonAddr, c.opts.AuthToken, c.bus)
	if err != nil {
		return err
	}
	c.rpcMtx.Lock()
	c.rpc = rpc
	c.connected = true
	c.rpcMtx.Unlock()
	return nil
}

// Connected reports whether the daemon link is up.
func (c *Client) Connected() bool {
	c.rpcMtx.Lock()
	defer c.rpcMtx.Unlock()
	return c.connected
}

// Stop tears everything down.
func (c *Client) Stop() {
	close(c.quit)
	c.refresher.Stop()
	c.rpcMtx.Lock()
	if c.rpc != nil {
		c.rpc.Close()
		c.rpc = nil
		c.connected = false
	}
	c.rpcMtx.Unlock()
	c.hist.Close()
}

func (c *Client) currentRPC() (*swaprpc.Client, error) {
	c.rpcMtx.Lock()
	defer c.rpcMtx.Unlock()
	if c.rpc == nil || !c.connected {
		return nil, fmt.Errorf("not connected to the daemon")
	}
	return c.rpc, nil
}

// ResolveApproval satisfies approval.Resolver by forwarding to the daemon.
func (c *Client) ResolveApproval(requestID string, accept bool) error {
	rpc, err := c.currentRPC()
	if err != nil {
		return err
	}
	return rpc.ResolveApproval(requestID, accept)
}

// FetchSummary satisfies mirror.SummaryFetcher: pull the durable summary
// from the daemon and cache it in the history store.
func (c *Client) FetchSummary(swapID string) error {
	rpc, err := c.currentRPC()
	if err != nil {
		return err
	}
	sum, err := rpc.SwapSummary(swapID)
	if err != nil {
		return err
	}
	return c.hist.SaveSummary(sum)
}

func (c *Client) registerHandlers() {
	c.bus.RegisterHandler(swaprpc.EventSwapProgress, func(e eventbus.Event) eventbus.EventHandleResult {
		ev := e.(swaprpc.SwapProgressEvent)
		c.mir.ApplyProgress(ev.SwapID, ev.Event)
		return eventbus.EHANDLE_OK
	})

	c.bus.RegisterHandler(swaprpc.EventSwapTimelock, func(e eventbus.Event) eventbus.EventHandleResult {
		ev := e.(swaprpc.SwapTimelockEvent)
		c.mir.ApplyTimelock(ev.SwapID, ev.Status)
		return eventbus.EHANDLE_OK
	})

	c.bus.RegisterHandler(swaprpc.EventApprovalRequest, func(e eventbus.Event) eventbus.EventHandleResult {
		ev := e.(swaprpc.ApprovalRequestEvent)
		c.approvals.OnRequest(ev.Request)
		return eventbus.EHANDLE_OK
	})

	c.bus.RegisterHandler(swaprpc.EventApprovalResolved, func(e eventbus.Event) eventbus.EventHandleResult {
		ev := e.(swaprpc.ApprovalResolvedEvent)
		c.approvals.OnDaemonResolved(ev.RequestID)
		return eventbus.EHANDLE_OK
	})

	c.bus.RegisterHandler(swaprpc.EventBackgroundProgress, func(e eventbus.Event) eventbus.EventHandleResult {
		ev := e.(swaprpc.BackgroundProgressEvent)
		c.tasks.Apply(ev.Status)
		return eventbus.EHANDLE_OK
	})

	c.bus.RegisterHandler(swaprpc.EventDaemonDisconnected, func(e eventbus.Event) eventbus.EventHandleResult {
		c.rpcMtx.Lock()
		c.connected = false
		c.rpcMtx.Unlock()
		logging.Warnln("client: daemon connection lost")
		if c.opts.AutoReconnect {
			go c.reconnectLoop()
		}
		return eventbus.EHANDLE_OK
	})
}

func (c *Client) reconnectLoop() {
	for {
		select {
		case <-c.quit:
			return
		case <-time.After(c.opts.ReconnectInterval):
		}
		if err := c.Connect(); err != nil {
			logging.Warnf("client: reconnect failed: %s\n", err.Error())
			continue
		}
		logging.Infoln("client: reconnected to daemon")
		return
	}
}

// Bus exposes the event bus, mostly so tests and embedders can inject
// events the way the receive loop does.
func (c *Client) Bus() *eventbus.EventBus {
	return c.bus
}

// ActiveSwap returns a snapshot of the foregrounded swap.
func (c *Client) ActiveSwap() (mirror.Snapshot, bool) {
	return c.mir.Snapshot()
}

// ActiveState derives the current protocol state name, when the latest
// event maps to one.
func (c *Client) ActiveState() (s string, ok bool) {
	name, ok := c.mir.StateName()
	return string(name), ok
}

// ActiveTimelock returns the three-segment countdown view for the
// foregrounded swap.
func (c *Client) ActiveTimelock() (timelock.View, bool) {
	return c.mir.TimelockView()
}

// PendingApprovals lists pending approval requests, oldest first.
func (c *Client) PendingApprovals() []approval.Request {
	return c.approvals.Pending()
}

// ApprovalRemainingMillis is the countdown for one pending request.
func (c *Client) ApprovalRemainingMillis(requestID string) (int64, bool) {
	return c.approvals.RemainingMillis(requestID, time.Now())
}

// Approve resolves a pending request positively, Deny negatively.
func (c *Client) Approve(requestID string) error {
	return c.approvals.Resolve(requestID, true)
}

func (c *Client) Deny(requestID string) error {
	return c.approvals.Resolve(requestID, false)
}

// BackgroundTasks returns the deduplicated per-kind display list.
func (c *Client) BackgroundTasks() []bgtask.Representative {
	return c.tasks.Representatives()
}

// Summaries lists the cached swap history.
func (c *Client) Summaries() ([]*swaprpc.Summary, error) {
	return c.hist.ListSummaries()
}

// Summary returns one swap's summary, from the cache if present, else
// fetched from the daemon and cached.
func (c *Client) Summary(swapID string) (*swaprpc.Summary, error) {
	if sum, err := c.hist.LoadSummary(swapID); err == nil {
		return sum, nil
	}
	if err := c.FetchSummary(swapID); err != nil {
		return nil, err
	}
	return c.hist.LoadSummary(swapID)
}
