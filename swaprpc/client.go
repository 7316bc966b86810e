package swaprpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/xmrbtc/swapmon/consts"
	"github.com/xmrbtc/swapmon/eventbus"
	"github.com/xmrbtc/swapmon/logging"
)

// Outgoing call envelope.
type rpcRequest struct {
	Id     uint64      `json:"id"`
	Method string      `json:"method"`
	Params interface{} `json:"params,omitempty"`
}

// Incoming envelope, either a call response (Id set) or a push
// notification (Event set).
type rpcInbound struct {
	Id     *uint64         `json:"id,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
	Event  string          `json:"event,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Client speaks JSON over a single websocket to the swap daemon: requests
// matched to responses by nonce, plus a push stream of progress
// notifications that gets republished on the event bus.
type Client struct {
	conn       *websocket.Conn
	bus        *eventbus.EventBus
	instanceID string

	requestNonce    uint64
	requestNonceMtx sync.Mutex

	conMtx sync.Mutex

	respMtx          sync.Mutex
	responseChannels map[uint64]chan rpcInbound

	closeOnce sync.Once
}

// Dial connects to the daemon, starts the receive loop and subscribes to
// the notification stream.  The instance id distinguishes this client from
// other subscribers of the same daemon.
func Dial(daemonAddr, authToken string, bus *eventbus.EventBus) (*Client, error) {
	url := fmt.Sprintf("ws://%s/ws", daemonAddr)
	origin := fmt.Sprintf("http://%s/", daemonAddr)

	conn, err := websocket.Dial(url, "", origin)
	if err != nil {
		return nil, err
	}
	conn.MaxPayloadBytes = consts.RpcMaxMsgSize

	cli := &Client{
		conn:             conn,
		bus:              bus,
		instanceID:       uuid.New().String(),
		responseChannels: make(map[uint64]chan rpcInbound),
	}
	go cli.receiveLoop()

	var reply SubscribeReply
	err = cli.Call("Session.Subscribe", SubscribeArgs{
		ClientID:  cli.instanceID,
		AuthToken: authToken,
	}, &reply)
	if err != nil {
		cli.Close()
		return nil, fmt.Errorf("subscribing to daemon events: %s", err.Error())
	}
	logging.Infof("swaprpc: subscribed to daemon %s (version %s) as %s\n",
		daemonAddr, reply.DaemonVersion, cli.instanceID)
	return cli, nil
}

// InstanceID is the uuid this client subscribed under.
func (cli *Client) InstanceID() string {
	return cli.instanceID
}

// Call invokes a daemon method.  A nil reply means the caller doesn't care
// about the result and won't wait for it.
func (cli *Client) Call(serviceMethod string, args interface{}, reply interface{}) error {
	cli.requestNonceMtx.Lock()
	cli.requestNonce++
	nonce := cli.requestNonce
	cli.requestNonceMtx.Unlock()

	var respChan chan rpcInbound
	if reply != nil {
		respChan = make(chan rpcInbound, 1)
		cli.respMtx.Lock()
		cli.responseChannels[nonce] = respChan
		cli.respMtx.Unlock()
	}

	req := rpcRequest{Id: nonce, Method: serviceMethod, Params: args}
	cli.conMtx.Lock()
	err := websocket.JSON.Send(cli.conn, req)
	cli.conMtx.Unlock()
	if err != nil {
		cli.dropResponseChannel(nonce)
		return err
	}

	if reply == nil {
		return nil
	}

	select {
	case resp := <-respChan:
		if resp.Error != "" {
			return errors.New(resp.Error)
		}
		if resp.Result == nil {
			return fmt.Errorf("empty result for %s", serviceMethod)
		}
		return json.Unmarshal(resp.Result, reply)
	case <-time.After(consts.RpcCallTimeout):
		cli.dropResponseChannel(nonce)
		return fmt.Errorf("call %s timed out", serviceMethod)
	}
}

// ResolveApproval forwards a local accept/deny decision to the daemon.
// Satisfies approval.Resolver.
func (cli *Client) ResolveApproval(requestID string, accept bool) error {
	var reply ResolveApprovalReply
	err := cli.Call("Approval.Resolve", ResolveApprovalArgs{
		RequestID: requestID,
		Accept:    accept,
	}, &reply)
	if err != nil {
		return err
	}
	if !reply.Resolved {
		return fmt.Errorf("daemon refused to resolve approval %s", requestID)
	}
	return nil
}

// SwapSummary fetches the durable summary record for one swap.
func (cli *Client) SwapSummary(swapID string) (*Summary, error) {
	sum := new(Summary)
	err := cli.Call("Swap.Summary", SwapSummaryArgs{SwapID: swapID}, sum)
	if err != nil {
		return nil, err
	}
	return sum, nil
}

// Close tears down the websocket.  The receive loop exits on its own.
func (cli *Client) Close() error {
	var err error
	cli.closeOnce.Do(func() {
		err = cli.conn.Close()
	})
	return err
}

func (cli *Client) receiveLoop() {
	for {
		var in rpcInbound
		if err := websocket.JSON.Receive(cli.conn, &in); err != nil {
			logging.Warnf("swaprpc: receive loop ending: %s\n", err.Error())
			cli.Close()
			cli.bus.Publish(DaemonDisconnectedEvent{Err: err})
			return
		}

		if in.Event != "" {
			// Push notification.  Publishing synchronously from this
			// one goroutine is what keeps all store writes serialized.
			ev, err := DecodeNotification(in.Event, in.Params)
			if err != nil {
				logging.Warnf("swaprpc: bad %s notification, dropping: %s\n", in.Event, err.Error())
				continue
			}
			cli.bus.Publish(ev)
			continue
		}

		if in.Id == nil {
			logging.Warnf("swaprpc: message with neither id nor event, dropping\n")
			continue
		}
		cli.respMtx.Lock()
		respChan, ok := cli.responseChannels[*in.Id]
		if ok {
			delete(cli.responseChannels, *in.Id)
		}
		cli.respMtx.Unlock()
		if !ok {
			logging.Warnf("swaprpc: no caller waiting for response %d\n", *in.Id)
			continue
		}
		respChan <- in
	}
}

func (cli *Client) dropResponseChannel(nonce uint64) {
	cli.respMtx.Lock()
	delete(cli.responseChannels, nonce)
	cli.respMtx.Unlock()
}
