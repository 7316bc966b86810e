package swaprpc

// Args and reply shapes for calls into the swap daemon.  The daemon owns
// the wire protocol; these are just the JSON shapes this client speaks.

type SubscribeArgs struct {
	ClientID  string `json:"client_id"`
	AuthToken string `json:"auth_token,omitempty"`
}

type SubscribeReply struct {
	DaemonVersion string `json:"daemon_version"`
}

type ResolveApprovalArgs struct {
	RequestID string `json:"request_id"`
	Accept    bool   `json:"accept"`
}

type ResolveApprovalReply struct {
	Resolved bool `json:"resolved"`
}

type SwapSummaryArgs struct {
	SwapID string `json:"swap_id"`
}

// Summary is the durable per-swap record the daemon keeps.  The client
// caches these in the history store after a refresh.
type Summary struct {
	SwapID      string `json:"swap_id"`
	StateName   string `json:"state_name"`
	Maker       string `json:"maker"`
	BtcAmount   int64  `json:"btc_amount_sat"`
	XmrAmount   uint64 `json:"xmr_amount_piconero"`
	TxLockID    string `json:"tx_lock_id,omitempty"`
	StartedAt   int64  `json:"started_at"`
	CompletedAt int64  `json:"completed_at,omitempty"`
}
