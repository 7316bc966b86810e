package consts

import "time"

// commonly used constants that can be used anywhere, without ambiguity
const (
	DefaultCancelTimelock  = uint32(72)              // blocks until the cancel path opens
	DefaultPunishTimelock  = uint32(72)              // blocks from cancel until punishment
	MinVisibleFraction     = 0.05                    // progress bars never render narrower than this
	ApprovalTickInterval   = 250 * time.Millisecond  // countdown refresh for pending approvals
	SummaryRefreshDebounce = 2 * time.Second         // quiet period before a summary refresh fires
	SummaryRefreshSpacing  = 10 * time.Second        // minimum gap between refreshes per swap
	RpcCallTimeout         = 10 * time.Second        // daemon calls that take longer are abandoned
	RpcMaxMsgSize          = 1 << 24                 // largest daemon message we will read
	ReconnectInterval      = int64(30)               // seconds between reconnect attempts
)
