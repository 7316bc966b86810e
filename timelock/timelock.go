package timelock

// Status is the daemon's view of where a swap sits relative to its bitcoin
// timelocks.  Exactly one variant is active at a time and transitions only
// run None -> Cancel -> Punish, never backwards.
type Status interface {
	Kind() string

	// AbsoluteBlock places the status on a single block axis where 0 is
	// the lock confirmation, cancelOffset is the cancel boundary and
	// cancelOffset+punishOffset is the punish boundary.  Guarded against
	// underflow, the result is never "negative".
	AbsoluteBlock(cancelOffset, punishOffset uint32) uint32
}

// None means the cancel timelock has not expired yet.
type None struct {
	BlocksLeft uint32
}

// Cancel means the cancel timelock expired but the punish timelock has not.
type Cancel struct {
	BlocksLeft uint32
}

// Punish means the punish timelock expired and there is no refund window
// left.
type Punish struct{}

func (None) Kind() string   { return "none" }
func (Cancel) Kind() string { return "cancel" }
func (Punish) Kind() string { return "punish" }

func (t None) AbsoluteBlock(cancelOffset, punishOffset uint32) uint32 {
	if t.BlocksLeft > cancelOffset {
		return 0
	}
	return cancelOffset - t.BlocksLeft
}

func (t Cancel) AbsoluteBlock(cancelOffset, punishOffset uint32) uint32 {
	total := cancelOffset + punishOffset
	if t.BlocksLeft > punishOffset {
		// A cancel status can never sit before the cancel boundary.
		return cancelOffset
	}
	return total - t.BlocksLeft
}

func (Punish) AbsoluteBlock(cancelOffset, punishOffset uint32) uint32 {
	return cancelOffset + punishOffset
}
