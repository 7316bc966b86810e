package eventbus

// An Event is a description of something that has happened, routed to
// handlers by its name.
type Event interface {
	Name() string
	Flags() uint8
}

const (

	// EFLAG_NORMAL is a plain synchronous event.
	EFLAG_NORMAL = 0

	// EFLAG_UNCANCELLABLE means handlers cannot veto the event.
	EFLAG_UNCANCELLABLE = 1 << 0

	// EFLAG_ASYNC_UNSAFE runs handlers in their own goroutines.  Use
	// EFLAG_ASYNC instead, async events cannot be cancelled anyway.
	EFLAG_ASYNC_UNSAFE = 1 << 1

	// EFLAG_ASYNC is the flag combination for fire-and-forget events.
	EFLAG_ASYNC = EFLAG_ASYNC_UNSAFE | EFLAG_UNCANCELLABLE
)
