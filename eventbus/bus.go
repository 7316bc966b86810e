package eventbus

import (
	"fmt"
	"sync"

	"github.com/xmrbtc/swapmon/logging"
)

// EventHandleResult is what a handler returns to say what should happen to
// the event after it ran.
type EventHandleResult uint8

const (

	// EHANDLE_OK means the event should proceed.
	EHANDLE_OK EventHandleResult = 0

	// EHANDLE_CANCEL means the event should be cancelled.
	EHANDLE_CANCEL EventHandleResult = 1
)

type eventhandler struct {
	handleFunc func(Event) EventHandleResult

	// A handler never races against itself, even for async events.
	mutex sync.Mutex
}

// An EventBus routes published events to the handlers registered under the
// event's name.
type EventBus struct {
	mutex    sync.Mutex
	handlers map[string][]*eventhandler
}

// NewEventBus creates an event bus with no handlers registered.
func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[string][]*eventhandler),
	}
}

// RegisterHandler adds a handler function for the given event name.
func (b *EventBus) RegisterHandler(eventName string, hFunc func(Event) EventHandleResult) {
	b.mutex.Lock()
	b.handlers[eventName] = append(b.handlers[eventName], &eventhandler{handleFunc: hFunc})
	b.mutex.Unlock()
	logging.Debugf("eventbus: registered handler for %s\n", eventName)
}

// CountHandlers reports how many handlers are registered under a name.
func (b *EventBus) CountHandlers(eventName string) int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.handlers[eventName])
}

// Publish delivers an event to its handlers.  For sync events the returned
// bool is false if any handler cancelled the event.
func (b *EventBus) Publish(event Event) (bool, error) {
	if err := checkEventSanity(event); err != nil {
		return true, err
	}

	// Snapshot the handler list so slow handlers don't hold up
	// registration.
	b.mutex.Lock()
	src := b.handlers[event.Name()]
	hs := make([]*eventhandler, len(src))
	copy(hs, src)
	b.mutex.Unlock()

	f := event.Flags()
	async := f&EFLAG_ASYNC_UNSAFE != 0
	uncancellable := f&EFLAG_UNCANCELLABLE != 0

	ok := true
	for _, h := range hs {
		if async {
			go h.call(event)
			continue
		}
		if h.call(event) == EHANDLE_CANCEL && !uncancellable {
			ok = false
		}
	}
	return ok, nil
}

// PublishNonblocking hands an async event off without waiting for handlers.
func (b *EventBus) PublishNonblocking(event Event) error {
	if event.Flags()&EFLAG_ASYNC_UNSAFE == 0 {
		return fmt.Errorf("event %s is not async, cannot publish nonblocking", event.Name())
	}
	go b.Publish(event)
	return nil
}

func (h *eventhandler) call(event Event) EventHandleResult {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.handleFunc(event)
}

func checkEventSanity(e Event) error {
	f := e.Flags()

	// An async publisher returns before handlers run, so a cancellable
	// async event makes no sense.
	if f&EFLAG_ASYNC_UNSAFE != 0 && f&EFLAG_UNCANCELLABLE == 0 {
		return fmt.Errorf("event %s flagged async but cancellable, use EFLAG_ASYNC", e.Name())
	}
	return nil
}
