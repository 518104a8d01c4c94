package monitor

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// DefaultSubscriberBuffer is the per-subscriber queue depth.
const DefaultSubscriberBuffer = 64

// Broadcaster fans monitoring messages out to any number of subscribers.
// Delivery is best-effort per subscriber: a full queue drops its oldest
// entry rather than blocking the publisher, so a slow subscriber can never
// stall the watcher or its peers.
type Broadcaster struct {
	buffer int
	log    *zap.Logger

	seq int64

	mu         sync.RWMutex
	subs       map[int64]chan Message
	lastStatus *Status
}

// NewBroadcaster creates a broadcaster with the given per-subscriber queue
// depth (DefaultSubscriberBuffer when <= 0).
func NewBroadcaster(buffer int, log *zap.Logger) *Broadcaster {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Broadcaster{
		buffer: buffer,
		log:    log,
		subs:   make(map[int64]chan Message),
	}
}

// Subscribe attaches a new subscriber and returns its id and receive
// channel. If a status has been published, it is queued first so the
// subscriber observes current state before any event.
func (b *Broadcaster) Subscribe() (int64, <-chan Message) {
	id := atomic.AddInt64(&b.seq, 1)
	ch := make(chan Message, b.buffer)

	b.mu.Lock()
	if b.lastStatus != nil {
		st := *b.lastStatus
		ch <- Message{Type: MessageStatus, Status: &st}
	}
	b.subs[id] = ch
	b.mu.Unlock()

	return id, ch
}

// Unsubscribe detaches a subscriber and closes its channel. Unknown ids are
// ignored, so disconnect cleanup is safe to run more than once.
func (b *Broadcaster) Unsubscribe(id int64) {
	b.mu.Lock()
	ch, ok := b.subs[id]
	if ok {
		delete(b.subs, id)
	}
	b.mu.Unlock()

	if ok {
		close(ch)
	}
}

// Publish delivers a monitoring event to all current subscribers.
func (b *Broadcaster) Publish(evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	b.deliver(Message{Type: MessageFileEvent, Event: &evt})
}

// PublishStatus delivers a status change to all current subscribers and
// retains it for replay to future subscribers.
func (b *Broadcaster) PublishStatus(st Status) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastStatus = &st
	b.deliver(Message{Type: MessageStatus, Status: &st})
}

// deliver enqueues msg for every subscriber without ever blocking. Caller
// must hold b.mu (read or write). On a full queue the oldest entry is
// dropped to make room for the newest.
func (b *Broadcaster) deliver(msg Message) {
	for id, ch := range b.subs {
		select {
		case ch <- msg:
			continue
		default:
		}

		// Queue full: discard the oldest entry, then retry once. The inner
		// receive races benignly with the subscriber draining its channel.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- msg:
		default:
		}
		b.log.Debug("subscriber queue overflow, dropped oldest message",
			zap.Int64("subscriber_id", id))
	}
}

// SubscriberCount returns the number of attached subscribers.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
