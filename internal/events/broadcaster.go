package events

import (
	"io"
	"log/slog"
	"sync"
	"time"
)

// flusher is implemented by transports that buffer writes (http.Flusher).
type flusher interface {
	Flush()
}

type subscriber struct {
	id int64
	w  io.Writer

	// wmu serializes writes so frames from concurrent broadcasts
	// cannot interleave on one connection.
	wmu  sync.Mutex
	done chan struct{}
}

func (s *subscriber) write(frame []byte) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	if _, err := s.w.Write(frame); err != nil {
		return err
	}
	if f, ok := s.w.(flusher); ok {
		f.Flush()
	}
	return nil
}

// Broadcaster delivers point-to-multipoint event notifications over
// persistent one-way connections and cleans up dead connections without
// disrupting others.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[int64]*subscriber
	lastID int64
	closed bool
}

// NewBroadcaster creates an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[int64]*subscriber),
	}
}

// Subscribe registers a new output connection and immediately sends a
// synthetic `connected` event carrying the assigned identifier. The
// returned channel is closed when the subscriber is removed, either by
// Unsubscribe, a failed write, or Close.
func (b *Broadcaster) Subscribe(w io.Writer) (int64, <-chan struct{}, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return 0, nil, io.ErrClosedPipe
	}

	// IDs derive from creation time but stay strictly increasing even
	// when two subscribers arrive within the clock resolution.
	id := time.Now().UnixNano()
	if id <= b.lastID {
		id = b.lastID + 1
	}
	b.lastID = id

	sub := &subscriber{
		id:   id,
		w:    w,
		done: make(chan struct{}),
	}
	b.subs[id] = sub
	b.mu.Unlock()

	frame, err := Frame(Event{
		Kind:      KindConnected,
		Payload:   map[string]any{"subscriberId": id},
		Timestamp: time.Now().UTC(),
	})
	if err == nil {
		err = sub.write(frame)
	}
	if err != nil {
		b.Unsubscribe(id)
		return 0, nil, err
	}

	slog.Debug("subscriber connected", "subscriber_id", id)
	return id, sub.done, nil
}

// Unsubscribe removes a subscriber from the registry. Removing an
// already-removed or unknown id is a no-op.
func (b *Broadcaster) Unsubscribe(id int64) {
	b.mu.Lock()
	sub, ok := b.subs[id]
	if ok {
		delete(b.subs, id)
	}
	b.mu.Unlock()

	if ok {
		close(sub.done)
		slog.Debug("subscriber removed", "subscriber_id", id)
	}
}

// Broadcast sends an event with the current timestamp to every
// registered subscriber. A write failure removes the offending
// subscriber and is logged, never propagated: delivery to the remaining
// subscribers always continues.
func (b *Broadcaster) Broadcast(kind Kind, payload any) {
	frame, err := Frame(Event{
		Kind:      kind,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		slog.Error("dropping undeliverable event", "kind", string(kind), "error", err)
		return
	}

	// Snapshot under the read lock so concurrent subscribe/unsubscribe
	// calls cannot corrupt the iteration; removal happens afterwards.
	b.mu.RLock()
	targets := make([]*subscriber, 0, len(b.subs))
	for _, sub := range b.subs {
		targets = append(targets, sub)
	}
	b.mu.RUnlock()

	for _, sub := range targets {
		if err := sub.write(frame); err != nil {
			slog.Warn("subscriber write failed, removing",
				"subscriber_id", sub.id,
				"kind", string(kind),
				"error", err)
			b.Unsubscribe(sub.id)
		}
	}
}

// Count returns the number of registered subscribers.
func (b *Broadcaster) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close removes all subscribers and rejects further Subscribe calls.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	b.closed = true
	subs := b.subs
	b.subs = make(map[int64]*subscriber)
	b.mu.Unlock()

	for _, sub := range subs {
		close(sub.done)
	}
}
