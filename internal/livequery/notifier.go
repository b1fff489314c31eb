package livequery

import (
	"context"
	"sync"
)

// Events is one subscriber's notification channel for a topic. Notifications
// are coalesced ticks: they say "the record set changed", not what changed.
type Events interface {
	C() <-chan struct{}
	Close()
}

type Notifier interface {
	Publish(ctx context.Context, topic string)
	Subscribe(topic string) Events
}

// MemoryNotifier is the single-node notifier. It backs tests and deployments
// without redis.
type MemoryNotifier struct {
	mu   sync.Mutex
	subs map[string]map[*memoryEvents]struct{}
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{subs: make(map[string]map[*memoryEvents]struct{})}
}

func (n *MemoryNotifier) Publish(_ context.Context, topic string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for sub := range n.subs[topic] {
		select {
		case sub.ch <- struct{}{}:
		default:
			// A pending tick already forces a reload; dropping is safe.
		}
	}
}

func (n *MemoryNotifier) Subscribe(topic string) Events {
	sub := &memoryEvents{notifier: n, topic: topic, ch: make(chan struct{}, 1)}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs[topic] == nil {
		n.subs[topic] = make(map[*memoryEvents]struct{})
	}
	n.subs[topic][sub] = struct{}{}
	return sub
}

type memoryEvents struct {
	notifier *MemoryNotifier
	topic    string
	ch       chan struct{}
	once     sync.Once
}

func (e *memoryEvents) C() <-chan struct{} {
	return e.ch
}

func (e *memoryEvents) Close() {
	e.once.Do(func() {
		e.notifier.mu.Lock()
		defer e.notifier.mu.Unlock()
		delete(e.notifier.subs[e.topic], e)
		if len(e.notifier.subs[e.topic]) == 0 {
			delete(e.notifier.subs, e.topic)
		}
	})
}
