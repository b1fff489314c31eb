package livequery

import (
	"context"
	"sync"

	"skillbridge/internal/common"
)

// LoadFunc produces the full, ordered snapshot of the watched record set.
// It is re-run on every change notification; a snapshot is never a diff.
type LoadFunc func(ctx context.Context) (interface{}, error)

// DeliverFunc pushes one snapshot to the subscriber. A non-nil error stops
// the stream (the subscriber is gone).
type DeliverFunc func(snapshot interface{}) error

// ErrorFunc surfaces a failed reload. Prior data stays stale on the
// subscriber side; the stream keeps running.
type ErrorFunc func(err error)

type Manager struct {
	notifier Notifier
}

func NewManager(notifier Notifier) *Manager {
	return &Manager{notifier: notifier}
}

// Open loads and delivers the current snapshot, then re-delivers a fresh full
// snapshot after every notification on topic until the stream is cancelled or
// ctx ends. The initial load failing fails Open itself, so a stream that
// exists has always delivered at least one snapshot.
func (m *Manager) Open(ctx context.Context, topic string, load LoadFunc, deliver DeliverFunc, onError ErrorFunc) (*Stream, error) {
	snapshot, err := load(ctx)
	if err != nil {
		return nil, common.NewError(common.CodeUnavailable, "failed to load snapshot", err)
	}

	events := m.notifier.Subscribe(topic)
	s := &Stream{
		events:  events,
		deliver: deliver,
		onError: onError,
		done:    make(chan struct{}),
	}
	if !s.emit(snapshot) {
		s.Cancel()
		events.Close()
		return nil, common.NewError(common.CodeUnavailable, "subscriber rejected initial snapshot", nil)
	}

	go s.run(ctx, load)
	return s, nil
}

type Stream struct {
	events  Events
	deliver DeliverFunc
	onError ErrorFunc

	mu       sync.Mutex
	closed   bool
	done     chan struct{}
	stopOnce sync.Once
}

func (s *Stream) run(ctx context.Context, load LoadFunc) {
	defer s.events.Close()
	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			return
		case _, ok := <-s.events.C():
			if !ok {
				return
			}
			snapshot, err := load(ctx)
			if err != nil {
				s.emitError(err)
				continue
			}
			if !s.emit(snapshot) {
				return
			}
		}
	}
}

// emit delivers under the stream mutex so Cancel can fence: once Cancel has
// observed the lock, no further delivery can begin.
func (s *Stream) emit(snapshot interface{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	return s.deliver(snapshot) == nil
}

// emitError is fenced the same way as emit: after Cancel returns, a reload
// that was still in flight fails silently instead of invoking the callback.
func (s *Stream) emitError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.onError == nil {
		return
	}
	s.onError(err)
}

// Cancel synchronously stops the stream. An in-flight delivery may complete
// before Cancel returns, but no delivery or error callback starts afterwards.
func (s *Stream) Cancel() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.done)
	})
}
