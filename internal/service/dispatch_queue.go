package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/scholarship-portal-api/internal/observability"
)

// StatusNotifier accepts status change events after the review write has committed.
type StatusNotifier interface {
	Notify(event StatusChangeEvent)
}

// DispatchQueue runs the notification dispatcher on a fixed worker pool so mail
// latency never reaches the HTTP response. A full buffer spills into a waiting
// goroutine instead of dropping the event.
type DispatchQueue struct {
	dispatcher NotificationDispatcher
	jobs       chan StatusChangeEvent
	timeout    time.Duration
	logger     zerolog.Logger

	mu      sync.Mutex
	closed  bool
	spill   sync.WaitGroup
	workers sync.WaitGroup
}

// NewDispatchQueue starts the workers.
func NewDispatchQueue(dispatcher NotificationDispatcher, workers, size int, timeout time.Duration, logger zerolog.Logger) *DispatchQueue {
	if workers <= 0 {
		workers = 1
	}
	if size <= 0 {
		size = 64
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	q := &DispatchQueue{
		dispatcher: dispatcher,
		jobs:       make(chan StatusChangeEvent, size),
		timeout:    timeout,
		logger:     logger.With().Str("component", "dispatch_queue").Logger(),
	}

	for i := 0; i < workers; i++ {
		q.workers.Add(1)
		go q.work()
	}
	return q
}

// Notify enqueues the event without blocking. Events after Close are logged and discarded.
func (q *DispatchQueue) Notify(event StatusChangeEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		q.logger.Warn().Uint("application_id", event.ApplicationID).Msg("dispatch queue closed, notification discarded")
		return
	}

	select {
	case q.jobs <- event:
	default:
		q.spill.Add(1)
		go func() {
			defer q.spill.Done()
			q.jobs <- event
		}()
	}
	observability.DispatchQueueDepth().Set(float64(len(q.jobs)))
}

// Close stops intake and waits until every queued event has been dispatched.
func (q *DispatchQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	q.spill.Wait()
	close(q.jobs)
	q.workers.Wait()
	observability.DispatchQueueDepth().Set(0)
}

func (q *DispatchQueue) work() {
	defer q.workers.Done()
	for event := range q.jobs {
		observability.DispatchQueueDepth().Set(float64(len(q.jobs)))

		ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
		delivered := q.dispatcher.NotifyApplicationStatus(ctx, event)
		cancel()

		q.logger.Debug().
			Uint("application_id", event.ApplicationID).
			Str("status", event.Status).
			Bool("email_delivered", delivered).
			Msg("status notification dispatched")
	}
}

// InlineNotifier dispatches synchronously on the caller's goroutine.
type InlineNotifier struct {
	Dispatcher NotificationDispatcher
	Timeout    time.Duration
}

// Notify runs the dispatcher with its own timeout.
func (n InlineNotifier) Notify(event StatusChangeEvent) {
	if n.Dispatcher == nil {
		return
	}
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	n.Dispatcher.NotifyApplicationStatus(ctx, event)
}
