package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/scholarship-portal-api/internal/observability"
)

var (
	// ErrEmitterClosed is logged for entries emitted after Close.
	ErrEmitterClosed = errors.New("activity emitter closed")
	// ErrEmitterFull is reported when the buffer cannot take another entry.
	ErrEmitterFull = errors.New("activity emitter buffer full")
)

// ActivitySink accepts audit entries without reporting failures to the caller.
type ActivitySink interface {
	Emit(entry ActivityEntry)
}

// ActivityEmitter records audit entries off the request path.
// Emit never blocks; failures are reported on Errors and counted, never returned.
type ActivityEmitter struct {
	recorder ActivityRecorder
	entries  chan ActivityEntry
	errs     chan error
	timeout  time.Duration
	logger   zerolog.Logger
	wg       sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
}

// NewActivityEmitter starts a single background writer.
func NewActivityEmitter(recorder ActivityRecorder, buffer int, timeout time.Duration, logger zerolog.Logger) *ActivityEmitter {
	if buffer <= 0 {
		buffer = 64
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	emitter := &ActivityEmitter{
		recorder: recorder,
		entries:  make(chan ActivityEntry, buffer),
		errs:     make(chan error, buffer),
		timeout:  timeout,
		logger:   logger.With().Str("component", "activity_emitter").Logger(),
	}

	emitter.wg.Add(1)
	go emitter.run()
	return emitter
}

// Emit queues an entry. A full buffer or a closed emitter drops it.
func (e *ActivityEmitter) Emit(entry ActivityEntry) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		observability.ActivityEmitFailures().Inc()
		e.logger.Warn().Err(ErrEmitterClosed).Str("action", entry.Action).Msg("activity entry dropped")
		return
	}

	select {
	case e.entries <- entry:
	default:
		e.fail(ErrEmitterFull, entry)
	}
}

// Errors exposes failed emissions. The channel is closed by Close.
func (e *ActivityEmitter) Errors() <-chan error {
	return e.errs
}

// Close stops accepting entries and waits for queued ones to be written.
func (e *ActivityEmitter) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.entries)
	e.mu.Unlock()

	e.wg.Wait()
	close(e.errs)
}

func (e *ActivityEmitter) run() {
	defer e.wg.Done()
	for entry := range e.entries {
		ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
		if _, err := e.recorder.Record(ctx, entry); err != nil {
			e.fail(err, entry)
		}
		cancel()
	}
}

func (e *ActivityEmitter) fail(err error, entry ActivityEntry) {
	observability.ActivityEmitFailures().Inc()
	e.logger.Warn().Err(err).Str("action", entry.Action).Msg("activity entry not recorded")

	select {
	case e.errs <- err:
	default:
	}
}
