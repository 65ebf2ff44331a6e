package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scholarship-portal-api/internal/dto"
)

type stubActivityRecorder struct {
	mu      sync.Mutex
	entries []ActivityEntry
	err     error
}

func (s *stubActivityRecorder) Record(ctx context.Context, entry ActivityEntry) (dto.AdminActivityResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return dto.AdminActivityResponse{}, s.err
	}
	s.entries = append(s.entries, entry)
	return dto.AdminActivityResponse{Action: entry.Action}, nil
}

func (s *stubActivityRecorder) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, entry.Action)
	}
	return out
}

func TestActivityEmitterDrainsOnClose(t *testing.T) {
	recorder := &stubActivityRecorder{}
	emitter := NewActivityEmitter(recorder, 8, time.Second, testLogger())

	emitter.Emit(ActivityEntry{Action: "application.approved", EntityType: "application"})
	emitter.Emit(ActivityEntry{Action: "application.rejected", EntityType: "application"})
	emitter.Close()

	require.Equal(t, []string{"application.approved", "application.rejected"}, recorder.actions())

	// Emitting after close is dropped without panicking.
	emitter.Emit(ActivityEntry{Action: "late", EntityType: "application"})
	emitter.Close()
}

func TestActivityEmitterReportsFailures(t *testing.T) {
	recorder := &stubActivityRecorder{err: errors.New("table missing")}
	emitter := NewActivityEmitter(recorder, 4, time.Second, testLogger())

	emitter.Emit(ActivityEntry{Action: "application.bulk_approved", EntityType: "application"})

	select {
	case err := <-emitter.Errors():
		require.EqualError(t, err, "table missing")
	case <-time.After(2 * time.Second):
		t.Fatal("expected emitter error")
	}

	emitter.Close()
	_, open := <-emitter.Errors()
	require.False(t, open)
}
