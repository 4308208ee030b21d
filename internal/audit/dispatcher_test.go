package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (s *recordingSink) Log(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func TestDispatcher_DeliversInOrder(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, zap.NewNop())

	for i := uint(1); i <= 3; i++ {
		d.Dispatch(Event{Action: ActionAppointmentBooked, EntityID: Ref(i)})
	}
	d.Close()

	require.Len(t, sink.events, 3)
	for i, ev := range sink.events {
		assert.Equal(t, uint(i+1), *ev.EntityID)
		assert.NotEqual(t, uuid.Nil, ev.ID)
		assert.False(t, ev.At.IsZero())
	}
}

func TestDispatcher_LogsSinkErrors(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	sink := &recordingSink{err: errors.New("db down")}
	d := NewDispatcher(sink, zap.New(core))

	d.Dispatch(Event{Action: ActionSessionCancelled})
	d.Close()

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "audit error", logs.All()[0].Message)
}

func TestZapSink(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewZapSink(zap.New(core))

	require.NoError(t, s.Log(context.Background(), Event{
		ID:       uuid.New(),
		Action:   ActionScheduleActivated,
		Metadata: map[string]int{"sessions": 4},
	}))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, ActionScheduleActivated, fields["action"])
	assert.Equal(t, `{"sessions":4}`, fields["metadata"])
}
