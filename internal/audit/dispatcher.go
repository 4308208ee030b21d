package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ActionScheduleCreated            = "schedule_created"
	ActionScheduleUpdated            = "schedule_updated"
	ActionScheduleActivated          = "schedule_activated"
	ActionScheduleCancelled          = "schedule_cancelled"
	ActionScheduleDeleted            = "schedule_deleted"
	ActionSessionsMaterialized       = "sessions_materialized"
	ActionSessionCreated             = "session_created"
	ActionSessionStarted             = "session_started"
	ActionSessionCompleted           = "session_completed"
	ActionSessionCancelled           = "session_cancelled"
	ActionAppointmentBooked          = "appointment_booked"
	ActionAppointmentArrived         = "appointment_arrived"
	ActionAppointmentFulfilled       = "appointment_fulfilled"
	ActionAppointmentCancelled       = "appointment_cancelled"
	ActionAppointmentCascadeCanceled = "appointment_cascade_cancelled"
	ActionReminderCreated            = "reminder_created"
)

type Event struct {
	ID             uuid.UUID
	OrganizationID uint
	ProfileID      *uint
	Action         string
	Entity         string
	EntityID       *uint
	Metadata       any
	At             time.Time
}

// Dispatcher hands events to a sink on a background worker. Audit must never
// fail a request: a full queue drops the event.
type Dispatcher struct {
	sink  Sink
	log   *zap.Logger
	queue chan Event
	wg    sync.WaitGroup
	once  sync.Once
}

func NewDispatcher(sink Sink, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		log:   log,
		queue: make(chan Event, 100),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		if err := d.sink.Log(context.Background(), ev); err != nil {
			d.log.Error("audit error", zap.String("action", ev.Action), zap.Error(err))
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close drains the queue and stops the worker. Dispatch must not be called
// after Close.
func (d *Dispatcher) Close() {
	d.once.Do(func() { close(d.queue) })
	d.wg.Wait()
}

// Ref returns a pointer to id, for the optional id fields of Event.
func Ref(id uint) *uint {
	return &id
}
