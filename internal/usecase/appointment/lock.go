package appointment

import (
	"context"

	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/store"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

// withAppointment runs fn under the lock of the appointment's session, with
// both records freshly loaded inside the transaction.
func withAppointment(
	ctx context.Context,
	repo store.Store,
	appointmentID uint,
	fn func(tx store.Store, ap *models.Appointment, s *models.Session) error,
) error {
	current, err := repo.LoadAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}

	return repo.WithSessionLock(ctx, current.SessionID, func(tx store.Store, s *models.Session) error {
		ap, err := tx.LoadAppointment(ctx, appointmentID)
		if err != nil {
			return err
		}
		return fn(tx, ap, s)
	})
}
