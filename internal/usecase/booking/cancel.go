package booking

import (
	"context"

	"github.com/lacquerlab/salon-scheduler/internal/audit"
	"github.com/lacquerlab/salon-scheduler/internal/domain/schedule"
	"github.com/lacquerlab/salon-scheduler/internal/models"
	"github.com/lacquerlab/salon-scheduler/internal/notify"
	"github.com/lacquerlab/salon-scheduler/internal/repository"
)

// CancelBooking removes an appointment from the ledger and returns its slot
// to the calendar. A repeat cancel surfaces not_found to the caller.
type CancelBooking struct {
	tenants *repository.Tenants
	hub     *notify.Hub
	audit   *audit.Dispatcher
}

func NewCancelBooking(
	tenants *repository.Tenants,
	hub *notify.Hub,
	auditor *audit.Dispatcher,
) *CancelBooking {
	return &CancelBooking{
		tenants: tenants,
		hub:     hub,
		audit:   auditor,
	}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	instanceID string,
	appointmentID string,
	actor string,
) (models.Appointment, error) {

	var removed models.Appointment

	_, err := uc.tenants.Update(ctx, instanceID, func(t *models.Tenant) error {
		ap, err := schedule.CancelAppointment(t, appointmentID)
		if err != nil {
			return err
		}
		removed = ap
		return nil
	})
	if err != nil {
		return models.Appointment{}, err
	}

	uc.hub.Publish(notify.Event{Type: notify.EventAppointments, Tenant: instanceID})
	uc.hub.Publish(notify.Event{Type: notify.EventAvailability, Tenant: instanceID})

	uc.audit.Dispatch(audit.Event{
		TenantID: instanceID,
		Actor:    actor,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: removed.ID,
	})

	return removed, nil
}
