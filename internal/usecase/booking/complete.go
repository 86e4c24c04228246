package booking

import (
	"context"

	"github.com/lacquerlab/salon-scheduler/internal/audit"
	"github.com/lacquerlab/salon-scheduler/internal/domain/schedule"
	"github.com/lacquerlab/salon-scheduler/internal/models"
	"github.com/lacquerlab/salon-scheduler/internal/notify"
	"github.com/lacquerlab/salon-scheduler/internal/repository"
)

// CompleteBooking settles an appointment: service, price, materials and
// profit. The stock check and the decrement run inside the same tenant
// mutation, so concurrent completions cannot jointly overdraw an item.
type CompleteBooking struct {
	tenants *repository.Tenants
	hub     *notify.Hub
	audit   *audit.Dispatcher
}

func NewCompleteBooking(
	tenants *repository.Tenants,
	hub *notify.Hub,
	auditor *audit.Dispatcher,
) *CompleteBooking {
	return &CompleteBooking{
		tenants: tenants,
		hub:     hub,
		audit:   auditor,
	}
}

func (uc *CompleteBooking) Execute(
	ctx context.Context,
	instanceID string,
	appointmentID string,
	in schedule.CompleteInput,
	actor string,
) (models.Appointment, error) {

	var completed models.Appointment

	_, err := uc.tenants.Update(ctx, instanceID, func(t *models.Tenant) error {
		ap, err := schedule.CompleteAppointment(t, appointmentID, in)
		if err != nil {
			return err
		}
		completed = *ap
		return nil
	})
	if err != nil {
		return models.Appointment{}, err
	}

	uc.hub.Publish(notify.Event{Type: notify.EventAppointments, Tenant: instanceID})
	if len(in.MaterialsUsed) > 0 {
		uc.hub.Publish(notify.Event{Type: notify.EventInventory, Tenant: instanceID})
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: instanceID,
		Actor:    actor,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: completed.ID,
		Metadata: in.MaterialsUsed,
	})

	return completed, nil
}
