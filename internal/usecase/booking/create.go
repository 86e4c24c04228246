package booking

import (
	"context"
	"time"

	"github.com/lacquerlab/salon-scheduler/internal/audit"
	"github.com/lacquerlab/salon-scheduler/internal/domain/schedule"
	"github.com/lacquerlab/salon-scheduler/internal/models"
	"github.com/lacquerlab/salon-scheduler/internal/notify"
	"github.com/lacquerlab/salon-scheduler/internal/repository"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	InstanceID string
	Date       string
	Time       string
	ClientName string
	Phone      string
	CouponCode string
}

// ======================================================
// USE CASE
// ======================================================

// CreateBooking books a slot for a client. Slot consumption, appointment
// creation, optional coupon redemption and the loyalty reward all happen in
// one tenant mutation, so a concurrent booking of the same slot sees either
// nothing or everything.
type CreateBooking struct {
	tenants *repository.Tenants
	hub     *notify.Hub
	audit   *audit.Dispatcher
	policy  schedule.RewardPolicy
}

func NewCreateBooking(
	tenants *repository.Tenants,
	hub *notify.Hub,
	auditor *audit.Dispatcher,
	policy schedule.RewardPolicy,
) *CreateBooking {
	return &CreateBooking{
		tenants: tenants,
		hub:     hub,
		audit:   auditor,
		policy:  policy,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (models.Appointment, *models.Coupon, error) {

	var created models.Appointment
	var reward *models.Coupon
	var couponTouched bool

	_, err := uc.tenants.Update(ctx, in.InstanceID, func(t *models.Tenant) error {
		reward = nil
		couponTouched = false
		now := time.Now().UTC()

		ap, err := schedule.CreateAppointment(t, in.Date, in.Time, in.ClientName, in.Phone, now)
		if err != nil {
			return err
		}

		if in.CouponCode != "" {
			if _, err := schedule.RedeemCoupon(t, in.CouponCode, ap.ID, now); err != nil {
				return err
			}
			couponTouched = true
		}

		if uc.policy != nil {
			rc, err := schedule.AutoIssue(t, ap.Phone, uc.policy, now)
			if err != nil {
				return err
			}
			if rc != nil {
				cp := *rc
				reward = &cp
				couponTouched = true
			}
		}

		created = *ap
		return nil
	})
	if err != nil {
		return models.Appointment{}, nil, err
	}

	uc.hub.Publish(notify.Event{Type: notify.EventAppointments, Tenant: in.InstanceID})
	uc.hub.Publish(notify.Event{Type: notify.EventAvailability, Tenant: in.InstanceID})
	if couponTouched {
		uc.hub.Publish(notify.Event{Type: notify.EventCoupons, Tenant: in.InstanceID})
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: in.InstanceID,
		Actor:    in.ClientName,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: created.ID,
	})

	return created, reward, nil
}
