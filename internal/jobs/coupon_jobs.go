package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lacquerlab/salon-scheduler/internal/models"
	"github.com/lacquerlab/salon-scheduler/internal/notify"
	"github.com/lacquerlab/salon-scheduler/internal/repository"
	"github.com/lacquerlab/salon-scheduler/internal/store"
)

// Coupons expired longer than this are dropped from the document; until
// then they stay visible as inert history.
const expiredCouponRetention = 90 * 24 * time.Hour

// Runner coordinates scheduled housekeeping.
type Runner struct {
	tenants *repository.Tenants
	store   store.Store
	hub     *notify.Hub
}

func NewRunner(tenants *repository.Tenants, s store.Store, hub *notify.Hub) *Runner {
	return &Runner{tenants: tenants, store: s, hub: hub}
}

// Start schedules the nightly jobs and returns the cron so the caller owns
// its lifecycle.
func (r *Runner) Start() *cron.Cron {
	c := cron.New()
	c.AddFunc("0 3 * * *", func() {
		r.runWithRecovery("coupon_sweep", r.SweepExpiredCoupons)
	})
	c.Start()
	return c
}

func (r *Runner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("job %s panicked: %v", jobName, rec)
		}
	}()

	log.Printf("starting job %s", jobName)
	jobFunc()
	log.Printf("job %s completed", jobName)
}

// SweepExpiredCoupons prunes coupons whose expiry passed the retention
// window, tenant by tenant through the serialized mutation path.
func (r *Runner) SweepExpiredCoupons() {
	ctx := context.Background()

	ids, err := r.store.ListIDs(ctx)
	if err != nil {
		log.Println("coupon sweep: list tenants failed:", err)
		return
	}

	cutoff := time.Now().UTC().Add(-expiredCouponRetention)
	for _, id := range ids {
		var pruned int
		_, err := r.tenants.Update(ctx, id, func(t *models.Tenant) error {
			pruned = 0
			kept := t.Coupons[:0]
			for _, c := range t.Coupons {
				if c.ExpiresAt != nil && c.ExpiresAt.Before(cutoff) {
					pruned++
					continue
				}
				kept = append(kept, c)
			}
			t.Coupons = kept
			return nil
		})
		if err != nil {
			log.Printf("coupon sweep: tenant %s: %v", id, err)
			continue
		}
		if pruned > 0 {
			r.hub.Publish(notify.Event{Type: notify.EventCoupons, Tenant: id})
		}
	}
}
