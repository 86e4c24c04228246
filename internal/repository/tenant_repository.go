package repository

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/lacquerlab/salon-scheduler/internal/httperr"
	"github.com/lacquerlab/salon-scheduler/internal/models"
	"github.com/lacquerlab/salon-scheduler/internal/store"
)

// DefaultAdminPassword seeds the admin of a freshly created tenant, matching
// the product's provisioning flow. Instances are expected to rotate it.
const (
	DefaultAdminUser     = "admin"
	DefaultAdminPassword = "password"
)

const maxSaveRetries = 3

// Tenants resolves instance ids to tenant documents and serializes all
// mutations per tenant: a per-tenant mutex covers in-process writers, the
// store's version check covers other processes. Different tenants never
// contend with each other.
type Tenants struct {
	store store.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewTenants(s store.Store) *Tenants {
	return &Tenants{
		store: s,
		locks: make(map[string]*sync.Mutex),
	}
}

func (r *Tenants) lock(id string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.locks[id]
	if !ok {
		l = &sync.Mutex{}
		r.locks[id] = l
	}
	return l
}

// View resolves a tenant for reading. An unknown id is created with the
// default document first, so the first reference to an instance brings it
// into existence.
func (r *Tenants) View(ctx context.Context, id string) (*models.Tenant, error) {
	t, _, err := r.store.Load(ctx, id)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, httperr.ErrStoreUnavailable(err)
	}
	return r.Update(ctx, id, func(*models.Tenant) error { return nil })
}

// Update runs fn against the tenant document and persists the result as one
// atomic read-check-write. fn sees a private copy; an error from fn aborts
// the mutation with nothing applied. Version conflicts from concurrent
// processes are retried a bounded number of times.
func (r *Tenants) Update(ctx context.Context, id string, fn func(*models.Tenant) error) (*models.Tenant, error) {
	l := r.lock(id)
	l.Lock()
	defer l.Unlock()

	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		t, version, err := r.store.Load(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			t, version = defaultTenant(id), 0
		} else if err != nil {
			return nil, httperr.ErrStoreUnavailable(err)
		}

		if err := fn(t); err != nil {
			return nil, err
		}

		err = r.store.Save(ctx, t, version)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, store.ErrVersionConflict) {
			return nil, httperr.ErrStoreUnavailable(err)
		}
	}

	return nil, httperr.ErrConflict("tenant document contention, retry")
}

func defaultTenant(id string) *models.Tenant {
	hash, _ := bcrypt.GenerateFromPassword([]byte(DefaultAdminPassword), bcrypt.DefaultCost)

	return &models.Tenant{
		ID:   id,
		Name: id + "'s Scheduler",
		Admins: []models.Admin{
			{Username: DefaultAdminUser, PasswordHash: string(hash)},
		},
		Appointments: []models.Appointment{},
		Availability: map[string]models.DayAvailability{},
		Coupons:      []models.Coupon{},
		Services:     []models.Service{},
		Inventory:    []models.InventoryItem{},
	}
}
