package store

import (
	"context"
	"errors"

	"github.com/lacquerlab/salon-scheduler/internal/models"
)

var (
	// ErrNotFound reports an absent tenant document.
	ErrNotFound = errors.New("tenant document not found")
	// ErrVersionConflict reports a concurrent write to the same document.
	ErrVersionConflict = errors.New("tenant document version conflict")
)

// Store is the key-document persistence collaborator. Both operations are
// whole-document: Load returns the full tenant plus the version it was read
// at, Save writes the full tenant and fails with ErrVersionConflict when the
// stored version moved. Version 0 on Save means "create".
type Store interface {
	Load(ctx context.Context, id string) (*models.Tenant, int64, error)
	Save(ctx context.Context, t *models.Tenant, version int64) error
	ListIDs(ctx context.Context) ([]string, error)
}
