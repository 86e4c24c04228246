package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/lacquerlab/salon-scheduler/internal/models"
)

// GormStore keeps each tenant document as a single JSONB row. The version
// column carries the optimistic-concurrency check that backs cross-process
// serialization of tenant mutations.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Load(ctx context.Context, id string) (*models.Tenant, int64, error) {
	var rec models.TenantRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("load tenant %s: %w", id, err)
	}

	var t models.Tenant
	if err := json.Unmarshal(rec.Doc, &t); err != nil {
		return nil, 0, fmt.Errorf("decode tenant %s: %w", id, err)
	}
	return &t, rec.Version, nil
}

func (s *GormStore) Save(ctx context.Context, t *models.Tenant, version int64) error {
	doc, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode tenant %s: %w", t.ID, err)
	}

	if version == 0 {
		rec := models.TenantRecord{ID: t.ID, Doc: doc, Version: 1}
		if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrVersionConflict
			}
			return fmt.Errorf("create tenant %s: %w", t.ID, err)
		}
		return nil
	}

	res := s.db.WithContext(ctx).
		Model(&models.TenantRecord{}).
		Where("id = ? AND version = ?", t.ID, version).
		Updates(map[string]any{
			"doc":     doc,
			"version": version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("save tenant %s: %w", t.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (s *GormStore) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.db.WithContext(ctx).
		Model(&models.TenantRecord{}).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	return ids, nil
}

// Compile-time check
var _ Store = (*GormStore)(nil)
