package persistence

import (
	"context"
	"fmt"

	"github.com/artlens/artlens/domain/catalog"
	"github.com/artlens/artlens/internal/database"
)

// DescriptorStore implements catalog.DescriptorStore using GORM.
type DescriptorStore struct {
	db     database.Database
	retry  database.RetryPolicy
	mapper DescriptorMapper
}

// NewDescriptorStore creates a new DescriptorStore.
func NewDescriptorStore(db database.Database, retry database.RetryPolicy) DescriptorStore {
	return DescriptorStore{db: db, retry: retry}
}

var _ catalog.DescriptorStore = DescriptorStore{}

// All returns every descriptor row ordered by (artwork_id, descriptor_id)
// so snapshot rebuilds iterate deterministically.
func (s DescriptorStore) All(ctx context.Context) ([]catalog.Descriptor, error) {
	var models []DescriptorModel
	err := database.Retry(ctx, s.retry, database.IsRetryable, func(ctx context.Context) error {
		models = nil
		result := s.db.Session(ctx).Order("artwork_id, descriptor_id").Find(&models)
		return database.Classify(result.Error)
	})
	if err != nil {
		return nil, fmt.Errorf("list descriptors: %w", err)
	}

	descriptors := make([]catalog.Descriptor, len(models))
	for i, m := range models {
		descriptors[i] = s.mapper.ToDomain(m)
	}
	return descriptors, nil
}

// Delete removes a single descriptor. Returns catalog.ErrNotFound when no
// row was deleted.
func (s DescriptorStore) Delete(ctx context.Context, artworkID, descriptorID string) error {
	return database.Retry(ctx, s.retry, database.IsRetryable, func(ctx context.Context) error {
		result := s.db.Session(ctx).
			Where("artwork_id = ? AND descriptor_id = ?", artworkID, descriptorID).
			Delete(&DescriptorModel{})
		if result.Error != nil {
			return database.Classify(fmt.Errorf("delete descriptor %s/%s: %w", artworkID, descriptorID, result.Error))
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("descriptor %s/%s: %w", artworkID, descriptorID, catalog.ErrNotFound)
		}
		return nil
	})
}
