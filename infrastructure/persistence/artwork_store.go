package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/artlens/artlens/domain/catalog"
	"github.com/artlens/artlens/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArtworkStore implements catalog.ArtworkStore using GORM. Every statement
// runs under the store's retry policy; only connectivity errors are retried.
type ArtworkStore struct {
	db     database.Database
	retry  database.RetryPolicy
	mapper ArtworkMapper
}

// NewArtworkStore creates a new ArtworkStore.
func NewArtworkStore(db database.Database, retry database.RetryPolicy) ArtworkStore {
	return ArtworkStore{db: db, retry: retry}
}

var _ catalog.ArtworkStore = ArtworkStore{}

// All returns every artwork row ordered by ID.
func (s ArtworkStore) All(ctx context.Context) ([]catalog.Artwork, error) {
	var models []ArtworkModel
	err := database.Retry(ctx, s.retry, database.IsRetryable, func(ctx context.Context) error {
		models = nil
		result := s.db.Session(ctx).Order("id").Find(&models)
		return database.Classify(result.Error)
	})
	if err != nil {
		return nil, fmt.Errorf("list artworks: %w", err)
	}

	artworks := make([]catalog.Artwork, len(models))
	for i, m := range models {
		artworks[i] = s.mapper.ToDomain(m)
	}
	return artworks, nil
}

// Exists reports whether an artwork with the given ID exists.
func (s ArtworkStore) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := database.Retry(ctx, s.retry, database.IsRetryable, func(ctx context.Context) error {
		result := s.db.Session(ctx).Model(&ArtworkModel{}).Where("id = ?", id).Count(&count)
		return database.Classify(result.Error)
	})
	if err != nil {
		return false, fmt.Errorf("check artwork exists: %w", err)
	}
	return count > 0, nil
}

// Count returns the number of artwork rows.
func (s ArtworkStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := database.Retry(ctx, s.retry, database.IsRetryable, func(ctx context.Context) error {
		result := s.db.Session(ctx).Model(&ArtworkModel{}).Count(&count)
		return database.Classify(result.Error)
	})
	if err != nil {
		return 0, fmt.Errorf("count artworks: %w", err)
	}
	return count, nil
}

// Upsert persists the artwork and its descriptors in a single transaction.
// Conflicting rows are updated in place; descriptors not named in the
// request are left untouched.
func (s ArtworkStore) Upsert(ctx context.Context, artwork catalog.Artwork, descriptors []catalog.Descriptor) error {
	err := database.Retry(ctx, s.retry, database.IsRetryable, func(ctx context.Context) error {
		return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
			now := time.Now()

			model := s.mapper.ToModel(artwork)
			model.UpdatedAt = now
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"title", "artist", "year", "museum", "location", "descriptions", "updated_at",
				}),
			}).Create(&model).Error; err != nil {
				return fmt.Errorf("upsert artwork: %w", err)
			}

			if len(descriptors) == 0 {
				return nil
			}

			var mapper DescriptorMapper
			models := make([]DescriptorModel, len(descriptors))
			for i, d := range descriptors {
				models[i] = mapper.ToModel(d)
				models[i].UpdatedAt = now
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "artwork_id"}, {Name: "descriptor_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"embedding", "image_path", "updated_at",
				}),
			}).Create(&models).Error; err != nil {
				return fmt.Errorf("upsert descriptors: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("upsert %q: %w", artwork.ID(), err)
	}
	return nil
}

// Delete removes an artwork and all of its descriptors. Returns
// catalog.ErrNotFound when no artwork row was deleted.
func (s ArtworkStore) Delete(ctx context.Context, id string) error {
	return database.Retry(ctx, s.retry, database.IsRetryable, func(ctx context.Context) error {
		return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
			if err := tx.Where("artwork_id = ?", id).Delete(&DescriptorModel{}).Error; err != nil {
				return fmt.Errorf("delete descriptors of %q: %w", id, err)
			}

			result := tx.Where("id = ?", id).Delete(&ArtworkModel{})
			if result.Error != nil {
				return fmt.Errorf("delete artwork %q: %w", id, result.Error)
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("artwork %q: %w", id, catalog.ErrNotFound)
			}
			return nil
		})
	})
}
