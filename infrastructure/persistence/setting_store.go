package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/artlens/artlens/domain/catalog"
	"github.com/artlens/artlens/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// dimSettingKey is the settings row holding the corpus embedding dimension.
const dimSettingKey = "db_dim"

// SettingStore implements catalog.SettingStore using GORM.
type SettingStore struct {
	db    database.Database
	retry database.RetryPolicy
}

// NewSettingStore creates a new SettingStore.
func NewSettingStore(db database.Database, retry database.RetryPolicy) SettingStore {
	return SettingStore{db: db, retry: retry}
}

// Dim returns the persisted corpus dimension, 0 when not yet set or when the
// stored value is malformed.
func (s SettingStore) Dim(ctx context.Context) (int, error) {
	var model SettingModel
	err := database.Retry(ctx, s.retry, database.IsRetryable, func(ctx context.Context) error {
		result := s.db.Session(ctx).Where("key = ?", dimSettingKey).First(&model)
		return database.Classify(result.Error)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read corpus dim: %w", err)
	}

	// Stored as {"value": <dim>}; JSON numbers decode as float64.
	raw, ok := model.Value["value"]
	if !ok {
		return 0, nil
	}
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, nil
	}
}

// EnsureDim records the corpus dimension if not already set. An existing
// value is never overwritten: the first ingested descriptor fixes the
// dimension for the lifetime of the corpus.
func (s SettingStore) EnsureDim(ctx context.Context, dim int) error {
	model := SettingModel{
		Key:   dimSettingKey,
		Value: JSONDoc{"value": dim},
	}
	err := database.Retry(ctx, s.retry, database.IsRetryable, func(ctx context.Context) error {
		result := s.db.Session(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).Create(&model)
		return database.Classify(result.Error)
	})
	if err != nil {
		return fmt.Errorf("ensure corpus dim: %w", err)
	}
	return nil
}

var _ catalog.SettingStore = SettingStore{}
