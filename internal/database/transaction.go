package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// WithTransaction executes fn within a transaction, committing on success or
// rolling back on error. The returned error is classified (see Classify).
func WithTransaction(ctx context.Context, db Database, fn func(tx *gorm.DB) error) error {
	tx := db.Session(ctx).Begin()
	if tx.Error != nil {
		return Classify(fmt.Errorf("begin transaction: %w", tx.Error))
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return Classify(err)
	}

	if err := tx.Commit().Error; err != nil {
		return Classify(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
