// Package candidates persists candidate rows in the primary store.
// Implementations receive a dbx.DBTX so they can run inside the single
// writer transaction.
package candidates

import (
	"context"

	"github.com/dmitrijs2005/talentscout/internal/models"
)

// Repository reads and writes candidate rows. Sensitive columns are opaque
// ciphertext at this level.
type Repository interface {
	// Upsert inserts row or replaces the mutable columns of the row with the
	// same id. created_at keeps its first value.
	Upsert(ctx context.Context, row *models.CandidateRow) error
	// Get returns common.ErrorNotFound for an unknown id.
	Get(ctx context.Context, id string) (*models.CandidateRow, error)
	// List returns rows newest first, at most limit when limit > 0.
	List(ctx context.Context, limit int) ([]*models.CandidateRow, error)
}

func nullableYears(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func yearsFromNull(v *int64) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}
