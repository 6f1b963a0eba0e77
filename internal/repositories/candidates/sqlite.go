package candidates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/talentscout/internal/common"
	"github.com/dmitrijs2005/talentscout/internal/dbx"
	"github.com/dmitrijs2005/talentscout/internal/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const sqliteColumns = `id, created_at, name, phone_number, email, current_location,
	experience_years, desired_positions, tech_stack, technical_responses`

func (r *SQLiteRepository) Upsert(ctx context.Context, row *models.CandidateRow) error {
	query := `INSERT INTO candidates (` + sqliteColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			phone_number = excluded.phone_number,
			email = excluded.email,
			current_location = excluded.current_location,
			experience_years = excluded.experience_years,
			desired_positions = excluded.desired_positions,
			tech_stack = excluded.tech_stack,
			technical_responses = excluded.technical_responses`

	_, err := r.db.ExecContext(ctx, query,
		row.ID, row.CreatedAt.UTC().Format(time.RFC3339Nano), row.Name, row.PhoneNumber, row.Email,
		row.CurrentLocation, nullableYears(row.ExperienceYears), row.DesiredPositions, row.TechStack,
		row.TechnicalResponses)
	if err != nil {
		return fmt.Errorf("failed to upsert candidate %s: %w", row.ID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSQLiteRow(s scanner) (*models.CandidateRow, error) {
	row := &models.CandidateRow{}
	var createdAt string
	var years sql.NullInt64

	err := s.Scan(&row.ID, &createdAt, &row.Name, &row.PhoneNumber, &row.Email, &row.CurrentLocation,
		&years, &row.DesiredPositions, &row.TechStack, &row.TechnicalResponses)
	if err != nil {
		return nil, err
	}

	row.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("created_at %q: %w", createdAt, err)
	}
	if years.Valid {
		row.ExperienceYears = yearsFromNull(&years.Int64)
	}
	return row, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.CandidateRow, error) {
	query := `SELECT ` + sqliteColumns + ` FROM candidates WHERE id = ?`

	row, err := scanSQLiteRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to get candidate %s: %w", id, err)
	}
	return row, nil
}

func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]*models.CandidateRow, error) {
	query := `SELECT ` + sqliteColumns + ` FROM candidates ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	result := []*models.CandidateRow{}
	for rows.Next() {
		row, err := scanSQLiteRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidate rows: %w", err)
	}
	return result, nil
}
