package candidates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/talentscout/internal/common"
	"github.com/dmitrijs2005/talentscout/internal/dbx"
	"github.com/dmitrijs2005/talentscout/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, row *models.CandidateRow) error {
	query :=
		`INSERT INTO candidates (id, created_at, name, phone_number, email, current_location,
			experience_years, desired_positions, tech_stack, technical_responses)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			phone_number = EXCLUDED.phone_number,
			email = EXCLUDED.email,
			current_location = EXCLUDED.current_location,
			experience_years = EXCLUDED.experience_years,
			desired_positions = EXCLUDED.desired_positions,
			tech_stack = EXCLUDED.tech_stack,
			technical_responses = EXCLUDED.technical_responses`

	_, err := r.db.ExecContext(ctx, query,
		row.ID, row.CreatedAt.UTC(), row.Name, row.PhoneNumber, row.Email, row.CurrentLocation,
		nullableYears(row.ExperienceYears), row.DesiredPositions, row.TechStack, row.TechnicalResponses)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func scanPostgresRow(s scanner) (*models.CandidateRow, error) {
	row := &models.CandidateRow{}
	var years sql.NullInt64

	err := s.Scan(&row.ID, &row.CreatedAt, &row.Name, &row.PhoneNumber, &row.Email, &row.CurrentLocation,
		&years, &row.DesiredPositions, &row.TechStack, &row.TechnicalResponses)
	if err != nil {
		return nil, err
	}
	if years.Valid {
		row.ExperienceYears = yearsFromNull(&years.Int64)
	}
	return row, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.CandidateRow, error) {
	query :=
		`SELECT id, created_at, name, phone_number, email, current_location,
			experience_years, desired_positions, tech_stack, technical_responses::text
		 FROM candidates WHERE id = $1`

	row, err := scanPostgresRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return row, nil
}

func (r *PostgresRepository) List(ctx context.Context, limit int) ([]*models.CandidateRow, error) {
	query :=
		`SELECT id, created_at, name, phone_number, email, current_location,
			experience_years, desired_positions, tech_stack, technical_responses::text
		 FROM candidates ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.CandidateRow{}
	for rows.Next() {
		row, err := scanPostgresRow(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
