package candidates

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/talentscout/internal/common"
	"github.com/dmitrijs2005/talentscout/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE candidates (
  id TEXT PRIMARY KEY,
  created_at TEXT NOT NULL,
  name TEXT NOT NULL DEFAULT '',
  phone_number TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  current_location TEXT NOT NULL DEFAULT '',
  experience_years INTEGER,
  desired_positions TEXT NOT NULL DEFAULT '',
  tech_stack TEXT NOT NULL DEFAULT '',
  technical_responses TEXT NOT NULL DEFAULT '[]'
);`)
	require.NoError(t, err)
	return db
}

func intPtr(v int) *int { return &v }

func TestSQLite_UpsertInsertThenGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 10, 0, 0, 123, time.UTC)

	row := &models.CandidateRow{
		ID: "s-1", CreatedAt: created, Name: "Jane Doe", Email: "enc-email",
		PhoneNumber: "enc-phone", CurrentLocation: "enc-loc", ExperienceYears: intPtr(3),
		DesiredPositions: "Backend Engineer", TechStack: "Python, PostgreSQL",
		TechnicalResponses: `[{"index":0,"question":"q","answer":"a"}]`,
	}
	require.NoError(t, r.Upsert(ctx, row))

	got, err := r.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, row, got)
}

func TestSQLite_UpsertReplacesButKeepsCreatedAt(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, r.Upsert(ctx, &models.CandidateRow{ID: "s-1", CreatedAt: first, Name: "Jane", TechnicalResponses: "[]"}))
	require.NoError(t, r.Upsert(ctx, &models.CandidateRow{
		ID: "s-1", CreatedAt: first.Add(time.Hour), Name: "Jane", TechStack: "Go",
		ExperienceYears: intPtr(0), TechnicalResponses: "[]",
	}))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM candidates`).Scan(&n))
	assert.Equal(t, 1, n)

	got, err := r.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, first, got.CreatedAt)
	assert.Equal(t, "Go", got.TechStack)
	require.NotNil(t, got.ExperienceYears)
	assert.Equal(t, 0, *got.ExperienceYears)
}

func TestSQLite_NullExperience(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, &models.CandidateRow{ID: "empty", CreatedAt: time.Now(), TechnicalResponses: "[]"}))

	got, err := r.Get(ctx, "empty")
	require.NoError(t, err)
	assert.Nil(t, got.ExperienceYears)
	assert.Equal(t, "", got.Name)
}

func TestSQLite_GetNotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLite_List(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, r.Upsert(ctx, &models.CandidateRow{
			ID: id, CreatedAt: base.Add(time.Duration(i) * time.Minute), TechnicalResponses: "[]",
		}))
	}

	all, err := r.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "a", all[2].ID)

	two, err := r.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestSQLite_ClosedDB(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	require.NoError(t, db.Close())

	err := r.Upsert(context.Background(), &models.CandidateRow{ID: "x", CreatedAt: time.Now()})
	assert.Error(t, err)

	_, err = r.List(context.Background(), 0)
	assert.Error(t, err)
}
