// Package store is the secure record store: it seals sensitive profile
// fields, writes the candidate row to the primary store under a single
// writer, and appends an independent entry to the audit archive.
package store

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/talentscout/internal/archive"
	"github.com/dmitrijs2005/talentscout/internal/common"
	"github.com/dmitrijs2005/talentscout/internal/dbx"
	"github.com/dmitrijs2005/talentscout/internal/logging"
	"github.com/dmitrijs2005/talentscout/internal/models"
	"github.com/dmitrijs2005/talentscout/internal/repositories/metadata"
	"github.com/dmitrijs2005/talentscout/internal/repositories/repomanager"
)

// Cipher seals single field values.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(token string) (string, error)
}

// Summary is the cleartext part of a stored record.
type Summary struct {
	ID               string
	CreatedAt        time.Time
	Name             string
	DesiredPositions string
	TechStack        string
}

type Store struct {
	writer  *dbx.Writer
	repos   repomanager.RepositoryManager
	cipher  Cipher
	archive archive.Archiver
	logger  logging.Logger
	now     func() time.Time
}

func New(db *sql.DB, repos repomanager.RepositoryManager, c Cipher, a archive.Archiver, l logging.Logger) *Store {
	return &Store{
		writer:  dbx.NewWriter(db),
		repos:   repos,
		cipher:  c,
		archive: a,
		logger:  l.With("module", "store"),
		now:     time.Now,
	}
}

// Close releases the primary store connection.
func (s *Store) Close() error {
	return s.writer.DB().Close()
}

var errKeyMismatch = errors.New("key does not match the one the store was created with")

// CheckKey records verifier on first use and afterwards refuses any other
// one, so records are never sealed with two different keys.
func (s *Store) CheckKey(ctx context.Context, verifier []byte) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Metadata(tx)

		stored, err := repo.Get(ctx, metadata.KeyVerifier)
		if err != nil {
			return err
		}
		if stored == nil {
			return repo.Set(ctx, metadata.KeyVerifier, verifier)
		}
		if subtle.ConstantTimeCompare(stored, verifier) != 1 {
			return &common.ConfigurationError{Setting: common.EncryptionKeyEnv, Err: errKeyMismatch}
		}
		return nil
	})
}

// Save persists sub. The primary write and the archive append are
// independent: each failure is logged and neither stops the other. Only a
// primary failure is returned, as *common.PersistenceError.
func (s *Store) Save(ctx context.Context, sub models.Submission) error {
	now := s.now().UTC()
	log := s.logger.With("record_id", sub.ID)

	primaryErr := s.savePrimary(ctx, sub, now)
	if primaryErr != nil {
		log.Error(ctx, "primary store write failed", "error", primaryErr)
	}

	if err := s.saveArchive(ctx, sub, now); err != nil {
		log.Error(ctx, "archive append failed", "error", err)
	}

	if primaryErr != nil {
		return &common.PersistenceError{RecordID: sub.ID, Err: primaryErr}
	}

	log.Info(ctx, "candidate saved", "fields", sub.Profile.Filled(), "answers", len(sub.QA))
	return nil
}

func (s *Store) savePrimary(ctx context.Context, sub models.Submission, now time.Time) error {
	row, err := s.sealRow(sub, now)
	if err != nil {
		return err
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repos.Candidates(tx).Upsert(ctx, row)
	})
}

func (s *Store) sealRow(sub models.Submission, now time.Time) (*models.CandidateRow, error) {
	p := sub.Profile
	row := &models.CandidateRow{
		ID:               sub.ID,
		CreatedAt:        now,
		Name:             p.Name,
		DesiredPositions: p.DesiredPositions,
		TechStack:        p.TechStack,
	}

	var err error
	if row.Email, err = s.cipher.Encrypt(p.Email); err != nil {
		return nil, fmt.Errorf("encrypt email: %w", err)
	}
	if row.PhoneNumber, err = s.cipher.Encrypt(p.PhoneNumber); err != nil {
		return nil, fmt.Errorf("encrypt phone_number: %w", err)
	}
	if row.CurrentLocation, err = s.cipher.Encrypt(p.CurrentLocation); err != nil {
		return nil, fmt.Errorf("encrypt current_location: %w", err)
	}

	if p.ExperienceYears != "" {
		years, err := strconv.Atoi(p.ExperienceYears)
		if err != nil {
			return nil, fmt.Errorf("experience_years %q: %w", p.ExperienceYears, err)
		}
		row.ExperienceYears = &years
	}

	qa, err := marshalQA(sub.QA)
	if err != nil {
		return nil, err
	}
	row.TechnicalResponses = qa
	return row, nil
}

func marshalQA(qa []models.QAEntry) (string, error) {
	if qa == nil {
		qa = []models.QAEntry{}
	}
	b, err := json.Marshal(qa)
	if err != nil {
		return "", fmt.Errorf("marshal technical responses: %w", err)
	}
	return string(b), nil
}

func (s *Store) saveArchive(ctx context.Context, sub models.Submission, now time.Time) error {
	if s.archive == nil {
		return nil
	}

	qa := sub.QA
	if qa == nil {
		qa = []models.QAEntry{}
	}

	plain := sub.Profile
	plain.Email, plain.PhoneNumber, plain.CurrentLocation = "", "", ""

	fields := make(map[string]string, len(models.Fields))
	for f, v := range sub.Profile.Values() {
		tok, err := s.cipher.Encrypt(v)
		if err != nil {
			return fmt.Errorf("encrypt %s: %w", f, err)
		}
		fields[string(f)] = tok
	}

	payload, err := json.Marshal(archive.Snapshot{Candidate: sub.Profile, TechnicalResponses: qa})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	blob, err := s.cipher.Encrypt(string(payload))
	if err != nil {
		return fmt.Errorf("encrypt payload: %w", err)
	}

	return s.archive.Append(ctx, &archive.Entry{
		Timestamp:       now,
		RecordID:        sub.ID,
		Plain:           archive.Snapshot{Candidate: plain, TechnicalResponses: qa},
		EncryptedFields: fields,
		EncryptedBlob:   blob,
	})
}

// Get returns the record with sensitive fields decrypted. Unknown ids give
// common.ErrorNotFound; an undecryptable field gives *common.DecryptionError
// and no partial data.
func (s *Store) Get(ctx context.Context, id string) (*models.Candidate, error) {
	row, err := s.repos.Candidates(s.writer.DB()).Get(ctx, id)
	if err != nil {
		return nil, err
	}

	c := &models.Candidate{
		ID:        row.ID,
		CreatedAt: row.CreatedAt,
		Profile: models.Profile{
			Name:             row.Name,
			DesiredPositions: row.DesiredPositions,
			TechStack:        row.TechStack,
		},
	}
	if row.ExperienceYears != nil {
		c.Profile.ExperienceYears = strconv.Itoa(*row.ExperienceYears)
	}

	sealed := []struct {
		field models.Field
		token string
		dst   *string
	}{
		{models.FieldEmail, row.Email, &c.Profile.Email},
		{models.FieldPhoneNumber, row.PhoneNumber, &c.Profile.PhoneNumber},
		{models.FieldCurrentLocation, row.CurrentLocation, &c.Profile.CurrentLocation},
	}
	for _, f := range sealed {
		v, err := s.cipher.Decrypt(f.token)
		if err != nil {
			return nil, &common.DecryptionError{RecordID: id, Field: string(f.field), Err: err}
		}
		*f.dst = v
	}

	if err := json.Unmarshal([]byte(row.TechnicalResponses), &c.Responses); err != nil {
		return nil, fmt.Errorf("record %s technical responses: %w", id, err)
	}
	return c, nil
}

// List returns cleartext summaries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	rows, err := s.repos.Candidates(s.writer.DB()).List(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(rows))
	for _, r := range rows {
		out = append(out, Summary{
			ID:               r.ID,
			CreatedAt:        r.CreatedAt,
			Name:             r.Name,
			DesiredPositions: r.DesiredPositions,
			TechStack:        r.TechStack,
		})
	}
	return out, nil
}
