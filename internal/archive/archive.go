// Package archive keeps an append-only audit trail of every saved
// candidate snapshot, independent of the primary store.
package archive

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/talentscout/internal/models"
)

// Snapshot is the plaintext part of an entry. Sensitive profile fields are
// blanked here and only survive inside EncryptedFields and EncryptedBlob.
type Snapshot struct {
	Candidate          models.Profile   `json:"candidate"`
	TechnicalResponses []models.QAEntry `json:"technical_responses"`
}

// Entry is one archived save.
type Entry struct {
	Timestamp       time.Time         `json:"timestamp"`
	RecordID        string            `json:"record_id"`
	Plain           Snapshot          `json:"plain"`
	EncryptedFields map[string]string `json:"encrypted_fields"`
	EncryptedBlob   string            `json:"encrypted_blob"`
}

// Archiver appends entries. Implementations must be safe for concurrent
// use and must never interleave two entries.
type Archiver interface {
	Append(ctx context.Context, e *Entry) error
}

// Multi fans an entry out to several archivers. Every sink is attempted;
// failures are joined.
type Multi []Archiver

func (m Multi) Append(ctx context.Context, e *Entry) error {
	var errs []error
	for _, a := range m {
		if err := a.Append(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
