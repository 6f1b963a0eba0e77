package store

import (
	"context"

	"github.com/dmitrijs2005/talentscout/internal/archive"
	"github.com/dmitrijs2005/talentscout/internal/logging"
	"github.com/dmitrijs2005/talentscout/internal/repositories/repomanager"
)

// KeyedCipher is a Cipher that can identify its key.
type KeyedCipher interface {
	Cipher
	Verifier() []byte
}

// Open connects to the primary store, migrates it and verifies that c was
// built from the key the store already holds records for.
func Open(ctx context.Context, driver, dsn string, c KeyedCipher, a archive.Archiver, l logging.Logger) (*Store, error) {
	db, repos, err := repomanager.Open(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}

	s := New(db, repos, c, a, l)
	if err := s.CheckKey(ctx, c.Verifier()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
