package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/isokodocs/isoko/internal/client/models"
	"github.com/isokodocs/isoko/internal/client/repositories/metadata"
	"github.com/isokodocs/isoko/internal/common"
	"github.com/isokodocs/isoko/internal/dbx"
)

// SQLiteStore keeps the credential in the metadata table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Save(ctx context.Context, cred models.Credential) error {
	if !cred.Complete() {
		return common.ErrIncompleteCredential
	}

	return dbx.WithTx(ctx, s.db, func(tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.AccessTokenKey, cred.Access); err != nil {
			return err
		}
		return repo.Set(ctx, common.RefreshTokenKey, cred.Refresh)
	})
}

func (s *SQLiteStore) Load(ctx context.Context) (models.Credential, bool, error) {
	var cred models.Credential

	repo := metadata.NewSQLiteRepository(s.db)
	access, ok, err := repo.Get(ctx, common.AccessTokenKey)
	if err != nil || !ok {
		return cred, false, err
	}
	refresh, ok, err := repo.Get(ctx, common.RefreshTokenKey)
	if err != nil || !ok {
		return cred, false, err
	}

	cred = models.Credential{Access: access, Refresh: refresh}
	if !cred.Complete() {
		return models.Credential{}, false, nil
	}
	return cred, true, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, func(tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, common.AccessTokenKey, common.RefreshTokenKey)
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
