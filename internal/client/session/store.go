package session

import (
	"context"

	"github.com/isokodocs/isoko/internal/client/models"
)

// Store is the durable home of the session credential.
type Store interface {
	Save(ctx context.Context, cred models.Credential) error
	Load(ctx context.Context) (models.Credential, bool, error)
	Clear(ctx context.Context) error
}
