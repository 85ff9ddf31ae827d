// Package providers stores OIDC provider configurations. Client
// secrets are kept encrypted at rest; the secrets package owns the
// format and the migration from plain text.
package providers

import (
	"context"

	"github.com/dmitrijs2005/linkmark/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.OIDCProvider, error)
	GetClientSecret(ctx context.Context, id string) (string, error)
	UpdateClientSecret(ctx context.Context, id string, secret string) error
	UpdateClientSecretTx(ctx context.Context, id string, transform func(current string) (string, bool, error)) (bool, error)
}
