package secrets

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/linkmark/internal/logging"
	"github.com/dmitrijs2005/linkmark/internal/server/models"
)

// ProviderStore is the subset of the providers repository used by the
// migrator. Writes go through the transactional update so the value is
// re-read under a row lock before being replaced.
type ProviderStore interface {
	List(ctx context.Context) ([]*models.OIDCProvider, error)
	UpdateClientSecretTx(ctx context.Context, id string, transform func(current string) (string, bool, error)) (bool, error)
}

// Summary reports the outcome of a migration pass.
type Summary struct {
	Migrated int
	Skipped  int
	Total    int
}

// Migrator runs the one-time encrypt-or-skip pass over stored OIDC
// client secrets. It is idempotent: a second run over an unchanged
// store migrates nothing. It is meant to run as a single offline pass;
// concurrent migrator instances against the same table are not
// supported.
type Migrator struct {
	store  ProviderStore
	cipher *Cipher
	logger logging.Logger
}

func NewMigrator(store ProviderStore, cipher *Cipher, logger logging.Logger) *Migrator {
	return &Migrator{
		store:  store,
		cipher: cipher,
		logger: logger.With("module", "secret_migrator"),
	}
}

// Migrate classifies every stored secret and encrypts the plaintext
// ones. Values that look encrypted but fail to decrypt are skipped with
// a warning and never re-encrypted: encrypting them again would bury
// the original under the current key for good. Store errors propagate.
func (m *Migrator) Migrate(ctx context.Context) (*Summary, error) {
	providers, err := m.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing providers: %w", err)
	}

	summary := &Summary{Total: len(providers)}

	for _, p := range providers {
		// Empty secrets have nothing to protect.
		if p.ClientSecret == "" {
			summary.Skipped++
			continue
		}

		switch m.cipher.Classify(p.ClientSecret) {
		case EncryptedWellFormed:
			summary.Skipped++

		case EncryptedUndecryptable:
			m.logger.Warn(ctx, "secret appears encrypted but does not decrypt, skipping",
				"provider", p.ID)
			summary.Skipped++

		case Plaintext:
			// Re-classify the row under its lock: the snapshot from
			// List may be stale by the time the write happens.
			updated, err := m.store.UpdateClientSecretTx(ctx, p.ID, func(current string) (string, bool, error) {
				if current == "" || m.cipher.Classify(current) != Plaintext {
					return "", false, nil
				}
				encrypted, err := m.cipher.Encrypt(current)
				if err != nil {
					return "", false, err
				}
				return encrypted, true, nil
			})
			if err != nil {
				return summary, fmt.Errorf("persisting secret for provider %s: %w", p.ID, err)
			}
			if updated {
				summary.Migrated++
			} else {
				summary.Skipped++
			}
		}
	}

	m.logger.Info(ctx, "secret migration finished",
		"migrated", summary.Migrated, "skipped", summary.Skipped, "total", summary.Total)

	return summary, nil
}
