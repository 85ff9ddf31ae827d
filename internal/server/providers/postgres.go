package providers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/linkmark/internal/common"
	"github.com/dmitrijs2005/linkmark/internal/dbx"
	"github.com/dmitrijs2005/linkmark/internal/server/models"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.OIDCProvider, error) {
	query :=
		`SELECT id, name, issuer, client_id, client_secret, created_at FROM oidc_providers
		 ORDER BY name
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var providers []*models.OIDCProvider
	for rows.Next() {
		p := &models.OIDCProvider{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Issuer, &p.ClientID, &p.ClientSecret, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		providers = append(providers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return providers, nil
}

func (r *PostgresRepository) GetClientSecret(ctx context.Context, id string) (string, error) {
	query :=
		`SELECT client_secret FROM oidc_providers
		 WHERE id = $1
		 `

	var secret string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&secret)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}

	return secret, nil
}

// UpdateClientSecretTx re-reads the stored secret inside a transaction,
// locks the row, and persists the value produced by transform. When
// transform declines (second return false) the row is left untouched.
// The first return value reports whether a write happened.
func (r *PostgresRepository) UpdateClientSecretTx(ctx context.Context, id string, transform func(current string) (string, bool, error)) (bool, error) {
	updated := false

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query :=
			`SELECT client_secret FROM oidc_providers
			 WHERE id = $1
			 FOR UPDATE
			 `

		var current string
		if err := tx.QueryRowContext(ctx, query, id).Scan(&current); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return common.ErrNotFound
			}
			return fmt.Errorf("db error: %w", err)
		}

		next, ok, err := transform(current)
		if err != nil || !ok {
			return err
		}

		update :=
			`UPDATE oidc_providers SET client_secret = $2
			 WHERE id = $1
			 `

		if _, err := tx.ExecContext(ctx, update, id, next); err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		updated = true
		return nil
	})

	return updated, err
}

func (r *PostgresRepository) UpdateClientSecret(ctx context.Context, id string, secret string) error {
	query :=
		`UPDATE oidc_providers SET client_secret = $2
		 WHERE id = $1
		 `

	result, err := r.db.ExecContext(ctx, query, id, secret)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}
