// Command migrate is a one-shot maintenance tool: it applies database
// migrations and then re-encrypts any provider client secrets still
// stored in plaintext. Safe to run repeatedly.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/linkmark/internal/logging"
	"github.com/dmitrijs2005/linkmark/internal/server/config"
	"github.com/dmitrijs2005/linkmark/internal/server/db"
	"github.com/dmitrijs2005/linkmark/internal/server/secrets"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Schema migrations run as part of manager construction.
	rm, err := db.NewPostgresRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	cipher := secrets.NewCipher(cfg)
	migrator := secrets.NewMigrator(rm.Providers(), cipher, logger)

	summary, err := migrator.Migrate(ctx)
	if err != nil {
		log.Fatalf("secret migration error: %v", err)
	}

	fmt.Printf("providers: %d, migrated: %d, skipped: %d\n",
		summary.Total, summary.Migrated, summary.Skipped)
}
