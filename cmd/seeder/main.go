//cmd/seeder/main.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/customer-roster/internal/config"
	"github.com/unclebandit/customer-roster/internal/db"
	"github.com/unclebandit/customer-roster/internal/logging"
)

func main() {
	log := logging.New(config.DefaultLogLevel, os.Stderr)

	cfg, err := config.Load(log)
	if err != nil {
		log.Fatal(err)
	}
	log = logging.New(cfg.LogLevel, os.Stderr)

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := seed(ctx, conn, cfg, log); err != nil {
		log.Fatal(err)
	}

	fmt.Println("Database seeding completed successfully!")
}

// seed creates the customers table and then runs each seed file as one
// statement.
func seed(ctx context.Context, conn db.DBTX, cfg config.Config, log logrus.FieldLogger) error {
	dialect, err := db.DialectFor(cfg.DB.Driver)
	if err != nil {
		return err
	}
	if err := db.EnsureSchema(ctx, conn, dialect, cfg.Table); err != nil {
		return err
	}
	log.WithField("table", cfg.Table).Info("Schema ready")

	for _, file := range cfg.SeedFiles {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		if _, err := conn.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to execute %s: %w", file, err)
		}
		log.WithField("file", file).Info("Seeded")
	}
	return nil
}
