// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/customer-roster/internal/config"
	"github.com/unclebandit/customer-roster/internal/db"
	"github.com/unclebandit/customer-roster/internal/handler"
	"github.com/unclebandit/customer-roster/internal/logging"
	"github.com/unclebandit/customer-roster/internal/repository"
)

func main() {
	log := logging.New(config.DefaultLogLevel, os.Stderr)

	cfg, err := config.Load(log)
	if err != nil {
		log.Fatal(err)
	}
	log = logging.New(cfg.LogLevel, os.Stderr)

	// Init DB
	conn, err := db.Open(context.Background(), cfg.DB, log)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	dialect, err := db.DialectFor(cfg.DB.Driver)
	if err != nil {
		log.Fatal(err)
	}
	customerRepo, err := repository.NewCustomerRepository(conn, dialect, cfg.Table)
	if err != nil {
		log.Fatal(err)
	}

	customerHandler := handler.NewCustomerHandler(customerRepo, log)

	r := chi.NewRouter()

	// Customer routes
	customerHandler.Register(r)

	log.Printf("🚀 Server running on %s", cfg.ServerAddr)
	log.Fatal(http.ListenAndServe(cfg.ServerAddr, r))
}
