package main

import (
	"context"
	"flag"
	"log"

	"faq-agentic-be/internal/bootstrap"
	"faq-agentic-be/internal/config"
	"faq-agentic-be/pkg/database"
)

// Deletes interactions older than the retention window. Intended to run from
// cron; safe to run while the API server is up.
func main() {
	days := flag.Int("days", 0, "retention window in days (default from SESSION_RETENTION_DAYS)")
	flag.Parse()

	cfg := config.Load()

	retention := cfg.Session.RetentionDays
	if *days > 0 {
		retention = *days
	}

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	deleted, err := container.SessionService.RetentionCleanup(context.Background(), retention)
	if err != nil {
		log.Fatalf("Error: Retention cleanup failed: %v", err)
	}

	log.Printf("Deleted %d interactions older than %d days", deleted, retention)
}
