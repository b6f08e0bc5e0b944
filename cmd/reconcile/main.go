package main

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"racefinder/internal/config"
	"racefinder/internal/database"
	"racefinder/internal/domain/like"
	"racefinder/internal/logging"
)

// reconcile recounts every event's like counter from the ledger and repairs drift.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if _, err := logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		log.Fatalf("logging: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL, database.Options{})
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	drifts, err := like.NewRepository(db).Reconcile(ctx)
	if err != nil {
		log.Fatalf("reconcile failed: %v", err)
	}

	for _, d := range drifts {
		log.WithFields(log.Fields{
			"event_id": d.EventID,
			"stored":   d.Stored,
			"actual":   d.Actual,
		}).Warn("repaired like counter")
	}
	log.WithField("repaired", len(drifts)).Info("like reconcile completed")
}
