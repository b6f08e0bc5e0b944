package main

import (
	"context"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"

	"racefinder/internal/config"
	"racefinder/internal/database"
	"racefinder/internal/domain/event"
	"racefinder/internal/domain/proposal"
	"racefinder/internal/pkg/jwt"
	"racefinder/internal/pkg/jwt/jwttest"
	"racefinder/internal/ratelimit"
	"racefinder/internal/server"
)

type race struct {
	title        string
	date         string
	municipality string
	department   string
	category     string
	altitude     int
	distances    []string
	status       event.Status
}

var races = []race{
	{"Media Maratón de Bogotá", "2026-07-26", "Bogotá", "Cundinamarca", "road", 2600, []string{"10K", "21K"}, event.StatusPublished},
	{"Maratón de Medellín", "2026-09-13", "Medellín", "Antioquia", "road", 1495, []string{"10K", "21K", "42K"}, event.StatusPublished},
	{"Trail Chicamocha", "2026-08-22", "Aratoca", "Santander", "trail", 1700, []string{"15K", "35K"}, event.StatusPublished},
	{"Carrera Nocturna Cali", "2026-10-31", "Cali", "Valle del Cauca", "road", 1000, []string{"5K", "10K"}, event.StatusDraft},
	{"Ultra Nevado", "2026-12-05", "Manizales", "Caldas", "trail", 2160, []string{"50K", "80K"}, event.StatusCancelled},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL, database.Options{})
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Info("Running AutoMigrate...")
	if err := server.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	ctx := context.Background()
	srv := server.New(server.Deps{DB: db, Config: cfg, Keys: jwttest.KeySet(), Limiter: ratelimit.NewMemoryLimiter()})
	if err := srv.Bootstrap(ctx, cfg.BootstrapSuperAdminEmail); err != nil {
		log.Fatal("bootstrap failed:", err)
	}

	log.Info("Creating events...")
	for i, r := range races {
		date, _ := time.Parse("2006-01-02", r.date)
		e := event.Event{
			ID:             fmt.Sprintf("seed-event-%02d", i+1),
			Title:          r.title,
			EventDate:      date,
			Municipality:   r.municipality,
			Department:     r.department,
			Category:       r.category,
			Status:         r.status,
			Distances:      datatypes.NewJSONSlice(r.distances),
			AltitudeMeters: r.altitude,
			CreatedBy:      cfg.BootstrapSuperAdminEmail,
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&e).Error; err != nil {
			log.Fatalf("create event %q: %v", r.title, err)
		}
	}

	log.Info("Creating proposals...")
	for _, title := range []string{"Vuelta al Lago de Tota", "Carrera de la Mujer Pereira"} {
		p := proposal.Proposal{
			ID:             uuid.NewString(),
			Title:          title,
			EventDate:      time.Now().AddDate(0, 3, 0).Truncate(24 * time.Hour),
			Category:       "road",
			Distances:      datatypes.NewJSONSlice([]string{"10K"}),
			Status:         proposal.StatusPending,
			SubmitterEmail: "runner@example.com",
		}
		if err := db.Create(&p).Error; err != nil {
			log.Fatalf("create proposal %q: %v", title, err)
		}
	}

	log.Info("Seed completed")
	if cfg.IDPDevSecret != "" {
		token := jwttest.Sign(cfg.IDPDevKID, cfg.IDPDevSecret, jwt.Claims{
			UserID:        "seed-admin",
			Email:         cfg.BootstrapSuperAdminEmail,
			EmailVerified: true,
			RegisteredClaims: jwtlib.RegisteredClaims{
				Subject:   "seed-admin",
				ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(24 * time.Hour)),
			},
		})
		fmt.Printf("\nAdmin token (24h):\n%s\n", token)
	}
}
