package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"racefinder/internal/config"
	"racefinder/internal/database"
	"racefinder/internal/logging"
	"racefinder/internal/pkg/jwt"
	"racefinder/internal/ratelimit"
	"racefinder/internal/scheduler"
	"racefinder/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	closer, err := logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer closer.Close()

	db, err := database.Connect(cfg.DatabaseURL, dbOptions(cfg))
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := server.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()

	var limiter ratelimit.Limiter
	if cfg.UseRedis() {
		rl, err := ratelimit.NewRedisLimiter(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rl.Close()
		limiter = rl
		log.Info("like limiter: redis")
	} else {
		limiter = ratelimit.NewMemoryLimiter()
		log.Warn("like limiter: in-memory, limits are per instance")
	}

	srv := server.New(server.Deps{
		DB:      db,
		Config:  cfg,
		Keys:    keySet(cfg),
		Limiter: limiter,
	})
	if err := srv.Bootstrap(ctx, cfg.BootstrapSuperAdminEmail); err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	jobs := scheduler.New(10 * time.Minute)
	if err := jobs.Add(scheduler.JobLikeReconcile, cfg.ReconcileSchedule, scheduler.LikeReconcileJob(srv.Likes)); err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	jobs.Start()

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(log.Fields{"addr": cfg.HTTPAddr, "env": cfg.AppEnv}).Info("server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown")
	}
	jobs.Stop()
}

func dbOptions(cfg *config.Config) database.Options {
	if database.IsPostgres(cfg.DatabaseURL) {
		return database.Options{
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			SlowThreshold:   500 * time.Millisecond,
		}
	}
	return database.Options{MaxOpenConns: 1, SlowThreshold: 500 * time.Millisecond}
}

func keySet(cfg *config.Config) jwt.KeySet {
	if cfg.IDPCertsURL != "" {
		log.WithField("url", cfg.IDPCertsURL).Info("verifying tokens against identity provider keys")
		return jwt.NewRemoteKeySet(cfg.IDPCertsURL, nil)
	}
	log.Warn("verifying tokens with the development shared secret")
	return jwt.NewHMACKeySet(cfg.IDPDevKID, cfg.IDPDevSecret)
}
