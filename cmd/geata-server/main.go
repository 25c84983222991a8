package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wakko59/Geata-api/internal/config"
	"github.com/wakko59/Geata-api/internal/db"
	"github.com/wakko59/Geata-api/internal/geata/service"
	sqlitestore "github.com/wakko59/Geata-api/internal/geata/store/sqlite"
	"github.com/wakko59/Geata-api/internal/httpapi"
)

func main() {
	logger := log.New(os.Stdout, "geata-server ", log.LstdFlags|log.LUTC)

	cfg := config.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sqlDB, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		logger.Fatalf("db open: %v", err)
	}
	defer sqlDB.Close()

	if cfg.Env == "dev" {
		if err := db.SeedDev(ctx, sqlDB); err != nil {
			logger.Fatalf("dev seed: %v", err)
		}
	}

	writer := db.NewWorker(sqlDB)
	defer writer.Close()

	devices := sqlitestore.NewDeviceStore(sqlDB, writer)
	users := sqlitestore.NewUserStore(sqlDB, writer)
	memberships := sqlitestore.NewMembershipStore(sqlDB, writer)
	schedules := sqlitestore.NewScheduleStore(sqlDB, writer)
	commands := sqlitestore.NewCommandStore(sqlDB, writer)
	eventStore := sqlitestore.NewEventStore(sqlDB, writer)

	events := service.NewEventService(eventStore, logger, nil)
	access := service.NewAccessService(memberships, schedules)
	commandSvc := service.NewCommandService(devices, commands, access, events)
	pollSvc := service.NewPollService(devices, commands, events)
	authSvc := service.NewAuthService(users, cfg.JWTSecret,
		time.Duration(cfg.TokenTTLHours)*time.Hour, cfg.DefaultCountryCode)

	pruner := service.NewRetentionPruner(commands, eventStore, service.PrunerConfig{
		RetentionDays: cfg.RetentionDays,
		IntervalHours: cfg.PruneIntervalHours,
	}, logger)
	pruner.Start(ctx)

	server := httpapi.NewServer(httpapi.Dependencies{
		Logger:      logger,
		Addr:        cfg.HTTPAddr,
		AdminAPIKey: cfg.AdminAPIKey,
		Auth:        authSvc,
		Commands:    commandSvc,
		Poll:        pollSvc,
		Events:      events,
		Devices:     devices,
		Users:       users,
		Memberships: memberships,
		Schedules:   schedules,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("listening on %s (env=%s)", cfg.HTTPAddr, cfg.Env)
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http server: %v", err)
		}
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("http shutdown: %v", err)
	}

	pruner.Stop()
	logger.Printf("bye")
}
