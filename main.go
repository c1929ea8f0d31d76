// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"costume-rental/cmd"
	"costume-rental/internal/data/repository"
	"costume-rental/internal/jobs"
	"costume-rental/internal/wire"
	"costume-rental/pkg/clock"
	"costume-rental/pkg/database"
	"costume-rental/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.Int("hold_minutes", config.Booking.HoldMinutes),
		zap.String("timezone", config.Booking.Timezone),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app, err := wire.Wiring(repos, config, clock.NewSystem(), logger)
	if err != nil {
		logger.Fatal("Failed to wire application", zap.Error(err))
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return cmd.APIServer(ctx, app.Router, config.App.Port, logger)
	})

	if config.Booking.SweepSchedule != "" {
		loc, _ := config.Booking.Location()
		scheduler, err := jobs.NewScheduler(config.Booking.SweepSchedule, app.Service.Booking, loc, logger)
		if err != nil {
			logger.Fatal("Failed to schedule hold sweep", zap.Error(err))
		}
		g.Go(func() error {
			return scheduler.Run(ctx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Application terminated with error", zap.Error(err))
		os.Exit(1)
	}
}
