package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medtrack/medtrack/internal/config"
	"github.com/medtrack/medtrack/internal/domain/adherence"
	"github.com/medtrack/medtrack/internal/domain/analytics"
	"github.com/medtrack/medtrack/internal/domain/tracker"
	"github.com/medtrack/medtrack/internal/platform/db"
	"github.com/medtrack/medtrack/internal/platform/demo"
	"github.com/medtrack/medtrack/internal/platform/middleware"
	"github.com/medtrack/medtrack/internal/platform/telemetry"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "medtrack-server",
		Short: "Medication adherence and wearable tracker simulation API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with synthetic demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			patients, _ := cmd.Flags().GetInt("patients")
			months, _ := cmd.Flags().GetInt("months")
			meds, _ := cmd.Flags().GetInt("medications")
			days, _ := cmd.Flags().GetInt("tracker-days")
			seed, _ := cmd.Flags().GetInt64("seed")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			seedCfg := demo.SeedConfig{
				PatientCount:          patients,
				MonthsBack:            months,
				MedicationsPerPatient: meds,
				TrackerDays:           days,
				Seed:                  seed,
			}
			if patients == 0 {
				seedCfg.PatientCount = cfg.SeedDefaultPatients
			}
			if months == 0 {
				seedCfg.MonthsBack = cfg.SeedDefaultMonths
			}

			seeder := demo.NewSeeder(adherence.NewRepoPG(pool), tracker.NewRepoPG(pool), seed)
			result, err := seeder.Generate(ctx, seedCfg)
			if err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}

			fmt.Printf("Seeded %d patient(s), %d intake event(s), %d reading(s) in %s.\n",
				result.Patients, result.IntakeEvents, result.Readings, result.DurationPretty)
			return nil
		},
	}
	cmd.Flags().Int("patients", 0, "Number of patients (default from SEED_DEFAULT_PATIENTS)")
	cmd.Flags().Int("months", 0, "Months of adherence history (default from SEED_DEFAULT_MONTHS)")
	cmd.Flags().Int("medications", 3, "Medications per patient")
	cmd.Flags().Int("tracker-days", 14, "Days of tracker readings")
	cmd.Flags().Int64("seed", 0, "Random seed (0 = time-based)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tracker readings to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			days, _ := cmd.Flags().GetInt("days")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := tracker.NewService(tracker.NewRepoPG(pool))
			to := time.Now().UTC()
			from := to.AddDate(0, 0, -days)

			switch format {
			case "csv":
				return svc.ExportCSV(ctx, os.Stdout, from, to)
			case "ndjson":
				return svc.ExportNDJSON(ctx, os.Stdout, from, to)
			default:
				return fmt.Errorf("unsupported format %q, use csv or ndjson", format)
			}
		},
	}
	cmd.Flags().String("format", "csv", "Output format: csv or ndjson")
	cmd.Flags().Int("days", 30, "Export readings from the last N days")
	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Telemetry
	metrics := telemetry.NewProvider(telemetry.Config{
		ServiceName:    "medtrack-server",
		ServiceVersion: version,
		Environment:    cfg.Env,
	})

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(metrics.MetricsMiddleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))
	apiV1.Use(middleware.RequestTimeout(30 * time.Second))

	// Health and metrics
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))
	e.GET("/metrics", func(c echo.Context) error {
		stats := db.GetPoolStats(pool)
		metrics.SetDBPoolActive(int64(stats.AcquiredConns))
		metrics.SetDBPoolIdle(int64(stats.IdleConns))
		return metrics.PrometheusHandler()(c)
	})

	// Domain handlers
	adherenceRepo := adherence.NewRepoPG(pool)
	adherenceSvc := adherence.NewService(adherenceRepo)
	adherenceSvc.SetMetrics(metrics)
	adherence.NewHandler(adherenceSvc).RegisterRoutes(apiV1)

	trackerRepo := tracker.NewRepoPG(pool)
	trackerSvc := tracker.NewService(trackerRepo)
	trackerSvc.SetMetrics(metrics)
	tracker.NewHandler(trackerSvc).RegisterRoutes(apiV1)

	analytics.NewHandler(adherenceSvc).RegisterRoutes(apiV1)

	demo.NewHandler(adherenceRepo, trackerRepo, demo.SeedConfig{
		PatientCount:          cfg.SeedDefaultPatients,
		MonthsBack:            cfg.SeedDefaultMonths,
		MedicationsPerPatient: 3,
		TrackerDays:           14,
	}).RegisterRoutes(apiV1)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
