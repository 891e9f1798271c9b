package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/config"
	v1 "github.com/dmehra2102/prod-golang-projects/medschedule/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/service"
	"github.com/dmehra2102/prod-golang-projects/medschedule/pkg/database"
	"github.com/dmehra2102/prod-golang-projects/medschedule/pkg/logger"
	"github.com/dmehra2102/prod-golang-projects/medschedule/pkg/metrics"
	"github.com/dmehra2102/prod-golang-projects/medschedule/pkg/tracer"
)

func main() {
	var envFile string

	rootCmd := &cobra.Command{
		Use:           "medschedule",
		Short:         "Medical appointment scheduling API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnv(envFile)
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before reading the environment")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadEnv reads path if it exists. Variables already set in the environment win.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Database.Driver == config.DriverMemory {
				return errors.New("nothing to migrate for DB_DRIVER=memory")
			}

			log, err := logger.New(cfg.Log, cfg.App)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, err := database.Connect(cfg.Database, log)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			return database.Migrate(db, log)
		},
	}
}

func runServer(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log, cfg.App)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting server", zap.String("db_driver", cfg.Database.Driver))

	tp, err := tracer.Init(ctx, cfg.Tracing, cfg.App.Version)
	if err != nil {
		return fmt.Errorf("initialising tracer: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewCollector(cfg.App.Name, reg)

	stores, closeStores, err := openStores(cfg, m, log)
	if err != nil {
		return err
	}
	defer closeStores()

	auditSvc := service.NewAuditService(stores.audit, cfg.Audit.BufferSize, m, log)
	defer auditSvc.Shutdown(10 * time.Second)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := v1.NewRouter(ctx, cfg, v1.Services{
		Doctors:      service.NewDoctorService(stores.doctors, auditSvc, m, log),
		Patients:     service.NewPatientService(stores.patients, auditSvc, m, log),
		Rooms:        service.NewRoomService(stores.rooms, auditSvc, m, log),
		Appointments: service.NewAppointmentService(stores.appointments, stores.doctors, stores.patients, stores.rooms, auditSvc, m, log),
		Stats:        service.NewStatsService(stores.doctors, stores.patients, stores.rooms, stores.appointments),
	}, m, log)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
