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

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"pmrs/internal/config"
	"pmrs/internal/domain"
	v1 "pmrs/internal/handler/v1"
	"pmrs/internal/repository"
	"pmrs/internal/service"
	"pmrs/pkg/auth"
	"pmrs/pkg/database"
	"pmrs/pkg/logger"
	"pmrs/pkg/metrics"
	"pmrs/pkg/tracer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracer: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	m := metrics.NewCollector("pmrs")

	patientRepo := repository.NewPatientRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	if err := seedAdmin(userRepo, cfg.Bootstrap, log); err != nil {
		return fmt.Errorf("seeding admin user: %w", err)
	}

	jwtManager := auth.NewJWTManager(cfg.JWT)
	auditSvc := service.NewAuditService(auditRepo, m, log)
	patientSvc := service.NewPatientService(patientRepo, auditSvc, m, log)
	authSvc := service.NewAuthService(userRepo, jwtManager, auditSvc, log)
	exportSvc := service.NewExportService(patientRepo, patientSvc, auditSvc, m, log)
	reportSvc := service.NewReportService(patientRepo, auditSvc, m, cfg.Report, log)

	router := v1.NewRouter(cfg, v1.Services{
		Patients: patientSvc,
		Auth:     authSvc,
		Export:   exportSvc,
		Report:   reportSvc,
	}, jwtManager, m, log)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", zap.Error(err))
			stop()
		}
	}()
	log.Info("server listening", zap.String("addr", srv.Addr))

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("error shutting down server", zap.Error(err))
	}

	// Drain pending audit entries before closing the database.
	auditSvc.Shutdown()

	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Warn("error shutting down tracer", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	return nil
}

// seedAdmin creates the bootstrap admin account when credentials are
// configured and no account with that email exists yet.
func seedAdmin(users service.UserRepository, cfg config.BootstrapConfig, log *zap.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := users.GetByEmail(ctx, cfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, service.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u := &domain.User{
		Email:             cfg.AdminEmail,
		PasswordHash:      string(hash),
		FirstName:         "System",
		LastName:          "Administrator",
		Role:              domain.RoleAdmin,
		IsActive:          true,
		PasswordChangedAt: time.Now(),
	}
	if err := users.Create(ctx, u); err != nil {
		return err
	}

	log.Info("bootstrap admin created", zap.String("email", cfg.AdminEmail))
	return nil
}
