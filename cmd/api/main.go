package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/homecare-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/homecare-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/homecare-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/homecare-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/homecare-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/homecare-backend-go/internal/repository/postgresql"
	absenceService "github.com/cmlabs-hris/homecare-backend-go/internal/service/absence"
	contractService "github.com/cmlabs-hris/homecare-backend-go/internal/service/contract"
	"github.com/cmlabs-hris/homecare-backend-go/internal/service/leave"
	notificationService "github.com/cmlabs-hris/homecare-backend-go/internal/service/notification"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	})).With(slog.String("app", "homecare-backend"), slog.String("env", cfg.App.Env)))

	ctx := context.Background()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Migrations.AutoRun {
		if err := database.Migrate(ctx, db, cfg.Migrations.Dir); err != nil {
			slog.Error("Failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	txManager := postgresql.NewTxManager(db)
	absenceRepo := postgresql.NewAbsenceRepository(db)
	contractRepo := postgresql.NewContractRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		slog.Error("Failed to initialize JWT service", "error", err)
		os.Exit(1)
	}

	notificationSvc := notificationService.NewNotificationService(notificationRepo, notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.WorkerCount,
		QueueSize:     cfg.Notification.QueueSize,
	})

	accrualCalculator := leave.NewAccrualCalculator(leave.AccrualPolicy{
		DaysPerMonth:        cfg.Leave.DaysPerMonth,
		MaxDays:             cfg.Leave.MaxDays,
		LeaveYearStartMonth: cfg.Leave.YearStartMonth,
	})
	balanceSvc := leave.NewBalanceService(leaveBalanceRepo, accrualCalculator, cfg.Leave.YearStartMonth)
	contractSvc := contractService.NewContractService(contractRepo, balanceSvc, accrualCalculator)
	absenceSvc := absenceService.NewAbsenceService(
		txManager,
		absenceRepo,
		contractRepo,
		shiftRepo,
		balanceSvc,
		notificationSvc,
		cfg.Leave.YearStartMonth,
	)

	scheduler := cron.NewScheduler()
	cron.NewAbsenceJobs(absenceRepo, notificationSvc, cfg.Leave.ReminderHour).RegisterJobs(scheduler)
	cron.NewLeaveJobs(contractRepo, balanceSvc).RegisterJobs(scheduler)
	scheduler.Start()

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Absence:      appHTTP.NewAbsenceHandler(absenceSvc),
		Leave:        appHTTP.NewLeaveHandler(balanceSvc, contractSvc),
		Contract:     appHTTP.NewContractHandler(contractSvc),
		Notification: appHTTP.NewNotificationHandler(notificationSvc),
	}, appHTTP.RouterOptions{
		Env:            cfg.App.Env,
		Version:        version,
		AllowedOrigins: cfg.App.AllowedOrigins,
		LogLevel:       cfg.LogLevel(),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	scheduler.Stop()
	notificationSvc.Stop()
}
