package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/carebook/internal/client"
	"github.com/dmehra2102/prod-golang-projects/carebook/internal/config"
	handlerv1 "github.com/dmehra2102/prod-golang-projects/carebook/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/carebook/internal/repository"
	"github.com/dmehra2102/prod-golang-projects/carebook/internal/service"
	"github.com/dmehra2102/prod-golang-projects/carebook/pkg/database"
	"github.com/dmehra2102/prod-golang-projects/carebook/pkg/logger"
	"github.com/dmehra2102/prod-golang-projects/carebook/pkg/metrics"
	"github.com/dmehra2102/prod-golang-projects/carebook/pkg/tracer"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	zlog.Info("carebook-api starting up",
		zap.String("env", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		zlog.Fatal("tracer init error", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			zlog.Warn("tracer shutdown error", zap.Error(err))
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		zlog.Fatal("database connection error", zap.Error(err))
	}
	if err := database.Migrate(db, zlog); err != nil {
		zlog.Fatal("database migration error", zap.Error(err))
	}
	zlog.Info("connected to Postgres")

	collector := metrics.NewCollector("carebook")
	go database.CollectPoolStats(rootCtx, db, collector, 15*time.Second)

	apptRepo := repository.NewAppointmentRepository(db, collector)
	auditRepo := repository.NewAuditRepository(db, collector)
	auditSvc := service.NewAuditService(auditRepo, collector, zlog)
	defer auditSvc.Shutdown()

	predictor := client.NewPredictionClient(cfg.Prediction, zlog)

	apptSvc := service.NewAppointmentService(apptRepo, predictor, auditSvc, collector, zlog)
	handler := handlerv1.NewAppointmentHandler(apptSvc, zlog)
	router := handlerv1.NewRouter(handler, collector, zlog)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zlog.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("http server error", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	zlog.Info("shutting down carebook-api")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("http server shutdown error", zap.Error(err))
	}
}
