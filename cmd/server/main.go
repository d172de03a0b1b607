package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/logimax/analytics/internal/config"
	"github.com/logimax/analytics/internal/repository/mongodb"
	"github.com/logimax/analytics/internal/repository/sheets"
	"github.com/logimax/analytics/internal/scheduler"
	"github.com/logimax/analytics/internal/server/handlers"
	"github.com/logimax/analytics/internal/server/router"
	advisorsvc "github.com/logimax/analytics/internal/service/advisor"
	alertingsvc "github.com/logimax/analytics/internal/service/alerting"
	analyticssvc "github.com/logimax/analytics/internal/service/analytics"
	ifoodsyncsvc "github.com/logimax/analytics/internal/service/ifoodsync"
	reportingsvc "github.com/logimax/analytics/internal/service/reporting"
	ifoodclient "github.com/logimax/analytics/pkg/clients/ifood"
	"github.com/logimax/analytics/pkg/clients/openai"
	"github.com/logimax/analytics/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var exporter reportingsvc.ReportExporter
	if cfg.Sheets.CredentialsPath != "" {
		sheetExporter, err := sheets.NewSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		exporter = sheetExporter
		baseLogger.Info("daily report sheet export enabled")
	}

	analyticsSvc := analyticssvc.NewService(mongoRepo, baseLogger.Named("svc.analytics"))
	alertingSvc := alertingsvc.NewService(analyticsSvc, mongoRepo, cfg.Thresholds, baseLogger.Named("svc.alerting"))
	reportingSvc := reportingsvc.NewService(analyticsSvc, mongoRepo, exporter, baseLogger.Named("svc.reporting"))

	var syncSvc *ifoodsyncsvc.Service
	if cfg.IFood.ClientID != "" {
		ifoodAPI := ifoodclient.NewClient(cfg.IFood)
		syncSvc = ifoodsyncsvc.NewService(ifoodAPI, mongoRepo, baseLogger.Named("svc.ifoodsync"))
		baseLogger.Info("ifood merchant sync enabled", zap.String("merchant_id", cfg.IFood.MerchantID))
	} else {
		baseLogger.Warn("ifood credentials missing, merchant sync disabled")
	}

	var aiClient openai.Client
	if cfg.AI.OpenAIKey != "" {
		aiClient = openai.NewClient(cfg.AI.OpenAIKey, cfg.AI.OpenAIModel)
		baseLogger.Info("openai advisor enabled", zap.String("model", cfg.AI.OpenAIModel))
	} else {
		baseLogger.Warn("openai api key missing, advisor disabled")
	}
	advisorSvc := advisorsvc.NewService(mongoRepo, mongoRepo, mongoRepo, mongoRepo, aiClient, baseLogger.Named("svc.advisor"))

	analyticsHandler := handlers.NewAnalyticsHandler(analyticsSvc, alertingSvc, reportingSvc, cfg.Thresholds, baseLogger.Named("handlers.analytics"))
	opsHandler := handlers.NewOpsHandler(advisorSvc, syncSvc, cfg.IFood.MerchantID, baseLogger.Named("handlers.ops"))
	engine := router.New(analyticsHandler, opsHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Scheduling, reportingSvc, alertingSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
