package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/mamadbah2/goatledger/internal/config"
	"github.com/mamadbah2/goatledger/internal/repository/sheets"
	"github.com/mamadbah2/goatledger/internal/scheduler"
	"github.com/mamadbah2/goatledger/internal/server/handlers"
	"github.com/mamadbah2/goatledger/internal/server/router"
	commandsvc "github.com/mamadbah2/goatledger/internal/service/commands"
	ledgersvc "github.com/mamadbah2/goatledger/internal/service/ledger"
	reportingsvc "github.com/mamadbah2/goatledger/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/goatledger/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/goatledger/pkg/clients/whatsapp"
	"github.com/mamadbah2/goatledger/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx := context.Background()

	storage, err := openStorage(ctx, cfg, logger.Named(baseLogger, "repo"))
	if err != nil {
		baseLogger.Fatal("failed to init ledger storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}
	defer storage.Close(baseLogger)

	store := ledgersvc.NewStore(storage.backend, cfg.Storage.Key, logger.Named(baseLogger, "svc.ledger"))
	if _, err := store.Load(ctx); err != nil {
		baseLogger.Fatal("failed to load ledger", zap.Error(err))
	}

	reportingSvc := reportingsvc.NewService(store, logger.Named(baseLogger, "svc.reporting"))

	var sinks []scheduler.SnapshotSink
	if storage.mongo != nil && cfg.MongoDB.Archive {
		sinks = append(sinks, storage.mongo)
	}
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sinks = append(sinks, sheetsRepo)
	}

	var (
		notifier       scheduler.Notifier
		webhookHandler *handlers.WebhookHandler
	)
	if cfg.WhatsApp.Enabled() {
		commandDispatcher := commandsvc.NewService(store, reportingSvc, logger.Named(baseLogger, "svc.commands"))
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, commandDispatcher, logger.Named(baseLogger, "svc.whatsapp"))
		webhookHandler = handlers.NewWebhookHandler(messagingSvc, logger.Named(baseLogger, "handlers.whatsapp"))
		notifier = messagingSvc
		baseLogger.Info("whatsapp command channel enabled", zap.Bool("restricted", cfg.WhatsApp.Restricted()))
		if !cfg.WhatsApp.Restricted() {
			baseLogger.Warn("no WHATSAPP_MANAGER_ID or WHATSAPP_ALLOWED_SENDERS, any sender can change the ledger")
		}
	} else {
		baseLogger.Warn("whatsapp token missing, command channel and report delivery disabled")
	}

	ledgerHandler := handlers.NewLedgerHandler(store, logger.Named(baseLogger, "handlers.ledger"))
	engine := router.New(ledgerHandler, webhookHandler, logger.Named(baseLogger, "router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, cfg.WhatsApp.ManagerID, reportingSvc, notifier, sinks, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("backend", cfg.Storage.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-sigCtx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
