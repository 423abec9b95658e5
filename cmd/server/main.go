package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/api/option"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/repository"
	"github.com/Sontome/web-b2b-thuhongtour/internal/infrastructure/cache"
	"github.com/Sontome/web-b2b-thuhongtour/internal/infrastructure/config"
	"github.com/Sontome/web-b2b-thuhongtour/internal/infrastructure/oauth"
	"github.com/Sontome/web-b2b-thuhongtour/internal/infrastructure/persistence"
	"github.com/Sontome/web-b2b-thuhongtour/internal/infrastructure/router"
	"github.com/Sontome/web-b2b-thuhongtour/internal/infrastructure/scheduler"
	"github.com/Sontome/web-b2b-thuhongtour/internal/interface/faresearch"
	"github.com/Sontome/web-b2b-thuhongtour/internal/interface/gmail"
	"github.com/Sontome/web-b2b-thuhongtour/internal/interface/handler"
	repo "github.com/Sontome/web-b2b-thuhongtour/internal/interface/repository"
	"github.com/Sontome/web-b2b-thuhongtour/internal/usecase"
	"github.com/Sontome/web-b2b-thuhongtour/pkg/logger"
	"github.com/Sontome/web-b2b-thuhongtour/pkg/metrics"
)

func main() {
	log := logger.NewLogger()
	log.Info("Starting fare monitor service")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics("fare_monitor", registry)

	log.Info("Connecting to PostgreSQL")
	gormDB, err := persistence.NewPostgresDB(cfg.PostgresURI)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	log.Info("Connecting to MongoDB")
	mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	db := mongoClient.Database(cfg.MongoDB)

	// Repositories
	profileRepo := repo.NewGormProfileRepository(gormDB)
	flightRepo := repo.NewGormMonitoredFlightRepository(gormDB)
	searchLogRepo := repo.NewMongoSearchLogRepository(db)
	fareCache := cache.NewFareCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)

	// Fare endpoints
	airlineRouter := router.NewAirlineRouter(log)
	airlineRouter.Register(faresearch.NewClient(cfg.FareAPIBaseURL, cfg.FareSearchTimeout, faresearch.VietJetConfig(), log))
	airlineRouter.Register(faresearch.NewClient(cfg.FareAPIBaseURL, cfg.FareSearchTimeout, faresearch.VietnamAirlinesConfig(), log))

	// Use cases
	priceMonitor := usecase.NewPriceMonitor(flightRepo, airlineRouter, m, log, cfg.SweepConcurrency, cfg.FareSearchTimeout)
	flightSearch := usecase.NewFlightSearch(profileRepo, searchLogRepo, airlineRouter, fareCache, cfg.SearchCacheTTL, cfg.FareSearchTimeout, m, log)
	monitoredFlights := usecase.NewMonitoredFlights(flightRepo, log)

	// Alert channels
	notifiers := []repository.PriceAlertNotifier{repo.NewTelegramNotifier(cfg.TelegramAPIURL, log)}
	if cfg.GmailEnabled() {
		gmailOAuth := oauth.NewGmailOAuth(cfg.GmailClientID, cfg.GmailClientSecret, cfg.GmailRefreshToken, log)
		gmailNotifier, err := gmail.NewNotifier(ctx, cfg.GmailSender, log, option.WithTokenSource(gmailOAuth.TokenSource(ctx)))
		if err != nil {
			log.Fatal("Failed to create Gmail service", "error", err)
		}
		notifiers = append(notifiers, gmailNotifier)
	} else {
		log.Info("Gmail alerts disabled, credentials not configured")
	}
	dispatcher := usecase.NewPriceAlertDispatcher(profileRepo, notifiers, m, log)

	priceScheduler := scheduler.NewPriceCheckScheduler(priceMonitor, dispatcher, cfg.PriceCheckInterval, cfg.SweepTimeout, log)
	if cfg.PriceCheckEnabled {
		priceScheduler.Start(ctx)
	} else {
		log.Info("Scheduled price checks disabled")
	}

	httpHandler := handler.NewRouter(handler.Handlers{
		PriceCheck:      handler.NewPriceCheckHandler(priceMonitor, log),
		Search:          handler.NewSearchHandler(flightSearch, profileRepo),
		MonitoredFlight: handler.NewMonitoredFlightHandler(monitoredFlights),
	}, registry, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	if err := priceScheduler.Stop(shutdownCtx); err != nil {
		log.Error("Price check scheduler shutdown error", "error", err)
	}

	cancel()

	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}

	log.Info("Fare monitor service stopped")
}
