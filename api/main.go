package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avtovision/car-catalog/backend/internal/auth"
	"github.com/avtovision/car-catalog/backend/internal/catalog"
	"github.com/avtovision/car-catalog/backend/internal/config"
	"github.com/avtovision/car-catalog/backend/internal/logger"
	"github.com/avtovision/car-catalog/backend/internal/news"
	"github.com/avtovision/car-catalog/backend/internal/notify"
	"github.com/avtovision/car-catalog/backend/internal/recommend"
	"github.com/avtovision/car-catalog/backend/internal/store"
)

func main() {
	log := logger.New("api")
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	esClient, err := store.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log)
	if err != nil {
		log.Error("init elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	publisher := notify.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer publisher.Close()

	listener := notify.NewListener(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaConsumer)
	defer listener.Close()

	cache := catalog.NewCache()
	catalogSvc := catalog.NewService(esClient, publisher, cache, cfg.CatalogMaxDocs, log)
	subscriber := catalog.NewSubscriber(listener, catalogSvc, log)

	gemini, err := recommend.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Error("init gemini", slog.Any("err", err))
		os.Exit(1)
	}

	library, err := news.Load()
	if err != nil {
		log.Error("load news dataset", slog.Any("err", err))
		os.Exit(1)
	}

	srv := &server{
		log:     log,
		cfg:     cfg,
		es:      esClient,
		catalog: catalogSvc,
		rec:     recommend.NewEngine(gemini, log),
		auth:    auth.NewClient(cfg.IdentityBaseURL, cfg.IdentityAPIKey, cfg.SessionTTL, cfg.SessionCapacity, log),
		news:    library,
	}

	go func() {
		if err := subscriber.Run(ctx); err != nil {
			log.Error("subscription", slog.Any("err", err))
		}
	}()

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	go func() {
		log.Info("api server starting", slog.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}
