package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/avtovision/car-catalog/backend/internal/catalog"
	"github.com/avtovision/car-catalog/backend/internal/config"
	"github.com/avtovision/car-catalog/backend/internal/logger"
	"github.com/avtovision/car-catalog/backend/internal/models"
	"github.com/avtovision/car-catalog/backend/internal/notify"
	"github.com/avtovision/car-catalog/backend/internal/store"
)

type dataset struct {
	Cars []models.Car `yaml:"cars"`
}

func main() {
	log := logger.New("seed")
	cfg, err := config.LoadSeed()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	raw, err := os.ReadFile(cfg.DatasetPath)
	if err != nil {
		log.Error("read dataset", slog.String("path", cfg.DatasetPath), slog.Any("err", err))
		os.Exit(1)
	}

	var data dataset
	if err := yaml.Unmarshal(raw, &data); err != nil {
		log.Error("parse dataset", slog.Any("err", err))
		os.Exit(1)
	}
	if len(data.Cars) == 0 {
		log.Error("dataset contains no cars", slog.String("path", cfg.DatasetPath))
		os.Exit(1)
	}

	esClient, err := store.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log)
	if err != nil {
		log.Error("init elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}

	publisher := notify.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer publisher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	inserted := 0
	for _, car := range data.Cars {
		car.ID = ""
		if err := catalog.ValidateCar(car); err != nil {
			log.Error("invalid seed car", slog.String("make", car.Make), slog.String("model", car.Model), slog.Any("err", err))
			os.Exit(1)
		}

		insertCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		id, err := esClient.InsertCar(insertCtx, car)
		cancel()
		if err != nil {
			log.Error("insert seed car", slog.String("make", car.Make), slog.String("model", car.Model), slog.Any("err", err))
			os.Exit(1)
		}

		log.Debug("inserted car", slog.String("id", id), slog.String("make", car.Make), slog.String("model", car.Model))
		inserted++
	}

	// One event is enough: consumers reload the whole snapshot per event.
	notifyCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := publisher.CatalogChanged(notifyCtx, ""); err != nil {
		log.Warn("publish change event", slog.Any("err", err))
	}

	log.Info("seed complete", slog.Int("inserted", inserted), slog.String("index", cfg.ElasticsearchIndex))
}
