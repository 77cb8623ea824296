package main

import (
	"context"

	"fishtank/internal/fish/events"
	"fishtank/internal/fish/handler"
	"fishtank/internal/fish/repository"
	"fishtank/internal/fish/repository/backend"
	"fishtank/internal/fish/service"
	"fishtank/internal/fish/validator"
	"fishtank/pkg/app"
	"fishtank/pkg/config"
)

const ServiceName = "fishtank"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Fishtank service")
	repo := openStore(cfg)
	publisher, err := events.FromConfig(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to configure lifecycle events", "error", err)
	}

	fishService := initServices(cfg, repo, publisher)
	serverApp := app.NewApplication(cfg, repo, publisher)
	serverApp.SetApp(handler.NewFishHandler(fishService, cfg.Log, cfg.Diagnostic, cfg.APIBasePath))
	serverApp.Run()
}

func openStore(cfg *config.Config) repository.FishRepository {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()

	repo, err := backend.Open(ctx, cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to open fish store", "driver", cfg.StoreDriver, "error", err)
	}
	if err := repo.Ping(ctx); err != nil {
		cfg.Log.Warn("Fish store is not reachable yet", "driver", repo.Driver(), "error", err)
	}
	return repo
}

func initServices(cfg *config.Config, repo repository.FishRepository, publisher events.Publisher) service.FishService {
	fishValidator := validator.NewFishValidator()
	fishService := service.NewFishService(
		repo,
		fishValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Fish service initialized", "driver", repo.Driver())
	return fishService
}
