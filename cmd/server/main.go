// Command server exposes the crawled product catalog as a JSON API.
package main

import (
	"context"
	"log"

	"github.com/AlexV384/PD-UVP211/internal/config"
	"github.com/AlexV384/PD-UVP211/internal/logging"
	"github.com/AlexV384/PD-UVP211/internal/server"
	"github.com/AlexV384/PD-UVP211/internal/sites"
	"github.com/AlexV384/PD-UVP211/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	ctx := context.Background()
	logger := logging.New("server")

	var sources []server.ProductSource
	for _, site := range sites.All() {
		store, err := storage.New(ctx, cfg.Database.URL, site.Table, storage.Options{})
		if err != nil {
			logger.Fatal("opening store for %s: %v", site.Name, err)
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			logger.Fatal("ensuring schema for %s: %v", site.Name, err)
		}
		sources = append(sources, store)
	}

	handler := server.NewHandler(logger, sources...)
	router := server.SetupRouter(handler, cfg.Server.Environment)

	logger.Info("serving products on :%s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server stopped: %v", err)
	}
}
