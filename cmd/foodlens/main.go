package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/vbonduro/foodlens/internal/capture"
	"github.com/vbonduro/foodlens/internal/client"
	"github.com/vbonduro/foodlens/internal/config"
	"github.com/vbonduro/foodlens/internal/db"
	"github.com/vbonduro/foodlens/internal/history"
	"github.com/vbonduro/foodlens/internal/logging"
	"github.com/vbonduro/foodlens/internal/photostore/local"
	"github.com/vbonduro/foodlens/internal/store"
	"github.com/vbonduro/foodlens/internal/view"
)

func main() {
	cfg := config.Load()

	server := flag.String("server", cfg.ServerURL, "FoodLens server URL")
	cameraDir := flag.String("camera", cfg.CameraDir, "directory the camera reads frames from")
	flag.Parse()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	photos, err := local.NewLocalPhotoStore(cfg.PhotoPath, logger)
	if err != nil {
		logger.Error("failed to initialize photo store", "error", err)
		return
	}

	kv := store.NewKVStore(database)
	hist := history.NewStore(kv, photos, logger)
	searches := history.NewRecentSearches(kv, logger)
	cam := capture.NewManager(capture.NewDirSource(*cameraDir), logger)
	api := client.New(*server, logger)

	ctrl := view.NewController(api, cam, hist, searches, logger)
	defer ctrl.Close()

	a := &app{
		ctrl:     ctrl,
		camera:   cam,
		history:  hist,
		searches: searches,
		in:       os.Stdin,
		out:      os.Stdout,
	}
	if err := a.run(ctx); err != nil {
		logger.Error("client error", "error", err)
	}
}
