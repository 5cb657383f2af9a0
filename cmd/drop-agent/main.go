package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dropwire/drop-agent/internal/client"
	"dropwire/drop-agent/internal/config"
	"dropwire/drop-agent/internal/database"
	"dropwire/drop-agent/internal/device"
	"dropwire/drop-agent/internal/history"
	"dropwire/drop-agent/internal/logger"
	"dropwire/drop-agent/internal/models"
	"dropwire/drop-agent/internal/picker"
	"dropwire/drop-agent/internal/platform"
	"dropwire/drop-agent/internal/repository"
	"dropwire/drop-agent/internal/upload"

	"go.uber.org/zap"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config/local.yaml", "Path to configuration file")
	token := flag.String("token", "", "Store this auth token in the runtime credential store and exit")
	photo := flag.String("photo", "", "Pick this image and upload it as the profile photo")
	skipPhoto := flag.Bool("skip-photo", false, "Complete the profile photo step without uploading")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting drop agent",
		zap.String("env", cfg.Env),
		zap.String("config_path", *configPath),
	)

	// Initialize database
	db, err := database.New(cfg.StoragePath, log.Logger)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	// Initialize runtime environment
	env, err := platform.NewEnvironment(cfg.Runtime, cfg.DataDir, log.Logger)
	if err != nil {
		log.Fatal("Failed to initialize runtime environment", zap.Error(err))
	}
	log.Info("Runtime environment detected", zap.String("runtime", env.Name()))

	if *token != "" {
		if err := env.Credentials().Set(platform.CredentialKeyAuthToken, *token); err != nil {
			log.Fatal("Failed to store auth token", zap.Error(err))
		}
		log.Info("Auth token stored", zap.String("runtime", env.Name()))
		return
	}

	// Get or generate device ID
	deviceManager := device.NewManager()
	deviceID, err := deviceManager.GetOrGenerateDeviceID(cfg.Device.ID)
	if err != nil {
		log.Fatal("Failed to get device ID", zap.Error(err))
	}

	// Initialize API client
	apiClient := client.NewAPIClient(cfg.API.BaseURL, deviceID, cfg.API.Timeout, log.Logger)

	ctx := context.Background()

	// Load and render the drop history
	pinRepo := repository.NewPinRepository(db.DB)
	model := history.NewModel(apiClient, pinRepo, log.Logger)
	if err := model.Load(ctx); err != nil {
		log.Error("History unavailable", zap.Error(err))
	}

	now := time.Now()
	for _, record := range model.Records() {
		log.Info("Drop",
			zap.String("name", record.Name),
			zap.String("action", string(record.Action)),
			zap.String("when", models.FormatRelativeTime(record.Timestamp, now)),
			zap.Int("rssi", record.RSSI),
			zap.Float64("distance_feet", record.DistanceFeet),
			zap.Bool("pinned", model.IsPinned(record.ID)),
		)
	}

	if *photo == "" && !*skipPhoto {
		return
	}

	// Drive the profile photo pipeline
	library := picker.NewFileLibrary(cfg.Media.Dir, filepath.Join(cfg.DataDir, "cache"), log.Logger)
	pipeline := upload.NewPipeline(library, env, apiClient, log.Logger, func() {
		log.Info("Profile photo step complete")
	})

	if *skipPhoto {
		if err := pipeline.Skip(); err != nil {
			log.Fatal("Failed to skip photo step", zap.Error(err))
		}
		return
	}

	if err := pipeline.PickImage(ctx, *photo); err != nil {
		log.Fatal("Failed to pick image", zap.Error(err))
	}
	if err := pipeline.Upload(ctx); err != nil {
		log.Error("Upload failed",
			zap.String("reason", pipeline.FailureReason()),
			zap.Error(err),
		)
		os.Exit(1)
	}
}
