package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	ahttp "adpredict/http"
	"adpredict/logging"
	"adpredict/session"
)

type Config struct {
	Artifacts struct {
		PreprocessingURI string `yaml:"preprocessing_uri"`
		ModelURI         string `yaml:"model_uri"`
		LoadTimeoutSec   int    `yaml:"load_timeout_sec"`
		Watch            bool   `yaml:"watch"`
	} `yaml:"artifacts"`
	Http struct {
		Port int `yaml:"port"`
	} `yaml:"http"`
	Cache struct {
		Size int `yaml:"size"`
	} `yaml:"cache"`
	Log logging.Config `yaml:"log"`
}

func main() {
	// 1. Load config
	config, err := loadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Build logger
	logger := logging.NewLogger(config.Log)
	defer logger.Sync()

	// 3. Build orchestrator and start artifact loading
	orch, err := session.NewOrchestrator(session.Options{
		ConfigURI:   config.Artifacts.PreprocessingURI,
		ModelURI:    config.Artifacts.ModelURI,
		LoadTimeout: time.Duration(config.Artifacts.LoadTimeoutSec) * time.Second,
		CacheSize:   config.Cache.Size,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("failed to build orchestrator", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		// A load failure is terminal: the server keeps serving the
		// blocking notice, no predictions run.
		if err := orch.Load(ctx); err != nil {
			logger.Error("startup load failed, session is unusable", zap.Error(err))
		}
	}()

	// 4. Watch local artifacts for out-of-band changes
	if config.Artifacts.Watch {
		watcher, err := session.NewWatcher(logger,
			config.Artifacts.PreprocessingURI, config.Artifacts.ModelURI)
		if err != nil {
			logger.Warn("artifact watcher unavailable", zap.Error(err))
		} else {
			go watcher.Run(ctx)
		}
	}

	// 5. Start HTTP server
	ahttp.SetOrchestrator(orch)
	serverConfig := ahttp.DefaultServerConfig()
	if config.Http.Port != 0 {
		serverConfig.Port = config.Http.Port
	}
	server := ahttp.NewServer(serverConfig, logger)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 6. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	cancel()
	if err := server.Stop(); err != nil {
		logger.Warn("server forced to shutdown", zap.Error(err))
	}
}

func loadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
