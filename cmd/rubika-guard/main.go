package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rubika-guard/internal/config"
	"rubika-guard/internal/crash"
	"rubika-guard/internal/handler"
	"rubika-guard/internal/logger"
	"rubika-guard/internal/metrics"
	"rubika-guard/internal/service"
	"rubika-guard/internal/storage"
	"rubika-guard/internal/transport/rubika"
)

func main() {
	defer crash.RecoverWithStackAndExit("main")

	// Define command line flags
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging first
	if err := logger.Setup(cfg); err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	// Initialize database if enabled
	if cfg.Database.Enabled {
		if err := storage.Initialize(cfg); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		log.Println("Database connection established")
	}

	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the Rubika client and resolve the bot identity
	client, err := rubika.NewClient(ctx, cfg.Bot.APIBase, cfg.Bot.Token)
	if err != nil {
		log.Fatalf("Failed to initialize bot: %v", err)
	}
	log.Printf("Authorized as %s", client.Me().FirstName)

	// Initialize the service layer: snapshot store and audit repositories
	service.Initialize(cfg)
	service.InitRepositories()

	// Start metrics server if enabled
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.ListenAddr)
		crash.SafeGoroutine("metrics", func() {
			if err := metricsServer.Start(); err != nil {
				logger.Errorf("Metrics server error: %v", err)
			}
		})
	}

	// Start consuming updates through the moderation pipeline
	h := handler.New(cfg, client, service.Store(), service.Mutes())
	updates := client.Listen(ctx, time.Duration(cfg.Bot.PollTimeout)*time.Second)

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Run(ctx, updates)
	}()
	log.Println("Bot is running, waiting for updates...")

	// Create a channel for receiving OS signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Wait for signal
	sig := <-sigChan
	log.Printf("Received signal: %v, shutting down...", sig)

	// Stop the update feed; workers drain the channel and exit
	cancel()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		log.Println("Timed out waiting for workers to finish")
	}

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Metrics server shutdown error: %v", err)
		}
	}

	log.Println("Bot gracefully stopped")
}
