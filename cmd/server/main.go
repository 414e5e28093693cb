package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	_ "time/tzdata"

	"presence-chat/infrastructure/http/server"
	"presence-chat/moderation"
	"presence-chat/observability"
	"presence-chat/repositories"
	"presence-chat/runtime/workers"
	"presence-chat/services"
	"presence-chat/storage"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Chat server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component, serves until a signal or a fatal error, then shuts down.
// Deferred cleanups (database close) run before main exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, err
	}
	charReplacement, err := config.CharacterRune()
	if err != nil {
		return exitConfig, err
	}
	location, err := config.Location()
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	address := net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
	color.New(color.BgBlack, color.FgGreen).Printf("  ====== presence chat on %s ======  \n", address)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database (BadgerDB)
	// Requests arriving before the store is open are answered with a 500.
	errChan := make(chan error, 3)
	handle := storage.NewHandle(logger)
	go func() {
		if err := handle.Open(storage.Options(config.BadgerFilepath)); err != nil {
			errChan <- err
			return
		}
		startInspector(ctx, logger, handle, config.DebugPort)
	}()

	participantRepository := repositories.NewParticipantRepository(handle, logger)
	messageRepository := repositories.NewMessageRepository(handle, logger)
	departureRepository := repositories.NewDepartureRepository(handle, messageRepository, logger)
	defer func() {
		if err := messageRepository.Release(); err != nil {
			logger.Warn("Releasing message sequence failed", "error", err)
		}
		_ = handle.Close()
	}()

	// 3. Services & metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := observability.NewMetrics(registry)

	moderator, err := moderation.NewModerator(config.Words(), charReplacement, logger)
	if err != nil {
		return exitConfig, fmt.Errorf("moderator: %w", err)
	}
	clock := clockwork.NewRealClock()
	chatService := services.NewChatService(logger,
		participantRepository, messageRepository, departureRepository,
		moderation.NewSanitizer(moderator), clock, metrics)

	// 4. Supervised workers
	sup := workers.NewSupervisor(logger, config.RestartInterval)
	sup.Add(
		workers.NewLivenessSweeper(logger, participantRepository, departureRepository, clock, metrics,
			config.SweepInterval, config.StaleThreshold, config.SweepBatch),
		workers.NewProcessStatsWorker(logger, metrics, config.MetricInterval),
	)
	supDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supDone)
	}()

	// 5. HTTP server
	httpServer := &http.Server{
		Addr:              address,
		Handler:           server.NewChatServer(logger, chatService, metrics, registry, location).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 6. Wait for Stop or Error
	code, runErr := exitOK, error(nil)
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errChan:
		code = exitRuntime
	}

	// 7. Graceful shutdown: drain requests then stop the workers
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
	}
	sup.Stop()
	<-supDone
	logger.Info("Program stopped cleanly")

	return code, runErr
}

// startInspector exposes the raw store content in debug mode only.
func startInspector(ctx context.Context, logger *slog.Logger, handle *storage.Handle, port int) {
	if !logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	db, err := handle.DB()
	if err != nil {
		return
	}
	endpoint := "/inspect"
	logger.Info("Debug Badger inspector available", "url", fmt.Sprintf("http://localhost:%d%s", port, endpoint))
	database.StartDebugServer(db, port, endpoint, recordMapper)
}

func recordMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)
	record := repositories.DescribeRecord(key, val)
	row.Type = record.Type
	row.Detail = record.Detail
	return row
}
