// main package for the tts-gateway.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/book-expert/logger"
	"github.com/nats-io/nats.go"

	"github.com/book-expert/tts-gateway/internal/catalog"
	"github.com/book-expert/tts-gateway/internal/config"
	"github.com/book-expert/tts-gateway/internal/core"
	"github.com/book-expert/tts-gateway/internal/gateway"
	"github.com/book-expert/tts-gateway/internal/objectstore"
	"github.com/book-expert/tts-gateway/internal/synth"
	"github.com/book-expert/tts-gateway/internal/worker"
)

const (
	probeTimeout    = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

func setupLogger(logPath string) (*logger.Logger, error) {
	log, err := logger.New(logPath, "tts-gateway.log")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

func run() error {
	bootstrapLog, err := setupLogger(os.TempDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create bootstrap logger: %v\n", err)

		return err
	}

	bootstrapLog.Info("Bootstrap logger created.")

	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := setupLogger(cfg.Paths.BaseLogsDir)
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return fmt.Errorf("failed to create final logger: %w", err)
	}

	defer func() {
		closeErr := log.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing logger: %v\n", closeErr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	service := buildService(ctx, cfg, log)

	if cfg.WorkerEnabled() {
		startPipelineWorker(ctx, cfg, service, log)
	}

	return serveHTTP(ctx, cfg, service, log)
}

// buildService probes each model runner and assembles the gateway core. A
// probe failure leaves that model nil so the gateway starts degraded instead
// of exiting.
func buildService(ctx context.Context, cfg *config.Config, log *logger.Logger) *gateway.Service {
	vctk := loadModel(ctx, gateway.ModelVCTK, cfg.Models.VCTK, log)
	bark := loadModel(ctx, gateway.ModelBark, cfg.Models.Bark, log)

	speakerCatalog := buildCatalog(ctx, vctk, log)

	return gateway.NewService(
		asSynthesizer(vctk),
		asSynthesizer(bark),
		speakerCatalog,
		cfg.Models.VCTK.DefaultVoice,
		cfg.Models.Bark.DefaultVoice,
		log,
	)
}

func loadModel(
	ctx context.Context,
	name string,
	runnerCfg config.RunnerConfig,
	log *logger.Logger,
) *synth.Runner {
	log.Info("Initializing %s model (binary=%s, model=%s)...", name, runnerCfg.Binary, runnerCfg.ModelPath)

	runner, err := synth.New(runnerCfg, log)
	if err != nil {
		log.Error("Failed to configure %s model: %v", name, err)

		return nil
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	err = runner.Probe(probeCtx)
	if err != nil {
		log.Error("Failed to initialize %s model, continuing without it: %v", name, err)

		return nil
	}

	log.System("%s model loaded successfully.", name)

	return runner
}

// asSynthesizer converts a possibly-nil *synth.Runner into the interface the
// service expects without producing a non-nil interface around a nil pointer.
func asSynthesizer(runner *synth.Runner) core.Synthesizer {
	if runner == nil {
		return nil
	}

	return runner
}

func buildCatalog(ctx context.Context, vctk *synth.Runner, log *logger.Logger) *catalog.Catalog {
	if vctk == nil {
		log.Warn("Multi-speaker model unavailable, speaker catalog is empty.")

		return catalog.New(nil)
	}

	listCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	speakers, err := vctk.ListSpeakers(listCtx)
	if err != nil {
		log.Error("Failed to query speaker metadata, speaker catalog is empty: %v", err)

		return catalog.New(nil)
	}

	log.Info("Speaker catalog populated with %d speakers.", len(speakers))

	return catalog.New(speakers)
}

// startPipelineWorker connects to NATS and runs the event ingress. Connection
// failures are logged and skipped so the HTTP surface still comes up.
func startPipelineWorker(
	ctx context.Context,
	cfg *config.Config,
	service *gateway.Service,
	log *logger.Logger,
) {
	natsConnection, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		log.Error("Failed to connect to NATS at %s, pipeline worker disabled: %v", cfg.NATS.URL, err)

		return
	}

	js, err := natsConnection.JetStream()
	if err != nil {
		log.Error("Failed to open JetStream context, pipeline worker disabled: %v", err)
		natsConnection.Close()

		return
	}

	store, err := objectstore.New(js, cfg.NATS.AudioObjectStoreBucket)
	if err != nil {
		log.Error("Failed to open audio object store, pipeline worker disabled: %v", err)
		natsConnection.Close()

		return
	}

	pipelineWorker := worker.NewNatsWorker(
		natsConnection, cfg.NATS.TextProcessedSubject, store, service, log,
	)

	go func() {
		defer natsConnection.Close()

		runErr := pipelineWorker.Run(ctx)
		if runErr != nil {
			log.Error("Pipeline worker stopped: %v", runErr)
		}
	}()

	log.System("Pipeline worker listening on subject: %s", cfg.NATS.TextProcessedSubject)
}

func serveHTTP(
	ctx context.Context,
	cfg *config.Config,
	service *gateway.Service,
	log *logger.Logger,
) error {
	server := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           gateway.NewServer(service, log).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		log.System("TTS gateway listening on %s", cfg.HTTP.Addr())
		errChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.System("Shutdown signal received, draining HTTP server.")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		shutdownErr := server.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			return fmt.Errorf("failed to shut down HTTP server: %w", shutdownErr)
		}

		return nil
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}

		return nil
	}
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Gateway exited with error: %v\n", err)
		os.Exit(1)
	}
}
