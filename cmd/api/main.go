package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/agro-inteligente/internal/application"
	appanalysis "github.com/bryanwahyu/agro-inteligente/internal/application/analysis"
	"github.com/bryanwahyu/agro-inteligente/internal/config"
	domain "github.com/bryanwahyu/agro-inteligente/internal/domain/analysis"
	aiopenai "github.com/bryanwahyu/agro-inteligente/internal/infra/ai/openai"
	"github.com/bryanwahyu/agro-inteligente/internal/infra/db/recordstore"
	"github.com/bryanwahyu/agro-inteligente/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/agro-inteligente/internal/infra/storage"
	"github.com/bryanwahyu/agro-inteligente/internal/logging"
	"github.com/bryanwahyu/agro-inteligente/internal/middleware"
)

func main() {
	if err := run(); err != nil {
		log.WithError(err).Error("api stopped")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadOrDefault(config.Path())
	if err != nil {
		return fmt.Errorf("config load error: %w", err)
	}
	if err := logging.Setup(cfg.Log.Format, cfg.Log.Level); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := recordstore.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	checkers := map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: store.DB},
	}

	analyzer := aiopenai.NewClient(aiopenai.Options{
		BaseURL:     cfg.AI.BaseURL,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		KeyEnv:      cfg.AI.APIKeyEnv,
	})
	if os.Getenv(cfg.AI.APIKeyEnv) == "" {
		// read again on every request, so it may still be provided later
		log.Warnf("%s is not set; analyses will fail until it is", cfg.AI.APIKeyEnv)
	}

	svc := appanalysis.NewService(analyzer, store, application.SystemClock{})

	if cfg.Minio.Enabled {
		archive, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			return fmt.Errorf("minio init error: %w", err)
		}
		svc.Archive = archive
		checkers["snapshots"] = archive
	}

	var writes *appanalysis.Detached
	if cfg.Server.RecordOnAnalyze {
		writes = appanalysis.NewDetached(svc)
		writes.OnStored = func(*domain.Record) { middleware.IncrementRecordsStored() }
		writes.OnFailure = func(err error) {
			middleware.IncrementStoreFailures()
			log.WithError(err).Error("error al guardar en BD")
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpserver.NewRouter(svc, writes, checkers),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(log.Fields{"addr": addr, "driver": cfg.Database.Driver}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("shutdown error")
		}
		if writes != nil {
			if err := writes.Wait(shutdownCtx); err != nil {
				log.WithError(err).Warn("pending writes abandoned")
			}
		}
		return nil
	})
	return g.Wait()
}
