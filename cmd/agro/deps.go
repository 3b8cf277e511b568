package main

import (
	"context"
	"fmt"

	"github.com/bryanwahyu/agro-inteligente/internal/application"
	appanalysis "github.com/bryanwahyu/agro-inteligente/internal/application/analysis"
	"github.com/bryanwahyu/agro-inteligente/internal/config"
	aiopenai "github.com/bryanwahyu/agro-inteligente/internal/infra/ai/openai"
	"github.com/bryanwahyu/agro-inteligente/internal/infra/ai/remote"
	"github.com/bryanwahyu/agro-inteligente/internal/infra/camera"
	"github.com/bryanwahyu/agro-inteligente/internal/infra/db/recordstore"
	"github.com/bryanwahyu/agro-inteligente/internal/logging"
)

// deps is what one command needs: the analysis service and a way to release it.
type deps struct {
	cfg   *config.Config
	svc   *appanalysis.Service
	close func()
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if endpoint != "" {
		cfg.Client.Endpoint = endpoint
	}
	return cfg, nil
}

// newDeps wires the service against the remote endpoint, or with --direct against
// the gateway and the configured database.
func newDeps(ctx context.Context) (*deps, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := logging.Setup(cfg.Log.Format, cfg.Log.Level); err != nil {
		return nil, err
	}

	if !direct {
		client := remote.NewClient(cfg.Client.Endpoint, nil)
		svc := appanalysis.NewService(client, client, application.SystemClock{})
		return &deps{cfg: cfg, svc: svc, close: func() {}}, nil
	}

	store, err := recordstore.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	analyzer := aiopenai.NewClient(aiopenai.Options{
		BaseURL:     cfg.AI.BaseURL,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		KeyEnv:      cfg.AI.APIKeyEnv,
	})
	svc := appanalysis.NewService(analyzer, store, application.SystemClock{})
	return &deps{cfg: cfg, svc: svc, close: func() { store.Close() }}, nil
}

// device picks the capture backend: an explicit file, then the configured file,
// then the configured snapshot command.
func device(cfg *config.Config, file string) (camera.Device, error) {
	switch {
	case file != "":
		return &camera.FileDevice{Path: file}, nil
	case cfg.Camera.File != "":
		return &camera.FileDevice{Path: cfg.Camera.File}, nil
	case cfg.Camera.Command != "":
		return camera.NewCommandDevice(cfg.Camera.Command), nil
	default:
		return nil, fmt.Errorf("no camera configured: set camera.command or camera.file")
	}
}
