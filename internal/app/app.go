package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/five82/storefront/internal/api"
	"github.com/five82/storefront/internal/config"
	"github.com/five82/storefront/internal/controller"
	"github.com/five82/storefront/internal/logging"
	"github.com/five82/storefront/internal/prefs"
	"github.com/five82/storefront/internal/state"
	"github.com/five82/storefront/internal/ui"
)

// Options configure the storefront application.
type Options struct {
	ConfigPath   string // empty uses ~/.config/storefront/config.toml
	EnvPath      string // empty uses .env in the working directory
	PrefsPath    string // empty uses ~/.config/storefront/prefs.toml
	APIURL       string // overrides config and environment
	RefreshEvery int    // seconds; zero uses the config value
	LogLevel     string // overrides config and environment
}

// Run boots the storefront TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	log, err := logging.New(logging.Config{
		Path:              cfg.LogFile,
		Level:             cfg.LogLevel,
		DisableStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// one id per run so interleaved sessions in a shared log stay apart
	log = log.With(zap.String("session", uuid.NewString()))
	log.Info("starting storefront",
		zap.String("api_url", cfg.APIURL),
		zap.Duration("request_timeout", cfg.RequestTimeout),
		zap.Duration("refresh_interval", cfg.RefreshInterval),
	)

	client, err := api.NewClient(cfg.APIURL,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithRateLimit(cfg.RequestsPerSecond),
		api.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	ctrl := controller.New(client, &state.Store{}, log)

	// Start background refresh
	StartPoller(ctx, ctrl, cfg.RefreshInterval, log)

	userPrefs := prefs.Load(opts.PrefsPath)

	err = ui.Run(ui.Options{
		Context:    ctx,
		Controller: ctrl,
		Logger:     log,
		APIURL:     client.BaseURL(),
		LogPath:    cfg.LogFile,
		ThemeName:  userPrefs.Theme,
		Pane:       userPrefs.Pane,
		PrefsPath:  opts.PrefsPath,
	})
	log.Info("storefront stopped", zap.Error(err))
	return err
}

// loadConfig resolves settings from .env, the config file, the environment
// and finally the command line, later sources winning.
func loadConfig(opts Options) (config.Config, error) {
	if err := config.LoadDotEnv(opts.EnvPath); err != nil {
		return config.Config{}, fmt.Errorf("load env: %w", err)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}

	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = v
	}
	if opts.RefreshEvery > 0 {
		cfg.RefreshInterval = time.Duration(opts.RefreshEvery) * time.Second
	}
	if v := strings.TrimSpace(opts.LogLevel); v != "" {
		if _, err := zapcore.ParseLevel(v); err != nil {
			return config.Config{}, fmt.Errorf("log level: %w", err)
		}
		cfg.LogLevel = v
	}
	return cfg, nil
}
