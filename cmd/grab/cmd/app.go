package cmd

import (
	"io"

	grablog "github.com/msto63/grab/foundation/core/log"
	"github.com/msto63/grab/foundation/grab"
	grabregistry "github.com/msto63/grab/foundation/grab/registry"
	"github.com/msto63/grab/internal/commands"
	"github.com/msto63/grab/internal/fetch"
	"github.com/msto63/grab/internal/style"
	"github.com/msto63/grab/pkg/core/config"
	"github.com/msto63/grab/pkg/core/logging"
)

// app holds what every subcommand shares: configuration, the process
// logger and the page fetcher
type app struct {
	cfg     *config.Config
	logger  *grablog.Logger
	store   *fetch.Store
	fetcher *fetch.Fetcher
	closers []io.Closer
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}
	if noColor {
		cfg.General.NoColor = true
	}
	return cfg, nil
}

// newApp loads the configuration and builds the logger. The page store is
// opened only when caching is enabled.
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logCfg := logging.FromConfig("grab", cfg.General)
	logCfg.Debug = debug
	logger, closer, err := logging.NewLogger(logCfg)
	if err != nil {
		return nil, err
	}
	grablog.SetDefault(logger)

	a := &app{cfg: cfg, logger: logger, closers: []io.Closer{closer}}
	if cfg.Fetch.CacheEnabled {
		store, err := fetch.OpenStore(cfg.Fetch.CachePath)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.store = store
		a.closers = append(a.closers, store)
	}

	a.fetcher = fetch.New(fetch.Options{
		Logger:      logger,
		Timeout:     cfg.Fetch.Timeout.Duration,
		UserAgent:   cfg.Fetch.UserAgent,
		Store:       a.store,
		MemoryItems: cfg.Fetch.MemoryItems,
		TTL:         cfg.Fetch.CacheTTL.Duration,
	})
	a.closers = append(a.closers, a.fetcher)

	logger.Debug("configuration loaded", grablog.Fields{
		"source":     cfg.Source,
		"cache":      cfg.Fetch.CacheEnabled,
		"output_dir": cfg.Output.Dir,
	})
	return a, nil
}

// interpreter creates an interpreter with a fresh environment and the
// built-in commands writing to out
func (a *app) interpreter(out io.Writer) (*grab.Interpreter, error) {
	reg := grabregistry.New(grabregistry.Options{Logger: a.logger})
	err := commands.Register(reg, commands.Deps{
		Fetcher:   a.fetcher,
		Palette:   style.New(out, a.cfg.General.NoColor),
		Out:       out,
		OutputDir: a.cfg.Output.Dir,
		Logger:    a.logger,
	})
	if err != nil {
		return nil, err
	}
	return grab.New(grab.Options{Logger: a.logger, Registry: reg})
}

// Close releases resources in reverse order of acquisition
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.WarnWithErr("close failed", err)
		}
	}
}
