package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/uyouii/littlesprout/assistant"
	"github.com/uyouii/littlesprout/config"
	"github.com/uyouii/littlesprout/journal"
	"github.com/uyouii/littlesprout/storage"
	"github.com/uyouii/littlesprout/utils"
	"go.uber.org/zap"
)

// App carries what subcommands need once the root command has initialized.
type App struct {
	Viper      *viper.Viper
	ConfigFile string
	Settings   *config.Settings
	Store      storage.Store
	Journal    *journal.Journal
	Assistant  *assistant.Service

	closers []func() error
}

func NewApp() *App {
	return &App{Viper: config.New()}
}

func (a *App) Close() {
	for _, closer := range a.closers {
		if err := closer(); err != nil {
			zap.L().Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
}

// RootCommand creates and returns the root command
func RootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "littlesprout",
		Short:         "Track a child's growth against WHO percentile curves",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	setupFlags(rootCmd, app)

	rootCmd.AddCommand(
		percentileCommand(app),
		bandCommand(app),
		curveCommand(app),
		chartCommand(app),
		classifyCommand(),
		profileCommand(app),
		recordCommand(app),
		vaccineCommand(app),
		trendCommand(app),
		summaryCommand(app),
		resetCommand(app),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initialize(cmd.Context(), app)
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		app.Close()
	}

	return rootCmd
}

func setupFlags(rootCmd *cobra.Command, app *App) {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.ConfigFile, "config", "", "Config file (default ./config.yaml or ~/.littlesprout/config.yaml)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("storage", "", "Storage backend: file, redis or memory")
	flags.String("data-dir", "", "Directory of the file storage backend")
	flags.String("redis-addr", "", "Address of the redis storage backend")

	bindings := map[string]string{
		"log.level":          "log-level",
		"storage.backend":    "storage",
		"storage.path":       "data-dir",
		"storage.redis.addr": "redis-addr",
	}
	for key, name := range bindings {
		_ = app.Viper.BindPFlag(key, flags.Lookup(name))
	}
}

// initialize loads settings and wires the store, journal and assistant.
func initialize(ctx context.Context, app *App) error {
	settings, err := config.Load(app.Viper, app.ConfigFile)
	if err != nil {
		return err
	}
	app.Settings = settings

	if err := utils.InitLogger(settings.Log.Level); err != nil {
		return err
	}
	logger := utils.GetLogger(ctx)

	store, err := newStore(settings, app)
	if err != nil {
		return err
	}
	app.Store = store
	app.Journal = journal.New(store)
	app.Assistant = assistant.NewService(settings.AssistantConfig())

	logger.Debug("initialized", zap.String("storage", settings.Storage.Backend),
		zap.Bool("assistant", app.Assistant.Enabled()))
	return nil
}

func newStore(settings *config.Settings, app *App) (storage.Store, error) {
	switch settings.Storage.Backend {
	case config.BackendFile:
		return storage.NewFileStore(settings.Storage.Path), nil
	case config.BackendRedis:
		store := storage.NewRedisStore(settings.Storage.Redis.Addr, settings.Storage.Redis.Password,
			settings.Storage.Redis.DB)
		app.closers = append(app.closers, store.Close)
		return store, nil
	case config.BackendMemory:
		return storage.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", settings.Storage.Backend)
}
