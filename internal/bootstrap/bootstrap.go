package bootstrap

import (
	"context"
	"fmt"

	"github.com/yourname/sleeplog/internal"
	"github.com/yourname/sleeplog/internal/api"
	"github.com/yourname/sleeplog/internal/auth"
	"github.com/yourname/sleeplog/internal/config"
	"github.com/yourname/sleeplog/internal/reminder"
	"github.com/yourname/sleeplog/internal/service"
	"github.com/yourname/sleeplog/internal/storage"
)

// App holds everything built from a Config. Close releases it in reverse
// order of construction.
type App struct {
	Config    *config.Config
	Logger    internal.Logger
	KV        storage.KeyValueStore
	Store     *service.Store
	Scheduler *reminder.Scheduler
	Advisor   *service.Advisor
}

// New keeps a long-running process up when storage cannot be opened: the
// records then live in memory only.
func New(ctx context.Context, cfg *config.Config, logger internal.Logger) (*App, error) {
	return build(ctx, cfg, logger, storage.New(ctx, cfg, logger))
}

// Open is New without the in-memory fallback. Short-lived processes use it,
// since records they could not write would be gone on exit.
func Open(ctx context.Context, cfg *config.Config, logger internal.Logger) (*App, error) {
	kv, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: open %s storage: %w", cfg.StorageBackend, err)
	}
	app, err := build(ctx, cfg, logger, kv)
	if err != nil {
		kv.Close()
		return nil, err
	}
	return app, nil
}

func build(ctx context.Context, cfg *config.Config, logger internal.Logger, kv storage.KeyValueStore) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	store := service.NewStore(ctx, kv, logger, service.WithLocation(loc))
	scheduler := reminder.NewScheduler(NewNotifier(cfg, logger), logger,
		reminder.WithMessage(cfg.ReminderTitle, cfg.ReminderBody),
	)
	advisor := service.NewAdvisor(cfg.OpenAIToken, cfg.OpenAIModel, cfg.AdviceTTL, logger)

	return &App{
		Config:    cfg,
		Logger:    logger,
		KV:        kv,
		Store:     store,
		Scheduler: scheduler,
		Advisor:   advisor,
	}, nil
}

// NewNotifier returns the configured notifier, falling back to the log when
// Telegram cannot be reached.
func NewNotifier(cfg *config.Config, logger internal.Logger) reminder.Notifier {
	if cfg.Notifier == "telegram" {
		n, err := reminder.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, logger)
		if err == nil {
			return n
		}
		logger.Warnf("bootstrap: telegram notifier unavailable, using log: %v", err)
	}
	return reminder.NewLogNotifier(logger)
}

// AuthProvider is nil when no API token is configured.
func (a *App) AuthProvider() auth.Provider {
	if !a.Config.AuthEnabled() {
		return nil
	}
	return auth.NewLocalAuthProvider(a.Config.APIToken, a.Config.APITokenHash, a.Logger)
}

func (a *App) Deps() *api.Deps {
	return &api.Deps{
		Log:       a.Logger,
		Store:     a.Store,
		Scheduler: a.Scheduler,
		Advice:    a.Advisor,
	}
}

func (a *App) Close() error {
	a.Scheduler.Stop()
	return a.KV.Close()
}
