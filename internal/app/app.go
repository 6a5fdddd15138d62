package app

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/ianisnotreal/crypto-tracker-cli/internal/alerting"
	"github.com/ianisnotreal/crypto-tracker-cli/internal/config"
	"github.com/ianisnotreal/crypto-tracker-cli/internal/fetcher"
	"github.com/ianisnotreal/crypto-tracker-cli/internal/service"
	"github.com/ianisnotreal/crypto-tracker-cli/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newStore() *storage.Store {
	return storage.NewStore(a.Config.DataDir, a.Logger)
}

// newSource builds the resilient price source: primary with retry, HTML
// fallback for the fallback currency, and opportunistic cache refresh.
func (a *App) newSource(store *storage.Store) fetcher.PriceSource {
	primary := fetcher.NewCoinGecko(fetcher.CoinGeckoOptions{
		BaseURL:        a.Config.Fetch.CoinGeckoURL,
		UserAgent:      a.Config.Fetch.UserAgent,
		ConnectTimeout: a.Config.Fetch.ConnectTimeout,
		ReadTimeout:    a.Config.Fetch.ReadTimeout,
	}, a.Logger)

	fallback := fetcher.NewYahoo(fetcher.YahooOptions{
		BaseURL: a.Config.Fetch.YahooURL,
		Timeout: a.Config.Fetch.ReadTimeout,
	}, a.Logger)

	return fetcher.NewResilient(primary, fallback, store, a.Logger)
}

func (a *App) newService(store *storage.Store, fiat string) *service.Service {
	window, threshold := a.Config.GuardParams()
	return service.New(a.newSource(store), store, fiat, window, threshold, a.Logger)
}

func (a *App) newNotifier() alerting.Notifier {
	return alerting.NewWebhookNotifier(10*time.Second, a.Logger)
}

// resolveFiat applies the --fiat override over the configured currency.
func (a *App) resolveFiat(override string) string {
	if override != "" {
		return override
	}
	return a.Config.VSCurrency
}
