package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/ianisnotreal/crypto-tracker-cli/internal/logging"
)

// DataDirName is the per-user state directory under $HOME.
const DataDirName = ".crypto_tracker"

// Config materialises application configuration. Every field has a safe
// default: the tracker runs with no config file present.
type Config struct {
	DataDir           string            `mapstructure:"data_dir"`
	VSCurrency        string            `mapstructure:"vs_currency"`
	UpdateIntervalSec int               `mapstructure:"update_interval_sec"`
	JitterSec         int               `mapstructure:"jitter_sec"`
	SymbolsMap        map[string]string `mapstructure:"symbols_map"`
	OutlierWindow     int               `mapstructure:"outlier_window"`
	OutlierThreshold  float64           `mapstructure:"outlier_threshold_pct"`
	WebhookURL        string            `mapstructure:"webhook_url"`
	Fetch             FetchConfig       `mapstructure:"fetch"`
	Logging           logging.Config    `mapstructure:"logging"`
}

// FetchConfig covers price source connectivity.
type FetchConfig struct {
	CoinGeckoURL   string        `mapstructure:"coingecko_url"`
	YahooURL       string        `mapstructure:"yahoo_url"`
	UserAgent      string        `mapstructure:"user_agent"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
}

// Load builds configuration from file, environment, and defaults. An empty
// path resolves to config.json inside the default data directory.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CRYPTOTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path == "" {
		path = filepath.Join(defaultDataDir(), "config.json")
	}
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DataDirName
	}
	return filepath.Join(home, DataDirName)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("vs_currency", "usd")
	v.SetDefault("update_interval_sec", 600)
	v.SetDefault("jitter_sec", 30)
	v.SetDefault("symbols_map", map[string]string{
		"btc": "bitcoin",
		"eth": "ethereum",
		"ada": "cardano",
	})
	v.SetDefault("outlier_window", 10)
	v.SetDefault("outlier_threshold_pct", 80.0)

	v.SetDefault("fetch.coingecko_url", "https://api.coingecko.com/api/v3/simple/price")
	v.SetDefault("fetch.yahoo_url", "https://finance.yahoo.com")
	v.SetDefault("fetch.user_agent", "crypto-tracker/1.0")
	v.SetDefault("fetch.connect_timeout", "3s")
	v.SetDefault("fetch.read_timeout", "10s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.VSCurrency) == "" {
		return fmt.Errorf("vs_currency must not be empty")
	}
	if c.UpdateIntervalSec <= 0 {
		return fmt.Errorf("update_interval_sec must be greater than zero")
	}
	if c.JitterSec < 0 {
		return fmt.Errorf("jitter_sec cannot be negative")
	}
	if c.OutlierThreshold < 0 {
		return fmt.Errorf("outlier_threshold_pct cannot be negative")
	}
	return nil
}

// GuardParams returns the outlier guard window and fractional threshold,
// clamped to sane ranges.
func (c *Config) GuardParams() (window int, threshold float64) {
	window = c.OutlierWindow
	if window < 3 {
		window = 3
	}
	if window > 1000 {
		window = 1000
	}

	threshold = c.OutlierThreshold / 100.0
	if threshold < 0 {
		threshold = 0
	}
	if threshold > 1 {
		threshold = 1
	}
	return window, threshold
}

// UpdateInterval returns the polling cadence as a duration.
func (c *Config) UpdateInterval() time.Duration {
	return time.Duration(c.UpdateIntervalSec) * time.Second
}

// Jitter returns the polling jitter bound as a duration.
func (c *Config) Jitter() time.Duration {
	return time.Duration(c.JitterSec) * time.Second
}

// ResolveSymbol maps a user-facing symbol (btc) to its asset id (bitcoin).
func (c *Config) ResolveSymbol(symbol string) (string, error) {
	id, ok := c.SymbolsMap[strings.ToLower(symbol)]
	if !ok || id == "" {
		return "", fmt.Errorf("unknown symbol %q; add it to config.json under symbols_map", symbol)
	}
	return id, nil
}

// UserSettings is the user-editable subset of the configuration, the only
// keys the `config` command writes back to disk.
type UserSettings struct {
	VSCurrency        string            `json:"vs_currency"`
	UpdateIntervalSec int               `json:"update_interval_sec"`
	JitterSec         int               `json:"jitter_sec"`
	SymbolsMap        map[string]string `json:"symbols_map"`
	OutlierWindow     int               `json:"outlier_window"`
	OutlierThreshold  float64           `json:"outlier_threshold_pct"`
	WebhookURL        string            `json:"webhook_url,omitempty"`
}

// UserSettings extracts the editable subset of this configuration.
func (c *Config) UserSettings() UserSettings {
	symbols := make(map[string]string, len(c.SymbolsMap))
	for k, v := range c.SymbolsMap {
		symbols[k] = v
	}
	return UserSettings{
		VSCurrency:        c.VSCurrency,
		UpdateIntervalSec: c.UpdateIntervalSec,
		JitterSec:         c.JitterSec,
		SymbolsMap:        symbols,
		OutlierWindow:     c.OutlierWindow,
		OutlierThreshold:  c.OutlierThreshold,
		WebhookURL:        c.WebhookURL,
	}
}

// Marshal renders settings as indented JSON for config.json.
func (u UserSettings) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(u, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return append(data, '\n'), nil
}
