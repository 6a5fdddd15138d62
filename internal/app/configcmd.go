package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ianisnotreal/crypto-tracker-cli/internal/storage"
)

// ConfigOptions configure the config command.
type ConfigOptions struct {
	Show          bool
	Path          bool
	Set           []string
	AddSymbols    []string
	RemoveSymbols []string
}

// ConfigCmd shows or edits the persisted user settings. Edits rewrite
// config.json atomically, preserving only the known keys.
func (a *App) ConfigCmd(opts ConfigOptions) error {
	path := filepath.Join(a.Config.DataDir, "config.json")

	if opts.Path {
		fmt.Fprintln(os.Stdout, path)
		return nil
	}

	settings := a.Config.UserSettings()
	changed := false

	if len(opts.Set) > 0 {
		kv, err := parseKVList(opts.Set)
		if err != nil {
			return err
		}
		for key, value := range kv {
			switch key {
			case "vs_currency":
				if value == "" {
					return fmt.Errorf("vs_currency cannot be empty")
				}
				settings.VSCurrency = strings.ToLower(value)
			case "update_interval_sec":
				sec, err := strconv.Atoi(value)
				if err != nil {
					return fmt.Errorf("update_interval_sec must be an integer")
				}
				if sec < 30 {
					return fmt.Errorf("update_interval_sec must be >= 30")
				}
				settings.UpdateIntervalSec = sec
			case "outlier_window":
				win, err := strconv.Atoi(value)
				if err != nil {
					return fmt.Errorf("outlier_window must be an integer")
				}
				settings.OutlierWindow = win
			case "outlier_threshold_pct":
				pct, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return fmt.Errorf("outlier_threshold_pct must be a number")
				}
				settings.OutlierThreshold = pct
			case "webhook_url":
				settings.WebhookURL = value
			default:
				return fmt.Errorf("unknown key %q; allowed: vs_currency, update_interval_sec, outlier_window, outlier_threshold_pct, webhook_url", key)
			}
			changed = true
		}
	}

	if len(opts.AddSymbols) > 0 {
		kv, err := parseKVList(opts.AddSymbols)
		if err != nil {
			return err
		}
		if settings.SymbolsMap == nil {
			settings.SymbolsMap = map[string]string{}
		}
		for sym, id := range kv {
			if sym == "" || id == "" {
				return fmt.Errorf("symbols_map entries must be like btc=bitcoin")
			}
			settings.SymbolsMap[strings.ToLower(sym)] = id
			changed = true
		}
	}

	for _, sym := range opts.RemoveSymbols {
		delete(settings.SymbolsMap, strings.ToLower(sym))
		changed = true
	}

	if changed {
		data, err := settings.Marshal()
		if err != nil {
			return err
		}
		if err := storage.WriteFileAtomic(path, data); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "Config updated.")
	}

	if opts.Show || !changed {
		data, err := settings.Marshal()
		if err != nil {
			return err
		}
		os.Stdout.Write(data)
	}
	return nil
}

func parseKVList(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, item := range pairs {
		key, value, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("expected key=value, got %q", item)
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out, nil
}
