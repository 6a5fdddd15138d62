package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ianisnotreal/crypto-tracker-cli/internal/alerting"
)

// AlertOptions configure one alert evaluation.
type AlertOptions struct {
	Above   []string
	Below   []string
	Webhook string
	Fiat    string
}

// Alert evaluates threshold rules against live prices and posts triggered
// rules to the webhook in one message. The webhook flag overrides the
// configured endpoint.
func (a *App) Alert(ctx context.Context, opts AlertOptions) error {
	rules, err := alerting.ParseRules(opts.Above, opts.Below)
	if err != nil {
		return err
	}
	if len(rules) == 0 {
		return errors.New("provide at least one --above or --below rule")
	}

	webhook := opts.Webhook
	if webhook == "" {
		webhook = a.Config.WebhookURL
	}

	fiat := a.resolveFiat(opts.Fiat)

	ids := make([]string, 0, len(rules))
	idBySymbol := make(map[string]string, len(rules))
	for _, rule := range rules {
		if _, seen := idBySymbol[rule.Symbol]; seen {
			continue
		}
		id, err := a.Config.ResolveSymbol(rule.Symbol)
		if err != nil {
			return err
		}
		idBySymbol[rule.Symbol] = id
		ids = append(ids, id)
	}

	store := a.newStore()
	prices, err := a.newSource(store).Prices(ctx, ids, fiat)
	if err != nil {
		return err
	}

	bySymbol := make(map[string]float64, len(idBySymbol))
	for sym, id := range idBySymbol {
		if quotes, ok := prices[id]; ok {
			bySymbol[sym] = quotes[fiat]
		}
	}

	triggered := alerting.Evaluate(rules, bySymbol, fiat)
	if len(triggered) == 0 {
		fmt.Fprintln(os.Stdout, "No rules triggered.")
		return nil
	}

	text := strings.Join(triggered, "\n")
	fmt.Fprintln(os.Stdout, text)

	if webhook == "" {
		a.Logger.Warn().Msg("no webhook configured; alert printed only")
		return nil
	}
	if err := a.newNotifier().Notify(ctx, webhook, text); err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	return nil
}
