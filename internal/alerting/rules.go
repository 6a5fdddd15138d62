package alerting

import (
	"fmt"
	"strconv"
	"strings"
)

// Rule is one price threshold check against a symbol.
type Rule struct {
	Symbol string
	Limit  float64
	Above  bool
}

// ParseRules builds rules from "sym=limit" flag values.
func ParseRules(above, below []string) ([]Rule, error) {
	var rules []Rule
	for _, raw := range above {
		rule, err := parseRule(raw, true)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	for _, raw := range below {
		rule, err := parseRule(raw, false)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func parseRule(raw string, above bool) (Rule, error) {
	sym, limitStr, ok := strings.Cut(raw, "=")
	if !ok {
		return Rule{}, fmt.Errorf("expected sym=limit, got %q", raw)
	}
	sym = strings.ToLower(strings.TrimSpace(sym))
	if sym == "" {
		return Rule{}, fmt.Errorf("empty symbol in rule %q", raw)
	}
	limit, err := strconv.ParseFloat(strings.TrimSpace(limitStr), 64)
	if err != nil {
		return Rule{}, fmt.Errorf("invalid limit in rule %q: %w", raw, err)
	}
	return Rule{Symbol: sym, Limit: limit, Above: above}, nil
}

// Evaluate returns one message per triggered rule. Symbols without a
// price are skipped.
func Evaluate(rules []Rule, prices map[string]float64, quote string) []string {
	var triggered []string
	for _, rule := range rules {
		price, ok := prices[rule.Symbol]
		if !ok {
			continue
		}
		if rule.Above && price > rule.Limit {
			triggered = append(triggered, fmt.Sprintf(
				"ALERT %s %.2f %s above %.2f", strings.ToUpper(rule.Symbol), price, strings.ToUpper(quote), rule.Limit))
		}
		if !rule.Above && price < rule.Limit {
			triggered = append(triggered, fmt.Sprintf(
				"ALERT %s %.2f %s below %.2f", strings.ToUpper(rule.Symbol), price, strings.ToUpper(quote), rule.Limit))
		}
	}
	return triggered
}
