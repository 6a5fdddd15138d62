package portfolio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ianisnotreal/crypto-tracker-cli/internal/storage"
)

// FileName is the positions file inside the data directory.
const FileName = "portfolio.json"

// Position is one asset holding.
type Position struct {
	ID        string  `json:"id"`
	Symbol    string  `json:"symbol"`
	Qty       float64 `json:"qty"`
	CostBasis float64 `json:"cost_basis"`
}

// Portfolio is the full set of holdings.
type Portfolio struct {
	Positions []Position `json:"positions"`
}

// IDs lists the asset ids of all positions, in order.
func (p *Portfolio) IDs() []string {
	ids := make([]string, 0, len(p.Positions))
	for _, pos := range p.Positions {
		ids = append(ids, pos.ID)
	}
	return ids
}

// Load reads the portfolio file; a missing file is an empty portfolio.
func Load(dir string) (*Portfolio, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return &Portfolio{}, nil
		}
		return nil, fmt.Errorf("read portfolio: %w", err)
	}

	var p Portfolio
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse portfolio: %w", err)
	}
	return &p, nil
}

// Save atomically rewrites the portfolio file.
func Save(dir string, p *Portfolio) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal portfolio: %w", err)
	}
	return storage.WriteFileAtomic(filepath.Join(dir, FileName), append(data, '\n'))
}

// Upsert adds qty to an existing position or creates a new one. When a
// cost basis is supplied for an addition to an existing position, the
// stored basis becomes the quantity-weighted average of old and new.
func (p *Portfolio) Upsert(id, symbol string, qty float64, costBasis *float64) {
	symbol = strings.ToLower(symbol)
	for i := range p.Positions {
		if p.Positions[i].Symbol != symbol {
			continue
		}
		pos := &p.Positions[i]
		if costBasis != nil {
			oldQty := decimal.NewFromFloat(pos.Qty)
			oldCost := decimal.NewFromFloat(pos.CostBasis)
			addQty := decimal.NewFromFloat(qty)
			addCost := decimal.NewFromFloat(*costBasis)
			totalQty := oldQty.Add(addQty)
			if !totalQty.IsZero() {
				blended := oldQty.Mul(oldCost).Add(addQty.Mul(addCost)).Div(totalQty)
				pos.CostBasis = blended.InexactFloat64()
			}
		}
		pos.Qty += qty
		return
	}

	pos := Position{ID: id, Symbol: symbol, Qty: qty}
	if costBasis != nil {
		pos.CostBasis = *costBasis
	}
	p.Positions = append(p.Positions, pos)
}

// Remove subtracts qty from a position, or deletes it entirely when all is
// set or the remaining quantity drops to zero or below.
func (p *Portfolio) Remove(symbol string, qty float64, all bool) error {
	symbol = strings.ToLower(symbol)
	for i := range p.Positions {
		if p.Positions[i].Symbol != symbol {
			continue
		}
		if all || p.Positions[i].Qty-qty <= 0 {
			p.Positions = append(p.Positions[:i], p.Positions[i+1:]...)
			return nil
		}
		p.Positions[i].Qty -= qty
		return nil
	}
	return fmt.Errorf("no position for symbol %q", symbol)
}

// Set overwrites absolute fields of an existing position.
func (p *Portfolio) Set(symbol string, qty, costBasis *float64) error {
	symbol = strings.ToLower(symbol)
	for i := range p.Positions {
		if p.Positions[i].Symbol != symbol {
			continue
		}
		if qty != nil {
			p.Positions[i].Qty = *qty
		}
		if costBasis != nil {
			p.Positions[i].CostBasis = *costBasis
		}
		return nil
	}
	return fmt.Errorf("no position for symbol %q", symbol)
}

// Row is one valuation report line.
type Row struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Value  float64 `json:"value"`
	PNL    float64 `json:"pnl"`
	PNLPct float64 `json:"pnl_pct"`
}

// Report is the result of valuing a portfolio against a price map.
type Report struct {
	Positions  []Row
	TotalValue float64
}

// Valuate computes per-position value and cost-basis P/L. The arithmetic
// runs on decimals so user-visible totals do not accumulate float drift.
// Missing prices value as zero.
func (p *Portfolio) Valuate(prices map[string]map[string]float64, quote string) Report {
	var report Report
	total := decimal.Zero

	for _, pos := range p.Positions {
		price := decimal.NewFromFloat(prices[pos.ID][quote])
		qty := decimal.NewFromFloat(pos.Qty)
		cost := decimal.NewFromFloat(pos.CostBasis)

		value := qty.Mul(price)
		invested := qty.Mul(cost)
		pnl := value.Sub(invested)

		pnlPct := decimal.Zero
		if !invested.IsZero() {
			pnlPct = pnl.Div(invested).Mul(decimal.NewFromInt(100))
		}

		report.Positions = append(report.Positions, Row{
			Symbol: pos.Symbol,
			Price:  price.InexactFloat64(),
			Value:  value.InexactFloat64(),
			PNL:    pnl.InexactFloat64(),
			PNLPct: pnlPct.InexactFloat64(),
		})
		total = total.Add(value)
	}

	report.TotalValue = total.InexactFloat64()
	return report
}
