package storage

import "encoding/json"

// Snapshot is one timestamped valuation observation. Records are immutable
// once appended to the snapshot log.
type Snapshot struct {
	TS         string             `json:"ts"`
	VSCurrency string             `json:"vs_currency"`
	TotalValue float64            `json:"total_value"`
	Prices     map[string]float64 `json:"prices"`
	Positions  json.RawMessage    `json:"positions,omitempty"`
}

// DailyRollup aggregates all snapshots of one UTC calendar day.
type DailyRollup struct {
	Date  string  `json:"date"`
	Open  float64 `json:"open"`
	Close float64 `json:"close"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Avg   float64 `json:"avg"`
	Count int     `json:"count"`
}

// QuarantineRecord captures a rejected snapshot together with the
// statistical evidence that justified the rejection.
type QuarantineRecord struct {
	Reason     string             `json:"reason"`
	Median     float64            `json:"median"`
	TotalValue float64            `json:"total_value"`
	Deviation  float64            `json:"deviation"`
	Threshold  float64            `json:"threshold"`
	TS         string             `json:"ts"`
	VSCurrency string             `json:"vs_currency"`
	Prices     map[string]float64 `json:"prices"`
}

// CacheRecord is the last-known-good flat price map, overwritten wholesale
// on every successful fetch.
type CacheRecord struct {
	LastPrices  map[string]float64 `json:"last_prices"`
	LastFetchTS string             `json:"last_fetch_ts"`
}
