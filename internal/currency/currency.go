// Package currency converts stored base-currency (INR) prices into the
// user's display currency. Rates come from the backend's exchange-rate
// endpoint; a bundled snapshot keeps price display working when that fetch
// fails. Per the single-writer rule, only the owning Converter mutates the
// snapshot; readers observe an immutable versioned copy.
package currency

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/domain"
)

// Base is the currency all stored prices are denominated in.
const Base = "INR"

// fallbackRates is a point-in-time snapshot used when no live table has been
// fetched yet or the fetch failed.
var fallbackRates = map[string]float64{
	"INR": 1,
	"USD": 0.012,
	"EUR": 0.011,
	"GBP": 0.0095,
	"AED": 0.044,
	"JPY": 1.78,
	"AUD": 0.018,
	"CAD": 0.016,
	"SGD": 0.016,
}

var symbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"AED": "د.إ",
	"JPY": "¥",
	"AUD": "A$",
	"CAD": "C$",
	"SGD": "S$",
}

// Symbol returns the display symbol for a currency code, falling back to the
// code itself.
func Symbol(code string) string {
	if s, ok := symbols[code]; ok {
		return s
	}
	return code
}

// Snapshot is one immutable view of the conversion state: the selected
// display currency plus the rate table in force.
type Snapshot struct {
	Currency string
	Table    domain.RateTable
	Version  uint64
}

type Converter struct {
	fetch   func(ctx context.Context) (domain.RateTable, error)
	logger  *slog.Logger
	current atomic.Pointer[Snapshot]
	version atomic.Uint64
}

// NewConverter seeds the converter with the bundled snapshot and INR
// display. fetch may be nil for a fixed-table converter.
func NewConverter(fetch func(ctx context.Context) (domain.RateTable, error), logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Converter{fetch: fetch, logger: logger}
	c.install(Base, fallbackTable())
	return c
}

func fallbackTable() domain.RateTable {
	rates := make(map[string]float64, len(fallbackRates))
	for k, v := range fallbackRates {
		rates[k] = v
	}
	return domain.RateTable{Base: Base, Rates: rates}
}

func (c *Converter) install(code string, table domain.RateTable) {
	// Every published snapshot owns its table: copy before forcing the
	// base identity so a reader of the previous snapshot never observes a
	// map write. The base rate itself is an identity by definition; never
	// trust a fetched table to say otherwise.
	rates := make(map[string]float64, len(table.Rates)+1)
	for k, v := range table.Rates {
		rates[k] = v
	}
	rates[Base] = 1
	table.Rates = rates
	table.Base = Base
	c.current.Store(&Snapshot{
		Currency: code,
		Table:    table,
		Version:  c.version.Add(1),
	})
}

// Snapshot returns the current immutable view.
func (c *Converter) Snapshot() Snapshot {
	return *c.current.Load()
}

// SetCurrency switches the display currency, keeping the rate table.
func (c *Converter) SetCurrency(code string) {
	cur := c.current.Load()
	c.install(code, cur.Table)
}

// RefreshRates fetches a fresh table. On failure the previous snapshot stays
// in force and the error is returned for logging only; display never blocks.
func (c *Converter) RefreshRates(ctx context.Context) error {
	if c.fetch == nil {
		return nil
	}
	table, errFetch := c.fetch(ctx)
	if errFetch != nil {
		c.logger.Warn("rate fetch failed, keeping previous table", "err", errFetch)
		return errFetch
	}
	table.FetchedAt = time.Now()
	cur := c.current.Load()
	c.install(cur.Currency, table)
	return nil
}

// Run refreshes rates on the given interval until ctx is cancelled.
func (c *Converter) Run(ctx context.Context, every time.Duration) {
	_ = c.RefreshRates(ctx)
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_ = c.RefreshRates(ctx)
		}
	}
}

// Format renders a price for display. Without an override the amount is
// taken to be in the base currency and converted at the current rate; with
// an override it is treated as already converted and only symbol-formatted.
// An unknown display currency shows the raw amount with a best-effort
// symbol.
func (c *Converter) Format(amount float64, overrideCurrency ...string) string {
	if len(overrideCurrency) > 0 && overrideCurrency[0] != "" {
		return Symbol(overrideCurrency[0]) + fmt.Sprintf("%.2f", amount)
	}

	snap := c.current.Load()
	rate, ok := snap.Table.Rates[snap.Currency]
	if !ok {
		return Symbol(snap.Currency) + fmt.Sprintf("%.2f", amount)
	}
	return Symbol(snap.Currency) + fmt.Sprintf("%.2f", amount*rate)
}
