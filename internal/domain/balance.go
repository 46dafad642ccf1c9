package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceEntry is one asset row. Amounts are decimal strings to avoid
// float precision loss when they travel through JSON to UI layers.
type BalanceEntry struct {
	Currency  string `json:"currency"`
	Available string `json:"available"`
	Locked    string `json:"locked"`
}

// BalanceSnapshot is the balance data as of the last successful fetch,
// paired with the previous entries for delta display.
type BalanceSnapshot struct {
	Entries         []BalanceEntry `json:"entries"`
	PreviousEntries []BalanceEntry `json:"previous_entries,omitempty"`
	FetchedAt       time.Time      `json:"fetched_at,omitempty"`
	Err             string         `json:"error,omitempty"`
}

// Delta returns available-balance change for currency between the previous
// and current entries. Missing entries count as zero.
func (s BalanceSnapshot) Delta(currency string) decimal.Decimal {
	return available(s.Entries, currency).Sub(available(s.PreviousEntries, currency))
}

func available(entries []BalanceEntry, currency string) decimal.Decimal {
	for _, e := range entries {
		if e.Currency == currency {
			d, err := decimal.NewFromString(e.Available)
			if err != nil {
				return decimal.Zero
			}
			return d
		}
	}
	return decimal.Zero
}
