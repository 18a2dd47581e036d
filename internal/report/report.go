// Package report computes the dashboard aggregates from a user's full
// transaction history. Aggregation is a pure single pass; decimal
// accumulators keep the sums independent of input ordering.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/ledger"
	"github.com/ledgerline/ledgerline/internal/normalize"
)

// UnknownAccountID buckets transactions whose account reference is
// unresolved.
const UnknownAccountID = "unknown"

type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

type CategoryRow struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// SeriesRow is one time bucket. Period is "YYYY-Www", "YYYY-MM" or "YYYY"
// depending on the series; all three sort chronologically as plain strings.
type SeriesRow struct {
	Period string          `json:"period"`
	Total  decimal.Decimal `json:"total"`
}

type AccountRow struct {
	AccountID   string          `json:"accountId"`
	AccountName string          `json:"accountName"`
	Total       decimal.Decimal `json:"total"`
}

type Report struct {
	Totals     Totals        `json:"totals"`
	ByCategory []CategoryRow `json:"byCategory"`
	Weekly     []SeriesRow   `json:"weekly"`
	Monthly    []SeriesRow   `json:"monthly"`
	Yearly     []SeriesRow   `json:"yearly"`
	ByAccount  []AccountRow  `json:"byAccount"`
}

// Aggregate computes the dashboard report for a set of transactions and the
// owning user's account directory. The weekly, monthly and yearly series sum
// income and expense amounts together into the same bucket; only Totals and
// ByCategory distinguish direction.
func Aggregate(txs []ledger.Transaction, accounts []ledger.Account) Report {
	income := decimal.Zero
	expense := decimal.Zero

	byCategory := map[string]decimal.Decimal{}
	weekly := map[string]decimal.Decimal{}
	monthly := map[string]decimal.Decimal{}
	yearly := map[string]decimal.Decimal{}
	byAccount := map[string]decimal.Decimal{}

	for _, t := range txs {
		if t.Type == ledger.Income {
			income = income.Add(t.Amount)
		} else {
			expense = expense.Add(t.Amount)
		}

		if t.Type == ledger.Expense {
			category := t.Category
			if category == "" {
				category = normalize.DefaultCategory
			}

			byCategory[category] = byCategory[category].Add(t.Amount)
		}

		weekly[WeekKey(t.Date)] = weekly[WeekKey(t.Date)].Add(t.Amount)
		monthly[t.Date.Format("2006-01")] = monthly[t.Date.Format("2006-01")].Add(t.Amount)
		yearly[t.Date.Format("2006")] = yearly[t.Date.Format("2006")].Add(t.Amount)

		accountID := UnknownAccountID
		if t.AccountID != uuid.Nil {
			accountID = t.AccountID.String()
		}

		byAccount[accountID] = byAccount[accountID].Add(t.Amount)
	}

	return Report{
		Totals: Totals{
			Income:  income,
			Expense: expense,
			Net:     income.Sub(expense),
		},
		ByCategory: categoryRows(byCategory),
		Weekly:     seriesRows(weekly),
		Monthly:    seriesRows(monthly),
		Yearly:     seriesRows(yearly),
		ByAccount:  accountRows(byAccount, accounts),
	}
}

// WeekKey returns the ISO-8601 week identifier "YYYY-Www" for a date. The
// ISO week-numbering year may differ from the calendar year at year
// boundaries (2024-12-30 falls in 2025-W01).
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func categoryRows(m map[string]decimal.Decimal) []CategoryRow {
	rows := make([]CategoryRow, 0, len(m))
	for category, total := range m {
		rows = append(rows, CategoryRow{Category: category, Total: total})
	}

	// descending by total, name ascending on ties for determinism
	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Total.Cmp(rows[j].Total); c != 0 {
			return c > 0
		}
		return rows[i].Category < rows[j].Category
	})

	return rows
}

func seriesRows(m map[string]decimal.Decimal) []SeriesRow {
	rows := make([]SeriesRow, 0, len(m))
	for period, total := range m {
		rows = append(rows, SeriesRow{Period: period, Total: total})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Period < rows[j].Period
	})

	return rows
}

func accountRows(m map[string]decimal.Decimal, accounts []ledger.Account) []AccountRow {
	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.ID.String()] = a.Name
	}

	rows := make([]AccountRow, 0, len(m))

	for accountID, total := range m {
		name, ok := names[accountID]
		if !ok {
			name = "Unknown"
		}

		rows = append(rows, AccountRow{AccountID: accountID, AccountName: name, Total: total})
	}

	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Total.Cmp(rows[j].Total); c != 0 {
			return c > 0
		}
		return rows[i].AccountName < rows[j].AccountName
	})

	return rows
}
