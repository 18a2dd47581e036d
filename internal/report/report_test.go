package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/ledger"
)

func tx(kind ledger.TransactionType, amount string, date string, category string, accountID uuid.UUID) ledger.Transaction {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}

	return ledger.Transaction{
		ID:        uuid.New(),
		UserID:    "user-1",
		AccountID: accountID,
		Date:      d,
		Category:  category,
		Amount:    decimal.RequireFromString(amount),
		Type:      kind,
	}
}

func TestWeekKeyYearBoundary(t *testing.T) {
	// 2025-01-01 is a Wednesday in the week containing the year's first Thursday
	assert.Equal(t, "2025-W01", WeekKey(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))

	// 2024-12-30 is a Monday belonging to ISO week 1 of 2025
	assert.Equal(t, "2025-W01", WeekKey(time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t, "2024-W52", WeekKey(time.Date(2024, 12, 29, 0, 0, 0, 0, time.UTC)))
}

func TestAggregateScenario(t *testing.T) {
	account := ledger.Account{ID: uuid.New(), UserID: "user-1", Name: "Checking"}

	txs := []ledger.Transaction{
		tx(ledger.Income, "100", "2025-03-01", "Salary", account.ID),
		tx(ledger.Expense, "40", "2025-03-02", "Food", account.ID),
		tx(ledger.Expense, "10", "2025-02-15", "Food", account.ID),
	}

	r := Aggregate(txs, []ledger.Account{account})

	assert.True(t, r.Totals.Income.Equal(decimal.NewFromInt(100)))
	assert.True(t, r.Totals.Expense.Equal(decimal.NewFromInt(50)))
	assert.True(t, r.Totals.Net.Equal(decimal.NewFromInt(50)))

	require.Len(t, r.ByCategory, 1)
	assert.Equal(t, "Food", r.ByCategory[0].Category)
	assert.True(t, r.ByCategory[0].Total.Equal(decimal.NewFromInt(50)))

	// income and expense amounts land in the same monthly bucket
	require.Len(t, r.Monthly, 2)
	assert.Equal(t, "2025-02", r.Monthly[0].Period)
	assert.True(t, r.Monthly[0].Total.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "2025-03", r.Monthly[1].Period)
	assert.True(t, r.Monthly[1].Total.Equal(decimal.NewFromInt(140)))

	require.Len(t, r.Yearly, 1)
	assert.Equal(t, "2025", r.Yearly[0].Period)
	assert.True(t, r.Yearly[0].Total.Equal(decimal.NewFromInt(150)))

	require.Len(t, r.ByAccount, 1)
	assert.Equal(t, account.ID.String(), r.ByAccount[0].AccountID)
	assert.Equal(t, "Checking", r.ByAccount[0].AccountName)
	assert.True(t, r.ByAccount[0].Total.Equal(decimal.NewFromInt(150)))
}

func TestAggregateIdempotent(t *testing.T) {
	account := ledger.Account{ID: uuid.New(), Name: "Main"}
	txs := []ledger.Transaction{
		tx(ledger.Income, "1234.56", "2025-01-03", "", account.ID),
		tx(ledger.Expense, "78.90", "2025-01-04", "Travel", uuid.Nil),
	}

	first, err := json.Marshal(Aggregate(txs, []ledger.Account{account}))
	require.NoError(t, err)
	second, err := json.Marshal(Aggregate(txs, []ledger.Account{account}))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAggregateOrderIndependent(t *testing.T) {
	account := ledger.Account{ID: uuid.New(), Name: "Main"}

	txs := []ledger.Transaction{
		tx(ledger.Income, "0.1", "2025-01-01", "", account.ID),
		tx(ledger.Income, "0.2", "2025-01-02", "", account.ID),
		tx(ledger.Expense, "0.3", "2025-01-03", "Food", account.ID),
		tx(ledger.Expense, "1000000.01", "2025-01-04", "Rent", account.ID),
	}

	reversed := make([]ledger.Transaction, len(txs))
	for i, t := range txs {
		reversed[len(txs)-1-i] = t
	}

	a := Aggregate(txs, []ledger.Account{account})
	b := Aggregate(reversed, []ledger.Account{account})

	assert.True(t, a.Totals.Income.Equal(b.Totals.Income))
	assert.True(t, a.Totals.Expense.Equal(b.Totals.Expense))
	assert.True(t, a.Totals.Net.Equal(b.Totals.Net))
	assert.Equal(t, a.ByCategory, b.ByCategory)
	assert.Equal(t, a.Weekly, b.Weekly)
	assert.Equal(t, a.Monthly, b.Monthly)
	assert.Equal(t, a.Yearly, b.Yearly)
}

func TestAggregateEmpty(t *testing.T) {
	r := Aggregate(nil, nil)

	assert.True(t, r.Totals.Income.IsZero())
	assert.True(t, r.Totals.Expense.IsZero())
	assert.True(t, r.Totals.Net.IsZero())
	assert.Empty(t, r.ByCategory)
	assert.Empty(t, r.Weekly)
	assert.Empty(t, r.Monthly)
	assert.Empty(t, r.Yearly)
	assert.Empty(t, r.ByAccount)

	// empty aggregates serialize as [] rather than null
	raw, err := json.Marshal(r)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "null")
}

func TestAggregateUnknownAccount(t *testing.T) {
	known := ledger.Account{ID: uuid.New(), Name: "Savings"}
	foreign := uuid.New() // not in the directory

	txs := []ledger.Transaction{
		tx(ledger.Expense, "5", "2025-05-01", "Misc", uuid.Nil),
		tx(ledger.Expense, "7", "2025-05-01", "Misc", foreign),
		tx(ledger.Income, "100", "2025-05-02", "", known.ID),
	}

	r := Aggregate(txs, []ledger.Account{known})

	require.Len(t, r.ByAccount, 3)

	byID := map[string]AccountRow{}
	for _, row := range r.ByAccount {
		byID[row.AccountID] = row
	}

	assert.Equal(t, "Unknown", byID[UnknownAccountID].AccountName)
	assert.True(t, byID[UnknownAccountID].Total.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "Unknown", byID[foreign.String()].AccountName)
	assert.Equal(t, "Savings", byID[known.ID.String()].AccountName)

	// descending by summed total
	assert.Equal(t, known.ID.String(), r.ByAccount[0].AccountID)
}

func TestAggregateCategorySorting(t *testing.T) {
	txs := []ledger.Transaction{
		tx(ledger.Expense, "10", "2025-01-01", "Food", uuid.Nil),
		tx(ledger.Expense, "30", "2025-01-01", "Rent", uuid.Nil),
		tx(ledger.Expense, "20", "2025-01-01", "", uuid.Nil), // defaults to General
		tx(ledger.Income, "999", "2025-01-01", "Salary", uuid.Nil),
	}

	r := Aggregate(txs, nil)

	require.Len(t, r.ByCategory, 3, "income is excluded from the category breakdown")
	assert.Equal(t, "Rent", r.ByCategory[0].Category)
	assert.Equal(t, "General", r.ByCategory[1].Category)
	assert.Equal(t, "Food", r.ByCategory[2].Category)
}
