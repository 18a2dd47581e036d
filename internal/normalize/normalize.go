// Package normalize turns raw tabular rows into canonical transaction drafts
// using a user supplied column mapping. Normalization is permissive by
// contract: a malformed cell degrades to a documented default instead of
// failing, so one bad row can never abort an import.
package normalize

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/ledger"
)

// Row is one parsed record keyed by source column name.
type Row map[string]string

// Mapping binds the five canonical transaction fields to source column
// names. An empty column name means the field is unmapped.
type Mapping struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
}

// Fields lists the canonical field names accepted by Mapping.Set.
var Fields = []string{"date", "description", "category", "amount", "type"}

// Set binds a canonical field to a source column.
func (m *Mapping) Set(field, column string) error {
	switch field {
	case "date":
		m.Date = column
	case "description":
		m.Description = column
	case "category":
		m.Category = column
	case "amount":
		m.Amount = column
	case "type":
		m.Type = column
	default:
		return fmt.Errorf("unknown mapping field %q", field)
	}

	return nil
}

// Draft is a transient, unpersisted canonical transaction awaiting batch
// submission. A zero AccountID means the account is unresolved and the store
// will substitute the caller's default account.
type Draft struct {
	Date        time.Time              `json:"date"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	Amount      decimal.Decimal        `json:"amount"`
	Type        ledger.TransactionType `json:"type"`
	AccountID   uuid.UUID              `json:"accountId"`
}

const DefaultCategory = "General"

var amountJunk = regexp.MustCompile(`[^0-9.\-]+`)

// ParseAmount strips everything except digits, '.' and '-' from a cell and
// parses the remainder as a decimal. The boolean reports whether the cell
// held a usable number; callers get zero otherwise.
func ParseAmount(cell string) (decimal.Decimal, bool) {
	cleaned := amountJunk.ReplaceAllString(cell, "")
	if cleaned == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}

	return d, true
}

// Normalize maps one raw row through the column mapping into a draft.
// Pure and total: every malformed input degrades to a default (bad or
// missing date -> now, missing description -> "", missing category ->
// "General", unparseable amount -> 0). The stored amount is the absolute
// value; direction is carried only by the inferred type. accountID is the
// caller's batch-level account selection and may be the zero UUID.
func Normalize(row Row, mapping Mapping, accountID uuid.UUID, now time.Time) Draft {
	amount, amountOK := decimal.Zero, false
	if mapping.Amount != "" {
		amount, amountOK = ParseAmount(row[mapping.Amount])
	}

	label := ""
	if mapping.Type != "" {
		label = row[mapping.Type]
	}

	date := now
	if mapping.Date != "" {
		if cell, ok := row[mapping.Date]; ok {
			date = ParseDate(cell, now)
		}
	}

	category := ""
	if mapping.Category != "" {
		category = row[mapping.Category]
	}
	if category == "" {
		category = DefaultCategory
	}

	description := ""
	if mapping.Description != "" {
		description = row[mapping.Description]
	}

	return Draft{
		Date:        date,
		Description: description,
		Category:    category,
		Amount:      amount.Abs(),
		Type:        InferType(label, amount, amountOK),
		AccountID:   accountID,
	}
}
