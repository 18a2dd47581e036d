package normalize

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/ledger"
)

// typeRule classifies a labelled amount. Rules are evaluated in order and
// the first match wins.
type typeRule struct {
	matches func(label string, amount decimal.Decimal, amountOK bool) bool
	kind    ledger.TransactionType
}

func exactLabel(tokens ...string) func(string, decimal.Decimal, bool) bool {
	return func(label string, _ decimal.Decimal, _ bool) bool {
		for _, t := range tokens {
			if label == t {
				return true
			}
		}

		return false
	}
}

func substringLabel(tokens ...string) func(string, decimal.Decimal, bool) bool {
	return func(label string, _ decimal.Decimal, _ bool) bool {
		if label == "" {
			return false
		}

		for _, t := range tokens {
			if strings.Contains(label, t) {
				return true
			}
		}

		return false
	}
}

func amountSign(negative bool) func(string, decimal.Decimal, bool) bool {
	return func(_ string, amount decimal.Decimal, amountOK bool) bool {
		return amountOK && amount.IsNegative() == negative
	}
}

var typeRules = []typeRule{
	{exactLabel("cr", "credit"), ledger.Income},
	{substringLabel("inc", "income"), ledger.Income},
	{exactLabel("dr", "debit"), ledger.Expense},
	{substringLabel("exp", "expense"), ledger.Expense},
	{amountSign(false), ledger.Income},
	{amountSign(true), ledger.Expense},
}

// InferType determines income vs expense for a row. label is the raw mapped
// type cell (may be empty when the column is unmapped or blank); amount is
// the parsed cell value before the absolute value is taken, with amountOK
// reporting whether it parsed at all. Known credit/debit labels win, an
// unknown label falls through to the sign of the amount, and a row whose
// amount does not parse defaults to expense.
func InferType(label string, amount decimal.Decimal, amountOK bool) ledger.TransactionType {
	label = strings.ToLower(strings.TrimSpace(label))

	for _, rule := range typeRules {
		if rule.matches(label, amount, amountOK) {
			return rule.kind
		}
	}

	return ledger.Expense
}
