package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

func (t TransactionType) String() string {
	return string(t)
}

// ParseTransactionType coerces free-form input onto the enum. Anything that
// is not recognizably income is treated as an expense.
func ParseTransactionType(s string) TransactionType {
	if strings.EqualFold(strings.TrimSpace(s), string(Income)) {
		return Income
	}

	return Expense
}

// Account is a named bucket owned by exactly one user. Accounts are created
// explicitly, or implicitly as "Default" the first time a transaction is
// recorded with no resolvable account. They are never updated or deleted.
type Account struct {
	bun.BaseModel `bun:"table:accounts" json:"-"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	UserID    string    `bun:"user_id,notnull" json:"userId"`
	Name      string    `bun:"name,notnull" json:"name"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
}

// Transaction is one income or expense event. Amount is always >= 0; the
// direction is carried solely by Type, never by sign.
type Transaction struct {
	bun.BaseModel `bun:"table:transactions" json:"-"`

	ID          uuid.UUID       `bun:"id,pk,type:uuid" json:"id"`
	UserID      string          `bun:"user_id,notnull" json:"userId"`
	AccountID   uuid.UUID       `bun:"account_id,notnull,type:uuid" json:"accountId"`
	Date        time.Time       `bun:"date,notnull" json:"date"`
	Description string          `bun:"description,notnull" json:"description"`
	Category    string          `bun:"category,notnull" json:"category"`
	Amount      decimal.Decimal `bun:"amount,notnull,type:numeric" json:"amount"`
	Type        TransactionType `bun:"type,notnull" json:"type"`
	CreatedAt   time.Time       `bun:"created_at,notnull" json:"createdAt"`
}
