// Package ledgerstore is the durable store gateway: bulk and single inserts
// plus the paginated queries the API serves from, all scoped to the owning
// user.
package ledgerstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/ledgerline/ledgerline/internal/ledger"
	"github.com/ledgerline/ledgerline/internal/normalize"
)

const (
	DefaultAccountName = "Default"

	DefaultPageLimit = 25
	MaxPageLimit     = 100
	recentLimit      = 10
)

type Store struct {
	db  *bun.DB
	now func() time.Time
}

func New(db *bun.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// EnsureSchema creates the accounts and transactions tables if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().Model((*ledger.Account)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("error creating accounts table: %w", err)
	}

	if _, err := s.db.NewCreateTable().Model((*ledger.Transaction)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("error creating transactions table: %w", err)
	}

	return nil
}

// CreateAccount records a new account for a user. A blank name falls back to
// "Default".
func (s *Store) CreateAccount(ctx context.Context, userID, name string) (*ledger.Account, error) {
	if name == "" {
		name = DefaultAccountName
	}

	account := &ledger.Account{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: s.now(),
	}

	if _, err := s.db.NewInsert().Model(account).Exec(ctx); err != nil {
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	return account, nil
}

// ListAccounts returns a user's accounts, newest first.
func (s *Store) ListAccounts(ctx context.Context, userID string) ([]ledger.Account, error) {
	accounts := []ledger.Account{}

	err := s.db.NewSelect().
		Model(&accounts).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing accounts: %w", err)
	}

	return accounts, nil
}

// CreateTransaction persists a single draft with account resolution.
func (s *Store) CreateTransaction(ctx context.Context, userID string, draft normalize.Draft) (*ledger.Transaction, error) {
	inserted, err := s.BulkInsert(ctx, userID, []normalize.Draft{draft})
	if err != nil {
		return nil, err
	}

	return &inserted[0], nil
}

// BulkInsert persists an ordered batch of drafts as one multi-row insert.
// The fallback account is resolved once per batch: a draft keeps its own
// account id only when it belongs to the caller; otherwise the caller's
// first existing account is used, or a single "Default" account is created
// when the caller owns none. An empty batch inserts nothing and creates no
// account.
func (s *Store) BulkInsert(ctx context.Context, userID string, drafts []normalize.Draft) ([]ledger.Transaction, error) {
	if len(drafts) == 0 {
		return []ledger.Transaction{}, nil
	}

	accounts, err := s.ListAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	owned := make(map[uuid.UUID]bool, len(accounts))
	for _, a := range accounts {
		owned[a.ID] = true
	}

	var fallback uuid.UUID
	if len(accounts) > 0 {
		fallback = accounts[0].ID
	} else {
		account, err := s.CreateAccount(ctx, userID, DefaultAccountName)
		if err != nil {
			return nil, err
		}

		fallback = account.ID
		owned[account.ID] = true
	}

	records := buildRecords(userID, drafts, owned, fallback, s.now())

	if _, err := s.db.NewInsert().Model(&records).Exec(ctx); err != nil {
		return nil, fmt.Errorf("error writing transactions: %w", err)
	}

	return records, nil
}

// buildRecords turns drafts into persistable rows: ids generated, accounts
// resolved against the caller's set, categories defaulted, amounts forced
// non-negative.
func buildRecords(userID string, drafts []normalize.Draft, owned map[uuid.UUID]bool, fallback uuid.UUID, now time.Time) []ledger.Transaction {
	records := make([]ledger.Transaction, 0, len(drafts))

	for _, draft := range drafts {
		category := draft.Category
		if category == "" {
			category = normalize.DefaultCategory
		}

		records = append(records, ledger.Transaction{
			ID:          uuid.New(),
			UserID:      userID,
			AccountID:   resolveAccount(draft.AccountID, owned, fallback),
			Date:        draft.Date,
			Description: draft.Description,
			Category:    category,
			Amount:      draft.Amount.Abs(),
			Type:        draft.Type,
			CreatedAt:   now,
		})
	}

	return records
}

// ListTransactions returns one page of a user's transactions by date
// descending. page starts at 1; limit is clamped to [1,100] with 0 meaning
// the default of 25. There is no total count: a full page means more pages
// may exist.
func (s *Store) ListTransactions(ctx context.Context, userID string, page, limit int) ([]ledger.Transaction, error) {
	if page < 1 {
		page = 1
	}

	if limit < 1 {
		limit = DefaultPageLimit
	} else if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	txs := []ledger.Transaction{}

	err := s.db.NewSelect().
		Model(&txs).
		Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing transactions: %w", err)
	}

	return txs, nil
}

// Recent returns a user's 10 newest transactions by date.
func (s *Store) Recent(ctx context.Context, userID string) ([]ledger.Transaction, error) {
	return s.ListTransactions(ctx, userID, 1, recentLimit)
}

// All returns a user's full transaction history by date descending, the
// input of the aggregation engine.
func (s *Store) All(ctx context.Context, userID string) ([]ledger.Transaction, error) {
	txs := []ledger.Transaction{}

	err := s.db.NewSelect().
		Model(&txs).
		Where("user_id = ?", userID).
		Order("date DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading transactions: %w", err)
	}

	return txs, nil
}

// resolveAccount picks the final owning account for one draft: the draft's
// own id when the caller owns it, the batch fallback otherwise.
func resolveAccount(draftAccount uuid.UUID, owned map[uuid.UUID]bool, fallback uuid.UUID) uuid.UUID {
	if draftAccount != uuid.Nil && owned[draftAccount] {
		return draftAccount
	}

	return fallback
}
