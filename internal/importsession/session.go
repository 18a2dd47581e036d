// Package importsession holds the transient state of one file import: the
// parsed rows, the column mapping under construction, and the drafts
// produced by applying it. A session belongs to exactly one user and is
// discarded after submission or abandonment.
package importsession

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline/internal/ledger"
	"github.com/ledgerline/ledgerline/internal/normalize"
	"github.com/ledgerline/ledgerline/internal/tabular"
)

// State is the session phase: Mapping while the user assigns columns,
// Ready once drafts are materialized and eligible for submission.
type State int

const (
	StateMapping State = iota
	StateReady
)

func (s State) String() string {
	if s == StateReady {
		return "ready"
	}

	return "mapping"
}

var ErrNotReady = errors.New("mapping has not been applied")

// Gateway is the subset of the transaction store a session needs to submit
// its drafts.
type Gateway interface {
	BulkInsert(ctx context.Context, userID string, drafts []normalize.Draft) ([]ledger.Transaction, error)
}

type Session struct {
	ID     uuid.UUID
	UserID string

	state     State
	table     tabular.Table
	mapping   normalize.Mapping
	accountID uuid.UUID
	drafts    []normalize.Draft

	touched time.Time
	now     func() time.Time
}

func NewSession(userID string) *Session {
	s := &Session{
		ID:     uuid.New(),
		UserID: userID,
		now:    time.Now,
	}
	s.touched = s.now()

	return s
}

// LoadTable installs a freshly parsed file and resets the session back to
// the Mapping state, dropping any drafts from a previous file.
func (s *Session) LoadTable(table tabular.Table) {
	s.touch()
	s.table = table
	s.mapping = normalize.Mapping{}
	s.drafts = nil
	s.state = StateMapping
}

// SetMapping binds one canonical field to a source column.
func (s *Session) SetMapping(field, column string) error {
	s.touch()
	return s.mapping.Set(field, column)
}

// SetAccount selects the account the whole batch will be assigned to. The
// zero UUID leaves resolution to the store's default-account logic.
func (s *Session) SetAccount(accountID uuid.UUID) {
	s.touch()
	s.accountID = accountID
}

// ApplyMapping normalizes every loaded row and moves the session to Ready.
// An empty table still transitions, producing zero drafts.
func (s *Session) ApplyMapping() {
	s.touch()

	drafts := make([]normalize.Draft, 0, len(s.table.Rows))
	now := s.now()

	for _, row := range s.table.Rows {
		drafts = append(drafts, normalize.Normalize(row, s.mapping, s.accountID, now))
	}

	s.drafts = drafts
	s.state = StateReady
}

// Submit bulk-inserts the drafts through the gateway. Only valid in Ready.
// Success resets the session to an empty Mapping state so a new file can be
// imported; failure leaves everything untouched so the user may retry.
func (s *Session) Submit(ctx context.Context, gw Gateway) ([]ledger.Transaction, error) {
	s.touch()

	if s.state != StateReady {
		return nil, ErrNotReady
	}

	inserted, err := gw.BulkInsert(ctx, s.UserID, s.drafts)
	if err != nil {
		return nil, err
	}

	s.table = tabular.Table{}
	s.mapping = normalize.Mapping{}
	s.accountID = uuid.Nil
	s.drafts = nil
	s.state = StateMapping

	return inserted, nil
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Columns() []string {
	return s.table.Columns
}

func (s *Session) Rows() int {
	return len(s.table.Rows)
}

func (s *Session) Drafts() []normalize.Draft {
	return s.drafts
}

func (s *Session) touch() {
	s.touched = s.now()
}
