package importsession

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/ledger"
	"github.com/ledgerline/ledgerline/internal/normalize"
	"github.com/ledgerline/ledgerline/internal/tabular"
)

type fakeGateway struct {
	inserted [][]normalize.Draft
	err      error
}

func (f *fakeGateway) BulkInsert(_ context.Context, userID string, drafts []normalize.Draft) ([]ledger.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.inserted = append(f.inserted, drafts)

	txs := make([]ledger.Transaction, len(drafts))
	for i, d := range drafts {
		txs[i] = ledger.Transaction{
			ID:          uuid.New(),
			UserID:      userID,
			Date:        d.Date,
			Description: d.Description,
			Category:    d.Category,
			Amount:      d.Amount,
			Type:        d.Type,
		}
	}

	return txs, nil
}

func sampleTable() tabular.Table {
	return tabular.Table{
		Columns: []string{"Date", "Memo", "Amount"},
		Rows: []normalize.Row{
			{"Date": "2025-03-01", "Memo": "salary", "Amount": "100"},
			{"Date": "2025-03-02", "Memo": "groceries", "Amount": "-40"},
		},
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := NewSession("user-1")
	assert.Equal(t, StateMapping, s.State())

	s.LoadTable(sampleTable())
	assert.Equal(t, StateMapping, s.State())
	assert.Equal(t, []string{"Date", "Memo", "Amount"}, s.Columns())
	assert.Equal(t, 2, s.Rows())

	require.NoError(t, s.SetMapping("date", "Date"))
	require.NoError(t, s.SetMapping("description", "Memo"))
	require.NoError(t, s.SetMapping("amount", "Amount"))
	assert.Error(t, s.SetMapping("balance", "Amount"))

	s.ApplyMapping()
	assert.Equal(t, StateReady, s.State())

	drafts := s.Drafts()
	require.Len(t, drafts, 2)
	assert.Equal(t, "salary", drafts[0].Description)
	assert.Equal(t, ledger.Income, drafts[0].Type)
	assert.Equal(t, ledger.Expense, drafts[1].Type)
	assert.True(t, drafts[1].Amount.Equal(decimal.NewFromInt(40)))
}

func TestSessionSubmitRequiresReady(t *testing.T) {
	s := NewSession("user-1")
	s.LoadTable(sampleTable())

	_, err := s.Submit(context.Background(), &fakeGateway{})
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestSessionSubmitResetsOnSuccess(t *testing.T) {
	gw := &fakeGateway{}

	s := NewSession("user-1")
	s.LoadTable(sampleTable())
	require.NoError(t, s.SetMapping("amount", "Amount"))
	s.ApplyMapping()

	inserted, err := s.Submit(context.Background(), gw)
	require.NoError(t, err)
	assert.Len(t, inserted, 2)

	require.Len(t, gw.inserted, 1)
	assert.Len(t, gw.inserted[0], 2)

	// back to a clean mapping state, ready for a new file
	assert.Equal(t, StateMapping, s.State())
	assert.Equal(t, 0, s.Rows())
	assert.Empty(t, s.Drafts())
}

func TestSessionSubmitKeepsStateOnFailure(t *testing.T) {
	gw := &fakeGateway{err: errors.New("store unavailable")}

	s := NewSession("user-1")
	s.LoadTable(sampleTable())
	require.NoError(t, s.SetMapping("amount", "Amount"))
	s.ApplyMapping()

	_, err := s.Submit(context.Background(), gw)
	require.Error(t, err)

	// state untouched so the user can retry
	assert.Equal(t, StateReady, s.State())
	assert.Len(t, s.Drafts(), 2)
}

func TestSessionApplyEmptyTable(t *testing.T) {
	s := NewSession("user-1")
	s.ApplyMapping()

	assert.Equal(t, StateReady, s.State())
	assert.Empty(t, s.Drafts())

	gw := &fakeGateway{}
	inserted, err := s.Submit(context.Background(), gw)
	require.NoError(t, err)
	assert.Empty(t, inserted)
}

func TestSessionLoadResetsReadyState(t *testing.T) {
	s := NewSession("user-1")
	s.LoadTable(sampleTable())
	require.NoError(t, s.SetMapping("amount", "Amount"))
	s.ApplyMapping()
	require.Equal(t, StateReady, s.State())

	s.LoadTable(sampleTable())
	assert.Equal(t, StateMapping, s.State())
	assert.Empty(t, s.Drafts())
}

func TestManagerOwnership(t *testing.T) {
	m := NewManager()

	s := m.Create("user-1")

	got, err := m.Get(s.ID, "user-1")
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = m.Get(s.ID, "user-2")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = m.Get(uuid.New(), "user-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerPruneIdle(t *testing.T) {
	m := NewManager()

	current := time.Now()
	m.now = func() time.Time { return current }

	stale := m.Create("user-1")
	fresh := m.Create("user-1")

	// age only the stale session
	current = current.Add(time.Hour)
	fresh.touch()

	pruned := m.PruneIdle(30 * time.Minute)
	assert.Equal(t, 1, pruned)
	assert.Equal(t, 1, m.Len())

	_, err := m.Get(stale.ID, "user-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(fresh.ID, "user-1")
	assert.NoError(t, err)
}
