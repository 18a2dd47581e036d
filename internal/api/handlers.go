package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ledgerline/ledgerline/internal/ledger"
	"github.com/ledgerline/ledgerline/internal/normalize"
	"github.com/ledgerline/ledgerline/internal/report"
)

// Gateway is the transaction store surface the handlers depend on.
// *ledgerstore.Store implements it.
type Gateway interface {
	CreateAccount(ctx context.Context, userID, name string) (*ledger.Account, error)
	ListAccounts(ctx context.Context, userID string) ([]ledger.Account, error)
	CreateTransaction(ctx context.Context, userID string, draft normalize.Draft) (*ledger.Transaction, error)
	BulkInsert(ctx context.Context, userID string, drafts []normalize.Draft) ([]ledger.Transaction, error)
	ListTransactions(ctx context.Context, userID string, page, limit int) ([]ledger.Transaction, error)
	Recent(ctx context.Context, userID string) ([]ledger.Transaction, error)
	All(ctx context.Context, userID string) ([]ledger.Transaction, error)
}

// AccountsHandler serves the account directory.
type AccountsHandler struct {
	gateway Gateway
	log     zerolog.Logger
}

func NewAccountsHandler(gateway Gateway, log zerolog.Logger) *AccountsHandler {
	return &AccountsHandler{gateway: gateway, log: log}
}

// List handles GET /api/accounts
func (h *AccountsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accounts, err := h.gateway.ListAccounts(ctx, UserID(ctx))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list accounts")
		WriteError(w, http.StatusInternalServerError, "Failed to list accounts")
		return
	}

	WriteData(w, http.StatusOK, accounts)
}

// Create handles POST /api/accounts
func (h *AccountsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Name string `json:"name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := h.gateway.CreateAccount(ctx, UserID(ctx), strings.TrimSpace(req.Name))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create account")
		WriteError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	WriteData(w, http.StatusCreated, account)
}

// draftRequest is the wire shape of one transaction draft. Every field is
// coerced permissively, mirroring the import normalizer.
type draftRequest struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      json.RawMessage `json:"amount"`
	Type        string          `json:"type"`
	AccountID   string          `json:"accountId"`
}

func (d draftRequest) toDraft(now time.Time) normalize.Draft {
	amount, _ := normalize.ParseAmount(rawToString(d.Amount))

	accountID := uuid.Nil
	if parsed, err := uuid.Parse(d.AccountID); err == nil {
		accountID = parsed
	}

	category := d.Category
	if category == "" {
		category = normalize.DefaultCategory
	}

	return normalize.Draft{
		Date:        normalize.ParseDate(d.Date, now),
		Description: d.Description,
		Category:    category,
		Amount:      amount.Abs(),
		Type:        ledger.ParseTransactionType(d.Type),
		AccountID:   accountID,
	}
}

// rawToString accepts both JSON numbers and strings for the amount field.
func rawToString(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if len(s) >= 2 && s[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(raw, &unquoted); err == nil {
			return unquoted
		}
	}

	return s
}

// TransactionsHandler serves transaction creation and queries.
type TransactionsHandler struct {
	gateway Gateway
	log     zerolog.Logger
	now     func() time.Time
}

func NewTransactionsHandler(gateway Gateway, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{gateway: gateway, log: log, now: time.Now}
}

// Create handles POST /api/transactions
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, err := h.gateway.CreateTransaction(ctx, UserID(ctx), req.toDraft(h.now()))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create transaction")
		WriteError(w, http.StatusInternalServerError, "Failed to create transaction")
		return
	}

	WriteData(w, http.StatusCreated, tx)
}

// BulkCreate handles POST /api/transactions/bulk
func (h *TransactionsHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var reqs []draftRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	now := h.now()
	drafts := make([]normalize.Draft, 0, len(reqs))
	for _, req := range reqs {
		drafts = append(drafts, req.toDraft(now))
	}

	inserted, err := h.gateway.BulkInsert(ctx, UserID(ctx), drafts)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to bulk insert transactions")
		WriteError(w, http.StatusInternalServerError, "Failed to import transactions")
		return
	}

	WriteData(w, http.StatusOK, inserted)
}

// List handles GET /api/transactions/list?page=&limit=
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	txs, err := h.gateway.ListTransactions(ctx, UserID(ctx), page, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		WriteError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	WriteData(w, http.StatusOK, txs)
}

// Recent handles GET /api/transactions/recent
func (h *TransactionsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	txs, err := h.gateway.Recent(ctx, UserID(ctx))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load recent transactions")
		WriteError(w, http.StatusInternalServerError, "Failed to load recent transactions")
		return
	}

	WriteData(w, http.StatusOK, txs)
}

// DashboardHandler computes the aggregation report on demand; nothing is
// cached between requests.
type DashboardHandler struct {
	gateway Gateway
	log     zerolog.Logger
}

func NewDashboardHandler(gateway Gateway, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{gateway: gateway, log: log}
}

// Report handles GET /api/dashboard
func (h *DashboardHandler) Report(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserID(ctx)

	txs, err := h.gateway.All(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load transactions for dashboard")
		WriteError(w, http.StatusInternalServerError, "Failed to build dashboard")
		return
	}

	accounts, err := h.gateway.ListAccounts(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load accounts for dashboard")
		WriteError(w, http.StatusInternalServerError, "Failed to build dashboard")
		return
	}

	WriteData(w, http.StatusOK, report.Aggregate(txs, accounts))
}
