package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ledgerline/ledgerline/internal/importsession"
	"github.com/ledgerline/ledgerline/internal/normalize"
	"github.com/ledgerline/ledgerline/internal/tabular"
)

// maxUploadBytes caps the in-memory portion of a multipart upload.
const maxUploadBytes = 32 << 20

// ImportHandler drives the import session lifecycle over HTTP: create a
// session, upload a file, assign the column mapping, apply it, preview the
// drafts and submit them.
type ImportHandler struct {
	sessions *importsession.Manager
	gateway  Gateway
	log      zerolog.Logger
}

func NewImportHandler(sessions *importsession.Manager, gateway Gateway, log zerolog.Logger) *ImportHandler {
	return &ImportHandler{sessions: sessions, gateway: gateway, log: log}
}

type sessionResponse struct {
	ID      string   `json:"id"`
	State   string   `json:"state"`
	Columns []string `json:"columns"`
	Rows    int      `json:"rows"`
	Drafts  int      `json:"drafts"`
}

func describe(s *importsession.Session) sessionResponse {
	columns := s.Columns()
	if columns == nil {
		columns = []string{}
	}

	return sessionResponse{
		ID:      s.ID.String(),
		State:   s.State().String(),
		Columns: columns,
		Rows:    s.Rows(),
		Drafts:  len(s.Drafts()),
	}
}

// Create handles POST /api/import/sessions
func (h *ImportHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Create(UserID(r.Context()))
	WriteData(w, http.StatusCreated, describe(s))
}

// session resolves the {sessionID} path parameter to the caller's session.
func (h *ImportHandler) session(w http.ResponseWriter, r *http.Request) *importsession.Session {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		WriteError(w, http.StatusNotFound, "Import session not found")
		return nil
	}

	s, err := h.sessions.Get(id, UserID(r.Context()))
	if err != nil {
		WriteError(w, http.StatusNotFound, "Import session not found")
		return nil
	}

	return s
}

// UploadFile handles POST /api/import/sessions/{sessionID}/file
func (h *ImportHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "A file is required")
		return
	}
	defer file.Close()

	table, err := tabular.Parse(header.Filename, file)
	if err != nil {
		h.log.Warn().Err(err).Str("filename", header.Filename).Msg("Failed to parse uploaded file")
		WriteError(w, http.StatusBadRequest, "Could not parse file")
		return
	}

	s.LoadTable(*table)

	WriteData(w, http.StatusOK, describe(s))
}

// SetMapping handles PUT /api/import/sessions/{sessionID}/mapping
func (h *ImportHandler) SetMapping(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	var req struct {
		Mapping   map[string]string `json:"mapping"`
		AccountID string            `json:"accountId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	for field, column := range req.Mapping {
		if err := s.SetMapping(field, column); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if accountID, err := uuid.Parse(req.AccountID); err == nil {
		s.SetAccount(accountID)
	}

	WriteData(w, http.StatusOK, describe(s))
}

// Apply handles POST /api/import/sessions/{sessionID}/apply
func (h *ImportHandler) Apply(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	s.ApplyMapping()

	WriteData(w, http.StatusOK, describe(s))
}

// Preview handles GET /api/import/sessions/{sessionID}/preview
func (h *ImportHandler) Preview(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	drafts := s.Drafts()
	if drafts == nil {
		drafts = []normalize.Draft{}
	}

	WriteData(w, http.StatusOK, drafts)
}

// Submit handles POST /api/import/sessions/{sessionID}/submit
func (h *ImportHandler) Submit(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	inserted, err := s.Submit(r.Context(), h.gateway)
	if errors.Is(err, importsession.ErrNotReady) {
		WriteError(w, http.StatusConflict, "Mapping has not been applied")
		return
	} else if err != nil {
		h.log.Error().Err(err).Msg("Failed to submit import session")
		WriteError(w, http.StatusInternalServerError, "Failed to import transactions")
		return
	}

	WriteData(w, http.StatusOK, inserted)
}
