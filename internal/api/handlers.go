package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/zametki/internal/apperr"
	"github.com/starford/zametki/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// writeReport responds with the report, or 404 with notFound when it is empty.
func writeReport(w http.ResponseWriter, report, notFound string) {
	if report == "" {
		writeJSON(w, http.StatusNotFound, errorBody(notFound))
		return
	}
	writeJSON(w, http.StatusOK, ReportResponse{Report: report})
}

// ListNotes handles GET /api/notes.
//
//	@Summary		Render every note
//	@Tags			notes
//	@Produce		json
//	@Success		200	{object}	ReportResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.ListAll(r.Context())
	if err != nil {
		writeError(w, "list notes", err)
		return
	}
	writeReport(w, report, "no notes")
}

// ListTitles handles GET /api/notes/titles.
//
//	@Summary		List note titles, one per line
//	@Tags			notes
//	@Produce		json
//	@Success		200	{object}	ReportResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/titles [get]
func (h *Handler) ListTitles(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.ListTitles(r.Context())
	if err != nil {
		writeError(w, "list titles", err)
		return
	}
	writeReport(w, report, "no notes")
}

// GetNote handles GET /api/notes/{id}.
//
//	@Summary		Render a single note by id
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		int	true	"Note id"
//	@Success		200	{object}	ReportResponse
//	@Failure		400	{object}	errResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, err := noteservice.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get note", err)
		return
	}
	report, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, "get note", err)
		return
	}
	writeReport(w, report, fmt.Sprintf("note %d not found", id))
}

// CreateNote handles POST /api/notes.
//
//	@Summary		Create a new note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateNoteRequest	true	"Note to create"
//	@Success		201		{object}	Note
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	note, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeError(w, "create note", err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// Search handles GET /api/search.
//
//	@Summary		Search notes by exact title, exact date or keyword
//	@Tags			search
//	@Produce		json
//	@Param			title	query		string	false	"Exact title"
//	@Param			date	query		string	false	"Exact date (DD.MM.YYYY HH:MM)"
//	@Param			keyword	query		string	false	"Whole word in the note text"
//	@Success		200		{object}	ReportResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var mode, value string
	for _, m := range noteservice.Modes {
		if !q.Has(m) {
			continue
		}
		if mode != "" {
			writeError(w, "search", fmt.Errorf("%w: exactly one of title, date, keyword is allowed", apperr.ErrInvalidInput))
			return
		}
		mode, value = m, q.Get(m)
	}
	if mode == "" {
		writeError(w, "search", fmt.Errorf("%w: one of title, date, keyword is required", apperr.ErrInvalidInput))
		return
	}

	report, err := h.svc.Search(r.Context(), mode, value)
	if err != nil {
		writeError(w, "search", err)
		return
	}
	writeReport(w, report, "nothing found")
}
