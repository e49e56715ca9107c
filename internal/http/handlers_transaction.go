package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// writeDataError maps data-layer errors onto fragment responses.
func writeDataError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyCategory):
		NewHTMXResponse().Error(http.StatusUnprocessableEntity, err.Error()).Write(w)
	case errors.Is(err, core.ErrNotFound):
		NewHTMXResponse().Error(http.StatusNotFound, "transaction not found").Write(w)
	default:
		NewHTMXResponse().Error(http.StatusInternalServerError, "something went wrong").Write(w)
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "parse form failed", "error", err, "path", r.URL.Path)
		NewHTMXResponse().Error(http.StatusBadRequest, "invalid request format").Write(w)
		return
	}

	params := storage.CreateTransactionParams{
		Type:     strings.TrimSpace(r.Form.Get("type")),
		Category: sanitizeInput(r.Form.Get("category")),
		Amount:   strings.TrimSpace(r.Form.Get("amount")),
		Date:     strings.TrimSpace(r.Form.Get("date")),
		Currency: strings.TrimSpace(r.Form.Get("currency")),
	}
	if notes := sanitizeInput(r.Form.Get("notes")); notes != "" {
		params.Notes = &notes
	}

	id, err := s.store.CreateTransaction(r.Context(), s.userID, params)
	if err != nil {
		slog.ErrorContext(r.Context(), "create transaction failed", "error", err, "type", params.Type, "date", params.Date)
		writeDataError(w, err)
		return
	}

	slog.InfoContext(r.Context(), "transaction recorded", "id", id, "type", params.Type, "date", params.Date)
	NewHTMXResponse().
		TriggerChanged().
		Success("Transaction added!").
		Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	body := newBodyParser(r)
	if body.err != nil {
		slog.ErrorContext(r.Context(), "parse body failed", "error", body.err, "path", r.URL.Path)
		NewHTMXResponse().Error(http.StatusBadRequest, "invalid request format").Write(w)
		return
	}

	id, ok := parseID(body.Get("id"))
	if !ok {
		NewHTMXResponse().Error(http.StatusBadRequest, "missing or invalid id").Write(w)
		return
	}

	var update storage.TransactionUpdate
	supplied := 0
	for _, f := range []struct {
		key string
		dst **string
	}{
		{"type", &update.Type},
		{"category", &update.Category},
		{"amount", &update.Amount},
		{"date", &update.Date},
		{"notes", &update.Notes},
		{"currency", &update.Currency},
	} {
		if body.Has(f.key) {
			v := body.Get(f.key)
			*f.dst = &v
			supplied++
		}
	}
	if supplied == 0 {
		NewHTMXResponse().Error(http.StatusBadRequest, "no fields supplied").Write(w)
		return
	}

	affected, err := s.store.UpdateTransaction(r.Context(), id, update)
	if err != nil {
		slog.ErrorContext(r.Context(), "update transaction failed", "error", err, "id", id)
		writeDataError(w, err)
		return
	}
	if affected == 0 {
		NewHTMXResponse().Error(http.StatusNotFound, "transaction not found").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerChanged().
		Success("Transaction updated!").
		Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		methodNotAllowed(w, "POST, DELETE")
		return
	}

	rawID := r.URL.Query().Get("id")
	if rawID == "" {
		body := newBodyParser(r)
		if body.err == nil {
			rawID = body.Get("id")
		}
	}
	id, ok := parseID(rawID)
	if !ok {
		NewHTMXResponse().Error(http.StatusBadRequest, "missing or invalid id").Write(w)
		return
	}

	affected, err := s.store.DeleteTransaction(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "delete transaction failed", "error", err, "id", id)
		writeDataError(w, err)
		return
	}
	if affected == 0 {
		NewHTMXResponse().Error(http.StatusNotFound, "transaction not found").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerChanged().
		Success("Transaction deleted.").
		Write(w)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	filter := storage.ListFilter{
		UserID:    s.userID,
		StartDate: strings.TrimSpace(q.Get("start_date")),
		EndDate:   strings.TrimSpace(q.Get("end_date")),
		Type:      strings.TrimSpace(q.Get("type")),
		Category:  sanitizeInput(q.Get("category")),
	}
	if limit, ok := parseID(q.Get("limit")); ok {
		filter.Limit = int(limit)
	}
	if offset, ok := parseID(q.Get("offset")); ok {
		filter.Offset = int(offset)
	}

	rows, err := s.store.ListTransactions(r.Context(), filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "list transactions failed", "error", err)
		NewHTMXResponse().Error(http.StatusInternalServerError, "failed to load transactions").Write(w)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ Transactions []transactionVM }{Transactions: toVMs(rows)}
	if err := s.templates.ExecuteTemplate(w, "transaction_list.html", data); err != nil {
		slog.ErrorContext(r.Context(), "transaction list template failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleEditTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	id, ok := parseID(r.URL.Query().Get("id"))
	if !ok {
		NewHTMXResponse().Error(http.StatusBadRequest, "missing or invalid id").Write(w)
		return
	}

	row, err := s.store.GetTransaction(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "get transaction failed", "error", err, "id", id)
		writeDataError(w, err)
		return
	}

	// Raw values for form inputs; category empty (not the display label)
	// when the row is uncategorized.
	data := struct {
		ID       int64
		Date     string
		Type     string
		Category string
		Amount   string
		Currency string
		Notes    string
	}{
		ID:       row.ID,
		Date:     row.Date,
		Type:     string(row.Type),
		Amount:   core.FormatAmount(row.AmountCents),
		Currency: row.Currency,
	}
	if row.CategoryName != nil {
		data.Category = *row.CategoryName
	}
	if row.Notes != nil {
		data.Notes = *row.Notes
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "transaction_edit.html", data); err != nil {
		slog.ErrorContext(r.Context(), "transaction edit template failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
