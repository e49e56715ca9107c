package http

import (
	"log/slog"
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

const indexListLimit = 20

// transactionVM is the template-facing shape of a transaction row.
type transactionVM struct {
	ID       int64
	Date     string
	Type     string
	Category string
	Amount   string
	Currency string
	Notes    string
}

func toVM(row core.TransactionRow) transactionVM {
	vm := transactionVM{
		ID:       row.ID,
		Date:     row.Date,
		Type:     string(row.Type),
		Category: core.UncategorizedLabel,
		Amount:   formatDollars(row.AmountCents),
		Currency: row.Currency,
	}
	if row.CategoryName != nil {
		vm.Category = *row.CategoryName
	}
	if row.Notes != nil {
		vm.Notes = *row.Notes
	}
	return vm
}

func toVMs(rows []core.TransactionRow) []transactionVM {
	out := make([]transactionVM, len(rows))
	for i, row := range rows {
		out[i] = toVM(row)
	}
	return out
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "templates not loaded", "path", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	rows, err := s.store.ListTransactions(r.Context(), storage.ListFilter{
		UserID: s.userID,
		Limit:  indexListLimit,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "list transactions failed", "error", err)
		http.Error(w, "failed to load transactions", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	data := struct {
		Today        string
		Year         int
		Month        int
		Transactions []transactionVM
	}{
		Today:        now.Format(core.DateLayout),
		Year:         now.Year(),
		Month:        int(now.Month()),
		Transactions: toVMs(rows),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "index template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
