package http

import (
	"log/slog"
	"net/http"
	"time"

	"fintrack/internal/storage"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	year, month := parseYearMonth(r)
	ctx := r.Context()

	totals, err := s.store.MonthlyTotals(ctx, s.userID, year, month)
	if err != nil {
		slog.ErrorContext(ctx, "monthly totals failed", "error", err, "year", year, "month", month)
		http.Error(w, "failed to load summary", http.StatusInternalServerError)
		return
	}

	start, end := storage.MonthRange(year, month)
	breakdown, err := s.store.CategoryBreakdown(ctx, s.userID, start, end)
	if err != nil {
		slog.ErrorContext(ctx, "category breakdown failed", "error", err, "year", year, "month", month)
		http.Error(w, "failed to load summary", http.StatusInternalServerError)
		return
	}

	daily, err := s.store.DailyExpenseTotals(ctx, s.userID, year, month)
	if err != nil {
		slog.ErrorContext(ctx, "daily totals failed", "error", err, "year", year, "month", month)
		http.Error(w, "failed to load summary", http.StatusInternalServerError)
		return
	}

	type breakdownRow struct {
		Name   string
		Amount string
	}
	rows := make([]breakdownRow, len(breakdown))
	for i, b := range breakdown {
		rows[i] = breakdownRow{Name: b.Name, Amount: formatDollars(b.Cents)}
	}

	prevYear, prevMonth := year, month-1
	if prevMonth < 1 {
		prevYear, prevMonth = year-1, 12
	}
	nextYear, nextMonth := year, month+1
	if nextMonth > 12 {
		nextYear, nextMonth = year+1, 1
	}

	data := struct {
		Year      int
		Month     int
		MonthName string
		Income    string
		Expense   string
		Breakdown []breakdownRow
		HasPie    bool
		HasDaily  bool
		PrevYear  int
		PrevMonth int
		NextYear  int
		NextMonth int
	}{
		Year:      year,
		Month:     month,
		MonthName: time.Month(month).String(),
		Income:    totals.Income,
		Expense:   totals.Expense,
		Breakdown: rows,
		HasPie:    len(breakdown) > 0,
		HasDaily:  len(daily) >= 2,
		PrevYear:  prevYear,
		PrevMonth: prevMonth,
		NextYear:  nextYear,
		NextMonth: nextMonth,
	}

	if err := s.templates.ExecuteTemplate(w, "summary.html", data); err != nil {
		slog.ErrorContext(ctx, "summary template failed", "error", err, "year", year, "month", month)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleChartPie(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	year, month := parseYearMonth(r)
	start, end := storage.MonthRange(year, month)

	breakdown, err := s.store.CategoryBreakdown(r.Context(), s.userID, start, end)
	if err != nil {
		slog.ErrorContext(r.Context(), "category breakdown failed", "error", err, "year", year, "month", month)
		http.Error(w, "failed to build chart", http.StatusInternalServerError)
		return
	}

	s.writeChart(w, r, func() ([]byte, error) { return s.charts.CategoryPie(breakdown) })
}

func (s *Server) handleChartDaily(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	year, month := parseYearMonth(r)
	daily, err := s.store.DailyExpenseTotals(r.Context(), s.userID, year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "daily totals failed", "error", err, "year", year, "month", month)
		http.Error(w, "failed to build chart", http.StatusInternalServerError)
		return
	}

	s.writeChart(w, r, func() ([]byte, error) { return s.charts.DailyExpenseLine(daily) })
}

// writeChart renders a chart and writes it as PNG, or 204 when the
// dataset has nothing to draw.
func (s *Server) writeChart(w http.ResponseWriter, r *http.Request, render func() ([]byte, error)) {
	img, err := render()
	if err != nil {
		slog.ErrorContext(r.Context(), "chart render failed", "error", err)
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}
	if img == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(img)
}
