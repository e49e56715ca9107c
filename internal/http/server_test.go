package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/charts"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// fakeStore is an in-memory Store double that records calls and serves
// canned rows.
type fakeStore struct {
	rows      []core.TransactionRow
	totals    core.MonthTotals
	breakdown []core.CategoryTotal
	daily     []core.DailyTotal

	created    []storage.CreateTransactionParams
	createErr  error
	updated    map[int64]storage.TransactionUpdate
	updateN    int64
	deleteN    int64
	lastFilter storage.ListFilter
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		totals:  core.MonthTotals{Income: "0.00", Expense: "0.00"},
		updated: make(map[int64]storage.TransactionUpdate),
	}
}

func (f *fakeStore) CreateTransaction(ctx context.Context, userID int64, p storage.CreateTransactionParams) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	if _, err := core.ParseType(p.Type); err != nil {
		return 0, err
	}
	if _, err := core.ParseAmount(p.Amount); err != nil {
		return 0, err
	}
	if err := core.ValidateDate(p.Date); err != nil {
		return 0, err
	}
	f.created = append(f.created, p)
	return int64(len(f.created)), nil
}

func (f *fakeStore) GetTransaction(ctx context.Context, id int64) (*core.TransactionRow, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			return &f.rows[i], nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeStore) ListTransactions(ctx context.Context, filter storage.ListFilter) ([]core.TransactionRow, error) {
	f.lastFilter = filter
	return f.rows, nil
}

func (f *fakeStore) UpdateTransaction(ctx context.Context, id int64, u storage.TransactionUpdate) (int64, error) {
	if u.Type != nil {
		if _, err := core.ParseType(*u.Type); err != nil {
			return 0, err
		}
	}
	f.updated[id] = u
	return f.updateN, nil
}

func (f *fakeStore) DeleteTransaction(ctx context.Context, id int64) (int64, error) {
	return f.deleteN, nil
}

func (f *fakeStore) MonthlyTotals(ctx context.Context, userID int64, year, month int) (core.MonthTotals, error) {
	return f.totals, nil
}

func (f *fakeStore) CategoryBreakdown(ctx context.Context, userID int64, startDate, endDate string) ([]core.CategoryTotal, error) {
	return f.breakdown, nil
}

func (f *fakeStore) DailyExpenseTotals(ctx context.Context, userID int64, year, month int) ([]core.DailyTotal, error) {
	return f.daily, nil
}

func newTestServer(store Store) *Server {
	return NewServer(":0", store, charts.NewGenerator(), 1)
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func postForm(t *testing.T, srv *Server, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestIndexAndHealth(t *testing.T) {
	salary := "Salary"
	store := newFakeStore()
	store.rows = []core.TransactionRow{
		{
			Transaction: core.Transaction{
				ID: 1, UserID: 1, Type: core.TypeIncome,
				AmountCents: 250000, Currency: "USD", Date: "2025-10-01",
			},
			CategoryName: &salary,
		},
	}
	srv := newTestServer(store)

	rr := get(t, srv, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Finance Tracker")
	assert.Contains(t, rr.Body.String(), "Salary")
	assert.Contains(t, rr.Body.String(), "$2500.00")
	assert.EqualValues(t, 1, store.lastFilter.UserID)
	assert.Equal(t, indexListLimit, store.lastFilter.Limit)

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := get(t, srv, path)
		assert.Equal(t, http.StatusOK, rr.Code, path)
	}

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/nope").Code)
}

func TestCreateTransaction(t *testing.T) {
	store := newFakeStore()
	srv := newTestServer(store)

	// Wrong method.
	assert.Equal(t, http.StatusMethodNotAllowed, get(t, srv, "/transactions").Code)

	// Invalid type.
	rr := postForm(t, srv, "/transactions", url.Values{
		"type": {"savings"}, "amount": {"10.00"}, "date": {"2025-10-01"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Empty(t, store.created)

	// Invalid amount.
	rr = postForm(t, srv, "/transactions", url.Values{
		"type": {"expense"}, "amount": {"abc"}, "date": {"2025-10-01"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	// Invalid date.
	rr = postForm(t, srv, "/transactions", url.Values{
		"type": {"expense"}, "amount": {"10.00"}, "date": {"Oct 1"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	// Success.
	rr = postForm(t, srv, "/transactions", url.Values{
		"type": {"expense"}, "amount": {"120.45"}, "date": {"2025-10-02"},
		"category": {"Groceries"}, "notes": {"weekly shop"},
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Transaction added!")
	assert.Contains(t, rr.Header().Get("HX-Trigger"), "transactions:changed")
	require.Len(t, store.created, 1)
	assert.Equal(t, "Groceries", store.created[0].Category)
	require.NotNil(t, store.created[0].Notes)
	assert.Equal(t, "weekly shop", *store.created[0].Notes)
}

func TestUpdateTransaction(t *testing.T) {
	store := newFakeStore()
	store.updateN = 1
	srv := newTestServer(store)

	// No fields besides id.
	rr := postForm(t, srv, "/transactions/update", url.Values{"id": {"3"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Missing id.
	rr = postForm(t, srv, "/transactions/update", url.Values{"notes": {"x"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Invalid type bubbles up as 422.
	rr = postForm(t, srv, "/transactions/update", url.Values{"id": {"3"}, "type": {"savings"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	// Success: only supplied fields reach the store; empty category means
	// "clear", so it must still be forwarded.
	rr = postForm(t, srv, "/transactions/update", url.Values{
		"id": {"3"}, "category": {""}, "notes": {"updated"},
	})
	require.Equal(t, http.StatusOK, rr.Code)
	u := store.updated[3]
	require.NotNil(t, u.Category)
	assert.Equal(t, "", *u.Category)
	require.NotNil(t, u.Notes)
	assert.Equal(t, "updated", *u.Notes)
	assert.Nil(t, u.Type)
	assert.Nil(t, u.Amount)
	assert.Nil(t, u.Date)

	// Unknown id.
	store.updateN = 0
	rr = postForm(t, srv, "/transactions/update", url.Values{"id": {"99"}, "notes": {"x"}})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteTransaction(t *testing.T) {
	store := newFakeStore()
	store.deleteN = 1
	srv := newTestServer(store)

	rr := postForm(t, srv, "/transactions/delete?id=5", url.Values{})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "deleted")

	// Id in the body works too.
	rr = postForm(t, srv, "/transactions/delete", url.Values{"id": {"5"}})
	assert.Equal(t, http.StatusOK, rr.Code)

	store.deleteN = 0
	rr = postForm(t, srv, "/transactions/delete?id=99", url.Values{})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = postForm(t, srv, "/transactions/delete", url.Values{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListTransactionsPartial(t *testing.T) {
	store := newFakeStore()
	srv := newTestServer(store)

	rr := get(t, srv, "/ui/transactions?start_date=2025-10-01&end_date=2025-10-31&type=expense&limit=5&offset=10")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No transactions yet.")

	assert.Equal(t, storage.ListFilter{
		UserID:    1,
		StartDate: "2025-10-01",
		EndDate:   "2025-10-31",
		Type:      "expense",
		Limit:     5,
		Offset:    10,
	}, store.lastFilter)
}

func TestEditTransactionPartial(t *testing.T) {
	store := newFakeStore()
	store.rows = []core.TransactionRow{
		{
			Transaction: core.Transaction{
				ID: 7, UserID: 1, Type: core.TypeExpense,
				AmountCents: 12045, Currency: "USD", Date: "2025-10-02",
			},
		},
	}
	srv := newTestServer(store)

	rr := get(t, srv, "/ui/transaction?id=7")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `value="120.45"`)
	assert.Contains(t, rr.Body.String(), `value="2025-10-02"`)

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/ui/transaction?id=8").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/ui/transaction").Code)
}

func TestSummaryPage(t *testing.T) {
	store := newFakeStore()
	store.totals = core.MonthTotals{Income: "2500.00", Expense: "1700.00"}
	store.breakdown = []core.CategoryTotal{
		{Name: "Rent", Cents: 170000},
		{Name: core.UncategorizedLabel, Cents: 999},
	}
	store.daily = []core.DailyTotal{
		{Date: "2025-10-01", Cents: 170000},
		{Date: "2025-10-02", Cents: 999},
	}
	srv := newTestServer(store)

	rr := get(t, srv, "/summary?year=2025&month=10")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "October 2025")
	assert.Contains(t, body, "$2500.00")
	assert.Contains(t, body, "$1700.00")
	assert.Contains(t, body, "Rent")
	assert.Contains(t, body, core.UncategorizedLabel)
	assert.Contains(t, body, "/chart/pie?year=2025")
	assert.Contains(t, body, "/chart/daily?year=2025")
}

func TestChartEndpoints(t *testing.T) {
	store := newFakeStore()
	srv := newTestServer(store)

	// Nothing to draw.
	assert.Equal(t, http.StatusNoContent, get(t, srv, "/chart/pie?year=2025&month=10").Code)
	assert.Equal(t, http.StatusNoContent, get(t, srv, "/chart/daily?year=2025&month=10").Code)

	store.breakdown = []core.CategoryTotal{{Name: "Rent", Cents: 170000}}
	store.daily = []core.DailyTotal{
		{Date: "2025-10-01", Cents: 300},
		{Date: "2025-10-02", Cents: 500},
	}

	rr := get(t, srv, "/chart/pie?year=2025&month=10")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rr.Body.String(), "\x89PNG"))

	rr = get(t, srv, "/chart/daily?year=2025&month=10")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(newFakeStore())

	rr := get(t, srv, "/")
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rr.Header().Get("Content-Security-Policy"))
}
