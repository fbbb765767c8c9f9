package transactions

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)

func testTransaction(code string, status PaymentStatus, amount float64, createdAt time.Time) TransactionWithDetails {
	return TransactionWithDetails{
		Transaction: Transaction{
			ID:              uuid.NewString(),
			UserID:          uuid.NewString(),
			TransactionCode: code,
			RouteID:         uuid.NewString(),
			Amount:          amount,
			Quantity:        1,
			PaymentMethod:   "wallet",
			PaymentStatus:   status,
			CreatedAt:       createdAt,
		},
	}
}

func setupTransactionsRouterForTests(t *testing.T, repo transactionRepo) *mux.Router {
	t.Helper()

	handler := NewHandler(repo)
	handler.NowFunc = func() time.Time { return testNow }

	r := mux.NewRouter()
	handler.SetupRoutes(r)
	return r
}

func listTransactions(t *testing.T, r *mux.Router, target string) ([]TransactionWithDetails, Summary) {
	t.Helper()

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", target, nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Transactions []TransactionWithDetails `json:"transactions"`
		Summary      Summary                  `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Transactions, resp.Summary
}

func TestTransactionsHandler_HandleList_Views(t *testing.T) {
	repo := NewTestRepo(
		testTransaction("TRX-001", PaymentCompleted, 15000, testNow.Add(-time.Hour)),
		testTransaction("TRX-002", PaymentPending, 30000, testNow.Add(-2*time.Hour)),
		testTransaction("TRX-003", PaymentCompleted, 20000, testNow.AddDate(0, 0, -3)),
		testTransaction("TRX-004", PaymentCompleted, 50000, testNow.AddDate(0, -2, 0)),
		testTransaction("TRX-005", PaymentFailed, 10000, testNow.AddDate(-2, 0, 0)),
	)
	r := setupTransactionsRouterForTests(t, repo)

	// default view is daily
	all, summary := listTransactions(t, r, "/transactions")
	assert.Len(t, all, 2)
	assert.Equal(t, Summary{Total: 2, Completed: 1, Revenue: 15000}, summary)

	all, summary = listTransactions(t, r, "/transactions?view=monthly")
	assert.Len(t, all, 3)
	assert.Equal(t, Summary{Total: 3, Completed: 2, Revenue: 35000}, summary)

	all, summary = listTransactions(t, r, "/transactions?view=yearly")
	assert.Len(t, all, 4)
	assert.Equal(t, Summary{Total: 4, Completed: 3, Revenue: 85000}, summary)

	all, summary = listTransactions(t, r, "/transactions?view=all")
	assert.Len(t, all, 5)
	assert.Equal(t, Summary{Total: 5, Completed: 3, Revenue: 85000}, summary)
}

func TestTransactionsHandler_HandleList_Filters(t *testing.T) {
	completed := testTransaction("TRX-010", PaymentCompleted, 15000, testNow.Add(-time.Hour))
	pending := testTransaction("TRX-011", PaymentPending, 30000, testNow.Add(-time.Hour))
	r := setupTransactionsRouterForTests(t, NewTestRepo(completed, pending))

	all, _ := listTransactions(t, r, "/transactions?status=pending")
	require.Len(t, all, 1)
	assert.Equal(t, "TRX-011", all[0].TransactionCode)

	all, _ = listTransactions(t, r, "/transactions?search=trx-010")
	require.Len(t, all, 1)
	assert.Equal(t, "TRX-010", all[0].TransactionCode)

	// search also covers the payment method
	all, _ = listTransactions(t, r, "/transactions?search=wallet")
	assert.Len(t, all, 2)
}

func TestTransactionsHandler_HandleList_BadParams(t *testing.T) {
	r := setupTransactionsRouterForTests(t, NewTestRepo())

	for name, target := range map[string]string{
		"bad view":   "/transactions?view=hourly",
		"bad status": "/transactions?status=paid",
		"bad page":   "/transactions?page=x",
	} {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest("GET", target, nil))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestTransactionsHandler_HandleGet(t *testing.T) {
	tx := testTransaction("TRX-020", PaymentCompleted, 15000, testNow.Add(-time.Hour))
	tx.Tickets = []Ticket{
		{
			ID:            uuid.NewString(),
			TransactionID: tx.ID,
			TicketCode:    "TKT-001",
			QRCodeData:    "qr-data",
			Status:        TicketActive,
			ValidUntil:    testNow.Add(24 * time.Hour),
		},
	}
	r := setupTransactionsRouterForTests(t, NewTestRepo(tx))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/transactions/"+tx.ID, nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var got TransactionWithDetails
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, tx.ID, got.ID)
	require.Len(t, got.Tickets, 1)
	assert.Equal(t, "TKT-001", got.Tickets[0].TicketCode)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/transactions/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
