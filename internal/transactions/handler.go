package transactions

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gerakita/busadmin/internal/telemetry/tracing"
	"github.com/gerakita/busadmin/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

type Handler struct {
	repo transactionRepo

	// NowFunc is swapped in tests, real callers leave it nil
	NowFunc func() time.Time
}

func NewHandler(repo transactionRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/transactions", handler.HandleList).Methods("GET", "OPTIONS").Name("list-transactions")
	mainRouter.HandleFunc("/transactions/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-transaction")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "transactionsHandler.list")
	defer span.End()

	filters := ListFilters{
		Status: PaymentStatus(r.URL.Query().Get("status")),
		Method: r.URL.Query().Get("method"),
		Search: r.URL.Query().Get("search"),
	}
	if filters.Status != "" && !filters.Status.Valid() {
		http.Error(w, "error, status invalid", http.StatusBadRequest)
		return
	}
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			http.Error(w, "error, page invalid", http.StatusBadRequest)
			return
		}
		filters.Page = page
	}

	view := r.URL.Query().Get("view")
	if view == "" {
		view = "daily"
	}
	from, ok := handler.viewStart(view)
	if !ok {
		http.Error(w, "error, view invalid", http.StatusBadRequest)
		return
	}
	filters.From = from

	all, summary, err := handler.repo.List(ctx, filters)
	if err != nil {
		log.Errorf("list transactions: %s", err)
		span.SetStatus(codes.Error, "list-failed")
		http.Error(w, "failed to list transactions", http.StatusInternalServerError)
		return
	}

	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": all,
		"summary":      summary,
	})
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	txID := mux.Vars(r)["id"]
	tx, err := handler.repo.Get(r.Context(), txID)
	if errors.Is(err, ErrTransactionNotFound) {
		http.Error(w, "transaction not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("get transaction %s: %s", txID, err)
		http.Error(w, "failed to get transaction", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, tx)
}

// viewStart maps the dashboard view tabs to a window start:
// today, start of month, start of year; "all" lifts the window.
func (handler *Handler) viewStart(view string) (time.Time, bool) {
	now := time.Now()
	if handler.NowFunc != nil {
		now = handler.NowFunc()
	}

	switch view {
	case "daily":
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), true
	case "monthly":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true
	case "yearly":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), true
	case "all":
		return time.Time{}, true
	}
	return time.Time{}, false
}
