package users

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gerakita/busadmin/internal/telemetry/tracing"
	"github.com/gerakita/busadmin/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

// Handler serves the passenger views. There are no mutating routes here,
// passenger accounts are managed from the mobile-facing API.
type Handler struct {
	repo userRepo
}

func NewHandler(repo userRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/users", handler.HandleList).Methods("GET", "OPTIONS").Name("list-users")
	mainRouter.HandleFunc("/users/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-user")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.list")
	defer span.End()

	filters := ListFilters{
		Search: r.URL.Query().Get("search"),
	}
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			http.Error(w, "error, page invalid", http.StatusBadRequest)
			return
		}
		filters.Page = page
	}

	all, total, err := handler.repo.List(ctx, filters)
	if err != nil {
		log.Errorf("list users: %s", err)
		span.SetStatus(codes.Error, "list-failed")
		http.Error(w, "failed to list users", http.StatusInternalServerError)
		return
	}

	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users": all,
		"total": total,
	})
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	user, err := handler.repo.Get(r.Context(), userID)
	if errors.Is(err, ErrUserNotFound) {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("get user %s: %s", userID, err)
		http.Error(w, "failed to get user", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, user)
}
