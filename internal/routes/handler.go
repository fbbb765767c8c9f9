package routes

import (
	"errors"
	"net/http"

	"github.com/gerakita/busadmin/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Handler exposes the read-only route listings used by the fleet forms
type Handler struct {
	repo routesRepo
}

func NewHandler(repo routesRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/routes", handler.HandleList).Methods("GET", "OPTIONS").Name("list-routes")
	mainRouter.HandleFunc("/routes/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-route")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	all, err := handler.repo.All(r.Context())
	if err != nil {
		log.Errorf("list routes: %s", err)
		http.Error(w, "failed to list routes", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, map[string]interface{}{"routes": all})
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	route, err := handler.repo.Get(r.Context(), vars["id"])
	if errors.Is(err, ErrRouteNotFound) {
		http.Error(w, "route not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("get route %s: %s", vars["id"], err)
		http.Error(w, "failed to get route", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, route)
}
