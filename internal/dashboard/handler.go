package dashboard

import (
	"net/http"

	"github.com/gerakita/busadmin/internal/telemetry/tracing"
	"github.com/gerakita/busadmin/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/dashboard/stats", handler.HandleStats).Methods("GET", "OPTIONS").Name("dashboard-stats")
}

func (handler *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "dashboardHandler.stats")
	defer span.End()

	stats, err := handler.service.Stats(ctx)
	if err != nil {
		log.Errorf("dashboard stats: %s", err)
		span.SetStatus(codes.Error, "stats-failed")
		http.Error(w, "failed to get dashboard stats", http.StatusInternalServerError)
		return
	}

	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSON(w, http.StatusOK, stats)
}
