package drivers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gerakita/busadmin/internal/activitylog"
	"github.com/gerakita/busadmin/internal/auth"
	"github.com/gerakita/busadmin/internal/telemetry/tracing"
	"github.com/gerakita/busadmin/pkg"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

type Handler struct {
	repo     driverRepo
	activity *activitylog.Recorder
	validate *validator.Validate
}

func NewHandler(repo driverRepo, activity *activitylog.Recorder) *Handler {
	return &Handler{
		repo:     repo,
		activity: activity,
		validate: validator.New(),
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/drivers", handler.HandleList).Methods("GET", "OPTIONS").Name("list-drivers")
	mainRouter.HandleFunc("/drivers/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-driver")
	mainRouter.HandleFunc("/drivers/{id}", handler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-driver")
	mainRouter.HandleFunc("/drivers/{id}/bus", handler.HandleAssignBus).Methods("PUT", "OPTIONS").Name("assign-driver-bus")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "driversHandler.list")
	defer span.End()

	all, err := handler.repo.All(ctx, r.URL.Query().Get("search"))
	if err != nil {
		log.Errorf("list drivers: %s", err)
		span.SetStatus(codes.Error, "list-failed")
		http.Error(w, "failed to list drivers", http.StatusInternalServerError)
		return
	}

	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSON(w, http.StatusOK, map[string]interface{}{"drivers": all})
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	driverID := mux.Vars(r)["id"]
	driver, err := handler.repo.Get(r.Context(), driverID)
	if errors.Is(err, ErrDriverNotFound) {
		http.Error(w, "driver not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("get driver %s: %s", driverID, err)
		http.Error(w, "failed to get driver", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, driver)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "driversHandler.update")
	defer span.End()

	session, ok := auth.SessionFromContext(r.Context())
	if !ok || !session.Role.CanMutate() {
		span.SetStatus(codes.Error, "forbidden")
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var form DriverForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "error, invalid driver payload", http.StatusBadRequest)
		return
	}
	if err := handler.validate.Struct(form); err != nil {
		http.Error(w, "error, invalid driver: "+err.Error(), http.StatusBadRequest)
		return
	}

	driverID := mux.Vars(r)["id"]
	if err := handler.repo.Update(ctx, driverID, form); err != nil {
		if errors.Is(err, ErrDriverNotFound) {
			http.Error(w, "driver not found", http.StatusNotFound)
			return
		}
		log.Errorf("update driver %s: %s", driverID, err)
		span.SetStatus(codes.Error, "update-failed")
		http.Error(w, "failed to update driver", http.StatusInternalServerError)
		return
	}

	handler.recordActivity(r, session, "update", driverID, map[string]interface{}{
		"full_name":    form.FullName,
		"email":        form.Email,
		"phone_number": form.PhoneNumber,
		"bus_id":       form.BusID,
	})

	span.SetStatus(codes.Ok, "ok")
	pkg.WriteTextResponseOK(w, "updated:"+driverID)
}

func (handler *Handler) HandleAssignBus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "driversHandler.assignBus")
	defer span.End()

	session, ok := auth.SessionFromContext(r.Context())
	if !ok || !session.Role.CanMutate() {
		span.SetStatus(codes.Error, "forbidden")
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	type assignRequest struct {
		BusID *string `json:"bus_id" validate:"omitempty,uuid"`
	}
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "error, invalid payload", http.StatusBadRequest)
		return
	}
	if err := handler.validate.Struct(req); err != nil {
		http.Error(w, "error, invalid bus id", http.StatusBadRequest)
		return
	}

	driverID := mux.Vars(r)["id"]
	if err := handler.repo.AssignBus(ctx, driverID, req.BusID); err != nil {
		if errors.Is(err, ErrDriverNotFound) {
			http.Error(w, "driver not found", http.StatusNotFound)
			return
		}
		if pkg.IsForeignKeyViolationError(err) {
			http.Error(w, "error, bus does not exist", http.StatusBadRequest)
			return
		}
		log.Errorf("assign bus to driver %s: %s", driverID, err)
		span.SetStatus(codes.Error, "assign-failed")
		http.Error(w, "failed to assign bus", http.StatusInternalServerError)
		return
	}

	handler.recordActivity(r, session, "assign_bus", driverID, map[string]interface{}{
		"bus_id": req.BusID,
	})

	span.SetStatus(codes.Ok, "ok")
	pkg.WriteTextResponseOK(w, "updated:"+driverID)
}

func (handler *Handler) recordActivity(
	r *http.Request,
	session *auth.Session,
	action, driverID string,
	newValues map[string]interface{},
) {
	userIP, err := pkg.ReadUserIP(r)
	if err != nil {
		userIP = ""
	}
	handler.activity.Record(r.Context(), activitylog.Entry{
		AdminID:      session.AdminID,
		Action:       action,
		ResourceType: "driver",
		ResourceID:   driverID,
		NewValues:    newValues,
		IPAddress:    userIP,
		UserAgent:    r.Header.Get("User-Agent"),
	})
}
