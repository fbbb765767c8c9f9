package buses

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

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
	repo     busRepo
	activity *activitylog.Recorder
	validate *validator.Validate
}

func NewHandler(repo busRepo, activity *activitylog.Recorder) *Handler {
	return &Handler{
		repo:     repo,
		activity: activity,
		validate: validator.New(),
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/buses", handler.HandleList).Methods("GET", "OPTIONS").Name("list-buses")
	mainRouter.HandleFunc("/buses", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-bus")
	mainRouter.HandleFunc("/buses/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-bus")
	mainRouter.HandleFunc("/buses/{id}", handler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-bus")
	mainRouter.HandleFunc("/buses/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-bus")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "busesHandler.list")
	defer span.End()

	filters := ListFilters{
		Status:  Status(r.URL.Query().Get("status")),
		RouteID: r.URL.Query().Get("route_id"),
		Search:  r.URL.Query().Get("search"),
	}
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			http.Error(w, "error, page invalid", http.StatusBadRequest)
			return
		}
		filters.Page = page
	}
	if filters.Status != "" && !filters.Status.Valid() {
		http.Error(w, "error, status invalid", http.StatusBadRequest)
		return
	}

	all, total, err := handler.repo.List(ctx, filters)
	if err != nil {
		log.Errorf("list buses: %s", err)
		span.SetStatus(codes.Error, "list-failed")
		http.Error(w, "failed to list buses", http.StatusInternalServerError)
		return
	}

	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"buses": all,
		"total": total,
	})
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	busID := mux.Vars(r)["id"]
	bus, err := handler.repo.Get(r.Context(), busID)
	if errors.Is(err, ErrBusNotFound) {
		http.Error(w, "bus not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("get bus %s: %s", busID, err)
		http.Error(w, "failed to get bus", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, bus)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "busesHandler.add")
	defer span.End()

	session, ok := requireMutator(w, r)
	if !ok {
		span.SetStatus(codes.Error, "forbidden")
		return
	}

	form, ok := handler.decodeForm(w, r)
	if !ok {
		span.SetStatus(codes.Error, "bad-form")
		return
	}

	bus := &Bus{
		BusNumber:      form.BusNumber,
		RouteID:        form.RouteID,
		TotalSeats:     form.TotalSeats,
		AvailableSeats: form.TotalSeats,
		Status:         form.Status,
	}
	if err := handler.repo.Add(ctx, bus); err != nil {
		if pkg.IsUniqueViolationError(err) {
			http.Error(w, "bus number already exists", http.StatusConflict)
			return
		}
		log.Errorf("add bus [%s]: %s", form.BusNumber, err)
		span.SetStatus(codes.Error, "add-failed")
		http.Error(w, "failed to add bus", http.StatusInternalServerError)
		return
	}

	handler.recordActivity(r, session, "create", bus.ID, nil, busValues(bus))

	log.Printf("new bus added: [%s] %s", bus.BusNumber, bus.ID)
	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSON(w, http.StatusCreated, bus)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "busesHandler.update")
	defer span.End()

	session, ok := requireMutator(w, r)
	if !ok {
		span.SetStatus(codes.Error, "forbidden")
		return
	}

	form, ok := handler.decodeForm(w, r)
	if !ok {
		span.SetStatus(codes.Error, "bad-form")
		return
	}

	busID := mux.Vars(r)["id"]
	old, err := handler.repo.Get(ctx, busID)
	if errors.Is(err, ErrBusNotFound) {
		http.Error(w, "bus not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("get bus %s before update: %s", busID, err)
		http.Error(w, "failed to update bus", http.StatusInternalServerError)
		return
	}

	if err := handler.repo.Update(ctx, busID, form); err != nil {
		log.Errorf("update bus %s: %s", busID, err)
		span.SetStatus(codes.Error, "update-failed")
		http.Error(w, "failed to update bus", http.StatusInternalServerError)
		return
	}

	handler.recordActivity(r, session, "update", busID, busValues(&old.Bus), map[string]interface{}{
		"bus_number":  form.BusNumber,
		"route_id":    form.RouteID,
		"total_seats": form.TotalSeats,
		"status":      form.Status,
	})

	span.SetStatus(codes.Ok, "ok")
	pkg.WriteTextResponseOK(w, "updated:"+busID)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "busesHandler.delete")
	defer span.End()

	session, ok := requireMutator(w, r)
	if !ok {
		span.SetStatus(codes.Error, "forbidden")
		return
	}

	busID := mux.Vars(r)["id"]
	if err := handler.repo.Delete(ctx, busID); err != nil {
		if errors.Is(err, ErrBusNotFound) {
			http.Error(w, "bus not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete bus %s: %s", busID, err)
		span.SetStatus(codes.Error, "delete-failed")
		http.Error(w, "failed to delete bus", http.StatusInternalServerError)
		return
	}

	handler.recordActivity(r, session, "delete", busID, nil, nil)

	span.SetStatus(codes.Ok, "ok")
	pkg.WriteTextResponseOK(w, "deleted:"+busID)
}

func (handler *Handler) decodeForm(w http.ResponseWriter, r *http.Request) (BusForm, bool) {
	var form BusForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "error, invalid bus payload", http.StatusBadRequest)
		return form, false
	}

	// form defaults, same as the dashboard create form
	if form.TotalSeats == 0 {
		form.TotalSeats = 40
	}
	if form.Status == "" {
		form.Status = StatusAvailable
	}

	if err := handler.validate.Struct(form); err != nil {
		http.Error(w, "error, invalid bus: "+err.Error(), http.StatusBadRequest)
		return form, false
	}
	return form, true
}

func (handler *Handler) recordActivity(
	r *http.Request,
	session *auth.Session,
	action, busID string,
	oldValues, newValues map[string]interface{},
) {
	userIP, err := pkg.ReadUserIP(r)
	if err != nil {
		userIP = ""
	}
	handler.activity.Record(r.Context(), activitylog.Entry{
		AdminID:      session.AdminID,
		Action:       action,
		ResourceType: "bus",
		ResourceID:   busID,
		OldValues:    oldValues,
		NewValues:    newValues,
		IPAddress:    userIP,
		UserAgent:    r.Header.Get("User-Agent"),
	})
}

func busValues(bus *Bus) map[string]interface{} {
	return map[string]interface{}{
		"bus_number":  bus.BusNumber,
		"route_id":    bus.RouteID,
		"total_seats": bus.TotalSeats,
		"status":      bus.Status,
	}
}

// requireMutator rejects viewer sessions: the whole fleet surface is
// read-only for them
func requireMutator(w http.ResponseWriter, r *http.Request) (*auth.Session, bool) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok || !session.Role.CanMutate() {
		http.Error(w, "forbidden", http.StatusForbidden)
		return nil, false
	}
	return session, true
}
