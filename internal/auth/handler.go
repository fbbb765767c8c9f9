package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gerakita/busadmin/internal/activitylog"
	"github.com/gerakita/busadmin/internal/telemetry/metrics"
	"github.com/gerakita/busadmin/internal/telemetry/tracing"
	"github.com/gerakita/busadmin/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

type Handler struct {
	verifier *Verifier
	sessions *SessionManager
	activity *activitylog.Recorder
	metrics  *metrics.Manager
}

func NewHandler(
	verifier *Verifier,
	sessions *SessionManager,
	activity *activitylog.Recorder,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		verifier: verifier,
		sessions: sessions,
		activity: activity,
		metrics:  metricsManager,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router, middlewares ...mux.MiddlewareFunc) {
	authRouter := mainRouter.NewRoute().Subrouter()
	authRouter.HandleFunc(LoginPath, handler.handleLogin).Methods("POST", "OPTIONS").Name("login")
	authRouter.HandleFunc("/logout", handler.handleLogout).Methods("GET", "POST", "OPTIONS").Name("logout")

	// typically the login rate limiter, to prevent abuse
	for _, mw := range middlewares {
		authRouter.Use(mw)
	}
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	type loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var loginReq loginRequest
	jsonRequest := strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
	if jsonRequest {
		if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
			log.Errorf("login, unmarshal json params: %s", err)
			http.Error(w, "Login failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("login failed, parse form error: %s", err)
			http.Error(w, "Login failed", http.StatusBadRequest)
			return
		}
		loginReq = loginRequest{
			Email:    r.Form.Get("email"),
			Password: r.Form.Get("password"),
		}
	}

	account, err := handler.verifier.Verify(r.Context(), loginReq.Email, loginReq.Password)
	if err != nil {
		handler.metrics.CounterFailedLogins.Inc()
		span.SetStatus(codes.Error, "login-failed")

		switch {
		case errors.Is(err, ErrAccountDeactivated):
			log.Tracef("login attempt for deactivated account: %s", loginReq.Email)
			http.Error(w, "Account is deactivated", http.StatusForbidden)
		case errors.Is(err, ErrInvalidCredentials):
			log.Tracef("failed login attempt for: %s", loginReq.Email)
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		default:
			log.Errorf("login for %s: %s", loginReq.Email, err)
			http.Error(w, "Login failed", http.StatusInternalServerError)
		}
		return
	}

	session, err := handler.sessions.Issue(w, account)
	if err != nil {
		log.Errorf("login failed, issue session: %s", err)
		span.SetStatus(codes.Error, "issue-session-failed")
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterLogins.Inc()
	handler.recordActivity(r, session, "login", "admin_session")

	log.Tracef("new login success: %s", account.Email)
	span.SetStatus(codes.Ok, "ok")

	if jsonRequest {
		pkg.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
		return
	}
	http.Redirect(w, r, HomePath, http.StatusSeeOther)
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	// read the session before clearing the cookie, for the audit trail
	if session, err := handler.sessions.Validate(r); err == nil {
		handler.recordActivity(r, session, "logout", "admin_session")
		log.Tracef("logout for %s", session.Email)
	}

	handler.sessions.Revoke(w)
	span.SetStatus(codes.Ok, "ok")
	http.Redirect(w, r, LoginPath, http.StatusFound)
}

func (handler *Handler) recordActivity(r *http.Request, session *Session, action, resourceType string) {
	userIP, err := pkg.ReadUserIP(r)
	if err != nil {
		userIP = ""
	}
	handler.activity.Record(r.Context(), activitylog.Entry{
		AdminID:      session.AdminID,
		Action:       action,
		ResourceType: resourceType,
		IPAddress:    userIP,
		UserAgent:    r.Header.Get("User-Agent"),
	})
}
