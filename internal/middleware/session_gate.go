package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gerakita/busadmin/internal/auth"
	"github.com/gerakita/busadmin/internal/telemetry/metrics"
	"github.com/gerakita/busadmin/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

// SessionGate is the sole access-control enforcement point: every request
// to the main router passes it before any data fetching or rendering.
// No handler performs its own authentication check.
type SessionGate struct {
	sessions       *auth.SessionManager
	metrics        *metrics.Manager
	exemptPaths    map[string]bool
	exemptPrefixes []string
}

func NewSessionGate(
	sessions *auth.SessionManager,
	metricsManager *metrics.Manager,
) *SessionGate {
	return &SessionGate{
		sessions: sessions,
		metrics:  metricsManager,
		exemptPaths: map[string]bool{
			"/healthz":     true,
			"/favicon.ico": true,
		},
		exemptPrefixes: []string{
			"/static/",
		},
	}
}

func (g *SessionGate) pathIsExempt(path string) bool {
	if g.exemptPaths[path] {
		return true
	}
	for _, prefix := range g.exemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (g *SessionGate) Check() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.sessionGate")
			defer span.End()

			if r.Method == http.MethodOptions {
				span.SetStatus(codes.Ok, "options-ok")
				next.ServeHTTP(w, r)
				return
			}

			if g.pathIsExempt(r.URL.Path) {
				span.SetStatus(codes.Ok, "exempt")
				next.ServeHTTP(w, r)
				return
			}

			session, err := g.sessions.Validate(r)
			onLoginPath := strings.HasPrefix(r.URL.Path, auth.LoginPath)

			if err != nil {
				switch {
				case errors.Is(err, auth.ErrExpiredSession):
					log.Tracef("[expired session] [session gate] => %s", r.URL.Path)
					g.sessions.Revoke(w)
				case errors.Is(err, auth.ErrMalformedSession):
					log.Tracef("[malformed session] [session gate] => %s", r.URL.Path)
				}

				if onLoginPath {
					span.SetStatus(codes.Ok, "anonymous-login-ok")
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}

				g.metrics.CounterSessionsRejected.Inc()
				span.SetStatus(codes.Error, "not-authenticated")
				http.Redirect(w, r, auth.LoginPath, http.StatusFound)
				return
			}

			// already authenticated admins have no business on the login form
			if onLoginPath {
				span.SetStatus(codes.Ok, "already-authenticated")
				http.Redirect(w, r, auth.HomePath, http.StatusFound)
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.ContextWithSession(ctx, session)))
		})
	}
}
