package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gerakita/busadmin/internal/auth"
	"github.com/gerakita/busadmin/internal/telemetry/metrics"
	"github.com/gerakita/busadmin/pkg"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGatedRouterForTests(
	t *testing.T,
	sessions *auth.SessionManager,
	metricsManager *metrics.Manager,
) *mux.Router {
	t.Helper()

	r := mux.NewRouter()

	// stand-ins for the real handlers, the gate does not care
	r.HandleFunc(auth.LoginPath, func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, "login form")
	}).Methods("GET", "POST", "OPTIONS")
	r.HandleFunc("/buses/{id}", func(w http.ResponseWriter, r *http.Request) {
		session, ok := auth.SessionFromContext(r.Context())
		require.True(t, ok, "session missing from request context")
		pkg.WriteTextResponseOK(w, "bus for "+session.Email)
	}).Methods("GET", "OPTIONS")
	r.HandleFunc("/transactions", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, "transactions")
	}).Methods("GET", "OPTIONS")
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, "ok")
	}).Methods("GET")
	r.PathPrefix("/static/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, "static asset")
	}).Methods("GET")
	r.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	sessionGate := NewSessionGate(sessions, metricsManager)

	// the same setup as in Server.routerSetup() ... these are not so much of a "unit" tests
	r.Use(PanicRecovery(metricsManager))
	r.Use(LogRequest())
	r.Use(RequestMetrics(metricsManager))
	r.Use(Cors())
	r.Use(sessionGate.Check())
	r.Use(DrainAndCloseRequest())

	return r
}

func issueSessionCookie(t *testing.T, sessions *auth.SessionManager) *http.Cookie {
	t.Helper()

	rr := httptest.NewRecorder()
	_, err := sessions.Issue(rr, &auth.AdminAccount{
		ID:       "6e2bdfa2-43ae-4f9c-b24c-64e558423f45",
		Email:    "admin@gerakita.com",
		FullName: "Gerakita Admin",
		Role:     auth.RoleAdmin,
		IsActive: true,
	})
	require.NoError(t, err)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestSessionGate_NoSessionRedirectsToLogin(t *testing.T) {
	sessions := auth.NewSessionManager("test-secret", auth.DefaultTTL, false)
	r := setupGatedRouterForTests(t, sessions, metrics.NewTestManager())

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/transactions", nil)
	req.Header.Set("Origin", "test")

	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, auth.LoginPath, rr.Header().Get("Location"))
}

func TestSessionGate_UnknownDeepPathStillGated(t *testing.T) {
	sessions := auth.NewSessionManager("test-secret", auth.DefaultTTL, false)
	r := setupGatedRouterForTests(t, sessions, metrics.NewTestManager())

	// anonymous request to a path no handler owns, the gate answers first
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/foo/bar/baz", nil)
	req.Header.Set("Origin", "test")

	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, auth.LoginPath, rr.Header().Get("Location"))

	// with a session the same path is just a 404
	rr = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/foo/bar/baz", nil)
	req.Header.Set("Origin", "test")
	req.AddCookie(issueSessionCookie(t, sessions))

	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSessionGate_ValidSessionPassesThrough(t *testing.T) {
	sessions := auth.NewSessionManager("test-secret", auth.DefaultTTL, false)
	r := setupGatedRouterForTests(t, sessions, metrics.NewTestManager())
	cookie := issueSessionCookie(t, sessions)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/buses/42", nil)
	req.Header.Set("Origin", "test")
	req.AddCookie(cookie)

	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "bus for admin@gerakita.com", rr.Body.String())
}

func TestSessionGate_AuthenticatedLoginPathRedirectsHome(t *testing.T) {
	sessions := auth.NewSessionManager("test-secret", auth.DefaultTTL, false)
	r := setupGatedRouterForTests(t, sessions, metrics.NewTestManager())
	cookie := issueSessionCookie(t, sessions)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", auth.LoginPath, nil)
	req.Header.Set("Origin", "test")
	req.AddCookie(cookie)

	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, auth.HomePath, rr.Header().Get("Location"))
}

func TestSessionGate_AnonymousLoginPathAllowed(t *testing.T) {
	sessions := auth.NewSessionManager("test-secret", auth.DefaultTTL, false)
	r := setupGatedRouterForTests(t, sessions, metrics.NewTestManager())

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", auth.LoginPath, nil)
	req.Header.Set("Origin", "test")

	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "login form", rr.Body.String())
}

func TestSessionGate_ExpiredSessionClearedAndRedirected(t *testing.T) {
	sessions := auth.NewSessionManager("test-secret", auth.DefaultTTL, false)
	r := setupGatedRouterForTests(t, sessions, metrics.NewTestManager())
	cookie := issueSessionCookie(t, sessions)

	// jump past the expiry
	sessions.NowFunc = func() time.Time {
		return time.Now().Add(auth.DefaultTTL + time.Minute)
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/transactions", nil)
	req.Header.Set("Origin", "test")
	req.AddCookie(cookie)

	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, auth.LoginPath, rr.Header().Get("Location"))

	// the stale cookie gets dropped on the way out
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestSessionGate_MalformedSessionRedirectsToLogin(t *testing.T) {
	sessions := auth.NewSessionManager("test-secret", auth.DefaultTTL, false)
	r := setupGatedRouterForTests(t, sessions, metrics.NewTestManager())

	for name, cookieValue := range map[string]string{
		"garbage":       "definitely-not-a-session",
		"wrong secret":  mintWithSecret(t, "other-secret"),
		"empty":         "",
		"just a dot":    ".",
		"no signature":  "eyJhZG1pbklkIjoieCJ9",
		"bad signature": "eyJhZG1pbklkIjoieCJ9.AAAA",
	} {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/transactions", nil)
			req.Header.Set("Origin", "test")
			req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: cookieValue})

			r.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusFound, rr.Code)
			assert.Equal(t, auth.LoginPath, rr.Header().Get("Location"))
		})
	}
}

func mintWithSecret(t *testing.T, secret string) string {
	t.Helper()

	other := auth.NewSessionManager(secret, auth.DefaultTTL, false)
	token, err := other.Encode(&auth.Session{
		AdminID:   "some-id",
		Email:     "admin@gerakita.com",
		Role:      auth.RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour).UnixMilli(),
	})
	require.NoError(t, err)
	return token
}

func TestSessionGate_ExemptPaths(t *testing.T) {
	sessions := auth.NewSessionManager("test-secret", auth.DefaultTTL, false)
	r := setupGatedRouterForTests(t, sessions, metrics.NewTestManager())

	for name, path := range map[string]string{
		"healthz":       "/healthz",
		"static prefix": "/static/app.css",
	} {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest("GET", path, nil)
			req.Header.Set("Origin", "test")

			r.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusOK, rr.Code)
		})
	}
}

func TestSessionGate_OptionsRequestsPass(t *testing.T) {
	sessions := auth.NewSessionManager("test-secret", auth.DefaultTTL, false)
	r := setupGatedRouterForTests(t, sessions, metrics.NewTestManager())

	// CORS preflights carry no cookies and must not be redirected
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/transactions", nil)
	req.Header.Set("Origin", "test")

	r.ServeHTTP(rr, req)
	assert.NotEqual(t, http.StatusFound, rr.Code)
}
