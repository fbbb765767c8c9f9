package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

const (
	SessionCookieName = "admin_session"
	DefaultTTL        = 24 * time.Hour
)

var (
	ErrNoSession        = errors.New("no session")
	ErrMalformedSession = errors.New("malformed session")
	ErrExpiredSession   = errors.New("expired session")
)

// Session is the client-held credential: "admin X is authenticated until
// ExpiresAt". It is fully self-contained, nothing is stored server-side.
type Session struct {
	AdminID   string `json:"adminId"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	Role      Role   `json:"role"`
	ExpiresAt int64  `json:"expiresAt"` // unix epoch millis
}

func (s *Session) ExpiresAtTime() time.Time {
	return time.UnixMilli(s.ExpiresAt)
}

// SessionManager issues and validates the admin session cookie. The cookie
// value is base64url(json payload) "." base64url(hmac-sha256 signature);
// a token failing the signature check counts as malformed.
type SessionManager struct {
	secret        []byte
	ttl           time.Duration
	secureCookies bool
	// ability to inject time func (for unit testing)
	NowFunc func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration, secureCookies bool) *SessionManager {
	return &SessionManager{
		secret:        []byte(secret),
		ttl:           ttl,
		secureCookies: secureCookies,
		NowFunc:       time.Now,
	}
}

// Issue mints a session for the account and sets the session cookie
func (sm *SessionManager) Issue(w http.ResponseWriter, account *AdminAccount) (*Session, error) {
	session := &Session{
		AdminID:   account.ID,
		Email:     account.Email,
		FullName:  account.FullName,
		Role:      account.Role,
		ExpiresAt: sm.NowFunc().Add(sm.ttl).UnixMilli(),
	}

	token, err := sm.Encode(session)
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sm.ttl.Seconds()),
		HttpOnly: true,
		Secure:   sm.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})

	return session, nil
}

// Validate reads and checks the session cookie of the request.
// Missing cookie -> ErrNoSession, bad signature or unparsable payload ->
// ErrMalformedSession, past expiry -> ErrExpiredSession.
func (sm *SessionManager) Validate(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, ErrNoSession
	}
	return sm.Decode(cookie.Value)
}

// Revoke expires the session cookie unconditionally. There is no
// server-side state to clean up.
func (sm *SessionManager) Revoke(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sm.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (sm *SessionManager) Encode(session *Session) (string, error) {
	payload, err := json.Marshal(session)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(payload) +
		"." +
		base64.RawURLEncoding.EncodeToString(sm.sign(payload)), nil
}

func (sm *SessionManager) Decode(token string) (*Session, error) {
	payloadPart, sigPart, found := strings.Cut(token, ".")
	if !found {
		return nil, ErrMalformedSession
	}

	payload, err := base64.RawURLEncoding.DecodeString(payloadPart)
	if err != nil {
		return nil, ErrMalformedSession
	}
	sig, err := base64.RawURLEncoding.DecodeString(sigPart)
	if err != nil {
		return nil, ErrMalformedSession
	}
	if !hmac.Equal(sig, sm.sign(payload)) {
		return nil, ErrMalformedSession
	}

	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, ErrMalformedSession
	}

	if session.ExpiresAt <= sm.NowFunc().UnixMilli() {
		return nil, ErrExpiredSession
	}

	return &session, nil
}

func (sm *SessionManager) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, sm.secret)
	mac.Write(payload)
	return mac.Sum(nil)
}
