package auth

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAdminAccount() *AdminAccount {
	return &AdminAccount{
		ID:       "6e2bdfa2-43ae-4f9c-b24c-64e558423f45",
		Email:    "admin@gerakita.com",
		FullName: "Gerakita Admin",
		Role:     RoleSuperAdmin,
		IsActive: true,
	}
}

func TestSessionManager_IssueValidate(t *testing.T) {
	now := time.Date(2025, 2, 14, 10, 30, 0, 0, time.UTC)
	sm := NewSessionManager("test-secret", DefaultTTL, false)
	sm.NowFunc = func() time.Time { return now }

	account := testAdminAccount()
	rr := httptest.NewRecorder()
	issued, err := sm.Issue(rr, account)
	require.NoError(t, err)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 86400, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)

	req := httptest.NewRequest("GET", "/buses", nil)
	req.AddCookie(cookie)
	session, err := sm.Validate(req)
	require.NoError(t, err)

	assert.Equal(t, account.ID, session.AdminID)
	assert.Equal(t, account.Email, session.Email)
	assert.Equal(t, account.FullName, session.FullName)
	assert.Equal(t, account.Role, session.Role)
	assert.Equal(t, now.Add(DefaultTTL).UnixMilli(), session.ExpiresAt)
	assert.Equal(t, issued.ExpiresAt, session.ExpiresAt)
}

func TestSessionManager_SecureCookiesInProduction(t *testing.T) {
	sm := NewSessionManager("test-secret", DefaultTTL, true)
	rr := httptest.NewRecorder()
	_, err := sm.Issue(rr, testAdminAccount())
	require.NoError(t, err)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
}

func TestSessionManager_Validate_NoCookie(t *testing.T) {
	sm := NewSessionManager("test-secret", DefaultTTL, false)
	req := httptest.NewRequest("GET", "/buses", nil)
	_, err := sm.Validate(req)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionManager_Validate_Expired(t *testing.T) {
	sm := NewSessionManager("test-secret", DefaultTTL, false)

	rr := httptest.NewRecorder()
	_, err := sm.Issue(rr, testAdminAccount())
	require.NoError(t, err)
	cookie := rr.Result().Cookies()[0]

	// jump past the expiry
	sm.NowFunc = func() time.Time {
		return time.Now().Add(DefaultTTL + time.Minute)
	}

	req := httptest.NewRequest("GET", "/buses", nil)
	req.AddCookie(cookie)
	_, err = sm.Validate(req)
	assert.ErrorIs(t, err, ErrExpiredSession)
}

func TestSessionManager_Decode_Malformed(t *testing.T) {
	sm := NewSessionManager("test-secret", DefaultTTL, false)

	validToken, err := sm.Encode(&Session{
		AdminID:   "some-id",
		Email:     "admin@gerakita.com",
		Role:      RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour).UnixMilli(),
	})
	require.NoError(t, err)

	payloadPart, sigPart, found := strings.Cut(validToken, ".")
	require.True(t, found)

	notJSON := base64.RawURLEncoding.EncodeToString([]byte("not json at all"))

	for name, token := range map[string]string{
		"empty":             "",
		"no separator":      payloadPart,
		"garbage":           "i am not a session cookie",
		"bad base64":        "???!!!." + sigPart,
		"swapped parts":     sigPart + "." + payloadPart,
		"payload not json":  notJSON + "." + sigPart,
		"tampered payload":  payloadPart + "x." + sigPart,
		"truncated sig":     payloadPart + "." + sigPart[:len(sigPart)-4],
		"foreign signature": payloadPart + "." + base64.RawURLEncoding.EncodeToString([]byte("bad signature")),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := sm.Decode(token)
			assert.ErrorIs(t, err, ErrMalformedSession)
		})
	}
}

func TestSessionManager_Decode_WrongSecret(t *testing.T) {
	sm := NewSessionManager("test-secret", DefaultTTL, false)
	other := NewSessionManager("other-secret", DefaultTTL, false)

	token, err := other.Encode(&Session{
		AdminID:   "some-id",
		ExpiresAt: time.Now().Add(time.Hour).UnixMilli(),
	})
	require.NoError(t, err)

	_, err = sm.Decode(token)
	assert.ErrorIs(t, err, ErrMalformedSession)
}

func TestSessionManager_Revoke(t *testing.T) {
	sm := NewSessionManager("test-secret", DefaultTTL, false)

	rr := httptest.NewRecorder()
	sm.Revoke(rr)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, -1, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
}

func TestSession_ExpiresAtTime(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := &Session{ExpiresAt: at.UnixMilli()}
	assert.True(t, s.ExpiresAtTime().Equal(at))
}
