package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gerakita/busadmin/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVerifier(t *testing.T, password string) (*Verifier, *TestRepo, *AdminAccount) {
	t.Helper()

	passwordHash, err := pkg.HashPassword(password)
	require.NoError(t, err)

	account := testAdminAccount()
	account.PasswordHash = passwordHash

	repo := NewTestRepo(account)
	return NewVerifier(repo), repo, account
}

func TestVerifier_Verify(t *testing.T) {
	ctx := context.Background()
	password := "Password26!"
	verifier, _, account := testVerifier(t, password)

	acc, err := verifier.Verify(ctx, account.Email, password)
	require.NoError(t, err)
	assert.Equal(t, account.ID, acc.ID)
	assert.Equal(t, account.Email, acc.Email)
	assert.Equal(t, account.Role, acc.Role)
}

func TestVerifier_Verify_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	verifier, _, _ := testVerifier(t, "Password26!")

	// unknown email is indistinguishable from a wrong password
	_, err := verifier.Verify(ctx, "nobody@gerakita.com", "Password26!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifier_Verify_WrongPassword(t *testing.T) {
	ctx := context.Background()
	verifier, _, account := testVerifier(t, "Password26!")

	for name, password := range map[string]string{
		"empty":        "",
		"wrong":        "hunter2",
		"one char off": "Password26?",
		"case changed": "password26!",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := verifier.Verify(ctx, account.Email, password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestVerifier_Verify_EmptyEmail(t *testing.T) {
	ctx := context.Background()
	verifier, _, _ := testVerifier(t, "Password26!")

	_, err := verifier.Verify(ctx, "", "Password26!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifier_Verify_DeactivatedAccount(t *testing.T) {
	ctx := context.Background()
	password := "Password26!"
	verifier, repo, account := testVerifier(t, password)

	deactivated, err := repo.FindByEmail(ctx, account.Email)
	require.NoError(t, err)
	deactivated.IsActive = false
	repo.accounts[deactivated.Email] = deactivated

	_, err = verifier.Verify(ctx, account.Email, password)
	assert.ErrorIs(t, err, ErrAccountDeactivated)

	// deactivation wins even over a wrong password
	_, err = verifier.Verify(ctx, account.Email, "wrong password")
	assert.ErrorIs(t, err, ErrAccountDeactivated)
}

func TestVerifier_Verify_LookupFailure(t *testing.T) {
	ctx := context.Background()
	verifier, repo, account := testVerifier(t, "Password26!")
	repo.FindErr = errors.New("connection refused")

	_, err := verifier.Verify(ctx, account.Email, "Password26!")
	assert.ErrorIs(t, err, ErrLookupFailed)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifier_Verify_UpdatesLastLogin(t *testing.T) {
	ctx := context.Background()
	password := "Password26!"
	verifier, repo, account := testVerifier(t, password)

	loginTime := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	verifier.NowFunc = func() time.Time { return loginTime }

	_, err := verifier.Verify(ctx, account.Email, password)
	require.NoError(t, err)

	stored, err := repo.FindByEmail(ctx, account.Email)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLogin)
	assert.True(t, stored.LastLogin.Equal(loginTime))
}

func TestVerifier_Verify_LastLoginFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	password := "Password26!"
	verifier, repo, account := testVerifier(t, password)
	repo.UpdateLastLoginErr = errors.New("write timeout")

	// a failed last-login update must never fail the login itself
	acc, err := verifier.Verify(ctx, account.Email, password)
	require.NoError(t, err)
	assert.Equal(t, account.ID, acc.ID)
}
