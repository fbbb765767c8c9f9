package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUsers(count int) []UserWithWallet {
	faker := gofakeit.New(2026)
	all := make([]UserWithWallet, 0, count)
	for i := 0; i < count; i++ {
		email := faker.Email()
		phone := faker.Phone()
		id := uuid.NewString()
		all = append(all, UserWithWallet{
			User: User{
				ID:          id,
				Email:       &email,
				PhoneNumber: &phone,
				FullName:    faker.Name(),
			},
			Wallet: &Wallet{
				UserID:  id,
				Balance: float64(faker.Number(0, 500_000)),
			},
		})
	}
	return all
}

func setupUsersRouterForTests(t *testing.T, repo userRepo) *mux.Router {
	t.Helper()

	r := mux.NewRouter()
	NewHandler(repo).SetupRoutes(r)
	return r
}

func TestUsersHandler_HandleList(t *testing.T) {
	all := testUsers(3)
	r := setupUsersRouterForTests(t, NewTestRepo(all...))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/users", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Users []UserWithWallet `json:"users"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Users, 3)
	require.NotNil(t, resp.Users[0].Wallet)
}

func TestUsersHandler_HandleList_ExcludesStaffAccounts(t *testing.T) {
	all := testUsers(2)
	staffEmail := "admin@gerakita.com"
	staff := testUsers(1)[0]
	staff.Email = &staffEmail
	all = append(all, staff)

	r := setupUsersRouterForTests(t, NewTestRepo(all...))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/users", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Users []UserWithWallet `json:"users"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	// staff accounts never show up in the passenger list
	assert.Equal(t, 2, resp.Total)
	for _, user := range resp.Users {
		require.NotNil(t, user.Email)
		assert.NotEqual(t, staffEmail, *user.Email)
	}
}

func TestUsersHandler_HandleList_Search(t *testing.T) {
	all := testUsers(3)
	all[1].FullName = "Siti Rahayu"
	r := setupUsersRouterForTests(t, NewTestRepo(all...))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/users?search=siti", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Users []UserWithWallet `json:"users"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Siti Rahayu", resp.Users[0].FullName)
}

func TestUsersHandler_HandleList_BadPage(t *testing.T) {
	r := setupUsersRouterForTests(t, NewTestRepo())

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/users?page=minus-one", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUsersHandler_HandleGet(t *testing.T) {
	all := testUsers(2)
	r := setupUsersRouterForTests(t, NewTestRepo(all...))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/users/"+all[0].ID, nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var user UserWithWallet
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
	assert.Equal(t, all[0].ID, user.ID)
	require.NotNil(t, user.Wallet)
	assert.Equal(t, all[0].Wallet.Balance, user.Wallet.Balance)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/users/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
