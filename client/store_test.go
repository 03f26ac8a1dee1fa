package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrm-access/models"
	"hrm-access/session"
	"hrm-access/token"
)

const testSecret = "test-secret-at-least-32-bytes-long!!"

// fakeBackend serves the credential endpoints with real signed tokens, so the
// store's local verification sees the same material a live backend would send.
type fakeBackend struct {
	codec *token.Codec

	// roles issued per accepted email
	accounts map[string][]string
	password string

	logoutStatus int
	logoutCalls  int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		codec: token.NewCodec(testSecret, time.Hour),
		accounts: map[string][]string{
			"alice@example.com": {"admin"},
			"bob@example.com":   {"employee"},
		},
		password:     "hunter22",
		logoutStatus: http.StatusOK,
	}
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		roles, ok := f.accounts[req.Email]
		if !ok || req.Password != f.password {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		access, err := f.codec.Sign("user-"+req.Email, "Test User", req.Email, roles)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		writeEnvelope(w, models.LoginResponse{
			AccessToken:  access,
			RefreshToken: "refresh-" + req.Email,
		})
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		f.logoutCalls++
		w.WriteHeader(f.logoutStatus)
		if f.logoutStatus == http.StatusOK {
			fmt.Fprint(w, `{"status":200,"message":"Logged out"}`)
		}
	})
	return mux
}

func writeEnvelope(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  http.StatusOK,
		"message": "OK",
		"data":    data,
	})
}

func newTestStore(t *testing.T, baseURL string, storage Storage) *Store {
	t.Helper()
	store, err := NewStore(Options{
		BaseURL:    baseURL,
		Secret:     testSecret,
		SessionTTL: time.Hour,
		Storage:    storage,
	})
	require.NoError(t, err)
	return store
}

func cookieValue(cookies []*http.Cookie, name string) (string, bool) {
	for _, c := range cookies {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

func TestRestoreWithEmptyStorage(t *testing.T) {
	store := newTestStore(t, "http://localhost", &MemoryStorage{})

	assert.Equal(t, StatusLoading, store.Status())
	store.Restore()
	assert.Equal(t, StatusUnauthenticated, store.Status())
	assert.Nil(t, store.Session())
}

func TestSignInPublishesSession(t *testing.T) {
	backend := newFakeBackend()
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	store := newTestStore(t, server.URL, &MemoryStorage{})
	store.Restore()

	roles, err := store.SignIn(context.Background(), "alice@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, []models.Role{models.RoleAdmin}, roles)

	assert.Equal(t, StatusAuthenticated, store.Status())
	sess := store.Session()
	require.NotNil(t, sess)
	assert.Equal(t, "alice@example.com", sess.User.Email)
	assert.Equal(t, []models.Role{models.RoleAdmin}, sess.User.Roles)
	assert.ElementsMatch(t,
		models.PermissionsForRoles([]models.Role{models.RoleAdmin}),
		sess.User.Permissions)
	assert.Equal(t, "refresh-alice@example.com", sess.RefreshToken)

	// The gate's cookies mirror the session
	cookies := store.Cookies()
	tok, ok := cookieValue(cookies, session.CookieAccessToken)
	require.True(t, ok)
	assert.Equal(t, sess.Token, tok)
	rolesCookie, ok := cookieValue(cookies, session.CookieRoles)
	require.True(t, ok)
	assert.Equal(t, "admin", rolesCookie)
}

func TestSignInRejectedCredentials(t *testing.T) {
	backend := newFakeBackend()
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	store := newTestStore(t, server.URL, &MemoryStorage{})
	store.Restore()

	_, err := store.SignIn(context.Background(), "alice@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, StatusUnauthenticated, store.Status())
	assert.Nil(t, store.Session())
}

func TestSignOutClearsEverything(t *testing.T) {
	backend := newFakeBackend()
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	storage := &MemoryStorage{}
	store := newTestStore(t, server.URL, storage)
	store.Restore()

	_, err := store.SignIn(context.Background(), "alice@example.com", "hunter22")
	require.NoError(t, err)

	store.SignOut(context.Background())

	assert.Equal(t, 1, backend.logoutCalls)
	assert.Equal(t, StatusUnauthenticated, store.Status())
	assert.Nil(t, store.Session())

	persisted, err := storage.Load()
	require.NoError(t, err)
	assert.Empty(t, persisted)

	_, ok := cookieValue(store.Cookies(), session.CookieAccessToken)
	assert.False(t, ok)
}

func TestSignOutSurvivesBackendFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.logoutStatus = http.StatusInternalServerError
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	store := newTestStore(t, server.URL, &MemoryStorage{})
	store.Restore()

	_, err := store.SignIn(context.Background(), "alice@example.com", "hunter22")
	require.NoError(t, err)

	store.SignOut(context.Background())

	assert.Equal(t, StatusUnauthenticated, store.Status())
	assert.Nil(t, store.Session())
	_, ok := cookieValue(store.Cookies(), session.CookieAccessToken)
	assert.False(t, ok)
}

func TestRestoreMigratesLegacySingleRoleSession(t *testing.T) {
	codec := token.NewCodec(testSecret, time.Hour)
	access, err := codec.Sign("user-42", "Legacy User", "legacy@example.com", []string{"admin"})
	require.NoError(t, err)

	legacy := fmt.Sprintf(`{"user":{"id":"user-42","name":"Legacy User","email":"legacy@example.com","role":"admin"},"token":%q}`, access)

	storage := &MemoryStorage{}
	require.NoError(t, storage.Save([]byte(legacy)))

	store := newTestStore(t, "http://localhost", storage)
	store.Restore()

	require.Equal(t, StatusAuthenticated, store.Status())
	sess := store.Session()
	require.NotNil(t, sess)
	assert.Equal(t, []models.Role{models.RoleAdmin}, sess.User.Roles)
	assert.ElementsMatch(t,
		models.PermissionsForRoles([]models.Role{models.RoleAdmin}),
		sess.User.Permissions)

	// The migration is idempotent: the persisted copy is now multi-role and
	// restoring again yields the same session.
	persisted, err := storage.Load()
	require.NoError(t, err)
	assert.Contains(t, string(persisted), `"roles":["admin"]`)
}

func TestRestoreDiscardsCorruptData(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not JSON", data: "{{{"},
		{name: "missing token", data: `{"user":{"id":"x","roles":["admin"]}}`},
		{name: "no recognized roles", data: `{"user":{"id":"x","roles":["contractor"]},"token":"t"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := &MemoryStorage{}
			require.NoError(t, storage.Save([]byte(tt.data)))

			store := newTestStore(t, "http://localhost", storage)
			store.Restore()

			assert.Equal(t, StatusUnauthenticated, store.Status())
			persisted, err := storage.Load()
			require.NoError(t, err)
			assert.Empty(t, persisted)
		})
	}
}

func TestRestoreDiscardsExpiredToken(t *testing.T) {
	expiredCodec := token.NewCodec(testSecret, -time.Minute)
	access, err := expiredCodec.Sign("user-42", "Old User", "old@example.com", []string{"employee"})
	require.NoError(t, err)

	data, err := json.Marshal(models.Session{
		User:  models.SessionUser{ID: "user-42", Roles: []models.Role{models.RoleEmployee}},
		Token: access,
	})
	require.NoError(t, err)

	storage := &MemoryStorage{}
	require.NoError(t, storage.Save(data))

	store := newTestStore(t, "http://localhost", storage)
	store.Restore()

	assert.Equal(t, StatusUnauthenticated, store.Status())
}

func mintLoginResponse(t *testing.T, email string, roles ...string) models.LoginResponse {
	t.Helper()
	codec := token.NewCodec(testSecret, time.Hour)
	access, err := codec.Sign("user-"+email, "Test User", email, roles)
	require.NoError(t, err)
	return models.LoginResponse{AccessToken: access, RefreshToken: "refresh-" + email}
}

func TestStaleSignInDoesNotOverwriteNewer(t *testing.T) {
	store := newTestStore(t, "http://localhost", &MemoryStorage{})
	store.Restore()

	// Two sign-ins start in order, but the first one's response arrives last.
	first := store.nextStamp()
	second := store.nextStamp()

	_, err := store.adoptTokenPair(second, mintLoginResponse(t, "new@example.com", "admin"))
	require.NoError(t, err)
	_, err = store.adoptTokenPair(first, mintLoginResponse(t, "old@example.com", "employee"))
	require.NoError(t, err)

	sess := store.Session()
	require.NotNil(t, sess)
	assert.Equal(t, "new@example.com", sess.User.Email)
	assert.Equal(t, []models.Role{models.RoleAdmin}, sess.User.Roles)
}

func TestSignOutInvalidatesInFlightSignIn(t *testing.T) {
	backend := newFakeBackend()
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	storage := &MemoryStorage{}
	store := newTestStore(t, server.URL, storage)
	store.Restore()

	// A sign-in is in flight when the user signs out; its response arriving
	// afterwards must not resurrect the session.
	stamp := store.nextStamp()
	store.SignOut(context.Background())

	_, err := store.adoptTokenPair(stamp, mintLoginResponse(t, "late@example.com", "admin"))
	require.NoError(t, err)

	assert.Equal(t, StatusUnauthenticated, store.Status())
	assert.Nil(t, store.Session())

	persisted, err := storage.Load()
	require.NoError(t, err)
	assert.Empty(t, persisted)

	_, ok := cookieValue(store.Cookies(), session.CookieAccessToken)
	assert.False(t, ok)
}
