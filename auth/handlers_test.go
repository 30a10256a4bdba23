package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleRegister_MissingFields(t *testing.T) {
	t.Parallel()

	handlers := NewHandlers(newTestAuthService(newFakeUserStore()))

	cases := []string{
		`{}`,
		`{"username":"alice"}`,
		`{"password":"s3cret"}`,
		`{"username":"","password":""}`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handlers.HandleRegister()(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
}

func TestHandleRegister_Success(t *testing.T) {
	t.Parallel()

	handlers := NewHandlers(newTestAuthService(newFakeUserStore()))

	req := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"username":"alice","password":"s3cret"}`))
	rec := httptest.NewRecorder()
	handlers.HandleRegister()(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var user User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&user))
	assert.Equal(t, "alice", user.Username)
	assert.NotZero(t, user.ID)
	// The password hash is excluded from serialization.
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestHandleLogin_SetsTokenCookie(t *testing.T) {
	t.Parallel()

	service := newTestAuthService(newFakeUserStore())
	handlers := NewHandlers(service)

	_, err := service.Register(context.Background(), RegisterRequest{
		Username: "alice",
		Password: "s3cret",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username":"alice","password":"s3cret"}`))
	rec := httptest.NewRecorder()
	handlers.HandleLogin()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, CookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	// The cookie value is a verifiable session token.
	claims, err := NewTokenCodec("test-secret").Verify(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)

	var resp LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, claims.UserID, resp.ID)
}

func TestHandleLogin_WrongCredentials(t *testing.T) {
	t.Parallel()

	service := newTestAuthService(newFakeUserStore())
	handlers := NewHandlers(service)

	_, err := service.Register(context.Background(), RegisterRequest{
		Username: "alice",
		Password: "s3cret",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username":"alice","password":"wrong"}`))
	rec := httptest.NewRecorder()
	handlers.HandleLogin()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, rec.Result().Cookies(), "no cookie on failed login")
	assert.Contains(t, rec.Body.String(), "wrong credentials")
}

func TestHandleProfile_ReturnsClaims(t *testing.T) {
	t.Parallel()

	handlers := NewHandlers(newTestAuthService(newFakeUserStore()))

	claims := &Claims{Username: "alice", UserID: 42}
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req = req.WithContext(NewContextWithClaims(req.Context(), claims))
	rec := httptest.NewRecorder()
	handlers.HandleProfile()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got Claims
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, int64(42), got.UserID)
}

func TestHandleLogout_ClearsCookie(t *testing.T) {
	t.Parallel()

	handlers := NewHandlers(newTestAuthService(newFakeUserStore()))

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()
	handlers.HandleLogout()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
