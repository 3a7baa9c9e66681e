package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/authcache/internal/server/service"
	"github.com/iudanet/authcache/pkg/api"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors in tests
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

// mockAuthenticator is a mock implementation of Authenticator for testing
type mockAuthenticator struct {
	registerErr error
	loginErr    error
	token       string
	gotUsername string
	gotPassword string
}

func (m *mockAuthenticator) Register(ctx context.Context, username, password string) error {
	m.gotUsername, m.gotPassword = username, password
	return m.registerErr
}

func (m *mockAuthenticator) Login(ctx context.Context, username, password string) (string, error) {
	m.gotUsername, m.gotPassword = username, password
	if m.loginErr != nil {
		return "", m.loginErr
	}
	return m.token, nil
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		registerErr    error
		name           string
		expectedBody   string
		expectedStatus int
	}{
		{
			name:           "success",
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"message":"User registered successfully","username":"alice"}`,
		},
		{
			name:           "already registered",
			registerErr:    service.ErrAlreadyRegistered,
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"message":"User already registered","username":"alice"}`,
		},
		{
			name:           "invalid input",
			registerErr:    fmt.Errorf("%w: password cannot be empty", service.ErrInvalidInput),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Bad Request","message":"Username and password are required"}`,
		},
		{
			name:           "store unavailable",
			registerErr:    fmt.Errorf("%w: dial tcp: connection refused", service.ErrStoreUnavailable),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Internal Server Error","message":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &mockAuthenticator{registerErr: tt.registerErr}
			handler := NewAuthHandler(setupTestLogger(), auth)

			req := httptest.NewRequest(http.MethodPost, "/register", jsonBody(t, api.RegisterRequest{Username: "alice", Password: "secret"}))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Register(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			// Детали ошибки хранилища клиенту не уходят
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}

func TestAuthHandler_Register_InvalidJSON(t *testing.T) {
	auth := &mockAuthenticator{}
	handler := NewAuthHandler(setupTestLogger(), auth)

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader("invalid json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, auth.gotUsername)
}

func TestAuthHandler_Register_FormEncoded(t *testing.T) {
	auth := &mockAuthenticator{}
	handler := NewAuthHandler(setupTestLogger(), auth)

	form := url.Values{"username": {"alice"}, "password": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")
	w := httptest.NewRecorder()

	handler.Register(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "alice", auth.gotUsername)
	assert.Equal(t, "secret", auth.gotPassword)
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		loginErr       error
		name           string
		expectedStatus int
		expectedResp   api.LoginResponse
	}{
		{
			name:           "success",
			expectedStatus: http.StatusOK,
			expectedResp:   api.LoginResponse{Success: true, Message: "Login successful", Token: "signed.jwt.token"},
		},
		{
			name:           "invalid input",
			loginErr:       fmt.Errorf("%w: password cannot be empty", service.ErrInvalidInput),
			expectedStatus: http.StatusBadRequest,
			expectedResp:   api.LoginResponse{Success: false, Message: "Username and password are required"},
		},
		{
			name:           "invalid credentials",
			loginErr:       service.ErrInvalidCredentials,
			expectedStatus: http.StatusBadRequest,
			expectedResp:   api.LoginResponse{Success: false, Message: "Invalid username or password"},
		},
		{
			name:           "store unavailable",
			loginErr:       fmt.Errorf("%w: i/o timeout", service.ErrStoreUnavailable),
			expectedStatus: http.StatusInternalServerError,
			expectedResp:   api.LoginResponse{Success: false, Message: "Internal server error"},
		},
		{
			name:           "token issuing fails",
			loginErr:       errors.New("failed to sign token"),
			expectedStatus: http.StatusInternalServerError,
			expectedResp:   api.LoginResponse{Success: false, Message: "Internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &mockAuthenticator{loginErr: tt.loginErr, token: "signed.jwt.token"}
			handler := NewAuthHandler(setupTestLogger(), auth)

			req := httptest.NewRequest(http.MethodPost, "/login", jsonBody(t, api.LoginRequest{Username: "alice", Password: "secret"}))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Login(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var resp api.LoginResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.expectedResp, resp)
		})
	}
}

func TestAuthHandler_Login_FailureHasNoToken(t *testing.T) {
	auth := &mockAuthenticator{loginErr: service.ErrInvalidCredentials}
	handler := NewAuthHandler(setupTestLogger(), auth)

	req := httptest.NewRequest(http.MethodPost, "/login", jsonBody(t, api.LoginRequest{Username: "alice", Password: "wrong"}))
	w := httptest.NewRecorder()

	handler.Login(w, req)

	assert.JSONEq(t, `{"success":false,"message":"Invalid username or password"}`, w.Body.String())
}

func TestAuthHandler_Login_InvalidJSON(t *testing.T) {
	handler := NewAuthHandler(setupTestLogger(), &mockAuthenticator{})

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{"))
	w := httptest.NewRecorder()

	handler.Login(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"invalid request body"}`, w.Body.String())
}

func TestAuthHandler_BodyTooLarge(t *testing.T) {
	auth := &mockAuthenticator{}
	handler := NewAuthHandler(setupTestLogger(), auth)

	huge := `{"username":"alice","password":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(huge))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, auth.gotUsername)
}
