package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/authcache/internal/server/service"
	"github.com/iudanet/authcache/pkg/api"
)

const (
	msgRegistered         = "User registered successfully"
	msgAlreadyRegistered  = "User already registered"
	msgLoginSuccess       = "Login successful"
	msgCredentialsMissing = "Username and password are required"
	msgInvalidCredentials = "Invalid username or password"
	msgInternalError      = "Internal server error"
)

// Authenticator регистрирует пользователей и выдает токены
type Authenticator interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (string, error)
}

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger *slog.Logger
	auth   Authenticator
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, auth Authenticator) *AuthHandler {
	return &AuthHandler{
		logger: logger,
		auth:   auth,
	}
}

// Register обрабатывает POST /register
// Регистрация нового пользователя
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username, password, err := decodeCredentials(w, r)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	err = h.auth.Register(ctx, username, password)
	switch {
	case err == nil:
		sendJSON(h.logger, w, api.RegisterResponse{Message: msgRegistered, Username: username}, http.StatusCreated)
	case errors.Is(err, service.ErrInvalidInput):
		h.logger.WarnContext(ctx, "invalid register request", slog.Any("error", err))
		sendError(h.logger, w, msgCredentialsMissing, http.StatusBadRequest)
	case errors.Is(err, service.ErrAlreadyRegistered):
		h.logger.WarnContext(ctx, "user already registered", slog.String("username", username))
		sendJSON(h.logger, w, api.RegisterResponse{Message: msgAlreadyRegistered, Username: username}, http.StatusConflict)
	default:
		h.logger.ErrorContext(ctx, "failed to register user", slog.String("username", username), slog.Any("error", err))
		sendError(h.logger, w, msgInternalError, http.StatusInternalServerError)
	}
}

// Login обрабатывает POST /login
// Аутентификация пользователя и выдача токена
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username, password, err := decodeCredentials(w, r)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		h.sendLoginFailure(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.auth.Login(ctx, username, password)
	switch {
	case err == nil:
		sendJSON(h.logger, w, api.LoginResponse{Success: true, Message: msgLoginSuccess, Token: token}, http.StatusOK)
	case errors.Is(err, service.ErrInvalidInput):
		h.sendLoginFailure(w, msgCredentialsMissing, http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidCredentials):
		// Неизвестный пользователь и неверный пароль неразличимы для клиента
		h.sendLoginFailure(w, msgInvalidCredentials, http.StatusBadRequest)
	default:
		h.logger.ErrorContext(ctx, "failed to log in user", slog.String("username", username), slog.Any("error", err))
		h.sendLoginFailure(w, msgInternalError, http.StatusInternalServerError)
	}
}

func (h *AuthHandler) sendLoginFailure(w http.ResponseWriter, message string, statusCode int) {
	sendJSON(h.logger, w, api.LoginResponse{Success: false, Message: message}, statusCode)
}
