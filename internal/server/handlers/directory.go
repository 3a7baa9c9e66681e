package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/authcache/internal/server/service"
)

// UsernameLister возвращает список зарегистрированных пользователей
type UsernameLister interface {
	ListUsernames(ctx context.Context) ([]string, error)
}

// DirectoryHandler обрабатывает запросы к списку пользователей
type DirectoryHandler struct {
	logger    *slog.Logger
	directory UsernameLister
}

// NewDirectoryHandler создает handler для списка пользователей
func NewDirectoryHandler(logger *slog.Logger, directory UsernameLister) *DirectoryHandler {
	return &DirectoryHandler{
		logger:    logger,
		directory: directory,
	}
}

// Usernames обрабатывает GET /usernames
func (h *DirectoryHandler) Usernames(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	usernames, err := h.directory.ListUsernames(ctx)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			sendError(h.logger, w, "no users found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to list usernames", slog.Any("error", err))
		sendError(h.logger, w, msgInternalError, http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, usernames, http.StatusOK)
}
