package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	errorvalues "github.com/limbo/questboard/internal/error_values"
	"github.com/limbo/questboard/internal/service"
	"github.com/limbo/questboard/pkg/httputil"
)

const (
	requestTimeout = 10 * time.Second
	// Covers a roadmap generator call
	roadmapRequestTimeout = 45 * time.Second
)

var errInvalidID = errors.New("invalid id in path")

// pathID parses positive int64 path parameter name.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, errInvalidID
	}
	return id, nil
}

// queryID parses optional positive int64 query parameter name.
func queryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return nil, errors.New("invalid " + name + " query parameter")
	}
	return &id, nil
}

func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), requestTimeout)
}

func roadmapContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), roadmapRequestTimeout)
}

// writeServiceError maps err to a status code and writes it. op names the
// failed operation in logs and messages.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, errorvalues.ErrValidation),
		errors.Is(err, errorvalues.ErrInvalidScope),
		errors.Is(err, errorvalues.ErrTaskOwnerMissing):
		logger.Error(op+" error: bad input", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, op+" failed: invalid input", err)
	case errors.Is(err, errorvalues.ErrUserNotFound),
		errors.Is(err, errorvalues.ErrTaskNotFound),
		errors.Is(err, errorvalues.ErrCategoryNotFound),
		errors.Is(err, errorvalues.ErrGoalNotFound),
		errors.Is(err, errorvalues.ErrAchievementNotFound):
		logger.Error(op+" error: not found", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, errorvalues.ErrUserExists),
		errors.Is(err, errorvalues.ErrAchievementEarned):
		logger.Error(op+" error: conflict", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusConflict, err.Error(), nil)
	default:
		logger.Error(op+" error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during "+op, nil)
	}
}

func writeBadBody(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	logger.Error(op+" error: invalid body", slog.String("error", err.Error()))
	httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
}

func writeBadID(w http.ResponseWriter, logger *slog.Logger, op string) {
	logger.Error(op + " error: invalid id in path value")
	httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid id in path value", nil)
}

func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req service.CreateUserRequest
	if err := httputil.DecodeJSONBody(r, &req); err != nil {
		writeBadBody(w, logger, "create user", err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	user, err := s.userService.Create(ctx, &req)
	if err != nil {
		writeServiceError(w, logger, "create user", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, user)
	logger.Info("user created", slog.Int64("id", user.ID))
}

func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeBadID(w, logger, "get user")
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	user, err := s.userService.GetByID(ctx, id)
	if err != nil {
		writeServiceError(w, logger, "get user", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, user)
}

func (s *Server) UpdateUser(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeBadID(w, logger, "update user")
		return
	}
	var req service.UpdateUserRequest
	if err = httputil.DecodeJSONBody(r, &req); err != nil {
		writeBadBody(w, logger, "update user", err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	user, err := s.userService.UpdateLocation(ctx, id, &req)
	if err != nil {
		writeServiceError(w, logger, "update user", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, user)
	logger.Info("user location updated", slog.Int64("id", id))
}
