package api

import (
	"log/slog"
	"net/http"

	"github.com/limbo/questboard/internal/service"
	"github.com/limbo/questboard/pkg/entity"
	"github.com/limbo/questboard/pkg/httputil"
)

type SetStatusRequest struct {
	Status entity.TaskStatus `json:"status"`
}

func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req service.CreateTaskRequest
	if err := httputil.DecodeJSONBody(r, &req); err != nil {
		writeBadBody(w, logger, "create task", err)
		return
	}
	if req.UserID == nil {
		if uid, ok := GetUIDFromContext(r); ok {
			req.UserID = &uid
		}
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	task, err := s.tasksService.CreateTask(ctx, &req)
	if err != nil {
		writeServiceError(w, logger, "create task", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, task)
	logger.Info("task created", slog.Int64("id", task.ID))
}

func (s *Server) ListTasks(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var filter service.TaskFilter
	var err error
	for name, dst := range map[string]**int64{
		"user_id":     &filter.UserID,
		"category_id": &filter.CategoryID,
		"goal_id":     &filter.GoalID,
	} {
		if *dst, err = queryID(r, name); err != nil {
			logger.Error("list tasks error: bad filter", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	tasks, err := s.tasksService.ListTasks(ctx, filter)
	if err != nil {
		writeServiceError(w, logger, "list tasks", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, tasks)
}

func (s *Server) GetTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeBadID(w, logger, "get task")
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	task, err := s.tasksService.GetTask(ctx, id)
	if err != nil {
		writeServiceError(w, logger, "get task", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
}

func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeBadID(w, logger, "update task")
		return
	}
	var req service.UpdateTaskRequest
	if err = httputil.DecodeJSONBody(r, &req); err != nil {
		writeBadBody(w, logger, "update task", err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	change, err := s.tasksService.UpdateTask(ctx, id, &req)
	if err != nil {
		writeServiceError(w, logger, "update task", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, change)
	logger.Info("task updated", slog.Int64("id", id), slog.Int("points_awarded", change.PointsAwarded))
}

func (s *Server) SetTaskStatus(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeBadID(w, logger, "set task status")
		return
	}
	var req SetStatusRequest
	if err = httputil.DecodeJSONBody(r, &req); err != nil {
		writeBadBody(w, logger, "set task status", err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	change, err := s.tasksService.SetTaskStatus(ctx, id, req.Status)
	if err != nil {
		writeServiceError(w, logger, "set task status", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, change)
	logger.Info("task status changed",
		slog.Int64("id", id),
		slog.String("status", string(req.Status)),
		slog.Int("points_awarded", change.PointsAwarded),
		slog.Int("unlocked", len(change.Unlocked)))
}

func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeBadID(w, logger, "delete task")
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	if err = s.tasksService.DeleteTask(ctx, id); err != nil {
		writeServiceError(w, logger, "delete task", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("task deleted", slog.Int64("id", id))
}

func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := requestContext(r)
	defer cancel()
	stats, err := s.tasksService.Stats(ctx)
	if err != nil {
		writeServiceError(w, logger, "stats", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, stats)
}
