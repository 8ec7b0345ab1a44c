package api

import (
	"log/slog"
	"net/http"

	"github.com/limbo/questboard/internal/service"
	"github.com/limbo/questboard/pkg/httputil"
)

func (s *Server) CreateGoal(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req service.CreateGoalRequest
	if err := httputil.DecodeJSONBody(r, &req); err != nil {
		writeBadBody(w, logger, "create goal", err)
		return
	}
	if req.UserID == 0 {
		if uid, ok := GetUIDFromContext(r); ok {
			req.UserID = uid
		}
	}
	ctx, cancel := roadmapContext(r)
	defer cancel()
	plan, err := s.goalsService.CreateGoal(ctx, &req)
	if err != nil {
		writeServiceError(w, logger, "create goal", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, plan)
	logger.Info("goal created",
		slog.Int64("id", plan.Goal.ID),
		slog.Int("tasks", len(plan.Tasks)),
		slog.Bool("roadmap_failed", plan.Goal.Roadmap != nil && plan.Goal.Roadmap.Error != ""))
}

func (s *Server) ListGoals(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := queryID(r, "user_id")
	if err != nil {
		logger.Error("list goals error: bad filter", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	goals, err := s.goalsService.ListGoals(ctx, uid)
	if err != nil {
		writeServiceError(w, logger, "list goals", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, goals)
}

func (s *Server) GetGoal(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeBadID(w, logger, "get goal")
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	goal, err := s.goalsService.GetGoal(ctx, id)
	if err != nil {
		writeServiceError(w, logger, "get goal", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, goal)
}

func (s *Server) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeBadID(w, logger, "update goal")
		return
	}
	var req service.UpdateGoalRequest
	if err = httputil.DecodeJSONBody(r, &req); err != nil {
		writeBadBody(w, logger, "update goal", err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	goal, err := s.goalsService.UpdateGoal(ctx, id, &req)
	if err != nil {
		writeServiceError(w, logger, "update goal", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, goal)
}

func (s *Server) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeBadID(w, logger, "delete goal")
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	if err = s.goalsService.DeleteGoal(ctx, id); err != nil {
		writeServiceError(w, logger, "delete goal", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("goal deleted", slog.Int64("id", id))
}

func (s *Server) GoalTasks(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeBadID(w, logger, "goal tasks")
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	tasks, err := s.goalsService.GoalTasks(ctx, id)
	if err != nil {
		writeServiceError(w, logger, "goal tasks", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, tasks)
}

func (s *Server) RegenerateRoadmap(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeBadID(w, logger, "regenerate roadmap")
		return
	}
	ctx, cancel := roadmapContext(r)
	defer cancel()
	goal, err := s.goalsService.RegenerateRoadmap(ctx, id)
	if err != nil {
		writeServiceError(w, logger, "regenerate roadmap", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, goal)
	logger.Info("roadmap regenerated", slog.Int64("goal_id", id))
}
