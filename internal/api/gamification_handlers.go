package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/limbo/questboard/internal/service"
	"github.com/limbo/questboard/pkg/entity"
	"github.com/limbo/questboard/pkg/httputil"
)

type UserRankResponse struct {
	UserID int64                   `json:"user_id"`
	Type   entity.LeaderboardScope `json:"type"`
	Rank   int                     `json:"rank"`
}

func (s *Server) ListAchievements(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := requestContext(r)
	defer cancel()
	achievements, err := s.achievementsService.ListAchievements(ctx)
	if err != nil {
		writeServiceError(w, logger, "list achievements", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, achievements)
}

func (s *Server) CreateAchievement(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req service.CreateAchievementRequest
	if err := httputil.DecodeJSONBody(r, &req); err != nil {
		writeBadBody(w, logger, "create achievement", err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	achievement, err := s.achievementsService.CreateAchievement(ctx, &req)
	if err != nil {
		writeServiceError(w, logger, "create achievement", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, achievement)
	logger.Info("achievement created", slog.Int64("id", achievement.ID))
}

func (s *Server) AwardAchievement(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req service.AwardRequest
	if err := httputil.DecodeJSONBody(r, &req); err != nil {
		writeBadBody(w, logger, "award achievement", err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	award, err := s.achievementsService.Award(ctx, &req)
	if err != nil {
		writeServiceError(w, logger, "award achievement", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, award)
	logger.Info("achievement awarded manually",
		slog.Int64("user_id", req.UserID), slog.Int64("achievement_id", req.AchievementID))
}

func (s *Server) UserAchievements(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := pathID(r, "id")
	if err != nil {
		writeBadID(w, logger, "user achievements")
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	achievements, err := s.achievementsService.UserAchievements(ctx, uid)
	if err != nil {
		writeServiceError(w, logger, "user achievements", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, achievements)
}

func (s *Server) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	scope := entity.LeaderboardScope(chi.URLParam(r, "type"))
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = service.DefaultLeaderboardLimit
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	entries, err := s.leaderboardService.GetLeaderboard(ctx, scope, limit)
	if err != nil {
		writeServiceError(w, logger, "leaderboard", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, entries)
}

func (s *Server) GetUserRank(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := pathID(r, "id")
	if err != nil {
		writeBadID(w, logger, "user rank")
		return
	}
	scope := entity.LeaderboardScope(chi.URLParam(r, "type"))
	ctx, cancel := requestContext(r)
	defer cancel()
	rank, err := s.leaderboardService.GetUserRank(ctx, uid, scope)
	if err != nil {
		writeServiceError(w, logger, "user rank", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, UserRankResponse{UserID: uid, Type: scope, Rank: rank})
}
