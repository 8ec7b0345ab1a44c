package api

import (
	"log/slog"
	"net/http"

	"github.com/limbo/questboard/internal/service"
	"github.com/limbo/questboard/pkg/httputil"
)

func (s *Server) CreateCategory(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req service.CreateCategoryRequest
	if err := httputil.DecodeJSONBody(r, &req); err != nil {
		writeBadBody(w, logger, "create category", err)
		return
	}
	if req.UserID == nil {
		if uid, ok := GetUIDFromContext(r); ok {
			req.UserID = &uid
		}
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	category, err := s.categoriesService.CreateCategory(ctx, &req)
	if err != nil {
		writeServiceError(w, logger, "create category", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, category)
	logger.Info("category created", slog.Int64("id", category.ID))
}

func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := requestContext(r)
	defer cancel()
	categories, err := s.categoriesService.ListCategories(ctx)
	if err != nil {
		writeServiceError(w, logger, "list categories", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, categories)
}

func (s *Server) GetCategory(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeBadID(w, logger, "get category")
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	category, err := s.categoriesService.GetCategory(ctx, id)
	if err != nil {
		writeServiceError(w, logger, "get category", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, category)
}

func (s *Server) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeBadID(w, logger, "update category")
		return
	}
	var req service.UpdateCategoryRequest
	if err = httputil.DecodeJSONBody(r, &req); err != nil {
		writeBadBody(w, logger, "update category", err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	category, err := s.categoriesService.UpdateCategory(ctx, id, &req)
	if err != nil {
		writeServiceError(w, logger, "update category", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, category)
}

func (s *Server) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeBadID(w, logger, "delete category")
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	if err = s.categoriesService.DeleteCategory(ctx, id); err != nil {
		writeServiceError(w, logger, "delete category", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("category deleted", slog.Int64("id", id))
}
