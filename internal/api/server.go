package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/limbo/questboard/internal/service"
)

type Server struct {
	mx                  *chi.Mux
	userService         service.UserServiceI
	tasksService        service.TasksServiceI
	categoriesService   service.CategoriesServiceI
	goalsService        service.GoalsServiceI
	achievementsService service.AchievementsServiceI
	leaderboardService  service.LeaderboardServiceI
	defaultUserID       int64
}

type ServicesList struct {
	UserService         service.UserServiceI
	TasksService        service.TasksServiceI
	CategoriesService   service.CategoriesServiceI
	GoalsService        service.GoalsServiceI
	AchievementsService service.AchievementsServiceI
	LeaderboardService  service.LeaderboardServiceI
	// Acting user for requests without X-User-ID. 0 disables it
	DefaultUserID int64
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:                  chi.NewMux(),
		userService:         servicesOptions.UserService,
		tasksService:        servicesOptions.TasksService,
		categoriesService:   servicesOptions.CategoriesService,
		goalsService:        servicesOptions.GoalsService,
		achievementsService: servicesOptions.AchievementsService,
		leaderboardService:  servicesOptions.LeaderboardService,
		defaultUserID:       servicesOptions.DefaultUserID,
	}
	s.mountHandlers()
	return s
}

func (s *Server) mountHandlers() {
	s.mx.Use(middleware.Recoverer)
	s.mx.Use(s.RequestIDMiddleware)
	s.mx.Use(s.SettingUpLoggerMiddleware)
	s.mx.Use(s.ActorMiddleware)
	s.mx.Use(s.LoggerExtensionMiddleware)
	s.mx.Use(s.AccessLogMiddleware)

	s.mx.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/", s.CreateUser)
			r.Get("/{id}", s.GetUser)
			r.Patch("/{id}", s.UpdateUser)
		})
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.ListTasks)
			r.Post("/", s.CreateTask)
			r.Get("/{id}", s.GetTask)
			r.Patch("/{id}", s.UpdateTask)
			r.Delete("/{id}", s.DeleteTask)
			r.Put("/{id}/status", s.SetTaskStatus)
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", s.ListCategories)
			r.Post("/", s.CreateCategory)
			r.Get("/{id}", s.GetCategory)
			r.Patch("/{id}", s.UpdateCategory)
			r.Delete("/{id}", s.DeleteCategory)
		})
		r.Route("/goals", func(r chi.Router) {
			r.Get("/", s.ListGoals)
			r.Post("/", s.CreateGoal)
			r.Get("/{id}", s.GetGoal)
			r.Patch("/{id}", s.UpdateGoal)
			r.Delete("/{id}", s.DeleteGoal)
			r.Get("/{id}/tasks", s.GoalTasks)
			r.Post("/{id}/roadmap", s.RegenerateRoadmap)
		})
		r.Route("/achievements", func(r chi.Router) {
			r.Get("/", s.ListAchievements)
			r.Post("/", s.CreateAchievement)
			r.Post("/award", s.AwardAchievement)
			r.Get("/user/{id}", s.UserAchievements)
		})
		r.Get("/leaderboard/{type}", s.GetLeaderboard)
		r.Get("/leaderboard/user/{id}/{type}", s.GetUserRank)
		r.Get("/stats", s.Stats)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mx.ServeHTTP(w, r)
}

// Run serves on address until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.mx,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("api server started", slog.String("address", address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	slog.Info("shutting down api server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.New("server shutdown error: " + err.Error())
	}
	return nil
}
