package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/limbo/questboard/internal/api"
	"github.com/limbo/questboard/internal/repository"
	"github.com/limbo/questboard/internal/repository/memory"
	"github.com/limbo/questboard/internal/roadmap"
	"github.com/limbo/questboard/internal/service"
	"github.com/limbo/questboard/pkg/cleanup"
	"github.com/limbo/questboard/pkg/config"
)

func init() {
	service.InitValidator()
}

type repos struct {
	users        repository.UsersRepositoryI
	categories   repository.CategoriesRepositoryI
	tasks        repository.TasksRepositoryI
	goals        repository.GoalsRepositoryI
	achievements repository.AchievementsRepositoryI
}

func openStorage(ctx context.Context, cfg *config.Config, jobs *cleanup.Registry) (*repos, error) {
	if cfg.Storage == "memory" {
		store := memory.NewStore()
		return &repos{
			users:        store.Users,
			categories:   store.Categories,
			tasks:        store.Tasks,
			goals:        store.Goals,
			achievements: store.Achievements,
		}, nil
	}
	pool, err := repository.Connect(ctx, &repository.PGCfg{
		Address:  cfg.Postgres.Address,
		Username: cfg.Postgres.Username,
		Password: cfg.Postgres.Password,
		DB:       cfg.Postgres.DB,
	}, jobs)
	if err != nil {
		return nil, err
	}
	return &repos{
		users:        repository.NewUsersRepo(pool),
		categories:   repository.NewCategoriesRepo(pool),
		tasks:        repository.NewTasksRepo(pool),
		goals:        repository.NewGoalsRepo(pool),
		achievements: repository.NewAchievementsRepo(pool),
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config error: " + err.Error())
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	jobs := cleanup.New(logger)
	defer func() {
		if failed := jobs.CleanUp(); failed > 0 {
			logger.Error("cleanup finished with errors", slog.Int("failed", failed))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	rs, err := openStorage(startCtx, cfg, jobs)
	if err != nil {
		logger.Error("storage error", slog.String("storage", cfg.Storage), slog.String("error", err.Error()))
		return
	}
	if err = service.SeedCatalog(startCtx, rs.categories, rs.achievements); err != nil {
		logger.Error("seeding catalog error", slog.String("error", err.Error()))
		return
	}

	userService := service.NewUserService(rs.users)
	defaultUserID := cfg.DefaultUserID
	if defaultUserID > 0 {
		defaultUserID, err = userService.EnsureUser(startCtx, defaultUserID, cfg.DefaultUserName, logger)
		if err != nil {
			logger.Error("default user error", slog.String("error", err.Error()))
			return
		}
	}

	var generator service.RoadmapGenerator
	if cfg.Roadmap.APIKey != "" {
		generator = roadmap.NewClient(roadmap.Config{
			APIKey:   cfg.Roadmap.APIKey,
			Model:    cfg.Roadmap.Model,
			Endpoint: cfg.Roadmap.Endpoint,
			Timeout:  cfg.Roadmap.Timeout,
		})
	} else {
		logger.Warn("GEMINI_API_KEY is not set, goals will get degraded roadmaps")
	}

	scoring := service.NewScoringService(rs.users, service.ScoringOpts{
		DefaultUserID: defaultUserID,
		Logger:        logger,
	})
	achievements := service.NewAchievementsService(rs.achievements, rs.tasks, scoring)
	serv := api.New(&api.ServicesList{
		UserService:         userService,
		TasksService:        service.NewTasksService(rs.tasks, scoring, achievements, cfg.Location()),
		CategoriesService:   service.NewCategoriesService(rs.categories),
		GoalsService:        service.NewGoalsService(rs.goals, rs.tasks, rs.users, generator, logger),
		AchievementsService: achievements,
		LeaderboardService:  service.NewLeaderboardService(rs.users),
		DefaultUserID:       defaultUserID,
	})
	if err = serv.Run(ctx, cfg.APIAddress); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
	}
}
