package service

import (
	"context"
	"errors"

	"github.com/limbo/questboard/internal/repository"
	"github.com/limbo/questboard/pkg/entity"
)

// DefaultCategories are created on an empty store.
func DefaultCategories() []*entity.Category {
	return []*entity.Category{
		{Name: "Work", Color: "#8b5cf6"},
		{Name: "Personal", Color: "#3b82f6"},
		{Name: "Health", Color: "#10b981"},
	}
}

// DefaultAchievements is the built-in achievement catalog.
func DefaultAchievements() []*entity.Achievement {
	return []*entity.Achievement{
		{
			Name:        "First Task Complete",
			Description: "Complete your first task",
			Icon:        "🏆",
			Points:      10,
			Requirement: 1,
			Category:    entity.AchievementCompletion,
		},
		{
			Name:        "High Achiever",
			Description: "Complete 10 tasks",
			Icon:        "🌟",
			Points:      25,
			Requirement: 10,
			Category:    entity.AchievementCompletion,
		},
		{
			Name:        "Priority Master",
			Description: "Complete 5 high priority tasks",
			Icon:        "⚡",
			Points:      30,
			Requirement: 5,
			Category:    entity.AchievementPriority,
		},
	}
}

// SeedCatalog fills empty category and achievement tables with defaults.
// Non-empty tables are left as they are.
func SeedCatalog(ctx context.Context, categories repository.CategoriesRepositoryI, achievements repository.AchievementsRepositoryI) error {
	existingCategories, err := categories.GetAll(ctx)
	if err != nil {
		return errors.New("listing categories error: " + err.Error())
	}
	if len(existingCategories) == 0 {
		for _, c := range DefaultCategories() {
			if _, err := categories.Create(ctx, c); err != nil {
				return errors.New("seeding category error: " + err.Error())
			}
		}
	}
	existingAchievements, err := achievements.GetAll(ctx)
	if err != nil {
		return errors.New("listing achievements error: " + err.Error())
	}
	if len(existingAchievements) == 0 {
		for _, a := range DefaultAchievements() {
			if _, err := achievements.Create(ctx, a); err != nil {
				return errors.New("seeding achievement error: " + err.Error())
			}
		}
	}
	return nil
}
