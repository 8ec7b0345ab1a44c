package memory

import (
	"context"
	"sync"
	"time"

	errorvalues "github.com/limbo/questboard/internal/error_values"
	"github.com/limbo/questboard/pkg/entity"
)

type AchievementsRepo struct {
	mu            sync.RWMutex
	achievements  map[int64]*entity.Achievement
	earned        map[int64]*entity.UserAchievement
	nextID        int64
	nextAwardedID int64
}

func NewAchievementsRepo() *AchievementsRepo {
	return &AchievementsRepo{
		achievements:  make(map[int64]*entity.Achievement),
		earned:        make(map[int64]*entity.UserAchievement),
		nextID:        1,
		nextAwardedID: 1,
	}
}

func (r *AchievementsRepo) Create(ctx context.Context, achievement *entity.Achievement) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *achievement
	stored.ID = r.nextID
	r.achievements[stored.ID] = &stored
	r.nextID++
	return stored.ID, nil
}

func (r *AchievementsRepo) GetByID(ctx context.Context, id int64) (*entity.Achievement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.achievements[id]
	if !ok {
		return nil, errorvalues.ErrAchievementNotFound
	}
	c := *a
	return &c, nil
}

func (r *AchievementsRepo) GetAll(ctx context.Context) ([]*entity.Achievement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	achievements := sorted(r.achievements)
	for i, a := range achievements {
		c := *a
		achievements[i] = &c
	}
	return achievements, nil
}

func (r *AchievementsRepo) GetEarnedByUser(ctx context.Context, uid int64) ([]*entity.Achievement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Achievement, 0)
	for _, ua := range sorted(r.earned) {
		if ua.UserID != uid {
			continue
		}
		// records of deleted catalog entries are skipped
		if a, ok := r.achievements[ua.AchievementID]; ok {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *AchievementsRepo) Award(ctx context.Context, ua *entity.UserAchievement) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *ua
	stored.ID = r.nextAwardedID
	if stored.EarnedAt.IsZero() {
		stored.EarnedAt = time.Now()
	}
	r.earned[stored.ID] = &stored
	r.nextAwardedID++
	return stored.ID, nil
}
