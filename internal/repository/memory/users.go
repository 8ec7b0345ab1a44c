package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	errorvalues "github.com/limbo/questboard/internal/error_values"
	"github.com/limbo/questboard/pkg/entity"
)

type UsersRepo struct {
	mu     sync.RWMutex
	users  map[int64]*entity.User
	nextID int64
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		users:  make(map[int64]*entity.User),
		nextID: 1,
	}
}

func (r *UsersRepo) Create(ctx context.Context, user *entity.User) (int64, error) {
	if user == nil {
		return 0, errors.New("user is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username {
			return 0, errorvalues.ErrUserExists
		}
	}
	stored := *user
	stored.ID = r.nextID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.users[stored.ID] = &stored
	r.nextID++
	return stored.ID, nil
}

func (r *UsersRepo) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, errorvalues.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r *UsersRepo) FindByName(ctx context.Context, name string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == name {
			c := *u
			return &c, nil
		}
	}
	return nil, errorvalues.ErrUserNotFound
}

func (r *UsersRepo) GetAll(ctx context.Context) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := sorted(r.users)
	for i, u := range users {
		c := *u
		users[i] = &c
	}
	return users, nil
}

func (r *UsersRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[user.ID]
	if !ok {
		return errorvalues.ErrUserNotFound
	}
	for _, other := range r.users {
		if other.ID != user.ID && other.Username == user.Username {
			return errorvalues.ErrUserExists
		}
	}
	u.Username = user.Username
	u.Region = user.Region
	u.Country = user.Country
	return nil
}

func (r *UsersRepo) UpdateScore(ctx context.Context, id int64, score int, level entity.Level) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return errorvalues.ErrUserNotFound
	}
	u.Score = score
	u.Level = level
	return nil
}

func (r *UsersRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return errorvalues.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}
