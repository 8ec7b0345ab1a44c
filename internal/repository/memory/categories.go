package memory

import (
	"context"
	"sync"

	errorvalues "github.com/limbo/questboard/internal/error_values"
	"github.com/limbo/questboard/pkg/entity"
)

type CategoriesRepo struct {
	mu         sync.RWMutex
	categories map[int64]*entity.Category
	nextID     int64
}

func NewCategoriesRepo() *CategoriesRepo {
	return &CategoriesRepo{
		categories: make(map[int64]*entity.Category),
		nextID:     1,
	}
}

func (r *CategoriesRepo) Create(ctx context.Context, category *entity.Category) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyCategory(category)
	stored.ID = r.nextID
	r.categories[stored.ID] = stored
	r.nextID++
	return stored.ID, nil
}

func (r *CategoriesRepo) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[id]
	if !ok {
		return nil, errorvalues.ErrCategoryNotFound
	}
	return copyCategory(c), nil
}

func (r *CategoriesRepo) GetAll(ctx context.Context) ([]*entity.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := sorted(r.categories)
	for i, c := range categories {
		categories[i] = copyCategory(c)
	}
	return categories, nil
}

func (r *CategoriesRepo) Update(ctx context.Context, category *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[category.ID]; !ok {
		return errorvalues.ErrCategoryNotFound
	}
	r.categories[category.ID] = copyCategory(category)
	return nil
}

func (r *CategoriesRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[id]; !ok {
		return errorvalues.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

func copyCategory(c *entity.Category) *entity.Category {
	out := *c
	out.UserID = ptr(c.UserID)
	return &out
}
