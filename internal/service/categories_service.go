package service

import (
	"context"
	"errors"

	errorvalues "github.com/limbo/questboard/internal/error_values"
	"github.com/limbo/questboard/internal/repository"
	"github.com/limbo/questboard/pkg/entity"
)

type CategoriesService struct {
	repo repository.CategoriesRepositoryI
}

func NewCategoriesService(repo repository.CategoriesRepositoryI) *CategoriesService {
	return &CategoriesService{repo: repo}
}

func (cs *CategoriesService) CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*entity.Category, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	category := &entity.Category{
		Name:   req.Name,
		Color:  req.Color,
		UserID: req.UserID,
	}
	id, err := cs.repo.Create(ctx, category)
	if err != nil {
		return nil, errors.New("repository creating error: " + err.Error())
	}
	category.ID = id
	return category, nil
}

func (cs *CategoriesService) GetCategory(ctx context.Context, id int64) (*entity.Category, error) {
	category, err := cs.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrCategoryNotFound) {
			return nil, err
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	return category, nil
}

func (cs *CategoriesService) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	categories, err := cs.repo.GetAll(ctx)
	if err != nil {
		return nil, errors.New("repository listing error: " + err.Error())
	}
	return categories, nil
}

func (cs *CategoriesService) UpdateCategory(ctx context.Context, id int64, req *UpdateCategoryRequest) (*entity.Category, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	category, err := cs.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if err = cs.repo.Update(ctx, category); err != nil {
		if errors.Is(err, errorvalues.ErrCategoryNotFound) {
			return nil, err
		}
		return nil, errors.New("repository updating error: " + err.Error())
	}
	return category, nil
}

// DeleteCategory removes category only. Tasks keep their dangling category id.
func (cs *CategoriesService) DeleteCategory(ctx context.Context, id int64) error {
	if err := cs.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, errorvalues.ErrCategoryNotFound) {
			return err
		}
		return errors.New("repository deletion error: " + err.Error())
	}
	return nil
}
