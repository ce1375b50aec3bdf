package categories

import (
	"context"
	"fmt"

	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/metrics"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/storage"
)

type CategoryDBLayer interface {
	Create(ctx context.Context, row *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	List(ctx context.Context, offset, limit int) ([]models.Category, error)
	Update(ctx context.Context, id int64, patch storage.Patch[models.Category]) (*models.Category, error)
	Delete(ctx context.Context, id int64) error
}

// CategoryService relies on the unique index on name: a duplicate on create or rename
// comes back from storage as a Conflict.
type CategoryService struct {
	DB     CategoryDBLayer
	Logger *logger.Logger
}

func NewCategoryService(db CategoryDBLayer, log *logger.Logger) *CategoryService {
	return &CategoryService{DB: db, Logger: log}
}

func (s *CategoryService) CreateCategory(ctx context.Context, in models.CategoryCreate) (*models.Category, error) {
	cat := in.ToModel()
	err := s.DB.Create(ctx, cat)
	metrics.RecordOperation("category", "create", err)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.Logger.LogResource("category", "created", cat.ID)
	return cat, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	cat, err := s.DB.GetByID(ctx, id)
	metrics.RecordOperation("category", "get", err)
	if err != nil {
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	return cat, nil
}

func (s *CategoryService) ListCategories(ctx context.Context, skip, limit int) ([]models.Category, error) {
	list, err := s.DB.List(ctx, skip, limit)
	metrics.RecordOperation("category", "list", err)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return list, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, in models.CategoryUpdate) (*models.Category, error) {
	cat, err := s.DB.Update(ctx, id, in)
	metrics.RecordOperation("category", "update", err)
	if err != nil {
		return nil, fmt.Errorf("update category %d: %w", id, err)
	}
	return cat, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	err := s.DB.Delete(ctx, id)
	metrics.RecordOperation("category", "delete", err)
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return nil
}
