package blog

import (
	"context"
	"fmt"
	"log/slog"

	"blogapi/internal/models"
	"blogapi/internal/validate"
)

// CategoryService is plain CRUD over the category store.
type CategoryService struct {
	store CategoryStore
	log   *slog.Logger
}

func NewCategoryService(store CategoryStore, logger *slog.Logger) *CategoryService {
	return &CategoryService{store: store, log: logger}
}

// List returns all categories, newest first.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *CategoryService) Create(ctx context.Context, in validate.Input) (models.Category, error) {
	if err := validate.CategorySchema.Check(in); err != nil {
		return models.Category{}, err
	}
	c, err := s.store.CreateCategory(ctx, field(in.Values, "name"))
	if err != nil {
		return models.Category{}, fmt.Errorf("create category: %w", err)
	}
	s.log.InfoContext(ctx, "category created", "category_id", c.ID)
	return c, nil
}

// Get returns models.ErrCategoryNotFound when id does not exist.
func (s *CategoryService) Get(ctx context.Context, id int64) (models.Category, error) {
	return s.store.GetCategory(ctx, id)
}

func (s *CategoryService) Update(ctx context.Context, id int64, in validate.Input) (models.Category, error) {
	if err := validate.CategorySchema.Check(in); err != nil {
		return models.Category{}, err
	}
	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return models.Category{}, err
	}
	c.Name = field(in.Values, "name")
	return s.store.UpdateCategory(ctx, c)
}

// Delete removes the category and returns it as it was. Posts that still
// reference the category are left alone.
func (s *CategoryService) Delete(ctx context.Context, id int64) (models.Category, error) {
	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return models.Category{}, err
	}
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return models.Category{}, err
	}
	s.log.InfoContext(ctx, "category deleted", "category_id", id)
	return c, nil
}
