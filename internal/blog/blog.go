// Package blog implements the category and post operations on top of the
// record store and, for post images, the blob storage.
package blog

import (
	"context"
	"strconv"
	"strings"

	"blogapi/internal/models"
)

// CategoryStore is the persistence the category service needs.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, name string) (models.Category, error)
	GetCategory(ctx context.Context, id int64) (models.Category, error)
	UpdateCategory(ctx context.Context, c models.Category) (models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// PostStore is the persistence the post service needs.
type PostStore interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	CreatePost(ctx context.Context, p models.Post) (models.Post, error)
	GetPost(ctx context.Context, id int64) (models.Post, error)
	UpdatePost(ctx context.Context, p models.Post) (models.Post, error)
	DeletePost(ctx context.Context, id int64) error
	CountImageRefs(ctx context.Context, key string) (int, error)
	ImageKeys(ctx context.Context) (map[string]struct{}, error)
}

func field(values map[string]string, name string) string {
	return strings.TrimSpace(values[name])
}

// intField parses a value the schema has already checked as an integer.
func intField(values map[string]string, name string) int64 {
	n, _ := strconv.ParseInt(field(values, name), 10, 64)
	return n
}
