package blog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"blogapi/internal/models"
	"blogapi/internal/storage"
	"blogapi/internal/validate"
)

// ImageNamespace is the storage namespace holding post images.
const ImageNamespace = "posts"

// PostService manages posts and the blobs their image keys point at.
//
// Keys are derived from image contents, so posts uploading the same bytes
// share one blob. A blob is only removed once no post references it.
type PostService struct {
	store PostStore
	blobs storage.Storage
	log   *slog.Logger

	// imageMu serializes the steps that move image references around, so a
	// reference check never races with a blob being written or claimed.
	imageMu sync.Mutex
}

func NewPostService(store PostStore, blobs storage.Storage, logger *slog.Logger) *PostService {
	return &PostService{store: store, blobs: blobs, log: logger}
}

// List returns all posts, newest first.
func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	return s.store.ListPosts(ctx)
}

// Show returns models.ErrPostNotFound when id does not exist.
func (s *PostService) Show(ctx context.Context, id int64) (models.Post, error) {
	return s.store.GetPost(ctx, id)
}

// Create validates every field, stores the image and inserts the post.
// Nothing is written when validation fails.
func (s *PostService) Create(ctx context.Context, in validate.Input) (models.Post, error) {
	if err := validate.PostCreateSchema.Check(in); err != nil {
		return models.Post{}, err
	}
	data := in.Files["image"]
	key, err := imageKey(data)
	if err != nil {
		return models.Post{}, err
	}

	s.imageMu.Lock()
	defer s.imageMu.Unlock()

	if err := s.blobs.Put(ctx, ImageNamespace, key, data); err != nil {
		return models.Post{}, fmt.Errorf("store image: %w", err)
	}
	p, err := s.store.CreatePost(ctx, models.Post{
		Title:      field(in.Values, "title"),
		Content:    field(in.Values, "content"),
		CategoryID: intField(in.Values, "category_id"),
		Image:      key,
	})
	if err != nil {
		s.release(ctx, key)
		return models.Post{}, fmt.Errorf("create post: %w", err)
	}
	s.log.InfoContext(ctx, "post created", "post_id", p.ID, "image", key)
	return p, nil
}

// Update rewrites title, content and category. When in carries an image the
// new blob is stored first, the post is pointed at it, and only then is the
// old blob released. Without an image the key and blob are untouched.
func (s *PostService) Update(ctx context.Context, id int64, in validate.Input) (models.Post, error) {
	if err := validate.PostUpdateSchema.Check(in); err != nil {
		return models.Post{}, err
	}
	data, hasImage := in.Files["image"]
	hasImage = hasImage && len(data) > 0

	var key string
	if hasImage {
		var err error
		if key, err = imageKey(data); err != nil {
			return models.Post{}, err
		}
	}

	// Held for both branches: the row write carries the image column, which
	// must not be rolled back to a key another update just released.
	s.imageMu.Lock()
	defer s.imageMu.Unlock()

	p, err := s.store.GetPost(ctx, id)
	if err != nil {
		return models.Post{}, err
	}
	p.Title = field(in.Values, "title")
	p.Content = field(in.Values, "content")
	p.CategoryID = intField(in.Values, "category_id")

	if !hasImage {
		return s.store.UpdatePost(ctx, p)
	}

	if err := s.blobs.Put(ctx, ImageNamespace, key, data); err != nil {
		return models.Post{}, fmt.Errorf("store image: %w", err)
	}
	old := p.Image
	p.Image = key
	updated, err := s.store.UpdatePost(ctx, p)
	if err != nil {
		if key != old {
			s.release(ctx, key)
		}
		return models.Post{}, fmt.Errorf("update post: %w", err)
	}
	if old != "" && old != key {
		s.release(ctx, old)
	}
	s.log.InfoContext(ctx, "post image replaced", "post_id", id, "old_image", old, "image", key)
	return updated, nil
}

// Delete removes the post, then its image blob, and returns the post as it
// was. Removing the row first means a crash in between leaves an orphan blob
// for SweepOrphans instead of a post pointing at nothing.
func (s *PostService) Delete(ctx context.Context, id int64) (models.Post, error) {
	s.imageMu.Lock()
	defer s.imageMu.Unlock()

	p, err := s.store.GetPost(ctx, id)
	if err != nil {
		return models.Post{}, err
	}
	if err := s.store.DeletePost(ctx, id); err != nil {
		return models.Post{}, err
	}
	if p.Image != "" {
		s.release(ctx, p.Image)
	}
	s.log.InfoContext(ctx, "post deleted", "post_id", id)
	return p, nil
}

// SweepOrphans deletes every blob in the image namespace that no post
// references and returns how many were removed.
func (s *PostService) SweepOrphans(ctx context.Context) (int, error) {
	s.imageMu.Lock()
	defer s.imageMu.Unlock()

	keys, err := s.blobs.List(ctx, ImageNamespace)
	if err != nil {
		return 0, fmt.Errorf("list images: %w", err)
	}
	live, err := s.store.ImageKeys(ctx)
	if err != nil {
		return 0, fmt.Errorf("load image refs: %w", err)
	}
	removed := 0
	for _, key := range keys {
		if _, ok := live[key]; ok {
			continue
		}
		if err := s.blobs.Delete(ctx, ImageNamespace, key); err != nil {
			return removed, fmt.Errorf("delete orphan %s: %w", key, err)
		}
		removed++
	}
	if removed > 0 {
		s.log.InfoContext(ctx, "orphan images removed", "count", removed)
	}
	return removed, nil
}

// release deletes the blob for key unless a post still references it.
// Failures are logged; the caller's operation has already succeeded.
// Callers hold imageMu.
func (s *PostService) release(ctx context.Context, key string) {
	n, err := s.store.CountImageRefs(ctx, key)
	if err != nil {
		s.log.WarnContext(ctx, "count image refs", "image", key, "err", err)
		return
	}
	if n > 0 {
		return
	}
	if err := s.blobs.Delete(ctx, ImageNamespace, key); err != nil {
		s.log.WarnContext(ctx, "delete image", "image", key, "err", err)
	}
}

func imageKey(data []byte) (string, error) {
	format, err := validate.DetectImage(data)
	if err != nil {
		return "", fmt.Errorf("detect image: %w", err)
	}
	return storage.HashName(data, validate.Extension(format)), nil
}
