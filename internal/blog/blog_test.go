package blog

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"blogapi/internal/db"
	"blogapi/internal/models"
	"blogapi/internal/storage"
	"blogapi/internal/validate"
)

var discard = slog.New(slog.DiscardHandler)

func newStore(t *testing.T) *models.Store {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return models.NewStore(database)
}

func newLocal(t *testing.T) *storage.Local {
	t.Helper()
	local, err := storage.NewLocal(filepath.Join(t.TempDir(), "public"))
	require.NoError(t, err)
	return local
}

func solid(shade uint8) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: shade, G: 10, B: 20, A: 255})
		}
	}
	return img
}

func pngImage(t *testing.T, shade uint8) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(shade)))
	return buf.Bytes()
}

func jpegImage(t *testing.T, shade uint8) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(shade), nil))
	return buf.Bytes()
}

func postInput(title, content, categoryID string, img []byte) validate.Input {
	in := validate.Input{Values: map[string]string{
		"title":       title,
		"content":     content,
		"category_id": categoryID,
	}}
	if img != nil {
		in.Files = map[string][]byte{"image": img}
	}
	return in
}

// flakyStorage wraps a Storage and fails the operations switched on.
type flakyStorage struct {
	storage.Storage
	failPut    bool
	failDelete bool
}

var errFlaky = errors.New("storage unavailable")

func (f *flakyStorage) Put(ctx context.Context, ns, key string, data []byte) error {
	if f.failPut {
		return errFlaky
	}
	return f.Storage.Put(ctx, ns, key, data)
}

func (f *flakyStorage) Delete(ctx context.Context, ns, key string) error {
	if f.failDelete {
		return errFlaky
	}
	return f.Storage.Delete(ctx, ns, key)
}

// brokenPosts fails every post write after the ones it lets through.
type brokenPosts struct {
	PostStore
	failCreate bool
	failUpdate bool
}

var errBroken = errors.New("database unavailable")

func (b *brokenPosts) CreatePost(ctx context.Context, p models.Post) (models.Post, error) {
	if b.failCreate {
		return models.Post{}, errBroken
	}
	return b.PostStore.CreatePost(ctx, p)
}

func (b *brokenPosts) UpdatePost(ctx context.Context, p models.Post) (models.Post, error) {
	if b.failUpdate {
		return models.Post{}, errBroken
	}
	return b.PostStore.UpdatePost(ctx, p)
}
