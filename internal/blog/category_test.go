package blog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogapi/internal/models"
	"blogapi/internal/validate"
)

func name(n string) validate.Input {
	return validate.Input{Values: map[string]string{"name": n}}
}

func TestCategoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(newStore(t), discard)

	_, err := svc.Create(ctx, name("Tech"))
	require.NoError(t, err)
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Tech", list[0].Name)

	_, err = svc.Create(ctx, name("News"))
	require.NoError(t, err)
	list, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "News", list[0].Name)
	assert.Equal(t, "Tech", list[1].Name)
}

func TestCategoryCreateValidation(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := NewCategoryService(store, discard)

	_, err := svc.Create(ctx, validate.Input{})
	var verrs validate.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "name")

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCategoryUpdate(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(newStore(t), discard)

	c, err := svc.Create(ctx, name("Tech"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, c.ID, name("Technology"))
	require.NoError(t, err)
	assert.Equal(t, c.ID, updated.ID)
	assert.Equal(t, "Technology", updated.Name)

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Technology", got.Name)

	_, err = svc.Update(ctx, c.ID, name(""))
	var verrs validate.Errors
	assert.True(t, errors.As(err, &verrs))

	_, err = svc.Update(ctx, 404, name("x"))
	assert.ErrorIs(t, err, models.ErrCategoryNotFound)
}

func TestCategoryDeleteReturnsSnapshot(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(newStore(t), discard)

	c, err := svc.Create(ctx, name("Tech"))
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, deleted.ID)
	assert.Equal(t, "Tech", deleted.Name)

	_, err = svc.Get(ctx, c.ID)
	assert.ErrorIs(t, err, models.ErrCategoryNotFound)
	_, err = svc.Delete(ctx, c.ID)
	assert.ErrorIs(t, err, models.ErrCategoryNotFound)
}

func TestCategoryDeleteLeavesPosts(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	categories := NewCategoryService(store, discard)
	posts := NewPostService(store, newLocal(t), discard)

	c, err := categories.Create(ctx, name("Tech"))
	require.NoError(t, err)
	p, err := posts.Create(ctx, postInput("t", "c", itoa(c.ID), pngImage(t, 1)))
	require.NoError(t, err)

	_, err = categories.Delete(ctx, c.ID)
	require.NoError(t, err)

	got, err := posts.Show(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.CategoryID)
}
