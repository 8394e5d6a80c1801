package models

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Store persists categories and posts in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Ping reports whether the underlying database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Categories

func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at, updated_at FROM categories ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) CreateCategory(ctx context.Context, name string) (Category, error) {
	now := s.now()
	res, err := s.db.ExecContext(ctx, `INSERT INTO categories (name, created_at, updated_at) VALUES (?, ?, ?)`, name, now, now)
	if err != nil {
		return Category{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Category{}, err
	}
	return Category{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

func (s *Store) GetCategory(ctx context.Context, id int64) (Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, created_at, updated_at FROM categories WHERE id = ?`, id)
	var c Category
	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Category{}, ErrCategoryNotFound
		}
		return Category{}, err
	}
	return c, nil
}

// UpdateCategory writes c.Name and bumps UpdatedAt.
func (s *Store) UpdateCategory(ctx context.Context, c Category) (Category, error) {
	c.UpdatedAt = s.now()
	res, err := s.db.ExecContext(ctx, `UPDATE categories SET name = ?, updated_at = ? WHERE id = ?`, c.Name, c.UpdatedAt, c.ID)
	if err != nil {
		return Category{}, err
	}
	if err := expectOne(res, ErrCategoryNotFound); err != nil {
		return Category{}, err
	}
	return c, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOne(res, ErrCategoryNotFound)
}

// Posts

const postColumns = `id, title, content, category_id, image, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.CategoryID, &p.Image, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) ListPosts(ctx context.Context) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	posts := []Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// CreatePost inserts p and returns it with its id and timestamps filled in.
func (s *Store) CreatePost(ctx context.Context, p Post) (Post, error) {
	now := s.now()
	res, err := s.db.ExecContext(ctx, `INSERT INTO posts (title, content, category_id, image, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.Title, p.Content, p.CategoryID, p.Image, now, now)
	if err != nil {
		return Post{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Post{}, err
	}
	p.ID, p.CreatedAt, p.UpdatedAt = id, now, now
	return p, nil
}

func (s *Store) GetPost(ctx context.Context, id int64) (Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Post{}, ErrPostNotFound
		}
		return Post{}, err
	}
	return p, nil
}

// UpdatePost writes every mutable column of p, including Image.
func (s *Store) UpdatePost(ctx context.Context, p Post) (Post, error) {
	p.UpdatedAt = s.now()
	res, err := s.db.ExecContext(ctx, `UPDATE posts SET title = ?, content = ?, category_id = ?, image = ?, updated_at = ? WHERE id = ?`,
		p.Title, p.Content, p.CategoryID, p.Image, p.UpdatedAt, p.ID)
	if err != nil {
		return Post{}, err
	}
	if err := expectOne(res, ErrPostNotFound); err != nil {
		return Post{}, err
	}
	return p, nil
}

func (s *Store) DeletePost(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOne(res, ErrPostNotFound)
}

// CountImageRefs returns how many posts point at the given image key.
func (s *Store) CountImageRefs(ctx context.Context, key string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE image = ?`, key).Scan(&n)
	return n, err
}

// ImageKeys returns the set of image keys referenced by any post.
func (s *Store) ImageKeys(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT image FROM posts WHERE image <> ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	keys := map[string]struct{}{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys[k] = struct{}{}
	}
	return keys, rows.Err()
}

func expectOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
