package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"blogapi/internal/blog"
	"blogapi/internal/models"
	"blogapi/internal/storage"
)

// DefaultMaxUploadBytes caps request bodies when Config leaves it unset.
const DefaultMaxUploadBytes = 10 << 20

type Config struct {
	MaxUploadBytes int64
}

// Server serves the category and post JSON API.
type Server struct {
	Categories *blog.CategoryService
	Posts      *blog.PostService

	store     *models.Store
	blobs     storage.Storage
	log       *slog.Logger
	maxUpload int64
	handler   http.Handler
}

func New(store *models.Store, blobs storage.Storage, logger *slog.Logger, cfg Config) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	s := &Server{
		Categories: blog.NewCategoryService(store, logger),
		Posts:      blog.NewPostService(store, blobs, logger),
		store:      store,
		blobs:      blobs,
		log:        logger,
		maxUpload:  cfg.MaxUploadBytes,
	}
	s.handler = s.withRequestLog(s.withRecover(s.routes()))
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /categories", s.handleListCategories)
	mux.HandleFunc("POST /categories", s.handleCreateCategory)
	mux.HandleFunc("GET /categories/{id}", s.handleGetCategory)
	mux.HandleFunc("PUT /categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("PATCH /categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /categories/{id}", s.handleDeleteCategory)
	mux.HandleFunc("POST /categories/{id}", s.handleCategoryOverride)

	mux.HandleFunc("GET /posts", s.handleListPosts)
	mux.HandleFunc("POST /posts", s.handleCreatePost)
	mux.HandleFunc("GET /posts/{id}", s.handleShowPost)
	mux.HandleFunc("PUT /posts/{id}", s.handleUpdatePost)
	mux.HandleFunc("PATCH /posts/{id}", s.handleUpdatePost)
	mux.HandleFunc("DELETE /posts/{id}", s.handleDeletePost)
	mux.HandleFunc("POST /posts/{id}", s.handlePostOverride)

	mux.HandleFunc("GET /storage/posts/{key}", s.handlePostImage)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Sweep runs the orphan image sweep once, then every interval until ctx is
// done. A zero interval means once only.
func (s *Server) Sweep(ctx context.Context, interval time.Duration) {
	s.sweepOnce(ctx)
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Server) sweepOnce(ctx context.Context) {
	n, err := s.Posts.SweepOrphans(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "orphan image sweep", "err", err)
		return
	}
	s.log.DebugContext(ctx, "orphan image sweep done", "removed", n)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.log.ErrorContext(r.Context(), "health check", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
