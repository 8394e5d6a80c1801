package server

import (
	"errors"
	"net/http"
	"strconv"

	"blogapi/internal/blog"
	"blogapi/internal/storage"
)

// handlePostImage serves a stored post image by key. Keys are content
// hashes, so a response never goes stale.
func (s *Server) handlePostImage(w http.ResponseWriter, r *http.Request) {
	data, err := s.blobs.Get(r.Context(), blog.ImageNamespace, r.PathValue("key"))
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.log.ErrorContext(r.Context(), "read image", "key", r.PathValue("key"), "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
