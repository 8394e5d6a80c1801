package server

import (
	"net/http"
	"strings"

	"blogapi/internal/models"
	"blogapi/internal/validate"
)

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.Posts.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, "Post successfully displayed", posts)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	in, err := s.readInput(w, r)
	if err != nil {
		s.writeInputError(w, r, err)
		return
	}
	p, err := s.Posts.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, "data post created successfully", p)
}

func (s *Server) handleShowPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, models.ErrPostNotFound)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.Posts.Show(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, "post successfully displayed", p)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	in, err := s.readInput(w, r)
	if err != nil {
		s.writeInputError(w, r, err)
		return
	}
	s.updatePost(w, r, in)
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request, in validate.Input) {
	id, err := pathID(r, models.ErrPostNotFound)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.Posts.Update(r.Context(), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, "post edited successfully", p)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, models.ErrPostNotFound)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.Posts.Delete(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, "delete data successfully", p)
}

func (s *Server) handlePostOverride(w http.ResponseWriter, r *http.Request) {
	in, err := s.readInput(w, r)
	if err != nil {
		s.writeInputError(w, r, err)
		return
	}
	switch overrideMethod(in) {
	case http.MethodPut, http.MethodPatch:
		s.updatePost(w, r, in)
	case http.MethodDelete:
		s.handleDeletePost(w, r)
	default:
		methodNotAllowed(w)
	}
}

func overrideMethod(in validate.Input) string {
	return strings.ToUpper(strings.TrimSpace(in.Values["_method"]))
}

func methodNotAllowed(w http.ResponseWriter) {
	w.Header().Set("Allow", "GET, PUT, PATCH, DELETE")
	writeFail(w, http.StatusMethodNotAllowed, "method not allowed")
}
