package server

import (
	"net/http"

	"blogapi/internal/models"
	"blogapi/internal/validate"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.Categories.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, "category successfully displayed", categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	in, err := s.readInput(w, r)
	if err != nil {
		s.writeInputError(w, r, err)
		return
	}
	c, err := s.Categories.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, "category created successfully", c)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, models.ErrCategoryNotFound)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.Categories.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, "category successfully displayed", c)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	in, err := s.readInput(w, r)
	if err != nil {
		s.writeInputError(w, r, err)
		return
	}
	s.updateCategory(w, r, in)
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request, in validate.Input) {
	id, err := pathID(r, models.ErrCategoryNotFound)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.Categories.Update(r.Context(), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, "category edited successfully", c)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, models.ErrCategoryNotFound)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.Categories.Delete(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, "delete category data successfully", c)
}

// handleCategoryOverride serves form clients that tunnel PUT, PATCH and
// DELETE through POST with a _method field.
func (s *Server) handleCategoryOverride(w http.ResponseWriter, r *http.Request) {
	in, err := s.readInput(w, r)
	if err != nil {
		s.writeInputError(w, r, err)
		return
	}
	switch overrideMethod(in) {
	case http.MethodPut, http.MethodPatch:
		s.updateCategory(w, r, in)
	case http.MethodDelete:
		s.handleDeleteCategory(w, r)
	default:
		methodNotAllowed(w)
	}
}
