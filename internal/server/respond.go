package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"blogapi/internal/models"
	"blogapi/internal/validate"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

func writeFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

// writeError maps a service error onto its response. Validation failures
// are written as the bare field map, everything else inside the envelope.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validate.Errors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusUnprocessableEntity, verrs)
	case errors.Is(err, models.ErrCategoryNotFound), errors.Is(err, models.ErrPostNotFound):
		writeFail(w, http.StatusNotFound, err.Error())
	default:
		s.log.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeFail(w, http.StatusInternalServerError, "internal server error")
	}
}

// pathID parses the {id} wildcard. Ids that cannot exist are reported with
// notFound so they read the same as unknown ones.
func pathID(r *http.Request, notFound error) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, notFound
	}
	return id, nil
}
