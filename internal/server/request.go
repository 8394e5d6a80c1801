package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"blogapi/internal/validate"
)

var errBadBody = errors.New("malformed request body")

// readInput decodes a JSON object, a urlencoded form or a multipart form into
// validate.Input. Only the first value of a repeated field is kept.
func (s *Server) readInput(w http.ResponseWriter, r *http.Request) (validate.Input, error) {
	in := validate.Input{Values: map[string]string{}, Files: map[string][]byte{}}
	if r.Body == nil || r.Body == http.NoBody {
		return in, nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		return in, readJSON(r.Body, in.Values)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(s.maxUpload); err != nil {
			return in, fmt.Errorf("%w: %w", errBadBody, err)
		}
		defer r.MultipartForm.RemoveAll()
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				in.Values[k] = v[0]
			}
		}
		for k, headers := range r.MultipartForm.File {
			if len(headers) == 0 {
				continue
			}
			f, err := headers[0].Open()
			if err != nil {
				return in, err
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return in, err
			}
			in.Files[k] = data
		}
	default:
		if err := r.ParseForm(); err != nil {
			return in, fmt.Errorf("%w: %w", errBadBody, err)
		}
		for k, v := range r.PostForm {
			if len(v) > 0 {
				in.Values[k] = v[0]
			}
		}
	}
	return in, nil
}

// readJSON flattens a JSON object into string values. Null fields count as
// not sent.
func readJSON(body io.Reader, values map[string]string) error {
	dec := json.NewDecoder(body)
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %w", errBadBody, err)
	}
	for k, v := range raw {
		switch v := v.(type) {
		case nil:
		case string:
			values[k] = v
		case json.Number:
			values[k] = v.String()
		case bool:
			values[k] = strconv.FormatBool(v)
		default:
			b, _ := json.Marshal(v)
			values[k] = string(b)
		}
	}
	return nil
}

// writeInputError answers a body that could not be decoded.
func (s *Server) writeInputError(w http.ResponseWriter, r *http.Request, err error) {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		writeFail(w, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.Is(err, errBadBody):
		writeFail(w, http.StatusBadRequest, "malformed request body")
	default:
		s.writeError(w, r, err)
	}
}
