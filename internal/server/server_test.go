package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogapi/internal/db"
	"blogapi/internal/models"
	"blogapi/internal/storage"
)

func newTestServer(t *testing.T) (*Server, storage.Storage) {
	t.Helper()
	dir := t.TempDir()
	database, err := db.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	blobs, err := storage.NewLocal(filepath.Join(dir, "public"))
	require.NoError(t, err)
	srv := New(models.NewStore(database), blobs, slog.New(slog.DiscardHandler), Config{MaxUploadBytes: 1 << 20})
	return srv, blobs
}

type response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, srv http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) response {
	t.Helper()
	var resp response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp
}

func jsonRequest(method, target string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, image []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func pngImage(t *testing.T, shade uint8) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	img.Set(1, 1, color.RGBA{R: shade, B: 9, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRequestIDHeader(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(t, srv, httptest.NewRequest(http.MethodGet, "/categories", nil))
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = do(t, srv, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(t, srv, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMalformedBodies(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := do(t, srv, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, decode(t, w, nil).Success)

	big := jsonRequest(http.MethodPost, "/categories", map[string]string{"name": strings.Repeat("x", 2<<20)})
	w = do(t, srv, big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestUnknownMethod(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(t, srv, httptest.NewRequest(http.MethodPut, "/categories", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestOverrideWithoutMethod(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(t, srv, formRequest(http.MethodPost, "/categories/1", url.Values{"name": {"x"}}))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestReadJSONFlattensValues(t *testing.T) {
	values := map[string]string{}
	body := `{"title":"t","category_id":12,"draft":true,"gone":null,"tags":["a"]}`
	require.NoError(t, readJSON(strings.NewReader(body), values))

	assert.Equal(t, map[string]string{
		"title":       "t",
		"category_id": "12",
		"draft":       "true",
		"tags":        `["a"]`,
	}, values)
}
