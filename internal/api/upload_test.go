package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/conflab/roomsvc/internal/api"
	"github.com/conflab/roomsvc/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUploadHandler(t *testing.T, maxSize int64, tokens ...string) (*api.UploadHandler, string) {
	t.Helper()
	dir := t.TempDir()
	auth := api.NewAuthMiddlewareWithConfig(config.AdminConfig{APITokens: tokens})
	return api.NewUploadHandlerWithConfig(config.UploadConfig{Dir: dir, MaxSize: maxSize}, auth), dir
}

func multipartRequest(t *testing.T, room, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("room", room))
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadStoresFile(t *testing.T) {
	handler, dir := newUploadHandler(t, 1<<20)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartRequest(t, "r1", "Slide.PNG", []byte("image-bytes")))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success bool   `json:"success"`
		File    string `json:"file"`
		Path    string `json:"path"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, strings.HasSuffix(resp.File, ".png"), "extension is lowercased: %s", resp.File)
	assert.Equal(t, "/api/files/r1/"+resp.File, resp.Path)

	stored, err := os.ReadFile(filepath.Join(dir, "r1", resp.File))
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), stored)
}

func TestUploadTooLargeWritesNothing(t *testing.T) {
	handler, dir := newUploadHandler(t, 64)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartRequest(t, "r1", "big.bin", bytes.Repeat([]byte("x"), 4096)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no file or directory is created for rejected uploads")
}

func TestUploadMissingRoom(t *testing.T) {
	handler, _ := newUploadHandler(t, 1<<20)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "a.txt")
	require.NoError(t, err)
	_, err = io.WriteString(part, "hi")
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRejectsTraversalRoom(t *testing.T) {
	handler, _ := newUploadHandler(t, 1<<20)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartRequest(t, "..", "a.txt", []byte("hi")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func fsOp(t *testing.T, handler http.Handler, body map[string]any, token string) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestListFiles(t *testing.T) {
	handler, dir := newUploadHandler(t, 1<<20)

	t.Run("EmptyRoom", func(t *testing.T) {
		rec := fsOp(t, handler, map[string]any{"action": "fs", "op": "list", "room": "r1"}, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"files":[]}`, rec.Body.String())
	})

	t.Run("WithFiles", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "r1"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "r1", "a.png"), []byte("x"), 0o644))

		rec := fsOp(t, handler, map[string]any{"action": "fs", "op": "list", "room": "r1"}, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"files":["a.png"]}`, rec.Body.String())
	})
}

func TestRemoveFileRequiresAuth(t *testing.T) {
	handler, dir := newUploadHandler(t, 1<<20, "secret")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "r1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "r1", "a.png"), []byte("x"), 0o644))

	remove := map[string]any{"action": "fs", "op": "remove", "room": "r1", "file": "a.png"}

	t.Run("NoToken", func(t *testing.T) {
		rec := fsOp(t, handler, remove, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.FileExists(t, filepath.Join(dir, "r1", "a.png"))
	})

	t.Run("WrongToken", func(t *testing.T) {
		rec := fsOp(t, handler, remove, "nope")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("ValidToken", func(t *testing.T) {
		rec := fsOp(t, handler, remove, "secret")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NoFileExists(t, filepath.Join(dir, "r1", "a.png"))
	})

	t.Run("MissingFileIs404", func(t *testing.T) {
		rec := fsOp(t, handler, remove, "secret")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestFSValidation(t *testing.T) {
	handler, _ := newUploadHandler(t, 1<<20, "secret")

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"UnknownAction", map[string]any{"action": "purge", "op": "list", "room": "r1"}, http.StatusBadRequest},
		{"UnknownOp", map[string]any{"action": "fs", "op": "rename", "room": "r1"}, http.StatusBadRequest},
		{"MissingRoom", map[string]any{"action": "fs", "op": "list"}, http.StatusBadRequest},
		{"TraversalFile", map[string]any{"action": "fs", "op": "remove", "room": "r1", "file": "../a"}, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := fsOp(t, handler, tc.body, "secret")
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestUploadMethodNotAllowed(t *testing.T) {
	handler, _ := newUploadHandler(t, 1<<20)
	req := httptest.NewRequest(http.MethodGet, "/api/upload", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
