package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/conflab/roomsvc/internal/config"
	"github.com/conflab/roomsvc/internal/utils"
	"github.com/oklog/ulid/v2"
)

// UploadHandler stores room attachments under uploads/<room>/<ulid><ext> and
// services list/remove operations against that directory
type UploadHandler struct {
	cfg  config.UploadConfig
	auth *AuthMiddleware
}

// NewUploadHandler creates an upload handler from environment configuration
func NewUploadHandler(auth *AuthMiddleware) *UploadHandler {
	return NewUploadHandlerWithConfig(config.GetUploadConfig(), auth)
}

// NewUploadHandlerWithConfig creates an upload handler with explicit
// configuration; primarily used by tests
func NewUploadHandlerWithConfig(cfg config.UploadConfig, auth *AuthMiddleware) *UploadHandler {
	return &UploadHandler{cfg: cfg, auth: auth}
}

// fsRequest is the JSON body of directory operations against the upload store
type fsRequest struct {
	Action string `json:"action"` // must be "fs"
	Op     string `json:"op"`     // "list" or "remove"
	Room   string `json:"room"`
	File   string `json:"file,omitempty"`
}

// ServeHTTP handles POST /api/upload
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		h.handleFS(w, r)
		return
	}

	h.handleUpload(w, r)
}

// handleUpload writes a multipart file under the room's upload directory.
// The size cap is enforced before anything touches the filesystem.
func (h *UploadHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.cfg.MaxSize {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}
	// Backstop for chunked requests that do not declare a length
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxSize)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		log.Printf("Error parsing multipart form: %v", err)
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	room := r.FormValue("room")
	if !validName(room) {
		writeError(w, http.StatusBadRequest, "room is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	name := ulid.Make().String() + strings.ToLower(filepath.Ext(header.Filename))
	dir := filepath.Join(h.cfg.Dir, room)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("Error creating upload directory: %v", err)
		writeError(w, http.StatusInternalServerError, "error storing file")
		return
	}

	path := filepath.Join(dir, name)
	dst, err := os.Create(path)
	if err != nil {
		log.Printf("Error creating upload file: %v", err)
		writeError(w, http.StatusInternalServerError, "error storing file")
		return
	}

	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(path)
		log.Printf("Error writing upload: %v", err)
		writeError(w, http.StatusInternalServerError, "error storing file")
		return
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		log.Printf("Error closing upload: %v", err)
		writeError(w, http.StatusInternalServerError, "error storing file")
		return
	}

	log.Printf("Stored upload %s for room %s", name, utils.SanitizeLogString(room))
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"file":    name,
		"path":    "/api/files/" + room + "/" + name,
	})
}

// handleFS services list/remove operations against a room's upload directory
func (h *UploadHandler) handleFS(w http.ResponseWriter, r *http.Request) {
	var req fsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding fs request: %v", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	if req.Action != "fs" {
		writeError(w, http.StatusBadRequest, "unsupported action")
		return
	}
	if !validName(req.Room) {
		writeError(w, http.StatusBadRequest, "room is required")
		return
	}

	switch req.Op {
	case "list":
		h.listFiles(w, req.Room)
	case "remove":
		// Deleting stored files is an admin operation
		if code, ok := h.auth.Authorize(r); !ok {
			writeError(w, code, "access denied")
			return
		}
		h.removeFile(w, req.Room, req.File)
	default:
		writeError(w, http.StatusBadRequest, "unsupported op")
	}
}

// listFiles returns the names of a room's stored uploads
func (h *UploadHandler) listFiles(w http.ResponseWriter, room string) {
	entries, err := os.ReadDir(filepath.Join(h.cfg.Dir, room))
	if err != nil {
		if os.IsNotExist(err) {
			// A room with no uploads lists as empty, not as an error
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "files": []string{}})
			return
		}
		log.Printf("Error listing uploads: %v", err)
		writeError(w, http.StatusInternalServerError, "error listing files")
		return
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "files": files})
}

// removeFile deletes one stored upload
func (h *UploadHandler) removeFile(w http.ResponseWriter, room, file string) {
	if !validName(file) {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}

	path := filepath.Join(h.cfg.Dir, room, file)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}
		log.Printf("Error removing upload: %v", err)
		writeError(w, http.StatusInternalServerError, "error removing file")
		return
	}

	log.Printf("Removed upload %s from room %s", utils.SanitizeLogString(file), utils.SanitizeLogString(room))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// validName rejects empty names and anything that could escape the upload
// directory
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, "/\\") {
		return false
	}
	return filepath.Base(name) == name
}
