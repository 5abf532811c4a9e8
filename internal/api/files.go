package api

import (
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/conflab/roomsvc/internal/config"
)

// mimeTypes is the fixed extension table used when re-serving uploads;
// anything unlisted goes out as an octet stream
var mimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".pdf":  "application/pdf",
	".txt":  "text/plain; charset=utf-8",
	".json": "application/json",
	".zip":  "application/zip",
}

// FilesHandler re-serves stored uploads under /api/files/<room>/<file>
type FilesHandler struct {
	dir string
}

// NewFilesHandler creates a files handler from environment configuration
func NewFilesHandler() *FilesHandler {
	return NewFilesHandlerWithDir(config.GetUploadConfig().Dir)
}

// NewFilesHandlerWithDir creates a files handler serving the given directory;
// primarily used by tests
func NewFilesHandlerWithDir(dir string) *FilesHandler {
	return &FilesHandler{dir: dir}
}

// ServeHTTP handles GET /api/files/<room>/<file>
func (h *FilesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Path format: /api/files/{room}/{file}
	rest := strings.TrimPrefix(r.URL.Path, "/api/files/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || !validName(parts[0]) || !validName(parts[1]) {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	room, name := parts[0], parts[1]

	file, err := os.Open(filepath.Join(h.dir, room, name))
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}
		log.Printf("Error opening file: %v", err)
		writeError(w, http.StatusInternalServerError, "error reading file")
		return
	}
	defer file.Close()

	contentType, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]
	if !ok {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)

	if _, err := io.Copy(w, file); err != nil {
		log.Printf("Error serving file: %v", err)
	}
}
