package http

import (
	"io"
	"net/http"
	"path/filepath"

	"tenantvault-backend/internal/storage"
)

// ObjectHandler backs the signed URLs the local storage provider hands
// out. A cloud deployment never routes through it.
type ObjectHandler struct {
	local *storage.LocalProvider
}

func NewObjectHandler(local *storage.LocalProvider) *ObjectHandler {
	return &ObjectHandler{local: local}
}

var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"video/mp4":       true,
	"application/pdf": true,
}

// HandleUpload handles HTTP PUT requests to local signed upload URLs
func (h *ObjectHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "Missing key parameter", http.StatusBadRequest)
		return
	}

	if !allowedUploadTypes[r.Header.Get("Content-Type")] {
		http.Error(w, "Invalid content type", http.StatusBadRequest)
		return
	}

	if err := h.local.Save(key, r.Body); err != nil {
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", `"local-etag-success"`)
	w.WriteHeader(http.StatusOK)
}

// HandleDownload handles HTTP GET requests to local signed download URLs
func (h *ObjectHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "Missing key parameter", http.StatusBadRequest)
		return
	}

	file, err := h.local.Open(key)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	switch filepath.Ext(key) {
	case ".jpg", ".jpeg":
		w.Header().Set("Content-Type", "image/jpeg")
	case ".png":
		w.Header().Set("Content-Type", "image/png")
	case ".mp4":
		w.Header().Set("Content-Type", "video/mp4")
	case ".pdf":
		w.Header().Set("Content-Type", "application/pdf")
	default:
		w.Header().Set("Content-Type", "application/octet-stream")
	}

	if _, err := io.Copy(w, file); err != nil {
		// Headers already went out; nothing left to report to the client.
		return
	}
}
