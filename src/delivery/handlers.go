package delivery

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Blackdeer1524/FrameDB/src"
	"github.com/Blackdeer1524/FrameDB/src/bufferpool"
	"github.com/Blackdeer1524/FrameDB/src/storage/registry"
)

type APIHandler struct {
	Pool   Pool
	Files  Files
	Logger src.Logger
}

func (h *APIHandler) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /diagnostics", h.GetDiagnostics)
	mux.HandleFunc("GET /files", h.ListFiles)
	mux.HandleFunc("POST /flush", h.FlushFile)

	return mux
}

func (h *APIHandler) GetDiagnostics(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.Pool.Diagnostics())
}

func (h *APIHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string][]string{
		"files": h.Files.Names(),
	})
}

func (h *APIHandler) FlushFile(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("file")
	if name == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter `file` is required")

		return
	}

	file, err := h.Files.Lookup(name)
	if err != nil {
		if errors.Is(err, registry.ErrFileNotFound) {
			h.writeError(w, http.StatusNotFound, err.Error())

			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())

		return
	}

	if err := h.Pool.FlushFile(file); err != nil {
		h.Logger.Errorf("flush of %s failed: %v", name, err)

		status := http.StatusInternalServerError
		if errors.Is(err, bufferpool.ErrPagePinned) {
			status = http.StatusConflict
		}
		h.writeError(w, status, err.Error())

		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"flushed": name})
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Logger.Errorf("failed to encode response: %v", err)
	}
}

func (h *APIHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
