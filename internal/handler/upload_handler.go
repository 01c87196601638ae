package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"tagfeed/internal/apperror"
	"tagfeed/internal/storage"
)

// ServeUpload streams a stored image back under /uploads/{filename}.
func (h *Handlers) ServeUpload(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["filename"]

	object, info, err := h.Storage.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			h.writeError(w, apperror.NotFound("File not found"))
			return
		}
		h.writeError(w, apperror.Internal(fmt.Errorf("open upload: %w", err)))
		return
	}
	defer object.Close()

	if info.ContentType != "" {
		w.Header().Set("Content-Type", info.ContentType)
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")

	http.ServeContent(w, r, name, info.ModTime, object)
}
