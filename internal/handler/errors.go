package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"tagfeed/internal/apperror"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    interface{}           `json:"data,omitempty"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

func WriteSuccess(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	WriteJSON(w, statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// WriteError maps err onto its status and envelope. Internal errors are logged
// in full; their detail reaches the client only when exposeInternal is set.
func WriteError(w http.ResponseWriter, log *slog.Logger, err error, exposeInternal bool) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.Internal(err)
	}

	message := appErr.Message
	if appErr.Kind == apperror.KindInternal {
		log.Error("internal error", slog.String("error", err.Error()))
		if exposeInternal && appErr.Err != nil {
			message = appErr.Err.Error()
		}
	} else {
		log.Debug("request rejected",
			slog.String("kind", appErr.Kind.String()),
			slog.String("message", message))
	}

	WriteJSON(w, appErr.Kind.Status(), Response{
		Success: false,
		Message: message,
		Errors:  appErr.Fields,
	})
}

func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	WriteError(w, h.Log, err, !h.Cfg.IsProduction())
}

func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, apperror.NotFound("Route not found"))
}

func (h *Handlers) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, apperror.MethodNotAllowed())
}
