package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"tagfeed/internal/apperror"
	"tagfeed/internal/service"
)

const maxJSONBodySize = 1 << 20

func (h *Handlers) decodeJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return apperror.Validation("Invalid JSON body")
	}

	// a single object only
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperror.Validation("Invalid JSON body")
	}
	return nil
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	// check method
	if r.Method != http.MethodPost {
		h.writeError(w, apperror.MethodNotAllowed())
		return
	}

	var req service.RegisterInput
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.AuthService.Register(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, "User registered successfully", result)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	// check method
	if r.Method != http.MethodPost {
		h.writeError(w, apperror.MethodNotAllowed())
		return
	}

	var req service.LoginInput
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.AuthService.Login(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "Login successful", result)
}
