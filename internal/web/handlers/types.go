package handlers

import (
	"net/http"

	"github.com/conduit-lang/catalog/internal/validation"
	"github.com/conduit-lang/catalog/internal/web/response"
)

// TypeInput is the body of POST /parameter-types
type TypeInput struct {
	Type string `json:"type"`
}

// ListParameterTypes handles GET /parameter-types
func (h *Handler) ListParameterTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.store.ListParameterTypes(r.Context())
	if err != nil {
		h.renderStoreError(w, r, err)
		return
	}
	response.RenderJSON(w, http.StatusOK, types)
}

// AddParameterType handles POST /parameter-types
func (h *Handler) AddParameterType(w http.ResponseWriter, r *http.Request) {
	var in TypeInput
	if !h.decode(w, r, &in) {
		return
	}
	if in.Type == "" {
		errs := validation.NewValidationErrors()
		errs.Add("type", "is required")
		response.RenderValidationError(w, errs)
		return
	}

	types, err := h.store.AddParameterType(r.Context(), in.Type)
	if err != nil {
		h.renderStoreError(w, r, err)
		return
	}
	response.RenderJSON(w, http.StatusCreated, types)
}
