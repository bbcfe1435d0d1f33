package handlers

import (
	"fmt"
	"net/http"

	"github.com/conduit-lang/catalog/internal/catalog"
	"github.com/conduit-lang/catalog/internal/web/response"
)

// ListComponents handles GET /components
func (h *Handler) ListComponents(w http.ResponseWriter, r *http.Request) {
	components, err := h.store.ListComponents(r.Context())
	if err != nil {
		h.renderStoreError(w, r, err)
		return
	}
	response.RenderJSON(w, http.StatusOK, components)
}

// CreateComponent handles POST /components
func (h *Handler) CreateComponent(w http.ResponseWriter, r *http.Request) {
	var in catalog.ComponentInput
	if !h.decode(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		response.RenderError(w, http.StatusUnprocessableEntity, err)
		return
	}

	component, err := h.store.CreateComponent(r.Context(), in)
	if err != nil {
		h.renderStoreError(w, r, err)
		return
	}
	response.RenderJSON(w, http.StatusCreated, component)
}

// GetComponent handles GET /components/{id}
func (h *Handler) GetComponent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	detail, err := h.store.GetComponent(r.Context(), id)
	if err != nil {
		h.renderStoreError(w, r, err)
		return
	}
	response.RenderJSON(w, http.StatusOK, detail)
}

// UpdateComponent handles PUT /components/{id}
func (h *Handler) UpdateComponent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in catalog.ComponentInput
	if !h.decode(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		response.RenderError(w, http.StatusUnprocessableEntity, err)
		return
	}

	component, err := h.store.UpdateComponent(r.Context(), id, in)
	if err != nil {
		h.renderStoreError(w, r, err)
		return
	}
	response.RenderJSON(w, http.StatusOK, component)
}

// DeleteComponent handles DELETE /components/{id}. Functions and their
// parameters go with it.
func (h *Handler) DeleteComponent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteComponent(r.Context(), id); err != nil {
		h.renderStoreError(w, r, err)
		return
	}
	response.RenderMessage(w, fmt.Sprintf("Component %d deleted", id))
}
