package handlers

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/conduit-lang/catalog/internal/catalog"
	"github.com/conduit-lang/catalog/internal/web/response"
)

// ListFunctions handles GET /components/{id}/functions
func (h *Handler) ListFunctions(w http.ResponseWriter, r *http.Request) {
	componentID, ok := pathID(w, r)
	if !ok {
		return
	}
	functions, err := h.store.ListFunctions(r.Context(), componentID)
	if err != nil {
		h.renderStoreError(w, r, err)
		return
	}
	response.RenderJSON(w, http.StatusOK, functions)
}

// AddFunction handles POST /components/{id}/functions. The body carries
// the full parameter set; the response is the component's function list.
func (h *Handler) AddFunction(w http.ResponseWriter, r *http.Request) {
	componentID, ok := pathID(w, r)
	if !ok {
		return
	}
	var fn catalog.NewFunction
	if !h.decode(w, r, &fn) {
		return
	}
	// Type membership is checked by the store against the database.
	if err := catalog.ValidateSubmission(fn.Name, fn.Parameters, nil); err != nil {
		response.RenderError(w, http.StatusUnprocessableEntity, err)
		return
	}

	functions, err := h.store.AddFunction(r.Context(), componentID, fn)
	if err != nil {
		h.renderStoreError(w, r, err)
		return
	}
	response.RenderJSON(w, http.StatusCreated, functions)
}

// GetFunction handles GET /functions/{id}
func (h *Handler) GetFunction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	fn, err := h.store.GetFunction(r.Context(), id)
	if err != nil {
		h.renderStoreError(w, r, err)
		return
	}
	response.RenderJSON(w, http.StatusOK, fn)
}

// SaveFunction handles PUT /functions/{id}/parameters. Parameters with an
// id are updated, those without are inserted, and the response lists every
// parameter the function has afterwards.
func (h *Handler) SaveFunction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch catalog.FunctionPatch
	if !h.decode(w, r, &patch) {
		return
	}
	if patch.Parameters == nil {
		patch.Parameters = []catalog.Parameter{}
	}
	if err := catalog.ValidateSubmission(patch.Name, patch.Parameters, nil); err != nil {
		response.RenderError(w, http.StatusUnprocessableEntity, err)
		return
	}

	fn, err := h.store.SaveFunction(r.Context(), id, patch)
	if err != nil {
		h.renderStoreError(w, r, err)
		return
	}
	h.logger.Debug("function saved",
		zap.Int64("function_id", id),
		zap.Int("submitted", len(patch.Parameters)),
		zap.Int("parameters", len(fn.Parameters)),
	)
	response.RenderJSON(w, http.StatusOK, fn)
}

// DeleteFunction handles DELETE /functions/{id}
func (h *Handler) DeleteFunction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteFunction(r.Context(), id); err != nil {
		h.renderStoreError(w, r, err)
		return
	}
	response.RenderMessage(w, fmt.Sprintf("Function %d deleted", id))
}

// DeleteParameter handles DELETE /parameters/{id}
func (h *Handler) DeleteParameter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteParameter(r.Context(), id); err != nil {
		h.renderStoreError(w, r, err)
		return
	}
	response.RenderMessage(w, fmt.Sprintf("Parameter %d deleted", id))
}
