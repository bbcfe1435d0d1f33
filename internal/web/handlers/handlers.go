// Package handlers serves the catalog store over HTTP/JSON.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/conduit-lang/catalog/internal/catalog"
	"github.com/conduit-lang/catalog/internal/store"
	"github.com/conduit-lang/catalog/internal/web/request"
	"github.com/conduit-lang/catalog/internal/web/response"
	"github.com/conduit-lang/catalog/internal/web/router"
)

// Store is the persistence the API serves. *store.Store implements it.
type Store interface {
	ListComponents(ctx context.Context) ([]catalog.Component, error)
	CreateComponent(ctx context.Context, in catalog.ComponentInput) (*catalog.Component, error)
	GetComponent(ctx context.Context, id int64) (*catalog.ComponentDetail, error)
	UpdateComponent(ctx context.Context, id int64, in catalog.ComponentInput) (*catalog.Component, error)
	DeleteComponent(ctx context.Context, id int64) error

	ListFunctions(ctx context.Context, componentID int64) ([]catalog.Function, error)
	GetFunction(ctx context.Context, functionID int64) (*catalog.Function, error)
	AddFunction(ctx context.Context, componentID int64, fn catalog.NewFunction) ([]catalog.Function, error)
	SaveFunction(ctx context.Context, functionID int64, patch catalog.FunctionPatch) (*catalog.Function, error)
	DeleteFunction(ctx context.Context, functionID int64) error
	DeleteParameter(ctx context.Context, parameterID int64) error

	ListParameterTypes(ctx context.Context) ([]string, error)
	AddParameterType(ctx context.Context, tag string) ([]string, error)

	Ping(ctx context.Context) error
}

// Handler holds the dependencies of every catalog endpoint
type Handler struct {
	store  Store
	parser *request.Parser
	logger *zap.Logger
}

// New creates a Handler. A nil logger is replaced by a no-op logger.
func New(s Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: s, parser: request.NewParser(), logger: logger}
}

// Register mounts every endpoint on r
func (h *Handler) Register(r *router.Router) {
	r.Get("/healthz", h.Health)

	r.Route("/components", func(c *router.Router) {
		c.Get("/", h.ListComponents)
		c.Post("/", h.CreateComponent)
		c.Get("/{id}", h.GetComponent)
		c.Put("/{id}", h.UpdateComponent)
		c.Delete("/{id}", h.DeleteComponent)
		c.Get("/{id}/functions", h.ListFunctions)
		c.Post("/{id}/functions", h.AddFunction)
	})

	r.Route("/functions", func(f *router.Router) {
		f.Get("/{id}", h.GetFunction)
		f.Put("/{id}/parameters", h.SaveFunction)
		f.Delete("/{id}", h.DeleteFunction)
	})

	r.Delete("/parameters/{id}", h.DeleteParameter)

	r.Route("/parameter-types", func(t *router.Router) {
		t.Get("/", h.ListParameterTypes)
		t.Post("/", h.AddParameterType)
	})
}

type healthResponse struct {
	Status string `json:"status"`
}

// Health reports whether the database answers
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		response.RenderJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}
	response.RenderJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// pathID reads the {id} path parameter or renders a 400
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := request.PathInt64(r, "id")
	if err != nil {
		response.RenderBadRequest(w, err.Error())
		return 0, false
	}
	return id, true
}

// decode parses the JSON body into target or renders a 400/413
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	if err := h.parser.ParseJSON(w, r, target); err != nil {
		if errors.Is(err, request.ErrBodyTooLarge) {
			response.RenderError(w, http.StatusRequestEntityTooLarge, err)
			return false
		}
		response.RenderBadRequest(w, err.Error())
		return false
	}
	return true
}

// renderStoreError maps store sentinels to HTTP statuses. Anything else is
// logged and rendered as a 500 without its message.
func (h *Handler) renderStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.RenderError(w, http.StatusNotFound, err)
	case errors.Is(err, store.ErrConflict):
		response.RenderError(w, http.StatusConflict, err)
	case errors.Is(err, store.ErrUnknownType):
		response.RenderErrorWithCode(w, http.StatusUnprocessableEntity, err, "unknown_type")
	case errors.Is(err, store.ErrInvalid):
		response.RenderErrorWithCode(w, http.StatusUnprocessableEntity, err, "invalid_record")
	default:
		h.logger.Error("store operation failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		response.RenderInternalError(w)
	}
}
