// Package router wraps chi with route introspection and JSON fallbacks
// for unmatched requests.
package router

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/conduit-lang/catalog/internal/web/middleware"
	"github.com/conduit-lang/catalog/internal/web/response"
)

// RouteInfo describes a registered route
type RouteInfo struct {
	Method     string
	Pattern    string
	Parameters []string
}

// String renders the route as "METHOD /pattern"
func (ri RouteInfo) String() string {
	return ri.Method + " " + ri.Pattern
}

// Router manages HTTP routing using chi
type Router struct {
	mux    chi.Router
	prefix string
	routes *[]RouteInfo
}

// NewRouter creates a router whose unmatched requests get JSON errors
func NewRouter() *Router {
	mux := chi.NewRouter()
	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.RenderNotFound(w, fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path))
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.RenderError(w, http.StatusMethodNotAllowed,
			fmt.Errorf("method %s is not allowed for %s", r.Method, r.URL.Path))
	})
	return &Router{mux: mux, routes: &[]RouteInfo{}}
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Use appends middleware. Like chi, it must be called before any route is
// registered on this router.
func (r *Router) Use(middlewares ...middleware.Middleware) {
	for _, m := range middlewares {
		r.mux.Use(m)
	}
}

// Get registers a GET route
func (r *Router) Get(pattern string, handler http.HandlerFunc) {
	r.handle(http.MethodGet, pattern, handler)
}

// Post registers a POST route
func (r *Router) Post(pattern string, handler http.HandlerFunc) {
	r.handle(http.MethodPost, pattern, handler)
}

// Put registers a PUT route
func (r *Router) Put(pattern string, handler http.HandlerFunc) {
	r.handle(http.MethodPut, pattern, handler)
}

// Delete registers a DELETE route
func (r *Router) Delete(pattern string, handler http.HandlerFunc) {
	r.handle(http.MethodDelete, pattern, handler)
}

// Route mounts a sub-router at prefix
func (r *Router) Route(prefix string, fn func(sub *Router)) {
	r.mux.Route(prefix, func(mux chi.Router) {
		fn(&Router{mux: mux, prefix: r.prefix + prefix, routes: r.routes})
	})
}

// Routes returns the registered routes sorted by pattern, then method
func (r *Router) Routes() []RouteInfo {
	out := make([]RouteInfo, len(*r.routes))
	copy(out, *r.routes)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pattern != out[j].Pattern {
			return out[i].Pattern < out[j].Pattern
		}
		return out[i].Method < out[j].Method
	})
	return out
}

func (r *Router) handle(method, pattern string, handler http.HandlerFunc) {
	r.mux.Method(method, pattern, handler)

	full := strings.TrimSuffix(r.prefix+pattern, "/")
	if full == "" {
		full = "/"
	}
	*r.routes = append(*r.routes, RouteInfo{
		Method:     method,
		Pattern:    full,
		Parameters: extractParameters(full),
	})
}

// extractParameters returns the {name} segments of a pattern
func extractParameters(pattern string) []string {
	var params []string
	for _, part := range strings.Split(pattern, "/") {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			name := strings.Trim(part, "{}")
			if i := strings.Index(name, ":"); i >= 0 {
				name = name[:i]
			}
			params = append(params, name)
		}
	}
	return params
}
