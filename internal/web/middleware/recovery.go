package middleware

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/conduit-lang/catalog/internal/web/response"
)

// Recovery turns a handler panic into a 500 JSON response and logs it with
// the stack.
func Recovery(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					if p == http.ErrAbortHandler {
						panic(p)
					}
					logger.Error("panic recovered",
						zap.String("request_id", GetRequestID(r.Context())),
						zap.String("path", r.URL.Path),
						zap.String("panic", fmt.Sprint(p)),
						zap.StackSkip("stack", 2),
					)
					response.RenderErrorWithCode(w, http.StatusInternalServerError,
						fmt.Errorf("an unexpected error occurred"), "internal_server_error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
