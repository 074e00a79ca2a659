package middleware

import (
	"fmt"
	"net/http"

	pkgerrors "github.com/viannadoces/doceria-web/pkg/errors"
	"github.com/viannadoces/doceria-web/pkg/logger"
	"github.com/viannadoces/doceria-web/web/render"
)

func Recoverer(logg *logger.Logger, renderer *render.Renderer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err := fmt.Errorf("panic: %v", rec)
					ctx := r.Context()
					if logg != nil {
						ctx = logg.WithFields(ctx, map[string]any{"panic": rec})
						logg.Error(ctx, "panic.recovered", err)
					}
					loggedIn := SessionFromContext(ctx) != nil
					renderer.Error(ctx, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"), loggedIn)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
