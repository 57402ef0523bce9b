package middleware

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/shoileazeez/portfolio/internal/auth"
	"github.com/shoileazeez/portfolio/internal/telemetry/tracing"
	"github.com/shoileazeez/portfolio/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

type authenticator interface {
	Authenticate(r *http.Request) *auth.SessionClaims
}

// RequireAdmin rejects requests without a valid admin session before the
// wrapped handler runs. Claims of accepted requests are put in the request context.
func RequireAdmin(gate authenticator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.requireAdmin")
			defer span.End()

			claims := gate.Authenticate(r)
			if claims == nil {
				log.Tracef("[auth middleware] unauthorized => %s %s", r.Method, r.URL.Path)
				span.SetStatus(codes.Error, "unauthorized")
				pkg.WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			span.SetAttributes(attribute.Int("admin.id", claims.AdminID))
			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.ContextWithClaims(ctx, claims)))
		})
	}
}
