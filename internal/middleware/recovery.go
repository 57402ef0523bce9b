package middleware

import (
	"net/http"
	"runtime/debug"

	log "github.com/sirupsen/logrus"

	"github.com/shoileazeez/portfolio/internal/telemetry/metrics"
	"github.com/shoileazeez/portfolio/pkg"
)

// PanicRecovery turns a handler panic into the generic 500 body and counts it.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(respWriter http.ResponseWriter, req *http.Request) {
			defer func() {
				if r := recover(); r != nil {
					if r == http.ErrAbortHandler {
						panic(r)
					}
					log.WithFields(log.Fields{
						"method": req.Method,
						"route":  routeTemplate(req),
						"ip":     pkg.ReadUserIP(req),
					}).Errorf("panic serving %s: %v\n%s", req.URL.Path, r, debug.Stack())
					if metricsManager != nil {
						metricsManager.CounterHandleRequestPanic.Inc()
					}
					pkg.WriteJSONError(respWriter, "Internal server error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(respWriter, req)
		})
	}
}
