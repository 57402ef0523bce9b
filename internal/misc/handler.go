package misc

import (
	"context"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/shoileazeez/portfolio/internal/telemetry/tracing"
	"github.com/shoileazeez/portfolio/pkg"
)

const healthCheckTimeout = 3 * time.Second

type dbPinger interface {
	Ping(ctx context.Context) error
}

type redisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

type Handler struct {
	versionInfo string
	db          dbPinger
	redis       redisPinger
}

// NewHandler wires the misc routes. A nil pinger is reported as "disabled" by the health check.
func NewHandler(versionInfo string, db dbPinger, redis redisPinger) *Handler {
	return &Handler{
		versionInfo: versionInfo,
		db:          db,
		redis:       redis,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
	mainRouter.HandleFunc("/myip", handler.handleGetMyIp).Methods("GET").Name("myip")
	mainRouter.HandleFunc("/health", handler.handleHealth).Methods("GET").Name("health")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}

func (handler *Handler) handleGetMyIp(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.getMyIp")
	defer span.End()

	ip := pkg.ReadUserIP(r)
	span.SetAttributes(attribute.String("user.ip", ip))
	pkg.WriteTextResponseOK(w, ip)
}

type healthResponse struct {
	Status   string `json:"status"`
	Postgres string `json:"postgres"`
	Redis    string `json:"redis"`
}

const (
	statusOK       = "ok"
	statusDown     = "down"
	statusDisabled = "disabled"
)

func (handler *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.health")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	resp := healthResponse{
		Status:   statusOK,
		Postgres: statusDisabled,
		Redis:    statusDisabled,
	}

	if handler.db != nil {
		resp.Postgres = statusOK
		if err := handler.db.Ping(ctx); err != nil {
			log.Errorf("health: ping postgres: %s", err)
			resp.Postgres = statusDown
			resp.Status = statusDown
		}
	}

	if handler.redis != nil {
		resp.Redis = statusOK
		if err := handler.redis.Ping(ctx).Err(); err != nil {
			log.Errorf("health: ping redis: %s", err)
			resp.Redis = statusDown
			resp.Status = statusDown
		}
	}

	if resp.Status != statusOK {
		span.SetStatus(codes.Error, "unhealthy")
		pkg.WriteJSON(w, resp, http.StatusServiceUnavailable)
		return
	}
	pkg.WriteJSONOK(w, resp)
}
