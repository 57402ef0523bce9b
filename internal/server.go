package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/shoileazeez/portfolio/internal/admin"
	"github.com/shoileazeez/portfolio/internal/auth"
	"github.com/shoileazeez/portfolio/internal/blog"
	"github.com/shoileazeez/portfolio/internal/cache"
	"github.com/shoileazeez/portfolio/internal/config"
	"github.com/shoileazeez/portfolio/internal/contact"
	"github.com/shoileazeez/portfolio/internal/db"
	"github.com/shoileazeez/portfolio/internal/experience"
	"github.com/shoileazeez/portfolio/internal/middleware"
	"github.com/shoileazeez/portfolio/internal/misc"
	"github.com/shoileazeez/portfolio/internal/notify"
	"github.com/shoileazeez/portfolio/internal/pagedata"
	"github.com/shoileazeez/portfolio/internal/personalinfo"
	"github.com/shoileazeez/portfolio/internal/project"
	"github.com/shoileazeez/portfolio/internal/telemetry/metrics"
	"github.com/shoileazeez/portfolio/internal/telemetry/tracing"
	"github.com/shoileazeez/portfolio/pkg"
)

const (
	maxRequestBodyBytes = 2 << 20 // 2 MB
	shutdownTimeout     = 15 * time.Second
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	tokens         *auth.TokenService
	authService    *auth.Service
	trustedProxies *pkg.TrustedProxies
	mailer         *notify.Mailjet
	pageFetcher    *pagedata.Fetcher

	contactHandler *contact.Handler

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	VersionInfo string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	trustedProxies, err := pkg.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("parse trusted proxies: %w", err)
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DatabaseURL:    cfg.DatabaseURL,
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     cfg.PostgresPassword,
		TracingEnabled: cfg.HoneycombEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(cfg.HoneycombEnabled, "portfolio-backend", rdb)
	if err != nil {
		return nil, err
	}

	tokens := auth.NewTokenService(cfg.SessionSecret)
	authService := auth.NewService(
		auth.NewAdminRepo(dbPool),
		auth.NewPasswordHasher(cfg.BcryptCost),
		tokens,
	)

	mailer := notify.NewMailjet(notify.MailjetParams{
		APIKey:    cfg.MailjetAPIKey,
		SecretKey: cfg.MailjetSecretKey,
		FromEmail: cfg.MailFrom,
		ToEmail:   cfg.MailTo,
	})
	if !mailer.Configured() {
		log.Warnln("mailjet credentials not set, contact notifications disabled")
	}

	s := &Server{
		config:      cfg,
		dbPool:      dbPool,
		redisClient: rdb,
		versionInfo: params.VersionInfo,

		tokens:         tokens,
		authService:    authService,
		trustedProxies: trustedProxies,
		mailer:         mailer,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}
	s.pageFetcher = s.newPageFetcher()

	return s, nil
}

func (s *Server) newPageFetcher() *pagedata.Fetcher {
	return pagedata.NewFetcher(
		cache.NewClient(nil, cache.NewResponseCache()),
		s.config.PublicBaseURL,
		time.Duration(s.config.PageCacheTTLSeconds)*time.Second,
		s.metricsManager,
	)
}

func (s *Server) listCache() *cache.ListCache {
	return cache.NewListCache(s.config.ListCacheSizeMB*1024*1024, cache.DefaultListTTL)
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	gate := auth.NewGate(s.tokens)
	adminOnly := middleware.RequireAdmin(gate)

	var loginRateLimiter middleware.RequestRateLimiter
	if s.redisClient != nil {
		loginRateLimiter = redis_rate.NewLimiter(s.redisClient)
	}
	adminHandler := admin.NewHandler(s.authService, gate, s.config.IsProduction(), s.metricsManager)
	adminHandler.SetupRoutes(r, loginRateLimiter, s.config.LoginRateLimitAllowedPerMin, s.trustedProxies)

	projectHandler := project.NewHandler(project.NewRepo(s.dbPool), s.listCache())
	projectHandler.SetupRoutes(r, adminOnly)

	blogHandler := blog.NewBlogHandler(blog.NewRepo(s.dbPool), s.listCache(), s.metricsManager)
	blogHandler.SetupRoutes(r, adminOnly)

	experienceHandler := experience.NewHandler(experience.NewRepo(s.dbPool))
	experienceHandler.SetupRoutes(r, adminOnly)

	personalInfoHandler := personalinfo.NewHandler(personalinfo.NewRepo(s.dbPool))
	personalInfoHandler.SetupRoutes(r, adminOnly)

	s.contactHandler = contact.NewHandler(
		contact.NewRepo(s.dbPool),
		s.mailer,
		contact.DefaultNotifyTimeout,
		s.metricsManager,
	)
	s.contactHandler.SetupRoutes(r, adminOnly)

	pagesHandler := pagedata.NewHandler(s.pageFetcher)
	pagesHandler.SetupRoutes(r, adminOnly)

	miscHandler := s.newMiscHandler()
	miscHandler.SetupRoutes(r)

	// all the rest - unhandled paths
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.DrainAndCloseRequest(maxRequestBodyBytes))

	return r
}

// handler puts CORS in front of the router, so preflights are answered before route matching.
func (s *Server) handler() http.Handler {
	return middleware.Cors(s.config.AllowedOrigins)(s.routerSetup())
}

func (s *Server) newMiscHandler() *misc.Handler {
	// typed nil pointers must not reach the handler's interfaces
	switch {
	case s.dbPool != nil && s.redisClient != nil:
		return misc.NewHandler(s.versionInfo, s.dbPool, s.redisClient)
	case s.dbPool != nil:
		return misc.NewHandler(s.versionInfo, s.dbPool, nil)
	case s.redisClient != nil:
		return misc.NewHandler(s.versionInfo, nil, s.redisClient)
	default:
		return misc.NewHandler(s.versionInfo, nil, nil)
	}
}

func (s *Server) metricsRouter() *mux.Router {
	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{Registry: s.promRegistry}),
	))
	return metricsRouter
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.handler(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           s.metricsRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	ctx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown http server: %s", err)
		}
		log.Warnln("server shut down")
	}

	if s.contactHandler != nil {
		log.Debugln("waiting for pending contact notifications ...")
		s.contactHandler.Wait()
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown metrics http server: %s", err)
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeConnections.Inc()
	case http.StateClosed:
		s.metricsManager.GaugeConnections.Dec()
	default:
		// do nothing
	}
}
