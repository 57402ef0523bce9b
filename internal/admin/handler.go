package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/shoileazeez/portfolio/internal/auth"
	"github.com/shoileazeez/portfolio/internal/middleware"
	"github.com/shoileazeez/portfolio/internal/telemetry/metrics"
	"github.com/shoileazeez/portfolio/internal/telemetry/tracing"
	"github.com/shoileazeez/portfolio/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=admin_test

const (
	loginRateLimitKey = "admin-login"

	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeInvalid  = "invalid_input"
	outcomeError    = "error"
)

type loginService interface {
	Login(ctx context.Context, email, password string) (string, error)
}

type sessionAuthenticator interface {
	Authenticate(r *http.Request) *auth.SessionClaims
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyResponse struct {
	Authenticated bool                `json:"authenticated"`
	User          *auth.SessionClaims `json:"user"`
}

type Handler struct {
	authService    loginService
	gate           sessionAuthenticator
	secureCookies  bool
	metricsManager *metrics.Manager
}

func NewHandler(
	authService loginService,
	gate sessionAuthenticator,
	secureCookies bool,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		authService:    authService,
		gate:           gate,
		secureCookies:  secureCookies,
		metricsManager: metricsManager,
	}
}

// SetupRoutes registers the auth routes on a subrouter; login is rate limited per client IP.
func (handler *Handler) SetupRoutes(
	router *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	loginAllowedPerMin int,
	proxies *pkg.TrustedProxies,
) {
	authRouter := router.PathPrefix("/api/admin/auth").Subrouter()

	loginHandler := http.Handler(http.HandlerFunc(handler.handleLogin))
	if rateLimiter != nil {
		loginHandler = middleware.RateLimit(rateLimiter, loginRateLimitKey, loginAllowedPerMin, proxies, handler.metricsManager)(loginHandler)
	}

	authRouter.Handle("/login", loginHandler).Methods("POST").Name("admin-login")
	authRouter.HandleFunc("/verify", handler.handleVerify).Methods("GET").Name("admin-verify")
	authRouter.HandleFunc("/logout", handler.handleLogout).Methods("POST").Name("admin-logout")
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "adminHandler.login")
	defer span.End()

	var loginReq loginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		log.Debugf("login, unmarshal json params: %s", err)
		handler.countLogin(outcomeInvalid)
		pkg.WriteJSONError(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	token, err := handler.authService.Login(ctx, loginReq.Email, loginReq.Password)
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		handler.countLogin(outcomeInvalid)
		pkg.WriteJSONError(w, "Email and password are required", http.StatusBadRequest)
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		handler.countLogin(outcomeRejected)
		span.SetStatus(codes.Error, "invalid credentials")
		pkg.WriteJSONError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	case err != nil:
		handler.countLogin(outcomeError)
		span.SetStatus(codes.Error, err.Error())
		pkg.WriteInternalError(w, "login", err)
		return
	}

	handler.countLogin(outcomeSuccess)
	span.SetStatus(codes.Ok, "logged in")
	log.Tracef("admin login success: %s", loginReq.Email)

	http.SetCookie(w, auth.NewSessionCookie(token, handler.secureCookies))
	pkg.WriteJSONMessage(w, "Login successful", http.StatusOK)
}

func (handler *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "adminHandler.verify")
	defer span.End()

	claims := handler.gate.Authenticate(r)
	if claims == nil {
		span.SetAttributes(attribute.Bool("authenticated", false))
		pkg.WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	span.SetAttributes(attribute.Bool("authenticated", true), attribute.Int("admin.id", claims.AdminID))
	pkg.WriteJSONOK(w, verifyResponse{
		Authenticated: true,
		User:          claims,
	})
}

// handleLogout only drops the client's cookie; an issued token stays valid until it expires.
func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "adminHandler.logout")
	defer span.End()

	http.SetCookie(w, auth.ClearSessionCookie(handler.secureCookies))
	pkg.WriteJSONMessage(w, "Logout successful", http.StatusOK)
}

func (handler *Handler) countLogin(outcome string) {
	if handler.metricsManager == nil {
		return
	}
	handler.metricsManager.CounterLogins.WithLabelValues(outcome).Inc()
}
