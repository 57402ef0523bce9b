package pagedata

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/shoileazeez/portfolio/internal/cache"
	"github.com/shoileazeez/portfolio/internal/telemetry/tracing"
	"github.com/shoileazeez/portfolio/pkg"
)

type pageFetcher interface {
	About(ctx context.Context) (*About, error)
	SiteMetadata(ctx context.Context) Metadata
	ClearCache() cache.Stats
	CacheStats() cache.Stats
}

var _ pageFetcher = (*Fetcher)(nil)

type Handler struct {
	fetcher pageFetcher
}

func NewHandler(fetcher pageFetcher) *Handler {
	return &Handler{
		fetcher: fetcher,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router, adminOnly func(http.Handler) http.Handler) {
	router.HandleFunc("/api/pages/about", handler.handleAbout).Methods("GET").Name("page-about")
	router.HandleFunc("/api/pages/metadata", handler.handleMetadata).Methods("GET").Name("page-metadata")
	router.Handle("/api/pages/cache", adminOnly(http.HandlerFunc(handler.handleCacheStats))).Methods("GET").Name("page-cache-stats")
	router.Handle("/api/pages/cache", adminOnly(http.HandlerFunc(handler.handleClearCache))).Methods("DELETE").Name("clear-page-cache")
}

func (handler *Handler) handleAbout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "pagesHandler.about")
	defer span.End()

	about, err := handler.fetcher.About(ctx)
	if err != nil {
		var statusErr *cache.StatusError
		if errors.As(err, &statusErr) {
			log.Errorf("about page: upstream responded %d: %s", statusErr.StatusCode, err)
		} else {
			log.Errorf("about page: %s", err)
		}
		pkg.WriteJSONError(w, "Failed to load page data", http.StatusBadGateway)
		return
	}
	pkg.WriteJSONOK(w, about)
}

func (handler *Handler) handleMetadata(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "pagesHandler.metadata")
	defer span.End()

	pkg.WriteJSONOK(w, handler.fetcher.SiteMetadata(ctx))
}

func (handler *Handler) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSONOK(w, handler.fetcher.CacheStats())
}

type clearCacheResponse struct {
	Message string `json:"message"`
	Cleared int    `json:"cleared"`
}

func (handler *Handler) handleClearCache(w http.ResponseWriter, _ *http.Request) {
	stats := handler.fetcher.ClearCache()
	log.Infof("page cache cleared, %d entries dropped", stats.Size)
	pkg.WriteJSONOK(w, clearCacheResponse{
		Message: "Page cache cleared",
		Cleared: stats.Size,
	})
}
