package blog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/shoileazeez/portfolio/internal/cache"
	"github.com/shoileazeez/portfolio/internal/telemetry/metrics"
	"github.com/shoileazeez/portfolio/internal/telemetry/tracing"
	"github.com/shoileazeez/portfolio/pkg"
)

const (
	latestLimit  = 50
	maxPageSize  = 50
	listCacheKey = "blogs:latest"
)

type blogRepo interface {
	Latest(ctx context.Context, limit int) ([]*Blog, error)
	BlogsCount(ctx context.Context) (int, error)
	GetBlogsPage(ctx context.Context, page, size int) ([]*Blog, error)
	GetBlog(ctx context.Context, id int) (*Blog, error)
	GetBlogBySlug(ctx context.Context, slug string) (*Blog, error)
	AddBlog(ctx context.Context, blog *Blog) error
	UpdateBlog(ctx context.Context, id int, blog *Blog) error
	DeleteBlog(ctx context.Context, id int) error
	AddView(ctx context.Context, view View) error
	ViewsCount(ctx context.Context, blogID int) (int, error)
	ClearViews(ctx context.Context, blogID int) error
}

type viewRequest struct {
	ViewerIdentifier string `json:"viewer_identifier"`
}

type viewsResponse struct {
	Views int `json:"views"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type Handler struct {
	repo           blogRepo
	listCache      *cache.ListCache
	metricsManager *metrics.Manager
}

func NewBlogHandler(
	repo blogRepo,
	listCache *cache.ListCache,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:           repo,
		listCache:      listCache,
		metricsManager: metricsManager,
	}
}

// SetupRoutes registers the blog and blog view routes; mutations are wrapped with adminOnly.
func (handler *Handler) SetupRoutes(router *mux.Router, adminOnly func(http.Handler) http.Handler) {
	router.HandleFunc("/api/blogs", handler.handleLatest).Methods("GET").Name("blogs")
	router.Handle("/api/blogs", adminOnly(http.HandlerFunc(handler.handleNewBlog))).Methods("POST").Name("new-blog")
	router.HandleFunc("/api/blogs/page/{page}/size/{size}", handler.handleGetPage).Methods("GET").Name("blogs-page")
	router.HandleFunc("/api/blogs/slug/{slug}", handler.handleGetBySlug).Methods("GET").Name("blog-by-slug")
	router.HandleFunc("/api/blogs/{id:[0-9]+}", handler.handleGet).Methods("GET").Name("blog")
	router.Handle("/api/blogs/{id:[0-9]+}", adminOnly(http.HandlerFunc(handler.handleUpdateBlog))).Methods("PUT").Name("update-blog")
	router.Handle("/api/blogs/{id:[0-9]+}", adminOnly(http.HandlerFunc(handler.handleDeleteBlog))).Methods("DELETE").Name("delete-blog")

	router.HandleFunc("/api/blogs/{id:[0-9]+}/view", handler.handleAddView).Methods("POST").Name("blog-add-view")
	router.HandleFunc("/api/blogs/{id:[0-9]+}/view", handler.handleViewsCount).Methods("GET").Name("blog-views")
	router.Handle("/api/blogs/{id:[0-9]+}/view", adminOnly(http.HandlerFunc(handler.handleClearViews))).Methods("DELETE").Name("blog-clear-views")
}

func (handler *Handler) handleLatest(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogHandler.latest")
	defer span.End()

	w.Header().Set("Cache-Control", pkg.PublicListCacheControl)

	if handler.listCache != nil {
		if payload, found := handler.listCache.Get(listCacheKey); found {
			span.SetAttributes(attribute.Bool("list_cache.hit", true))
			pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, payload)
			return
		}
	}

	blogs, err := handler.repo.Latest(ctx, latestLimit)
	if err != nil {
		pkg.WriteInternalError(w, "get latest blogs", err)
		return
	}

	payload, err := json.Marshal(blogs)
	if err != nil {
		pkg.WriteInternalError(w, "marshal blogs", err)
		return
	}

	if handler.listCache != nil {
		handler.listCache.Set(listCacheKey, payload)
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, payload)
}

func (handler *Handler) handleGetPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogHandler.getPage")
	defer span.End()

	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil || page < 1 {
		pkg.WriteJSONError(w, "Invalid page", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil || size < 1 || size > maxPageSize {
		pkg.WriteJSONError(w, "Invalid page size", http.StatusBadRequest)
		return
	}
	// keeps the row offset within postgres' range
	if page > math.MaxInt32/size {
		pkg.WriteJSONError(w, "Invalid page", http.StatusBadRequest)
		return
	}

	span.SetAttributes(attribute.Int("page", page), attribute.Int("size", size))

	blogs, err := handler.repo.GetBlogsPage(ctx, page, size)
	if err != nil {
		pkg.WriteInternalError(w, "get blogs page", err)
		return
	}

	total, err := handler.repo.BlogsCount(ctx)
	if err != nil {
		pkg.WriteInternalError(w, "get blogs count", err)
		return
	}

	pkg.WriteJSONOK(w, PostsResponse{
		Posts: blogs,
		Total: total,
	})
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogHandler.get")
	defer span.End()

	id, ok := pkg.PathID(r, "id")
	if !ok {
		pkg.WriteJSONError(w, "Invalid blog id", http.StatusBadRequest)
		return
	}

	b, err := handler.repo.GetBlog(ctx, id)
	writeBlog(w, b, err, http.StatusOK, "get blog")
}

func (handler *Handler) handleGetBySlug(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogHandler.getBySlug")
	defer span.End()

	b, err := handler.repo.GetBlogBySlug(ctx, mux.Vars(r)["slug"])
	writeBlog(w, b, err, http.StatusOK, "get blog by slug")
}

func (handler *Handler) handleNewBlog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogHandler.new")
	defer span.End()

	b, ok := decodeBlog(w, r)
	if !ok {
		return
	}

	err := handler.repo.AddBlog(ctx, b)
	if err == nil {
		handler.invalidateList()
		log.Tracef("new blog %d: [%s] added", b.ID, b.Title)
	}
	writeBlog(w, b, err, http.StatusCreated, "add blog")
}

func (handler *Handler) handleUpdateBlog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogHandler.update")
	defer span.End()

	id, ok := pkg.PathID(r, "id")
	if !ok {
		pkg.WriteJSONError(w, "Invalid blog id", http.StatusBadRequest)
		return
	}

	b, ok := decodeBlog(w, r)
	if !ok {
		return
	}

	err := handler.repo.UpdateBlog(ctx, id, b)
	if err == nil {
		handler.invalidateList()
	}
	writeBlog(w, b, err, http.StatusOK, "update blog")
}

func (handler *Handler) handleDeleteBlog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogHandler.delete")
	defer span.End()

	id, ok := pkg.PathID(r, "id")
	if !ok {
		pkg.WriteJSONError(w, "Invalid blog id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.DeleteBlog(ctx, id); err != nil {
		if errors.Is(err, ErrBlogNotFound) {
			pkg.WriteJSONError(w, "Blog not found", http.StatusNotFound)
			return
		}
		pkg.WriteInternalError(w, "delete blog", err)
		return
	}

	handler.invalidateList()
	log.Tracef("blog %d deleted", id)
	pkg.WriteJSONMessage(w, "Blog deleted successfully", http.StatusOK)
}

func (handler *Handler) handleAddView(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogHandler.addView")
	defer span.End()

	id, ok := pkg.PathID(r, "id")
	if !ok {
		pkg.WriteJSONError(w, "Invalid blog id", http.StatusBadRequest)
		return
	}

	// the body is optional
	var viewReq viewRequest
	if err := json.NewDecoder(r.Body).Decode(&viewReq); err != nil && !errors.Is(err, io.EOF) {
		log.Debugf("blog view, unmarshal json params: %s", err)
	}

	view := View{
		BlogID:           id,
		ViewerIdentifier: viewReq.ViewerIdentifier,
		UserAgent:        r.Header.Get("User-Agent"),
	}
	if ip := pkg.ReadUserIP(r); ip != pkg.UnknownIP {
		view.IPAddress = ip
	}

	if err := handler.repo.AddView(ctx, view); err != nil {
		if errors.Is(err, ErrBlogNotFound) {
			pkg.WriteJSONError(w, "Blog not found", http.StatusNotFound)
			return
		}
		pkg.WriteInternalError(w, "record blog view", err)
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterBlogViews.Inc()
	}
	pkg.WriteJSON(w, successResponse{Success: true}, http.StatusCreated)
}

func (handler *Handler) handleViewsCount(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogHandler.viewsCount")
	defer span.End()

	id, ok := pkg.PathID(r, "id")
	if !ok {
		pkg.WriteJSONError(w, "Invalid blog id", http.StatusBadRequest)
		return
	}

	views, err := handler.repo.ViewsCount(ctx, id)
	if err != nil {
		pkg.WriteInternalError(w, "count blog views", err)
		return
	}
	pkg.WriteJSONOK(w, viewsResponse{Views: views})
}

func (handler *Handler) handleClearViews(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogHandler.clearViews")
	defer span.End()

	id, ok := pkg.PathID(r, "id")
	if !ok {
		pkg.WriteJSONError(w, "Invalid blog id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.ClearViews(ctx, id); err != nil {
		pkg.WriteInternalError(w, "clear blog views", err)
		return
	}
	pkg.WriteJSONOK(w, successResponse{Success: true})
}

func (handler *Handler) invalidateList() {
	if handler.listCache != nil {
		handler.listCache.Clear()
	}
}

func writeBlog(w http.ResponseWriter, b *Blog, err error, okStatus int, errContext string) {
	switch {
	case err == nil:
		pkg.WriteJSON(w, b, okStatus)
	case errors.Is(err, ErrBlogNotFound):
		pkg.WriteJSONError(w, "Blog not found", http.StatusNotFound)
	case errors.Is(err, ErrSlugTaken):
		pkg.WriteJSONError(w, "A blog with this slug already exists", http.StatusConflict)
	default:
		pkg.WriteInternalError(w, errContext, err)
	}
}

func decodeBlog(w http.ResponseWriter, r *http.Request) (*Blog, bool) {
	b := &Blog{}
	if err := json.NewDecoder(r.Body).Decode(b); err != nil {
		log.Debugf("blog, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return nil, false
	}
	if err := b.Validate(); err != nil {
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return b, true
}
