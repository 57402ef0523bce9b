package project

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/shoileazeez/portfolio/internal/cache"
	"github.com/shoileazeez/portfolio/internal/telemetry/tracing"
	"github.com/shoileazeez/portfolio/pkg"
)

const (
	listLimit    = 50
	listCacheKey = "projects:latest"
)

type projectRepo interface {
	List(ctx context.Context, limit int) ([]*Project, error)
	Get(ctx context.Context, id int) (*Project, error)
	GetBySlug(ctx context.Context, slug string) (*Project, error)
	Create(ctx context.Context, p *Project) error
	Update(ctx context.Context, id int, p *Project) error
	Delete(ctx context.Context, id int) error
}

type Handler struct {
	repo      projectRepo
	listCache *cache.ListCache
}

func NewHandler(repo projectRepo, listCache *cache.ListCache) *Handler {
	return &Handler{
		repo:      repo,
		listCache: listCache,
	}
}

// SetupRoutes registers the project routes; mutations are wrapped with adminOnly.
func (handler *Handler) SetupRoutes(router *mux.Router, adminOnly func(http.Handler) http.Handler) {
	router.HandleFunc("/api/projects", handler.handleList).Methods("GET").Name("projects")
	router.Handle("/api/projects", adminOnly(http.HandlerFunc(handler.handleCreate))).Methods("POST").Name("new-project")
	router.HandleFunc("/api/projects/slug/{slug}", handler.handleGetBySlug).Methods("GET").Name("project-by-slug")
	router.HandleFunc("/api/projects/{id:[0-9]+}", handler.handleGet).Methods("GET").Name("project")
	router.Handle("/api/projects/{id:[0-9]+}", adminOnly(http.HandlerFunc(handler.handleUpdate))).Methods("PUT").Name("update-project")
	router.Handle("/api/projects/{id:[0-9]+}", adminOnly(http.HandlerFunc(handler.handleDelete))).Methods("DELETE").Name("delete-project")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "projectHandler.list")
	defer span.End()

	w.Header().Set("Cache-Control", pkg.PublicListCacheControl)

	if handler.listCache != nil {
		if payload, found := handler.listCache.Get(listCacheKey); found {
			span.SetAttributes(attribute.Bool("list_cache.hit", true))
			pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, payload)
			return
		}
	}

	projects, err := handler.repo.List(ctx, listLimit)
	if err != nil {
		pkg.WriteInternalError(w, "list projects", err)
		return
	}

	payload, err := json.Marshal(projects)
	if err != nil {
		pkg.WriteInternalError(w, "marshal projects", err)
		return
	}

	if handler.listCache != nil {
		handler.listCache.Set(listCacheKey, payload)
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, payload)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "projectHandler.get")
	defer span.End()

	id, ok := pkg.PathID(r, "id")
	if !ok {
		pkg.WriteJSONError(w, "Invalid project id", http.StatusBadRequest)
		return
	}

	p, err := handler.repo.Get(ctx, id)
	handler.writeProject(w, p, err, http.StatusOK, "get project")
}

func (handler *Handler) handleGetBySlug(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "projectHandler.getBySlug")
	defer span.End()

	p, err := handler.repo.GetBySlug(ctx, mux.Vars(r)["slug"])
	handler.writeProject(w, p, err, http.StatusOK, "get project by slug")
}

func (handler *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "projectHandler.create")
	defer span.End()

	p, ok := decodeProject(w, r)
	if !ok {
		return
	}

	err := handler.repo.Create(ctx, p)
	if err == nil {
		handler.invalidateList()
		log.Tracef("new project %d: [%s] added", p.ID, p.Slug)
	}
	handler.writeProject(w, p, err, http.StatusCreated, "create project")
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "projectHandler.update")
	defer span.End()

	id, ok := pkg.PathID(r, "id")
	if !ok {
		pkg.WriteJSONError(w, "Invalid project id", http.StatusBadRequest)
		return
	}

	p, ok := decodeProject(w, r)
	if !ok {
		return
	}

	err := handler.repo.Update(ctx, id, p)
	if err == nil {
		handler.invalidateList()
	}
	handler.writeProject(w, p, err, http.StatusOK, "update project")
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "projectHandler.delete")
	defer span.End()

	id, ok := pkg.PathID(r, "id")
	if !ok {
		pkg.WriteJSONError(w, "Invalid project id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			pkg.WriteJSONError(w, "Project not found", http.StatusNotFound)
			return
		}
		pkg.WriteInternalError(w, "delete project", err)
		return
	}

	handler.invalidateList()
	log.Tracef("project %d deleted", id)
	pkg.WriteJSONMessage(w, "Project deleted successfully", http.StatusOK)
}

func (handler *Handler) writeProject(w http.ResponseWriter, p *Project, err error, okStatus int, errContext string) {
	switch {
	case err == nil:
		pkg.WriteJSON(w, p, okStatus)
	case errors.Is(err, ErrProjectNotFound):
		pkg.WriteJSONError(w, "Project not found", http.StatusNotFound)
	case errors.Is(err, ErrSlugTaken):
		pkg.WriteJSONError(w, "A project with this slug already exists", http.StatusConflict)
	default:
		pkg.WriteInternalError(w, errContext, err)
	}
}

func (handler *Handler) invalidateList() {
	if handler.listCache != nil {
		handler.listCache.Clear()
	}
}

func decodeProject(w http.ResponseWriter, r *http.Request) (*Project, bool) {
	p := &Project{}
	if err := json.NewDecoder(r.Body).Decode(p); err != nil {
		log.Debugf("project, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return nil, false
	}
	if err := p.Validate(); err != nil {
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return p, true
}
