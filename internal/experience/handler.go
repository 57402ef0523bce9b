package experience

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/shoileazeez/portfolio/internal/telemetry/tracing"
	"github.com/shoileazeez/portfolio/pkg"
)

type experienceRepo interface {
	All(ctx context.Context) ([]*Experience, error)
	Add(ctx context.Context, e *Experience) error
	Update(ctx context.Context, id int, e *Experience) error
	Delete(ctx context.Context, id int) error
}

type Handler struct {
	repo experienceRepo
}

func NewHandler(repo experienceRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router, adminOnly func(http.Handler) http.Handler) {
	router.HandleFunc("/api/experience", handler.handleAll).Methods("GET").Name("experience")
	router.Handle("/api/experience", adminOnly(http.HandlerFunc(handler.handleAdd))).Methods("POST").Name("new-experience")
	router.Handle("/api/experience/{id:[0-9]+}", adminOnly(http.HandlerFunc(handler.handleUpdate))).Methods("PUT").Name("update-experience")
	router.Handle("/api/experience/{id:[0-9]+}", adminOnly(http.HandlerFunc(handler.handleDelete))).Methods("DELETE").Name("delete-experience")
}

func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "experienceHandler.all")
	defer span.End()

	entries, err := handler.repo.All(ctx)
	if err != nil {
		pkg.WriteInternalError(w, "get experience", err)
		return
	}
	pkg.WriteJSONOK(w, entries)
}

func (handler *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "experienceHandler.add")
	defer span.End()

	e, ok := decodeExperience(w, r)
	if !ok {
		return
	}

	if err := handler.repo.Add(ctx, e); err != nil {
		pkg.WriteInternalError(w, "add experience", err)
		return
	}

	log.Tracef("new experience %d: [%s] added", e.ID, e.Title)
	pkg.WriteJSON(w, e, http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "experienceHandler.update")
	defer span.End()

	id, ok := pkg.PathID(r, "id")
	if !ok {
		pkg.WriteJSONError(w, "Invalid experience id", http.StatusBadRequest)
		return
	}

	e, ok := decodeExperience(w, r)
	if !ok {
		return
	}

	if err := handler.repo.Update(ctx, id, e); err != nil {
		if errors.Is(err, ErrExperienceNotFound) {
			pkg.WriteJSONError(w, "Experience not found", http.StatusNotFound)
			return
		}
		pkg.WriteInternalError(w, "update experience", err)
		return
	}
	pkg.WriteJSONOK(w, e)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "experienceHandler.delete")
	defer span.End()

	id, ok := pkg.PathID(r, "id")
	if !ok {
		pkg.WriteJSONError(w, "Invalid experience id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrExperienceNotFound) {
			pkg.WriteJSONError(w, "Experience not found", http.StatusNotFound)
			return
		}
		pkg.WriteInternalError(w, "delete experience", err)
		return
	}
	pkg.WriteJSONMessage(w, "Experience deleted successfully", http.StatusOK)
}

func decodeExperience(w http.ResponseWriter, r *http.Request) (*Experience, bool) {
	e := &Experience{}
	if err := json.NewDecoder(r.Body).Decode(e); err != nil {
		log.Debugf("experience, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return nil, false
	}
	if e.Title == "" {
		pkg.WriteJSONError(w, "title is required", http.StatusBadRequest)
		return nil, false
	}
	return e, true
}
