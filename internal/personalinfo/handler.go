package personalinfo

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

type infoRepo interface {
	Get(ctx context.Context) (*PersonalInfo, error)
	Upsert(ctx context.Context, info *PersonalInfo) error
}

type Handler struct {
	repo infoRepo
}

func NewHandler(repo infoRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router, adminOnly func(http.Handler) http.Handler) {
	router.HandleFunc("/api/personal-info", handler.handleGet).Methods("GET").Name("personal-info")
	router.Handle("/api/personal-info", adminOnly(http.HandlerFunc(handler.handleUpsert))).Methods("PUT").Name("update-personal-info")
}

// handleGet answers with an empty object until the profile is first saved.
func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "personalInfoHandler.get")
	defer span.End()

	info, err := handler.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, []byte(`{}`))
			return
		}
		pkg.WriteInternalError(w, "get personal info", err)
		return
	}
	pkg.WriteJSONOK(w, info)
}

func (handler *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "personalInfoHandler.upsert")
	defer span.End()

	info := &PersonalInfo{}
	if err := json.NewDecoder(r.Body).Decode(info); err != nil {
		log.Debugf("personal info, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Upsert(ctx, info); err != nil {
		pkg.WriteInternalError(w, "upsert personal info", err)
		return
	}
	pkg.WriteJSONOK(w, info)
}
