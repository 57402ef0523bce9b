package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/shoileazeez/portfolio/internal/telemetry/metrics"
	"github.com/shoileazeez/portfolio/internal/telemetry/tracing"
	"github.com/shoileazeez/portfolio/pkg"
)

const DefaultNotifyTimeout = 20 * time.Second

type contactRepo interface {
	Add(ctx context.Context, c *Contact) error
	All(ctx context.Context) ([]*Contact, error)
	Get(ctx context.Context, id int) (*Contact, error)
	UpdateStatus(ctx context.Context, id int, status string) (*Contact, error)
	Delete(ctx context.Context, id int) error
}

type Handler struct {
	repo           contactRepo
	notifier       notifier
	notifyTimeout  time.Duration
	metricsManager *metrics.Manager

	notifications sync.WaitGroup
}

// NewHandler creates the contacts handler. A nil notifier disables email notifications.
func NewHandler(
	repo contactRepo,
	notifier notifier,
	notifyTimeout time.Duration,
	metricsManager *metrics.Manager,
) *Handler {
	if notifyTimeout <= 0 {
		notifyTimeout = DefaultNotifyTimeout
	}
	return &Handler{
		repo:           repo,
		notifier:       notifier,
		notifyTimeout:  notifyTimeout,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router, adminOnly func(http.Handler) http.Handler) {
	router.HandleFunc("/api/contacts", handler.handleSubmit).Methods("POST").Name("new-contact")
	router.Handle("/api/contacts", adminOnly(http.HandlerFunc(handler.handleAll))).Methods("GET").Name("contacts")
	router.Handle("/api/contacts/{id:[0-9]+}", adminOnly(http.HandlerFunc(handler.handleGet))).Methods("GET").Name("contact")
	router.Handle("/api/contacts/{id:[0-9]+}", adminOnly(http.HandlerFunc(handler.handleUpdateStatus))).Methods("PUT").Name("update-contact")
	router.Handle("/api/contacts/{id:[0-9]+}", adminOnly(http.HandlerFunc(handler.handleDelete))).Methods("DELETE").Name("delete-contact")
}

// Wait blocks until in-flight notifications are done.
func (handler *Handler) Wait() {
	handler.notifications.Wait()
}

type submitResponse struct {
	Message string  `json:"message"`
	Contact Receipt `json:"contact"`
}

func (handler *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "contactHandler.submit")
	defer span.End()

	c := &Contact{}
	if err := json.NewDecoder(r.Body).Decode(c); err != nil {
		log.Debugf("contact, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "Name, email, and message are required", http.StatusBadRequest)
		return
	}
	if !c.Validate() {
		pkg.WriteJSONError(w, "Name, email, and message are required", http.StatusBadRequest)
		return
	}

	submittedSubject := c.Subject
	if err := handler.repo.Add(ctx, c); err != nil {
		pkg.WriteInternalError(w, "add contact", err)
		return
	}

	log.Infof("new contact submission %d from [%s]", c.ID, c.Email)
	if handler.metricsManager != nil {
		handler.metricsManager.CounterContacts.Inc()
	}

	handler.notifyAsync(context.WithoutCancel(ctx), c.notification(submittedSubject))

	pkg.WriteJSONOK(w, submitResponse{
		Message: "Contact form submitted successfully",
		Contact: c.Receipt(),
	})
}

func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "contactHandler.all")
	defer span.End()

	contacts, err := handler.repo.All(ctx)
	if err != nil {
		pkg.WriteInternalError(w, "get contacts", err)
		return
	}
	pkg.WriteJSONOK(w, contacts)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "contactHandler.get")
	defer span.End()

	id, ok := pkg.PathID(r, "id")
	if !ok {
		pkg.WriteJSONError(w, "Invalid contact id", http.StatusBadRequest)
		return
	}

	c, err := handler.repo.Get(ctx, id)
	if err != nil {
		handler.writeRepoError(w, "get contact", err)
		return
	}
	pkg.WriteJSONOK(w, c)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (handler *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "contactHandler.updateStatus")
	defer span.End()

	id, ok := pkg.PathID(r, "id")
	if !ok {
		pkg.WriteJSONError(w, "Invalid contact id", http.StatusBadRequest)
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Status) == "" {
		pkg.WriteJSONError(w, "Status is required", http.StatusBadRequest)
		return
	}

	c, err := handler.repo.UpdateStatus(ctx, id, strings.TrimSpace(req.Status))
	if err != nil {
		handler.writeRepoError(w, "update contact status", err)
		return
	}
	pkg.WriteJSONOK(w, c)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "contactHandler.delete")
	defer span.End()

	id, ok := pkg.PathID(r, "id")
	if !ok {
		pkg.WriteJSONError(w, "Invalid contact id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		handler.writeRepoError(w, "delete contact", err)
		return
	}
	pkg.WriteJSONMessage(w, "Contact deleted successfully", http.StatusOK)
}

func (handler *Handler) writeRepoError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrContactNotFound) {
		pkg.WriteJSONError(w, "Contact not found", http.StatusNotFound)
		return
	}
	pkg.WriteInternalError(w, op, err)
}
