package cashier

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/cashier/pkg/logger"
	"github.com/dmitrymomot/cashier/pkg/webhook"
)

// ServeHTTP handles a webhook delivery. The body must already have passed
// signature verification; use Routes to get both.
// Every processed delivery is answered with 200 and the outcome message.
func (r *Reconciler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, webhook.DefaultMaxBodySize))
	if err != nil {
		r.logger.WarnContext(req.Context(), "failed to read webhook body", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	outcome := r.Handle(req.Context(), body)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, outcome.String())
}

// Routes returns a router that verifies the Paystack signature with secret
// and feeds accepted deliveries to the reconciler. Mount it at
// Config.WebhookPath. An empty secret disables verification.
func Routes(r *Reconciler, secret string, opts ...webhook.MiddlewareOption) chi.Router {
	router := chi.NewRouter()
	router.With(webhook.Middleware(secret, append([]webhook.MiddlewareOption{webhook.WithLogger(r.logger)}, opts...)...)).
		Post("/", r.ServeHTTP)
	return router
}

type failedEventView struct {
	ID            uuid.UUID       `json:"id"`
	Event         string          `json:"event"`
	Error         string          `json:"error"`
	Attempts      int             `json:"attempts"`
	Payload       json.RawMessage `json:"payload"`
	CreatedAt     time.Time       `json:"created_at"`
	LastAttemptAt time.Time       `json:"last_attempt_at"`
}

// AdminRoutes exposes recorded failed deliveries:
//
//	GET  /             list, newest first (?limit=n)
//	POST /{id}/replay  run the delivery again; 204 on success
//
// The router carries no authentication of its own.
func AdminRoutes(r *Reconciler) chi.Router {
	router := chi.NewRouter()
	router.Get("/", r.listFailedEvents)
	router.Post("/{id}/replay", r.replayFailedEvent)
	return router
}

func (r *Reconciler) listFailedEvents(w http.ResponseWriter, req *http.Request) {
	limit := 50
	if v := req.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	events, err := r.FailedEvents(req.Context(), limit)
	if err != nil {
		r.logger.ErrorContext(req.Context(), "failed to list failed webhook events", logger.Error(err))
		writeJSONError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	out := make([]failedEventView, 0, len(events))
	for _, e := range events {
		payload := json.RawMessage(e.Payload)
		if !json.Valid(payload) {
			payload, _ = json.Marshal(string(e.Payload))
		}
		out = append(out, failedEventView{
			ID:            e.ID,
			Event:         e.Event,
			Error:         e.Error,
			Attempts:      e.Attempts,
			Payload:       payload,
			CreatedAt:     e.CreatedAt,
			LastAttemptAt: e.LastAttemptAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (r *Reconciler) replayFailedEvent(w http.ResponseWriter, req *http.Request) {
	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid id")
		return
	}

	switch err := r.Replay(req.Context(), id); {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, ErrFailedEventNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	default:
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
