// Package http implements the reminders HTTP API for chime.
//
// The API mirrors what the voice loop can do: list reminders and schedule
// one from a spoken-style sentence. Fired reminders are streamed to browsers
// as server-sent events.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	validation "github.com/go-ozzo/ozzo-validation"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"golang.org/x/time/rate"

	"github.com/nadzzz/chime/internal/config"
	"github.com/nadzzz/chime/internal/notify"
	"github.com/nadzzz/chime/internal/parser"
	"github.com/nadzzz/chime/internal/reminder"
	"github.com/nadzzz/chime/internal/store"
)

// maxUtterance bounds the length of a scheduling sentence.
const maxUtterance = 256

// Transport serves the reminders API.
type Transport struct {
	port    int
	origins []string
	limiter *rate.Limiter
	store   *store.Store
	events  *notify.Events
	server  *http.Server
}

// New creates the API transport. events may be nil, in which case GET
// /events is not served.
func New(cfg config.APIConfig, st *store.Store, events *notify.Events) *Transport {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Transport{
		port:    cfg.Port,
		origins: origins,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), burst),
		store:   st,
		events:  events,
	}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "http" }

// Handler builds the API router.
func (t *Transport) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   t.origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	reminders := chi.NewRouter()
	reminders.Use(t.rateLimit)
	reminders.Method(http.MethodGet, "/", http.HandlerFunc(t.handleList))
	reminders.Method(http.MethodPost, "/", http.HandlerFunc(t.handleCreate))
	router.Mount("/reminders", reminders)

	if t.events != nil {
		router.Get("/events", t.handleEvents)
	}

	// Swagger UI, backed by the docs package registered in main.
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return router
}

// Listen starts the HTTP server. It blocks until the context is cancelled.
func (t *Transport) Listen(ctx context.Context) error {
	t.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", t.port),
		Handler:           t.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("http api listening", "port", t.port)

	go func() {
		<-ctx.Done()
		slog.Info("http api shutting down")
		if t.events != nil {
			t.events.Close()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = t.server.Shutdown(shutdownCtx)
	}()

	if err := t.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

func (t *Transport) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !t.limiter.Allow() {
			renderError(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Reminder is a scheduled reminder as returned by the API.
type Reminder struct {
	ID    string         `json:"id" example:"5f0c8a39-1f7e-4b8e-9a59-0a3c3c1d2b7e"`
	Title string         `json:"title" example:"call mom"`
	Time  reminder.Clock `json:"time" swaggertype:"string" example:"17:30"`
}

func fromEntry(e store.Entry) Reminder {
	return Reminder{ID: e.ID.String(), Title: e.Title, Time: e.Time}
}

// ListResult is the body of GET /reminders.
type ListResult struct {
	Reminders []Reminder `json:"reminders"`
}

// CreateInput is the body of POST /reminders.
type CreateInput struct {
	Utterance string `json:"utterance" example:"call mom at 5:30 pm"`
}

// FromJSON decodes the input from r.
func (i *CreateInput) FromJSON(r io.Reader) error {
	return json.NewDecoder(r).Decode(i)
}

// Validate checks the input fields.
func (i CreateInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Utterance, validation.Required, validation.Length(1, maxUtterance)),
	)
}

// CreateResult is the body of a successful POST /reminders.
type CreateResult struct {
	Reminder Reminder `json:"reminder"`
}

// ErrorResult is the body of every error response.
type ErrorResult struct {
	Error string `json:"error"`
}

// handleList returns all pending reminders.
//
// @Summary     List reminders
// @Description Returns every pending reminder in the order it was scheduled.
// @Tags        reminders
// @Produce     json
// @Success     200  {object}  ListResult
// @Failure     429  {object}  ErrorResult  "Rate limit exceeded"
// @Router      /reminders [get]
func (t *Transport) handleList(w http.ResponseWriter, _ *http.Request) {
	entries := t.store.List()
	result := ListResult{Reminders: make([]Reminder, 0, len(entries))}
	for _, e := range entries {
		result.Reminders = append(result.Reminders, fromEntry(e))
	}
	render(w, result, http.StatusOK)
}

// handleCreate schedules a reminder from a sentence.
//
// @Summary     Schedule a reminder
// @Description Parses a sentence such as "call mom at 5:30 pm" into a title and a time of day.
// @Description The reminder fires the next time the scheduler sees that time has passed.
// @Tags        reminders
// @Accept      json
// @Produce     json
// @Param       input  body      CreateInput  true  "Sentence containing a 12-hour time"
// @Success     201    {object}  CreateResult
// @Failure     400    {object}  ErrorResult  "Invalid request body"
// @Failure     422    {object}  ErrorResult  "No time recognized"
// @Failure     429    {object}  ErrorResult  "Rate limit exceeded"
// @Failure     500    {object}  ErrorResult  "Saving failed"
// @Router      /reminders [post]
func (t *Transport) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input CreateInput
	if err := input.FromJSON(r.Body); err != nil {
		renderError(w, "invalid request data", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		render(w, err, http.StatusBadRequest)
		return
	}

	rem, ok := parser.Extract(input.Utterance)
	if !ok {
		renderError(w, "could not recognize the time", http.StatusUnprocessableEntity)
		return
	}

	entry := t.store.Add(rem.Title, rem.Time)
	slog.Info("reminder scheduled", "title", entry.Title, "time", entry.Time, "source", "http")

	if err := t.store.Save(); err != nil {
		slog.Error("saving reminders", "error", err)
		renderError(w, "internal error", http.StatusInternalServerError)
		return
	}
	render(w, CreateResult{Reminder: fromEntry(entry)}, http.StatusCreated)
}

// handleEvents streams fired reminders.
//
// @Summary     Stream fired reminders
// @Description Server-sent events; each "reminder" event carries {"title", "message"}.
// @Tags        events
// @Produce     text/event-stream
// @Success     200  {object}  notify.Event
// @Router      /events [get]
func (t *Transport) handleEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	q.Set("stream", notify.EventStream)
	r.URL.RawQuery = q.Encode()
	t.events.Server().ServeHTTP(w, r)
}

func renderError(w http.ResponseWriter, msg string, status int) {
	render(w, ErrorResult{Error: msg}, status)
}

func render(w http.ResponseWriter, res any, status int) {
	w.Header().Set("Content-Type", "application/json")

	content, err := json.Marshal(res)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	_, _ = w.Write(content)
}
