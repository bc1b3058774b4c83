package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fatmaann/agent-judgement-assistant/pkg/utils/logging"
)

type Server struct {
	router             *chi.Mux
	eventHandler       *SlackEventHandler
	interactionHandler *SlackInteractionHandler
	signingSecret      string
}

type Options func(*Server)

// WithSlackWebhook registers the Slack event and interaction endpoints,
// guarded by signature verification.
func WithSlackWebhook(events *SlackEventHandler, interactions *SlackInteractionHandler, signingSecret string) Options {
	return func(s *Server) {
		s.eventHandler = events
		s.interactionHandler = interactions
		s.signingSecret = signingSecret
	}
}

func New(opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{router: r}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK")) //nolint:errcheck // header already committed
	})

	// Slack endpoints use signature verification, no other auth
	if s.eventHandler != nil {
		r.Route("/hooks/slack", func(r chi.Router) {
			r.Use(SlackSignatureMiddleware(s.signingSecret))

			r.Post("/event", s.eventHandler.ServeHTTP)
			if s.interactionHandler != nil {
				r.Post("/interaction", s.interactionHandler.ServeHTTP)
			}
		})
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
