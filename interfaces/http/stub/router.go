package stub

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"mirror-client/pkg/observability"
)

// Server serves the backend contract for local development.
type Server struct {
	store   *Store
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewServer creates a stub server around a fresh in-memory store.
func NewServer(metrics *observability.Metrics, logger *zap.Logger) *Server {
	return &Server{
		store:   NewStore(),
		logger:  logger,
		metrics: metrics,
	}
}

// Handler configures all routes and middleware.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(requestLogger(s.logger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Session-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if s.metrics != nil {
		router.Handle("/metrics", s.metrics.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		r.Get("/frameworks", s.listFrameworks)
		r.Get("/frameworks/{frameworkID}/prompts", s.getPrompts)
		r.Get("/graph", s.getGraph)
		r.Route("/questions", func(r chi.Router) {
			r.Get("/", s.listQuestions)
			r.Post("/", s.addQuestion)
			r.Delete("/{questionID}", s.deleteQuestion)
		})
		r.Post("/check", s.check)
	})

	return router
}

// requestLogger logs every request in the access-log style.
func requestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("HTTP Request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("requestID", chimiddleware.GetReqID(r.Context())),
			)
		})
	}
}
