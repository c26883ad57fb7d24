package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/grxp/pkg/usecase"
	"github.com/secmon-lab/grxp/pkg/utils/logging"
)

// DefaultMaxBodySize bounds request bodies, imports included
const DefaultMaxBodySize = 8 << 20

type Server struct {
	router      *chi.Mux
	uc          *usecase.UseCases
	maxBodySize int64
}

type Options func(*Server)

// WithMaxBodySize overrides DefaultMaxBodySize
func WithMaxBodySize(n int64) Options {
	return func(s *Server) {
		s.maxBodySize = n
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:      r,
		uc:          uc,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	r.Use(bodyLimit(s.maxBodySize))

	r.Route("/api", func(r chi.Router) {
		r.Get("/classify", s.classifyHandler)

		r.Route("/risks", func(r chi.Router) {
			r.Get("/", s.listRisksHandler)
			r.Post("/", s.createRiskHandler)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getRiskHandler)
				r.Put("/", s.updateRiskHandler)
				r.Delete("/", s.deleteRiskHandler)
				r.Put("/{phase}", s.rateRiskHandler)
				r.Get("/matrix.svg", s.riskMatrixHandler)
			})
		})

		r.Get("/synthesis", s.synthesisHandler)
		r.Get("/synthesis.svg", s.synthesisSVGHandler)
		r.Get("/synthesis.txt", s.synthesisTextHandler)

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", s.listCatalogHandler)
			r.Post("/", s.saveCatalogHandler)
			r.Delete("/{id}", s.deleteCatalogHandler)
		})

		r.Route("/study", func(r chi.Router) {
			r.Get("/", s.getStudyHandler)
			r.Put("/", s.putStudyHandler)
			r.Post("/new", s.newStudyHandler)
		})

		r.Get("/export.json", s.exportJSONHandler)
		r.Get("/export.csv", s.exportCSVHandler)
		r.Post("/import.json", s.importJSONHandler)
		r.Post("/import.csv", s.importCSVHandler)
		r.Get("/report.pdf", s.reportPDFHandler)
	})

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
			logging.From(r.Context()).Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
