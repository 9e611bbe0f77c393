package server

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/taskjarvis/web-gateway/internal/config"
	"github.com/taskjarvis/web-gateway/session"
	"github.com/taskjarvis/web-gateway/upstream"
)

// Server is the TaskJarvis web gateway: it owns the session cookie, gates
// page routes, and proxies auth and data calls to the upstream API.
type Server struct {
	config     config.Config
	store      *session.Store
	upstream   *upstream.Client
	classifier *Classifier
	mux        *http.ServeMux
	routes     []string
	templates  map[string]*template.Template
	logger     zerolog.Logger
}

// ServerOption configures the Server.
type ServerOption func(*Server)

// WithLogger sets the server's component logger.
func WithLogger(logger zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithClassifier overrides the route classification table.
func WithClassifier(classifier *Classifier) ServerOption {
	return func(s *Server) {
		if classifier != nil {
			s.classifier = classifier
		}
	}
}

// New creates the gateway server and registers all routes.
func New(cfg config.Config, store *session.Store, upstreamClient *upstream.Client, options ...ServerOption) (*Server, error) {
	s := &Server{
		config:     cfg,
		store:      store,
		upstream:   upstreamClient,
		classifier: NewClassifier(),
		mux:        http.NewServeMux(),
		logger:     zerolog.Nop(),
	}

	for _, opt := range options {
		opt(s)
	}

	if err := s.initPageTemplates(); err != nil {
		return nil, err
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if !s.config.IsDev() {
		return
	}
	for _, route := range s.routes {
		s.logger.Debug().Str("route", route).Msg("Registered route")
	}
}
