package httpapi

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/rcandelu/adant/internal/pipeline"
)

// Server exposes the enriched-events API for one technology instance. The
// RFID instance mounts it at /api/enriched_events, the RTLS instance at
// /api/enriched_area_events.
type Server struct {
	pipe     *pipeline.Pipeline
	basePath string
	logger   *zap.Logger
}

func NewServer(pipe *pipeline.Pipeline, basePath string, logger *zap.Logger) *Server {
	return &Server{pipe: pipe, basePath: basePath, logger: logger}
}

// Router wires the query modes to routes. Filter runs before enrichment;
// a bad date parameter is rejected before any upstream call.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestID(s.logger))

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc(s.basePath, s.handleQuery).Methods(http.MethodGet)
	r.HandleFunc(s.basePath+"/today", s.handleToday).Methods(http.MethodGet)
	r.HandleFunc(s.basePath+"/yesterday", s.handleYesterday).Methods(http.MethodGet)
	r.HandleFunc(s.basePath+"/weekly", s.handleWeekly).Methods(http.MethodGet)
	r.HandleFunc(s.basePath+"/latest", s.handleLatest).Methods(http.MethodGet)
	r.HandleFunc(s.basePath+"/export", s.handleExport).Methods(http.MethodGet)
	return r
}

// WithCORS wraps the router with the policy the dashboard expects.
func WithCORS(origins []string, h http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Accept"}),
		handlers.AllowCredentials(),
	)(h)
}
