package managerapi

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/flowmesh-io/orchestrator/internal/appconfig"
	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
	"github.com/flowmesh-io/orchestrator/internal/ports"
)

// Server holds one Store per entity type and exposes the combined chi
// router implementing spec.md §6's HTTP entity managers.
type Server struct {
	cfg       *appconfig.Config
	analyzer  ports.BreakingChangeAnalyzer
	accessLog zerolog.Logger

	schemas           *Store[entity.Schema]
	addresses         *Store[entity.Address]
	deliveries        *Store[entity.Delivery]
	processors        *Store[entity.Processor]
	steps             *Store[entity.Step]
	workflows         *Store[entity.Workflow]
	orchestratedFlows *Store[entity.OrchestratedFlow]
	assignments       *Store[entity.Assignment]
}

// NewServer wires every entity store and its Resource handlers. analyzer
// may be nil only when schema updates are never expected to be exercised
// (tests); production wiring always supplies internal/schema.New().
func NewServer(cfg *appconfig.Config, analyzer ports.BreakingChangeAnalyzer) *Server {
	return &Server{
		cfg:       cfg,
		analyzer:  analyzer,
		accessLog: zerolog.New(os.Stdout).With().Timestamp().Str("layer", "http").Logger(),

		schemas:           NewStore[entity.Schema]("schema", nil),
		addresses:         NewStore[entity.Address]("address", func(a entity.Address) string { return a.CompositeKey() }),
		deliveries:        NewStore[entity.Delivery]("delivery", nil),
		processors:        NewStore[entity.Processor]("processor", func(p entity.Processor) string { return p.CompositeKey() }),
		steps:             NewStore[entity.Step]("step", nil),
		workflows:         NewStore[entity.Workflow]("workflow", nil),
		orchestratedFlows: NewStore[entity.OrchestratedFlow]("orchestratedFlow", nil),
		assignments:       NewStore[entity.Assignment]("assignment", nil),
	}
}

func (s *Server) refIntegrityEnabled() bool {
	return s.cfg == nil || s.cfg.Features.ReferentialIntegrityValidation
}

// Router builds the combined chi.Mux mounting every entity resource under
// /api/<entity>, plus request-id and correlation-id middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.correlationMiddleware)
	r.Use(accessLogMiddleware(s.accessLog))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", headerName(s.cfg)},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/schema", func(sub chi.Router) { s.schemaResource().Mount(sub) })
	r.Route("/api/address", func(sub chi.Router) { s.addressResource().Mount(sub) })
	r.Route("/api/delivery", func(sub chi.Router) { s.deliveryResource().Mount(sub) })
	r.Route("/api/processor", func(sub chi.Router) { s.processorResource().Mount(sub) })
	r.Route("/api/step", func(sub chi.Router) { s.stepResource().Mount(sub) })
	r.Route("/api/workflow", func(sub chi.Router) { s.workflowResource().Mount(sub) })
	r.Route("/api/orchestratedflow", func(sub chi.Router) { s.orchestratedFlowResource().Mount(sub) })
	r.Route("/api/assignment", func(sub chi.Router) { s.assignmentResource().Mount(sub) })

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

func headerName(cfg *appconfig.Config) string {
	if cfg == nil || cfg.CorrelationHeaderName == "" {
		return "X-Correlation-ID"
	}
	return cfg.CorrelationHeaderName
}

func (s *Server) correlationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := headerName(s.cfg)
		id := r.Header.Get(header)
		if id == "" {
			id = ports.GenerateCorrelationID()
		}
		w.Header().Set(header, id)
		ctx := ports.WithCorrelationID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func idPtr(ids []entity.ID, id *entity.ID) []entity.ID {
	if id == nil {
		return ids
	}
	return append(ids, *id)
}
