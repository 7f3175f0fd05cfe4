// internal/server/server.go

// Package server wires the HTTP API: user administration, evaluation
// submission and analytics, event proposals, application submission and the
// admin processing workflow, settings, postal lookup and health.
package server

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"office-portal/internal/common/config"
	"office-portal/internal/common/logger"
	"office-portal/internal/common/observability"
	"office-portal/internal/notify"
	"office-portal/internal/postal"
	"office-portal/internal/search"
	"office-portal/internal/settings"
	"office-portal/internal/store"
	"office-portal/pkg/registry"
)

// Deps carries everything the server needs. Optional integrations (notifier,
// search, postal) may be nil and the matching endpoints degrade accordingly.
type Deps struct {
	DB       *sql.DB
	Cache    *redis.Client
	Settings *settings.Service
	Notifier *notify.Notifier
	Search   *search.Service
	Postal   *postal.Client
	Registry *registry.Registry
	Config   *config.Config
	Logger   logger.Logger
	Obs      *observability.Observability

	// Now is the clock used for processed_at stamps. Defaults to time.Now.
	Now func() time.Time
}

type Server struct {
	db    *sql.DB
	cache *redis.Client

	users     *store.UserStore
	evals     *store.EvaluationStore
	proposals *store.ProposalStore
	apps      *store.ApplicationStore
	audit     *store.AuditStore

	settings *settings.Service
	notifier *notify.Notifier
	search   *search.Service
	postal   *postal.Client
	registry *registry.Registry

	cfg *config.Config
	log logger.Logger
	obs *observability.Observability
	now func() time.Time
}

func New(deps Deps) *Server {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		db:        deps.DB,
		cache:     deps.Cache,
		users:     store.NewUserStore(deps.DB),
		evals:     store.NewEvaluationStore(deps.DB),
		proposals: store.NewProposalStore(deps.DB),
		apps:      store.NewApplicationStore(deps.DB),
		audit:     store.NewAuditStore(deps.DB),
		settings:  deps.Settings,
		notifier:  deps.Notifier,
		search:    deps.Search,
		postal:    deps.Postal,
		registry:  deps.Registry,
		cfg:       deps.Config,
		log:       deps.Logger,
		obs:       deps.Obs,
		now:       now,
	}
}

// Router builds the chi router with all API routes mounted under /api/v1.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requestID)
	r.Use(requestLogger(s.log, s.obs))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.handleListUsers)
			r.Post("/", s.handleCreateUser)
			r.Put("/{id}", s.handleUpdateUser)
			r.Delete("/{id}", s.handleDeleteUser)
		})

		r.Route("/evaluations", func(r chi.Router) {
			r.Post("/", s.handleCreateEvaluation)
			r.Get("/targets", s.handleListTargets)
			r.Get("/report", s.handleMonthlyReport)
			r.Get("/crosstab", s.handleCrossTab)
			r.Get("/radar", s.handleRadar)
			r.Get("/comments", s.handleComments)
		})

		r.Route("/proposals", func(r chi.Router) {
			r.Post("/", s.handleCreateProposal)
			r.Get("/", s.handleListProposals)
			r.Get("/years", s.handleListProposalYears)
		})

		r.Route("/applications", func(r chi.Router) {
			r.Post("/", s.handleCreateApplication)
			r.Get("/", s.handleListApplications)
			r.Get("/badge", s.handleBadge)
			r.Get("/search", s.handleSearchApplications)
			r.Get("/forms", s.handleListForms)
			r.Get("/{id}", s.handleGetApplication)
			r.Patch("/{id}/status", s.handleUpdateApplicationStatus)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", s.handleGetSettings)
			r.Put("/", s.handleSaveSettings)
		})

		r.Get("/postal/{code}", s.handlePostalLookup)
	})

	return r
}
