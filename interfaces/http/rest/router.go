package rest

import (
	"net/http"

	"workspace-backend/application/ports"
	"workspace-backend/application/services"
	"workspace-backend/infrastructure/config"
	"workspace-backend/interfaces/http/rest/handlers"
	"workspace-backend/interfaces/http/rest/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg      *config.Config
	sync     *services.SyncManager
	eventPub ports.EventPublisher
	logger   *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	sync *services.SyncManager,
	eventPub ports.EventPublisher,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:      cfg,
		sync:     sync,
		eventPub: eventPub,
		logger:   logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// API routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.cfg, rt.logger))

		// App data session endpoints
		appDataHandler := handlers.NewAppDataHandler(rt.sync, rt.logger)
		r.Get("/appdata", appDataHandler.GetAppData)
		r.Get("/appdata/sync", appDataHandler.GetSyncStatus)

		// Workspace endpoints
		r.Route("/workspaces", func(r chi.Router) {
			workspaceHandler := handlers.NewWorkspaceHandler(rt.sync, rt.eventPub, rt.logger)
			r.Get("/", workspaceHandler.ListWorkspaces)
			r.Post("/", workspaceHandler.CreateWorkspace)
			r.Delete("/{workspaceID}", workspaceHandler.DeleteWorkspace)

			// Journey tree endpoints, scoped to a workspace
			journeyHandler := handlers.NewJourneyHandler(rt.sync, rt.logger)
			r.Route("/{workspaceID}/journey", func(r chi.Router) {
				r.Get("/", journeyHandler.GetForest)
				r.Post("/nodes", journeyHandler.CreateNode)
				r.Patch("/nodes/{nodeID}", journeyHandler.UpdateNode)
				r.Delete("/nodes/{nodeID}", journeyHandler.DeleteNode)
				r.Post("/nodes/{nodeID}/links", journeyHandler.AddLink)
				r.Delete("/nodes/{nodeID}/links/{linkID}", journeyHandler.RemoveLink)
			})
		})

		// Page and block endpoints
		r.Route("/pages", func(r chi.Router) {
			pageHandler := handlers.NewPageHandler(rt.sync, rt.eventPub, rt.logger)
			r.Get("/", pageHandler.ListPages)
			r.Post("/", pageHandler.CreatePage)
			r.Get("/{pageID}", pageHandler.GetPage)
			r.Patch("/{pageID}", pageHandler.UpdatePage)
			r.Delete("/{pageID}", pageHandler.DeletePage)

			r.Route("/{pageID}/blocks", func(r chi.Router) {
				r.Post("/", pageHandler.InsertBlock)
				r.Post("/reorder", pageHandler.ReorderBlock)
				r.Patch("/{blockID}", pageHandler.UpdateBlock)
				r.Delete("/{blockID}", pageHandler.DeleteBlock)

				// Database blocks carry their schema inline
				databaseHandler := handlers.NewDatabaseHandler(rt.sync, rt.eventPub, rt.logger)
				r.Route("/{blockID}/database", func(r chi.Router) {
					r.Get("/", databaseHandler.GetDatabase)
					r.Patch("/", databaseHandler.UpdateDatabase)
					r.Post("/fields", databaseHandler.AddField)
					r.Delete("/fields/{fieldID}", databaseHandler.DeleteField)
					r.Post("/fields/{fieldID}/options", databaseHandler.AddOption)
					r.Post("/rows", databaseHandler.AddRow)
					r.Delete("/rows/{rowID}", databaseHandler.DeleteRow)
					r.Put("/rows/{rowID}/cells/{fieldID}", databaseHandler.SetCell)
				})
			})
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
