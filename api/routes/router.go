package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wrenchworks/mechshop-backend/api/controllers"
	"github.com/wrenchworks/mechshop-backend/api/middleware"
	authsvc "github.com/wrenchworks/mechshop-backend/internal/auth"
	customersvc "github.com/wrenchworks/mechshop-backend/internal/customers"
	inventorysvc "github.com/wrenchworks/mechshop-backend/internal/inventory"
	mechanicsvc "github.com/wrenchworks/mechshop-backend/internal/mechanics"
	ticketsvc "github.com/wrenchworks/mechshop-backend/internal/tickets"
	"github.com/wrenchworks/mechshop-backend/pkg/config"
	"github.com/wrenchworks/mechshop-backend/pkg/db"
	"github.com/wrenchworks/mechshop-backend/pkg/enums"
	"github.com/wrenchworks/mechshop-backend/pkg/logger"
	"github.com/wrenchworks/mechshop-backend/pkg/metrics"
	"github.com/wrenchworks/mechshop-backend/pkg/redis"
)

const (
	cacheScopeCustomers = "customers"
	cacheScopeInventory = "inventory"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	authService authsvc.Service,
	customerService customersvc.Service,
	mechanicService mechanicsvc.Service,
	inventoryService inventorysvc.Service,
	ticketService ticketsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if registry != nil {
		r.Use(middleware.Metrics(metrics.NewHTTPMetrics(registry)))
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/customers/login", controllers.CustomerLogin(authService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/mechanics/login", controllers.MechanicLogin(authService, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			// Registration stays open so walk-in customers can onboard before
			// they hold a token.
			r.Post("/", controllers.CustomerRegister(customerService, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, logg))
				r.With(middleware.CacheResponse(redisClient, cacheScopeCustomers, cfg.Cache.TTL, logg)).Get("/", controllers.CustomerList(customerService, logg))
				r.Get("/{customerId}", controllers.CustomerGet(customerService, logg))
				r.Get("/{customerId}/tickets", controllers.CustomerTickets(ticketService, logg))
				r.Group(func(r chi.Router) {
					r.Use(middleware.InvalidateCache(redisClient, logg, cacheScopeCustomers))
					r.Put("/{customerId}", controllers.CustomerUpdate(customerService, logg))
					r.Delete("/{customerId}", controllers.CustomerDelete(customerService, logg))
				})
			})
		})

		r.Route("/mechanics", func(r chi.Router) {
			r.Post("/", controllers.MechanicRegister(mechanicService, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, logg))
				r.Get("/", controllers.MechanicList(mechanicService, logg))
				r.Get("/leaderboard", controllers.MechanicLeaderboard(mechanicService, logg))
				r.Get("/{mechanicId}", controllers.MechanicGet(mechanicService, logg))
				r.Put("/{mechanicId}", controllers.MechanicUpdate(mechanicService, logg))
				r.Delete("/{mechanicId}", controllers.MechanicDelete(mechanicService, logg))
			})
		})

		r.Route("/inventory", func(r chi.Router) {
			r.With(middleware.CacheResponse(redisClient, cacheScopeInventory, cfg.Cache.TTL, logg)).Get("/", controllers.InventoryList(inventoryService, logg))
			r.With(middleware.CacheResponse(redisClient, cacheScopeInventory, cfg.Cache.TTL, logg)).Get("/{itemId}", controllers.InventoryGet(inventoryService, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, logg))
				r.Use(middleware.RequireRole(string(enums.ActorRoleMechanic), logg))
				r.Use(middleware.InvalidateCache(redisClient, logg, cacheScopeInventory))
				r.Post("/", controllers.InventoryCreate(inventoryService, logg))
				r.Put("/{itemId}", controllers.InventoryUpdate(inventoryService, logg))
				r.Delete("/{itemId}", controllers.InventoryDelete(inventoryService, logg))
			})
		})

		// The ticket workflow serves the front desk, so it stays open to
		// walk-in traffic.
		r.Route("/tickets", func(r chi.Router) {
			r.Get("/", controllers.TicketList(ticketService, logg))
			r.Get("/{ticketId}", controllers.TicketGet(ticketService, logg))
			r.Post("/", controllers.TicketCreate(ticketService, logg))
			r.Put("/{ticketId}", controllers.TicketUpdate(ticketService, logg))
			r.Delete("/{ticketId}", controllers.TicketDelete(ticketService, logg))
			r.Put("/{ticketId}/mechanics", controllers.TicketBulkEditMechanics(ticketService, logg))
			r.Put("/{ticketId}/mechanics/{mechanicId}", controllers.TicketAssignMechanic(ticketService, logg))
			r.Delete("/{ticketId}/mechanics/{mechanicId}", controllers.TicketRemoveMechanic(ticketService, logg))
			r.Put("/{ticketId}/parts/{partId}", controllers.TicketAddPart(ticketService, logg))
		})
	})

	return r
}
