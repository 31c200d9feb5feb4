// Package bootstrap assembles the web application from configuration.
package bootstrap

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"

	httptransport "github.com/ticketflow/ticketflow/internal/api/http"
	"github.com/ticketflow/ticketflow/internal/api/http/handlers"
	"github.com/ticketflow/ticketflow/internal/auth"
	"github.com/ticketflow/ticketflow/internal/config"
	"github.com/ticketflow/ticketflow/internal/domain"
	"github.com/ticketflow/ticketflow/internal/events"
	"github.com/ticketflow/ticketflow/internal/observability"
	"github.com/ticketflow/ticketflow/internal/persistence"
	"github.com/ticketflow/ticketflow/internal/repository"
	"github.com/ticketflow/ticketflow/internal/service"
	"github.com/ticketflow/ticketflow/internal/web"
	"github.com/ticketflow/ticketflow/internal/worker"
)

// App is the wired application.
type App struct {
	Fiber   *fiber.App
	Metrics *observability.Metrics

	redis *persistence.Redis
}

// New builds stores, repositories, services and routes from cfg.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var redis *persistence.Redis
	var sessionStorage fiber.Storage
	if cfg.Session.Store == config.SessionStoreRedis {
		redis = persistence.NewRedis(cfg.Redis, logger)
		sessionStorage = persistence.NewSessionStorage(redis)
	}

	ticketStore := persistence.NewSliceStore[domain.Ticket](cfg.Storage.TicketsPath(), logger)
	userStore := persistence.NewMapStore[domain.User](cfg.Storage.UsersPath(), logger)
	ticketRepo := repository.NewTicketRepository(ticketStore)
	userRepo := repository.NewUserRepository(userStore, cfg.Auth.BcryptCost)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification))

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	sessions := session.New(session.Config{
		Expiration:     cfg.Session.Expiration(),
		KeyLookup:      "cookie:" + cfg.Session.CookieName,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.Session.Secure,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		Storage:        sessionStorage,
	})
	gate := auth.NewGate(sessions, authService.TokenManager())

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		Views:       web.NewEngine(),
		ViewsLayout: web.Layout,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Storage.DataDir, redis, metrics),
		Pages:       handlers.NewPagesHandler(ticketService),
		Auth:        handlers.NewAuthHandler(authService, logger),
		Tickets:     handlers.NewTicketsHandler(ticketService),
		Gate:        gate,
		AuthLimiter: httptransport.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
	})

	return &App{Fiber: app, Metrics: metrics, redis: redis}, nil
}

// Close releases external connections.
func (a *App) Close() {
	a.redis.Close()
}
