// internal/wire/wire.go
package wire

import (
	"net/http"

	"booking-orders/internal/adaptor"
	"booking-orders/internal/data/repository"
	"booking-orders/internal/usecase"
	"booking-orders/pkg/cache"
	"booking-orders/pkg/middleware"
	"booking-orders/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired dependencies
type App struct {
	Router *chi.Mux
}

// Wiring initializes services, handlers and routes
func Wiring(
	repo *repository.Repository,
	store cache.Store,
	refundGateway usecase.RefundGateway,
	authenticator usecase.WebhookAuthenticator,
	notifier usecase.Notifier,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	// Initialize services dan handlers
	service := usecase.NewService(repo, store, refundGateway, authenticator, notifier, config, logger)
	handler := adaptor.NewHandler(service, logger)

	// Setup router
	router := setupRouter(handler, config, logger)

	return &App{
		Router: router,
	}
}

// setupRouter configures the Chi router
func setupRouter(
	handler *adaptor.Handler,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireRefund(r, handler.Refund, config, logger)
	wireOrder(r, handler.Order, config, logger)
	wireWebhook(r, handler.Webhook)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
