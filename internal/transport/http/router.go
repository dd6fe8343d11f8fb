package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// RouterConfig carries the services and middleware settings for the API
// router.
type RouterConfig struct {
	Events         AdminEventService
	Catalog        EventCatalog
	Orders         OrderPlacer
	OrderReader    OrderReader
	AdminOrders    AdminOrderService
	Logger         *logrus.Logger
	AllowedOrigins []string
}

// NewRouter assembles the public storefront and admin routes.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(cfg.Logger))
	r.Use(CORS(cfg.AllowedOrigins))

	r.NotFound(NotFoundHandler().ServeHTTP)
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", HealthHandler)

	r.Get("/events", HandleListEvents(cfg.Catalog))
	r.Get("/events/{eventID}", HandleGetEvent(cfg.Catalog))
	r.Post("/events/{eventID}/orders", HandleCreateOrder(cfg.Orders))
	r.Get("/orders/{orderID}", HandleGetOrder(cfg.OrderReader))

	r.Route("/admin", func(r chi.Router) {
		r.Post("/events", HandleAdminCreateEvent(cfg.Events))
		r.Get("/events", HandleAdminListEvents(cfg.Events))
		r.Get("/events/{eventID}", HandleAdminGetEvent(cfg.Events))
		r.Post("/events/{eventID}/publish", HandleAdminPublishEvent(cfg.Events))
		r.Post("/events/{eventID}/tickets", HandleAdminAddTickets(cfg.Events))
		r.Get("/events/{eventID}/orders", HandleAdminListOrders(cfg.AdminOrders))
	})

	return r
}
