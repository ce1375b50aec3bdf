package router

import (
	"context"
	"net/http"
	"time"

	"ms-eventplatform/internal/analytics"
	"ms-eventplatform/internal/analytics/analytics_api"
	"ms-eventplatform/internal/audit"
	"ms-eventplatform/internal/audit/audit_api"
	"ms-eventplatform/internal/auth"
	"ms-eventplatform/internal/auth/auth_api"
	"ms-eventplatform/internal/categories"
	"ms-eventplatform/internal/categories/category_api"
	"ms-eventplatform/internal/config"
	"ms-eventplatform/internal/events"
	"ms-eventplatform/internal/events/event_api"
	"ms-eventplatform/internal/kafka"
	"ms-eventplatform/internal/locations"
	"ms-eventplatform/internal/locations/location_api"
	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/metrics"
	"ms-eventplatform/internal/middleware"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/notifications"
	"ms-eventplatform/internal/notifications/notification_api"
	"ms-eventplatform/internal/orders"
	"ms-eventplatform/internal/orders/order_api"
	"ms-eventplatform/internal/payment"
	payment_handler "ms-eventplatform/internal/payment/handler"
	"ms-eventplatform/internal/reviews"
	"ms-eventplatform/internal/reviews/review_api"
	"ms-eventplatform/internal/storage"
	qr "ms-eventplatform/internal/tickets/qr_generator"
	tickets "ms-eventplatform/internal/tickets/service"
	"ms-eventplatform/internal/tickets/ticket_api"
	"ms-eventplatform/internal/users"
	"ms-eventplatform/internal/users/user_api"
	"ms-eventplatform/internal/utils"
	"ms-eventplatform/internal/validation"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const ServiceName = "Event Platform API"

// Deps is everything the HTTP layer needs. Publisher and Locker may be nil.
type Deps struct {
	Config    *config.Config
	DB        *storage.DB
	Gate      *auth.Gate
	Publisher kafka.Publisher
	QR        *qr.QRGenerator
	Locker    tickets.Locker
	Logger    *logger.Logger
}

// New wires every service onto a chi router.
func New(d Deps) http.Handler {
	log := d.Logger
	if log == nil {
		log = logger.NewNop()
	}
	publisher := d.Publisher
	if publisher == nil {
		publisher = kafka.LogPublisher{Logger: log}
	}
	v := validation.New()

	userTable := storage.NewTable[models.User](d.DB)
	eventTable := storage.NewTable[models.Event](d.DB)
	locationTable := storage.NewTable[models.Location](d.DB)
	categoryTable := storage.NewTable[models.Category](d.DB)
	ticketTypeTable := storage.NewTable[models.TicketType](d.DB)
	ticketTable := storage.NewTable[models.Ticket](d.DB)
	orderTable := storage.NewTable[models.Order](d.DB)
	paymentTable := storage.NewTable[models.Payment](d.DB)
	reviewTable := storage.NewTable[models.Review](d.DB)
	notificationTable := storage.NewTable[models.Notification](d.DB)
	auditTable := storage.NewTable[models.AuditLog](d.DB)

	auditService := audit.NewAuditService(auditTable, log)
	userService := users.NewUserService(userTable, auditService, publisher, log)
	var authCfg config.AuthConfig
	if d.Config != nil {
		authCfg = d.Config.Auth
	}
	accountService := auth.NewAccountService(userTable, auditService, publisher, authCfg, log)
	eventService := events.NewEventService(eventTable, locationTable, log)
	locationService := locations.NewLocationService(locationTable, log)
	categoryService := categories.NewCategoryService(categoryTable, log)
	ticketTypeService := tickets.NewTicketTypeService(ticketTypeTable, eventTable, log)
	ticketService := tickets.NewTicketService(ticketTable, ticketTypeTable, d.QR, publisher, log)
	if d.Locker != nil {
		ticketService.Locker = d.Locker
	}
	orderService := orders.NewOrderService(orderTable, publisher, log)
	paymentService := payment.NewPaymentService(paymentTable, orderTable, log)
	reviewService := reviews.NewReviewService(reviewTable, eventTable, log)
	notificationService := notifications.NewNotificationService(notificationTable, log)
	analyticsService := analytics.NewService(d.DB, eventTable, log)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))
	if d.Config != nil {
		r.Use(middleware.CORS(d.Config.CORS.Origins))
		r.Use(middleware.RateLimit(d.Config.RateLimit.RPS, d.Config.RateLimit.Burst, log))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse(ServiceName, nil))
	})
	r.Get("/api/health", health(d.DB, log))
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(d.Gate.Middleware())
			userHandler := user_api.NewHandler(userService, v, log)
			userHandler.AdminOnly = d.Gate.RequireRole(string(models.UserTypeAdmin))
			r.Route("/users", userHandler.RegisterRoutes)
			r.Route("/audit-logs", audit_api.NewHandler(auditService, log).RegisterRoutes)
		})

		r.Group(func(r chi.Router) {
			r.Use(d.Gate.Optional())
			r.Route("/orders", order_api.NewHandler(orderService, v, log).RegisterRoutes)
		})

		r.Route("/auth", auth_api.NewHandler(accountService, v, log).RegisterRoutes)
		r.Route("/events", event_api.NewHandler(eventService, v, log).RegisterRoutes)
		r.Route("/locations", location_api.NewHandler(locationService, v, log).RegisterRoutes)
		r.Route("/categories", category_api.NewHandler(categoryService, v, log).RegisterRoutes)
		r.Route("/tickets", ticket_api.NewHandler(ticketService, ticketTypeService, v, log).RegisterRoutes)
		r.Route("/payments", payment_handler.NewPaymentHandler(paymentService, v, log).RegisterRoutes)
		r.Route("/reviews", review_api.NewHandler(reviewService, v, log).RegisterRoutes)
		r.Route("/notifications", notification_api.NewHandler(notificationService, v, log).RegisterRoutes)
		r.Route("/analytics", analytics_api.NewHandler(analyticsService, log).RegisterRoutes)
	})

	log.Info("ROUTER", "Routes registered under /api")
	return r
}

func health(db *storage.DB, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			log.Error("HEALTH", "Database ping failed: "+err.Error())
			utils.WriteJSON(w, http.StatusServiceUnavailable, utils.ErrorResponse("database unavailable", "unavailable"))
			return
		}
		utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("healthy", map[string]string{"database": "up"}))
	}
}
