package ispbilling

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	contractcreate "github.com/magabrotheeeer/isp-billing/internal/http/handlers/contract/create"
	contractinvoices "github.com/magabrotheeeer/isp-billing/internal/http/handlers/contract/invoices"
	contractlist "github.com/magabrotheeeer/isp-billing/internal/http/handlers/contract/list"
	contractread "github.com/magabrotheeeer/isp-billing/internal/http/handlers/contract/read"
	contractremove "github.com/magabrotheeeer/isp-billing/internal/http/handlers/contract/remove"
	contractupdate "github.com/magabrotheeeer/isp-billing/internal/http/handlers/contract/update"
	customercontracts "github.com/magabrotheeeer/isp-billing/internal/http/handlers/customer/contracts"
	customercreate "github.com/magabrotheeeer/isp-billing/internal/http/handlers/customer/create"
	customerlist "github.com/magabrotheeeer/isp-billing/internal/http/handlers/customer/list"
	customerread "github.com/magabrotheeeer/isp-billing/internal/http/handlers/customer/read"
	customerremove "github.com/magabrotheeeer/isp-billing/internal/http/handlers/customer/remove"
	customerunpaid "github.com/magabrotheeeer/isp-billing/internal/http/handlers/customer/unpaidinvoices"
	customerupdate "github.com/magabrotheeeer/isp-billing/internal/http/handlers/customer/update"
	"github.com/magabrotheeeer/isp-billing/internal/http/handlers/health"
	invoicecreate "github.com/magabrotheeeer/isp-billing/internal/http/handlers/invoice/create"
	invoicelist "github.com/magabrotheeeer/isp-billing/internal/http/handlers/invoice/list"
	invoicepayments "github.com/magabrotheeeer/isp-billing/internal/http/handlers/invoice/payments"
	invoiceread "github.com/magabrotheeeer/isp-billing/internal/http/handlers/invoice/read"
	invoiceremove "github.com/magabrotheeeer/isp-billing/internal/http/handlers/invoice/remove"
	invoiceupdate "github.com/magabrotheeeer/isp-billing/internal/http/handlers/invoice/update"
	paymentcreate "github.com/magabrotheeeer/isp-billing/internal/http/handlers/payment/create"
	paymentlist "github.com/magabrotheeeer/isp-billing/internal/http/handlers/payment/list"
	paymentread "github.com/magabrotheeeer/isp-billing/internal/http/handlers/payment/read"
	subscriptioncreate "github.com/magabrotheeeer/isp-billing/internal/http/handlers/subscription/create"
	subscriptionlist "github.com/magabrotheeeer/isp-billing/internal/http/handlers/subscription/list"
	subscriptionread "github.com/magabrotheeeer/isp-billing/internal/http/handlers/subscription/read"
	subscriptionremove "github.com/magabrotheeeer/isp-billing/internal/http/handlers/subscription/remove"
	subscriptionupdate "github.com/magabrotheeeer/isp-billing/internal/http/handlers/subscription/update"
	"github.com/magabrotheeeer/isp-billing/internal/http/middlewarectx"
	contractservice "github.com/magabrotheeeer/isp-billing/internal/services/contract"
	customerservice "github.com/magabrotheeeer/isp-billing/internal/services/customer"
	invoiceservice "github.com/magabrotheeeer/isp-billing/internal/services/invoice"
	paymentservice "github.com/magabrotheeeer/isp-billing/internal/services/payment"
	subscriptionservice "github.com/magabrotheeeer/isp-billing/internal/services/subscription"
	"github.com/magabrotheeeer/isp-billing/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage,
	customerService *customerservice.Service,
	subscriptionService *subscriptionservice.Service,
	contractService *contractservice.Service,
	invoiceService *invoiceservice.Service,
	paymentService *paymentservice.Service,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger))

		r.Post("/customers", customercreate.New(logger, customerService).ServeHTTP)
		r.Get("/customers", customerlist.New(logger, customerService).ServeHTTP)
		r.Get("/customers/{id}", customerread.New(logger, customerService).ServeHTTP)
		r.Put("/customers/{id}", customerupdate.New(logger, customerService).ServeHTTP)
		r.Delete("/customers/{id}", customerremove.New(logger, customerService).ServeHTTP)
		r.Get("/customers/{id}/contracts", customercontracts.New(logger, customerService).ServeHTTP)
		r.Get("/customers/{id}/unpaid-invoices", customerunpaid.New(logger, customerService).ServeHTTP)

		r.Post("/subscriptions", subscriptioncreate.New(logger, subscriptionService).ServeHTTP)
		r.Get("/subscriptions", subscriptionlist.New(logger, subscriptionService).ServeHTTP)
		r.Get("/subscriptions/{id}", subscriptionread.New(logger, subscriptionService).ServeHTTP)
		r.Put("/subscriptions/{id}", subscriptionupdate.New(logger, subscriptionService).ServeHTTP)
		r.Delete("/subscriptions/{id}", subscriptionremove.New(logger, subscriptionService).ServeHTTP)

		r.Post("/contracts", contractcreate.New(logger, contractService).ServeHTTP)
		r.Get("/contracts", contractlist.New(logger, contractService).ServeHTTP)
		r.Get("/contracts/{id}", contractread.New(logger, contractService).ServeHTTP)
		r.Put("/contracts/{id}", contractupdate.New(logger, contractService).ServeHTTP)
		r.Delete("/contracts/{id}", contractremove.New(logger, contractService).ServeHTTP)
		r.Get("/contracts/{id}/invoices", contractinvoices.New(logger, contractService).ServeHTTP)

		r.Post("/invoices", invoicecreate.New(logger, invoiceService).ServeHTTP)
		r.Get("/invoices", invoicelist.New(logger, invoiceService).ServeHTTP)
		r.Get("/invoices/{id}", invoiceread.New(logger, invoiceService).ServeHTTP)
		r.Put("/invoices/{id}", invoiceupdate.New(logger, invoiceService).ServeHTTP)
		r.Delete("/invoices/{id}", invoiceremove.New(logger, invoiceService).ServeHTTP)
		r.Get("/invoices/{id}/payments", invoicepayments.New(logger, invoiceService).ServeHTTP)

		r.Post("/payments", paymentcreate.New(logger, paymentService).ServeHTTP)
		r.Get("/payments", paymentlist.New(logger, paymentService).ServeHTTP)
		r.Get("/payments/{id}", paymentread.New(logger, paymentService).ServeHTTP)
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
