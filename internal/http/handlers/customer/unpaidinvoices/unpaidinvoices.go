// Package unpaidinvoices реализует HTTP-обработчик для получения
// неоплаченных счетов абонента по всем его контрактам.
package unpaidinvoices

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/isp-billing/internal/http/response"
	"github.com/magabrotheeeer/isp-billing/internal/lib/sl"
	"github.com/magabrotheeeer/isp-billing/internal/models"
)

// Handler обрабатывает запросы на получение неоплаченных счетов абонента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики получения неоплаченных счетов.
type Service interface {
	ListUnpaidInvoices(ctx context.Context, id int) ([]*models.Invoice, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Неоплаченные счета абонента
// @Description Возвращает неоплаченные счета по всем контрактам абонента.
// @Tags Customers
// @Produce  json
// @Param id path int true "ID абонента"
// @Success 200 {array} models.Invoice "Неоплаченные счета"
// @Failure 404 {object} response.ErrorResponse "Абонент не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /customers/{id}/unpaid-invoices [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.customer.unpaidinvoices"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	result, err := h.service.ListUnpaidInvoices(r.Context(), id)
	if err != nil {
		log.Error("failed to list unpaid invoices for customer", sl.Err(err))
		status, body := response.FromError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("success to list unpaid invoices for customer", slog.Int("customer_id", id), slog.Int("count", len(result)))
	render.JSON(w, r, result)
}
