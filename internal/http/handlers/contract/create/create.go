// Package create реализует HTTP-обработчик для оформления нового контракта.
//
// Handler принимает JSON-запрос с данными контракта, валидирует структуру,
// а проверку ссылок на абонента и тариф и бизнес-правил дат выполняет
// сервисный слой. Висячая ссылка отдаётся как 404, нарушение правил как 400.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/isp-billing/internal/http/response"
	"github.com/magabrotheeeer/isp-billing/internal/lib/sl"
	"github.com/magabrotheeeer/isp-billing/internal/models"
)

// Handler управляет HTTP-запросами на оформление контрактов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики оформления контракта.
type Service interface {
	Create(ctx context.Context, req models.DummyContract) (*models.Contract, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Оформить новый контракт
// @Description Создает контракт между абонентом и тарифом. Даты не могут быть в прошлом.
// @Tags Contracts
// @Accept  json
// @Produce  json
// @Param request body models.DummyContract true "Данные нового контракта"
// @Success 201 {object} models.Contract "Созданный контракт"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или нарушение правил дат"
// @Failure 404 {object} response.ErrorResponse "Абонент или тариф не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /contracts [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contract.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyContract
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	result, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create contract", sl.Err(err))
		status, body := response.FromError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("success to create contract", slog.Int("id", result.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, result)
}
