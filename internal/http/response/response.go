// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов об ошибках HTTP‑обработчиков. Успешные ответы
// отдают сущности напрямую, ошибки всегда имеют форму ErrorResponse.
package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/isp-billing/internal/errs"
)

// ErrorResponse описывает стандартную структуру JSON‑ответа об ошибке.
// Поле Message — текст ошибки.
// Поле Errors — список нарушений по полям (только для ошибок валидации).
type ErrorResponse struct {
	Message string       `json:"message" example:"invalid request body"`
	Errors  []FieldError `json:"errors"`
}

// FieldError описывает нарушения валидации одного поля запроса.
type FieldError struct {
	Field       string   `json:"field" example:"cnp"`
	FieldErrors []string `json:"field_errors"`
}

// Error возвращает ErrorResponse с переданным сообщением и пустым списком полей.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Message: msg,
	}
}

// ValidationError формирует ErrorResponse на основе ошибок валидации.
// Нарушения группируются по имени поля, каждое формулируется
// человеко‑читаемым текстом.
func ValidationError(verrs validator.ValidationErrors) ErrorResponse {
	byField := make(map[string]int)
	var fields []FieldError

	for _, err := range verrs {
		var msg string
		switch err.ActualTag() {
		case "required":
			msg = fmt.Sprintf("field %s is a required field", err.Field())
		case "numeric":
			msg = fmt.Sprintf("field %s can contain only numbers", err.Field())
		case "len":
			msg = fmt.Sprintf("field %s must be exactly %s characters long", err.Field(), err.Param())
		case "gt":
			msg = fmt.Sprintf("field %s must be greater than %s", err.Field(), err.Param())
		case "oneof":
			msg = fmt.Sprintf("field %s must be one of: %s", err.Field(), err.Param())
		default:
			msg = fmt.Sprintf("field %s is not valid", err.Field())
		}

		idx, ok := byField[err.Field()]
		if !ok {
			fields = append(fields, FieldError{Field: err.Field()})
			idx = len(fields) - 1
			byField[err.Field()] = idx
		}
		fields[idx].FieldErrors = append(fields[idx].FieldErrors, msg)
	}

	return ErrorResponse{
		Message: "validation failed",
		Errors:  fields,
	}
}

// FromError переводит ошибку сервисного слоя в HTTP-статус и тело ответа.
// Отсутствующая сущность и висячая ссылка дают 404, нарушение
// бизнес-правила 400, всё остальное считается ошибкой хранилища и даёт 500.
func FromError(err error) (int, ErrorResponse) {
	var nf *errs.NotFound
	if errors.As(err, &nf) {
		return http.StatusNotFound, Error(nf.Error())
	}
	var rnf *errs.ReferenceNotFound
	if errors.As(err, &rnf) {
		return http.StatusNotFound, Error(rnf.Error())
	}
	var rv *errs.RuleViolation
	if errors.As(err, &rv) {
		return http.StatusBadRequest, Error(rv.Error())
	}
	return http.StatusInternalServerError, Error("internal server error")
}
