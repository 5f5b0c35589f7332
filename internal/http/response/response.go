// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Пакет упрощает возврат
// успешных ответов, ошибок и сообщений валидации в едином формате.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/social-hub/internal/services/errs"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

// RateLimitedResponse — ответ 429. RetryAfter — через сколько секунд можно повторить запрос.
type RateLimitedResponse struct {
	Status     string `json:"status" example:"Error"`
	Error      string `json:"error" example:"too many requests"`
	RetryAfter int    `json:"retryAfter" example:"5"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// StatusOKWithData возвращает успешный Response с переданными данными.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// RateLimited возвращает тело ответа 429.
func RateLimited(retryAfter int) RateLimitedResponse {
	return RateLimitedResponse{
		Status:     StatusError,
		Error:      "too many requests",
		RetryAfter: retryAfter,
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "url":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid url", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s characters", err.Field(), err.Param()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s characters", err.Field(), err.Param()))
		case "gte":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be greater than or equal to %s", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

// FromServiceError подбирает HTTP-статус и текст для ошибки сервисного слоя.
// Неизвестные ошибки отдаются как 500 без подробностей.
func FromServiceError(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, Error("not found")
	case errors.Is(err, errs.ErrInvalidCredentials):
		return http.StatusUnauthorized, Error(errs.ErrInvalidCredentials.Error())
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden, Error(errs.ErrForbidden.Error())
	case errors.Is(err, errs.ErrEmailTaken):
		return http.StatusConflict, Error(errs.ErrEmailTaken.Error())
	case errors.Is(err, errs.ErrInvalidTransition):
		return http.StatusConflict, Error(errs.ErrInvalidTransition.Error())
	case errors.Is(err, errs.ErrEventFull):
		return http.StatusConflict, Error(errs.ErrEventFull.Error())
	case errors.Is(err, errs.ErrAlreadyRegistered):
		return http.StatusConflict, Error(errs.ErrAlreadyRegistered.Error())
	case errors.Is(err, errs.ErrNotRegistered):
		return http.StatusNotFound, Error(errs.ErrNotRegistered.Error())
	case errors.Is(err, errs.ErrInvalidInput):
		return http.StatusBadRequest, Error(unwrapInput(err))
	}
	return http.StatusInternalServerError, Error("internal error")
}

// unwrapInput оставляет от ошибки ввода только пояснение после ErrInvalidInput.
func unwrapInput(err error) string {
	msg := err.Error()
	prefix := errs.ErrInvalidInput.Error()
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i:]
	}
	return prefix
}
