package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// APIError — ответ сервера с кодом >= 400.
type APIError struct {
	StatusCode int
	// Message — текст ошибки из тела ответа, если сервер его прислал.
	Message string
	// RetryAfter — через сколько секунд повторить запрос. Заполняется только
	// для 429 и всегда не меньше 1.
	RetryAfter int
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// RateLimited сообщает, что сервер ограничил частоту запросов.
func (e *APIError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// AsAPIError достаёт *APIError из цепочки ошибок.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// newAPIError читает тело ответа с ошибкой. retryAfter берётся из тела,
// затем из заголовка Retry-After, иначе равен 1.
func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var env envelope
	if json.Unmarshal(raw, &env) == nil {
		apiErr.Message = env.Error
		if apiErr.Message == "" {
			apiErr.Message = env.Message
		}
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}

	if apiErr.RateLimited() {
		apiErr.RetryAfter = env.RetryAfter
		if apiErr.RetryAfter < 1 {
			apiErr.RetryAfter, _ = strconv.Atoi(strings.TrimSpace(resp.Header.Get("Retry-After")))
		}
		if apiErr.RetryAfter < 1 {
			apiErr.RetryAfter = 1
		}
	}
	return apiErr
}
