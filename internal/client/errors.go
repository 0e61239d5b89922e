package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// APIError - ошибочный ответ удалённого сервиса.
// Detail содержит поле detail из тела ответа (строку или склеенные msg из списка).
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("service returned status %d: %s", e.StatusCode, e.Detail)
}

// HasDetail сообщает, прислал ли сервис структурированное описание ошибки.
func (e *APIError) HasDetail() bool {
	return e != nil && strings.TrimSpace(e.Detail) != ""
}

// AsAPIError извлекает *APIError из цепочки ошибок.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// newAPIError разбирает тело ответа формата {"detail": string | [{msg: ...}]}.
func newAPIError(status int, body []byte) *APIError {
	return &APIError{StatusCode: status, Detail: parseDetail(body)}
}

func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	// Неизвестная форма detail: отдаём как есть
	return string(envelope.Detail)
}

// UserMessage возвращает detail из ответа сервиса, а если его нет - fallback.
func UserMessage(err error, fallback string) string {
	if apiErr, ok := AsAPIError(err); ok && apiErr.HasDetail() {
		return apiErr.Detail
	}
	return fallback
}
