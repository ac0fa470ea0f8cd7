// apierrors — клиентская таксономия ошибок front-end'а.
//
// Классы:
//   - ValidationError — локальная проверка формы (например, несовпадение паролей);
//     до сервера не доходит, отдаётся вызывающему сразу;
//   - ErrUnauthenticated — креденшел требовался, но отсутствует;
//   - APIError — сервер ответил ошибкой; payload разбирается в Message/Fields
//     (бэкенд присылает либо {"error": ...}, либо {"detail": ...},
//     либо пофилдовую карту вида {"email": ["..."], "password": ["..."]});
//   - ErrSessionExpired — refresh-токен отвергнут или refresh-вызов упал:
//     сессия невосстановима, хранилище токенов уже очищено.
//
// Всё остальное (сеть, 5xx без тела) остаётся обычными обёрнутыми ошибками
// транспорта; call-site подставляет своё generic-сообщение.
package apierrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthenticated — запрос требовал авторизации, а токена нет.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrSessionExpired — refresh не удался; токены очищены, нужен повторный логин.
	ErrSessionExpired = errors.New("session expired")
)

// ValidationError — ошибка клиентской валидации. В сеть такой запрос не уходит.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation создаёт ValidationError для поля field.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation сообщает, является ли err клиентской ошибкой валидации.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// APIError — ошибка, которой ответил удалённый API.
type APIError struct {
	StatusCode int
	Message    string              // из "error" либо "detail", может быть пустым
	Fields     map[string][]string // пофилдовые ошибки DRF (регистрация)
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
	}

	return fmt.Sprintf("api error: status %d", e.StatusCode)
}

// FieldError возвращает первую ошибку поля name или пустую строку.
func (e *APIError) FieldError(name string) string {
	if vals, ok := e.Fields[name]; ok && len(vals) > 0 {
		return vals[0]
	}

	return ""
}

// FromResponse разбирает тело ошибочного HTTP-ответа в *APIError.
// Непарсящееся/пустое тело — не ошибка: возвращается APIError с одним статусом.
func FromResponse(status int, body []byte) *APIError {
	out := &APIError{StatusCode: status}

	if len(body) == 0 {
		return out
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return out
	}

	for key, val := range raw {
		switch key {
		case "error", "detail":
			var s string
			if err := json.Unmarshal(val, &s); err == nil && s != "" && out.Message == "" {
				out.Message = s
			}
		default:
			var list []string
			if err := json.Unmarshal(val, &list); err == nil && len(list) > 0 {
				if out.Fields == nil {
					out.Fields = make(map[string][]string)
				}
				out.Fields[key] = list
				continue
			}

			// Одиночная строка тоже считается пофилдовой ошибкой.
			var s string
			if err := json.Unmarshal(val, &s); err == nil && s != "" {
				if out.Fields == nil {
					out.Fields = make(map[string][]string)
				}
				out.Fields[key] = []string{s}
			}
		}
	}

	return out
}

// IsUnauthorized сообщает, что ошибка — отказ в авторизации (HTTP 401
// от сервера либо локальный ErrUnauthenticated).
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthenticated) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}

	return false
}
