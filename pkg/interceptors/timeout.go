// interceptors предоставляет набор интерсепторов для исходящих HTTP-запросов.
package interceptors

import (
	"context"
	"io"
	"net/http"
	"time"
)

// RoundTripperFunc — адаптер функции к http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// WithTimeout возвращает декоратор транспорта, который навешивает таймаут d
// на контекст запроса при его отсутствии. Существующий дедлайн не переопределяется.
//
// Контракт:
//  1. d <= 0 — запрос уходит в next без изменения контекста;
//  2. deadline уже задан во входящем ctx — не модифицирует его;
//  3. иначе — оборачивает ctx через context.WithTimeout(ctx, d); cancel
//     привязывается к закрытию тела ответа, чтобы дедлайн покрывал и чтение.
//
// Ошибки:
//
//	По истечении дедлайна next возвращает ошибку с context.DeadlineExceeded
//	в цепочке (errors.Is).
func WithTimeout(d time.Duration) func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if d <= 0 {
				return next.RoundTrip(req)
			}

			if _, ok := req.Context().Deadline(); ok {
				return next.RoundTrip(req)
			}

			ctx, cancel := context.WithTimeout(req.Context(), d)

			resp, err := next.RoundTrip(req.WithContext(ctx))
			if err != nil {
				cancel()
				return nil, err
			}

			resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
			return resp, nil
		})
	}
}

// cancelOnClose освобождает контекст запроса при закрытии тела ответа.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	c.cancel()
	return c.ReadCloser.Close()
}
