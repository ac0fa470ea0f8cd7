// transport — сквозной конвейер авторизации исходящих HTTP-вызовов.
//
// AuthTransport оборачивает базовый http.RoundTripper и применяется ко ВСЕМ
// запросам клиента к удалённому API (это стадия конвейера, а не код,
// повторяемый на каждом call-site):
//
//  1. исходящий хук: если в хранилище есть access-токен — проставляет
//     Authorization: Bearer <token>; без токена запрос уходит анонимным
//     (допустимость решает сервер);
//  2. входящий хук: на HTTP 401 выполняется ровно одна попытка
//     refresh-and-retry — POST refresh-эндпойнту с refresh-токеном,
//     новый access-токен пишется в хранилище (refresh-токен не трогается),
//     исходный запрос передиспатчивается один раз с новым заголовком.
//
// Повторный диспатч идёт напрямую через базовый транспорт, минуя перехват,
// поэтому «не больше одного ретрая на логический запрос» гарантировано
// структурно: цикла ретраев не бывает даже при повторных 401.
//
// Отказ refresh-вызова (сеть или отвергнутый refresh-токен) — жёсткий путь:
// хранилище токенов очищается целиком, дёргается хук onAuthExpired (аналог
// принудительного редиректа на экран логина), наружу отдаётся ошибка
// refresh, а не исходный 401.
//
// Одновременные 401 от независимых запросов дедупликацией не покрываются:
// каждый запускает свой refresh. Это осознанное ограничение, унаследованное
// от оригинального поведения.
package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/smolina-v/go-capstone-cli/internal/apierrors"
	"github.com/smolina-v/go-capstone-cli/internal/models"
	"github.com/smolina-v/go-capstone-cli/internal/pkg/log"
	"github.com/smolina-v/go-capstone-cli/internal/tokens"
)

// Ограничение на чтение тел ошибок/refresh-ответов.
const maxErrorBody = 1 << 20

// AuthTransport — http.RoundTripper с прозрачным refresh-and-retry.
type AuthTransport struct {
	base          http.RoundTripper
	store         tokens.Store
	refreshURL    string
	onAuthExpired func()
}

// Option — настройка AuthTransport.
type Option func(*AuthTransport)

// WithBase подменяет базовый транспорт (по умолчанию http.DefaultTransport).
func WithBase(base http.RoundTripper) Option {
	return func(t *AuthTransport) {
		if base != nil {
			t.base = base
		}
	}
}

// WithOnAuthExpired задаёт хук невосстановимого отказа авторизации.
// Вызывается после очистки хранилища, до возврата ошибки вызывающему.
func WithOnAuthExpired(fn func()) Option {
	return func(t *AuthTransport) { t.onAuthExpired = fn }
}

// New создаёт AuthTransport поверх store. refreshURL — абсолютный URL
// refresh-эндпойнта (POST {refresh} -> {access}).
func New(store tokens.Store, refreshURL string, opts ...Option) *AuthTransport {
	t := &AuthTransport{
		base:       http.DefaultTransport,
		store:      store,
		refreshURL: refreshURL,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// RoundTrip реализует http.RoundTripper.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	lg := log.From(req.Context())

	// Исходный запрос не мутируем — работаем с клоном (контракт RoundTripper).
	first := req.Clone(req.Context())
	if access, ok := t.store.AccessToken(); ok {
		first.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := t.base.RoundTrip(first)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	// Тело с Body без GetBody повторить нельзя — отдаём 401 как есть,
	// refresh впустую не дёргаем.
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}

	refresh, ok := t.store.RefreshToken()
	if !ok {
		// Освежаться нечем — исходный отказ уходит вызывающему без изменений.
		return resp, nil
	}

	drain(resp)

	lg.Debug("token_refresh_start",
		slog.String("method", req.Method),
		slog.String("url", req.URL.Path),
	)

	access, rerr := t.doRefresh(req, refresh)
	if rerr != nil {
		// Жёсткий путь: токены в мусор, наружу — ошибка refresh.
		_ = t.store.Clear()

		if t.onAuthExpired != nil {
			t.onAuthExpired()
		}

		lg.Warn("token_refresh_failed", slog.String("err", rerr.Error()))

		return nil, fmt.Errorf("%w: %w", apierrors.ErrSessionExpired, rerr)
	}

	if err := t.store.SetAccess(access); err != nil {
		return nil, fmt.Errorf("transport: store refreshed access token: %w", err)
	}

	lg.Debug("token_refresh_ok")

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("transport: rewind request body: %w", err)
		}
		retry.Body = body
	}
	retry.Header.Set("Authorization", "Bearer "+access)

	// Ровно один повтор, напрямую через базовый транспорт:
	// его исход (успех или любая ошибка) и наблюдает вызывающий.
	return t.base.RoundTrip(retry)
}

// doRefresh выполняет POST refresh-эндпойнту и возвращает новый access-токен.
func (t *AuthTransport) doRefresh(orig *http.Request, refreshToken string) (string, error) {
	const op = "transport/doRefresh"

	payload, err := json.Marshal(models.RefreshRequest{Refresh: refreshToken})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(orig.Context(), http.MethodPost, t.refreshURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return "", fmt.Errorf("%s: read body: %w", op, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: %w", op, apierrors.FromResponse(resp.StatusCode, body))
	}

	var out models.RefreshResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", op, err)
	}

	if out.Access == "" {
		return "", fmt.Errorf("%s: empty access token in refresh response", op)
	}

	return out.Access, nil
}

// drain дочитывает и закрывает тело, чтобы соединение вернулось в пул.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
}
