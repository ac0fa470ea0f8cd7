// client — типизированный клиент REST API capstone-платформы.
//
// Все вызовы уходят через transport.AuthTransport, так что подстановка
// bearer-токена и refresh-and-retry на 401 применяются к каждому методу
// единообразно, без повторов на call-site'ах.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smolina-v/go-capstone-cli/internal/apierrors"
	"github.com/smolina-v/go-capstone-cli/internal/tokens"
	"github.com/smolina-v/go-capstone-cli/internal/transport"
	"github.com/smolina-v/go-capstone-cli/pkg/interceptors"
)

// Пути REST-контракта (слэши на конце — как у бэкенда).
const (
	pathLogin             = "/api/auth/login/"
	pathRegisterStudent   = "/api/auth/register/student/"
	pathRegisterProfessor = "/api/auth/register/professor/"
	pathRegisterAdmin     = "/api/auth/register/admin/"
	pathMe                = "/api/auth/me/"
	pathRefresh           = "/api/auth/token/refresh/"
	pathCohorts           = "/api/students/cohorts/"
	pathListTeams         = "/api/students/team-matching/list_teams/"
	pathGenerateTeams     = "/api/students/team-matching/generate/"
	pathPreferences       = "/api/students/preferences/"
	pathCandidates        = "/api/students/preferences/candidates/"
)

const maxResponseBody = 4 << 20

// Client — HTTP-клиент платформы. Безопасен для конкурентного использования.
type Client struct {
	baseURL string
	http    *http.Client
}

// Options — параметры сборки клиента.
type Options struct {
	// BaseURL — адрес API, например http://localhost:8000.
	BaseURL string

	// Store — хранилище токенов, разделяемое с контроллером сессии.
	Store tokens.Store

	// Timeout — общий дедлайн одного логического запроса (включая retry).
	// <= 0 — без дедлайна.
	Timeout time.Duration

	// OnAuthExpired — хук жёсткого отказа авторизации (редирект на логин).
	OnAuthExpired func()

	// Base — базовый транспорт; nil — http.DefaultTransport.
	Base http.RoundTripper
}

// New создаёт клиент поверх authenticated-конвейера.
func New(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")

	at := transport.New(
		opts.Store,
		base+pathRefresh,
		transport.WithBase(opts.Base),
		transport.WithOnAuthExpired(opts.OnAuthExpired),
	)

	// Дедлайн навешивается снаружи authenticated-конвейера, чтобы покрыть
	// и исходный запрос, и refresh с повторным диспатчем.
	rt := interceptors.WithTimeout(opts.Timeout)(at)

	return &Client{
		baseURL: base,
		http:    &http.Client{Transport: rt},
	}
}

// doJSON — единая точка исходящих вызовов: маршалит in (если есть),
// разбирает out (если есть), ошибочные статусы конвертирует в *apierrors.APIError.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	op := fmt.Sprintf("client: %s %s", method, path)

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("%s: read body: %w", op, err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s: %w", op, apierrors.FromResponse(resp.StatusCode, data))
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
	}

	return nil
}
