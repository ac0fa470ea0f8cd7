package interceptors

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// stubTransport — транспорт-заглушка: отдаёт фиксированный ответ и
// запоминает контекст последнего запроса.
type stubTransport struct {
	lastCtx context.Context
	delay   time.Duration
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.lastCtx = req.Context()

	if s.delay > 0 {
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(s.delay):
		}
	}

	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader("ok")),
		Request:    req,
	}, nil
}

func newRequest(t *testing.T, ctx context.Context) *http.Request {
	t.Helper()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://api.local/data", nil)
	require.NoError(t, err)
	return req
}

// TestWithTimeout_SetsDeadline_AndTransportSeesDeadlineExceeded —
// навешивает дедлайн при его отсутствии, транспорт видит context.DeadlineExceeded.
func TestWithTimeout_SetsDeadline_AndTransportSeesDeadlineExceeded(t *testing.T) {
	t.Parallel()

	const d = 40 * time.Millisecond

	stub := &stubTransport{delay: time.Second}
	rt := WithTimeout(d)(stub)

	start := time.Now()
	_, err := rt.RoundTrip(newRequest(t, context.Background())) //nolint:bodyclose // ответа нет

	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.GreaterOrEqual(t, time.Since(start), d)
}

// TestWithTimeout_DoesNotOverrideExistingDeadline —
// существующий дедлайн не переопределяется.
func TestWithTimeout_DoesNotOverrideExistingDeadline(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()

	pdl, ok := parent.Deadline()
	require.True(t, ok)

	stub := &stubTransport{}
	rt := WithTimeout(1 * time.Second)(stub)

	resp, err := rt.RoundTrip(newRequest(t, parent))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	childDL, ok := stub.lastCtx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, pdl, childDL, time.Millisecond)
}

// TestWithTimeout_ZeroDuration_PassThrough —
// d<=0 -> не меняет контекст и не задаёт дедлайн.
func TestWithTimeout_ZeroDuration_PassThrough(t *testing.T) {
	t.Parallel()

	stub := &stubTransport{}
	rt := WithTimeout(0)(stub)

	resp, err := rt.RoundTrip(newRequest(t, context.Background()))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	_, hasDL := stub.lastCtx.Deadline()
	require.False(t, hasDL, "no deadline expected when d <= 0")
}

// TestWithTimeout_BodyReadableUntilClose —
// контекст живёт до закрытия тела: чтение ответа не обрывается отменой.
func TestWithTimeout_BodyReadableUntilClose(t *testing.T) {
	t.Parallel()

	stub := &stubTransport{}
	rt := WithTimeout(time.Second)(stub)

	resp, err := rt.RoundTrip(newRequest(t, context.Background()))
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "ok", string(body))

	require.NoError(t, resp.Body.Close())
	require.ErrorIs(t, stub.lastCtx.Err(), context.Canceled)
}
