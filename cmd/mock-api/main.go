// mock-api — локальный бэкенд capstone-платформы для разработки и ручной
// проверки CLI. Реализует документированный REST-контракт (auth + students)
// поверх in-memory-состояния: настоящие JWT access-токены, opaque
// refresh-токены, bcrypt-хэши паролей, засеянные фикстуры ролей.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(log)

	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "8000"
	}

	secret := os.Getenv("MOCK_JWT_SECRET")
	if secret == "" {
		secret = "dev-secret"
	}

	srv := newServer(secret)
	srv.seed()

	requests := promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mock_api_requests_total",
		Help: "Requests handled by the mock API.",
	}, []string{"method", "path"})

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			requests.WithLabelValues(req.Method, req.URL.Path).Inc()
			next.ServeHTTP(w, req)
		})
	})

	srv.routes(r)
	r.Handle("/metrics", promhttp.Handler())

	httpSrv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	log.Info("mock_api_listen_start", slog.String("addr", httpSrv.Addr))

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
			os.Exit(1)
		}
	}

	shCtx, shCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shCancel()

	if err := httpSrv.Shutdown(shCtx); err != nil {
		log.Warn("shutdown_failed", slog.String("err", err.Error()))
	}

	log.Info("mock_api_stopped")
}
