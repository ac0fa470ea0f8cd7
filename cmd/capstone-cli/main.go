// capstone-cli — терминальный фронт capstone-платформы: вход/регистрация
// по ролям, дашборд, команды и номинации предпочтений. Вся авторизация
// идёт через общий конвейер запросов (bearer + refresh-and-retry).
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/smolina-v/go-capstone-cli/internal/client"
	"github.com/smolina-v/go-capstone-cli/internal/config"
	"github.com/smolina-v/go-capstone-cli/internal/session"
	"github.com/smolina-v/go-capstone-cli/internal/tokens"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	root := newRootCmd()

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "capstone-cli",
		Short:         "Terminal front-end for the capstone project platform",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	root.AddCommand(
		newLoginCmd(&configPath),
		newLogoutCmd(&configPath),
		newRegisterCmd(&configPath),
		newWhoamiCmd(&configPath),
		newDashboardCmd(&configPath),
		newCohortsCmd(&configPath),
		newTeamsCmd(&configPath),
		newPrefsCmd(&configPath),
	)

	return root
}

// app — собранный граф зависимостей одной команды:
// конфиг -> хранилище токенов -> клиент -> контроллер сессии.
type app struct {
	cfg   *config.Config
	log   *slog.Logger
	store tokens.Store
	api   *client.Client
	sess  *session.Session
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	lg := setupLogger(cfg.Env)
	slog.SetDefault(lg)

	tokensPath, err := cfg.Tokens.ResolvePath()
	if err != nil {
		return nil, err
	}

	store := tokens.NewFileStore(tokensPath,
		tokens.WithTTL(cfg.Tokens.AccessTTL, cfg.Tokens.RefreshTTL),
	)

	// Сессия создаётся после клиента, поэтому хук жёсткого отказа
	// авторизации замыкается на указатель.
	var sess *session.Session

	api := client.New(client.Options{
		BaseURL: cfg.API.BaseURL,
		Store:   store,
		Timeout: cfg.Timeouts.Service,
		OnAuthExpired: func() {
			if sess != nil {
				sess.Expire()
			}
		},
	})

	sess = session.New(api, store, routePrinter{})

	return &app{
		cfg:   cfg,
		log:   lg,
		store: store,
		api:   api,
		sess:  sess,
	}, nil
}

// routePrinter — терминальный аналог router.push: показывает, на какой
// «экран» увела операция сессии.
type routePrinter struct{}

func (routePrinter) Go(route session.Route) {
	fmt.Fprintf(os.Stdout, "-> %s\n", route)
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}
