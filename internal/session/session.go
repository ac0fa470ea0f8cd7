// session — контроллер клиентской сессии.
//
// Жизненный цикл: Unknown (до завершения стартовой проверки) ->
// Anonymous | Authenticated; из Authenticated обратно в Anonymous — по
// logout или невосстановимому отказу авторизации; назад в Unknown —
// никогда.
//
// Контроллер — единственный владелец in-memory записи пользователя;
// признак isAuthenticated выводится из её наличия. Сессия не переживает
// перезапуск процесса иначе как через Restore (наличие токена в хранилище
// плюс один вызов «кто я»).
//
// Объект передаётся зависимостям явно (никакого ambient-синглтона) и
// безопасен для конкурентного использования.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/smolina-v/go-capstone-cli/internal/apierrors"
	"github.com/smolina-v/go-capstone-cli/internal/models"
	"github.com/smolina-v/go-capstone-cli/internal/pkg/log"
	"github.com/smolina-v/go-capstone-cli/internal/tokens"
)

// State — состояние сессии.
type State int

const (
	StateUnknown State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "invalid"
	}
}

// Generic-сообщения, когда сервер своих не прислал.
const (
	msgLoginFailed        = "login failed"
	msgRegistrationFailed = "registration failed"
	msgPasswordMismatch   = "passwords do not match"
)

// API — срез клиента платформы, который нужен контроллеру сессии.
type API interface {
	Login(ctx context.Context, in models.LoginRequest) (*models.AuthResponse, error)
	RegisterStudent(ctx context.Context, in models.RegisterRequest) (*models.AuthResponse, error)
	RegisterProfessor(ctx context.Context, in models.RegisterRequest) (*models.AuthResponse, error)
	RegisterAdmin(ctx context.Context, in models.RegisterRequest) (*models.AuthResponse, error)
	Me(ctx context.Context) (*models.User, error)
}

// Session — контроллер сессии. Создаётся в StateUnknown.
type Session struct {
	mu    sync.Mutex
	state State
	user  *models.User

	api   API
	store tokens.Store
	nav   Navigator
}

// New создаёт контроллер. nav == nil — навигация молча игнорируется.
func New(api API, store tokens.Store, nav Navigator) *Session {
	if nav == nil {
		nav = NavigatorFunc(func(Route) {})
	}

	return &Session{
		state: StateUnknown,
		api:   api,
		store: store,
		nav:   nav,
	}
}

// State возвращает текущее состояние сессии.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// User возвращает копию записи пользователя (nil — не аутентифицирован).
func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil
	}

	u := *s.user
	return &u
}

// Authenticated — true тогда и только тогда, когда запись пользователя есть.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.user != nil
}

// Restore — стартовое восстановление сессии: по наличию access-токена
// делается один вызов «кто я». Любой отказ поглощается (невосстановимая
// сессия эквивалентна «не залогинен», это не жёсткая ошибка) — наружу
// метод никогда не отдаёт error.
func (s *Session) Restore(ctx context.Context) State {
	lg := log.From(ctx)

	if !s.store.Authenticated() {
		return s.toAnonymous()
	}

	user, err := s.api.Me(ctx)
	if err != nil {
		lg.Debug("session_restore_failed", slog.String("err", err.Error()))
		_ = s.store.Clear()

		return s.toAnonymous()
	}

	s.mu.Lock()
	s.state = StateAuthenticated
	s.user = user
	s.mu.Unlock()

	lg.Debug("session_restored", slog.String("role", user.Role))

	return StateAuthenticated
}

// Login выполняет вход. Успех: пара токенов — в хранилище, запись
// пользователя заменяется целиком, навигация по роли. Отказ: состояние не
// мутируется, ошибка несёт серверное сообщение (или generic-фолбэк).
func (s *Session) Login(ctx context.Context, email, password string) error {
	resp, err := s.api.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return &opError{msg: loginMessage(err), cause: err}
	}

	s.establish(resp)

	return nil
}

// RegisterStudent регистрирует студента; успех ведёт себя как успех Login.
func (s *Session) RegisterStudent(ctx context.Context, in models.RegisterRequest) error {
	return s.register(ctx, in, s.api.RegisterStudent)
}

// RegisterProfessor регистрирует преподавателя.
func (s *Session) RegisterProfessor(ctx context.Context, in models.RegisterRequest) error {
	return s.register(ctx, in, s.api.RegisterProfessor)
}

// RegisterAdmin регистрирует администратора.
func (s *Session) RegisterAdmin(ctx context.Context, in models.RegisterRequest) error {
	return s.register(ctx, in, s.api.RegisterAdmin)
}

func (s *Session) register(
	ctx context.Context,
	in models.RegisterRequest,
	call func(context.Context, models.RegisterRequest) (*models.AuthResponse, error),
) error {
	// Клиентская предпроверка: до сервера несовпадение паролей не доходит.
	if in.Password != in.Password2 {
		return apierrors.NewValidation("password", msgPasswordMismatch)
	}

	resp, err := call(ctx, in)
	if err != nil {
		return &opError{msg: registrationMessage(err), cause: err}
	}

	s.establish(resp)

	return nil
}

// Logout всегда успешен: токены очищены, пользователь сброшен, навигация домой.
func (s *Session) Logout() {
	_ = s.store.Clear()

	s.toAnonymous()
	s.nav.Go(RouteHome)
}

// Expire — реакция на невосстановимый отказ авторизации из конвейера
// запросов (хранилище токенов к этому моменту уже очищено транспортом):
// сессия становится анонимной, навигация — на экран логина.
func (s *Session) Expire() {
	s.toAnonymous()
	s.nav.Go(RouteLogin)
}

// establish — общий успешный путь login/register: токены, пользователь,
// переход в Authenticated, навигация по роли.
func (s *Session) establish(resp *models.AuthResponse) {
	_ = s.store.SetTokens(resp.Tokens.Access, resp.Tokens.Refresh)

	s.mu.Lock()
	user := resp.User
	s.user = &user
	s.state = StateAuthenticated
	s.mu.Unlock()

	s.nav.Go(RouteForRole(user.Role))
}

func (s *Session) toAnonymous() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.state = StateAnonymous

	return s.state
}

// loginMessage — сообщение отказа входа: серверное "error", иначе generic.
func loginMessage(err error) string {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	return msgLoginFailed
}

// registrationMessage — приоритет: пофилдовая ошибка email, затем password,
// затем generic.
func registrationMessage(err error) string {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		if msg := apiErr.FieldError("email"); msg != "" {
			return msg
		}
		if msg := apiErr.FieldError("password"); msg != "" {
			return msg
		}
	}

	return msgRegistrationFailed
}

// opError — ошибка операции сессии: Error() отдаёт резолвленное сообщение
// для формы, причина доступна через errors.Unwrap/As.
type opError struct {
	msg   string
	cause error
}

func (e *opError) Error() string { return e.msg }

func (e *opError) Unwrap() error { return e.cause }
