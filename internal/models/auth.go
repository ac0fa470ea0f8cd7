// Модели REST-контракта бэкенда capstone-платформы.
// Зеркалят JSON-схемы сервера один-в-один; клиент эти структуры
// не конструирует сам (кроме запросов) и не мутирует — ответы
// сервера заменяют их целиком.
package models

// Роли пользователей платформы.
const (
	RoleAdmin     = "admin"
	RoleStudent   = "student"
	RoleProfessor = "professor"
)

// User — учётная запись, приходит только с сервера.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Role         string `json:"role"`          // admin | student | professor
	AuthProvider string `json:"auth_provider"` // jwt | google
	IsVerified   bool   `json:"is_verified"`
	DateJoined   string `json:"date_joined"`
}

// Tokens — пара креденшелов из ответа login/register.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest — общий payload всех трёх регистрационных эндпойнтов.
// Password2 — подтверждение пароля; совпадение проверяется и на клиенте
// до похода в сеть.
type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// AuthResponse — ответ login и всех register-эндпойнтов.
// Message сервер присылает только на регистрации; контроллер сессии его игнорирует.
type AuthResponse struct {
	User    User   `json:"user"`
	Tokens  Tokens `json:"tokens"`
	Message string `json:"message,omitempty"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse — bare refresh переиздаёт только access-токен.
type RefreshResponse struct {
	Access string `json:"access"`
}
