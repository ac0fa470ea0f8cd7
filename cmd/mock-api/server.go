package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/smolina-v/go-capstone-cli/internal/models"
)

const accessTokenTTL = 15 * time.Minute

// user — учётная запись с bcrypt-хэшем пароля.
type user struct {
	models.User
	passwordHash []byte
}

// profile — студенческий профиль (привязка к когорте и команде).
type profile struct {
	ID        string
	UserID    string
	StudentID string
	CohortID  string
	TeamID    string
}

type preference struct {
	ID               string
	StudentProfile   string
	PreferredProfile string
	Rank             int
	CreatedAt        time.Time
}

type team struct {
	ID        string
	Name      string
	CohortID  string
	CreatedAt time.Time
}

// server — in-memory-состояние мок-бэкенда.
type server struct {
	mu sync.Mutex

	secret []byte

	usersByEmail map[string]*user
	usersByID    map[string]*user
	refresh      map[string]string // refresh-токен -> user id

	cohorts     []models.Cohort
	profiles    map[string]*profile // по id профиля
	preferences map[string]*preference
	teams       map[string]*team
}

func newServer(secret string) *server {
	return &server{
		secret:       []byte(secret),
		usersByEmail: make(map[string]*user),
		usersByID:    make(map[string]*user),
		refresh:      make(map[string]string),
		profiles:     make(map[string]*profile),
		preferences:  make(map[string]*preference),
		teams:        make(map[string]*team),
	}
}

// seed — стартовые фикстуры: одна активная когорта и по учётке на роль
// (аналог seed-скрипта оригинального бэкенда).
func (s *server) seed() {
	cohort := models.Cohort{
		ID:        uuid.NewString(),
		Name:      "Fall 2026",
		StartDate: "2026-09-01",
		EndDate:   "2026-12-20",
		IsActive:  true,
	}
	s.cohorts = append(s.cohorts, cohort)

	s.addUser("admin@example.com", "admin", "admin123", "Ada", "Admin", models.RoleAdmin, "")
	s.addUser("prof@example.com", "prof", "prof123", "Pat", "Professor", models.RoleProfessor, "")

	for _, st := range []struct{ email, username, first, last string }{
		{"alice@example.com", "alice", "Alice", "Adams"},
		{"bob@example.com", "bob", "Bob", "Brown"},
		{"carol@example.com", "carol", "Carol", "Clark"},
	} {
		s.addUser(st.email, st.username, "student123", st.first, st.last, models.RoleStudent, cohort.ID)
	}
}

func (s *server) addUser(email, username, password, first, last, role, cohortID string) *user {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	u := &user{
		User: models.User{
			ID:           uuid.NewString(),
			Email:        email,
			Username:     username,
			FirstName:    first,
			LastName:     last,
			Role:         role,
			AuthProvider: "jwt",
			IsVerified:   true,
			DateJoined:   time.Now().UTC().Format(time.RFC3339),
		},
		passwordHash: hash,
	}

	s.usersByEmail[email] = u
	s.usersByID[u.ID] = u

	if role == models.RoleStudent {
		p := &profile{
			ID:        uuid.NewString(),
			UserID:    u.ID,
			StudentID: "S-" + u.Username,
			CohortID:  cohortID,
		}
		s.profiles[p.ID] = p
	}

	return u
}

func (s *server) routes(r chi.Router) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login/", s.handleLogin)
		r.Post("/register/student/", s.handleRegister(models.RoleStudent))
		r.Post("/register/professor/", s.handleRegister(models.RoleProfessor))
		r.Post("/register/admin/", s.handleRegister(models.RoleAdmin))
		r.Post("/token/refresh/", s.handleRefresh)
		r.With(s.authenticated).Get("/me/", s.handleMe)
	})

	r.Route("/api/students", func(r chi.Router) {
		r.Use(s.authenticated)
		r.Get("/cohorts/", s.handleCohorts)
		r.Get("/team-matching/list_teams/", s.handleListTeams)
		r.Post("/team-matching/generate/", s.handleGenerateTeams)
		r.Get("/preferences/", s.handleListPreferences)
		r.Post("/preferences/", s.handleCreatePreference)
		r.Delete("/preferences/{id}/", s.handleDeletePreference)
		r.Get("/preferences/candidates/", s.handleCandidates)
	})
}

// --- auth ---

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	s.mu.Lock()
	u, ok := s.usersByEmail[in.Email]
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(u.passwordHash, []byte(in.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		return
	}

	s.writeAuthResponse(w, http.StatusOK, u, "")
}

func (s *server) handleRegister(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in models.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		if in.Password != in.Password2 {
			writeJSON(w, http.StatusBadRequest, map[string][]string{
				"password": {"Password fields didn't match."},
			})
			return
		}

		s.mu.Lock()

		if _, taken := s.usersByEmail[in.Email]; taken {
			s.mu.Unlock()
			writeJSON(w, http.StatusBadRequest, map[string][]string{
				"email": {"user with this email already exists."},
			})
			return
		}

		cohortID := ""
		if role == models.RoleStudent && len(s.cohorts) > 0 {
			cohortID = s.cohorts[0].ID
		}

		u := s.addUser(in.Email, in.Username, in.Password, in.FirstName, in.LastName, role, cohortID)
		s.mu.Unlock()

		s.writeAuthResponse(w, http.StatusCreated, u, titled(role)+" registered successfully")
	}
}

func (s *server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var in models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	s.mu.Lock()
	userID, ok := s.refresh[in.Refresh]
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
		return
	}

	access, err := s.mintAccess(userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "token signing failed"})
		return
	}

	writeJSON(w, http.StatusOK, models.RefreshResponse{Access: access})
}

func (s *server) handleMe(w http.ResponseWriter, r *http.Request) {
	u := s.currentUser(r)
	if u == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "user not found"})
		return
	}

	writeJSON(w, http.StatusOK, u.User)
}

// writeAuthResponse выдаёт пару токенов: JWT access + opaque refresh.
func (s *server) writeAuthResponse(w http.ResponseWriter, status int, u *user, message string) {
	access, err := s.mintAccess(u.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "token signing failed"})
		return
	}

	refresh := uuid.NewString()

	s.mu.Lock()
	s.refresh[refresh] = u.ID
	s.mu.Unlock()

	writeJSON(w, status, models.AuthResponse{
		User:    u.User,
		Tokens:  models.Tokens{Access: access, Refresh: refresh},
		Message: message,
	})
}

func (s *server) mintAccess(userID string) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenTTL)),
		Issuer:    "mock-api",
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// authenticated — серверная проверка bearer-токена.
func (s *server) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")

		const prefix = "Bearer "
		if !strings.HasPrefix(auth, prefix) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}

		raw := strings.TrimSpace(auth[len(prefix):])

		token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// currentUser достаёт пользователя по subject access-токена.
// Вызывается только под authenticated-мидлваром, токен уже проверен.
func (s *server) currentUser(r *http.Request) *user {
	auth := r.Header.Get("Authorization")

	raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.usersByID[claims.Subject]
}

func titled(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
