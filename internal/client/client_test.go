package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/smolina-v/go-capstone-cli/internal/apierrors"
	"github.com/smolina-v/go-capstone-cli/internal/models"
	"github.com/smolina-v/go-capstone-cli/internal/tokens"
)

// capture — последний принятый фейковым бэкендом запрос.
type capture struct {
	method string
	path   string
	query  string
	body   []byte
	auth   string
}

// newTestClient поднимает фейковый бэкенд, отвечающий status/payload,
// и клиент поверх него.
func newTestClient(t *testing.T, store tokens.Store, status int, payload any) (*Client, *capture) {
	t.Helper()

	rec := &capture{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		rec.auth = r.Header.Get("Authorization")
		rec.body, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)

		if payload != nil {
			_ = json.NewEncoder(w).Encode(payload)
		}
	}))
	t.Cleanup(srv.Close)

	cl := New(Options{
		BaseURL: srv.URL,
		Store:   store,
		Timeout: 5 * time.Second,
	})

	return cl, rec
}

func TestLogin_RequestShapeAndResponse(t *testing.T) {
	t.Parallel()

	want := models.AuthResponse{
		User:   models.User{ID: "u-1", Email: "a@b.c", Role: models.RoleStudent},
		Tokens: models.Tokens{Access: "acc", Refresh: "ref"},
	}

	cl, rec := newTestClient(t, tokens.NewMemoryStore(), http.StatusOK, want)

	got, err := cl.Login(context.Background(), models.LoginRequest{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)

	require.Equal(t, http.MethodPost, rec.method)
	require.Equal(t, "/api/auth/login/", rec.path)
	require.JSONEq(t, `{"email":"a@b.c","password":"pw"}`, string(rec.body))

	require.Equal(t, want.User, got.User)
	require.Equal(t, want.Tokens, got.Tokens)
}

func TestRegister_Endpoints(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name string
		call func(*Client, context.Context, models.RegisterRequest) (*models.AuthResponse, error)
		path string
	}{
		{"student", (*Client).RegisterStudent, "/api/auth/register/student/"},
		{"professor", (*Client).RegisterProfessor, "/api/auth/register/professor/"},
		{"admin", (*Client).RegisterAdmin, "/api/auth/register/admin/"},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cl, rec := newTestClient(t, tokens.NewMemoryStore(), http.StatusCreated, models.AuthResponse{})

			in := models.RegisterRequest{
				Email:     "n@e.w",
				Username:  "new",
				Password:  "pw",
				Password2: "pw",
				FirstName: "New",
				LastName:  "User",
			}

			_, err := tc.call(cl, context.Background(), in)
			require.NoError(t, err)

			require.Equal(t, http.MethodPost, rec.method)
			require.Equal(t, tc.path, rec.path)

			var sent models.RegisterRequest
			require.NoError(t, json.Unmarshal(rec.body, &sent))
			require.Equal(t, in, sent)
		})
	}
}

// Авторизованный вызов: bearer из хранилища уезжает в заголовок.
func TestMe_AttachesBearer(t *testing.T) {
	t.Parallel()

	store := tokens.NewMemoryStore()
	require.NoError(t, store.SetTokens("access-1", "refresh-1"))

	cl, rec := newTestClient(t, store, http.StatusOK, models.User{ID: "u-1", Role: models.RoleAdmin})

	user, err := cl.Me(context.Background())
	require.NoError(t, err)

	require.Equal(t, http.MethodGet, rec.method)
	require.Equal(t, "/api/auth/me/", rec.path)
	require.Equal(t, "Bearer access-1", rec.auth)
	require.Equal(t, "u-1", user.ID)
}

func TestTeams_QueryParam(t *testing.T) {
	t.Parallel()

	cl, rec := newTestClient(t, tokens.NewMemoryStore(), http.StatusOK, []models.Team{})

	_, err := cl.Teams(context.Background(), "c-42")
	require.NoError(t, err)

	require.Equal(t, "/api/students/team-matching/list_teams/", rec.path)
	require.Equal(t, "cohort_id=c-42", rec.query)
}

func TestGenerateTeams_Body(t *testing.T) {
	t.Parallel()

	cl, rec := newTestClient(t, tokens.NewMemoryStore(), http.StatusOK, models.GenerateTeamsResponse{
		Message: "Generated 2 teams",
	})

	resp, err := cl.GenerateTeams(context.Background(), "c-42")
	require.NoError(t, err)

	require.Equal(t, http.MethodPost, rec.method)
	require.Equal(t, "/api/students/team-matching/generate/", rec.path)
	require.JSONEq(t, `{"cohort_id":"c-42"}`, string(rec.body))
	require.Equal(t, "Generated 2 teams", resp.Message)
}

func TestPreferences_CRUDPaths(t *testing.T) {
	t.Parallel()

	t.Run("list", func(t *testing.T) {
		t.Parallel()

		cl, rec := newTestClient(t, tokens.NewMemoryStore(), http.StatusOK, []models.Preference{})

		_, err := cl.Preferences(context.Background())
		require.NoError(t, err)
		require.Equal(t, http.MethodGet, rec.method)
		require.Equal(t, "/api/students/preferences/", rec.path)
	})

	t.Run("create", func(t *testing.T) {
		t.Parallel()

		cl, rec := newTestClient(t, tokens.NewMemoryStore(), http.StatusCreated, models.Preference{ID: "p-1"})

		pref, err := cl.CreatePreference(context.Background(), models.CreatePreferenceRequest{
			PreferredStudent: "s-2",
			Rank:             1,
		})
		require.NoError(t, err)
		require.Equal(t, "p-1", pref.ID)
		require.JSONEq(t, `{"preferred_student":"s-2","rank":1}`, string(rec.body))
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		cl, rec := newTestClient(t, tokens.NewMemoryStore(), http.StatusNoContent, nil)

		require.NoError(t, cl.DeletePreference(context.Background(), "p-1"))
		require.Equal(t, http.MethodDelete, rec.method)
		require.Equal(t, "/api/students/preferences/p-1/", rec.path)
	})

	t.Run("candidates", func(t *testing.T) {
		t.Parallel()

		cl, rec := newTestClient(t, tokens.NewMemoryStore(), http.StatusOK, []models.StudentProfile{})

		_, err := cl.Candidates(context.Background())
		require.NoError(t, err)
		require.Equal(t, "/api/students/preferences/candidates/", rec.path)
	})
}

func TestCohorts_Path(t *testing.T) {
	t.Parallel()

	cl, rec := newTestClient(t, tokens.NewMemoryStore(), http.StatusOK, []models.Cohort{{ID: "c-1"}})

	cohorts, err := cl.Cohorts(context.Background())
	require.NoError(t, err)

	require.Equal(t, "/api/students/cohorts/", rec.path)
	require.Len(t, cohorts, 1)
}

// Ошибочный статус конвертируется в *apierrors.APIError с разобранным телом.
func TestDoJSON_ErrorMapping(t *testing.T) {
	t.Parallel()

	cl, _ := newTestClient(t, tokens.NewMemoryStore(), http.StatusBadRequest, map[string][]string{
		"email": {"user with this email already exists."},
	})

	_, err := cl.RegisterStudent(context.Background(), models.RegisterRequest{})
	require.Error(t, err)

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, "user with this email already exists.", apiErr.FieldError("email"))
}

func TestDoJSON_UnauthorizedMapping(t *testing.T) {
	t.Parallel()

	cl, _ := newTestClient(t, tokens.NewMemoryStore(), http.StatusUnauthorized, map[string]string{
		"error": "Invalid credentials",
	})

	_, err := cl.Login(context.Background(), models.LoginRequest{Email: "a@b.c", Password: "bad"})
	require.Error(t, err)
	require.True(t, apierrors.IsUnauthorized(err))

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Invalid credentials", apiErr.Message)
}
