package client

import (
	"context"
	"net/http"

	"github.com/smolina-v/go-capstone-cli/internal/models"
)

// Login — POST /api/auth/login/.
func (c *Client) Login(ctx context.Context, in models.LoginRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, pathLogin, nil, in, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// RegisterStudent — POST /api/auth/register/student/.
func (c *Client) RegisterStudent(ctx context.Context, in models.RegisterRequest) (*models.AuthResponse, error) {
	return c.register(ctx, pathRegisterStudent, in)
}

// RegisterProfessor — POST /api/auth/register/professor/.
func (c *Client) RegisterProfessor(ctx context.Context, in models.RegisterRequest) (*models.AuthResponse, error) {
	return c.register(ctx, pathRegisterProfessor, in)
}

// RegisterAdmin — POST /api/auth/register/admin/.
func (c *Client) RegisterAdmin(ctx context.Context, in models.RegisterRequest) (*models.AuthResponse, error) {
	return c.register(ctx, pathRegisterAdmin, in)
}

func (c *Client) register(ctx context.Context, path string, in models.RegisterRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, path, nil, in, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Me — GET /api/auth/me/, «кто я» по текущему access-токену.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.doJSON(ctx, http.MethodGet, pathMe, nil, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}
