package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/smolina-v/go-capstone-cli/internal/models"
)

// Cohorts — GET /api/students/cohorts/.
func (c *Client) Cohorts(ctx context.Context) ([]models.Cohort, error) {
	var out []models.Cohort
	if err := c.doJSON(ctx, http.MethodGet, pathCohorts, nil, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// Teams — GET /api/students/team-matching/list_teams/?cohort_id=.
func (c *Client) Teams(ctx context.Context, cohortID string) ([]models.Team, error) {
	q := url.Values{"cohort_id": {cohortID}}

	var out []models.Team
	if err := c.doJSON(ctx, http.MethodGet, pathListTeams, q, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// GenerateTeams — POST /api/students/team-matching/generate/.
// Сам алгоритм матчинга — серверный; клиент только запускает генерацию.
func (c *Client) GenerateTeams(ctx context.Context, cohortID string) (*models.GenerateTeamsResponse, error) {
	in := models.GenerateTeamsRequest{CohortID: cohortID}

	var out models.GenerateTeamsResponse
	if err := c.doJSON(ctx, http.MethodPost, pathGenerateTeams, nil, in, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Preferences — GET /api/students/preferences/, номинации текущего студента.
func (c *Client) Preferences(ctx context.Context) ([]models.Preference, error) {
	var out []models.Preference
	if err := c.doJSON(ctx, http.MethodGet, pathPreferences, nil, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// CreatePreference — POST /api/students/preferences/.
func (c *Client) CreatePreference(ctx context.Context, in models.CreatePreferenceRequest) (*models.Preference, error) {
	var out models.Preference
	if err := c.doJSON(ctx, http.MethodPost, pathPreferences, nil, in, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// DeletePreference — DELETE /api/students/preferences/{id}/.
func (c *Client) DeletePreference(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, pathPreferences+id+"/", nil, nil, nil)
}

// Candidates — GET /api/students/preferences/candidates/:
// потенциальные тиммейты из своей когорты (без самого студента).
func (c *Client) Candidates(ctx context.Context) ([]models.StudentProfile, error) {
	var out []models.StudentProfile
	if err := c.doJSON(ctx, http.MethodGet, pathCandidates, nil, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}
