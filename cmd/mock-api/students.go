package main

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/smolina-v/go-capstone-cli/internal/models"
)

func (s *server) handleCohorts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]models.Cohort, len(s.cohorts))
	copy(out, s.cohorts)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	cohortID := r.URL.Query().Get("cohort_id")
	if cohortID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cohort_id is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Team{}
	for _, t := range s.teams {
		if t.CohortID == cohortID {
			out = append(out, s.teamView(t))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	writeJSON(w, http.StatusOK, out)
}

// handleGenerateTeams — упрощённый серверный матчинг: связные компоненты
// графа номинаций становятся командами, студенты без номинаций — командами
// из одного человека. Прежние команды когорты сбрасываются.
func (s *server) handleGenerateTeams(w http.ResponseWriter, r *http.Request) {
	u := s.currentUser(r)
	if u == nil || u.Role != models.RoleAdmin {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "You do not have permission to perform this action."})
		return
	}

	var in models.GenerateTeamsRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.CohortID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cohort_id is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Студенты когорты.
	var ids []string
	for id, p := range s.profiles {
		if p.CohortID == in.CohortID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	// Union-find по рёбрам номинаций.
	parent := make(map[string]string, len(ids))
	for _, id := range ids {
		parent[id] = id
	}

	var find func(string) string
	find = func(x string) string {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}

	for _, pref := range s.preferences {
		a, aok := parent[pref.StudentProfile]
		b, bok := parent[pref.PreferredProfile]
		if aok && bok {
			parent[find(a)] = find(b)
		}
	}

	// Сброс прежних команд когорты.
	for id, t := range s.teams {
		if t.CohortID == in.CohortID {
			delete(s.teams, id)
		}
	}
	for _, p := range s.profiles {
		if p.CohortID == in.CohortID {
			p.TeamID = ""
		}
	}

	// Компонента -> команда.
	groups := make(map[string][]string)
	for _, id := range ids {
		root := find(id)
		groups[root] = append(groups[root], id)
	}

	roots := make([]string, 0, len(groups))
	for root := range groups {
		roots = append(roots, root)
	}
	sort.Strings(roots)

	created := make([]models.Team, 0, len(roots))
	for i, root := range roots {
		t := &team{
			ID:        uuid.NewString(),
			Name:      "Team " + strconv.Itoa(i+1),
			CohortID:  in.CohortID,
			CreatedAt: time.Now().UTC(),
		}
		s.teams[t.ID] = t

		for _, pid := range groups[root] {
			s.profiles[pid].TeamID = t.ID
		}

		created = append(created, s.teamView(t))
	}

	writeJSON(w, http.StatusOK, models.GenerateTeamsResponse{
		Message: "Generated " + strconv.Itoa(len(created)) + " teams",
		Teams:   created,
	})
}

func (s *server) handleListPreferences(w http.ResponseWriter, r *http.Request) {
	p := s.profileOf(r)
	if p == nil {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "User does not have a student profile"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Preference{}
	for _, pref := range s.preferences {
		if pref.StudentProfile == p.ID {
			out = append(out, s.preferenceView(pref))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })

	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleCreatePreference(w http.ResponseWriter, r *http.Request) {
	p := s.profileOf(r)
	if p == nil {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "User does not have a student profile"})
		return
	}

	var in models.CreatePreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[in.PreferredStudent]; !ok {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"preferred_student": {"Invalid pk — object does not exist."},
		})
		return
	}

	pref := &preference{
		ID:               uuid.NewString(),
		StudentProfile:   p.ID,
		PreferredProfile: in.PreferredStudent,
		Rank:             in.Rank,
		CreatedAt:        time.Now().UTC(),
	}
	s.preferences[pref.ID] = pref

	writeJSON(w, http.StatusCreated, s.preferenceView(pref))
}

func (s *server) handleDeletePreference(w http.ResponseWriter, r *http.Request) {
	p := s.profileOf(r)
	if p == nil {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "User does not have a student profile"})
		return
	}

	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	pref, ok := s.preferences[id]
	if !ok || pref.StudentProfile != p.ID {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}

	delete(s.preferences, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	p := s.profileOf(r)
	if p == nil {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "User does not have a student profile"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.StudentProfile{}
	if p.CohortID == "" {
		writeJSON(w, http.StatusOK, out)
		return
	}

	for _, other := range s.profiles {
		if other.CohortID == p.CohortID && other.ID != p.ID {
			out = append(out, s.profileView(other))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })

	writeJSON(w, http.StatusOK, out)
}

// profileOf — студенческий профиль текущего пользователя (nil — не студент).
func (s *server) profileOf(r *http.Request) *profile {
	u := s.currentUser(r)
	if u == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.profiles {
		if p.UserID == u.ID {
			return p
		}
	}

	return nil
}

// profileView собирает REST-представление профиля. Вызывать под s.mu.
func (s *server) profileView(p *profile) models.StudentProfile {
	out := models.StudentProfile{
		ID:        p.ID,
		StudentID: p.StudentID,
		Team:      p.TeamID,
	}

	if u, ok := s.usersByID[p.UserID]; ok {
		out.Email = u.Email
		out.FirstName = u.FirstName
		out.LastName = u.LastName
	}

	return out
}

// teamView собирает REST-представление команды. Вызывать под s.mu.
func (s *server) teamView(t *team) models.Team {
	out := models.Team{
		ID:        t.ID,
		Name:      t.Name,
		Cohort:    t.CohortID,
		Members:   []models.StudentProfile{},
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}

	for _, p := range s.profiles {
		if p.TeamID == t.ID {
			out.Members = append(out.Members, s.profileView(p))
		}
	}

	sort.Slice(out.Members, func(i, j int) bool { return out.Members[i].StudentID < out.Members[j].StudentID })

	return out
}

func (s *server) preferenceView(pref *preference) models.Preference {
	out := models.Preference{
		ID:               pref.ID,
		Student:          pref.StudentProfile,
		PreferredStudent: pref.PreferredProfile,
		Rank:             pref.Rank,
		CreatedAt:        pref.CreatedAt.Format(time.RFC3339),
	}

	if p, ok := s.profiles[pref.PreferredProfile]; ok {
		details := s.profileView(p)
		out.PreferredStudentDetails = &details
	}

	return out
}
