package models

// Cohort — набор студентов одного потока.
type Cohort struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsActive  bool   `json:"is_active"`
}

// StudentProfile — студенческий профиль с денормализованными полями user.
type StudentProfile struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Team      string `json:"team,omitempty"`
}

// Team — сгенерированная команда когорты.
type Team struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Cohort    string           `json:"cohort"`
	Members   []StudentProfile `json:"members"`
	CreatedAt string           `json:"created_at"`
}

// Preference — номинация "хочу в команду с этим студентом".
// PreferredStudentDetails сервер разворачивает из preferred_student.
type Preference struct {
	ID                      string          `json:"id"`
	Student                 string          `json:"student"`
	PreferredStudent        string          `json:"preferred_student"`
	PreferredStudentDetails *StudentProfile `json:"preferred_student_details,omitempty"`
	Rank                    int             `json:"rank"`
	CreatedAt               string          `json:"created_at"`
}

type CreatePreferenceRequest struct {
	PreferredStudent string `json:"preferred_student"`
	Rank             int    `json:"rank"`
}

type GenerateTeamsRequest struct {
	CohortID string `json:"cohort_id"`
}

// GenerateTeamsResponse — итог серверной генерации команд.
type GenerateTeamsResponse struct {
	Message string `json:"message"`
	Teams   []Team `json:"teams"`
}
