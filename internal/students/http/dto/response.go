package dto

import (
	"time"

	"github.com/brujulapp/brujula/internal/students/domain"
)

// StudentResponse represents a student profile in API responses. The
// matriculation id is reported only as a set/unset flag; the ciphertext
// never leaves the server.
type StudentResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Career       string    `json:"career"`
	Semester     int       `json:"semester"`
	Stage        string    `json:"stage"`
	HasMatricula bool      `json:"has_matricula"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MapStudentToResponse converts a domain student to an API response.
func MapStudentToResponse(student *domain.Student) StudentResponse {
	return StudentResponse{
		ID:           student.ID.String(),
		Email:        student.Email,
		FullName:     student.FullName,
		Career:       student.Career,
		Semester:     student.Semester,
		Stage:        string(student.Stage),
		HasMatricula: student.HasMatricula(),
		CreatedAt:    student.CreatedAt,
		UpdatedAt:    student.UpdatedAt,
	}
}

// ListStudentsResponse is a page of students.
type ListStudentsResponse struct {
	Data []StudentResponse `json:"data"`
}

// MapStudentsToListResponse converts a slice of students to a list API response.
func MapStudentsToListResponse(students []*domain.Student) ListStudentsResponse {
	data := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		data = append(data, MapStudentToResponse(student))
	}
	return ListStudentsResponse{Data: data}
}

// RevealMatriculaResponse carries a decrypted matriculation id.
// SECURITY: returned only to rate-limited, audited admin requests.
type RevealMatriculaResponse struct {
	StudentID string `json:"student_id"`
	Matricula string `json:"matricula"`
}
