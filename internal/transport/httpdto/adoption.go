package httpdto

import (
	"time"

	"adopte-server/internal/domain/adoption"
)

type AdoptionRequestRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	Message   string `json:"message"`
}

type AdoptionResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	CompanyName string    `json:"company_name,omitempty"`
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name,omitempty"`
	Status      string    `json:"status"`
	Message     string    `json:"message,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromAdoption(a adoption.AdoptionRequest) AdoptionResponse {
	return AdoptionResponse{
		ID:          a.ID.String(),
		CompanyID:   a.CompanyID.String(),
		CompanyName: a.Company.CompanyName(),
		StudentID:   a.StudentID.String(),
		StudentName: a.Student.DisplayName(),
		Status:      string(a.Status),
		Message:     a.Message,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func FromAdoptionSlice(items []adoption.AdoptionRequest) []AdoptionResponse {
	out := make([]AdoptionResponse, 0, len(items))
	for _, a := range items {
		out = append(out, FromAdoption(a))
	}
	return out
}
