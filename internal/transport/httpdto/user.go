package httpdto

import (
	"adopte-server/internal/domain/user"
)

type UpdateStudentProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	School    string `json:"school"`
	Skills    string `json:"skills"`
}

type UpdateCompanyProfileRequest struct {
	Name        string `json:"name"`
	Sector      string `json:"sector"`
	Website     string `json:"website"`
	Description string `json:"description"`
}

// UserResponse is the public projection of a user record. The display
// name is precomputed so clients never reach into nested profiles for it.
type UserResponse struct {
	ID          string               `json:"id"`
	Email       string               `json:"email"`
	Role        string               `json:"role"`
	IsActive    bool                 `json:"is_active"`
	DisplayName string               `json:"display_name"`
	Student     *user.StudentProfile `json:"student,omitempty"`
	Company     *user.CompanyProfile `json:"company,omitempty"`
}

func FromUser(u user.User) UserResponse {
	return UserResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		Role:        string(u.Role),
		IsActive:    u.IsActive,
		DisplayName: u.DisplayName(),
		Student:     u.Student,
		Company:     u.Company,
	}
}

func FromUserSlice(items []user.User) []UserResponse {
	out := make([]UserResponse, 0, len(items))
	for _, u := range items {
		out = append(out, FromUser(u))
	}
	return out
}
