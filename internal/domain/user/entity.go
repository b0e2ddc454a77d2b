package user

import (
	"time"

	"adopte-server/internal/domain"

	"github.com/google/uuid"
)

// User represents the users table
type User struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string      `gorm:"type:text;not null" json:"-"`
	Role         domain.Role `gorm:"type:varchar(16);not null;index" json:"role"`
	IsActive     bool        `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`

	// Relations
	Student *StudentProfile `gorm:"foreignKey:UserID" json:"student,omitempty"`
	Company *CompanyProfile `gorm:"foreignKey:UserID" json:"company,omitempty"`
}

// StudentProfile represents the student_profiles table
type StudentProfile struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	FirstName string    `gorm:"type:varchar(128);not null" json:"first_name"`
	LastName  string    `gorm:"type:varchar(128);not null" json:"last_name"`
	School    string    `gorm:"type:varchar(255)" json:"school,omitempty"`
	Skills    string    `gorm:"type:text" json:"skills,omitempty"`
	CVKey     string    `gorm:"type:text" json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompanyProfile represents the company_profiles table
type CompanyProfile struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Sector      string    `gorm:"type:varchar(128)" json:"sector,omitempty"`
	Website     string    `gorm:"type:varchar(255)" json:"website,omitempty"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DisplayName returns the role-specific name shown next to a participant.
func (u User) DisplayName() string {
	switch u.Role {
	case domain.RoleStudent:
		if u.Student != nil {
			return u.Student.FirstName + " " + u.Student.LastName
		}
	case domain.RoleCompany:
		if u.Company != nil {
			return u.Company.Name
		}
	}
	return u.Email
}

// CompanyName returns the company profile name, or "" when absent.
func (u User) CompanyName() string {
	if u.Company != nil {
		return u.Company.Name
	}
	return ""
}
