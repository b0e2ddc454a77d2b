package adoption

import (
	"time"

	"adopte-server/internal/domain"
	"adopte-server/internal/domain/user"

	"github.com/google/uuid"
)

// AdoptionRequest represents the adoption_requests table: a company
// reaching out to a student directly, the inverse of an application.
// UNIQUE(company_id, student_id) keeps the request single-shot.
type AdoptionRequest struct {
	ID        uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_adoptions_company_student" json:"company_id"`
	StudentID uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_adoptions_company_student;index" json:"student_id"`
	Status    domain.RequestStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	Message   string               `gorm:"type:text" json:"message,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`

	// Relations
	Company user.User `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Student user.User `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}
