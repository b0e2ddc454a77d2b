package offer

import (
	"time"

	"adopte-server/internal/domain"
	"adopte-server/internal/domain/user"

	"github.com/google/uuid"
)

// Offer represents the offers table. CompanyID refers to the posting
// company's user record.
type Offer struct {
	ID          uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID   uuid.UUID          `gorm:"type:uuid;not null;index" json:"company_id"`
	Title       string             `gorm:"type:varchar(255);not null" json:"title"`
	Description string             `gorm:"type:text" json:"description"`
	Type        domain.OfferType   `gorm:"type:varchar(16);not null" json:"type"`
	Status      domain.OfferStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	Skills      string             `gorm:"type:text" json:"skills,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`

	// Relations
	Company user.User `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

// Application represents the applications table: one student applying to
// one offer. UNIQUE(offer_id, student_id) keeps applications single-shot.
type Application struct {
	ID        uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	OfferID   uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_applications_offer_student" json:"offer_id"`
	StudentID uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_applications_offer_student;index" json:"student_id"`
	Status    domain.RequestStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	Motivation string              `gorm:"type:text" json:"motivation,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`

	// Relations
	Offer   Offer     `gorm:"foreignKey:OfferID" json:"offer,omitempty"`
	Student user.User `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}
