package httpdto

import (
	"time"

	"adopte-server/internal/domain/offer"
)

type CreateOfferRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Type        string `json:"type" binding:"required"`
	Skills      string `json:"skills"`
}

type UpdateOfferRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Skills      string `json:"skills"`
	Status      string `json:"status"`
}

type ApplyRequest struct {
	Motivation string `json:"motivation"`
}

type DecideRequest struct {
	Accept bool `json:"accept"`
}

type OfferResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	CompanyName string    `json:"company_name,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Skills      string    `json:"skills,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromOffer(o offer.Offer) OfferResponse {
	return OfferResponse{
		ID:          o.ID.String(),
		CompanyID:   o.CompanyID.String(),
		CompanyName: o.Company.CompanyName(),
		Title:       o.Title,
		Description: o.Description,
		Type:        string(o.Type),
		Status:      string(o.Status),
		Skills:      o.Skills,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func FromOfferSlice(items []offer.Offer) []OfferResponse {
	out := make([]OfferResponse, 0, len(items))
	for _, o := range items {
		out = append(out, FromOffer(o))
	}
	return out
}

type ApplicationResponse struct {
	ID          string    `json:"id"`
	OfferID     string    `json:"offer_id"`
	OfferTitle  string    `json:"offer_title,omitempty"`
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name,omitempty"`
	Status      string    `json:"status"`
	Motivation  string    `json:"motivation,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromApplication(a offer.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:          a.ID.String(),
		OfferID:     a.OfferID.String(),
		OfferTitle:  a.Offer.Title,
		StudentID:   a.StudentID.String(),
		StudentName: a.Student.DisplayName(),
		Status:      string(a.Status),
		Motivation:  a.Motivation,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func FromApplicationSlice(items []offer.Application) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(items))
	for _, a := range items {
		out = append(out, FromApplication(a))
	}
	return out
}
