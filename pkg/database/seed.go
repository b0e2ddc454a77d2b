package database

import (
	"log"
	"strings"
	"time"

	"adopte-server/internal/domain"
	"adopte-server/internal/domain/offer"
	"adopte-server/internal/domain/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the administration account when it does not exist yet.
func SeedAdmin(db *gorm.DB, email, password string) error {
	email = strings.ToLower(email)

	var count int64
	if err := db.Model(&user.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("Admin %s already exists, skipping", email)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}
	log.Printf("Seeded admin account %s", email)
	return nil
}

// SeedDev populates a handful of demo accounts and offers for local work.
func SeedDev(db *gorm.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("Demo@123!"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	students := []struct {
		email, first, last, school, skills string
	}{
		{"lucie.martin@example.org", "Lucie", "Martin", "EPITECH Lyon", "Go,React,PostgreSQL"},
		{"karim.benali@example.org", "Karim", "Benali", "Université de Lille", "Python,Django"},
		{"emma.dubois@example.org", "Emma", "Dubois", "42 Paris", "C,Go,Docker"},
	}
	companies := []struct {
		email, name, sector string
	}{
		{"contact@webforge.example.com", "WebForge", "Software"},
		{"rh@datalys.example.com", "Datalys", "Data / Analytics"},
	}

	for _, s := range students {
		u := &user.User{
			ID:           uuid.New(),
			Email:        s.email,
			PasswordHash: string(hash),
			Role:         domain.RoleStudent,
			IsActive:     true,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
			Student: &user.StudentProfile{
				FirstName: s.first,
				LastName:  s.last,
				School:    s.school,
				Skills:    s.skills,
				UpdatedAt: time.Now(),
			},
		}
		if err := db.Where("email = ?", s.email).FirstOrCreate(u).Error; err != nil {
			return err
		}
	}

	var companyIDs []uuid.UUID
	for _, c := range companies {
		u := &user.User{
			ID:           uuid.New(),
			Email:        c.email,
			PasswordHash: string(hash),
			Role:         domain.RoleCompany,
			IsActive:     true,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
			Company: &user.CompanyProfile{
				Name:      c.name,
				Sector:    c.sector,
				UpdatedAt: time.Now(),
			},
		}
		if err := db.Where("email = ?", c.email).FirstOrCreate(u).Error; err != nil {
			return err
		}
		companyIDs = append(companyIDs, u.ID)
	}

	offers := []offer.Offer{
		{
			ID:          uuid.New(),
			CompanyID:   companyIDs[0],
			Title:       "Stage développeur backend Go",
			Description: "Six mois sur notre plateforme e-commerce.",
			Type:        domain.OfferInternship,
			Status:      domain.OfferOpen,
			Skills:      "Go,PostgreSQL",
		},
		{
			ID:          uuid.New(),
			CompanyID:   companyIDs[1],
			Title:       "Alternance data engineer",
			Description: "Pipelines d'ingestion et tableaux de bord.",
			Type:        domain.OfferApprenticeship,
			Status:      domain.OfferOpen,
			Skills:      "Python,SQL",
		},
	}
	for i := range offers {
		offers[i].CreatedAt = time.Now()
		offers[i].UpdatedAt = time.Now()
		if err := db.Where("title = ?", offers[i].Title).FirstOrCreate(&offers[i]).Error; err != nil {
			return err
		}
	}

	log.Printf("Seeded %d students, %d companies, %d offers", len(students), len(companies), len(offers))
	return nil
}
