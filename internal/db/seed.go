package db

import (
	"log/slog"

	"github.com/sirdesai22/registration-dashboard/internal/models"
	"gorm.io/gorm"
)

// SampleRegistrations is the demo data inserted into an empty database.
var SampleRegistrations = []models.RegistrationInput{
	{Name: "Prathamesh Desai", Email: "prathamesh@example.com", Course: "B.Tech", Branch: "CSE", College: "PESU", Contact: "9800000001", Event: "Hackathon"},
	{Name: "Ananya Rao", Email: "ananya@example.com", Course: "B.Tech", Branch: "ECE", College: "RVCE", Contact: "9800000002", Event: "Quiz"},
	{Name: "Rahul Menon", Email: "rahul@example.com", Course: "BCA", Branch: "IT", College: "PESU", Contact: "9800000003", Event: "Hackathon"},
	{Name: "Sneha Kulkarni", Email: "sneha@example.com", Course: "M.Tech", Branch: "AI", College: "BMSCE", Contact: "9800000004", Event: "Paper Presentation"},
}

// Seed inserts SampleRegistrations when the registrations table is empty.
// Rows go through create so each one also gets an outbox event.
func Seed(db *gorm.DB, log *slog.Logger, create func(tx *gorm.DB, r *models.Registration) error) error {
	var count int64
	if err := db.Model(&models.Registration{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("🌱 Data already exists, skipping seed.")
		return nil
	}

	// Wrap in a transaction for atomicity
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, in := range SampleRegistrations {
			r := models.Registration{}
			r.Apply(in)
			if err := create(tx, &r); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Info("🌱 Sample data inserted successfully.", "count", len(SampleRegistrations))
	return nil
}
