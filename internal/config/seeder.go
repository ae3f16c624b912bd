package config

import (
	"log"
	"time"

	"shelfwise/internal/adapters/persistence/models"
	"shelfwise/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}
	if err := s.seedStarterCatalog(); err != nil {
		log.Printf("⚠️ Catalog seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds default admin user
// This is for development/testing only
// In production, create admin through secure process
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: "admin",
		Email:    "admin@shelfwise.local",
		Password: hashedPassword,
		Role:     models.RoleAdmin,
		Level:    1,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Username)
	return nil
}

// seedStarterCatalog seeds two books with copies, a demo member with a
// reading journey, and one active loan
func (s *Seeder) seedStarterCatalog() error {
	var count int64
	s.db.Model(&models.Book{}).Count(&count)
	if count > 0 {
		return nil // Catalog already seeded
	}

	fantasy := &models.Book{
		Title:     "Harry Potter and the Philosopher's Stone",
		Author:    "J.K. Rowling",
		ISBN:      "978-602-03-1234-5",
		Synopsis:  "An orphaned boy discovers he is a wizard...",
		PageCount: 300,
		MoodTags:  "Fantasy, Magic, Adventure, Nostalgia",
		Copies: []models.BookCopy{
			{IsAvailable: true, Condition: "New", ShelfLocation: "Shelf A-1"},
			{IsAvailable: true, Condition: "Good", ShelfLocation: "Shelf A-1"},
		},
	}
	if err := s.db.Create(fantasy).Error; err != nil {
		return err
	}

	selfHelp := &models.Book{
		Title:     "Atomic Habits",
		Author:    "James Clear",
		ISBN:      "978-602-06-3317-6",
		Synopsis:  "Tiny changes, remarkable results...",
		PageCount: 350,
		MoodTags:  "Self-Improvement, Productivity, Motivation",
		Copies: []models.BookCopy{
			{IsAvailable: true, Condition: "New", ShelfLocation: "Shelf B-3"},
		},
	}
	if err := s.db.Create(selfHelp).Error; err != nil {
		return err
	}

	hashedPassword, err := password.Hash("bookworm123")
	if err != nil {
		return err
	}

	member := &models.User{
		Username:      "Bookworm",
		Email:         "member@shelfwise.local",
		Password:      hashedPassword,
		Role:          models.RoleMember,
		XPPoints:      150,
		Level:         2,
		CurrentStreak: 5,
		LongestStreak: 5,
		Journeys: []models.ReadingJourney{
			{BookID: fantasy.ID, Status: "Reading", CurrentPage: 45},
		},
	}
	if err := s.db.Create(member).Error; err != nil {
		return err
	}

	// Check the first fantasy copy out to the demo member
	copy := fantasy.Copies[0]
	now := time.Now()
	loan := &models.Loan{
		UserID:     member.ID,
		CopyID:     copy.ID,
		Status:     models.LoanStatusActive,
		BorrowDate: now,
		DueDate:    now.AddDate(0, 0, models.LoanPeriodDays),
	}
	if err := s.db.Create(loan).Error; err != nil {
		return err
	}
	if err := s.db.Model(&models.BookCopy{}).
		Where("id = ?", copy.ID).
		Update("is_available", false).Error; err != nil {
		return err
	}

	log.Println("✅ Starter catalog seeded")
	return nil
}
