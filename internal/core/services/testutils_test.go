package services

import (
	"testing"

	"shelfwise/internal/adapters/persistence/models"
	"shelfwise/internal/pkg/password"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db))

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

// seedUser inserts a user with a hashed password
func seedUser(t *testing.T, db *gorm.DB, username, email, role string) *models.User {
	t.Helper()

	hashed, err := password.Hash("password123")
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashed,
		Role:     role,
		Level:    1,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedBook inserts a book with the given number of available copies
func seedBook(t *testing.T, db *gorm.DB, title, author string, copies int) *models.Book {
	t.Helper()

	book := &models.Book{
		Title:  title,
		Author: author,
	}
	for i := 0; i < copies; i++ {
		book.Copies = append(book.Copies, models.BookCopy{
			IsAvailable:   true,
			Condition:     "Good",
			ShelfLocation: "Shelf A",
		})
	}
	require.NoError(t, db.Create(book).Error)
	return book
}

// countAvailable counts loanable copies of a book
func countAvailable(t *testing.T, db *gorm.DB, bookID uint) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(&models.BookCopy{}).
		Where("book_id = ? AND is_available = ?", bookID, true).
		Count(&n).Error)
	return n
}
