package repositories

import (
	"context"

	"shelfwise/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ReviewRepository handles review data access
type ReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create creates a new review
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// ListByBook lists reviews for a book, newest first, with reviewer
func (r *ReviewRepository) ListByBook(ctx context.Context, bookID uint) ([]*models.Review, error) {
	var reviews []*models.Review
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("book_id = ?", bookID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// JourneyRepository handles reading journey data access
type JourneyRepository struct {
	db *gorm.DB
}

// NewJourneyRepository creates a new journey repository
func NewJourneyRepository(db *gorm.DB) *JourneyRepository {
	return &JourneyRepository{db: db}
}

// GetByUserAndBook gets a user's journey for a book
func (r *JourneyRepository) GetByUserAndBook(ctx context.Context, userID, bookID uint) (*models.ReadingJourney, error) {
	var journey models.ReadingJourney
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&journey).Error
	if err != nil {
		return nil, err
	}
	return &journey, nil
}

// Save creates or updates a journey row
func (r *JourneyRepository) Save(ctx context.Context, journey *models.ReadingJourney) error {
	return r.db.WithContext(ctx).Save(journey).Error
}

// ListByUser lists a user's journeys with their books
func (r *JourneyRepository) ListByUser(ctx context.Context, userID uint) ([]*models.ReadingJourney, error) {
	var journeys []*models.ReadingJourney
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&journeys).Error
	return journeys, err
}
