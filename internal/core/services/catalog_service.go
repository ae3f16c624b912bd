package services

import (
	"context"
	"errors"
	"math"

	"shelfwise/internal/adapters/persistence/models"
	"shelfwise/internal/adapters/persistence/repositories"
	"shelfwise/internal/core/domain"

	"gorm.io/gorm"
)

// CatalogService handles catalog queries and reviews
type CatalogService struct {
	bookRepo   *repositories.BookRepository
	userRepo   repositories.UserRepository
	loanRepo   *repositories.LoanRepository
	reviewRepo *repositories.ReviewRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	bookRepo *repositories.BookRepository,
	userRepo repositories.UserRepository,
	loanRepo *repositories.LoanRepository,
	reviewRepo *repositories.ReviewRepository,
) *CatalogService {
	return &CatalogService{
		bookRepo:   bookRepo,
		userRepo:   userRepo,
		loanRepo:   loanRepo,
		reviewRepo: reviewRepo,
	}
}

// Search lists books matching the query (title, author, mood tags),
// newest first
func (s *CatalogService) Search(ctx context.Context, query string, offset, limit int) ([]*models.Book, int64, error) {
	return s.bookRepo.Search(ctx, query, offset, limit)
}

// BookDetail is everything the book detail view consumes
type BookDetail struct {
	Book      *models.Book `json:"book"`
	Stock     int64        `json:"stock"`
	AvgRating float64      `json:"avg_rating"`
}

// Detail assembles a book's detail view: the book with its reviews, the
// live available-copy count, and the average rating rounded to 1 decimal
func (s *CatalogService) Detail(ctx context.Context, bookID uint) (*BookDetail, error) {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}

	stock, err := s.bookRepo.CountAvailableCopies(ctx, bookID)
	if err != nil {
		return nil, err
	}

	avg, err := s.bookRepo.AverageRating(ctx, bookID)
	if err != nil {
		return nil, err
	}

	return &BookDetail{
		Book:      book,
		Stock:     stock,
		AvgRating: math.Round(avg*10) / 10,
	}, nil
}

// TVData is the dashboard-style aggregate view for the lobby screen
type TVData struct {
	TopReaders []*models.UserResponse `json:"top_readers"`
	NewBooks   []*models.Book         `json:"new_books"`
	TotalReads int64                  `json:"total_reads"`
}

// TV assembles the lobby screen: top 5 members by XP, 3 newest books, and
// the all-time count of returned loans
func (s *CatalogService) TV(ctx context.Context) (*TVData, error) {
	topUsers, err := s.userRepo.TopByXP(ctx, 5)
	if err != nil {
		return nil, err
	}

	newBooks, err := s.bookRepo.Newest(ctx, 3)
	if err != nil {
		return nil, err
	}

	totalReads, err := s.loanRepo.CountByStatus(ctx, models.LoanStatusReturned)
	if err != nil {
		return nil, err
	}

	topReaders := make([]*models.UserResponse, len(topUsers))
	for i, u := range topUsers {
		topReaders[i] = u.ToResponse()
	}

	return &TVData{
		TopReaders: topReaders,
		NewBooks:   newBooks,
		TotalReads: totalReads,
	}, nil
}

// AddReviewInput represents review input
type AddReviewInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty"`
}

// AddReview records a member's rating and comment on a book
func (s *CatalogService) AddReview(ctx context.Context, bookID, userID uint, input *AddReviewInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, domain.ErrInvalidRating
	}

	exists, err := s.bookRepo.Exists(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrBookNotFound
	}

	review := &models.Review{
		UserID:  userID,
		BookID:  bookID,
		Rating:  input.Rating,
		Comment: input.Comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}
