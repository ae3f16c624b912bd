package services

import (
	"context"
	"errors"

	"shelfwise/internal/adapters/persistence/models"
	"shelfwise/internal/adapters/persistence/repositories"
	"shelfwise/internal/core/domain"
	"shelfwise/internal/pkg/membercard"

	"gorm.io/gorm"
)

// ProfileService assembles the member profile and maintains reading journeys
type ProfileService struct {
	userRepo    repositories.UserRepository
	loanRepo    *repositories.LoanRepository
	journeyRepo *repositories.JourneyRepository
	bookRepo    *repositories.BookRepository
}

// NewProfileService creates a new profile service
func NewProfileService(
	userRepo repositories.UserRepository,
	loanRepo *repositories.LoanRepository,
	journeyRepo *repositories.JourneyRepository,
	bookRepo *repositories.BookRepository,
) *ProfileService {
	return &ProfileService{
		userRepo:    userRepo,
		loanRepo:    loanRepo,
		journeyRepo: journeyRepo,
		bookRepo:    bookRepo,
	}
}

// ProfileData is everything the profile view consumes
type ProfileData struct {
	User       *models.UserResponse     `json:"user"`
	Loans      []*models.Loan           `json:"loans"`
	Journeys   []*models.ReadingJourney `json:"journeys"`
	MemberCard string                   `json:"member_card"`
}

// Profile assembles the profile view: the user, their loan history newest
// first, their reading journeys, and the member-card image
func (s *ProfileService) Profile(ctx context.Context, userID uint) (*ProfileData, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	loans, err := s.loanRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	journeys, err := s.journeyRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	card, err := membercard.DataURL(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	return &ProfileData{
		User:       user.ToResponse(),
		Loans:      loans,
		Journeys:   journeys,
		MemberCard: card,
	}, nil
}

// JourneyInput represents reading-journey input
type JourneyInput struct {
	Status      string `json:"status"`
	CurrentPage int    `json:"current_page"`
}

// UpsertJourney creates or updates the user's progress marker for a book.
// One row per (user, book); repeated calls just move the marker.
func (s *ProfileService) UpsertJourney(ctx context.Context, bookID, userID uint, input *JourneyInput) (*models.ReadingJourney, error) {
	if input.CurrentPage < 0 {
		return nil, domain.ErrInvalidInput
	}

	exists, err := s.bookRepo.Exists(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrBookNotFound
	}

	journey, err := s.journeyRepo.GetByUserAndBook(ctx, userID, bookID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		journey = &models.ReadingJourney{
			UserID: userID,
			BookID: bookID,
		}
	}

	if input.Status != "" {
		journey.Status = input.Status
	} else if journey.Status == "" {
		journey.Status = "Reading"
	}
	journey.CurrentPage = input.CurrentPage

	if err := s.journeyRepo.Save(ctx, journey); err != nil {
		return nil, err
	}
	return journey, nil
}
