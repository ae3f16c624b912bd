package services

import (
	"context"

	"shelfwise/internal/adapters/persistence/models"
	"shelfwise/internal/adapters/persistence/repositories"
	"shelfwise/internal/core/domain"

	"gorm.io/gorm"
)

// AdminService handles the admin dashboard and catalog administration
type AdminService struct {
	db       *gorm.DB
	bookRepo *repositories.BookRepository
	userRepo repositories.UserRepository
	loanRepo *repositories.LoanRepository
}

// NewAdminService creates a new admin service
func NewAdminService(
	db *gorm.DB,
	bookRepo *repositories.BookRepository,
	userRepo repositories.UserRepository,
	loanRepo *repositories.LoanRepository,
) *AdminService {
	return &AdminService{
		db:       db,
		bookRepo: bookRepo,
		userRepo: userRepo,
		loanRepo: loanRepo,
	}
}

// DashboardData represents admin dashboard data
type DashboardData struct {
	// Headline counts
	TotalBooks  int64 `json:"total_books"`
	TotalUsers  int64 `json:"total_users"`
	ActiveLoans int64 `json:"active_loans"`

	// Tables
	Loans   []*models.Loan          `json:"loans"`
	Stock   []repositories.StockRow `json:"stock"`
	Members []*models.UserResponse  `json:"members"`
}

// Dashboard assembles the admin dashboard: headline counts, active loans
// ordered by due date, per-book stock, and the member list
func (s *AdminService) Dashboard(ctx context.Context) (*DashboardData, error) {
	data := &DashboardData{}

	var err error
	if data.TotalBooks, err = s.bookRepo.Count(ctx); err != nil {
		return nil, err
	}

	if err = s.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.RoleMember).
		Count(&data.TotalUsers).Error; err != nil {
		return nil, err
	}

	if data.ActiveLoans, err = s.loanRepo.CountByStatus(ctx, models.LoanStatusActive); err != nil {
		return nil, err
	}

	if data.Loans, err = s.loanRepo.ListActive(ctx); err != nil {
		return nil, err
	}

	if data.Stock, err = s.bookRepo.ListWithStock(ctx); err != nil {
		return nil, err
	}

	members, _, err := s.userRepo.ListMembers(ctx, 0, 200)
	if err != nil {
		return nil, err
	}
	data.Members = make([]*models.UserResponse, len(members))
	for i, m := range members {
		data.Members[i] = m.ToResponse()
	}

	return data, nil
}

// CreateBookInput represents book creation input
type CreateBookInput struct {
	Title      string `json:"title" validate:"required"`
	Author     string `json:"author" validate:"required"`
	ISBN       string `json:"isbn,omitempty"`
	Synopsis   string `json:"synopsis,omitempty"`
	PageCount  int    `json:"page_count,omitempty"`
	MoodTags   string `json:"mood_tags,omitempty"`
	CoverImage string `json:"cover_image,omitempty"`
}

// CreateBook creates a catalog entry together with its first physical copy
func (s *AdminService) CreateBook(ctx context.Context, input *CreateBookInput) (*models.Book, error) {
	if input.Title == "" || input.Author == "" {
		return nil, domain.ErrInvalidInput
	}

	book := &models.Book{
		Title:     input.Title,
		Author:    input.Author,
		ISBN:      input.ISBN,
		Synopsis:  input.Synopsis,
		PageCount: input.PageCount,
		MoodTags:  input.MoodTags,
		Copies: []models.BookCopy{
			{IsAvailable: true, Condition: "New", ShelfLocation: "New Arrivals"},
		},
	}
	if input.CoverImage != "" {
		book.CoverImage = &input.CoverImage
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}
