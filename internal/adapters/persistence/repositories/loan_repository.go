package repositories

import (
	"context"
	"time"

	"shelfwise/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// LoanRepository handles loan data access. Mutations that must stay in
// lock-step with copy availability live in the inventory service's
// transactions, not here.
type LoanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

// GetByID gets a loan by ID
func (r *LoanRepository) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).First(&loan, id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// ListByUser lists a user's loans, newest first, with copy and book
func (r *LoanRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("Copy.Book").
		Where("user_id = ?", userID).
		Order("borrow_date DESC").
		Find(&loans).Error
	return loans, err
}

// ListActive lists all active loans ordered by due date, with relations
// (the admin dashboard table)
func (r *LoanRepository) ListActive(ctx context.Context) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Copy.Book").
		Where("status = ?", models.LoanStatusActive).
		Order("due_date ASC").
		Find(&loans).Error
	return loans, err
}

// ListOverdue lists active loans past due as of the given time (cron report)
func (r *LoanRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Copy.Book").
		Where("status = ? AND due_date < ?", models.LoanStatusActive, asOf).
		Order("due_date ASC").
		Find(&loans).Error
	return loans, err
}

// CountByStatus counts loans with the given status
func (r *LoanRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
