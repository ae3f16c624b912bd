package services

import (
	"context"
	"errors"
	"log"
	"time"

	"shelfwise/internal/adapters/persistence/models"
	"shelfwise/internal/core/domain"

	"gorm.io/gorm"
)

// XPPerReturn is the experience reward for returning a loan
const XPPerReturn = 50

// XPPerLevel is how much XP one level costs
const XPPerLevel = 100

// InventoryService maintains the copy-availability invariant across borrow,
// return and stock operations. Every multi-row mutation runs in a single
// transaction; a copy is claimed or released with a conditional update so
// two concurrent requests can never both act on the same copy.
type InventoryService struct {
	db *gorm.DB
}

// NewInventoryService creates a new inventory service
func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

// Borrow checks one available copy of a book out to a user. Fails with
// domain.ErrOutOfStock when no copy is loanable; on success the loan is
// active with due date = now + 7 days and the copy is unavailable.
func (s *InventoryService) Borrow(ctx context.Context, bookID, userID uint) (*models.Loan, error) {
	var loan *models.Loan

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var copy models.BookCopy
		err := tx.Where("book_id = ? AND is_available = ?", bookID, true).
			First(&copy).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrOutOfStock
			}
			return err
		}

		// Claim-on-write: only proceed if the copy is still available.
		res := tx.Model(&models.BookCopy{}).
			Where("id = ? AND is_available = ?", copy.ID, true).
			Update("is_available", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrOutOfStock
		}

		now := time.Now()
		loan = &models.Loan{
			UserID:     userID,
			CopyID:     copy.ID,
			Status:     models.LoanStatusActive,
			BorrowDate: now,
			DueDate:    now.AddDate(0, 0, models.LoanPeriodDays),
		}
		return tx.Create(loan).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("📕 Loan %d opened: book %d copy %d -> user %d", loan.ID, bookID, loan.CopyID, userID)
	return loan, nil
}

// Return closes an active loan: status -> returned, copy released, owner
// rewarded. Only the loan's owner (or an admin) may return it; a loan that
// is not active is rejected without any mutation.
func (s *InventoryService) Return(ctx context.Context, loanID, actorID uint, actorRole string) (*models.Loan, error) {
	var loan models.Loan

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&loan, loanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrLoanNotFound
			}
			return err
		}

		if loan.UserID != actorID && actorRole != models.RoleAdmin {
			return domain.ErrNotLoanOwner
		}

		now := time.Now()
		res := tx.Model(&models.Loan{}).
			Where("id = ? AND status = ?", loanID, models.LoanStatusActive).
			Updates(map[string]interface{}{
				"status":      models.LoanStatusReturned,
				"return_date": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrLoanNotActive
		}

		if err := tx.Model(&models.BookCopy{}).
			Where("id = ?", loan.CopyID).
			Update("is_available", true).Error; err != nil {
			return err
		}

		if err := s.awardReturn(tx, loan.UserID, now); err != nil {
			return err
		}

		loan.Status = models.LoanStatusReturned
		loan.ReturnDate = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("📗 Loan %d returned by user %d", loan.ID, actorID)
	return &loan, nil
}

// awardReturn grants the return XP and maintains level and streak counters
// for the loan owner, inside the caller's transaction.
func (s *InventoryService) awardReturn(tx *gorm.DB, userID uint, now time.Time) error {
	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		return err
	}

	user.XPPoints += XPPerReturn
	user.Level = user.XPPoints/XPPerLevel + 1
	user.CurrentStreak = nextStreak(user.CurrentStreak, user.LastReturnAt, now)
	if user.CurrentStreak > user.LongestStreak {
		user.LongestStreak = user.CurrentStreak
	}
	user.LastReturnAt = &now

	return tx.Save(&user).Error
}

// nextStreak applies the daily-streak rule: a return on the day after the
// last one extends the streak, a same-day return keeps it, anything else
// starts over at 1. Days are calendar days in now's location, not fixed
// 24-hour windows, so a return just after local midnight still extends.
func nextStreak(current int, lastReturn *time.Time, now time.Time) int {
	if lastReturn == nil {
		return 1
	}

	last := lastReturn.In(now.Location())
	ly, lm, ld := last.Date()
	ny, nm, nd := now.Date()

	if ly == ny && lm == nm && ld == nd {
		if current < 1 {
			return 1
		}
		return current
	}

	next := time.Date(ly, lm, ld, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	if y, m, d := next.Date(); y == ny && m == nm && d == nd {
		return current + 1
	}
	return 1
}

// AddCopy adds one copy of stock for a book
func (s *InventoryService) AddCopy(ctx context.Context, bookID uint) (*models.BookCopy, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Book{}).
		Where("id = ?", bookID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, domain.ErrBookNotFound
	}

	copy := &models.BookCopy{
		BookID:        bookID,
		IsAvailable:   true,
		Condition:     "New",
		ShelfLocation: "Storeroom",
	}
	if err := s.db.WithContext(ctx).Create(copy).Error; err != nil {
		return nil, err
	}
	return copy, nil
}

// RemoveCopy deletes one available copy of a book. When every copy is on
// loan this is a silent no-op: the conditional delete simply matches
// nothing and the call succeeds.
func (s *InventoryService) RemoveCopy(ctx context.Context, bookID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var copy models.BookCopy
		err := tx.Where("book_id = ? AND is_available = ?", bookID, true).
			First(&copy).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		// Guarded delete: a copy claimed by a concurrent borrow stays put.
		return tx.Where("id = ? AND is_available = ?", copy.ID, true).
			Delete(&models.BookCopy{}).Error
	})
}

// DeleteBook removes a book and every dependent row in one transaction,
// in strict dependency order: loans (via the book's copies), reviews,
// journeys, copies, then the book itself.
func (s *InventoryService) DeleteBook(ctx context.Context, bookID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBookNotFound
			}
			return err
		}

		copyIDs := tx.Model(&models.BookCopy{}).Select("id").Where("book_id = ?", bookID)
		if err := tx.Where("copy_id IN (?)", copyIDs).Delete(&models.Loan{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", bookID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", bookID).Delete(&models.ReadingJourney{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", bookID).Delete(&models.BookCopy{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Book{}, bookID).Error
	})
	if err != nil {
		return err
	}

	log.Printf("🗑️ Book %d deleted with all dependents", bookID)
	return nil
}

// DeleteUser removes a user and every dependent row in one transaction:
// loans, reviews, journeys, sessions, then the user. Copies referenced by
// the user's active loans are released first so stock is not stranded.
func (s *InventoryService) DeleteUser(ctx context.Context, userID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}

		activeCopyIDs := tx.Model(&models.Loan{}).Select("copy_id").
			Where("user_id = ? AND status = ?", userID, models.LoanStatusActive)
		if err := tx.Model(&models.BookCopy{}).
			Where("id IN (?)", activeCopyIDs).
			Update("is_available", true).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.Loan{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.ReadingJourney{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
	if err != nil {
		return err
	}

	log.Printf("🗑️ User %d deleted with all dependents", userID)
	return nil
}
