package services

import (
	"context"
	"testing"
	"time"

	"shelfwise/internal/adapters/persistence/models"
	"shelfwise/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBorrow(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)
	ctx := context.Background()

	member := seedUser(t, db, "reader", "reader@test.local", models.RoleMember)
	book := seedBook(t, db, "Dune", "Frank Herbert", 2)

	loan, err := svc.Borrow(ctx, book.ID, member.ID)
	require.NoError(t, err)

	assert.Equal(t, models.LoanStatusActive, loan.Status)
	assert.Equal(t, member.ID, loan.UserID)
	assert.Nil(t, loan.ReturnDate)

	wantDue := time.Now().AddDate(0, 0, models.LoanPeriodDays)
	assert.WithinDuration(t, wantDue, loan.DueDate, time.Minute)

	// The claimed copy is off the shelf
	assert.EqualValues(t, 1, countAvailable(t, db, book.ID))

	var copy models.BookCopy
	require.NoError(t, db.First(&copy, loan.CopyID).Error)
	assert.False(t, copy.IsAvailable)
}

func TestBorrowOutOfStock(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)
	ctx := context.Background()

	member := seedUser(t, db, "reader", "reader@test.local", models.RoleMember)
	other := seedUser(t, db, "other", "other@test.local", models.RoleMember)
	book := seedBook(t, db, "Atomic Habits", "James Clear", 1)

	_, err := svc.Borrow(ctx, book.ID, member.ID)
	require.NoError(t, err)

	// Last copy is gone; the next borrower is turned away
	_, err = svc.Borrow(ctx, book.ID, other.ID)
	assert.ErrorIs(t, err, domain.ErrOutOfStock)

	// No loan row was created for the failed attempt
	var loans int64
	require.NoError(t, db.Model(&models.Loan{}).Where("user_id = ?", other.ID).Count(&loans).Error)
	assert.Zero(t, loans)
}

func TestBorrowUnknownBook(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)

	member := seedUser(t, db, "reader", "reader@test.local", models.RoleMember)

	_, err := svc.Borrow(context.Background(), 9999, member.ID)
	assert.ErrorIs(t, err, domain.ErrOutOfStock)
}

func TestReturn(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)
	ctx := context.Background()

	member := seedUser(t, db, "reader", "reader@test.local", models.RoleMember)
	book := seedBook(t, db, "Dune", "Frank Herbert", 1)

	loan, err := svc.Borrow(ctx, book.ID, member.ID)
	require.NoError(t, err)

	returned, err := svc.Return(ctx, loan.ID, member.ID, models.RoleMember)
	require.NoError(t, err)

	assert.Equal(t, models.LoanStatusReturned, returned.Status)
	require.NotNil(t, returned.ReturnDate)

	// Copy is back on the shelf
	assert.EqualValues(t, 1, countAvailable(t, db, book.ID))

	// Owner earned the return reward
	var user models.User
	require.NoError(t, db.First(&user, member.ID).Error)
	assert.Equal(t, XPPerReturn, user.XPPoints)
	assert.Equal(t, 1, user.Level)
	assert.Equal(t, 1, user.CurrentStreak)
	assert.Equal(t, 1, user.LongestStreak)
	require.NotNil(t, user.LastReturnAt)
}

func TestReturnTwice(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)
	ctx := context.Background()

	member := seedUser(t, db, "reader", "reader@test.local", models.RoleMember)
	book := seedBook(t, db, "Dune", "Frank Herbert", 1)

	loan, err := svc.Borrow(ctx, book.ID, member.ID)
	require.NoError(t, err)

	_, err = svc.Return(ctx, loan.ID, member.ID, models.RoleMember)
	require.NoError(t, err)

	// A second return is rejected and awards nothing
	_, err = svc.Return(ctx, loan.ID, member.ID, models.RoleMember)
	assert.ErrorIs(t, err, domain.ErrLoanNotActive)

	var user models.User
	require.NoError(t, db.First(&user, member.ID).Error)
	assert.Equal(t, XPPerReturn, user.XPPoints)
}

func TestReturnByStranger(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner", "owner@test.local", models.RoleMember)
	stranger := seedUser(t, db, "stranger", "stranger@test.local", models.RoleMember)
	admin := seedUser(t, db, "admin", "admin@test.local", models.RoleAdmin)
	book := seedBook(t, db, "Dune", "Frank Herbert", 1)

	loan, err := svc.Borrow(ctx, book.ID, owner.ID)
	require.NoError(t, err)

	// Another member cannot close someone else's loan
	_, err = svc.Return(ctx, loan.ID, stranger.ID, models.RoleMember)
	assert.ErrorIs(t, err, domain.ErrNotLoanOwner)

	// An admin can, on the member's behalf
	returned, err := svc.Return(ctx, loan.ID, admin.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusReturned, returned.Status)

	// The XP still goes to the loan owner, not the admin
	var ownerRow, adminRow models.User
	require.NoError(t, db.First(&ownerRow, owner.ID).Error)
	require.NoError(t, db.First(&adminRow, admin.ID).Error)
	assert.Equal(t, XPPerReturn, ownerRow.XPPoints)
	assert.Zero(t, adminRow.XPPoints)
}

func TestReturnUnknownLoan(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)

	member := seedUser(t, db, "reader", "reader@test.local", models.RoleMember)

	_, err := svc.Return(context.Background(), 9999, member.ID, models.RoleMember)
	assert.ErrorIs(t, err, domain.ErrLoanNotFound)
}

func TestReturnLevelsUp(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)
	ctx := context.Background()

	member := seedUser(t, db, "reader", "reader@test.local", models.RoleMember)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", member.ID).
		Update("xp_points", 70).Error)
	book := seedBook(t, db, "Dune", "Frank Herbert", 1)

	loan, err := svc.Borrow(ctx, book.ID, member.ID)
	require.NoError(t, err)
	_, err = svc.Return(ctx, loan.ID, member.ID, models.RoleMember)
	require.NoError(t, err)

	// 70 + 50 = 120 XP crosses the 100 XP threshold
	var user models.User
	require.NoError(t, db.First(&user, member.ID).Error)
	assert.Equal(t, 120, user.XPPoints)
	assert.Equal(t, 2, user.Level)
}

func TestNextStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)
	earlierToday := now.Add(-3 * time.Hour).Truncate(24 * time.Hour).Add(time.Hour)

	assert.Equal(t, 1, nextStreak(0, nil, now), "first return starts a streak")
	assert.Equal(t, 4, nextStreak(3, &yesterday, now), "consecutive day extends")
	assert.Equal(t, 3, nextStreak(3, &earlierToday, now), "same day keeps")
	assert.Equal(t, 1, nextStreak(9, &lastWeek, now), "gap resets")
}

func TestNextStreakLocalCalendarDays(t *testing.T) {
	jakarta := time.FixedZone("UTC+7", 7*3600)

	// 23:30 then 00:30 the next local day is one hour apart on the
	// clock but crosses local midnight, so the streak extends.
	lateNight := time.Date(2026, 3, 9, 23, 30, 0, 0, jakarta)
	afterMidnight := time.Date(2026, 3, 10, 0, 30, 0, 0, jakarta)
	assert.Equal(t, 3, nextStreak(2, &lateNight, afterMidnight), "local midnight rollover extends")

	// 06:00 and 20:00 local share a calendar day even though they fall
	// on different UTC days (23:00 Mar 9 vs 13:00 Mar 10 UTC).
	morning := time.Date(2026, 3, 10, 6, 0, 0, 0, jakarta)
	evening := time.Date(2026, 3, 10, 20, 0, 0, 0, jakarta)
	assert.Equal(t, 5, nextStreak(5, &morning, evening), "same local day keeps")

	// A UTC timestamp compares in the viewer's zone: 18:00 UTC Mar 9
	// is already Mar 10 at UTC+7, so a return on local Mar 11 extends.
	utcStamp := time.Date(2026, 3, 9, 18, 0, 0, 0, time.UTC)
	nextLocal := time.Date(2026, 3, 11, 9, 0, 0, 0, jakarta)
	assert.Equal(t, 2, nextStreak(1, &utcStamp, nextLocal), "stored UTC converts before comparing")
}

func TestSingleCopyContention(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice", "alice@test.local", models.RoleMember)
	bob := seedUser(t, db, "bob", "bob@test.local", models.RoleMember)
	book := seedBook(t, db, "Atomic Habits", "James Clear", 1)

	aliceLoan, err := svc.Borrow(ctx, book.ID, alice.ID)
	require.NoError(t, err)

	_, err = svc.Borrow(ctx, book.ID, bob.ID)
	require.ErrorIs(t, err, domain.ErrOutOfStock)

	_, err = svc.Return(ctx, aliceLoan.ID, alice.ID, models.RoleMember)
	require.NoError(t, err)

	// Once the copy is back, the queue moves
	bobLoan, err := svc.Borrow(ctx, book.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, aliceLoan.CopyID, bobLoan.CopyID)
	assert.EqualValues(t, 0, countAvailable(t, db, book.ID))
}

func TestAddCopy(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)
	ctx := context.Background()

	book := seedBook(t, db, "Dune", "Frank Herbert", 1)

	copy, err := svc.AddCopy(ctx, book.ID)
	require.NoError(t, err)
	assert.True(t, copy.IsAvailable)
	assert.Equal(t, book.ID, copy.BookID)
	assert.EqualValues(t, 2, countAvailable(t, db, book.ID))

	_, err = svc.AddCopy(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrBookNotFound)
}

func TestRemoveCopy(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)
	ctx := context.Background()

	book := seedBook(t, db, "Dune", "Frank Herbert", 2)

	require.NoError(t, svc.RemoveCopy(ctx, book.ID))
	assert.EqualValues(t, 1, countAvailable(t, db, book.ID))
}

func TestRemoveCopyAllOnLoan(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)
	ctx := context.Background()

	member := seedUser(t, db, "reader", "reader@test.local", models.RoleMember)
	book := seedBook(t, db, "Dune", "Frank Herbert", 1)

	loan, err := svc.Borrow(ctx, book.ID, member.ID)
	require.NoError(t, err)

	// The only copy is out on loan; removal is a silent no-op
	require.NoError(t, svc.RemoveCopy(ctx, book.ID))

	var total int64
	require.NoError(t, db.Model(&models.BookCopy{}).Where("book_id = ?", book.ID).Count(&total).Error)
	assert.EqualValues(t, 1, total)

	var current models.Loan
	require.NoError(t, db.First(&current, loan.ID).Error)
	assert.Equal(t, models.LoanStatusActive, current.Status)
}

func TestDeleteBookCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)
	ctx := context.Background()

	member := seedUser(t, db, "reader", "reader@test.local", models.RoleMember)
	book := seedBook(t, db, "Dune", "Frank Herbert", 2)
	other := seedBook(t, db, "Atomic Habits", "James Clear", 1)

	_, err := svc.Borrow(ctx, book.ID, member.ID)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Review{UserID: member.ID, BookID: book.ID, Rating: 5}).Error)
	require.NoError(t, db.Create(&models.ReadingJourney{UserID: member.ID, BookID: book.ID, Status: "Reading"}).Error)

	require.NoError(t, svc.DeleteBook(ctx, book.ID))

	for name, count := range map[string]int64{
		"copies":   tableCount(t, db, &models.BookCopy{}, "book_id = ?", book.ID),
		"reviews":  tableCount(t, db, &models.Review{}, "book_id = ?", book.ID),
		"journeys": tableCount(t, db, &models.ReadingJourney{}, "book_id = ?", book.ID),
		"books":    tableCount(t, db, &models.Book{}, "id = ?", book.ID),
		"loans":    tableCount(t, db, &models.Loan{}, "1 = 1"),
	} {
		assert.Zero(t, count, name)
	}

	// Unrelated books survive
	assert.EqualValues(t, 1, tableCount(t, db, &models.Book{}, "id = ?", other.ID))

	assert.ErrorIs(t, svc.DeleteBook(ctx, 9999), domain.ErrBookNotFound)
}

func TestDeleteUserCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)
	ctx := context.Background()

	member := seedUser(t, db, "reader", "reader@test.local", models.RoleMember)
	book := seedBook(t, db, "Dune", "Frank Herbert", 1)

	_, err := svc.Borrow(ctx, book.ID, member.ID)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Review{UserID: member.ID, BookID: book.ID, Rating: 4}).Error)
	require.NoError(t, db.Create(&models.ReadingJourney{UserID: member.ID, BookID: book.ID}).Error)
	require.NoError(t, db.Create(&models.Session{UserID: member.ID, TokenHash: "h", ExpiresAt: time.Now().Add(time.Hour)}).Error)

	require.NoError(t, svc.DeleteUser(ctx, member.ID))

	assert.Zero(t, tableCount(t, db, &models.User{}, "id = ?", member.ID))
	assert.Zero(t, tableCount(t, db, &models.Loan{}, "user_id = ?", member.ID))
	assert.Zero(t, tableCount(t, db, &models.Review{}, "user_id = ?", member.ID))
	assert.Zero(t, tableCount(t, db, &models.ReadingJourney{}, "user_id = ?", member.ID))
	assert.Zero(t, tableCount(t, db, &models.Session{}, "user_id = ?", member.ID))

	// The copy held by the deleted member's loan is released, not stranded
	assert.EqualValues(t, 1, countAvailable(t, db, book.ID))

	assert.ErrorIs(t, svc.DeleteUser(ctx, 9999), domain.ErrUserNotFound)
}

func tableCount(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
