package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Identity & Session
// ============================================================

// User roles
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User represents users table
type User struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Username      string     `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email         string     `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password      string     `gorm:"size:255;not null" json:"-"`
	Role          string     `gorm:"size:20;default:'member'" json:"role"`
	XPPoints      int        `gorm:"default:0" json:"xp_points"`
	Level         int        `gorm:"default:1" json:"level"`
	CurrentStreak int        `gorm:"default:0" json:"current_streak"`
	LongestStreak int        `gorm:"default:0" json:"longest_streak"`
	LastReturnAt  *time.Time `json:"last_return_at"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Loans    []Loan           `gorm:"foreignKey:UserID" json:"loans,omitempty"`
	Reviews  []Review         `gorm:"foreignKey:UserID" json:"-"`
	Journeys []ReadingJourney `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserResponse DTO
type UserResponse struct {
	ID            uint      `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	XPPoints      int       `json:"xp_points"`
	Level         int       `json:"level"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
	CreatedAt     time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Role:          u.Role,
		XPPoints:      u.XPPoints,
		Level:         u.Level,
		CurrentStreak: u.CurrentStreak,
		LongestStreak: u.LongestStreak,
		CreatedAt:     u.CreatedAt,
	}
}

// Session represents sessions table. The cookie carries an opaque token;
// only its SHA-256 hash is stored here.
type Session struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// ============================================================
// Catalog & Inventory
// ============================================================

// Book represents books table (catalog metadata)
type Book struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:200;not null" json:"title"`
	Author     string    `gorm:"size:100;not null" json:"author"`
	ISBN       string    `gorm:"size:30" json:"isbn"`
	Synopsis   string    `gorm:"type:text" json:"synopsis"`
	PageCount  int       `json:"page_count"`
	MoodTags   string    `gorm:"size:255" json:"mood_tags"`
	CoverImage *string   `gorm:"size:255" json:"cover_image"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Copies  []BookCopy `gorm:"foreignKey:BookID" json:"copies,omitempty"`
	Reviews []Review   `gorm:"foreignKey:BookID" json:"reviews,omitempty"`
}

func (Book) TableName() string {
	return "books"
}

// BookCopy represents book_copies table: one physical loanable instance.
// IsAvailable is kept in lock-step with the existence of an active loan.
type BookCopy struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	BookID        uint      `gorm:"index;not null" json:"book_id"`
	IsAvailable   bool      `gorm:"default:true" json:"is_available"`
	Condition     string    `gorm:"size:30;default:'New'" json:"condition"`
	ShelfLocation string    `gorm:"size:50" json:"shelf_location"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Book *Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

func (BookCopy) TableName() string {
	return "book_copies"
}

// Loan statuses
const (
	LoanStatusActive   = "active"
	LoanStatusReturned = "returned"
)

// LoanPeriodDays is the borrowing period
const LoanPeriodDays = 7

// Loan represents loans table: a time-bounded borrowing of one copy.
// Status only ever moves active -> returned.
type Loan struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"index;not null" json:"user_id"`
	CopyID     uint       `gorm:"index;not null" json:"copy_id"`
	Status     string     `gorm:"size:20;not null;default:'active'" json:"status"`
	BorrowDate time.Time  `gorm:"autoCreateTime" json:"borrow_date"`
	DueDate    time.Time  `gorm:"not null" json:"due_date"`
	ReturnDate *time.Time `json:"return_date"`

	// Relations
	User *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Copy *BookCopy `gorm:"foreignKey:CopyID" json:"copy,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

func (l *Loan) IsActive() bool {
	return l.Status == LoanStatusActive
}

// IsOverdue reports whether an active loan is past its due date
func (l *Loan) IsOverdue(now time.Time) bool {
	return l.IsActive() && now.After(l.DueDate)
}

// ============================================================
// Reviews & Reading Journeys
// ============================================================

// Review represents reviews table
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	BookID    uint      `gorm:"index;not null" json:"book_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Book *Book `gorm:"foreignKey:BookID" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}

// ReadingJourney represents reading_journeys table: per-user per-book
// progress, independent of loan status.
type ReadingJourney struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex:idx_journey_user_book;not null" json:"user_id"`
	BookID      uint      `gorm:"uniqueIndex:idx_journey_user_book;not null" json:"book_id"`
	Status      string    `gorm:"size:30;default:'Reading'" json:"status"`
	CurrentPage int       `gorm:"default:0" json:"current_page"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Book *Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

func (ReadingJourney) TableName() string {
	return "reading_journeys"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Session{},
		&Book{},
		&BookCopy{},
		&Loan{},
		&Review{},
		&ReadingJourney{},
	)
}
