package repositories

import (
	"context"

	"shelfwise/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// BookRepository handles catalog data access
type BookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

// Create creates a new book (including any initial copies attached to it)
func (r *BookRepository) Create(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

// GetByID gets a book by ID with its reviews (newest first, with reviewer)
func (r *BookRepository) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("reviews.created_at DESC")
		}).
		Preload("Reviews.User").
		First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Exists checks if a book exists
func (r *BookRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Book{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Search lists books matching the query on title, author or mood tags,
// newest first, with pagination. An empty query lists everything.
func (r *BookRepository) Search(ctx context.Context, query string, offset, limit int) ([]*models.Book, int64, error) {
	var books []*models.Book
	var total int64

	scope := r.db.WithContext(ctx).Model(&models.Book{})
	if query != "" {
		like := "%" + query + "%"
		scope = scope.Where("title LIKE ? OR author LIKE ? OR mood_tags LIKE ?", like, like, like)
	}

	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := scope.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&books).Error

	return books, total, err
}

// Newest returns the most recently added books (for the TV view)
func (r *BookRepository) Newest(ctx context.Context, limit int) ([]*models.Book, error) {
	var books []*models.Book
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&books).Error
	return books, err
}

// Count counts all books
func (r *BookRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Book{}).Count(&count).Error
	return count, err
}

// CountAvailableCopies counts loanable copies of a book
func (r *BookRepository) CountAvailableCopies(ctx context.Context, bookID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BookCopy{}).
		Where("book_id = ? AND is_available = ?", bookID, true).
		Count(&count).Error
	return count, err
}

// AverageRating computes the average review rating of a book (0 when unreviewed)
func (r *BookRepository) AverageRating(ctx context.Context, bookID uint) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("book_id = ?", bookID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	return avg, err
}

// StockRow is one line of the admin stock listing
type StockRow struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	TotalCopies     int64  `json:"total_copies"`
	AvailableCopies int64  `json:"available_copies"`
}

// ListWithStock lists all books with total and available copy counts,
// sorted by title (the admin stock table)
func (r *BookRepository) ListWithStock(ctx context.Context) ([]StockRow, error) {
	var rows []StockRow
	err := r.db.WithContext(ctx).Table("books").
		Select(`books.id, books.title, books.author,
			COUNT(book_copies.id) AS total_copies,
			COALESCE(SUM(CASE WHEN book_copies.is_available THEN 1 ELSE 0 END), 0) AS available_copies`).
		Joins("LEFT JOIN book_copies ON book_copies.book_id = books.id").
		Group("books.id, books.title, books.author").
		Order("books.title ASC").
		Scan(&rows).Error
	return rows, err
}
