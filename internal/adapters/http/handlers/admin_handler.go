package handlers

import (
	"errors"
	"strconv"

	"shelfwise/internal/config"
	"shelfwise/internal/core/domain"
	"shelfwise/internal/core/services"
	"shelfwise/internal/pkg/response"
	"shelfwise/internal/pkg/upload"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles admin dashboard and management endpoints
type AdminHandler struct {
	adminService     *services.AdminService
	inventoryService *services.InventoryService
	cfg              *config.Config
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	adminService *services.AdminService,
	inventoryService *services.InventoryService,
	cfg *config.Config,
) *AdminHandler {
	return &AdminHandler{
		adminService:     adminService,
		inventoryService: inventoryService,
		cfg:              cfg,
	}
}

// AddBookRequest represents book creation request body
type AddBookRequest struct {
	Title     string `json:"title" form:"title"`
	Author    string `json:"author" form:"author"`
	ISBN      string `json:"isbn" form:"isbn"`
	Synopsis  string `json:"synopsis" form:"synopsis"`
	PageCount int    `json:"page_count" form:"page_count"`
	MoodTags  string `json:"mood_tags" form:"mood_tags"`
}

// Dashboard handles the admin dashboard data
// @Summary Admin dashboard
// @Description Aggregate counts, active loans, per-book stock, and member list
// @Tags Admin
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin [get]
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	data, err := h.adminService.Dashboard(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", data)
}

// AddBook handles creating a book with its first copy
// @Summary Add book
// @Description Create a catalog entry and its first physical copy, with optional cover upload
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param author formData string true "Author"
// @Param cover formData file false "Cover image"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/add-book [post]
func (h *AdminHandler) AddBook(c *fiber.Ctx) error {
	var req AddBookRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.CreateBookInput{
		Title:     req.Title,
		Author:    req.Author,
		ISBN:      req.ISBN,
		Synopsis:  req.Synopsis,
		PageCount: req.PageCount,
		MoodTags:  req.MoodTags,
	}

	// Cover upload is optional; the book is created without one if absent
	if file, err := c.FormFile("cover"); err == nil && file != nil {
		path, err := upload.Store(c, file, h.cfg.UploadDir)
		if err != nil {
			return response.InternalServerError(c, "Failed to store cover image")
		}
		input.CoverImage = path
	}

	book, err := h.adminService.CreateBook(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Title and author are required")
		default:
			return response.InternalServerError(c, "Failed to create book")
		}
	}

	return response.Created(c, "Book created successfully", book)
}

// AddCopy handles adding one physical copy to a book
// @Summary Add copy
// @Description Add one available copy to an existing book
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/book/{id}/add-copy [post]
func (h *AdminHandler) AddCopy(c *fiber.Ctx) error {
	bookID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	copy, err := h.inventoryService.AddCopy(c.Context(), uint(bookID))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		default:
			return response.InternalServerError(c, "Failed to add copy")
		}
	}

	return response.Created(c, "Copy added successfully", copy)
}

// RemoveCopy handles removing one available copy of a book
// @Summary Remove copy
// @Description Remove one available copy; copies out on loan are never removed
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Router /admin/book/{id}/remove-copy [post]
func (h *AdminHandler) RemoveCopy(c *fiber.Ctx) error {
	bookID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	if err := h.inventoryService.RemoveCopy(c.Context(), uint(bookID)); err != nil {
		return response.InternalServerError(c, "Failed to remove copy")
	}

	return response.Success(c, "Copy removed successfully", nil)
}

// DeleteBook handles deleting a book and everything attached to it
// @Summary Delete book
// @Description Delete a book with its copies, loans, reviews, and journeys
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/book/{id}/delete [post]
func (h *AdminHandler) DeleteBook(c *fiber.Ctx) error {
	bookID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	if err := h.inventoryService.DeleteBook(c.Context(), uint(bookID)); err != nil {
		switch {
		case errors.Is(err, domain.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		default:
			return response.InternalServerError(c, "Failed to delete book")
		}
	}

	return response.Success(c, "Book deleted successfully", nil)
}

// DeleteUser handles deleting a member account and their records
// @Summary Delete user
// @Description Delete a member with their loans, reviews, journeys, and sessions
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/user/{id}/delete [post]
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	// Admins cannot delete themselves from the dashboard
	if actorID, ok := c.Locals("userID").(uint); ok && actorID == uint(userID) {
		return response.BadRequest(c, "You cannot delete your own account")
	}

	if err := h.inventoryService.DeleteUser(c.Context(), uint(userID)); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to delete user")
		}
	}

	return response.Success(c, "User deleted successfully", nil)
}
