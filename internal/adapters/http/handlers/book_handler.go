package handlers

import (
	"errors"
	"strconv"

	"shelfwise/internal/core/domain"
	"shelfwise/internal/core/services"
	"shelfwise/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BookHandler handles member actions on a single book
type BookHandler struct {
	catalogService   *services.CatalogService
	inventoryService *services.InventoryService
	profileService   *services.ProfileService
}

// NewBookHandler creates a new book handler
func NewBookHandler(
	catalogService *services.CatalogService,
	inventoryService *services.InventoryService,
	profileService *services.ProfileService,
) *BookHandler {
	return &BookHandler{
		catalogService:   catalogService,
		inventoryService: inventoryService,
		profileService:   profileService,
	}
}

// ReviewRequest represents review request body
type ReviewRequest struct {
	Rating  int    `json:"rating" form:"rating"`
	Comment string `json:"comment" form:"comment"`
}

// JourneyRequest represents reading-journey request body
type JourneyRequest struct {
	Status      string `json:"status" form:"status"`
	CurrentPage int    `json:"current_page" form:"current_page"`
}

// AddReview handles posting a review on a book
// @Summary Add review
// @Description Post a rating and comment on a book
// @Tags Books
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Param body body ReviewRequest true "Review data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /book/{id}/review [post]
func (h *BookHandler) AddReview(c *fiber.Ctx) error {
	bookID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.AddReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	}

	review, err := h.catalogService.AddReview(c.Context(), uint(bookID), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRating):
			return response.BadRequest(c, "Rating must be between 1 and 5")
		case errors.Is(err, domain.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		default:
			return response.InternalServerError(c, "Failed to add review")
		}
	}

	return response.Created(c, "Review added successfully", review)
}

// Borrow handles checking out one available copy of a book
// @Summary Borrow book
// @Description Claim one available copy and open a loan due in 7 days
// @Tags Books
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Success 303 {object} nil
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /book/{id}/borrow [post]
func (h *BookHandler) Borrow(c *fiber.Ctx) error {
	bookID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	_, err = h.inventoryService.Borrow(c.Context(), uint(bookID), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOutOfStock):
			return response.Conflict(c, "No copies available right now")
		case errors.Is(err, domain.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		default:
			return response.InternalServerError(c, "Failed to borrow book")
		}
	}

	return response.Redirect(c, "/profile")
}

// UpsertJourney handles saving reading progress on a book
// @Summary Save reading journey
// @Description Create or update the member's reading progress for a book
// @Tags Books
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Param body body JourneyRequest true "Journey data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /book/{id}/journey [post]
func (h *BookHandler) UpsertJourney(c *fiber.Ctx) error {
	bookID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req JourneyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.JourneyInput{
		Status:      req.Status,
		CurrentPage: req.CurrentPage,
	}

	journey, err := h.profileService.UpsertJourney(c.Context(), uint(bookID), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid journey data")
		case errors.Is(err, domain.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		default:
			return response.InternalServerError(c, "Failed to save journey")
		}
	}

	return response.Success(c, "Journey saved successfully", journey)
}
