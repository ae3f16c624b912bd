package handlers

import (
	"errors"
	"strconv"
	"strings"

	"shelfwise/internal/core/domain"
	"shelfwise/internal/core/services"
	"shelfwise/internal/pkg/pagination"
	"shelfwise/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles public catalog endpoints
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListBooks handles the catalog listing with optional search
// @Summary List books
// @Description List catalog books, optionally filtered by title, author, or mood tags
// @Tags Catalog
// @Accept json
// @Produce json
// @Param search query string false "Search term"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /books [get]
func (h *CatalogHandler) ListBooks(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	search := strings.TrimSpace(c.Query("search"))

	books, total, err := h.catalogService.Search(c.Context(), search, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list books")
	}

	return response.Success(c, "Books retrieved successfully",
		pagination.NewResponse(books, params, total))
}

// BookDetail handles the book detail page data
// @Summary Book detail
// @Description Book with its reviews, average rating, and available stock
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /book/{id} [get]
func (h *CatalogHandler) BookDetail(c *fiber.Ctx) error {
	bookID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	detail, err := h.catalogService.Detail(c.Context(), uint(bookID))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		default:
			return response.InternalServerError(c, "Failed to get book detail")
		}
	}

	return response.Success(c, "Book retrieved successfully", detail)
}

// TV handles the lobby TV display data
// @Summary TV display data
// @Description Top readers leaderboard, newest arrivals, and total completed reads
// @Tags Catalog
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /tv [get]
func (h *CatalogHandler) TV(c *fiber.Ctx) error {
	data, err := h.catalogService.TV(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to get TV data")
	}

	return response.Success(c, "TV data retrieved successfully", data)
}
