package handlers

import (
	"errors"
	"strconv"

	"shelfwise/internal/core/domain"
	"shelfwise/internal/core/services"
	"shelfwise/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ProfileHandler handles member profile endpoints
type ProfileHandler struct {
	profileService   *services.ProfileService
	inventoryService *services.InventoryService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(
	profileService *services.ProfileService,
	inventoryService *services.InventoryService,
) *ProfileHandler {
	return &ProfileHandler{
		profileService:   profileService,
		inventoryService: inventoryService,
	}
}

// Profile handles the member profile page data
// @Summary Member profile
// @Description Profile with loan history, reading journeys, and the member card QR
// @Tags Profile
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /profile [get]
func (h *ProfileHandler) Profile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	data, err := h.profileService.Profile(c.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to get profile")
		}
	}

	return response.Success(c, "Profile retrieved successfully", data)
}

// Return handles returning a borrowed copy
// @Summary Return loan
// @Description Close an active loan, release the copy, and award reading XP
// @Tags Profile
// @Accept json
// @Produce json
// @Param loanId path int true "Loan ID"
// @Success 303 {object} nil
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /return/{loanId} [post]
func (h *ProfileHandler) Return(c *fiber.Ctx) error {
	loanID, err := strconv.ParseUint(c.Params("loanId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	role, _ := c.Locals("role").(string)

	_, err = h.inventoryService.Return(c.Context(), uint(loanID), userID, role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, domain.ErrNotLoanOwner):
			return response.Forbidden(c, "This loan belongs to another member")
		case errors.Is(err, domain.ErrLoanNotActive):
			return response.Conflict(c, "Loan is already returned")
		default:
			return response.InternalServerError(c, "Failed to return loan")
		}
	}

	return response.Redirect(c, "/profile")
}
