package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carebook_backend/internal/dto"
	"carebook_backend/internal/middleware"
	subscriptionservice "carebook_backend/internal/services/subscription"
)

// BookingHandler exposes the membership discount quote used by every
// vertical's checkout. Booking persistence lives in the vertical
// services, not here.
type BookingHandler struct {
	*BaseHandler
	membershipService subscriptionservice.MembershipService
}

func NewBookingHandler(base *BaseHandler, membershipService subscriptionservice.MembershipService) *BookingHandler {
	return &BookingHandler{
		BaseHandler:       base,
		membershipService: membershipService,
	}
}

func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.AuthMiddleware())
	{
		bookings.POST("/quote", h.QuoteBooking)
	}
}

// QuoteBooking godoc
// @Summary  Quote a booking amount with the member discount applied
// @Tags     bookings
// @Accept   json
// @Produce  json
// @Param    request body dto.BookingQuoteRequest true "Booking amount"
// @Success  200 {object} pricing.DiscountQuote
// @Router   /bookings/quote [post]
func (h *BookingHandler) QuoteBooking(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.BookingQuoteRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	quote, err := h.membershipService.QuoteBooking(c.Request.Context(), userID, req.Amount)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}
