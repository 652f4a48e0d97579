package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carebook_backend/internal/dto"
	"carebook_backend/internal/middleware"
	subscriptionservice "carebook_backend/internal/services/subscription"
)

type MembershipHandler struct {
	*BaseHandler
	membershipService subscriptionservice.MembershipService
}

func NewMembershipHandler(base *BaseHandler, membershipService subscriptionservice.MembershipService) *MembershipHandler {
	return &MembershipHandler{
		BaseHandler:       base,
		membershipService: membershipService,
	}
}

func (h *MembershipHandler) RegisterRoutes(r *gin.RouterGroup) {
	memberships := r.Group("/memberships")
	memberships.Use(middleware.AuthMiddleware())
	{
		memberships.GET("/my", h.GetMyMembership)
		memberships.POST("/subscribe", h.Subscribe)
		memberships.POST("/verify", h.VerifyPurchase)
		memberships.GET("/upgrade-options", h.GetUpgradeOptions)
		memberships.POST("/upgrade", h.Upgrade)
		memberships.POST("/upgrade/verify", h.VerifyUpgrade)
		memberships.POST("/payment-failure", h.ReportPaymentFailure)
	}
}

// GetMyMembership godoc
// @Summary  Get the caller's active membership
// @Tags     memberships
// @Produce  json
// @Success  200 {object} models.Subscription
// @Router   /memberships/my [get]
func (h *MembershipHandler) GetMyMembership(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	sub, err := h.membershipService.GetCurrent(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// Subscribe godoc
// @Summary  Purchase a membership plan
// @Tags     memberships
// @Accept   json
// @Produce  json
// @Param    request body dto.SubscribeRequest true "Plan and billing cycle"
// @Success  200 {object} dto.CheckoutResult
// @Router   /memberships/subscribe [post]
func (h *MembershipHandler) Subscribe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubscribeRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	result, err := h.membershipService.Subscribe(c.Request.Context(), userID, middleware.GetUserEmail(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *MembershipHandler) VerifyPurchase(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.VerifyPaymentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	sub, err := h.membershipService.ConfirmPurchase(c.Request.Context(), userID, middleware.GetUserEmail(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Membership activated",
		"membership": sub,
	})
}

// GetUpgradeOptions godoc
// @Summary  List upgrade targets with pro-rated cost
// @Tags     memberships
// @Produce  json
// @Success  200 {object} map[string]interface{}
// @Router   /memberships/upgrade-options [get]
func (h *MembershipHandler) GetUpgradeOptions(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	options, err := h.membershipService.UpgradeOptions(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"options": options,
		"total":   len(options),
	})
}

func (h *MembershipHandler) Upgrade(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpgradeRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	result, err := h.membershipService.Upgrade(c.Request.Context(), userID, middleware.GetUserEmail(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *MembershipHandler) VerifyUpgrade(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.VerifyPaymentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	sub, err := h.membershipService.ConfirmUpgrade(c.Request.Context(), userID, middleware.GetUserEmail(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Membership upgraded",
		"membership": sub,
	})
}

// ReportPaymentFailure records a dismissed or failed checkout; it never
// changes membership state.
func (h *MembershipHandler) ReportPaymentFailure(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.PaymentFailureRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.membershipService.ReportPaymentFailure(c.Request.Context(), userID, req.RazorpayOrderID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment was not completed"})
}
