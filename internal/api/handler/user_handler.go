package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/shopstack-backend/internal/api/middleware"
	"github.com/shopstack-backend/internal/api/service"
	"github.com/shopstack-backend/internal/domain/catalog"
	"github.com/shopstack-backend/internal/domain/user"
	"github.com/shopstack-backend/internal/platform/otp"
)

// UserHandler handles HTTP requests for identity, auth, and wishlists
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(logger *slog.Logger, userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// RequestRegistrationOTP emails a signup code to a new address
func (h *UserHandler) RequestRegistrationOTP(c *gin.Context) {
	var req RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	err := h.userService.RequestRegistrationOTP(c.Request.Context(), req.Email, middleware.GetCorrelationID(c))
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			RespondConflict(c, err.Error())
			return
		}
		h.logger.Error("Failed to issue registration OTP", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, gin.H{"status": "code sent"})
}

// Register completes a signup with an emailed code
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	u, token, err := h.userService.Register(c.Request.Context(), service.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		OTPCode:  req.OTPCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, otp.ErrCodeExpired), errors.Is(err, otp.ErrCodeMismatch):
			RespondUnprocessable(c, "INVALID_OTP", err.Error())
		case errors.Is(err, service.ErrEmailTaken):
			RespondConflict(c, err.Error())
		default:
			h.logger.Error("Failed to register user", "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, TokenResponse{Token: token, User: u})
}

// Login exchanges credentials for a bearer token
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	u, token, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			RespondUnauthorized(c, err.Error())
			return
		}
		h.logger.Error("Failed to log user in", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, TokenResponse{Token: token, User: u})
}

// GetProfile returns the caller's account
func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.userService.GetProfile(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound{}) {
			RespondUnauthorized(c, "Account no longer exists")
			return
		}
		h.logger.Error("Failed to get profile", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, u)
}

// UpdateProfile edits the caller's account
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	u, err := h.userService.GetProfile(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound{}) {
			RespondUnauthorized(c, "Account no longer exists")
			return
		}
		h.logger.Error("Failed to load profile for update", "error", err)
		RespondInternalError(c)
		return
	}

	u.Name = req.Name
	u.Phone = req.Phone
	u.Address = req.Address
	u.District = req.District
	u.Country = req.Country

	updated, err := h.userService.UpdateProfile(c.Request.Context(), u)
	if err != nil {
		h.logger.Error("Failed to update profile", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, updated)
}

// ListUsers returns every account for the admin panel
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list users", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, users)
}

// RequestPasswordResetOTP emails a reset code to a registered address.
// Unknown addresses get the same response so the endpoint does not
// reveal which emails have accounts.
func (h *UserHandler) RequestPasswordResetOTP(c *gin.Context) {
	var req RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	err := h.userService.RequestPasswordResetOTP(c.Request.Context(), req.Email, middleware.GetCorrelationID(c))
	if err != nil {
		h.logger.Error("Failed to issue password reset OTP", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, gin.H{"status": "code sent"})
}

// ResetPassword completes a password reset with an emailed code
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	err := h.userService.ResetPassword(c.Request.Context(), req.Email, req.OTPCode, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, otp.ErrCodeExpired), errors.Is(err, otp.ErrCodeMismatch):
			RespondUnprocessable(c, "INVALID_OTP", err.Error())
		case errors.Is(err, user.ErrUserNotFound{}):
			RespondNotFound(c, "Account not found")
		default:
			h.logger.Error("Failed to reset password", "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, gin.H{"status": "password reset"})
}

// ChangePassword replaces the caller's password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	err := h.userService.ChangePassword(c.Request.Context(), middleware.GetUserID(c), req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			RespondUnauthorized(c, "Old password is incorrect")
		case errors.Is(err, user.ErrUserNotFound{}):
			RespondUnauthorized(c, "Account no longer exists")
		default:
			h.logger.Error("Failed to change password", "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, gin.H{"status": "password changed"})
}

// AddWishlistItem saves a product to the caller's wishlist
func (h *UserHandler) AddWishlistItem(c *gin.Context) {
	var req WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	err := h.userService.AddWishlistItem(c.Request.Context(), middleware.GetUserID(c), req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrProductNotFound{}):
			RespondNotFound(c, "Product not found")
		case errors.Is(err, user.ErrDuplicateWishlistItem{}):
			RespondConflict(c, "Product is already wishlisted")
		default:
			h.logger.Error("Failed to add wishlist item", "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, gin.H{"status": "added"})
}

// RemoveWishlistItem drops a product from the caller's wishlist
func (h *UserHandler) RemoveWishlistItem(c *gin.Context) {
	err := h.userService.RemoveWishlistItem(c.Request.Context(), middleware.GetUserID(c), c.Param("productId"))
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound{}) {
			RespondNotFound(c, "Product not found")
			return
		}
		h.logger.Error("Failed to remove wishlist item", "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// GetWishlist returns the caller's wishlisted products
func (h *UserHandler) GetWishlist(c *gin.Context) {
	products, err := h.userService.GetWishlist(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.logger.Error("Failed to get wishlist", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, products)
}

// SendContactMessage forwards a contact-form submission to the shop inbox
func (h *UserHandler) SendContactMessage(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	err := h.userService.SendContactMessage(c.Request.Context(),
		req.Name, req.Email, req.Subject, req.Message, middleware.GetCorrelationID(c))
	if err != nil {
		h.logger.Error("Failed to send contact message", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, gin.H{"status": "sent"})
}
