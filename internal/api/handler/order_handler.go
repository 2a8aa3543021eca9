package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopstack-backend/internal/api/middleware"
	"github.com/shopstack-backend/internal/api/service"
	"github.com/shopstack-backend/internal/domain/order"
	"github.com/shopstack-backend/internal/domain/user"
	"github.com/shopstack-backend/internal/platform/payments"
)

// OrderHandler handles HTTP requests for orders and checkout
type OrderHandler struct {
	orderService service.OrderService
	userService  service.UserService
	logger       *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(logger *slog.Logger, orderService service.OrderService, userService service.UserService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		userService:  userService,
		logger:       logger,
	}
}

// Checkout places an order for the authenticated buyer
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if req.PaymentMethod == "card" && req.PaymentNonce == "" {
		RespondBadRequest(c, "Card payments require a payment nonce")
		return
	}

	items := make([]order.Item, 0, len(req.Items))
	for _, it := range req.Items {
		productID, err := primitive.ObjectIDFromHex(it.ProductID)
		if err != nil {
			RespondBadRequest(c, "Invalid product id: "+it.ProductID)
			return
		}
		items = append(items, order.Item{
			ProductID: productID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	buyerID := middleware.GetUserID(c)
	buyer, err := h.userService.GetProfile(c.Request.Context(), buyerID)
	if err != nil {
		var notFound user.ErrUserNotFound
		if errors.As(err, &notFound) {
			RespondUnauthorized(c, "")
			return
		}
		h.logger.Error("Failed to resolve buyer", "buyer_id", buyerID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	o, err := h.orderService.Checkout(c.Request.Context(), service.CheckoutParams{
		BuyerID:       buyerID,
		BuyerName:     buyer.Name,
		BuyerEmail:    buyer.Email,
		Items:         items,
		PaymentMethod: req.PaymentMethod,
		PaymentNonce:  req.PaymentNonce,
		CorrelationID: middleware.GetCorrelationID(c),
	})
	if err != nil {
		switch {
		case errors.Is(err, order.ErrEmptyCart):
			RespondBadRequest(c, err.Error())
		case errors.Is(err, payments.ErrChargeDeclined):
			RespondUnprocessable(c, "PAYMENT_DECLINED", "Payment was declined")
		default:
			h.logger.Error("Checkout failed", "buyer_id", buyerID.String(), "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, o)
}

// GetMyOrders returns the authenticated buyer's order history
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	buyerID := middleware.GetUserID(c)

	orders, err := h.orderService.GetBuyerOrders(c.Request.Context(), buyerID)
	if err != nil {
		h.logger.Error("Failed to get buyer orders", "buyer_id", buyerID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, orders)
}

// GetOrder returns one order. Buyers may only read their own orders; admins
// may read any.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid order id")
		return
	}

	o, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		var notFound order.ErrOrderNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Order not found")
			return
		}
		h.logger.Error("Failed to get order", "id", id.Hex(), "error", err)
		RespondInternalError(c)
		return
	}

	callerID := middleware.GetUserID(c)
	role, _ := c.Get(middleware.UserRoleKey)
	if o.BuyerID != callerID && role != user.RoleAdmin {
		RespondForbidden(c, "")
		return
	}

	RespondOK(c, o)
}

// ListOrders returns every order, newest first
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list orders", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, orders)
}

// UpdateStatus moves an order through fulfilment
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid order id")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	o, err := h.orderService.UpdateStatus(c.Request.Context(), id,
		order.Status(req.Status), middleware.GetCorrelationID(c))
	if err != nil {
		switch {
		case errors.Is(err, order.ErrInvalidStatus):
			RespondBadRequest(c, err.Error())
		case errors.Is(err, order.ErrOrderNotFound{}):
			RespondNotFound(c, "Order not found")
		default:
			h.logger.Error("Failed to update order status", "id", id.Hex(), "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, o)
}
