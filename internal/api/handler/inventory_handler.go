package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopstack-backend/internal/api/service"
	"github.com/shopstack-backend/internal/domain/catalog"
	"github.com/shopstack-backend/internal/domain/inventory"
)

// InventoryHandler handles HTTP requests for stock records
type InventoryHandler struct {
	inventoryService service.InventoryService
	logger           *slog.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(logger *slog.Logger, inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		logger:           logger,
	}
}

// CreateItem records a stock batch
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		RespondBadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	currentQty := req.CurrentQty
	if currentQty == 0 {
		currentQty = req.InitialQty
	}

	item, err := inventory.NewItem(date, req.ProductName, req.Supplier, req.Barcode,
		req.InitialQty, currentQty, req.PurchaseRate, req.CPP, req.CFP, req.SaleRate, req.ProfitPerProduct)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	created, err := h.inventoryService.CreateItem(c.Request.Context(), item)
	if err != nil {
		h.logger.Error("Failed to create inventory item", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, created)
}

// UpdateItem applies an edit to a stock record
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid item id")
		return
	}

	var req CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		RespondBadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	item := &inventory.Item{
		ID:               id,
		Date:             date,
		ProductName:      req.ProductName,
		Supplier:         req.Supplier,
		Barcode:          req.Barcode,
		InitialQty:       req.InitialQty,
		CurrentQty:       req.CurrentQty,
		PurchaseRate:     req.PurchaseRate,
		CPP:              req.CPP,
		CFP:              req.CFP,
		SaleRate:         req.SaleRate,
		ProfitPerProduct: req.ProfitPerProduct,
	}

	updated, err := h.inventoryService.UpdateItem(c.Request.Context(), item)
	if err != nil {
		var notFound inventory.ErrItemNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Inventory item not found")
			return
		}
		h.logger.Error("Failed to update inventory item", "id", id.Hex(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, updated)
}

// DeleteItem removes a stock record
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid item id")
		return
	}

	if err := h.inventoryService.DeleteItem(c.Request.Context(), id); err != nil {
		var notFound inventory.ErrItemNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Inventory item not found")
			return
		}
		h.logger.Error("Failed to delete inventory item", "id", id.Hex(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// ListItems returns all stock records, newest first
func (h *InventoryHandler) ListItems(c *gin.Context) {
	items, err := h.inventoryService.ListItems(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list inventory items", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, items)
}

// RecordCustomSale records an over-the-counter sale against a stock batch
func (h *InventoryHandler) RecordCustomSale(c *gin.Context) {
	var req CustomSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	itemID, err := primitive.ObjectIDFromHex(req.ItemID)
	if err != nil {
		RespondBadRequest(c, "Invalid item id")
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		RespondBadRequest(c, "Invalid product id")
		return
	}

	err = h.inventoryService.RecordCustomSale(c.Request.Context(), service.CustomSaleParams{
		ItemID:    itemID,
		ProductID: productID,
		Quantity:  req.Quantity,
		SaleRate:  req.SaleRate,
		Remarks:   req.Remarks,
	})
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrInvalidSaleQuantity):
			RespondBadRequest(c, err.Error())
		case errors.Is(err, inventory.ErrInsufficientStock):
			RespondUnprocessable(c, "INSUFFICIENT_STOCK", err.Error())
		case errors.Is(err, inventory.ErrItemNotFound{}):
			RespondNotFound(c, "Inventory item not found")
		case errors.Is(err, catalog.ErrProductNotFound{}):
			RespondNotFound(c, "Product not found")
		default:
			h.logger.Error("Failed to record custom sale", "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, gin.H{"status": "recorded"})
}
