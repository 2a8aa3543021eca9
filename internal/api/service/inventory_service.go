package service

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopstack-backend/internal/domain/catalog"
	"github.com/shopstack-backend/internal/domain/inventory"
	"github.com/shopstack-backend/internal/saga"
)

// InventoryServiceImpl implements the InventoryService interface
type InventoryServiceImpl struct {
	itemRepo    inventory.Repository
	productRepo catalog.ProductRepository
	accounting  AccountingService
	logger      *slog.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(logger *slog.Logger, itemRepo inventory.Repository, productRepo catalog.ProductRepository, accountingSvc AccountingService) InventoryService {
	return &InventoryServiceImpl{
		itemRepo:    itemRepo,
		productRepo: productRepo,
		accounting:  accountingSvc,
		logger:      logger,
	}
}

// CreateItem stores a new stock record
func (s *InventoryServiceImpl) CreateItem(ctx context.Context, item *inventory.Item) (*inventory.Item, error) {
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem applies an edit to a stock record
func (s *InventoryServiceImpl) UpdateItem(ctx context.Context, item *inventory.Item) (*inventory.Item, error) {
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes a stock record
func (s *InventoryServiceImpl) DeleteItem(ctx context.Context, id primitive.ObjectID) error {
	return s.itemRepo.Delete(ctx, id)
}

// ListItems returns all stock records, newest first
func (s *InventoryServiceImpl) ListItems(ctx context.Context) ([]*inventory.Item, error) {
	return s.itemRepo.List(ctx)
}

// RecordCustomSale processes an over-the-counter sale: validates the batch
// and the linked product, records the sales ledger transaction through the
// validated accounting path, and decrements both quantities. Runs as a saga
// since the writes span collections.
func (s *InventoryServiceImpl) RecordCustomSale(ctx context.Context, params CustomSaleParams) error {
	if params.Quantity <= 0 {
		return inventory.ErrInvalidSaleQuantity
	}

	item, err := s.itemRepo.GetByID(ctx, params.ItemID)
	if err != nil {
		return err
	}
	if item.CurrentQty < params.Quantity {
		return inventory.ErrInsufficientStock
	}

	if _, err := s.productRepo.GetByID(ctx, params.ProductID); err != nil {
		return err
	}

	rate := params.SaleRate
	if rate <= 0 {
		rate = item.SaleRate
	}
	total := rate * float64(params.Quantity)

	var saleRecorded bool

	steps := []saga.Step{
		{
			Name: "record_sale",
			Run: func(ctx context.Context) error {
				remarks := params.Remarks
				if remarks == "" {
					remarks = fmt.Sprintf("Custom sale of %d x %s", params.Quantity, item.ProductName)
				}
				_, err := s.accounting.RecordSale(ctx, nil, total, remarks)
				if err == nil {
					saleRecorded = true
				}
				return err
			},
			// Sales without an order id cannot be located for reversal, so this
			// step runs first and later failures roll back the stock writes
			// instead.
		},
		{
			Name: "decrement_inventory",
			Run: func(ctx context.Context) error {
				return s.itemRepo.AdjustQuantity(ctx, params.ItemID, -params.Quantity)
			},
			Compensate: func(ctx context.Context) error {
				return s.itemRepo.AdjustQuantity(ctx, params.ItemID, params.Quantity)
			},
		},
		{
			Name: "decrement_product",
			Run: func(ctx context.Context) error {
				return s.productRepo.AdjustQuantity(ctx, params.ProductID, -params.Quantity)
			},
			Compensate: func(ctx context.Context) error {
				return s.productRepo.AdjustQuantity(ctx, params.ProductID, params.Quantity)
			},
		},
	}

	if err := saga.New(s.logger, "custom_sale", steps...).Execute(ctx); err != nil {
		if saleRecorded {
			s.logger.Error("Custom sale ledger entry could not be reversed after stock failure",
				"item_id", params.ItemID.Hex(),
				"amount", total)
		}
		return err
	}

	s.logger.Info("Custom sale recorded",
		"item_id", params.ItemID.Hex(),
		"product_id", params.ProductID.Hex(),
		"quantity", params.Quantity,
		"total", total)

	return nil
}
