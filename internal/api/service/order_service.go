package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopstack-backend/internal/domain/accounting"
	"github.com/shopstack-backend/internal/domain/catalog"
	"github.com/shopstack-backend/internal/domain/order"
	"github.com/shopstack-backend/internal/domain/shared"
	"github.com/shopstack-backend/internal/domain/user"
	"github.com/shopstack-backend/internal/platform/messaging/producers"
	"github.com/shopstack-backend/internal/platform/payments"
	"github.com/shopstack-backend/internal/saga"
)

// OrderServiceImpl implements the OrderService interface
type OrderServiceImpl struct {
	orderRepo   order.Repository
	productRepo catalog.ProductRepository
	userRepo    user.Repository
	accounting  AccountingService
	gateway     payments.Gateway
	producer    producers.MessagePublisher
	logger      *slog.Logger
}

// NewOrderService creates a new order service
func NewOrderService(logger *slog.Logger, orderRepo order.Repository, productRepo catalog.ProductRepository, userRepo user.Repository, accountingSvc AccountingService, gateway payments.Gateway, producer producers.MessagePublisher) OrderService {
	return &OrderServiceImpl{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		accounting:  accountingSvc,
		gateway:     gateway,
		producer:    producer,
		logger:      logger,
	}
}

// Checkout places an order as a saga. The stores involved cannot share a
// transaction, so each completed step carries a compensating undo that runs
// when a later step fails.
func (s *OrderServiceImpl) Checkout(ctx context.Context, params CheckoutParams) (*order.Order, error) {
	payment := order.Payment{Method: params.PaymentMethod}

	o, err := order.NewOrder(params.Items, payment, params.BuyerID)
	if err != nil {
		return nil, err
	}
	total := o.Total()

	var decremented []order.Item
	var charge *payments.ChargeResult

	steps := []saga.Step{
		{
			Name: "settle_payment",
			Run: func(ctx context.Context) error {
				if params.PaymentMethod != "card" {
					return nil // COD settles on delivery
				}
				var err error
				charge, err = s.gateway.Charge(ctx, params.PaymentNonce, total)
				if err != nil {
					return err
				}
				o.Payment.Reference = charge.Reference
				o.Payment.Success = charge.Success
				return nil
			},
			Compensate: func(ctx context.Context) error {
				if charge == nil {
					return nil
				}
				return s.gateway.Refund(ctx, charge.Reference)
			},
		},
		{
			Name: "create_order",
			Run: func(ctx context.Context) error {
				return s.orderRepo.Create(ctx, o)
			},
			Compensate: func(ctx context.Context) error {
				return s.orderRepo.Delete(ctx, o.ID)
			},
		},
		{
			Name: "decrement_stock",
			Run: func(ctx context.Context) error {
				for _, item := range o.Items {
					if err := s.productRepo.AdjustQuantity(ctx, item.ProductID, -item.Quantity); err != nil {
						// A mid-loop failure is invisible to the saga's
						// compensation of completed steps, so the partial
						// decrements roll back here.
						s.restock(ctx, decremented)
						decremented = nil
						return err
					}
					decremented = append(decremented, item)
				}
				return nil
			},
			Compensate: func(ctx context.Context) error {
				s.restock(ctx, decremented)
				return nil
			},
		},
		{
			Name: "record_sale",
			Run: func(ctx context.Context) error {
				_, err := s.accounting.RecordSale(ctx, &o.ID, total,
					fmt.Sprintf("Sale for order %s", o.ID.Hex()))
				return err
			},
			Compensate: func(ctx context.Context) error {
				return s.accounting.ReverseSale(ctx, o.ID)
			},
		},
		{
			Name: "enqueue_confirmation",
			Run: func(ctx context.Context) error {
				return s.publishOrderMail(ctx, shared.MailKindOrderConfirmation, o, params.BuyerName, params.BuyerEmail, params.CorrelationID)
			},
		},
	}

	if err := saga.New(s.logger, "checkout", steps...).Execute(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("Order placed",
		"order_id", o.ID.Hex(),
		"buyer_id", o.BuyerID.String(),
		"total", total,
		"payment_method", params.PaymentMethod)

	return o, nil
}

// restock re-adds the given items' quantities, logging failures. Used when a
// checkout is rolled back after stock was decremented.
func (s *OrderServiceImpl) restock(ctx context.Context, items []order.Item) {
	for _, item := range items {
		if err := s.productRepo.AdjustQuantity(ctx, item.ProductID, item.Quantity); err != nil {
			s.logger.Error("Failed to restock product during checkout rollback",
				"product_id", item.ProductID.Hex(),
				"quantity", item.Quantity,
				"error", err)
		}
	}
}

// GetOrder retrieves an order by id
func (s *OrderServiceImpl) GetOrder(ctx context.Context, id primitive.ObjectID) (*order.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// GetBuyerOrders returns the buyer's order history
func (s *OrderServiceImpl) GetBuyerOrders(ctx context.Context, buyerID uuid.UUID) ([]*order.Order, error) {
	return s.orderRepo.GetByBuyer(ctx, buyerID)
}

// ListOrders returns all orders, newest first
func (s *OrderServiceImpl) ListOrders(ctx context.Context) ([]*order.Order, error) {
	return s.orderRepo.List(ctx)
}

// UpdateStatus moves the order through fulfilment. Delivered enqueues a
// status email; Cancelled removes the linked ledger transaction. The ledger
// delete is a single independent write, not transactional with the status
// update.
func (s *OrderServiceImpl) UpdateStatus(ctx context.Context, id primitive.ObjectID, status order.Status, correlationID string) (*order.Order, error) {
	if !status.Valid() {
		return nil, order.ErrInvalidStatus
	}

	o, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	switch status {
	case order.StatusCancelled:
		if err := s.accounting.ReverseSale(ctx, o.ID); err != nil {
			var notFound accounting.ErrTransactionNotFound
			if !errors.As(err, &notFound) {
				s.logger.Error("Failed to reverse sale for cancelled order",
					"order_id", o.ID.Hex(),
					"error", err)
			}
		}
	case order.StatusDelivered:
		if err := s.publishStatusMail(ctx, o, correlationID); err != nil {
			s.logger.Error("Failed to enqueue status email",
				"order_id", o.ID.Hex(),
				"error", err)
		}
	}

	return o, nil
}

func (s *OrderServiceImpl) publishOrderMail(ctx context.Context, kind shared.MailKind, o *order.Order, name, email, correlationID string) error {
	event, err := shared.NewMailEvent(kind, []string{email}, map[string]string{
		"name":     name,
		"order_id": o.ID.Hex(),
		"total":    fmt.Sprintf("%.2f", o.Total()),
		"status":   string(o.Status),
	}, correlationID)
	if err != nil {
		return err
	}
	return s.producer.Publish(ctx, event.EventID.String(), event)
}

func (s *OrderServiceImpl) publishStatusMail(ctx context.Context, o *order.Order, correlationID string) error {
	buyer, err := s.userRepo.GetByID(ctx, o.BuyerID)
	if err != nil {
		return err
	}

	event, err := shared.NewMailEvent(shared.MailKindOrderStatus, []string{buyer.Email}, map[string]string{
		"name":     buyer.Name,
		"order_id": o.ID.Hex(),
		"status":   string(o.Status),
	}, correlationID)
	if err != nil {
		return err
	}
	return s.producer.Publish(ctx, event.EventID.String(), event)
}
