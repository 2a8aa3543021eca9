package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopstack-backend/internal/domain/accounting"
	"github.com/shopstack-backend/internal/domain/catalog"
	"github.com/shopstack-backend/internal/domain/order"
	"github.com/shopstack-backend/internal/domain/user"
	"github.com/shopstack-backend/internal/platform/payments"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status order.Status) (*order.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, p *catalog.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) GetBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context) ([]*catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) GetPage(ctx context.Context, limit, offset int) ([]*catalog.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Search(ctx context.Context, keyword string) ([]*catalog.Product, error) {
	args := m.Called(ctx, keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Related(ctx context.Context, productID, categoryID primitive.ObjectID, limit int) ([]*catalog.Product, error) {
	args := m.Called(ctx, productID, categoryID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) GetByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]*catalog.Product, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Filter(ctx context.Context, categories []primitive.ObjectID, price *catalog.PriceRange) ([]*catalog.Product, error) {
	args := m.Called(ctx, categories, price)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) AdjustQuantity(ctx context.Context, id primitive.ObjectID, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*user.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*user.User), args.Error(1)
}

func (m *MockUserRepository) AddWishlistItem(ctx context.Context, userID uuid.UUID, productID string) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveWishlistItem(ctx context.Context, userID uuid.UUID, productID string) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockUserRepository) GetWishlist(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockAccountingService struct {
	mock.Mock
}

func (m *MockAccountingService) CreateAccount(ctx context.Context, name string, equation accounting.Equation, defaultSide accounting.Side) (*accounting.Account, error) {
	args := m.Called(ctx, name, equation, defaultSide)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Account), args.Error(1)
}

func (m *MockAccountingService) ListAccounts(ctx context.Context) ([]*accounting.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accounting.Account), args.Error(1)
}

func (m *MockAccountingService) RecordTransaction(ctx context.Context, debitIDs, creditIDs []primitive.ObjectID, amount float64, date time.Time, remarks string, orderID *primitive.ObjectID) (*accounting.Transaction, error) {
	args := m.Called(ctx, debitIDs, creditIDs, amount, date, remarks, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Transaction), args.Error(1)
}

func (m *MockAccountingService) GetTransactionsPage(ctx context.Context, page int) (*TransactionPage, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TransactionPage), args.Error(1)
}

func (m *MockAccountingService) GetAccountLedger(ctx context.Context, accountID primitive.ObjectID, startYear, startMonth, endYear, endMonth int) (*Ledger, error) {
	args := m.Called(ctx, accountID, startYear, startMonth, endYear, endMonth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Ledger), args.Error(1)
}

func (m *MockAccountingService) RecordSale(ctx context.Context, orderID *primitive.ObjectID, amount float64, remarks string) (*accounting.Transaction, error) {
	args := m.Called(ctx, orderID, amount, remarks)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Transaction), args.Error(1)
}

func (m *MockAccountingService) ReverseSale(ctx context.Context, orderID primitive.ObjectID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) Charge(ctx context.Context, nonce string, amount float64) (*payments.ChargeResult, error) {
	args := m.Called(ctx, nonce, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.ChargeResult), args.Error(1)
}

func (m *MockPaymentGateway) Refund(ctx context.Context, reference string) error {
	args := m.Called(ctx, reference)
	return args.Error(0)
}

type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) Publish(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

type orderServiceMocks struct {
	orders     *MockOrderRepository
	products   *MockProductRepository
	users      *MockUserRepository
	accounting *MockAccountingService
	gateway    *MockPaymentGateway
	producer   *MockMessagePublisher
}

func newTestOrderService() (OrderService, *orderServiceMocks) {
	m := &orderServiceMocks{
		orders:     new(MockOrderRepository),
		products:   new(MockProductRepository),
		users:      new(MockUserRepository),
		accounting: new(MockAccountingService),
		gateway:    new(MockPaymentGateway),
		producer:   new(MockMessagePublisher),
	}
	svc := NewOrderService(slog.Default(), m.orders, m.products, m.users, m.accounting, m.gateway, m.producer)
	return svc, m
}

func testCheckoutParams(items ...order.Item) CheckoutParams {
	if len(items) == 0 {
		items = []order.Item{{
			ProductID: primitive.NewObjectID(),
			Name:      "Desk Lamp",
			Price:     25.00,
			Quantity:  2,
		}}
	}
	return CheckoutParams{
		BuyerID:       uuid.New(),
		BuyerName:     "Test Buyer",
		BuyerEmail:    "buyer@example.com",
		Items:         items,
		PaymentMethod: "cod",
		CorrelationID: "test-correlation",
	}
}

func TestOrderServiceImpl_Checkout(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_COD", func(t *testing.T) {
		svc, m := newTestOrderService()
		params := testCheckoutParams()

		m.orders.On("Create", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
		m.products.On("AdjustQuantity", ctx, params.Items[0].ProductID, -2).Return(nil).Once()
		m.accounting.On("RecordSale", ctx, mock.AnythingOfType("*primitive.ObjectID"), 50.00, mock.AnythingOfType("string")).
			Return(&accounting.Transaction{}, nil).Once()
		m.producer.On("Publish", ctx, mock.AnythingOfType("string"), mock.Anything).Return(nil).Once()

		o, err := svc.Checkout(ctx, params)

		require.NoError(t, err)
		assert.Equal(t, order.StatusPendingConfirmation, o.Status)
		assert.Equal(t, params.BuyerID, o.BuyerID)
		assert.Equal(t, 50.00, o.Total())
		// COD never touches the gateway
		m.gateway.AssertNotCalled(t, "Charge")
		m.orders.AssertExpectations(t)
		m.accounting.AssertExpectations(t)
	})

	t.Run("Success_Card", func(t *testing.T) {
		svc, m := newTestOrderService()
		params := testCheckoutParams()
		params.PaymentMethod = "card"
		params.PaymentNonce = "nonce-abc"

		m.gateway.On("Charge", ctx, "nonce-abc", 50.00).
			Return(&payments.ChargeResult{Reference: "ch_1", Success: true}, nil).Once()
		m.orders.On("Create", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
		m.products.On("AdjustQuantity", ctx, params.Items[0].ProductID, -2).Return(nil).Once()
		m.accounting.On("RecordSale", ctx, mock.AnythingOfType("*primitive.ObjectID"), 50.00, mock.AnythingOfType("string")).
			Return(&accounting.Transaction{}, nil).Once()
		m.producer.On("Publish", ctx, mock.AnythingOfType("string"), mock.Anything).Return(nil).Once()

		o, err := svc.Checkout(ctx, params)

		require.NoError(t, err)
		assert.Equal(t, "ch_1", o.Payment.Reference)
		assert.True(t, o.Payment.Success)
		m.gateway.AssertExpectations(t)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		svc, m := newTestOrderService()
		params := testCheckoutParams()
		params.Items = nil

		o, err := svc.Checkout(ctx, params)

		assert.ErrorIs(t, err, order.ErrEmptyCart)
		assert.Nil(t, o)
		m.orders.AssertNotCalled(t, "Create")
	})

	t.Run("DeclinedCardAbortsBeforeAnyWrite", func(t *testing.T) {
		svc, m := newTestOrderService()
		params := testCheckoutParams()
		params.PaymentMethod = "card"
		params.PaymentNonce = "nonce-bad"

		m.gateway.On("Charge", ctx, "nonce-bad", 50.00).Return(nil, payments.ErrChargeDeclined).Once()

		o, err := svc.Checkout(ctx, params)

		assert.ErrorIs(t, err, payments.ErrChargeDeclined)
		assert.Nil(t, o)
		m.orders.AssertNotCalled(t, "Create")
		m.products.AssertNotCalled(t, "AdjustQuantity")
		m.accounting.AssertNotCalled(t, "RecordSale")
	})

	t.Run("StockFailureCompensatesEarlierSteps", func(t *testing.T) {
		svc, m := newTestOrderService()
		first := order.Item{ProductID: primitive.NewObjectID(), Name: "A", Price: 10.00, Quantity: 1}
		second := order.Item{ProductID: primitive.NewObjectID(), Name: "B", Price: 20.00, Quantity: 3}
		params := testCheckoutParams(first, second)
		params.PaymentMethod = "card"
		params.PaymentNonce = "nonce-abc"

		m.gateway.On("Charge", ctx, "nonce-abc", 70.00).
			Return(&payments.ChargeResult{Reference: "ch_2", Success: true}, nil).Once()
		m.orders.On("Create", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()

		// First item decrements, second fails mid-step
		m.products.On("AdjustQuantity", ctx, first.ProductID, -1).Return(nil).Once()
		stockErr := catalog.ErrProductNotFound{ProductID: second.ProductID}
		m.products.On("AdjustQuantity", ctx, second.ProductID, -3).Return(stockErr).Once()

		// Compensation: restock the decremented item, delete the order, refund
		m.products.On("AdjustQuantity", ctx, first.ProductID, 1).Return(nil).Once()
		m.orders.On("Delete", ctx, mock.AnythingOfType("primitive.ObjectID")).Return(nil).Once()
		m.gateway.On("Refund", ctx, "ch_2").Return(nil).Once()

		o, err := svc.Checkout(ctx, params)

		assert.ErrorIs(t, err, catalog.ErrProductNotFound{})
		assert.Nil(t, o)
		m.accounting.AssertNotCalled(t, "RecordSale")
		m.products.AssertExpectations(t)
		m.orders.AssertExpectations(t)
		m.gateway.AssertExpectations(t)
	})

	t.Run("LedgerFailureRestocksAndDeletesOrder", func(t *testing.T) {
		svc, m := newTestOrderService()
		params := testCheckoutParams()

		m.orders.On("Create", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
		m.products.On("AdjustQuantity", ctx, params.Items[0].ProductID, -2).Return(nil).Once()
		m.accounting.On("RecordSale", ctx, mock.AnythingOfType("*primitive.ObjectID"), 50.00, mock.AnythingOfType("string")).
			Return(nil, ErrSalesAccountsUnconfigured).Once()

		m.products.On("AdjustQuantity", ctx, params.Items[0].ProductID, 2).Return(nil).Once()
		m.orders.On("Delete", ctx, mock.AnythingOfType("primitive.ObjectID")).Return(nil).Once()

		o, err := svc.Checkout(ctx, params)

		assert.ErrorIs(t, err, ErrSalesAccountsUnconfigured)
		assert.Nil(t, o)
		m.producer.AssertNotCalled(t, "Publish")
		m.products.AssertExpectations(t)
		m.orders.AssertExpectations(t)
	})
}

func TestOrderServiceImpl_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("InvalidStatus", func(t *testing.T) {
		svc, m := newTestOrderService()

		o, err := svc.UpdateStatus(ctx, primitive.NewObjectID(), order.Status("Shipped-ish"), "corr")

		assert.ErrorIs(t, err, order.ErrInvalidStatus)
		assert.Nil(t, o)
		m.orders.AssertNotCalled(t, "UpdateStatus")
	})

	t.Run("CancelledReversesSale", func(t *testing.T) {
		svc, m := newTestOrderService()
		id := primitive.NewObjectID()
		updated := &order.Order{ID: id, Status: order.StatusCancelled, BuyerID: uuid.New()}

		m.orders.On("UpdateStatus", ctx, id, order.StatusCancelled).Return(updated, nil).Once()
		m.accounting.On("ReverseSale", ctx, id).Return(nil).Once()

		o, err := svc.UpdateStatus(ctx, id, order.StatusCancelled, "corr")

		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, o.Status)
		m.accounting.AssertExpectations(t)
	})

	t.Run("CancelledToleratesMissingLedgerEntry", func(t *testing.T) {
		svc, m := newTestOrderService()
		id := primitive.NewObjectID()
		updated := &order.Order{ID: id, Status: order.StatusCancelled, BuyerID: uuid.New()}

		m.orders.On("UpdateStatus", ctx, id, order.StatusCancelled).Return(updated, nil).Once()
		m.accounting.On("ReverseSale", ctx, id).Return(accounting.ErrTransactionNotFound{OrderID: id}).Once()

		o, err := svc.UpdateStatus(ctx, id, order.StatusCancelled, "corr")

		// Orders with no linked transaction (custom flows) still cancel cleanly
		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, o.Status)
	})

	t.Run("DeliveredEnqueuesStatusEmail", func(t *testing.T) {
		svc, m := newTestOrderService()
		id := primitive.NewObjectID()
		buyerID := uuid.New()
		updated := &order.Order{ID: id, Status: order.StatusDelivered, BuyerID: buyerID}
		buyer := &user.User{ID: buyerID, Name: "Test Buyer", Email: "buyer@example.com"}

		m.orders.On("UpdateStatus", ctx, id, order.StatusDelivered).Return(updated, nil).Once()
		m.users.On("GetByID", ctx, buyerID).Return(buyer, nil).Once()
		m.producer.On("Publish", ctx, mock.AnythingOfType("string"), mock.Anything).Return(nil).Once()

		o, err := svc.UpdateStatus(ctx, id, order.StatusDelivered, "corr")

		require.NoError(t, err)
		assert.Equal(t, order.StatusDelivered, o.Status)
		m.producer.AssertExpectations(t)
	})

	t.Run("PublishFailureDoesNotFailStatusUpdate", func(t *testing.T) {
		svc, m := newTestOrderService()
		id := primitive.NewObjectID()
		buyerID := uuid.New()
		updated := &order.Order{ID: id, Status: order.StatusDelivered, BuyerID: buyerID}
		buyer := &user.User{ID: buyerID, Name: "Test Buyer", Email: "buyer@example.com"}

		m.orders.On("UpdateStatus", ctx, id, order.StatusDelivered).Return(updated, nil).Once()
		m.users.On("GetByID", ctx, buyerID).Return(buyer, nil).Once()
		m.producer.On("Publish", ctx, mock.AnythingOfType("string"), mock.Anything).Return(errors.New("broker down")).Once()

		o, err := svc.UpdateStatus(ctx, id, order.StatusDelivered, "corr")

		require.NoError(t, err)
		assert.NotNil(t, o)
	})
}

func TestOrderServiceImpl_GetBuyerOrders(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestOrderService()
	buyerID := uuid.New()
	expected := []*order.Order{{ID: primitive.NewObjectID(), BuyerID: buyerID}}

	m.orders.On("GetByBuyer", ctx, buyerID).Return(expected, nil).Once()

	orders, err := svc.GetBuyerOrders(ctx, buyerID)

	require.NoError(t, err)
	assert.Equal(t, expected, orders)
	m.orders.AssertExpectations(t)
}
