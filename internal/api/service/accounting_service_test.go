package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopstack-backend/internal/config"
	"github.com/shopstack-backend/internal/domain/accounting"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, acc *accounting.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepository) List(ctx context.Context) ([]*accounting.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accounting.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*accounting.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*accounting.Account, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accounting.Account), args.Error(1)
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *accounting.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetPage(ctx context.Context, limit, offset int) ([]*accounting.Transaction, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accounting.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByAccountAndDateRange(ctx context.Context, accountID primitive.ObjectID, start, end time.Time) ([]*accounting.Transaction, error) {
	args := m.Called(ctx, accountID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accounting.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) DeleteByOrderID(ctx context.Context, orderID primitive.ObjectID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockTransactionRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newTestAccountingService(accountRepo accounting.AccountRepository, txRepo accounting.TransactionRepository, cfg *config.AccountingConfig) AccountingService {
	if cfg == nil {
		cfg = &config.AccountingConfig{}
	}
	return NewAccountingService(slog.Default(), accountRepo, txRepo, cfg)
}

func testAccounts(n int) []*accounting.Account {
	accounts := make([]*accounting.Account, 0, n)
	for i := 0; i < n; i++ {
		accounts = append(accounts, &accounting.Account{
			ID:          primitive.NewObjectID(),
			Name:        "Account",
			Equation:    accounting.EquationAsset,
			DefaultSide: accounting.SideDebit,
		})
	}
	return accounts
}

func TestAccountingServiceImpl_CreateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockAccounts := new(MockAccountRepository)
		service := newTestAccountingService(mockAccounts, new(MockTransactionRepository), nil)

		mockAccounts.On("Create", ctx, mock.AnythingOfType("*accounting.Account")).Return(nil).Once()

		acc, err := service.CreateAccount(ctx, "Bank", accounting.EquationAsset, accounting.SideDebit)

		assert.NoError(t, err)
		assert.NotNil(t, acc)
		assert.Equal(t, "Bank", acc.Name)
		assert.Equal(t, accounting.EquationAsset, acc.Equation)
		assert.Equal(t, accounting.SideDebit, acc.DefaultSide)
		assert.False(t, acc.ID.IsZero())
		mockAccounts.AssertExpectations(t)
	})

	t.Run("InvalidEquation", func(t *testing.T) {
		mockAccounts := new(MockAccountRepository)
		service := newTestAccountingService(mockAccounts, new(MockTransactionRepository), nil)

		acc, err := service.CreateAccount(ctx, "Bank", accounting.Equation("Revenue"), accounting.SideDebit)

		assert.ErrorIs(t, err, accounting.ErrInvalidEquation)
		assert.Nil(t, acc)
		mockAccounts.AssertNotCalled(t, "Create")
	})

	t.Run("InvalidSide", func(t *testing.T) {
		mockAccounts := new(MockAccountRepository)
		service := newTestAccountingService(mockAccounts, new(MockTransactionRepository), nil)

		acc, err := service.CreateAccount(ctx, "Bank", accounting.EquationAsset, accounting.Side("Middle"))

		assert.ErrorIs(t, err, accounting.ErrInvalidSide)
		assert.Nil(t, acc)
	})

	t.Run("EmptyName", func(t *testing.T) {
		mockAccounts := new(MockAccountRepository)
		service := newTestAccountingService(mockAccounts, new(MockTransactionRepository), nil)

		acc, err := service.CreateAccount(ctx, "", accounting.EquationAsset, accounting.SideDebit)

		assert.ErrorIs(t, err, accounting.ErrEmptyAccountName)
		assert.Nil(t, acc)
	})

	// Duplicate names are allowed: two creates with the same name both persist
	t.Run("DuplicateNamePermitted", func(t *testing.T) {
		mockAccounts := new(MockAccountRepository)
		service := newTestAccountingService(mockAccounts, new(MockTransactionRepository), nil)

		mockAccounts.On("Create", ctx, mock.AnythingOfType("*accounting.Account")).Return(nil).Twice()

		first, err := service.CreateAccount(ctx, "Cash", accounting.EquationAsset, accounting.SideDebit)
		require.NoError(t, err)
		second, err := service.CreateAccount(ctx, "Cash", accounting.EquationAsset, accounting.SideDebit)
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		mockAccounts.AssertExpectations(t)
	})
}

func TestAccountingServiceImpl_RecordTransaction(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		mockAccounts := new(MockAccountRepository)
		mockTxs := new(MockTransactionRepository)
		service := newTestAccountingService(mockAccounts, mockTxs, nil)

		accounts := testAccounts(2)
		debit := []primitive.ObjectID{accounts[0].ID}
		credit := []primitive.ObjectID{accounts[1].ID}

		mockAccounts.On("FindByIDs", ctx, mock.AnythingOfType("[]primitive.ObjectID")).Return(accounts, nil).Once()
		mockTxs.On("Create", ctx, mock.AnythingOfType("*accounting.Transaction")).Return(nil).Once()

		tx, err := service.RecordTransaction(ctx, debit, credit, 100.00, now, "January rent", nil)

		require.NoError(t, err)
		assert.Equal(t, 100.00, tx.Amount)
		assert.Equal(t, debit, tx.DebitAccounts)
		assert.Equal(t, credit, tx.CreditAccounts)
		mockAccounts.AssertExpectations(t)
		mockTxs.AssertExpectations(t)
	})

	t.Run("UnknownAccountID", func(t *testing.T) {
		mockAccounts := new(MockAccountRepository)
		mockTxs := new(MockTransactionRepository)
		service := newTestAccountingService(mockAccounts, mockTxs, nil)

		known := testAccounts(1)
		unknown := primitive.NewObjectID()

		// Only one of the two referenced accounts exists
		mockAccounts.On("FindByIDs", ctx, mock.AnythingOfType("[]primitive.ObjectID")).Return(known, nil).Once()

		tx, err := service.RecordTransaction(ctx,
			[]primitive.ObjectID{known[0].ID},
			[]primitive.ObjectID{unknown},
			50.00, now, "", nil)

		assert.ErrorIs(t, err, accounting.ErrUnknownAccountIDs{})
		assert.Nil(t, tx)
		// Nothing persisted on validation failure
		mockTxs.AssertNotCalled(t, "Create")
	})

	t.Run("DuplicateIDsCannotMaskUnknownID", func(t *testing.T) {
		mockAccounts := new(MockAccountRepository)
		mockTxs := new(MockTransactionRepository)
		service := newTestAccountingService(mockAccounts, mockTxs, nil)

		known := testAccounts(1)
		unknown := primitive.NewObjectID()

		// Debit lists the known account twice; the union still has two
		// distinct ids, so a single match must not pass the check.
		mockAccounts.On("FindByIDs", ctx, mock.MatchedBy(func(ids []primitive.ObjectID) bool {
			return len(ids) == 2
		})).Return(known, nil).Once()

		tx, err := service.RecordTransaction(ctx,
			[]primitive.ObjectID{known[0].ID, known[0].ID},
			[]primitive.ObjectID{unknown},
			50.00, now, "", nil)

		assert.ErrorIs(t, err, accounting.ErrUnknownAccountIDs{})
		assert.Nil(t, tx)
		mockAccounts.AssertExpectations(t)
	})

	t.Run("AmountBelowMinimum", func(t *testing.T) {
		mockAccounts := new(MockAccountRepository)
		mockTxs := new(MockTransactionRepository)
		service := newTestAccountingService(mockAccounts, mockTxs, nil)

		accounts := testAccounts(2)
		tx, err := service.RecordTransaction(ctx,
			[]primitive.ObjectID{accounts[0].ID},
			[]primitive.ObjectID{accounts[1].ID},
			0.001, now, "", nil)

		assert.ErrorIs(t, err, accounting.ErrInvalidAmount)
		assert.Nil(t, tx)
		mockAccounts.AssertNotCalled(t, "FindByIDs")
	})

	t.Run("EmptyDebitSide", func(t *testing.T) {
		mockAccounts := new(MockAccountRepository)
		mockTxs := new(MockTransactionRepository)
		service := newTestAccountingService(mockAccounts, mockTxs, nil)

		accounts := testAccounts(1)
		tx, err := service.RecordTransaction(ctx,
			nil,
			[]primitive.ObjectID{accounts[0].ID},
			10.00, now, "", nil)

		assert.ErrorIs(t, err, accounting.ErrNoDebitAccounts)
		assert.Nil(t, tx)
	})
}

func TestAccountingServiceImpl_GetTransactionsPage(t *testing.T) {
	ctx := context.Background()

	t.Run("ExpandsAccountsAndReportsTotal", func(t *testing.T) {
		mockAccounts := new(MockAccountRepository)
		mockTxs := new(MockTransactionRepository)
		service := newTestAccountingService(mockAccounts, mockTxs, nil)

		accounts := testAccounts(2)
		tx := &accounting.Transaction{
			ID:             primitive.NewObjectID(),
			DebitAccounts:  []primitive.ObjectID{accounts[0].ID},
			CreditAccounts: []primitive.ObjectID{accounts[1].ID},
			Amount:         20.00,
			Date:           time.Now(),
		}

		mockTxs.On("GetPage", ctx, TransactionsPageSize, 0).Return([]*accounting.Transaction{tx}, nil).Once()
		mockTxs.On("Count", ctx).Return(int64(11), nil).Once()
		mockAccounts.On("FindByIDs", ctx, mock.AnythingOfType("[]primitive.ObjectID")).Return(accounts, nil).Once()

		page, err := service.GetTransactionsPage(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, int64(11), page.Total)
		require.Len(t, page.Transactions, 1)
		require.Len(t, page.Transactions[0].Debit, 1)
		assert.Equal(t, accounts[0].ID, page.Transactions[0].Debit[0].ID)
		require.Len(t, page.Transactions[0].Credit, 1)
		assert.Equal(t, accounts[1].ID, page.Transactions[0].Credit[0].ID)
	})

	t.Run("SecondPageUsesOffset", func(t *testing.T) {
		mockAccounts := new(MockAccountRepository)
		mockTxs := new(MockTransactionRepository)
		service := newTestAccountingService(mockAccounts, mockTxs, nil)

		mockTxs.On("GetPage", ctx, TransactionsPageSize, TransactionsPageSize).Return([]*accounting.Transaction{}, nil).Once()
		mockTxs.On("Count", ctx).Return(int64(5), nil).Once()

		page, err := service.GetTransactionsPage(ctx, 2)

		require.NoError(t, err)
		assert.Empty(t, page.Transactions)
		mockTxs.AssertExpectations(t)
	})

	t.Run("PageBelowOneIsTreatedAsFirst", func(t *testing.T) {
		mockAccounts := new(MockAccountRepository)
		mockTxs := new(MockTransactionRepository)
		service := newTestAccountingService(mockAccounts, mockTxs, nil)

		mockTxs.On("GetPage", ctx, TransactionsPageSize, 0).Return([]*accounting.Transaction{}, nil).Once()
		mockTxs.On("Count", ctx).Return(int64(0), nil).Once()

		page, err := service.GetTransactionsPage(ctx, 0)

		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
	})
}

func TestAccountingServiceImpl_GetAccountLedger(t *testing.T) {
	ctx := context.Background()

	t.Run("ExplicitRangeSpansWholeMonths", func(t *testing.T) {
		mockAccounts := new(MockAccountRepository)
		mockTxs := new(MockTransactionRepository)
		service := newTestAccountingService(mockAccounts, mockTxs, nil)

		acc := testAccounts(1)[0]
		tx := &accounting.Transaction{
			ID:             primitive.NewObjectID(),
			DebitAccounts:  []primitive.ObjectID{acc.ID},
			CreditAccounts: []primitive.ObjectID{acc.ID},
			Amount:         100.00,
			Date:           time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		}

		mockAccounts.On("GetByID", ctx, acc.ID).Return(acc, nil).Once()
		mockTxs.On("GetByAccountAndDateRange", ctx, acc.ID,
			mock.MatchedBy(func(start time.Time) bool {
				return start.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
			}),
			mock.MatchedBy(func(end time.Time) bool {
				return end.Year() == 2025 && end.Month() == time.January && end.Day() == 31
			}),
		).Return([]*accounting.Transaction{tx}, nil).Once()
		mockAccounts.On("FindByIDs", ctx, mock.AnythingOfType("[]primitive.ObjectID")).Return([]*accounting.Account{acc}, nil).Once()

		ledger, err := service.GetAccountLedger(ctx, acc.ID, 2025, 1, 2025, 1)

		require.NoError(t, err)
		assert.Equal(t, acc.ID, ledger.Account.ID)
		require.Len(t, ledger.Transactions, 1)
		assert.Equal(t, 100.00, ledger.Transactions[0].Amount)
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		mockAccounts := new(MockAccountRepository)
		mockTxs := new(MockTransactionRepository)
		service := newTestAccountingService(mockAccounts, mockTxs, nil)

		id := primitive.NewObjectID()
		mockAccounts.On("GetByID", ctx, id).Return(nil, accounting.ErrAccountNotFound{AccountID: id}).Once()

		ledger, err := service.GetAccountLedger(ctx, id, 0, 0, 0, 0)

		assert.ErrorIs(t, err, accounting.ErrAccountNotFound{})
		assert.Nil(t, ledger)
		mockTxs.AssertNotCalled(t, "GetByAccountAndDateRange")
	})

	t.Run("PartialParamsFallBackToCurrentMonth", func(t *testing.T) {
		mockAccounts := new(MockAccountRepository)
		mockTxs := new(MockTransactionRepository)
		service := newTestAccountingService(mockAccounts, mockTxs, nil)

		acc := testAccounts(1)[0]
		now := time.Now()
		firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

		mockAccounts.On("GetByID", ctx, acc.ID).Return(acc, nil).Once()
		mockTxs.On("GetByAccountAndDateRange", ctx, acc.ID,
			mock.MatchedBy(func(start time.Time) bool { return start.Equal(firstOfMonth) }),
			mock.AnythingOfType("time.Time"),
		).Return([]*accounting.Transaction{}, nil).Once()

		// startYear present but the rest missing: default range applies
		ledger, err := service.GetAccountLedger(ctx, acc.ID, 2025, 0, 0, 0)

		require.NoError(t, err)
		assert.True(t, ledger.Start.Equal(firstOfMonth))
		mockTxs.AssertExpectations(t)
	})
}

func TestAccountingServiceImpl_RecordSale(t *testing.T) {
	ctx := context.Background()

	t.Run("UsesConfiguredAccounts", func(t *testing.T) {
		mockAccounts := new(MockAccountRepository)
		mockTxs := new(MockTransactionRepository)

		accounts := testAccounts(2)
		cfg := &config.AccountingConfig{
			SalesDebitAccount:  accounts[0].ID.Hex(),
			SalesCreditAccount: accounts[1].ID.Hex(),
		}
		service := newTestAccountingService(mockAccounts, mockTxs, cfg)

		mockAccounts.On("FindByIDs", ctx, mock.AnythingOfType("[]primitive.ObjectID")).Return(accounts, nil).Once()
		mockTxs.On("Create", ctx, mock.MatchedBy(func(tx *accounting.Transaction) bool {
			return len(tx.DebitAccounts) == 1 && tx.DebitAccounts[0] == accounts[0].ID &&
				len(tx.CreditAccounts) == 1 && tx.CreditAccounts[0] == accounts[1].ID
		})).Return(nil).Once()

		orderID := primitive.NewObjectID()
		tx, err := service.RecordSale(ctx, &orderID, 250.00, "Sale")

		require.NoError(t, err)
		require.NotNil(t, tx.OrderID)
		assert.Equal(t, orderID, *tx.OrderID)
		mockTxs.AssertExpectations(t)
	})

	t.Run("Unconfigured", func(t *testing.T) {
		service := newTestAccountingService(new(MockAccountRepository), new(MockTransactionRepository), nil)

		tx, err := service.RecordSale(ctx, nil, 100.00, "Sale")

		assert.ErrorIs(t, err, ErrSalesAccountsUnconfigured)
		assert.Nil(t, tx)
	})
}

func TestAccountingServiceImpl_ReverseSale(t *testing.T) {
	ctx := context.Background()

	t.Run("DeletesByOrderID", func(t *testing.T) {
		mockTxs := new(MockTransactionRepository)
		service := newTestAccountingService(new(MockAccountRepository), mockTxs, nil)

		orderID := primitive.NewObjectID()
		mockTxs.On("DeleteByOrderID", ctx, orderID).Return(nil).Once()

		err := service.ReverseSale(ctx, orderID)

		assert.NoError(t, err)
		mockTxs.AssertExpectations(t)
	})

	t.Run("PropagatesNotFound", func(t *testing.T) {
		mockTxs := new(MockTransactionRepository)
		service := newTestAccountingService(new(MockAccountRepository), mockTxs, nil)

		orderID := primitive.NewObjectID()
		mockTxs.On("DeleteByOrderID", ctx, orderID).Return(accounting.ErrTransactionNotFound{OrderID: orderID}).Once()

		err := service.ReverseSale(ctx, orderID)

		assert.ErrorIs(t, err, accounting.ErrTransactionNotFound{})
	})
}

func TestAccountingServiceImpl_ListAccounts(t *testing.T) {
	ctx := context.Background()

	t.Run("PropagatesRepositoryError", func(t *testing.T) {
		mockAccounts := new(MockAccountRepository)
		service := newTestAccountingService(mockAccounts, new(MockTransactionRepository), nil)

		mockAccounts.On("List", ctx).Return(nil, errors.New("db down")).Once()

		accounts, err := service.ListAccounts(ctx)

		assert.Error(t, err)
		assert.Nil(t, accounts)
	})
}
