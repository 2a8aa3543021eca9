package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopstack-backend/internal/config"
	"github.com/shopstack-backend/internal/domain/accounting"
)

// ErrSalesAccountsUnconfigured indicates the sale-completion flows are
// disabled because no sales accounts are configured.
var ErrSalesAccountsUnconfigured = errors.New("sales accounts are not configured")

// AccountingServiceImpl implements the AccountingService interface
type AccountingServiceImpl struct {
	accountRepo     accounting.AccountRepository
	transactionRepo accounting.TransactionRepository
	salesDebit      primitive.ObjectID
	salesCredit     primitive.ObjectID
	salesConfigured bool
	logger          *slog.Logger
}

// NewAccountingService creates a new accounting service. The sales accounts
// named in the configuration back the sale-completion flows; when they are
// absent those flows return ErrSalesAccountsUnconfigured.
func NewAccountingService(logger *slog.Logger, accountRepo accounting.AccountRepository, transactionRepo accounting.TransactionRepository, cfg *config.AccountingConfig) AccountingService {
	s := &AccountingServiceImpl{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
	}

	debit, errD := primitive.ObjectIDFromHex(cfg.SalesDebitAccount)
	credit, errC := primitive.ObjectIDFromHex(cfg.SalesCreditAccount)
	if errD == nil && errC == nil {
		s.salesDebit = debit
		s.salesCredit = credit
		s.salesConfigured = true
	} else {
		logger.Warn("Sales accounts not configured, sale-triggered ledger entries are disabled")
	}

	return s
}

// CreateAccount registers a chart-of-accounts entry
func (s *AccountingServiceImpl) CreateAccount(ctx context.Context, name string, equation accounting.Equation, defaultSide accounting.Side) (*accounting.Account, error) {
	acc, err := accounting.NewAccount(name, equation, defaultSide)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Create(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

// ListAccounts returns every account sorted by name ascending
func (s *AccountingServiceImpl) ListAccounts(ctx context.Context) ([]*accounting.Account, error) {
	return s.accountRepo.List(ctx)
}

// RecordTransaction validates the referenced accounts and persists the
// transaction. The membership check runs on the deduplicated union of both
// sides, so duplicate ids in the request cannot mask an unknown id.
func (s *AccountingServiceImpl) RecordTransaction(ctx context.Context, debitIDs, creditIDs []primitive.ObjectID, amount float64, date time.Time, remarks string, orderID *primitive.ObjectID) (*accounting.Transaction, error) {
	tx, err := accounting.NewTransaction(debitIDs, creditIDs, amount, date, remarks, orderID)
	if err != nil {
		return nil, err
	}

	distinct := tx.AccountIDs()
	found, err := s.accountRepo.FindByIDs(ctx, distinct)
	if err != nil {
		return nil, err
	}
	if len(found) != len(distinct) {
		s.logger.Info("Transaction rejected, unknown account references",
			"requested", len(distinct),
			"found", len(found))
		return nil, accounting.ErrUnknownAccountIDs{}
	}

	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("Transaction recorded",
		"transaction_id", tx.ID.Hex(),
		"amount", tx.Amount,
		"debit_accounts", len(tx.DebitAccounts),
		"credit_accounts", len(tx.CreditAccounts))

	return tx, nil
}

// GetTransactionsPage returns the 1-indexed transaction page with account
// references expanded. Page values below 1 are treated as page 1.
func (s *AccountingServiceImpl) GetTransactionsPage(ctx context.Context, page int) (*TransactionPage, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * TransactionsPageSize

	transactions, err := s.transactionRepo.GetPage(ctx, TransactionsPageSize, offset)
	if err != nil {
		return nil, err
	}

	total, err := s.transactionRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	expanded, err := s.expand(ctx, transactions)
	if err != nil {
		return nil, err
	}

	return &TransactionPage{
		Transactions: expanded,
		Page:         page,
		Total:        total,
	}, nil
}

// GetAccountLedger returns the account and its transactions within the
// resolved month range, chronological order, account references expanded.
func (s *AccountingServiceImpl) GetAccountLedger(ctx context.Context, accountID primitive.ObjectID, startYear, startMonth, endYear, endMonth int) (*Ledger, error) {
	acc, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	start, end := accounting.MonthRange(startYear, startMonth, endYear, endMonth, time.Now())

	transactions, err := s.transactionRepo.GetByAccountAndDateRange(ctx, accountID, start, end)
	if err != nil {
		return nil, err
	}

	expanded, err := s.expand(ctx, transactions)
	if err != nil {
		return nil, err
	}

	return &Ledger{
		Account:      acc,
		Start:        start,
		End:          end,
		Transactions: expanded,
	}, nil
}

// RecordSale records a completed sale against the configured sales accounts
// through the same validated path as manual entries.
func (s *AccountingServiceImpl) RecordSale(ctx context.Context, orderID *primitive.ObjectID, amount float64, remarks string) (*accounting.Transaction, error) {
	if !s.salesConfigured {
		return nil, ErrSalesAccountsUnconfigured
	}

	return s.RecordTransaction(ctx,
		[]primitive.ObjectID{s.salesDebit},
		[]primitive.ObjectID{s.salesCredit},
		amount, time.Now(), remarks, orderID)
}

// ReverseSale removes the ledger transaction linked to a cancelled order
func (s *AccountingServiceImpl) ReverseSale(ctx context.Context, orderID primitive.ObjectID) error {
	return s.transactionRepo.DeleteByOrderID(ctx, orderID)
}

// expand resolves every account referenced by the transactions in one query
// and attaches the full documents to each transaction's sides.
func (s *AccountingServiceImpl) expand(ctx context.Context, transactions []*accounting.Transaction) ([]*ExpandedTransaction, error) {
	lists := make([][]primitive.ObjectID, 0, len(transactions)*2)
	for _, tx := range transactions {
		lists = append(lists, tx.DebitAccounts, tx.CreditAccounts)
	}
	distinct := accounting.DistinctAccountIDs(lists...)

	byID := make(map[primitive.ObjectID]*accounting.Account, len(distinct))
	if len(distinct) > 0 {
		accounts, err := s.accountRepo.FindByIDs(ctx, distinct)
		if err != nil {
			return nil, err
		}
		for _, acc := range accounts {
			byID[acc.ID] = acc
		}
	}

	expanded := make([]*ExpandedTransaction, 0, len(transactions))
	for _, tx := range transactions {
		e := &ExpandedTransaction{Transaction: tx}
		for _, id := range tx.DebitAccounts {
			if acc, ok := byID[id]; ok {
				e.Debit = append(e.Debit, acc)
			}
		}
		for _, id := range tx.CreditAccounts {
			if acc, ok := byID[id]; ok {
				e.Credit = append(e.Credit, acc)
			}
		}
		expanded = append(expanded, e)
	}

	return expanded, nil
}
