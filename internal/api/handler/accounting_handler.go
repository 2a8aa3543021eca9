package handler

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopstack-backend/internal/api/service"
	"github.com/shopstack-backend/internal/domain/accounting"
)

// AccountingHandler handles HTTP requests for ledger operations
type AccountingHandler struct {
	accountingService service.AccountingService
	logger            *slog.Logger
}

// NewAccountingHandler creates a new accounting handler
func NewAccountingHandler(logger *slog.Logger, accountingService service.AccountingService) *AccountingHandler {
	return &AccountingHandler{
		accountingService: accountingService,
		logger:            logger,
	}
}

// CreateAccount registers a chart-of-accounts entry
func (h *AccountingHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.accountingService.CreateAccount(c.Request.Context(),
		req.Name, accounting.Equation(req.Equation), accounting.Side(req.DefaultSide))
	if err != nil {
		switch {
		case errors.Is(err, accounting.ErrEmptyAccountName),
			errors.Is(err, accounting.ErrInvalidEquation),
			errors.Is(err, accounting.ErrInvalidSide):
			RespondBadRequest(c, err.Error())
		default:
			h.logger.Error("Failed to create account", "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, acc)
}

// ListAccounts returns the chart of accounts sorted by name
func (h *AccountingHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.accountingService.ListAccounts(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list accounts", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, accounts)
}

// CreateTransaction records a ledger transaction
func (h *AccountingHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	debit, err := parseObjectIDs(req.DebitAccounts)
	if err != nil {
		RespondBadRequest(c, "Invalid debit account id")
		return
	}
	credit, err := parseObjectIDs(req.CreditAccounts)
	if err != nil {
		RespondBadRequest(c, "Invalid credit account id")
		return
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		// Fall back to date-only input
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			RespondBadRequest(c, "Invalid date, expected RFC3339 or YYYY-MM-DD")
			return
		}
	}

	tx, err := h.accountingService.RecordTransaction(c.Request.Context(), debit, credit, req.Amount, date, req.Remarks, nil)
	if err != nil {
		switch {
		case errors.Is(err, accounting.ErrUnknownAccountIDs{}):
			RespondUnprocessable(c, "UNKNOWN_ACCOUNTS", err.Error())
		case errors.Is(err, accounting.ErrInvalidAmount),
			errors.Is(err, accounting.ErrNoDebitAccounts),
			errors.Is(err, accounting.ErrNoCreditAccounts),
			errors.Is(err, accounting.ErrZeroDate):
			RespondBadRequest(c, err.Error())
		default:
			h.logger.Error("Failed to record transaction", "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, tx)
}

// GetTransactionsPage returns one page of the transaction listing
func (h *AccountingHandler) GetTransactionsPage(c *gin.Context) {
	pageParam := c.Param("page")
	page, err := strconv.Atoi(pageParam)
	if err != nil || page < 1 {
		RespondBadRequest(c, "Invalid page number")
		return
	}

	result, err := h.accountingService.GetTransactionsPage(c.Request.Context(), page)
	if err != nil {
		h.logger.Error("Failed to get transactions page", "page", page, "error", err)
		RespondInternalError(c)
		return
	}

	RespondWithPaginatedData(c, 200, result.Transactions, result.Page, service.TransactionsPageSize, int(result.Total))
}

// GetLedger returns an account's transaction history over a month range
func (h *AccountingHandler) GetLedger(c *gin.Context) {
	accountID, err := primitive.ObjectIDFromHex(c.Param("accId"))
	if err != nil {
		RespondBadRequest(c, "Invalid account id")
		return
	}

	var query LedgerQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid ledger query parameters")
		return
	}

	ledger, err := h.accountingService.GetAccountLedger(c.Request.Context(), accountID,
		query.StartYear, query.StartMonth, query.EndYear, query.EndMonth)
	if err != nil {
		var notFound accounting.ErrAccountNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to get ledger", "account_id", accountID.Hex(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, gin.H{
		"account":      ledger.Account,
		"start":        ledger.Start,
		"end":          ledger.End,
		"transactions": ledger.Transactions,
	})
}

// parseObjectIDs converts hex ids, failing on the first malformed one
func parseObjectIDs(hexes []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
