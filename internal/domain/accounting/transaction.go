package accounting

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MinAmount is the smallest amount a transaction may carry
const MinAmount = 0.01

var (
	ErrNoDebitAccounts  = errors.New("at least one debit account is required")
	ErrNoCreditAccounts = errors.New("at least one credit account is required")
	ErrInvalidAmount    = errors.New("amount must be at least 0.01")
	ErrZeroDate         = errors.New("transaction date is required")
)

// Transaction is a double-sided ledger entry. The amount is a single scalar
// shared by both sides; it is not itemized per account. OrderID links sale
// transactions to the order that produced them and is nil for manual entries.
type Transaction struct {
	ID             primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	DebitAccounts  []primitive.ObjectID `json:"debit_accounts" bson:"debit_accounts"`
	CreditAccounts []primitive.ObjectID `json:"credit_accounts" bson:"credit_accounts"`
	Amount         float64              `json:"amount" bson:"amount"`
	Date           time.Time            `json:"date" bson:"date"`
	Remarks        string               `json:"remarks,omitempty" bson:"remarks,omitempty"`
	OrderID        *primitive.ObjectID  `json:"order_id,omitempty" bson:"order_id,omitempty"`
	CreatedAt      time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at" bson:"updated_at"`
}

// NewTransaction builds a transaction, validating field presence and amount.
// Account existence is checked separately by the service against the registry.
func NewTransaction(debit, credit []primitive.ObjectID, amount float64, date time.Time, remarks string, orderID *primitive.ObjectID) (*Transaction, error) {
	if len(debit) == 0 {
		return nil, ErrNoDebitAccounts
	}
	if len(credit) == 0 {
		return nil, ErrNoCreditAccounts
	}
	if amount < MinAmount {
		return nil, ErrInvalidAmount
	}
	if date.IsZero() {
		return nil, ErrZeroDate
	}

	now := time.Now()
	return &Transaction{
		ID:             primitive.NewObjectID(),
		DebitAccounts:  debit,
		CreditAccounts: credit,
		Amount:         amount,
		Date:           date,
		Remarks:        remarks,
		OrderID:        orderID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// References reports whether the transaction touches the given account on
// either side.
func (t *Transaction) References(accountID primitive.ObjectID) bool {
	for _, id := range t.DebitAccounts {
		if id == accountID {
			return true
		}
	}
	for _, id := range t.CreditAccounts {
		if id == accountID {
			return true
		}
	}
	return false
}

// AccountIDs returns the deduplicated union of the debit and credit account
// references. The membership check against the registry runs on this set so
// duplicate ids within a request cannot mask an unknown id.
func (t *Transaction) AccountIDs() []primitive.ObjectID {
	return DistinctAccountIDs(t.DebitAccounts, t.CreditAccounts)
}

// DistinctAccountIDs unions the given id lists, dropping duplicates while
// preserving first-seen order.
func DistinctAccountIDs(lists ...[]primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{})
	var out []primitive.ObjectID
	for _, list := range lists {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// MonthRange resolves the effective date range for a ledger query. When all
// four parameters are positive the range spans the first day of the start
// month through the last day of the end month. Otherwise (including partially
// supplied parameters) it defaults to the first day of the current month
// through today.
func MonthRange(startYear, startMonth, endYear, endMonth int, now time.Time) (time.Time, time.Time) {
	if startYear > 0 && startMonth > 0 && endYear > 0 && endMonth > 0 {
		start := time.Date(startYear, time.Month(startMonth), 1, 0, 0, 0, 0, time.UTC)
		// Day 0 of the following month is the last day of the end month.
		end := time.Date(endYear, time.Month(endMonth)+1, 0, 23, 59, 59, 999999999, time.UTC)
		return start, end
	}

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, now
}
