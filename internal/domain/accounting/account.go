package accounting

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Common errors
var (
	ErrEmptyAccountName = errors.New("account name cannot be empty")
	ErrInvalidEquation  = errors.New("accounting equation must be Asset, Liability or Owner's Equity")
	ErrInvalidSide      = errors.New("default side must be Debit or Credit")
)

// Equation classifies an account for reporting purposes
type Equation string

const (
	EquationAsset     Equation = "Asset"
	EquationLiability Equation = "Liability"
	EquationEquity    Equation = "Owner's Equity"
)

// Valid reports whether the equation is one of the allowed classifications
func (e Equation) Valid() bool {
	switch e {
	case EquationAsset, EquationLiability, EquationEquity:
		return true
	}
	return false
}

// Side is the side of a double-entry transaction an account normally carries
type Side string

const (
	SideDebit  Side = "Debit"
	SideCredit Side = "Credit"
)

// Valid reports whether the side is Debit or Credit
func (s Side) Valid() bool {
	return s == SideDebit || s == SideCredit
}

// Account is a chart-of-accounts entry. Names are not unique; accounts are
// created once and never updated or deleted.
type Account struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Equation    Equation           `json:"accounting_equation" bson:"accounting_equation"`
	DefaultSide Side               `json:"default_side" bson:"default_side"`
}

// NewAccount creates a chart-of-accounts entry with the given parameters
func NewAccount(name string, equation Equation, defaultSide Side) (*Account, error) {
	if name == "" {
		return nil, ErrEmptyAccountName
	}
	if !equation.Valid() {
		return nil, ErrInvalidEquation
	}
	if !defaultSide.Valid() {
		return nil, ErrInvalidSide
	}

	return &Account{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Equation:    equation,
		DefaultSide: defaultSide,
	}, nil
}
