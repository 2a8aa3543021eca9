package accounting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		acc, err := NewAccount("Bank", EquationAsset, SideDebit)

		require.NoError(t, err)
		assert.False(t, acc.ID.IsZero())
		assert.Equal(t, "Bank", acc.Name)
	})

	t.Run("EmptyName", func(t *testing.T) {
		_, err := NewAccount("", EquationAsset, SideDebit)
		assert.ErrorIs(t, err, ErrEmptyAccountName)
	})

	t.Run("InvalidEquation", func(t *testing.T) {
		_, err := NewAccount("Bank", Equation("Expense"), SideDebit)
		assert.ErrorIs(t, err, ErrInvalidEquation)
	})

	t.Run("InvalidSide", func(t *testing.T) {
		_, err := NewAccount("Bank", EquationAsset, Side("Both"))
		assert.ErrorIs(t, err, ErrInvalidSide)
	})
}

func TestEquationValid(t *testing.T) {
	assert.True(t, EquationAsset.Valid())
	assert.True(t, EquationLiability.Valid())
	assert.True(t, EquationEquity.Valid())
	assert.False(t, Equation("Revenue").Valid())
	assert.False(t, Equation("").Valid())
}

func TestSideValid(t *testing.T) {
	assert.True(t, SideDebit.Valid())
	assert.True(t, SideCredit.Valid())
	assert.False(t, Side("debit").Valid())
}
