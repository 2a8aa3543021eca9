package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewOrder(t *testing.T) {
	items := []Item{
		{ProductID: primitive.NewObjectID(), Name: "A", Price: 10.00, Quantity: 2},
	}

	t.Run("Success", func(t *testing.T) {
		o, err := NewOrder(items, Payment{Method: "cod"}, uuid.New())

		require.NoError(t, err)
		assert.Equal(t, StatusPendingConfirmation, o.Status)
		assert.False(t, o.ID.IsZero())
	})

	t.Run("EmptyCart", func(t *testing.T) {
		_, err := NewOrder(nil, Payment{Method: "cod"}, uuid.New())
		assert.ErrorIs(t, err, ErrEmptyCart)
	})
}

func TestOrderTotal(t *testing.T) {
	o := &Order{Items: []Item{
		{Price: 10.00, Quantity: 2},
		{Price: 5.50, Quantity: 3},
	}}

	assert.Equal(t, 36.50, o.Total())
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{
		StatusPendingConfirmation, StatusProcessing, StatusReadyToShip,
		StatusInTransit, StatusDelivered, StatusCancelled,
	} {
		assert.True(t, s.Valid(), string(s))
	}

	assert.False(t, Status("Shipped").Valid())
	assert.False(t, Status("").Valid())
}
