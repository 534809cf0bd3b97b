package services

import (
	"context"
	"testing"

	"github.com/omarwaleed/egystore/app/apperrors"
	"github.com/omarwaleed/egystore/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemIncrementsOnRepeatAdd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, models.RoleCustomer)
	product := env.createProduct(t, "Product", 10, 0, 10)

	cart, err := env.carts.AddItem(ctx, user.ID, product.ID, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Qty)

	// Same product again: one row, quantity bumped.
	cart, err = env.carts.AddItem(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Qty)

	assert.True(t, cart.Subtotal.Equal(decimal.NewFromInt(30)), "subtotal was %s", cart.Subtotal)
}

func TestAddItemDefaultsQtyToOne(t *testing.T) {
	env := newTestEnv(t)

	user := env.createUser(t, models.RoleCustomer)
	product := env.createProduct(t, "Product", 10, 0, 10)

	cart, err := env.carts.AddItem(context.Background(), user.ID, product.ID, 0)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Qty)
}

func TestAddItemUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	user := env.createUser(t, models.RoleCustomer)

	_, err := env.carts.AddItem(context.Background(), user.ID, "nope", 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindProductNotFound, apperrors.KindOf(err))
}

func TestAddItemRespectsStockCeiling(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, models.RoleCustomer)
	product := env.createProduct(t, "Scarce", 10, 0, 2)

	_, err := env.carts.AddItem(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)

	_, err = env.carts.AddItem(ctx, user.ID, product.ID, 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInsufficientStock, apperrors.KindOf(err))
}

func TestAdminCannotHoldCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.createUser(t, models.RoleAdmin)
	product := env.createProduct(t, "Product", 10, 0, 10)

	_, err := env.carts.AddItem(ctx, admin.ID, product.ID, 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))

	_, err = env.carts.GetCart(ctx, admin.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func TestUpdateQtyZeroRemovesLine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, models.RoleCustomer)
	product := env.createProduct(t, "Product", 10, 0, 10)

	_, err := env.carts.AddItem(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)

	cart, err := env.carts.UpdateQty(ctx, user.ID, product.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestUpdateQtySetsQuantity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, models.RoleCustomer)
	product := env.createProduct(t, "Product", 10, 0, 10)

	_, err := env.carts.AddItem(ctx, user.ID, product.ID, 1)
	require.NoError(t, err)

	cart, err := env.carts.UpdateQty(ctx, user.ID, product.ID, 5)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Qty)

	_, err = env.carts.UpdateQty(ctx, user.ID, product.ID, 50)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInsufficientStock, apperrors.KindOf(err))

	_, err = env.carts.UpdateQty(ctx, user.ID, "absent", 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestRemoveItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, models.RoleCustomer)
	p1 := env.createProduct(t, "P1", 10, 0, 10)
	p2 := env.createProduct(t, "P2", 5, 0, 10)

	_, err := env.carts.AddItem(ctx, user.ID, p1.ID, 1)
	require.NoError(t, err)
	_, err = env.carts.AddItem(ctx, user.ID, p2.ID, 1)
	require.NoError(t, err)

	cart, err := env.carts.RemoveItem(ctx, user.ID, p1.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, p2.ID, cart.Items[0].ProductID)
}

func TestGetCartSubtotalUsesDiscountedPrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, models.RoleCustomer)
	// 100 with 10% off -> 90 per unit
	product := env.createProduct(t, "Deal", 100, 10, 10)

	_, err := env.carts.AddItem(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)

	cart, err := env.carts.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, cart.Subtotal.Equal(decimal.NewFromInt(180)), "subtotal was %s", cart.Subtotal)
	assert.NotEmpty(t, cart.FormattedSubtotal)
}
