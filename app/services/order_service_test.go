package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/omarwaleed/egystore/app/apperrors"
	"github.com/omarwaleed/egystore/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOrderReq = PlaceOrderRequest{
	Fullname: "Ahmed Hassan",
	Phone:    "01012345678",
	Address:  "12 Tahrir St, Cairo",
}

func waitForMail(t *testing.T, m *stubMailer) {
	t.Helper()
	select {
	case <-m.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for confirmation email")
	}
}

func TestPlaceOrderHappyPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, models.RoleCustomer)
	productA := env.createProduct(t, "Product A", 10, 0, 3)
	env.addCartItem(t, user.ID, productA.ID, 2)

	order, err := env.orders.PlaceOrder(ctx, user.ID, testOrderReq)
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("20.00")), "total was %s", order.TotalPrice)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.NotEmpty(t, order.ID)
	assert.NotEmpty(t, order.OrderCode)
	assert.Equal(t, 1, env.productStock(t, productA.ID))
	assert.Equal(t, 0, env.cartSize(t, user.ID))

	require.Len(t, order.OrderItems, 1)
	item := order.OrderItems[0]
	assert.Equal(t, "Product A", item.ProductName)
	assert.Equal(t, 2, item.Qty)
	assert.True(t, item.Price.Equal(decimal.NewFromInt(10)))
	assert.Len(t, item.Images(), 1)

	waitForMail(t, env.mailer)
	assert.Equal(t, 1, env.mailer.sentCount())
	assert.Equal(t, 1, env.cache.count())
}

func TestPlaceOrderAppliesDiscount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, models.RoleCustomer)
	// 100 with 25% off -> unit price 75
	product := env.createProduct(t, "Discounted", 100, 25, 5)
	env.addCartItem(t, user.ID, product.ID, 2)

	order, err := env.orders.PlaceOrder(ctx, user.ID, testOrderReq)
	require.NoError(t, err)

	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(150)), "total was %s", order.TotalPrice)
	assert.True(t, order.OrderItems[0].Price.Equal(decimal.NewFromInt(75)))
	waitForMail(t, env.mailer)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, models.RoleCustomer)
	productB := env.createProduct(t, "Product B", 10, 0, 1)
	env.addCartItem(t, user.ID, productB.ID, 2)

	_, err := env.orders.PlaceOrder(ctx, user.ID, testOrderReq)
	require.Error(t, err)

	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.KindInsufficientStock, appErr.Kind)
	assert.Equal(t, productB.ID, appErr.ProductID)
	assert.Equal(t, 1, appErr.Available)

	// Nothing committed: stock, cart and orders are untouched.
	assert.Equal(t, 1, env.productStock(t, productB.ID))
	assert.Equal(t, 1, env.cartSize(t, user.ID))

	orders, err := env.orderRepo.GetAllOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Equal(t, 0, env.mailer.sentCount())
}

func TestPlaceOrderNoPartialCommitOnLaterLineFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, models.RoleCustomer)
	okProduct := env.createProduct(t, "In Stock", 5, 0, 10)
	shortProduct := env.createProduct(t, "Short", 5, 0, 1)
	env.addCartItem(t, user.ID, okProduct.ID, 2)
	env.addCartItem(t, user.ID, shortProduct.ID, 3)

	_, err := env.orders.PlaceOrder(ctx, user.ID, testOrderReq)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInsufficientStock, apperrors.KindOf(err))

	// The earlier passing line must not stay decremented.
	assert.Equal(t, 10, env.productStock(t, okProduct.ID))
	assert.Equal(t, 1, env.productStock(t, shortProduct.ID))
	assert.Equal(t, 2, env.cartSize(t, user.ID))
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	env := newTestEnv(t)

	user := env.createUser(t, models.RoleCustomer)

	_, err := env.orders.PlaceOrder(context.Background(), user.ID, testOrderReq)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindEmptyCart, apperrors.KindOf(err))
}

func TestPlaceOrderAdminDenied(t *testing.T) {
	env := newTestEnv(t)

	admin := env.createUser(t, models.RoleAdmin)
	product := env.createProduct(t, "Product", 10, 0, 5)
	env.addCartItem(t, admin.ID, product.ID, 1)

	_, err := env.orders.PlaceOrder(context.Background(), admin.ID, testOrderReq)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func TestPlaceOrderMissingProduct(t *testing.T) {
	env := newTestEnv(t)

	user := env.createUser(t, models.RoleCustomer)
	env.addCartItem(t, user.ID, "no-such-product", 1)

	_, err := env.orders.PlaceOrder(context.Background(), user.ID, testOrderReq)
	require.Error(t, err)

	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.KindProductNotFound, appErr.Kind)
	assert.Equal(t, "no-such-product", appErr.ProductID)
}

func TestPlaceOrderSurvivesMailerFailure(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.failWith = errors.New("smtp down")

	user := env.createUser(t, models.RoleCustomer)
	product := env.createProduct(t, "Product", 10, 0, 5)
	env.addCartItem(t, user.ID, product.ID, 1)

	order, err := env.orders.PlaceOrder(context.Background(), user.ID, testOrderReq)
	require.NoError(t, err)
	waitForMail(t, env.mailer)

	// The order stands even though delivery failed.
	got, err := env.orders.GetOrder(context.Background(), order.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestOrderTotalFrozenAgainstPriceChanges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, models.RoleCustomer)
	product := env.createProduct(t, "Volatile", 10, 0, 5)
	env.addCartItem(t, user.ID, product.ID, 2)

	order, err := env.orders.PlaceOrder(ctx, user.ID, testOrderReq)
	require.NoError(t, err)
	waitForMail(t, env.mailer)

	// Reprice the live product; the snapshot must not move.
	live, err := env.productRepo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	live.Price = decimal.NewFromInt(999)
	live.Name = "Renamed"
	require.NoError(t, env.productRepo.Update(ctx, live))

	got, err := env.orders.GetOrder(ctx, order.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalPrice.Equal(decimal.NewFromInt(20)), "total was %s", got.TotalPrice)
	assert.Equal(t, "Volatile", got.OrderItems[0].ProductName)
	assert.True(t, got.OrderItems[0].Price.Equal(decimal.NewFromInt(10)))
}

func TestGetOrderOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, models.RoleCustomer)
	stranger := env.createUser(t, models.RoleCustomer)
	admin := env.createUser(t, models.RoleAdmin)
	product := env.createProduct(t, "Product", 10, 0, 5)
	env.addCartItem(t, owner.ID, product.ID, 1)

	order, err := env.orders.PlaceOrder(ctx, owner.ID, testOrderReq)
	require.NoError(t, err)
	waitForMail(t, env.mailer)

	_, err = env.orders.GetOrder(ctx, order.ID, owner.ID)
	assert.NoError(t, err)

	_, err = env.orders.GetOrder(ctx, order.ID, admin.ID)
	assert.NoError(t, err)

	_, err = env.orders.GetOrder(ctx, order.ID, stranger.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))

	_, err = env.orders.GetOrder(ctx, "missing-order", owner.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestListOrdersAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, models.RoleCustomer)
	admin := env.createUser(t, models.RoleAdmin)
	product := env.createProduct(t, "Product A", 10, 0, 3)
	env.addCartItem(t, user.ID, product.ID, 2)

	placed, err := env.orders.PlaceOrder(ctx, user.ID, testOrderReq)
	require.NoError(t, err)
	waitForMail(t, env.mailer)

	_, err = env.orders.ListOrders(ctx, user.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))

	orders, err := env.orders.ListOrders(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, placed.ID, orders[0].ID)
}

func TestUpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, models.RoleCustomer)
	admin := env.createUser(t, models.RoleAdmin)
	product := env.createProduct(t, "Product", 10, 0, 5)
	env.addCartItem(t, user.ID, product.ID, 1)

	order, err := env.orders.PlaceOrder(ctx, user.ID, testOrderReq)
	require.NoError(t, err)
	waitForMail(t, env.mailer)

	_, err = env.orders.UpdateStatus(ctx, order.ID, user.ID, models.OrderStatusCompleted)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))

	_, err = env.orders.UpdateStatus(ctx, order.ID, admin.ID, "shipped")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	updated, err := env.orders.UpdateStatus(ctx, order.ID, admin.ID, models.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)

	// Flat status set: completed may move back to pending.
	updated, err = env.orders.UpdateStatus(ctx, order.ID, admin.ID, models.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, updated.Status)
}

func TestCancelOrderRestoresStockExactly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, models.RoleCustomer)
	p1 := env.createProduct(t, "P1", 10, 0, 3)
	p2 := env.createProduct(t, "P2", 20, 0, 4)
	env.addCartItem(t, user.ID, p1.ID, 2)
	env.addCartItem(t, user.ID, p2.ID, 1)

	order, err := env.orders.PlaceOrder(ctx, user.ID, testOrderReq)
	require.NoError(t, err)
	waitForMail(t, env.mailer)

	require.Equal(t, 1, env.productStock(t, p1.ID))
	require.Equal(t, 3, env.productStock(t, p2.ID))

	require.NoError(t, env.orders.CancelOrder(ctx, order.ID, user.ID))

	assert.Equal(t, 3, env.productStock(t, p1.ID))
	assert.Equal(t, 4, env.productStock(t, p2.ID))

	_, err = env.orders.GetOrder(ctx, order.ID, user.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	items, err := repoOrderItems(env, order.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func repoOrderItems(env *testEnv, orderID string) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := env.db.Where("order_id = ?", orderID).Find(&items).Error
	return items, err
}

func TestCancelOrderDeniedForStranger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, models.RoleCustomer)
	stranger := env.createUser(t, models.RoleCustomer)
	product := env.createProduct(t, "Product", 10, 0, 5)
	env.addCartItem(t, owner.ID, product.ID, 1)

	order, err := env.orders.PlaceOrder(ctx, owner.ID, testOrderReq)
	require.NoError(t, err)
	waitForMail(t, env.mailer)

	err = env.orders.CancelOrder(ctx, order.ID, stranger.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))

	err = env.orders.CancelOrder(ctx, "missing", owner.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestMarkPaid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, models.RoleCustomer)
	product := env.createProduct(t, "Product", 10, 0, 5)
	env.addCartItem(t, user.ID, product.ID, 1)

	order, err := env.orders.PlaceOrder(ctx, user.ID, testOrderReq)
	require.NoError(t, err)
	waitForMail(t, env.mailer)

	require.NoError(t, env.orders.MarkPaid(ctx, order.OrderCode))

	got, err := env.orders.GetOrder(ctx, order.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, got.Status)

	// A second webhook delivery leaves the status where the admin put it.
	_, err = env.orders.UpdateStatus(ctx, order.ID, env.createUser(t, models.RoleAdmin).ID, models.OrderStatusCompleted)
	require.NoError(t, err)
	require.NoError(t, env.orders.MarkPaid(ctx, order.OrderCode))

	got, err = env.orders.GetOrder(ctx, order.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, got.Status)

	err = env.orders.MarkPaid(ctx, "INV-unknown")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestListUserOrders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, models.RoleCustomer)
	other := env.createUser(t, models.RoleCustomer)
	product := env.createProduct(t, "Product", 10, 0, 10)

	env.addCartItem(t, user.ID, product.ID, 1)
	_, err := env.orders.PlaceOrder(ctx, user.ID, testOrderReq)
	require.NoError(t, err)
	waitForMail(t, env.mailer)

	env.addCartItem(t, other.ID, product.ID, 1)
	_, err = env.orders.PlaceOrder(ctx, other.ID, testOrderReq)
	require.NoError(t, err)
	waitForMail(t, env.mailer)

	mine, err := env.orders.ListUserOrders(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, user.ID, mine[0].UserID)
}
