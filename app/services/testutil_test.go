package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/omarwaleed/egystore/app/models"
	"github.com/omarwaleed/egystore/app/models/migrations"
	"github.com/omarwaleed/egystore/app/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, migrations.AutoMigrate(db))
	return db
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

// stubMailer records sends; set failWith to simulate delivery failure.
type stubMailer struct {
	mu       sync.Mutex
	sent     []sentMail
	failWith error
	done     chan struct{}
}

func newStubMailer() *stubMailer {
	return &stubMailer{done: make(chan struct{}, 16)}
}

func (m *stubMailer) SendHTMLEmail(to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	m.done <- struct{}{}
	return m.failWith
}

func (m *stubMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type stubCache struct {
	mu            sync.Mutex
	invalidations int
}

func (c *stubCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
	return nil
}

func (c *stubCache) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidations
}

type testEnv struct {
	db           *gorm.DB
	userRepo     repositories.UserRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
	cartItemRepo repositories.CartItemRepositoryImpl
	orderRepo    repositories.OrderRepository
	reviewRepo   repositories.ReviewRepositoryImpl
	mailer       *stubMailer
	cache        *stubCache

	orders  *OrderService
	carts   *CartService
	reviews *ReviewService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	env := &testEnv{
		db:           db,
		userRepo:     repositories.NewUserRepository(db),
		productRepo:  repositories.NewProductRepository(db),
		cartItemRepo: repositories.NewCartItemRepository(db),
		orderRepo:    repositories.NewOrderRepository(db),
		reviewRepo:   repositories.NewReviewRepository(db),
		mailer:       newStubMailer(),
		cache:        &stubCache{},
	}

	orderItemRepo := repositories.NewOrderItemRepository(db)
	env.orders = NewOrderService(db, env.userRepo, env.productRepo, env.cartItemRepo, env.orderRepo, orderItemRepo, env.mailer, env.cache)
	env.carts = NewCartService(env.userRepo, env.cartItemRepo, env.productRepo)
	env.reviews = NewReviewService(env.reviewRepo, env.productRepo)
	return env
}

func (e *testEnv) createUser(t *testing.T, role string) *models.User {
	t.Helper()
	user := &models.User{
		Name:     "Test User",
		Email:    uuid.NewString()[:8] + "@example.com",
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createProduct(t *testing.T, name string, price float64, discountPercent int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:            name,
		Slug:            uuid.NewString(),
		Price:           decimal.NewFromFloat(price),
		DiscountPercent: decimal.NewFromInt(discountPercent),
		Stock:           stock,
		ProductImages: []models.ProductImage{
			{URL: "/images/" + name + ".jpg"},
		},
	}
	require.NoError(t, e.db.Create(product).Error)
	return product
}

func (e *testEnv) addCartItem(t *testing.T, userID, productID string, qty int) {
	t.Helper()
	require.NoError(t, e.db.Create(&models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Qty:       qty,
	}).Error)
}

func (e *testEnv) productStock(t *testing.T, productID string) int {
	t.Helper()
	product, err := e.productRepo.GetByID(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, product)
	return product.Stock
}

func (e *testEnv) cartSize(t *testing.T, userID string) int {
	t.Helper()
	count, err := e.cartItemRepo.CountByUser(context.Background(), userID)
	require.NoError(t, err)
	return count
}
