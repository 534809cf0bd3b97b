package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/omarwaleed/egystore/app/apperrors"
	"github.com/omarwaleed/egystore/app/models"
	"github.com/omarwaleed/egystore/app/repositories"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NotificationSender delivers order confirmations. Failures are logged and
// never affect the order.
type NotificationSender interface {
	SendHTMLEmail(to, subject, htmlBody string) error
}

// CacheInvalidator drops cached product listings after stock changes.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

type PlaceOrderRequest struct {
	Fullname string `json:"fullname" validate:"required"`
	Phone    string `json:"phone" validate:"required,len=11,numeric,startswith=01"`
	Address  string `json:"address" validate:"required"`
}

type OrderService struct {
	db            *gorm.DB
	userRepo      repositories.UserRepositoryImpl
	productRepo   repositories.ProductRepositoryImpl
	cartItemRepo  repositories.CartItemRepositoryImpl
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
	mailer        NotificationSender
	cache         CacheInvalidator
}

func NewOrderService(
	db *gorm.DB,
	userRepo repositories.UserRepositoryImpl,
	productRepo repositories.ProductRepositoryImpl,
	cartItemRepo repositories.CartItemRepositoryImpl,
	orderRepo repositories.OrderRepository,
	orderItemRepo repositories.OrderItemRepository,
	mailer NotificationSender,
	cache CacheInvalidator,
) *OrderService {
	return &OrderService{
		db:            db,
		userRepo:      userRepo,
		productRepo:   productRepo,
		cartItemRepo:  cartItemRepo,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		mailer:        mailer,
		cache:         cache,
	}
}

// PlaceOrder validates the caller's whole cart against current stock before
// any write, then reserves stock, freezes line-item snapshots, creates the
// order and clears the cart in a single transaction. A confirmation email
// goes out after commit, best-effort.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, req PlaceOrderRequest) (*models.Order, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user not found")
	}
	if user.IsAdmin() {
		return nil, apperrors.Unauthorized("admin accounts cannot place orders")
	}

	cartItems, err := s.cartItemRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	if len(cartItems) == 0 {
		return nil, apperrors.EmptyCart()
	}

	// Read-only pass over every line first: a failure on line 3 of 4 must
	// not leave lines 1-2 already decremented.
	products := make([]*models.Product, len(cartItems))
	for i, item := range cartItems {
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to get product %s: %w", item.ProductID, err)
		}
		if product == nil {
			return nil, apperrors.ProductNotFound(item.ProductID)
		}
		if product.Stock < item.Qty {
			return nil, apperrors.InsufficientStock(product.ID, product.Name, product.Stock)
		}
		products[i] = product
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC: Rolling back order transaction: %v", r)
			tx.Rollback()
		}
	}()

	totalPrice := decimal.Zero
	orderItems := make([]models.OrderItem, 0, len(cartItems))

	for i, item := range cartItems {
		product := products[i]

		// The conditional decrement re-checks stock at write time, so a
		// concurrent placement that won the race fails here instead of
		// overselling.
		if err := s.productRepo.DecrementStock(ctx, tx, product.ID, item.Qty); err != nil {
			tx.Rollback()
			if errors.Is(err, repositories.ErrStockConflict) {
				return nil, apperrors.InsufficientStock(product.ID, product.Name, product.Stock)
			}
			return nil, fmt.Errorf("failed to reserve stock for product %s: %w", product.ID, err)
		}

		unitPrice := product.FinalPrice().Round(2)
		subtotal := unitPrice.Mul(decimal.NewFromInt(int64(item.Qty)))

		orderItem := models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Qty:         item.Qty,
			Price:       unitPrice,
			Subtotal:    subtotal,
		}
		orderItem.SetImages(product.ProductImages)

		orderItems = append(orderItems, orderItem)
		totalPrice = totalPrice.Add(subtotal)
	}

	order := &models.Order{
		OrderCode:  fmt.Sprintf("INV-%s-%s", time.Now().Format("20060102"), uuid.New().String()[:8]),
		UserID:     userID,
		Fullname:   req.Fullname,
		Phone:      req.Phone,
		Address:    req.Address,
		TotalPrice: totalPrice.Round(2),
		Status:     models.OrderStatusPending,
		OrderDate:  time.Now(),
	}

	if err := s.orderRepo.Create(ctx, tx, order); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for i := range orderItems {
		orderItems[i].OrderID = order.ID
	}
	if err := s.orderItemRepo.BulkCreate(ctx, tx, orderItems); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err := s.cartItemRepo.DeleteAllForUser(ctx, tx, userID); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit order transaction: %w", err)
	}

	order.OrderItems = orderItems

	// Fire-and-forget: the order stands whether or not the email arrives.
	go func(o models.Order, email, name string) {
		body := BuildOrderReceiptBody(&o, name)
		if err := s.mailer.SendHTMLEmail(email, "Order Confirmation "+o.OrderCode, body); err != nil {
			log.Printf("PlaceOrder: failed to send confirmation email for order %s: %v", o.OrderCode, err)
		}
	}(*order, user.Email, user.Name)

	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("PlaceOrder: failed to invalidate product cache: %v", err)
	}

	return order, nil
}

// GetOrder returns one order. Reads are restricted to the order's owner or
// an admin.
func (s *OrderService) GetOrder(ctx context.Context, orderID, callerID string) (*models.Order, error) {
	caller, err := s.userRepo.FindByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get caller: %w", err)
	}
	if caller == nil {
		return nil, apperrors.Unauthorized("caller not found")
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, apperrors.NotFound("order not found")
	}

	if order.UserID != callerID && !caller.IsAdmin() {
		return nil, apperrors.Unauthorized("you do not have access to this order")
	}
	return order, nil
}

// ListOrders returns every order. Admin only.
func (s *OrderService) ListOrders(ctx context.Context, callerID string) ([]models.Order, error) {
	caller, err := s.userRepo.FindByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get caller: %w", err)
	}
	if caller == nil || !caller.IsAdmin() {
		return nil, apperrors.Unauthorized("admin role required")
	}
	return s.orderRepo.GetAllOrders(ctx)
}

// ListUserOrders returns the caller's own orders, newest first.
func (s *OrderService) ListUserOrders(ctx context.Context, callerID string) ([]models.Order, error) {
	return s.orderRepo.FindByUserID(ctx, callerID)
}

// UpdateStatus moves an order to any of the four statuses. Admin only; the
// status set is flat and no transition ordering is enforced.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, callerID, status string) (*models.Order, error) {
	caller, err := s.userRepo.FindByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get caller: %w", err)
	}
	if caller == nil || !caller.IsAdmin() {
		return nil, apperrors.Unauthorized("admin role required")
	}

	if !models.ValidOrderStatus(status) {
		return nil, apperrors.Validation(fmt.Sprintf("invalid order status %q", status))
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, apperrors.NotFound("order not found")
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = status
	return order, nil
}

// MarkPaid is the webhook path: a verified successful gateway transaction
// moves the order from pending to processing, keyed by its order code.
func (s *OrderService) MarkPaid(ctx context.Context, orderCode string) error {
	order, err := s.orderRepo.FindByCode(ctx, orderCode)
	if err != nil {
		return fmt.Errorf("failed to find order by code: %w", err)
	}
	if order == nil {
		return apperrors.NotFound(fmt.Sprintf("order %s not found", orderCode))
	}
	if order.Status != models.OrderStatusPending {
		log.Printf("MarkPaid: order %s is %s, leaving status unchanged", orderCode, order.Status)
		return nil
	}
	return s.orderRepo.UpdateStatus(ctx, order.ID, models.OrderStatusProcessing)
}

// Update is the legacy generic update endpoint: it validates existence and
// ownership and returns the order unchanged.
func (s *OrderService) Update(ctx context.Context, orderID, callerID string) (*models.Order, error) {
	return s.GetOrder(ctx, orderID, callerID)
}

// CancelOrder restores every line item's reserved stock, then permanently
// deletes the order. Restoration and deletion run in one transaction: a
// failed increment aborts the whole cancellation.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, callerID string) error {
	caller, err := s.userRepo.FindByID(ctx, callerID)
	if err != nil {
		return fmt.Errorf("failed to get caller: %w", err)
	}
	if caller == nil {
		return apperrors.Unauthorized("caller not found")
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return apperrors.NotFound("order not found")
	}
	if order.UserID != callerID && !caller.IsAdmin() {
		return apperrors.Unauthorized("you do not have access to this order")
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC: Rolling back cancellation transaction: %v", r)
			tx.Rollback()
		}
	}()

	for _, item := range order.OrderItems {
		err := s.productRepo.IncrementStock(ctx, tx, item.ProductID, item.Qty)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Product was removed from the catalog after the order was
				// placed; there is no stock row left to restore.
				log.Printf("CancelOrder: product %s no longer exists, skipping stock restore for order %s", item.ProductID, orderID)
				continue
			}
			tx.Rollback()
			return fmt.Errorf("failed to restore stock for product %s: %w", item.ProductID, err)
		}
	}

	if err := s.orderRepo.Delete(ctx, tx, orderID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete order: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit cancellation: %w", err)
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("CancelOrder: failed to invalidate product cache: %v", err)
	}
	return nil
}
