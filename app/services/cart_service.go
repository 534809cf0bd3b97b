package services

import (
	"context"
	"fmt"
	"time"

	"github.com/omarwaleed/egystore/app/apperrors"
	"github.com/omarwaleed/egystore/app/models"
	"github.com/omarwaleed/egystore/app/repositories"
	"github.com/omarwaleed/egystore/app/utils/format"
	"github.com/shopspring/decimal"
)

type CartSummary struct {
	Items             []models.CartItem `json:"items"`
	Subtotal          decimal.Decimal   `json:"subtotal"`
	FormattedSubtotal string            `json:"formatted_subtotal"`
}

type CartService struct {
	userRepo     repositories.UserRepositoryImpl
	cartItemRepo repositories.CartItemRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
}

func NewCartService(userRepo repositories.UserRepositoryImpl, cartItemRepo repositories.CartItemRepositoryImpl, productRepo repositories.ProductRepositoryImpl) *CartService {
	return &CartService{
		userRepo:     userRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

func (s *CartService) requireCustomer(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return apperrors.Unauthorized("user not found")
	}
	if user.IsAdmin() {
		return apperrors.Unauthorized("admin accounts cannot hold a cart")
	}
	return nil
}

// AddItem adds qty of a product to the user's cart. A repeat add of the
// same product increments the existing row instead of duplicating it.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, qty int) (*CartSummary, error) {
	if qty <= 0 {
		qty = 1
	}
	if err := s.requireCustomer(ctx, userID); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, apperrors.ProductNotFound(productID)
	}

	existing, err := s.cartItemRepo.GetByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing cart item: %w", err)
	}

	newQty := qty
	if existing != nil {
		newQty = existing.Qty + qty
	}
	if product.Stock < newQty {
		return nil, apperrors.InsufficientStock(product.ID, product.Name, product.Stock)
	}

	if existing != nil {
		existing.Qty = newQty
		existing.UpdatedAt = time.Now()
		if err := s.cartItemRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	} else {
		item := &models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Qty:       newQty,
		}
		if err := s.cartItemRepo.Add(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
	}

	return s.GetCart(ctx, userID)
}

// UpdateQty sets a cart line's quantity; zero or below removes the line.
func (s *CartService) UpdateQty(ctx context.Context, userID, productID string, qty int) (*CartSummary, error) {
	if err := s.requireCustomer(ctx, userID); err != nil {
		return nil, err
	}

	if qty <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	item, err := s.cartItemRepo.GetByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	if item == nil {
		return nil, apperrors.NotFound("cart item not found")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, apperrors.ProductNotFound(productID)
	}
	if product.Stock < qty {
		return nil, apperrors.InsufficientStock(product.ID, product.Name, product.Stock)
	}

	item.Qty = qty
	item.UpdatedAt = time.Now()
	if err := s.cartItemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	return s.GetCart(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*CartSummary, error) {
	if err := s.requireCustomer(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.cartItemRepo.Delete(ctx, userID, productID); err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}

	return s.GetCart(ctx, userID)
}

// GetCart returns the cart rows with products preloaded and a subtotal
// computed from current discounted unit prices.
func (s *CartService) GetCart(ctx context.Context, userID string) (*CartSummary, error) {
	if err := s.requireCustomer(ctx, userID); err != nil {
		return nil, err
	}

	items, err := s.cartItemRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}

	subtotal := decimal.Zero
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		subtotal = subtotal.Add(item.Product.FinalPrice().Mul(decimal.NewFromInt(int64(item.Qty))))
	}
	subtotal = subtotal.Round(2)

	return &CartSummary{
		Items:             items,
		Subtotal:          subtotal,
		FormattedSubtotal: format.Money(subtotal),
	}, nil
}
