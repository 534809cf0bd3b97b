package services

import (
	"context"
	"fmt"
	"log"

	"github.com/omarwaleed/egystore/app/apperrors"
	"github.com/omarwaleed/egystore/app/models"
	"github.com/omarwaleed/egystore/app/repositories"
	"github.com/shopspring/decimal"
)

type ReviewService struct {
	reviewRepo  repositories.ReviewRepositoryImpl
	productRepo repositories.ProductRepositoryImpl
}

func NewReviewService(reviewRepo repositories.ReviewRepositoryImpl, productRepo repositories.ProductRepositoryImpl) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

// CreateReview adds a review for a product. One review per
// (product, author) pair; a second attempt by the same author fails.
func (s *ReviewService) CreateReview(ctx context.Context, productID, author, text string, rating int) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.Validation("rating must be between 1 and 5")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, apperrors.ProductNotFound(productID)
	}

	existing, err := s.reviewRepo.FindByProductAndAuthor(ctx, productID, author)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if existing != nil {
		return nil, apperrors.Validation(fmt.Sprintf("%s already reviewed this product", author))
	}

	review := &models.Review{
		ProductID: productID,
		Author:    author,
		Text:      text,
		Rating:    rating,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.refreshProductRating(ctx, productID)
	return review, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, reviewID, text string, rating int) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.Validation("rating must be between 1 and 5")
	}

	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	if review == nil {
		return nil, apperrors.NotFound("review not found")
	}

	review.Text = text
	review.Rating = rating
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	s.refreshProductRating(ctx, review.ProductID)
	return review, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, reviewID string) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("failed to get review: %w", err)
	}
	if review == nil {
		return apperrors.NotFound("review not found")
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	s.refreshProductRating(ctx, review.ProductID)
	return nil
}

func (s *ReviewService) ListByProduct(ctx context.Context, productID string) ([]models.Review, error) {
	return s.reviewRepo.FindByProduct(ctx, productID)
}

func (s *ReviewService) refreshProductRating(ctx context.Context, productID string) {
	avg, count, err := s.reviewRepo.AggregateForProduct(ctx, productID)
	if err != nil {
		log.Printf("refreshProductRating: failed to aggregate reviews for product %s: %v", productID, err)
		return
	}
	if err := s.productRepo.UpdateRating(ctx, productID, decimal.NewFromFloat(avg).Round(2), int(count)); err != nil {
		log.Printf("refreshProductRating: failed to update rating for product %s: %v", productID, err)
	}
}
