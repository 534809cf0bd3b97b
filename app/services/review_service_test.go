package services

import (
	"context"
	"testing"

	"github.com/omarwaleed/egystore/app/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "Product", 10, 0, 5)

	review, err := env.reviews.CreateReview(ctx, product.ID, "mona", "great value", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)
	assert.NotEmpty(t, review.ID)

	got, err := env.productRepo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.RatingCount)
	assert.True(t, got.RatingAvg.Equal(decimal.NewFromInt(4)), "rating was %s", got.RatingAvg)
}

func TestCreateReviewRejectsDuplicateAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "Product", 10, 0, 5)

	_, err := env.reviews.CreateReview(ctx, product.ID, "mona", "great", 4)
	require.NoError(t, err)

	_, err = env.reviews.CreateReview(ctx, product.ID, "mona", "changed my mind", 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	// A different author is fine.
	_, err = env.reviews.CreateReview(ctx, product.ID, "khaled", "meh", 2)
	require.NoError(t, err)
}

func TestCreateReviewRatingBounds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "Product", 10, 0, 5)

	for _, rating := range []int{0, 6, -1} {
		_, err := env.reviews.CreateReview(ctx, product.ID, "mona", "x", rating)
		require.Error(t, err, "rating %d should be rejected", rating)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	}
}

func TestCreateReviewUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.reviews.CreateReview(context.Background(), "missing", "mona", "x", 3)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindProductNotFound, apperrors.KindOf(err))
}

func TestUpdateReviewRefreshesAggregate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "Product", 10, 0, 5)

	review, err := env.reviews.CreateReview(ctx, product.ID, "mona", "good", 4)
	require.NoError(t, err)
	_, err = env.reviews.CreateReview(ctx, product.ID, "khaled", "bad", 2)
	require.NoError(t, err)

	updated, err := env.reviews.UpdateReview(ctx, review.ID, "actually excellent", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "actually excellent", updated.Text)

	got, err := env.productRepo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.RatingCount)
	// (5 + 2) / 2 = 3.5
	assert.True(t, got.RatingAvg.Equal(decimal.RequireFromString("3.5")), "rating was %s", got.RatingAvg)
}

func TestDeleteReviewRefreshesAggregate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "Product", 10, 0, 5)

	review, err := env.reviews.CreateReview(ctx, product.ID, "mona", "good", 4)
	require.NoError(t, err)
	_, err = env.reviews.CreateReview(ctx, product.ID, "khaled", "bad", 2)
	require.NoError(t, err)

	require.NoError(t, env.reviews.DeleteReview(ctx, review.ID))

	got, err := env.productRepo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.RatingCount)
	assert.True(t, got.RatingAvg.Equal(decimal.NewFromInt(2)), "rating was %s", got.RatingAvg)

	err = env.reviews.DeleteReview(ctx, review.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestListByProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p1 := env.createProduct(t, "P1", 10, 0, 5)
	p2 := env.createProduct(t, "P2", 10, 0, 5)

	_, err := env.reviews.CreateReview(ctx, p1.ID, "mona", "a", 4)
	require.NoError(t, err)
	_, err = env.reviews.CreateReview(ctx, p1.ID, "khaled", "b", 3)
	require.NoError(t, err)
	_, err = env.reviews.CreateReview(ctx, p2.ID, "mona", "c", 5)
	require.NoError(t, err)

	reviews, err := env.reviews.ListByProduct(ctx, p1.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}
