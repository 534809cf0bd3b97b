package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gosimple/slug"
	"github.com/omarwaleed/egystore/app/apperrors"
	"github.com/omarwaleed/egystore/app/helpers"
	"github.com/omarwaleed/egystore/app/models"
	"github.com/omarwaleed/egystore/app/repositories"
	"github.com/omarwaleed/egystore/app/services"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

type ProductHandler struct {
	render      *render.Render
	productRepo repositories.ProductRepositoryImpl
	cache       *services.ProductCache
}

func NewProductHandler(rnd *render.Render, productRepo repositories.ProductRepositoryImpl, cache *services.ProductCache) *ProductHandler {
	return &ProductHandler{
		render:      rnd,
		productRepo: productRepo,
		cache:       cache,
	}
}

// List serves the public listing read-through from the cache. Search and
// pagination queries bypass the cache since it only holds the full list.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	keyword := q.Get("q")
	limit, _ := strconv.Atoi(q.Get("limit"))
	page, _ := strconv.Atoi(q.Get("page"))

	if keyword != "" || limit > 0 || page > 0 {
		if limit <= 0 {
			limit = 20
		}
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * limit

		var (
			products []models.Product
			total    int64
			err      error
		)
		if keyword != "" {
			products, total, err = h.productRepo.SearchProductsPaginated(r.Context(), keyword, limit, offset)
		} else {
			products, total, err = h.productRepo.GetPaginated(r.Context(), limit, offset)
		}
		if err != nil {
			writeError(h.render, w, err)
			return
		}
		writeData(h.render, w, http.StatusOK, "products", map[string]interface{}{
			"products": products,
			"total":    total,
			"page":     page,
			"limit":    limit,
		})
		return
	}

	if products, ok := h.cache.GetList(r.Context()); ok {
		writeData(h.render, w, http.StatusOK, "products", map[string]interface{}{"products": products})
		return
	}

	products, err := h.productRepo.GetProducts(r.Context())
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	h.cache.SetList(r.Context(), products)

	writeData(h.render, w, http.StatusOK, "products", map[string]interface{}{"products": products})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	product, err := h.productRepo.GetByID(r.Context(), id)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	if product == nil {
		writeError(h.render, w, apperrors.ProductNotFound(id))
		return
	}
	writeData(h.render, w, http.StatusOK, "product", product)
}

type productRequest struct {
	Name            string   `json:"name" validate:"required"`
	Description     string   `json:"description"`
	Price           string   `json:"price" validate:"required"`
	DiscountPercent string   `json:"discount_percent"`
	Stock           int      `json:"stock" validate:"gte=0"`
	CategoryID      string   `json:"category_id" validate:"required"`
	SubcategoryID   *string  `json:"subcategory_id"`
	ImageURLs       []string `json:"image_urls"`
}

func (h *ProductHandler) parseProduct(req productRequest) (*models.Product, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.Validation("price must be a positive decimal")
	}

	discount := decimal.Zero
	if req.DiscountPercent != "" {
		discount, err = decimal.NewFromString(req.DiscountPercent)
		if err != nil || discount.IsNegative() || discount.GreaterThan(decimal.NewFromInt(100)) {
			return nil, apperrors.Validation("discount_percent must be between 0 and 100")
		}
	}

	product := &models.Product{
		Name:            req.Name,
		Slug:            slug.Make(req.Name),
		Description:     req.Description,
		Price:           price,
		DiscountPercent: discount,
		Stock:           req.Stock,
		CategoryID:      req.CategoryID,
		SubcategoryID:   req.SubcategoryID,
	}
	for i, url := range req.ImageURLs {
		product.ProductImages = append(product.ProductImages, models.ProductImage{URL: url, Position: i})
	}
	return product, nil
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}
	if err := helpers.Validate.Struct(req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}

	product, err := h.parseProduct(req)
	if err != nil {
		writeError(h.render, w, err)
		return
	}

	if err := h.productRepo.Create(r.Context(), product); err != nil {
		writeError(h.render, w, err)
		return
	}
	h.invalidateCache(r)

	writeData(h.render, w, http.StatusCreated, "product created", product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	existing, err := h.productRepo.GetByID(r.Context(), id)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	if existing == nil {
		writeError(h.render, w, apperrors.ProductNotFound(id))
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}
	if err := helpers.Validate.Struct(req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}

	updated, err := h.parseProduct(req)
	if err != nil {
		writeError(h.render, w, err)
		return
	}

	existing.Name = updated.Name
	existing.Slug = updated.Slug
	existing.Description = updated.Description
	existing.Price = updated.Price
	existing.DiscountPercent = updated.DiscountPercent
	existing.Stock = updated.Stock
	existing.CategoryID = updated.CategoryID
	existing.SubcategoryID = updated.SubcategoryID

	if err := h.productRepo.Update(r.Context(), existing); err != nil {
		writeError(h.render, w, err)
		return
	}
	h.invalidateCache(r)

	writeData(h.render, w, http.StatusOK, "product updated", existing)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	existing, err := h.productRepo.GetByID(r.Context(), id)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	if existing == nil {
		writeError(h.render, w, apperrors.ProductNotFound(id))
		return
	}

	if err := h.productRepo.Delete(r.Context(), id); err != nil {
		writeError(h.render, w, err)
		return
	}
	h.invalidateCache(r)

	writeData(h.render, w, http.StatusOK, "product deleted", nil)
}

func (h *ProductHandler) invalidateCache(r *http.Request) {
	if err := h.cache.Invalidate(r.Context()); err != nil {
		log.Printf("ProductHandler: failed to invalidate product cache: %v", err)
	}
}
