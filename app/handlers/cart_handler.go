package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/omarwaleed/egystore/app/helpers"
	"github.com/omarwaleed/egystore/app/services"
	"github.com/unrolled/render"
)

type CartHandler struct {
	render      *render.Render
	cartService *services.CartService
}

func NewCartHandler(rnd *render.Render, cartService *services.CartService) *CartHandler {
	return &CartHandler{
		render:      rnd,
		cartService: cartService,
	}
}

type cartMutationRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Qty       int    `json:"qty"`
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())

	cart, err := h.cartService.GetCart(r.Context(), userID)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	writeData(h.render, w, http.StatusOK, "cart", cart)
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())

	var req cartMutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}
	if err := helpers.Validate.Struct(req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}

	cart, err := h.cartService.AddItem(r.Context(), userID, req.ProductID, req.Qty)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	writeData(h.render, w, http.StatusOK, "item added to cart", cart)
}

func (h *CartHandler) UpdateQty(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())

	var req cartMutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}
	if err := helpers.Validate.Struct(req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}

	cart, err := h.cartService.UpdateQty(r.Context(), userID, req.ProductID, req.Qty)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	writeData(h.render, w, http.StatusOK, "cart updated", cart)
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())
	productID := mux.Vars(r)["productId"]

	cart, err := h.cartService.RemoveItem(r.Context(), userID, productID)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	writeData(h.render, w, http.StatusOK, "item removed from cart", cart)
}
