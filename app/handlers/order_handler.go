package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/omarwaleed/egystore/app/helpers"
	"github.com/omarwaleed/egystore/app/services"
	"github.com/unrolled/render"
)

type OrderHandler struct {
	render       *render.Render
	orderService *services.OrderService
}

func NewOrderHandler(rnd *render.Render, orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		render:       rnd,
		orderService: orderService,
	}
}

// AddOrder places an order from the caller's cart.
func (h *OrderHandler) AddOrder(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())

	var req services.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}
	if err := helpers.Validate.Struct(req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}

	order, err := h.orderService.PlaceOrder(r.Context(), userID, req)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	writeData(h.render, w, http.StatusCreated, "order placed", order)
}

func (h *OrderHandler) Show(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())
	orderID := mux.Vars(r)["id"]

	order, err := h.orderService.GetOrder(r.Context(), orderID, userID)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	writeData(h.render, w, http.StatusOK, "order", order)
}

// ListAll returns every order. Admin only, enforced in the service as well
// as by the route's middleware chain.
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())

	orders, err := h.orderService.ListOrders(r.Context(), userID)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	writeData(h.render, w, http.StatusOK, "orders", orders)
}

func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())

	orders, err := h.orderService.ListUserOrders(r.Context(), userID)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	writeData(h.render, w, http.StatusOK, "orders", orders)
}

// Update is the legacy generic update: the body is accepted and discarded,
// the order is returned unchanged.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())
	orderID := mux.Vars(r)["id"]

	order, err := h.orderService.Update(r.Context(), orderID, userID)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	writeData(h.render, w, http.StatusOK, "order", order)
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())
	orderID := mux.Vars(r)["id"]

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}
	if err := helpers.Validate.Struct(req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), orderID, userID, req.Status)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	writeData(h.render, w, http.StatusOK, "order status updated", order)
}

// Delete cancels an order: stock is restored, then the order is removed.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())
	orderID := mux.Vars(r)["id"]

	if err := h.orderService.CancelOrder(r.Context(), orderID, userID); err != nil {
		writeError(h.render, w, err)
		return
	}
	writeData(h.render, w, http.StatusOK, "order cancelled", nil)
}
