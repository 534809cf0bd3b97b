package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/omarwaleed/egystore/app/helpers"
	"github.com/omarwaleed/egystore/app/services"
	"github.com/unrolled/render"
)

type ReviewHandler struct {
	render        *render.Render
	reviewService *services.ReviewService
}

func NewReviewHandler(rnd *render.Render, reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		render:        rnd,
		reviewService: reviewService,
	}
}

type reviewRequest struct {
	Author string `json:"author" validate:"required"`
	Text   string `json:"text" validate:"required"`
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productId"]

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}
	if err := helpers.Validate.Struct(req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}

	review, err := h.reviewService.CreateReview(r.Context(), productID, req.Author, req.Text, req.Rating)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	writeData(h.render, w, http.StatusCreated, "review created", review)
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	reviewID := mux.Vars(r)["id"]

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}
	if err := helpers.Validate.Struct(req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}

	review, err := h.reviewService.UpdateReview(r.Context(), reviewID, req.Text, req.Rating)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	writeData(h.render, w, http.StatusOK, "review updated", review)
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	reviewID := mux.Vars(r)["id"]

	if err := h.reviewService.DeleteReview(r.Context(), reviewID); err != nil {
		writeError(h.render, w, err)
		return
	}
	writeData(h.render, w, http.StatusOK, "review deleted", nil)
}

func (h *ReviewHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productId"]

	reviews, err := h.reviewService.ListByProduct(r.Context(), productID)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	writeData(h.render, w, http.StatusOK, "reviews", reviews)
}
