package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gosimple/slug"
	"github.com/omarwaleed/egystore/app/apperrors"
	"github.com/omarwaleed/egystore/app/helpers"
	"github.com/omarwaleed/egystore/app/models"
	"github.com/omarwaleed/egystore/app/repositories"
	"github.com/unrolled/render"
)

type CategoryHandler struct {
	render       *render.Render
	categoryRepo repositories.CategoryRepositoryImpl
}

func NewCategoryHandler(rnd *render.Render, categoryRepo repositories.CategoryRepositoryImpl) *CategoryHandler {
	return &CategoryHandler{
		render:       rnd,
		categoryRepo: categoryRepo,
	}
}

type categoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type subcategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryRepo.GetAll(r.Context())
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	writeData(h.render, w, http.StatusOK, "categories", categories)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	category, err := h.categoryRepo.GetByID(r.Context(), id)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	if category == nil {
		writeError(h.render, w, apperrors.NotFound("category not found"))
		return
	}
	writeData(h.render, w, http.StatusOK, "category", category)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}
	if err := helpers.Validate.Struct(req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}

	category := &models.Category{
		Name: req.Name,
		Slug: slug.Make(req.Name),
	}
	if err := h.categoryRepo.Create(r.Context(), category); err != nil {
		writeError(h.render, w, err)
		return
	}
	writeData(h.render, w, http.StatusCreated, "category created", category)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	category, err := h.categoryRepo.GetByID(r.Context(), id)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	if category == nil {
		writeError(h.render, w, apperrors.NotFound("category not found"))
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}
	if err := helpers.Validate.Struct(req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}

	category.Name = req.Name
	category.Slug = slug.Make(req.Name)
	if err := h.categoryRepo.Update(r.Context(), category); err != nil {
		writeError(h.render, w, err)
		return
	}
	writeData(h.render, w, http.StatusOK, "category updated", category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	category, err := h.categoryRepo.GetByID(r.Context(), id)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	if category == nil {
		writeError(h.render, w, apperrors.NotFound("category not found"))
		return
	}

	if err := h.categoryRepo.Delete(r.Context(), id); err != nil {
		writeError(h.render, w, err)
		return
	}
	writeData(h.render, w, http.StatusOK, "category deleted", nil)
}

// AddSubcategory creates a child of a category. Subcategory names are
// unique within their parent, case-insensitive.
func (h *CategoryHandler) AddSubcategory(w http.ResponseWriter, r *http.Request) {
	categoryID := mux.Vars(r)["id"]

	category, err := h.categoryRepo.GetByID(r.Context(), categoryID)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	if category == nil {
		writeError(h.render, w, apperrors.NotFound("category not found"))
		return
	}

	var req subcategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}
	if err := helpers.Validate.Struct(req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}

	existing, err := h.categoryRepo.FindSubcategoryByName(r.Context(), categoryID, req.Name)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	if existing != nil {
		writeError(h.render, w, apperrors.Validation("subcategory name already exists in this category"))
		return
	}

	sub := &models.Subcategory{
		CategoryID: categoryID,
		Name:       req.Name,
	}
	if err := h.categoryRepo.CreateSubcategory(r.Context(), sub); err != nil {
		writeError(h.render, w, err)
		return
	}
	writeData(h.render, w, http.StatusCreated, "subcategory created", sub)
}

func (h *CategoryHandler) DeleteSubcategory(w http.ResponseWriter, r *http.Request) {
	subID := mux.Vars(r)["subId"]

	if err := h.categoryRepo.DeleteSubcategory(r.Context(), subID); err != nil {
		writeError(h.render, w, err)
		return
	}
	writeData(h.render, w, http.StatusOK, "subcategory deleted", nil)
}
