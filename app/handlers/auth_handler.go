package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/omarwaleed/egystore/app/configs"
	"github.com/omarwaleed/egystore/app/helpers"
	"github.com/omarwaleed/egystore/app/models"
	"github.com/omarwaleed/egystore/app/repositories"
	"github.com/unrolled/render"
)

type AuthHandler struct {
	render   *render.Render
	userRepo repositories.UserRepositoryImpl
	env      configs.ENV
}

func NewAuthHandler(rnd *render.Render, userRepo repositories.UserRepositoryImpl, env configs.ENV) *AuthHandler {
	return &AuthHandler{
		render:   rnd,
		userRepo: userRepo,
		env:      env,
	}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}
	if err := helpers.Validate.Struct(req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}

	existing, err := h.userRepo.FindByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	if existing != nil {
		h.render.JSON(w, http.StatusConflict, apiResponse{Message: "email already registered", Code: "validation"})
		return
	}

	hashed, err := helpers.HashPassword(req.Password)
	if err != nil {
		writeError(h.render, w, err)
		return
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
		Role:     models.RoleCustomer,
	}
	if err := h.userRepo.Create(r.Context(), user); err != nil {
		writeError(h.render, w, err)
		return
	}

	token, err := helpers.GenerateToken(h.env.JWTSecret, user)
	if err != nil {
		writeError(h.render, w, err)
		return
	}

	writeData(h.render, w, http.StatusCreated, "registered", map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}
	if err := helpers.Validate.Struct(req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}

	user, err := h.userRepo.FindByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	if user == nil || !helpers.CheckPassword(user.Password, req.Password) {
		h.render.JSON(w, http.StatusUnauthorized, apiResponse{Message: "invalid email or password", Code: "unauthenticated"})
		return
	}

	token, err := helpers.GenerateToken(h.env.JWTSecret, user)
	if err != nil {
		writeError(h.render, w, err)
		return
	}

	writeData(h.render, w, http.StatusOK, "logged in", map[string]interface{}{
		"user":  user,
		"token": token,
	})
}
