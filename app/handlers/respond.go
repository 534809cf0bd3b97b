package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/omarwaleed/egystore/app/apperrors"
	"github.com/unrolled/render"
)

type apiResponse struct {
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeData(rnd *render.Render, w http.ResponseWriter, status int, message string, data interface{}) {
	rnd.JSON(w, status, apiResponse{Message: message, Data: data})
}

// writeError maps an error's kind onto its HTTP status. Anything that is
// not an apperror is a 500 with a generic message.
func writeError(rnd *render.Render, w http.ResponseWriter, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		rnd.JSON(w, appErr.StatusCode(), apiResponse{
			Message: appErr.Message,
			Code:    string(appErr.Kind),
		})
		return
	}

	log.Printf("internal error: %v", err)
	rnd.JSON(w, http.StatusInternalServerError, apiResponse{
		Message: "internal server error",
		Code:    "internal",
	})
}

func writeValidationError(rnd *render.Render, w http.ResponseWriter, err error) {
	rnd.JSON(w, http.StatusBadRequest, apiResponse{
		Message: err.Error(),
		Code:    string(apperrors.KindValidation),
	})
}
