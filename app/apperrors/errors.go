// Package apperrors defines the stable, machine-readable error kinds the
// API surfaces alongside human-readable messages.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindUnauthorized      Kind = "unauthorized"
	KindNotFound          Kind = "not_found"
	KindEmptyCart         Kind = "empty_cart"
	KindInsufficientStock Kind = "insufficient_stock"
	KindProductNotFound   Kind = "product_not_found"
	KindValidation        Kind = "validation"
	KindExternalService   Kind = "external_service"
)

type Error struct {
	Kind    Kind
	Message string

	// Set for insufficient_stock and product_not_found.
	ProductID string
	Available int

	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match any two apperrors of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindUnauthorized:
		return http.StatusForbidden
	case KindNotFound, KindProductNotFound:
		return http.StatusNotFound
	case KindEmptyCart, KindValidation:
		return http.StatusBadRequest
	case KindInsufficientStock:
		return http.StatusConflict
	case KindExternalService:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func EmptyCart() *Error {
	return New(KindEmptyCart, "cart is empty")
}

func ProductNotFound(productID string) *Error {
	return &Error{
		Kind:      KindProductNotFound,
		Message:   fmt.Sprintf("product %s not found", productID),
		ProductID: productID,
	}
}

func InsufficientStock(productID, name string, available int) *Error {
	return &Error{
		Kind:      KindInsufficientStock,
		Message:   fmt.Sprintf("product '%s' has insufficient stock. Available: %d", name, available),
		ProductID: productID,
		Available: available,
	}
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func ExternalService(message string, err error) *Error {
	return Wrap(KindExternalService, message, err)
}

// KindOf returns the kind carried by err, or "" if err is not an apperror.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
