package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/omarwaleed/egystore/app/helpers"
	"github.com/omarwaleed/egystore/app/models"
	"github.com/omarwaleed/egystore/app/services"
	"github.com/unrolled/render"
)

type PaymentHandler struct {
	render       *render.Render
	orderService *services.OrderService
	paymob       services.PaymobClient
}

func NewPaymentHandler(rnd *render.Render, orderService *services.OrderService, paymob services.PaymobClient) *PaymentHandler {
	return &PaymentHandler{
		render:       rnd,
		orderService: orderService,
		paymob:       paymob,
	}
}

// Checkout registers the order with the payment gateway and returns the
// payment token the storefront embeds into the payment iframe. Gateway
// failures here block the customer from paying and are surfaced.
func (h *PaymentHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())
	orderID := mux.Vars(r)["orderId"]

	order, err := h.orderService.GetOrder(r.Context(), orderID, userID)
	if err != nil {
		writeError(h.render, w, err)
		return
	}

	authToken, err := h.paymob.Authenticate(r.Context())
	if err != nil {
		writeError(h.render, w, err)
		return
	}

	gatewayOrderID, err := h.paymob.RegisterOrder(r.Context(), authToken, order)
	if err != nil {
		writeError(h.render, w, err)
		return
	}

	nameParts := strings.Fields(order.Fullname)
	firstName := order.Fullname
	lastName := "NA"
	if len(nameParts) > 1 {
		firstName = nameParts[0]
		lastName = strings.Join(nameParts[1:], " ")
	}

	customer := services.PaymentCustomer{
		FirstName: firstName,
		LastName:  lastName,
		Phone:     order.Phone,
		Address:   order.Address,
	}
	if order.User != nil {
		customer.Email = order.User.Email
	}

	paymentToken, err := h.paymob.RequestPaymentKey(r.Context(), authToken, gatewayOrderID, order.TotalPrice, customer)
	if err != nil {
		writeError(h.render, w, err)
		return
	}

	writeData(h.render, w, http.StatusOK, "payment key created", map[string]interface{}{
		"payment_token":    paymentToken,
		"gateway_order_id": gatewayOrderID,
	})
}

type webhookRequest struct {
	Type string                      `json:"type"`
	Obj  services.WebhookTransaction `json:"obj"`
}

// Webhook receives gateway transaction callbacks. The HMAC signature comes
// as a query parameter and is verified before any state change.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	signature := r.URL.Query().Get("hmac")

	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(h.render, w, err)
		return
	}

	if !h.paymob.VerifyWebhookSignature(req.Obj, signature) {
		log.Printf("PaymentHandler: webhook signature verification failed for gateway txn %d", req.Obj.ID)
		h.render.JSON(w, http.StatusUnauthorized, apiResponse{
			Message: "invalid webhook signature",
			Code:    "unauthorized",
		})
		return
	}

	if !req.Obj.Success {
		log.Printf("PaymentHandler: webhook for order %s reports unsuccessful transaction", req.Obj.Order.MerchantOrderID)
		writeData(h.render, w, http.StatusOK, "acknowledged", nil)
		return
	}

	if err := h.orderService.MarkPaid(r.Context(), req.Obj.Order.MerchantOrderID); err != nil {
		writeError(h.render, w, err)
		return
	}

	writeData(h.render, w, http.StatusOK, "payment recorded", map[string]string{
		"order_code": req.Obj.Order.MerchantOrderID,
		"status":     models.OrderStatusProcessing,
	})
}
