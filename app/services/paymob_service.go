package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/omarwaleed/egystore/app/apperrors"
	"github.com/omarwaleed/egystore/app/models"
	"github.com/shopspring/decimal"
)

type PaymentCustomer struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
}

type PaymobClient interface {
	Authenticate(ctx context.Context) (string, error)
	RegisterOrder(ctx context.Context, authToken string, order *models.Order) (int64, error)
	RequestPaymentKey(ctx context.Context, authToken string, gatewayOrderID int64, amount decimal.Decimal, customer PaymentCustomer) (string, error)
	VerifyWebhookSignature(payload WebhookTransaction, signature string) bool
}

type PaymobService struct {
	client        *http.Client
	apiKey        string
	integrationID string
	hmacSecret    string
	baseURL       string
}

func NewPaymobService(baseURL, apiKey, integrationID, hmacSecret string) *PaymobService {
	return &PaymobService{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:        apiKey,
		integrationID: integrationID,
		hmacSecret:    hmacSecret,
		baseURL:       baseURL,
	}
}

func (s *PaymobService) postJSON(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform request to Paymob: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("PaymobService: %s returned status %d, body: %s", path, resp.StatusCode, string(raw))
		return fmt.Errorf("paymob API error: status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse Paymob response: %w", err)
	}
	return nil
}

// Authenticate exchanges the API key for a short-lived auth token.
func (s *PaymobService) Authenticate(ctx context.Context) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	err := s.postJSON(ctx, "/auth/tokens", map[string]string{"api_key": s.apiKey}, &resp)
	if err != nil {
		return "", apperrors.ExternalService("payment gateway authentication failed", err)
	}
	if resp.Token == "" {
		return "", apperrors.ExternalService("payment gateway returned empty auth token", nil)
	}
	return resp.Token, nil
}

// RegisterOrder mirrors the local order at the gateway. Amounts are sent in
// cents.
func (s *PaymobService) RegisterOrder(ctx context.Context, authToken string, order *models.Order) (int64, error) {
	items := make([]map[string]interface{}, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		items = append(items, map[string]interface{}{
			"name":         item.ProductName,
			"amount_cents": amountCents(item.Price),
			"quantity":     item.Qty,
		})
	}

	payload := map[string]interface{}{
		"auth_token":        authToken,
		"delivery_needed":   false,
		"amount_cents":      amountCents(order.TotalPrice),
		"currency":          "EGP",
		"merchant_order_id": order.OrderCode,
		"items":             items,
	}

	var resp struct {
		ID int64 `json:"id"`
	}
	if err := s.postJSON(ctx, "/ecommerce/orders", payload, &resp); err != nil {
		return 0, apperrors.ExternalService("payment gateway order registration failed", err)
	}
	if resp.ID == 0 {
		return 0, apperrors.ExternalService("payment gateway returned empty order id", nil)
	}
	return resp.ID, nil
}

// RequestPaymentKey obtains the token the storefront embeds into the
// payment iframe.
func (s *PaymobService) RequestPaymentKey(ctx context.Context, authToken string, gatewayOrderID int64, amount decimal.Decimal, customer PaymentCustomer) (string, error) {
	payload := map[string]interface{}{
		"auth_token":     authToken,
		"amount_cents":   amountCents(amount),
		"expiration":     3600,
		"order_id":       gatewayOrderID,
		"currency":       "EGP",
		"integration_id": s.integrationID,
		"billing_data": map[string]string{
			"first_name":      customer.FirstName,
			"last_name":       customer.LastName,
			"email":           customer.Email,
			"phone_number":    customer.Phone,
			"street":          customer.Address,
			"apartment":       "NA",
			"floor":           "NA",
			"building":        "NA",
			"city":            "NA",
			"state":           "NA",
			"country":         "EG",
			"postal_code":     "NA",
			"shipping_method": "NA",
		},
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := s.postJSON(ctx, "/acquirers/payment_keys", payload, &resp); err != nil {
		return "", apperrors.ExternalService("payment key request failed", err)
	}
	if resp.Token == "" {
		return "", apperrors.ExternalService("payment gateway returned empty payment token", nil)
	}
	return resp.Token, nil
}

// WebhookTransaction is the transaction object delivered to the payment
// webhook. Field set matches the gateway's documented HMAC input list.
type WebhookTransaction struct {
	AmountCents          int64  `json:"amount_cents"`
	CreatedAt            string `json:"created_at"`
	Currency             string `json:"currency"`
	ErrorOccured         bool   `json:"error_occured"`
	HasParentTransaction bool   `json:"has_parent_transaction"`
	ID                   int64  `json:"id"`
	IntegrationID        int64  `json:"integration_id"`
	Is3DSecure           bool   `json:"is_3d_secure"`
	IsAuth               bool   `json:"is_auth"`
	IsCapture            bool   `json:"is_capture"`
	IsRefunded           bool   `json:"is_refunded"`
	IsStandalonePayment  bool   `json:"is_standalone_payment"`
	IsVoided             bool   `json:"is_voided"`
	Order                struct {
		ID              int64  `json:"id"`
		MerchantOrderID string `json:"merchant_order_id"`
	} `json:"order"`
	Owner      int64 `json:"owner"`
	Pending    bool  `json:"pending"`
	SourceData struct {
		Pan     string `json:"pan"`
		SubType string `json:"sub_type"`
		Type    string `json:"type"`
	} `json:"source_data"`
	Success bool `json:"success"`
}

// hmacConcat builds the gateway's signature input: the documented fields in
// lexicographic order, booleans rendered as "true"/"false".
func (t WebhookTransaction) hmacConcat() string {
	return t.fieldString(t.AmountCents) +
		t.CreatedAt +
		t.Currency +
		strconv.FormatBool(t.ErrorOccured) +
		strconv.FormatBool(t.HasParentTransaction) +
		t.fieldString(t.ID) +
		t.fieldString(t.IntegrationID) +
		strconv.FormatBool(t.Is3DSecure) +
		strconv.FormatBool(t.IsAuth) +
		strconv.FormatBool(t.IsCapture) +
		strconv.FormatBool(t.IsRefunded) +
		strconv.FormatBool(t.IsStandalonePayment) +
		strconv.FormatBool(t.IsVoided) +
		t.fieldString(t.Order.ID) +
		t.fieldString(t.Owner) +
		strconv.FormatBool(t.Pending) +
		t.SourceData.Pan +
		t.SourceData.SubType +
		t.SourceData.Type +
		strconv.FormatBool(t.Success)
}

func (t WebhookTransaction) fieldString(v int64) string {
	return strconv.FormatInt(v, 10)
}

// VerifyWebhookSignature checks the hex-encoded HMAC-SHA512 the gateway
// attaches to webhook calls. Constant-time compare.
func (s *PaymobService) VerifyWebhookSignature(payload WebhookTransaction, signature string) bool {
	mac := hmac.New(sha512.New, []byte(s.hmacSecret))
	mac.Write([]byte(payload.hmacConcat()))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func amountCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
