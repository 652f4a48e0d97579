package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Gateway is the payment collaborator contract. The engine computes
// every amount itself; the gateway only collects it and hands back a
// verifiable reference.
type Gateway interface {
	CreateOrder(ctx context.Context, amount float64, receipt string, notes map[string]string) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// Order is a gateway order awaiting client-side collection.
type Order struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`   // major currency units
	Currency string  `json:"currency"`
	KeyID    string  `json:"key_id"` // public key for the hosted checkout widget
}

// RazorpayService talks to the Razorpay Orders API and verifies
// checkout callbacks.
type RazorpayService struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Currency  string

	client *http.Client
}

func NewRazorpayService(keyID, keySecret, baseURL, currency string) *RazorpayService {
	if baseURL == "" {
		baseURL = "https://api.razorpay.com/v1"
	}
	if currency == "" {
		currency = "INR"
	}
	return &RazorpayService{
		KeyID:     keyID,
		KeySecret: keySecret,
		BaseURL:   baseURL,
		Currency:  currency,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateOrder registers an order for the given amount (major units;
// the API takes the smallest currency unit, so rupees are sent as
// paise).
func (r *RazorpayService) CreateOrder(ctx context.Context, amount float64, receipt string, notes map[string]string) (*Order, error) {
	payload := map[string]interface{}{
		"amount":   int64(amount*100 + 0.5),
		"currency": r.Currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		payload["notes"] = notes
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(r.KeyID, r.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay order request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("razorpay order creation returned %d: %s", resp.StatusCode, raw)
	}

	var created struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("razorpay order response decode failed: %w", err)
	}

	return &Order{
		ID:       created.ID,
		Amount:   float64(created.Amount) / 100,
		Currency: created.Currency,
		KeyID:    r.KeyID,
	}, nil
}

// VerifySignature checks the checkout callback signature:
// HMAC-SHA256(secret, orderID + "|" + paymentID). Whatever the client
// callback claimed, a bad signature means the payment did not happen.
func (r *RazorpayService) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(r.KeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
