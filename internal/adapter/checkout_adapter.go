package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutGateway is the Anti-Corruption Layer interface for the payment
// provider. Only one operation matters to this service: create a checkout
// reference for an amount, or fail. Pricing is already final either way.
type CheckoutGateway interface {
	// CreateCheckoutSession creates a hosted checkout session and returns
	// its redirect URL.
	CreateCheckoutSession(ctx context.Context, bookingID uuid.UUID, amount float64, currency string) (string, error)
}

// StripeCheckoutGateway implements CheckoutGateway against the Stripe
// Checkout Sessions API.
type StripeCheckoutGateway struct {
	secretKey  string
	successURL string
	cancelURL  string
	client     *http.Client
	logger     *zap.Logger
}

// NewStripeCheckoutGateway creates a Stripe-backed checkout gateway.
func NewStripeCheckoutGateway(secretKey, successURL, cancelURL string, logger *zap.Logger) *StripeCheckoutGateway {
	return &StripeCheckoutGateway{
		secretKey:  secretKey,
		successURL: successURL,
		cancelURL:  cancelURL,
		client:     &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}
}

// CreateCheckoutSession posts a single-line-item payment session to Stripe
// and returns the hosted page URL.
func (g *StripeCheckoutGateway) CreateCheckoutSession(ctx context.Context, bookingID uuid.UUID, amount float64, currency string) (string, error) {
	amountCents := int64(amount*100 + 0.5)

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", g.successURL+"?booking_id="+bookingID.String())
	form.Set("cancel_url", g.cancelURL+"?booking_id="+bookingID.String())
	form.Set("line_items[0][price_data][currency]", strings.ToLower(currency))
	form.Set("line_items[0][price_data][product_data][name]", "Parking Booking "+bookingID.String())
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(amountCents, 10))
	form.Set("line_items[0][quantity]", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.stripe.com/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("checkout session request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		g.logger.Error("checkout session rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("booking_id", bookingID.String()),
		)
		return "", fmt.Errorf("checkout session rejected with status %d", resp.StatusCode)
	}

	var session struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &session); err != nil {
		return "", fmt.Errorf("failed to decode checkout session: %w", err)
	}
	if session.URL == "" {
		return "", fmt.Errorf("checkout session response missing url")
	}

	return session.URL, nil
}

// MockCheckoutGateway is a development/testing implementation that simulates
// checkout sessions without a payment provider account.
type MockCheckoutGateway struct {
	logger *zap.Logger
}

// NewMockCheckoutGateway creates a new mock checkout gateway.
func NewMockCheckoutGateway(logger *zap.Logger) *MockCheckoutGateway {
	return &MockCheckoutGateway{logger: logger}
}

// CreateCheckoutSession returns a fake redirect URL.
func (m *MockCheckoutGateway) CreateCheckoutSession(ctx context.Context, bookingID uuid.UUID, amount float64, currency string) (string, error) {
	sessionID := fmt.Sprintf("cs_mock_%s", uuid.New().String()[:8])

	m.logger.Info("[MOCK CHECKOUT] session created",
		zap.String("session_id", sessionID),
		zap.String("booking_id", bookingID.String()),
		zap.Float64("amount", amount),
		zap.String("currency", currency),
	)

	return "https://checkout.example.test/pay/" + sessionID, nil
}
