package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"go.uber.org/zap"
)

// TextSender sends a plain text message to a phone number.
type TextSender interface {
	SendText(ctx context.Context, toNumber, body string) error
}

var nonDigits = regexp.MustCompile(`\D+`)

// WhatsAppCloudSender implements TextSender against the WhatsApp Cloud API.
type WhatsAppCloudSender struct {
	phoneID string
	token   string
	client  *http.Client
	logger  *zap.Logger
}

// NewWhatsAppCloudSender creates a WhatsApp Cloud API sender.
func NewWhatsAppCloudSender(phoneID, token string, logger *zap.Logger) *WhatsAppCloudSender {
	return &WhatsAppCloudSender{
		phoneID: phoneID,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// SendText posts a text message to the Cloud API. Numbers are normalized to
// digits only; an empty result is skipped silently.
func (s *WhatsAppCloudSender) SendText(ctx context.Context, toNumber, body string) error {
	toNumber = nonDigits.ReplaceAllString(toNumber, "")
	if toNumber == "" {
		return nil
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                toNumber,
		"type":              "text",
		"text": map[string]interface{}{
			"preview_url": false,
			"body":        body,
		},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("https://graph.facebook.com/v18.0/%s/messages", s.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("whatsapp send rejected with status %d", resp.StatusCode)
	}

	s.logger.Debug("whatsapp message sent", zap.String("to", toNumber))
	return nil
}

// NoopTextSender is used when WhatsApp notifications are disabled.
type NoopTextSender struct{}

// SendText discards the message.
func (NoopTextSender) SendText(ctx context.Context, toNumber, body string) error { return nil }
