// Package mailer delivers outbound email.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arcup/arcup-web/logging"
)

// DefaultEndpoint is the Resend send-email API.
const DefaultEndpoint = "https://api.resend.com/emails"

// Message is one outbound email. ReplyTo is optional.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
	Text    string
	ReplyTo string
}

// Mailer sends a message and returns the provider's message id.
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// ResendClient sends email through the Resend HTTP API.
type ResendClient struct {
	client   *http.Client
	apiKey   string
	endpoint string
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type resendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Name    string `json:"name"`
}

// NewResendClient builds a client for apiKey. An empty endpoint means
// DefaultEndpoint; a nil client gets a 10s timeout.
func NewResendClient(client *http.Client, apiKey, endpoint string) *ResendClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultEndpoint
	}
	return &ResendClient{
		client:   client,
		apiKey:   strings.TrimSpace(apiKey),
		endpoint: endpoint,
	}
}

// Send posts msg to Resend.
func (c *ResendClient) Send(ctx context.Context, msg Message) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("missing Resend API key: set RESEND_API_KEY")
	}
	body, err := json.Marshal(resendRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
		ReplyTo: msg.ReplyTo,
	})
	if err != nil {
		return "", fmt.Errorf("encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create send request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read send response: %w", err)
	}
	var decoded resendResponse
	_ = json.Unmarshal(data, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decoded.Message != "" {
			return "", fmt.Errorf("send email failed: status %d: %s", resp.StatusCode, decoded.Message)
		}
		return "", fmt.Errorf("send email failed: status %d", resp.StatusCode)
	}
	if decoded.ID == "" {
		return "", fmt.Errorf("send response missing id")
	}
	return decoded.ID, nil
}

// LogMailer writes a summary of each message to the logger instead of
// sending it. Bodies are not logged.
type LogMailer struct {
	Logger *logging.Logger
}

// Send logs msg and returns a random id.
func (m LogMailer) Send(_ context.Context, msg Message) (string, error) {
	id := uuid.NewString()
	logger := m.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	logger.Info("mail", "email not sent: no API key configured", map[string]any{
		"id":        id,
		"to":        msg.To,
		"subject":   msg.Subject,
		"reply_to":  msg.ReplyTo != "",
		"html_size": len(msg.HTML),
		"text_size": len(msg.Text),
	})
	return id, nil
}
