package forms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/arcup/arcup-web/internal/contact/contactapi"
)

// FallbackError is shown when the relay rejects a submission without saying why.
const FallbackError = "Failed to send message. Please try again."

// Result is the relay's verdict on one submission.
type Result struct {
	OK      bool
	Message string
	ID      string
}

// Submitter delivers a contact submission. An error means the request could
// not be completed or its response could not be read.
type Submitter interface {
	Submit(ctx context.Context, req contactapi.Request) (Result, error)
}

// HTTPSubmitter posts submissions as JSON to the contact endpoint.
type HTTPSubmitter struct {
	Endpoint string
	Client   *http.Client
}

// NewHTTPSubmitter returns a submitter for endpoint, defaulting to the
// relative contact path.
func NewHTTPSubmitter(endpoint string) *HTTPSubmitter {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = contactapi.Path
	}
	return &HTTPSubmitter{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Submit sends req once. It never retries.
func (s *HTTPSubmitter) Submit(ctx context.Context, req contactapi.Request) (Result, error) {
	if req.Skills == nil {
		req.Skills = []string{}
	}
	data, err := json.Marshal(req)
	if err != nil {
		return Result{}, fmt.Errorf("encode submission: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("post submission: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}

	var decoded contactapi.Response
	if err := json.Unmarshal(body, &decoded); err != nil {
		return Result{}, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 && decoded.Success {
		return Result{OK: true, Message: decoded.Message, ID: decoded.ID}, nil
	}
	message := strings.TrimSpace(decoded.Error)
	if message == "" {
		message = FallbackError
	}
	return Result{OK: false, Message: message}, nil
}
