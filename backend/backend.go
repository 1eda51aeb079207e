package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a whole prediction round trip.
const DefaultTimeout = 30 * time.Second

// Client represents a client to communicate with the backend API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// PredictRequest is the body sent to POST /predict.
type PredictRequest struct {
	ItemID string `json:"item_id"`
	Date   string `json:"date"`
}

// APIError is returned when the server answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, bytes.TrimSpace(e.Body))
}

// NewBackendClient creates a new Client with the specified base URL.
func NewBackendClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Predict posts one prediction request and returns the raw JSON payload of a
// successful response. Non-2xx answers yield an *APIError carrying the body.
func (c *Client) Predict(ctx context.Context, itemID, date string) (json.RawMessage, error) {
	payload, err := json.Marshal(PredictRequest{ItemID: itemID, Date: date})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: body}
	}

	return json.RawMessage(body), nil
}
