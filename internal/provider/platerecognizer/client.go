package platerecognizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Config holds the configuration for the Plate Recognizer client
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	RetryCount int
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL:    "https://api.platerecognizer.com/v1",
		Timeout:    15 * time.Second,
		RetryCount: 3,
	}
}

// Client is the HTTP client for the Plate Recognizer API
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient creates a new Plate Recognizer client
func NewClient(config Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
	}
}

// ReadPlate calls POST /plate-reader with the image as multipart upload
func (c *Client) ReadPlate(ctx context.Context, image []byte) (*plateReaderResponse, error) {
	var resp plateReaderResponse
	if err := c.doRequestWithRetry(ctx, image, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// maxBackoff is the maximum backoff duration for retries
const maxBackoff = 30 * time.Second

// calculateBackoff calculates exponential backoff duration for a given attempt
// Returns 1s, 2s, 4s, 8s, etc. up to maxBackoff
func calculateBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return time.Second
	}
	seconds := 1
	for i := 1; i < attempt && i < 6; i++ {
		seconds *= 2
	}
	return time.Duration(seconds) * time.Second
}

// doRequestWithRetry executes the upload with retry logic. Client errors
// (4xx) are returned immediately, only server errors are retried.
func (c *Client) doRequestWithRetry(ctx context.Context, image []byte, result *plateReaderResponse) error {
	var lastErr error

	for attempt := 0; attempt <= c.config.RetryCount; attempt++ {
		if attempt > 0 {
			backoff := calculateBackoff(attempt)
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		var retryable bool
		retryable, lastErr = c.doRequest(ctx, image, result)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !retryable {
			return lastErr
		}
	}

	return fmt.Errorf("%w: %v", ErrServiceUnavailable, lastErr)
}

// doRequest executes a single upload request
func (c *Client) doRequest(ctx context.Context, image []byte, result *plateReaderResponse) (retryable bool, err error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("upload", "plate.jpg")
	if err != nil {
		return false, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return false, fmt.Errorf("write image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return false, fmt.Errorf("close multipart writer: %w", err)
	}

	url := c.config.BaseURL + "/plate-reader/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Token "+c.config.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return false, ErrUnauthorized
	case resp.StatusCode >= 500:
		return true, fmt.Errorf("plate recognizer returned status %d: %s", resp.StatusCode, string(respBody))
	case resp.StatusCode >= 400:
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Detail != "" {
			return false, fmt.Errorf("plate recognizer returned status %d: %s", resp.StatusCode, errResp.Detail)
		}
		return false, fmt.Errorf("plate recognizer returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return false, nil
}
