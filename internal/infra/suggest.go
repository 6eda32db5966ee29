package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SuggestPayload is sent to the category suggestion sidecar. The sidecar
// wraps the language model; this backend only sees text in, text out.
type SuggestPayload struct {
	ProductName string `json:"product_name"`
}

// SuggestResult is the sidecar's answer: a single category for the product.
type SuggestResult struct {
	Category string `json:"category"`
}

// SuggestClient talks to the suggestion sidecar over HTTP. The sidecar is a
// pure oracle — no side effects, no bearing on ledger invariants — so every
// caller treats a failure here as "no suggestion", never as an operation
// failure.
type SuggestClient struct {
	sidecarURL string
	httpClient *http.Client
}

func NewSuggestClient(sidecarURL string) *SuggestClient {
	return &SuggestClient{
		sidecarURL: sidecarURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Suggest asks the sidecar for a single category for the given product name.
func (c *SuggestClient) Suggest(ctx context.Context, productName string) (string, error) {
	body, err := json.Marshal(SuggestPayload{ProductName: productName})
	if err != nil {
		return "", fmt.Errorf("suggest: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sidecarURL+"/suggest-category", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("suggest: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("suggest: sidecar unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("suggest: sidecar returned %d", resp.StatusCode)
	}

	var result SuggestResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("suggest: decode response: %w", err)
	}
	if result.Category == "" {
		return "", fmt.Errorf("suggest: sidecar returned empty category")
	}
	return result.Category, nil
}
