package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"veritas/pkg/platform/sentinel"
)

// HTTPClient anchors hashes against a remote ledger gateway.
//
//	POST {base}/anchors          {"content_hash": ..., "metadata": {...}} -> {"tx_id": ...}
//	GET  {base}/anchors/{tx_id}  -> {"content_hash": ...}
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type commitRequest struct {
	ContentHash string            `json:"content_hash"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type commitResponse struct {
	TxID string `json:"tx_id"`
}

type resolveResponse struct {
	ContentHash string `json:"content_hash"`
}

func (c *HTTPClient) Commit(ctx context.Context, contentHash string, metadata map[string]string) (string, error) {
	body, err := json.Marshal(commitRequest{ContentHash: contentHash, Metadata: metadata})
	if err != nil {
		return "", fmt.Errorf("encode anchor request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/anchors", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build anchor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("anchor commit: %w: %w", sentinel.ErrLedgerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("anchor commit: status %d: %w", resp.StatusCode, sentinel.ErrLedgerUnavailable)
	}
	var out commitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode anchor response: %w: %w", sentinel.ErrLedgerUnavailable, err)
	}
	if out.TxID == "" {
		return "", fmt.Errorf("anchor commit returned empty tx id: %w", sentinel.ErrLedgerUnavailable)
	}
	return out.TxID, nil
}

func (c *HTTPClient) Resolve(ctx context.Context, txID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/anchors/"+url.PathEscape(txID), nil)
	if err != nil {
		return "", fmt.Errorf("build resolve request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("anchor resolve: %w: %w", sentinel.ErrLedgerUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", fmt.Errorf("anchor resolve %s: %w", txID, sentinel.ErrTxNotFound)
	default:
		return "", fmt.Errorf("anchor resolve: status %d: %w", resp.StatusCode, sentinel.ErrLedgerUnavailable)
	}
	var out resolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode resolve response: %w: %w", sentinel.ErrLedgerUnavailable, err)
	}
	return out.ContentHash, nil
}
