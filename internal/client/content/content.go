// Package content implements the content-addressed store client: upload
// of opaque JSON payloads, optional best-effort mirroring, and fetch by
// ipfs:// URI or plain HTTP(S) URL.
package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/sealbid/sealbid/internal/models"
)

// Client talks to the content-addressed store.
type Client struct {
	store   string
	mirror  string
	gateway string
	http    *http.Client
	log     *zap.Logger
}

// NewClient returns a content client uploading to store and resolving
// ipfs:// URIs against gateway. mirror may be empty; when set, uploads
// are mirrored there best-effort. A nil httpClient falls back to
// http.DefaultClient; a nil logger is replaced with a no-op.
func NewClient(store, mirror, gateway string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		store:   store,
		mirror:  mirror,
		gateway: strings.TrimSuffix(gateway, "/"),
		http:    httpClient,
		log:     logger,
	}
}

// Upload stores payload (JSON-serialized) and returns its content
// identifier. The primary upload must fully succeed for any identifier
// to be valid; the mirror upload never affects the result.
func (c *Client) Upload(ctx context.Context, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: encode payload: %v", models.ErrUploadFailed, err)
	}

	cid, err := c.post(ctx, c.store, body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrUploadFailed, err)
	}

	if c.mirror != "" {
		if _, err := c.post(ctx, c.mirror, body); err != nil {
			c.log.Warn("content mirror upload failed", zap.Error(err))
		}
	}
	return cid, nil
}

func (c *Client) post(ctx context.Context, base string, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/api/content", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("store answered %d: %s", resp.StatusCode, string(data))
	}

	var out struct {
		CID string `json:"cid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.CID == "" {
		return "", fmt.Errorf("store returned empty identifier")
	}
	return out.CID, nil
}

// Fetch retrieves the bytes behind uri, which is either an ipfs://<cid>
// URI resolved against the gateway or an already-resolved HTTP(S) URL.
func (c *Client) Fetch(ctx context.Context, uri string) ([]byte, error) {
	resolved, err := c.Resolve(uri)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resolved, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, models.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch content: %s", string(data))
	}
	return io.ReadAll(resp.Body)
}

// Resolve maps an ipfs:// URI to its gateway URL. HTTP(S) URLs pass
// through unchanged.
func (c *Client) Resolve(uri string) (string, error) {
	if cid, ok := strings.CutPrefix(uri, "ipfs://"); ok {
		return c.gateway + "/ipfs/" + cid, nil
	}
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return uri, nil
	}
	return "", fmt.Errorf("unsupported content URI %q", uri)
}
