package drive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const listTimeout = 10 * time.Second

// FileEntry is the provider-neutral shape returned by ListFiles. Providers
// report richer metadata; only the fields the UI needs survive.
type FileEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// Client lists files on a linked drive using an already-valid access token.
type Client struct {
	httpClient *http.Client
}

// NewClient builds a drive Client. A nil httpClient gets a bounded default.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: listTimeout}
	}
	return &Client{httpClient: httpClient}
}

// ListFiles fetches the file listing from the provider's files endpoint. The
// caller supplies a valid access token; an expired token surfaces here as a
// non-2xx response, not a refresh attempt.
func (c *Client) ListFiles(ctx context.Context, p Provider, accessToken string) ([]FileEntry, error) {
	if accessToken == "" {
		return nil, errors.New("drive: access token is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.FilesURL, nil)
	if err != nil {
		return nil, fmt.Errorf("drive: build list request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("drive: list files: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("drive: read list response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("drive: files endpoint returned %d", resp.StatusCode)
	}

	return decodeListing(body)
}

// decodeListing tolerates the three providers' envelope shapes: Google uses
// "files", Dropbox "entries", Microsoft Graph "value".
func decodeListing(body []byte) ([]FileEntry, error) {
	var envelope struct {
		Files   []FileEntry `json:"files"`
		Entries []FileEntry `json:"entries"`
		Value   []FileEntry `json:"value"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("drive: decode listing: %w", err)
	}

	switch {
	case envelope.Files != nil:
		return envelope.Files, nil
	case envelope.Entries != nil:
		return envelope.Entries, nil
	case envelope.Value != nil:
		return envelope.Value, nil
	default:
		return []FileEntry{}, nil
	}
}
