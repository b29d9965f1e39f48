package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client reads documents from a paperless-style REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a Client for the service at baseURL, authenticating
// every request with the given API token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Fetch(ctx context.Context, id int64) (Document, error) {
	var doc Document
	status, err := c.getJSON(ctx, fmt.Sprintf("%s/api/documents/%d/", c.baseURL, id), &doc)
	if err != nil {
		return Document{}, err
	}
	switch status {
	case http.StatusOK:
		return doc, nil
	case http.StatusNotFound:
		return Document{}, fmt.Errorf("document %d: %w", id, ErrNotFound)
	default:
		return Document{}, fmt.Errorf("fetch document %d: unexpected status %d", id, status)
	}
}

// documentPage is one page of the service's paginated listing.
type documentPage struct {
	Next    *string    `json:"next"`
	Results []Document `json:"results"`
}

func (c *Client) List(ctx context.Context) ([]Document, error) {
	var docs []Document

	next := c.baseURL + "/api/documents/"
	for next != "" {
		var page documentPage
		status, err := c.getJSON(ctx, next, &page)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("list documents: unexpected status %d", status)
		}
		docs = append(docs, page.Results...)

		next = ""
		if page.Next != nil {
			// The service returns absolute URLs; rebase onto our configured
			// host so proxied deployments keep working.
			u, err := url.Parse(*page.Next)
			if err != nil {
				return nil, fmt.Errorf("list documents: bad next page url: %w", err)
			}
			next = c.baseURL + u.RequestURI()
		}
	}

	return docs, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("document service unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode document service response: %w", err)
	}
	return resp.StatusCode, nil
}
