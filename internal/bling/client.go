// Package bling is a read-only client for the third-party Bling lead feed.
// The feed is an opaque upstream: any failure (transport error, non-2xx,
// bad payload) degrades to zero leads so the dashboard never breaks on it.
package bling

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

// Lead is one raw contact tuple from the upstream feed.
type Lead struct {
	Name  string `json:"nome"`
	Email string `json:"email"`
	Phone string `json:"fone"`
}

// feedResponse mirrors the Bling v2 envelope: {"retorno": {"clientes":
// [{"cliente": {...}}, ...]}}
type feedResponse struct {
	Retorno struct {
		Clientes []struct {
			Cliente Lead `json:"cliente"`
		} `json:"clientes"`
	} `json:"retorno"`
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Leads returns the current leads from the upstream feed. It never returns
// an error: an unreachable or misbehaving upstream is logged and treated as
// zero leads.
func (c *Client) Leads(ctx context.Context) []Lead {
	leads, err := c.fetch(ctx)
	if err != nil {
		log.Printf("lead feed unavailable, returning 0 leads: %v", err)
		return []Lead{}
	}
	return leads
}

func (c *Client) fetch(ctx context.Context) ([]Lead, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("feed url not configured")
	}

	u, err := url.Parse(c.baseURL + "/clientes/json/")
	if err != nil {
		return nil, fmt.Errorf("build feed url: %w", err)
	}
	q := u.Query()
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	var body feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode feed response: %w", err)
	}

	leads := make([]Lead, 0, len(body.Retorno.Clientes))
	for _, c := range body.Retorno.Clientes {
		leads = append(leads, c.Cliente)
	}
	return leads, nil
}
