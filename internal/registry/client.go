package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mhodnik/seqnet/internal/protocol"
)

var ErrRegistry = errors.New("registry: request failed")

// Client is the node-side handle on the registry: registration at startup
// and ownership lookups at forwarding time.
type Client struct {
	base string
	http *http.Client
}

// NewClient constructs a client bound to one registry base URL, e.g.
// "http://127.0.0.1:7878".
func NewClient(base string) *Client {
	return &Client{
		base: strings.TrimRight(strings.TrimSpace(base), "/"),
		http: &http.Client{Timeout: 5 * time.Second},
	}
}

// Register upserts this node's record.
func (c *Client) Register(ctx context.Context, rec protocol.NodeRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/project", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRegistry, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: register returned http %d", ErrRegistry, resp.StatusCode)
	}
	return nil
}

// RegisterWithRetry retries registration to ride out registry startup
// races. A node cannot serve forwarded traffic until it is listed, so the
// last error is returned when every attempt fails.
func (c *Client) RegisterWithRetry(ctx context.Context, rec protocol.NodeRecord, attempts int, delay time.Duration) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		lastErr = c.Register(ctx, rec)
		if lastErr == nil {
			log.Info().Str("registry", c.base).Str("node", rec.Name).Msg("registered with registry")
			return nil
		}
		log.Warn().Int("attempt", i+1).Err(lastErr).Msg("registration retry")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}

// Owners returns the addresses of nodes advertising name.
func (c *Client) Owners(ctx context.Context, name string) ([]string, error) {
	var out protocol.OwnersResponse
	if err := c.getJSON(ctx, c.base+"/project/owners/"+url.PathEscape(name), &out); err != nil {
		return nil, err
	}
	return out.Addresses, nil
}

// Nodes returns every registered node record.
func (c *Client) Nodes(ctx context.Context) ([]protocol.NodeRecord, error) {
	var out []protocol.NodeRecord
	if err := c.getJSON(ctx, c.base+"/project", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRegistry, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned http %d", ErrRegistry, rawURL, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
