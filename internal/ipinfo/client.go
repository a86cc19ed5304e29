package ipinfo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"slices"

	"github.com/cerfical/iplookup/internal/log"
	"github.com/google/uuid"
)

// RequestIDHeader carries a per-lookup identifier, so backend logs can be matched against ours.
const RequestIDHeader = "X-Request-ID"

const (
	lookupPath  = "api/ipinfo"
	maxBodySize = 1 << 20
)

// DefaultBaseURL is the origin lookups are sent to unless configured otherwise.
var DefaultBaseURL = url.URL{Scheme: "http", Host: "localhost:8080"}

func New(ops ...Option) *Client {
	defaults := []Option{
		WithBaseURL(&DefaultBaseURL),
		WithHTTPClient(http.DefaultClient),
		WithLogger(log.Discard),
	}

	var c Client
	for _, op := range slices.Concat(defaults, ops) {
		op(&c)
	}
	return &c
}

func WithBaseURL(u *url.URL) Option {
	return func(c *Client) {
		c.baseURL = *u
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

type Option func(*Client)

// Client queries the backend for information about IP addresses.
type Client struct {
	baseURL url.URL
	http    *http.Client

	log *log.Logger
}

// URL returns the address of the lookup request for a query.
func (c *Client) URL(query string) string {
	u := c.baseURL.JoinPath(lookupPath)
	u.RawQuery = url.Values{"ip": {query}}.Encode()
	return u.String()
}

// Lookup sends a single request for the query and decodes the answer.
// The query is forwarded as is, without any validation.
func (c *Client) Lookup(ctx context.Context, query string) (*Info, error) {
	requestID := uuid.NewString()
	reqURL := c.URL(query)

	l := c.log.With(log.Fields{
		"request_id": requestID,
		"url":        reqURL,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &TransportError{err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	l.Verbose("Looking up IP information", log.Fields{"query": query})

	resp, err := c.http.Do(req)
	if err != nil {
		l.Error("Lookup request failed", err)
		return nil, &TransportError{err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain the body so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))

		err := &StatusError{resp.StatusCode}
		l.Info("Lookup rejected", log.Fields{"status": err.Status()})
		return nil, err
	}

	info, err := decodeInfo(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		l.Error("Malformed lookup response", err)
		return nil, &TransportError{err}
	}

	l.Verbose("Lookup succeeded", log.Fields{"ip": info.IP, "class": info.Class})
	return info, nil
}

// decodeInfo expects the body to hold exactly one JSON object.
func decodeInfo(r io.Reader) (*Info, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var info *Info
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, err
	}
	if info == nil {
		return nil, errNoRecord
	}
	return info, nil
}
