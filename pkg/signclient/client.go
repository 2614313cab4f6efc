package signclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"docsign/pkg/config"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	userAgent       = "docsign-go/0.1.0"
	defaultMaxBytes = 64 << 20
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	maxPDF     int64
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithTimeout bounds every request; the request is aborted when it elapses.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithMaxPDFBytes(n int64) Option {
	return func(c *Client) { c.maxPDF = n }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{},
		timeout:    30 * time.Second,
		maxPDF:     defaultMaxBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout <= 0 {
		c.timeout = 30 * time.Second
	}
	if c.maxPDF <= 0 {
		c.maxPDF = defaultMaxBytes
	}
	return c
}

func FromConfig(cfg config.Config, opts ...Option) *Client {
	return New(cfg.APIBaseURL, append([]Option{WithTimeout(cfg.RequestTimeout)}, opts...)...)
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) SessionURL(signatoryID string) string {
	return c.baseURL + config.SignatoryEndpoint + url.PathEscape(signatoryID)
}

func (c *Client) SigningURL(signatoryID string) string {
	return c.baseURL + config.SigningEndpoint + url.PathEscape(signatoryID) + "/process"
}

func (c *Client) PDFURL(signApplicationID string) string {
	return c.baseURL + fmt.Sprintf(config.FilesPDFEndpoint, url.PathEscape(signApplicationID))
}

func (c *Client) GetSigningSession(ctx context.Context, signatoryID string) (*Session, error) {
	u := c.SessionURL(signatoryID)
	log.Debug().Str("url", u).Msg("fetching signing session")
	body, err := c.do(ctx, http.MethodGet, u, map[string]string{"Accept": "application/json"}, -1)
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, errors.Wrap(err, "decode signing session")
	}
	if err := json.Unmarshal(body, &s.Raw); err != nil {
		return nil, errors.Wrap(err, "decode signing session payload")
	}
	return &s, nil
}

// InitiateSigning starts the signing process and returns the redirect link.
func (c *Client) InitiateSigning(ctx context.Context, signatoryID string) (string, error) {
	u := c.SigningURL(signatoryID)
	log.Debug().Str("url", u).Msg("initiating signing process")
	body, err := c.do(ctx, http.MethodPost, u, map[string]string{
		"Accept":       "application/json",
		"Content-Type": "application/json",
	}, -1)
	if err != nil {
		return "", err
	}
	var out signResponse
	if len(body) > 0 {
		if err := json.Unmarshal(body, &out); err != nil {
			return "", errors.Wrap(err, "decode signing response")
		}
	}
	if strings.TrimSpace(out.SignLink) == "" {
		return "", ErrMissingSignLink
	}
	return strings.TrimSpace(out.SignLink), nil
}

// FetchPDF downloads a document. fresh asks intermediaries to bypass their
// caches.
func (c *Client) FetchPDF(ctx context.Context, pdfURL string, fresh bool) ([]byte, error) {
	headers := map[string]string{"Accept": "application/pdf"}
	if fresh {
		headers["Cache-Control"] = "no-cache"
		headers["Pragma"] = "no-cache"
	}
	return c.do(ctx, http.MethodGet, pdfURL, headers, c.maxPDF)
}

// GetJSON fetches an API path relative to the base URL and decodes it into
// out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	body, err := c.do(ctx, http.MethodGet, c.baseURL+path, map[string]string{"Accept": "application/json"}, -1)
	if err != nil {
		return err
	}
	return errors.Wrap(json.Unmarshal(body, out), "decode response")
}

func (c *Client) do(ctx context.Context, method, u string, headers map[string]string, limit int64) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s request", method)
	}
	req.Header.Set("User-Agent", userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Method: method, URL: u, Err: err}
	}
	defer resp.Body.Close()

	var r io.Reader = resp.Body
	if limit > 0 {
		// one extra byte tells an oversized body from one of exactly limit bytes
		r = io.LimitReader(resp.Body, limit+1)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, &NetworkError{Method: method, URL: u, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPStatusError{Method: method, URL: u, StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}
	if limit > 0 && int64(len(body)) > limit {
		return nil, errors.Wrapf(ErrResponseTooLarge, "%s %s exceeds %d bytes", method, u, limit)
	}
	return body, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}
