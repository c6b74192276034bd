package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/isokodocs/isoko/internal/common"
	"github.com/isokodocs/isoko/internal/logging"
)

const maxErrorBody = 1 << 20

// Request describes one call. Body is replayed from memory, so a Request can
// be sent more than once.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	JSON        any
	Body        []byte
	ContentType string
	Header      http.Header
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	log        logging.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		log: logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL resolves a path against the base URL. Absolute URLs, such as
// pagination links, are returned unchanged.
func (c *Client) URL(path string, query url.Values) string {
	target := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		target = c.baseURL + "/" + strings.TrimLeft(path, "/")
	}
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + query.Encode()
	}
	return target
}

// Do sends req and decodes a 2xx body into out. out may be nil (body
// discarded), an io.Writer (raw copy) or any JSON target.
func (c *Client) Do(ctx context.Context, req *Request, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return err
	}

	requestID := httpReq.Header.Get(common.RequestIDHeader)
	log := c.log.With("request_id", requestID, "method", httpReq.Method, "path", req.Path)
	start := time.Now()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return c.transportError(ctx, log, err)
	}
	defer resp.Body.Close()

	log.Debug(ctx, "response", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			return c.transportError(ctx, log, err)
		}
		return newError(resp.StatusCode, body)
	}

	switch dst := out.(type) {
	case nil:
		_, err = io.Copy(io.Discard, resp.Body)
	case io.Writer:
		_, err = io.Copy(dst, resp.Body)
	default:
		var body []byte
		body, err = io.ReadAll(resp.Body)
		if err == nil && len(bytes.TrimSpace(body)) > 0 {
			if jsonErr := json.Unmarshal(body, dst); jsonErr != nil {
				return fmt.Errorf("%w: %s %s: %v", ErrBadResponse, httpReq.Method, req.Path, jsonErr)
			}
		}
	}
	if err != nil {
		return c.transportError(ctx, log, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req *Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	body := req.Body
	contentType := req.ContentType
	if req.JSON != nil {
		data, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body, contentType = data, "application/json"
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.URL(req.Path, req.Query), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if httpReq.Header.Get(common.RequestIDHeader) == "" {
		httpReq.Header.Set(common.RequestIDHeader, uuid.NewString())
	}
	return httpReq, nil
}

func (c *Client) transportError(ctx context.Context, log logging.Logger, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	log.Warn(ctx, "request failed", "error", err)
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
