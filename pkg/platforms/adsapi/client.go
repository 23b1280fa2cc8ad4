// Package adsapi talks to the advertising platform's JSON API.
//
// Resources used, relative to the configured endpoint:
//
//	GET    /customers/{cid}/campaigns?name=&type=
//	GET    /customers/{cid}/campaigns/{id}/adGroups?name=
//	GET    /customers/{cid}/campaigns/{id}/sharedNegativeLists
//	GET    /customers/{cid}/{campaigns|adGroups}/{id}/negativeKeywords?pageToken=
//	POST   /customers/{cid}/{campaigns|adGroups}/{id}/negativeKeywords
//	DELETE /customers/{cid}/{campaigns|adGroups}/{id}/negativeKeywords/{kid}
//	POST   /customers/{cid}/reports:search
package adsapi

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/sw33tLie/autoneg/internal/utils"
	"github.com/sw33tLie/autoneg/pkg/platforms"
)

const (
	USER_AGENT = "autoneg/1.0"

	defaultRetries = 5
)

// Config controls the API client.
type Config struct {
	Endpoint   string
	Token      string
	CustomerID string
	// RequestsPerSecond limits the request rate; <= 0 means unlimited.
	RequestsPerSecond float64
	// Retries is the number of retries for failed requests; 0 means the
	// default and a negative value disables retrying.
	Retries    int
	Proxy      string
	HTTPClient *http.Client
}

// Client is the platforms.Platform implementation for the JSON API.
type Client struct {
	endpoint   string
	token      string
	customerID string
	http       *retryablehttp.Client
	limiter    *rate.Limiter
}

var _ platforms.Platform = (*Client)(nil)

// APIError is returned for responses with an error status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ads api: status %d: %s", e.StatusCode, e.Message)
}

// New builds a client. Credentials may also be supplied later with Authenticate.
func New(cfg Config) (*Client, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		return nil, errors.New("ads api endpoint is not configured (set ads.endpoint)")
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid ads api endpoint: %w", err)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = leveledLogger{utils.Log}
	switch {
	case cfg.Retries > 0:
		retryClient.RetryMax = cfg.Retries
	case cfg.Retries < 0:
		retryClient.RetryMax = 0
	default:
		retryClient.RetryMax = defaultRetries
	}
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.CheckRetry = retryPolicy
	if cfg.HTTPClient != nil {
		retryClient.HTTPClient = cfg.HTTPClient
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	c := &Client{
		endpoint:   endpoint,
		token:      cfg.Token,
		customerID: cfg.CustomerID,
		http:       retryClient,
		limiter:    rate.NewLimiter(limit, 1),
	}
	if cfg.Proxy != "" {
		if err := c.setProxy(cfg.Proxy); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Client) Name() string { return "adsapi" }

// Authenticate sets the credentials. Both a token and a customer ID are required.
func (c *Client) Authenticate(ctx context.Context, cfg platforms.AuthConfig) error {
	if cfg.Token != "" {
		c.token = cfg.Token
	}
	if cfg.CustomerID != "" {
		c.customerID = cfg.CustomerID
	}
	if cfg.Proxy != "" {
		if err := c.setProxy(cfg.Proxy); err != nil {
			return err
		}
	}
	if c.token == "" || c.customerID == "" {
		return errors.New("ads api requires a token and a customer id")
	}
	return nil
}

func (c *Client) setProxy(proxy string) error {
	proxyURL, err := url.Parse(proxy)
	if err != nil {
		return fmt.Errorf("invalid proxy URL: %v", err)
	}
	c.http.HTTPClient.Transport = &http.Transport{
		Proxy:           http.ProxyURL(proxyURL),
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}
	return nil
}

// customerPath joins escaped path segments below /customers/{cid}.
func (c *Client) customerPath(segments ...string) string {
	parts := []string{c.endpoint, "customers", url.PathEscape(c.customerID)}
	for _, s := range segments {
		parts = append(parts, url.PathEscape(s))
	}
	return strings.Join(parts, "/")
}

type noRetryKey struct{}

// retryPolicy is retryablehttp's default policy, except for requests marked
// with noRetryKey: a failed create may still have been applied.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Value(noRetryKey{}) != nil {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// do sends a request and returns the response body. Error statuses are
// returned as *APIError; 404 also matches platforms.ErrNotFound.
func (c *Client) do(ctx context.Context, method, rawURL string, body []byte) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	// The report search is the only POST that changes nothing.
	if method == http.MethodPost && !strings.HasSuffix(rawURL, "reports:search") {
		ctx = context.WithValue(ctx, noRetryKey{}, true)
	}

	var reqBody interface{}
	if body != nil {
		reqBody = bytes.NewReader(body)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", USER_AGENT)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	res := string(data)

	if resp.StatusCode >= 400 {
		msg := gjson.Get(res, "error.message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: msg}
		if resp.StatusCode == http.StatusNotFound {
			return "", fmt.Errorf("%w: %w", platforms.ErrNotFound, apiErr)
		}
		return "", apiErr
	}
	return res, nil
}

// leveledLogger routes retryablehttp's logging through logrus.
type leveledLogger struct {
	log *logrus.Logger
}

func (l leveledLogger) entry(keysAndValues []interface{}) *logrus.Entry {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return l.log.WithFields(fields)
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.entry(keysAndValues).Error(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry(keysAndValues).Debug(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.entry(keysAndValues).Trace(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.entry(keysAndValues).Warn(msg)
}
