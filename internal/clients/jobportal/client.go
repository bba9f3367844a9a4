package jobportal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/vieclam/jobportal/internal/logger"
	"github.com/vieclam/jobportal/internal/metrics"
	"golang.org/x/time/rate"
)

const RequestIDHeader = "X-Request-ID"

var validate = validator.New()

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource is the auth context a client is bound to.
type TokenSource interface {
	Token() string
	SignOut()
}

type Client struct {
	baseURL        string
	httpClient     HTTPClient
	rateLimiter    *rate.Limiter
	session        TokenSource
	onUnauthorized func()
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) SetTimeout(timeout time.Duration) {
	if httpClient, ok := c.httpClient.(*http.Client); ok && timeout > 0 {
		httpClient.Timeout = timeout
	}
}

func (c *Client) SetRateLimit(maxRequestsPerSecond float32) {
	if maxRequestsPerSecond <= 0 {
		c.rateLimiter = nil
		return
	}
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

// WithSession returns a copy of the client that authenticates with session.
// The copy shares the transport and the rate limiter with c.
func (c *Client) WithSession(session TokenSource, onUnauthorized func()) *Client {
	bound := *c
	bound.session = session
	bound.onUnauthorized = onUnauthorized
	return &bound
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.sendRequest(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.sendRequest(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body any, out any) error {
	return c.sendRequest(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body any, out any) error {
	return c.sendRequest(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.sendRequest(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) sendRequest(ctx context.Context, method, path string, query url.Values, body any, out any) error {

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return err
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "error encoding request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return errors.Wrap(err, "error creating request")
	}
	c.prepareRequest(req, body != nil)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.APIRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequestsCounter.WithLabelValues(method, "error").Inc()
		return errors.Wrapf(err, "error sending request %s %s", method, path)
	}
	defer resp.Body.Close()
	metrics.APIRequestsCounter.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode >= 500 {
		log.WithFields(log.Fields{
			logger.ErrorTypeField: logger.ErrorTypeApi,
			logger.RequestIDField: req.Header.Get(RequestIDHeader),
		}).Errorf("%s %s failed with status %d", method, path, resp.StatusCode)
	}

	respBody, err := c.handleResponse(resp)
	if err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err = json.Unmarshal(respBody, out); err != nil {
		return errors.Wrapf(err, "error decoding JSON response of %s %s", method, path)
	}
	return nil
}

func (c *Client) prepareRequest(req *http.Request, hasBody bool) {
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.session != nil {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	log.WithField(logger.RequestIDField, requestID).Debugf("%s %s", req.Method, req.URL.Path)
}

func (c *Client) handleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "error reading response body")
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.clearSession()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, body)
	}

	return body, nil
}

func (c *Client) clearSession() {
	if c.session == nil || c.session.Token() == "" {
		return
	}
	c.session.SignOut()
	metrics.SessionsExpiredCounter.Inc()
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

func (c *Client) endpoint(path string, query url.Values) string {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint
}

func pathID(id int) string {
	return strconv.Itoa(id)
}
