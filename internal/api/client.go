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
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Service is the remote surface the controller depends on.
// It is implemented by *Client and can be faked in tests.
type Service interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (Product, error)
	CreateProduct(ctx context.Context, draft ProductDraft) (Product, error)
	UpdateProduct(ctx context.Context, id int64, patch ProductPatch) (Product, error)
	DeleteProduct(ctx context.Context, id int64) (Ack, error)
	GetBasket(ctx context.Context) ([]BasketItem, error)
	AddToBasket(ctx context.Context, productID int64, quantity int) (Ack, error)
	RemoveFromBasket(ctx context.Context, productID int64) (Ack, error)
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the storefront REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	log       *zap.Logger
	tracer    trace.Tracer
	requests  metric.Int64Counter
}

const (
	DefaultBaseURL   = "http://localhost:8000"
	defaultUserAgent = "storefront/0.1"
	requestTimeout   = 10 * time.Second
)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithRateLimit caps outgoing requests per second. Zero or less disables it.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger attaches a logger for per-request debug output.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		log:       zap.NewNop(),
		tracer:    otel.Tracer(instrumentationName),
		requests:  newRequestCounter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListProducts retrieves every product.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var payload []Product
	if err := c.do(ctx, OpListProducts, http.MethodGet, "/products/", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetProduct retrieves a single product. A missing product is a NetworkError.
func (c *Client) GetProduct(ctx context.Context, id int64) (Product, error) {
	var payload Product
	if err := c.do(ctx, OpGetProduct, http.MethodGet, productPath(id), nil, &payload); err != nil {
		return Product{}, err
	}
	return payload, nil
}

// CreateProduct submits a new product; the server assigns its id.
func (c *Client) CreateProduct(ctx context.Context, draft ProductDraft) (Product, error) {
	var payload Product
	if err := c.do(ctx, OpCreateProduct, http.MethodPost, "/products/", draft, &payload); err != nil {
		return Product{}, err
	}
	return payload, nil
}

// UpdateProduct applies a partial update and returns the stored product.
func (c *Client) UpdateProduct(ctx context.Context, id int64, patch ProductPatch) (Product, error) {
	var payload Product
	if err := c.do(ctx, OpUpdateProduct, http.MethodPut, productPath(id), patch, &payload); err != nil {
		return Product{}, err
	}
	return payload, nil
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id int64) (Ack, error) {
	var payload Ack
	if err := c.do(ctx, OpDeleteProduct, http.MethodDelete, productPath(id), nil, &payload); err != nil {
		return Ack{}, err
	}
	return payload, nil
}

// GetBasket retrieves the server-side basket.
func (c *Client) GetBasket(ctx context.Context) ([]BasketItem, error) {
	var payload []BasketItem
	if err := c.do(ctx, OpGetBasket, http.MethodGet, "/basket/", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// AddToBasket moves quantity units of a product into the basket.
// Quantities below one are sent as one.
func (c *Client) AddToBasket(ctx context.Context, productID int64, quantity int) (Ack, error) {
	if quantity < 1 {
		quantity = 1
	}
	var payload Ack
	body := BasketRequest{ProductID: productID, Quantity: quantity}
	if err := c.do(ctx, OpAddToBasket, http.MethodPost, "/basket/", body, &payload); err != nil {
		return Ack{}, err
	}
	return payload, nil
}

// RemoveFromBasket takes one unit of a product out of the basket.
func (c *Client) RemoveFromBasket(ctx context.Context, productID int64) (Ack, error) {
	var payload Ack
	path := "/basket/" + strconv.FormatInt(productID, 10)
	if err := c.do(ctx, OpRemoveFromBasket, http.MethodDelete, path, nil, &payload); err != nil {
		return Ack{}, err
	}
	return payload, nil
}

const instrumentationName = "github.com/five82/storefront/internal/api"

// newRequestCounter counts requests on the global meter provider, which is
// a no-op unless the host installs one.
func newRequestCounter() metric.Int64Counter {
	counter, err := otel.Meter(instrumentationName).Int64Counter("storefront.api.requests",
		metric.WithDescription("API requests by operation and outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return noop.Int64Counter{}
	}
	return counter
}

func productPath(id int64) string {
	return "/products/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, op Op, method, path string, body, dest any) (err error) {
	if c == nil {
		return &NetworkError{Op: op, Method: method, Path: path, Err: fmt.Errorf("client is nil")}
	}

	ctx, span := c.tracer.Start(ctx, "api."+string(op),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.path", path),
		),
	)
	defer span.End()

	requestID := uuid.NewString()
	started := time.Now()
	status := 0
	defer func() {
		fields := []zap.Field{
			zap.String("op", string(op)),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(started)),
			zap.String("request_id", requestID),
		}
		c.requests.Add(ctx, 1, metric.WithAttributes(
			attribute.String("op", string(op)),
			attribute.Int("status", status),
			attribute.Bool("error", err != nil),
		))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, op.Message())
			c.log.Debug("api request failed", append(fields, zap.Error(err))...)
			return
		}
		c.log.Debug("api request", fields...)
	}()

	fail := func(cause error) error {
		return &NetworkError{Op: op, Method: method, Path: path, Status: status, Err: cause}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fail(fmt.Errorf("rate limit: %w", err))
		}
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fail(fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(encoded)
	}

	reqURL := *c.baseURL
	reqURL.Path = c.baseURL.Path + path
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fail(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fail(fmt.Errorf("execute request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	status = resp.StatusCode
	span.SetAttributes(attribute.Int("http.status_code", status))
	if status < 200 || status > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fail(ErrStatus)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		// acknowledgements succeed on status alone; 204 and empty bodies are fine
		if _, ack := dest.(*Ack); ack && errors.Is(err, io.EOF) {
			return nil
		}
		return fail(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
