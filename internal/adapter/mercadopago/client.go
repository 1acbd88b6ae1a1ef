package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/metrics"
)

// ErrMalformedResponse reports a 2xx answer that lacks required fields.
var ErrMalformedResponse = errors.New("malformed gateway response")

// StatusError is a non-success answer from the gateway.
type StatusError struct {
	Operation  string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: gateway responded %d", e.Operation, e.StatusCode)
}

// TooManyRequestsError represents rate limiting signal from the gateway.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Client exposes the payment gateway operations.
type Client interface {
	CreatePreference(ctx context.Context, req model.PreferenceRequest) (*model.Preference, error)
	GetPayment(ctx context.Context, paymentID string) (*model.Payment, error)
	SearchPayments(ctx context.Context, externalReference string) ([]model.Payment, error)
}

// HTTPClient implements Client over the MercadoPago REST API.
type HTTPClient struct {
	baseURL        *url.URL
	accessToken    string
	httpClient     *http.Client
	logger         *slog.Logger
	metrics        *metrics.Recorder
	newBackOff     func() backoff.BackOff
	idempotencyKey func() string
}

// Option customises HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = client }
}

// WithBackOff sets the retry policy used for payment reads.
func WithBackOff(fn func() backoff.BackOff) Option {
	return func(c *HTTPClient) { c.newBackOff = fn }
}

// WithMetrics records gateway calls on recorder.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(c *HTTPClient) { c.metrics = recorder }
}

const maxBodySize = 1 << 20

// NewHTTPClient creates a gateway client bounded by timeout.
func NewHTTPClient(baseURL, accessToken string, timeout time.Duration, logger *slog.Logger, opts ...Option) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	if accessToken == "" {
		return nil, fmt.Errorf("gateway access token must be provided")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &HTTPClient{
		baseURL:        parsed,
		accessToken:    accessToken,
		logger:         logger,
		httpClient:     &http.Client{Timeout: timeout},
		newBackOff:     defaultBackOff,
		idempotencyKey: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = time.Second
	b.MaxElapsedTime = 3 * time.Second
	return backoff.WithMaxRetries(b, 2)
}

type preferenceItem struct {
	Title      string      `json:"title"`
	Quantity   int         `json:"quantity"`
	UnitPrice  json.Number `json:"unit_price"`
	CurrencyID string      `json:"currency_id"`
}

type backURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type preferencePayload struct {
	Items             []preferenceItem `json:"items"`
	ExternalReference string           `json:"external_reference"`
	NotificationURL   string           `json:"notification_url"`
	BackURLs          *backURLs        `json:"back_urls,omitempty"`
	AutoReturn        string           `json:"auto_return,omitempty"`
}

type preferenceResponse struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

type paymentResponse struct {
	ID                json.Number `json:"id"`
	Status            string      `json:"status"`
	ExternalReference string      `json:"external_reference"`
}

type searchResponse struct {
	Results []paymentResponse `json:"results"`
}

// CreatePreference registers a payment request. It is not retried: the
// caller holds an open transaction and treats any failure as final.
func (c *HTTPClient) CreatePreference(ctx context.Context, req model.PreferenceRequest) (*model.Preference, error) {
	payload := preferencePayload{
		ExternalReference: req.ExternalReference,
		NotificationURL:   req.NotificationURL,
	}
	for _, item := range req.Items {
		payload.Items = append(payload.Items, preferenceItem{
			Title:      item.Title,
			Quantity:   item.Quantity,
			UnitPrice:  json.Number(item.UnitPrice.String()),
			CurrencyID: item.CurrencyID,
		})
	}
	if req.ReturnURLs != nil {
		payload.BackURLs = &backURLs{
			Success: req.ReturnURLs.Success,
			Failure: req.ReturnURLs.Failure,
			Pending: req.ReturnURLs.Pending,
		}
		payload.AutoReturn = "approved"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode preference: %w", err)
	}

	var data preferenceResponse
	headers := http.Header{"X-Idempotency-Key": []string{c.idempotencyKey()}}
	if err := c.do(ctx, "create_preference", http.MethodPost, c.endpoint("/checkout/preferences", nil), body, headers, &data); err != nil {
		return nil, err
	}
	if data.ID == "" || (data.InitPoint == "" && data.SandboxInitPoint == "") {
		return nil, fmt.Errorf("create_preference: %w", ErrMalformedResponse)
	}

	return &model.Preference{
		ID:                 data.ID,
		CheckoutURL:        data.InitPoint,
		SandboxCheckoutURL: data.SandboxInitPoint,
	}, nil
}

// GetPayment fetches the current state of a payment, retrying transient failures.
func (c *HTTPClient) GetPayment(ctx context.Context, paymentID string) (*model.Payment, error) {
	if paymentID == "" {
		return nil, fmt.Errorf("get_payment: empty payment id")
	}
	endpoint := c.endpoint("/v1/payments/"+url.PathEscape(paymentID), nil)

	var data paymentResponse
	if err := c.retry(ctx, func() error {
		return c.do(ctx, "get_payment", http.MethodGet, endpoint, nil, nil, &data)
	}); err != nil {
		return nil, err
	}
	if data.ID == "" || data.Status == "" {
		return nil, fmt.Errorf("get_payment: %w", ErrMalformedResponse)
	}

	payment := toPayment(data)
	return &payment, nil
}

// SearchPayments lists payments for an external reference, oldest first.
func (c *HTTPClient) SearchPayments(ctx context.Context, externalReference string) ([]model.Payment, error) {
	query := url.Values{}
	query.Set("external_reference", externalReference)
	query.Set("sort", "date_created")
	query.Set("criteria", "asc")
	endpoint := c.endpoint("/v1/payments/search", query)

	var data searchResponse
	if err := c.retry(ctx, func() error {
		return c.do(ctx, "search_payments", http.MethodGet, endpoint, nil, nil, &data)
	}); err != nil {
		return nil, err
	}

	payments := make([]model.Payment, 0, len(data.Results))
	for _, result := range data.Results {
		if result.ID == "" || result.Status == "" {
			continue
		}
		payments = append(payments, toPayment(result))
	}
	return payments, nil
}

func toPayment(data paymentResponse) model.Payment {
	return model.Payment{
		ID:                data.ID.String(),
		Status:            model.PaymentStatus(data.Status),
		ExternalReference: data.ExternalReference,
	}
}

func (c *HTTPClient) endpoint(path string, query url.Values) string {
	endpoint := c.baseURL.JoinPath(path)
	if query != nil {
		endpoint.RawQuery = query.Encode()
	}
	return endpoint.String()
}

// retry runs op with backoff; only transport errors and 5xx are retried.
func (c *HTTPClient) retry(ctx context.Context, op func() error) error {
	return backoff.Retry(func() error {
		err := op()
		if err == nil || retryable(ctx, err) {
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(c.newBackOff(), ctx))
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError
	}
	var tooMany TooManyRequestsError
	if errors.As(err, &tooMany) || errors.Is(err, ErrMalformedResponse) {
		return false
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return !errors.As(err, &syntaxErr) && !errors.As(err, &typeErr)
}

func (c *HTTPClient) do(ctx context.Context, operation, method, endpoint string, body []byte, headers http.Header, out any) (err error) {
	started := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		c.metrics.GatewayRequest(operation, result, time.Since(started))
	}()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(out); err != nil {
			return fmt.Errorf("%s: decode: %w", operation, err)
		}
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("gateway request failed",
			slog.String("operation", operation),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(payload)),
		)
		return &StatusError{Operation: operation, StatusCode: resp.StatusCode}
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
