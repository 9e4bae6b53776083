// Package api предоставляет типизированный клиент REST API программы школьных монет.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"go.uber.org/zap"

	"github.com/mmeshcher/coins-admin/internal/model"
	"github.com/mmeshcher/coins-admin/internal/session"
)

// DefaultTimeout ограничивает время одного запроса, если не задано иное.
const DefaultTimeout = 30 * time.Second

// Client выполняет аутентифицированные запросы к API и нормализует ответы.
type Client struct {
	baseURL    string
	session    *session.Session
	httpClient *http.Client
	logger     *zap.Logger
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient задаёт HTTP-клиент.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger задаёт логгер.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTimeout задаёт таймаут HTTP-клиента.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient создаёт клиент для API по указанному базовому адресу (включая префикс /api).
func NewClient(baseURL string, sess *session.Session, opts ...Option) *Client {
	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = DefaultTimeout

	c := &Client{
		baseURL:    NormalizeBaseURL(baseURL),
		session:    sess,
		httpClient: hc,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NormalizeBaseURL убирает завершающий слэш и добавляет схему http, если она не указана.
func NormalizeBaseURL(base string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base != "" && !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return base
}

// BaseURL возвращает нормализованный базовый адрес API.
func (c *Client) BaseURL() string { return c.baseURL }

// HTTPClient возвращает используемый HTTP-клиент.
func (c *Client) HTTPClient() *http.Client { return c.httpClient }

// Session возвращает сессию клиента.
func (c *Client) Session() *session.Session { return c.session }

// Users возвращает клиент ресурса пользователей.
func (c *Client) Users() *UsersClient { return &UsersClient{c: c} }

// Groups возвращает клиент ресурса групп.
func (c *Client) Groups() *GroupsClient { return &GroupsClient{c: c} }

// Presents возвращает клиент ресурса подарков.
func (c *Client) Presents() *PresentsClient { return &PresentsClient{c: c} }

// Orders возвращает клиент ресурса заказов.
func (c *Client) Orders() *OrdersClient { return &OrdersClient{c: c} }

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// doJSON отправляет JSON-запрос. Возвращает false, если сервер ответил без содержимого.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out any) (bool, error) {
	var body io.Reader
	if in != nil {
		data, err := encodeJSON(in)
		if err != nil {
			return false, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	return c.send(ctx, method, path, query, body, "application/json", out)
}

// send выполняет запрос. Пустой contentType означает, что заголовок выставлен вызывающим
// кодом (multipart) и передаётся через body.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) (bool, error) {
	target := c.url(path, query)

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.session != nil {
		if auth := c.session.AuthHeader(ctx); auth != "" {
			req.Header.Set("Authorization", auth)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, fmt.Errorf("%s %s: %w", method, path, ctxErr)
		}
		c.logger.Warn("api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return false, &ConnectivityError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(resp.Body)

	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", requestID),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, newError(resp, data)
	}

	if readErr != nil {
		return false, &ConnectivityError{Method: method, URL: target, Err: readErr}
	}

	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}

	if out == nil {
		return true, nil
	}

	if err := decodeBody(data, out); err != nil {
		return false, &DecodeError{Status: resp.StatusCode, Err: err}
	}

	return true, nil
}

func newError(resp *http.Response, data []byte) *Error {
	e := &Error{
		Status:  resp.StatusCode,
		Code:    CodeUnknown,
		Message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, statusText(resp)),
	}

	var env model.ErrorResponse
	if len(bytes.TrimSpace(data)) > 0 && decodeBody(data, &env) == nil {
		if env.Code != "" {
			e.Code = env.Code
		}
		if env.Message != "" {
			e.Message = env.Message
		}
		e.Timestamp = env.Timestamp
	}

	return e
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
