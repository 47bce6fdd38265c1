// Package httpclient - HTTP-клиент API заметок, подставляющий bearer-токен сессии.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/resilience"
	"notekeeper/pkg/logger"
)

// Заголовки запроса.
const (
	HeaderContentType = "Content-Type"
	HeaderRequestID   = "X-Request-ID"
	ContentTypeJSON   = "application/json"
)

// Константы для логирования.
const (
	LogSendingRequest  = "sending api request"
	LogRequestComplete = "api request completed"
	LogTokenFailed     = "failed to obtain session token"
	LogRequestFailed   = "api request failed"
)

// errServerStatus отмечает ответы 5xx для предохранителя.
var errServerStatus = errors.New("server error status")

// RequestOptions описывает запрос к API.
type RequestOptions struct {
	Method string
	// Body кодируется в JSON, если не nil.
	Body   any
	Header http.Header
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient подменяет транспорт.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout ограничивает время одного запроса; 0 - без ограничения.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

// WithCircuitBreaker включает предохранитель: ошибки транспорта и ответы 5xx
// считаются отказами, при открытом состоянии запросы не отправляются.
func WithCircuitBreaker(cb *resilience.CircuitBreaker) Option {
	return func(c *Client) {
		c.breaker = cb
	}
}

// Client отправляет запросы к API с заголовком Authorization.
// Сам клиент запросы не повторяет.
type Client struct {
	baseURL string
	tokens  oauth2.TokenSource
	http    *http.Client
	breaker *resilience.CircuitBreaker
}

// New создает клиент.
func New(baseURL string, tokens oauth2.TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do выполняет запрос к path относительно базового URL.
// Если токен получить не удалось, возвращается ErrAuthentication и запрос не отправляется.
// Ответ возвращается с любым статусом; закрыть тело должен вызывающий.
func (c *Client) Do(ctx context.Context, path string, opts RequestOptions) (*http.Response, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	log := logger.Log(ctx).With(zap.String("method", method), zap.String("path", path))

	token, err := c.tokens.Token()
	if err != nil {
		log.Warn(ctx, LogTokenFailed, zap.Error(err))
		return nil, fmt.Errorf("%w: %w", entities.ErrAuthentication, err)
	}
	if !token.Valid() {
		log.Warn(ctx, LogTokenFailed)
		return nil, fmt.Errorf("%w: empty or expired token", entities.ErrAuthentication)
	}

	var body io.Reader
	if opts.Body != nil {
		raw, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for key, values := range opts.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if req.Header.Get(HeaderContentType) == "" {
		req.Header.Set(HeaderContentType, ContentTypeJSON)
	}
	if requestID, ok := logger.GetRequestID(ctx); ok {
		req.Header.Set(HeaderRequestID, requestID)
	}
	token.SetAuthHeader(req)

	log.Debug(ctx, LogSendingRequest)

	resp, err := c.send(ctx, req)
	if err != nil {
		log.Error(ctx, LogRequestFailed, zap.Error(err))
		return nil, fmt.Errorf("%w: %w", entities.ErrRemoteRequestFailed, err)
	}

	log.Debug(ctx, LogRequestComplete, zap.Int("status", resp.StatusCode))
	return resp, nil
}

func (c *Client) send(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.breaker == nil {
		return c.http.Do(req)
	}

	if !c.breaker.AllowRequest(ctx) {
		return nil, resilience.ErrCircuitOpen
	}

	resp, err := c.http.Do(req)
	switch {
	case err != nil:
		c.breaker.RecordResult(ctx, err)
	case resp.StatusCode >= http.StatusInternalServerError:
		c.breaker.RecordResult(ctx, errServerStatus)
	default:
		c.breaker.RecordResult(ctx, nil)
	}
	return resp, err
}
