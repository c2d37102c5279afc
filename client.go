package moltbook

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

type ClientConfig struct {
	// Timeout bounds a whole call. Zero leaves the transport default in place.
	Timeout         time.Duration
	MaxIdleConns    int
	MaxConnsPerHost int
	IdleConnTimeout time.Duration
}

func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Timeout:         0,
		MaxIdleConns:    100,
		MaxConnsPerHost: 10,
		IdleConnTimeout: 90 * time.Second,
	}
}

// Response is a fully read backend response
type Response struct {
	Status int
	Body   []byte
}

// OK reports whether the status is 2xx
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// HTTPClient issues exactly one attempt per call. Retrying is left to the caller.
type HTTPClient struct {
	client  *http.Client
	config  *ClientConfig
	headers []*Header
}

func NewHTTPClient(config *ClientConfig, headers ...*Header) *HTTPClient {
	if config == nil {
		config = DefaultClientConfig()
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
	}

	client := &http.Client{
		Timeout:   config.Timeout,
		Transport: transport,
	}

	return &HTTPClient{
		client:  client,
		config:  config,
		headers: headers,
	}
}

// Do sends req to backend. Failures to reach the backend or read its reply
// are returned as *NetworkError; failures to build the request are returned
// as-is. Status handling is up to the caller.
func (c *HTTPClient) Do(ctx context.Context, backend *Backend, req Request) (*Response, error) {
	body, err := req.buildBody()
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(req.Method), req.buildURL(backend.BaseURL), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	for _, header := range c.headers {
		httpReq.Header.Set(header.Name, header.Value)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	backendLatency.WithLabelValues(string(backend.Name)).Observe(time.Since(start).Seconds())
	if err != nil {
		backendRequests.WithLabelValues(string(backend.Name), string(req.Method), "network_error").Inc()
		return nil, &NetworkError{Backend: backend.Name, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		backendRequests.WithLabelValues(string(backend.Name), string(req.Method), "network_error").Inc()
		return nil, &NetworkError{Backend: backend.Name, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	backendRequests.WithLabelValues(string(backend.Name), string(req.Method), strconv.Itoa(resp.StatusCode)).Inc()

	return &Response{Status: resp.StatusCode, Body: data}, nil
}

func (c *HTTPClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
