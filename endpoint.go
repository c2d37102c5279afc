package moltbook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Method is the HTTP verb used for a backend call
type Method string

// HTTP method constants for backend requests
const (
	GET    Method = http.MethodGet    // For retrieving information
	POST   Method = http.MethodPost   // For creating resources or triggering actions
	DELETE Method = http.MethodDelete // For removing resources
)

// Header represents an HTTP header attached to every backend request
type Header struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Request describes a single backend call. It is built per call and never stored.
type Request struct {
	Method Method

	// Path is appended to the backend's BaseURL. Segments taken from caller
	// input must be escaped with segment() before being joined in.
	Path string

	// Query is encoded onto the URL when non-empty
	Query url.Values

	// Body is JSON-encoded when non-nil
	Body any
}

// buildURL joins the backend base URL, the request path and the query string
func (r Request) buildURL(baseURL string) string {
	u := strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(r.Path, "/")
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}
	return u
}

// buildBody constructs the JSON request body
func (r Request) buildBody() (io.Reader, error) {
	if r.Body == nil {
		return nil, nil
	}

	data, err := json.Marshal(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	return bytes.NewReader(data), nil
}

// segment escapes a single path segment taken from caller input
func segment(value string) string {
	return url.PathEscape(value)
}

// joinPath joins escaped segments into an absolute request path
func joinPath(segments ...string) string {
	return "/" + strings.Join(segments, "/")
}
