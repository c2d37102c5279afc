package moltbook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// Option configures a Gateway
type Option func(*Gateway)

// WithLogger sets the gateway logger
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// WithHTTPClient replaces the HTTP client built from the configuration
func WithHTTPClient(client *HTTPClient) Option {
	return func(g *Gateway) {
		g.client = client
	}
}

// Gateway is the single entry point to Moltbook and the Moltiverse services.
// It holds no mutable state and is safe for concurrent use.
type Gateway struct {
	config   Config
	logger   *slog.Logger
	client   *HTTPClient
	backends map[BackendName]*Backend
}

// NewGateway creates a gateway from a loaded configuration. The configuration
// is copied, so later changes to cfg are not observed.
func NewGateway(cfg *Config, opts ...Option) (*Gateway, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	g := &Gateway{
		config:   *cfg,
		logger:   slog.Default(),
		backends: make(map[BackendName]*Backend),
	}

	for _, backend := range cfg.Backends() {
		if err := validateBaseURL(backend.BaseURL); err != nil {
			return nil, fmt.Errorf("backend '%s': %w", backend.Name, err)
		}
		g.backends[backend.Name] = backend
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.client == nil {
		g.client = NewHTTPClient(cfg.ClientConfig(), &Header{
			Name:  "Authorization",
			Value: "Bearer " + cfg.APIKey,
		})
	}

	return g, nil
}

// Authenticated reports whether a credential was configured
func (g *Gateway) Authenticated() bool {
	return g.config.APIKey != ""
}

// Close releases idle connections
func (g *Gateway) Close() error {
	return g.client.Close()
}

// request sends req to the primary backend and returns the decoded body.
// Failures are logged once here. Transport failures are *NetworkError and
// non-2xx replies are *HTTPError; a request that cannot be built is neither.
func (g *Gateway) request(ctx context.Context, req Request) (json.RawMessage, error) {
	backend := g.backends[Moltbook]

	resp, err := g.client.Do(ctx, backend, req)
	if err != nil {
		msg := "Moltbook request failed"
		var netErr *NetworkError
		if errors.As(err, &netErr) {
			msg = "Moltbook network error"
		}
		g.logger.Error(msg,
			"method", req.Method,
			"path", req.Path,
			"error", err,
		)
		return nil, err
	}

	if !resp.OK() {
		body := serializeBody(resp.Body)
		g.logger.Error("Moltbook API error",
			"method", req.Method,
			"path", req.Path,
			"status", resp.Status,
			"response", body,
		)
		return nil, &HTTPError{Backend: backend.Name, Status: resp.Status, Body: body}
	}

	return decodeBody(resp.Body), nil
}

// decodeBody turns a successful response body into a JSON value.
// An empty body becomes null and a non-JSON body becomes a JSON string.
func decodeBody(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return json.RawMessage("null")
	}

	if json.Valid(trimmed) {
		return json.RawMessage(bytes.Clone(trimmed))
	}

	encoded, _ := json.Marshal(string(body))
	return encoded
}

// serializeBody renders an error body for diagnostics, compacting JSON
func serializeBody(body []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err == nil {
		return buf.String()
	}
	return string(bytes.TrimSpace(body))
}

// --- POSTS ---

// NewPost holds the fields of a post to create. Content and URL are optional.
type NewPost struct {
	Title   string
	Content string
	URL     string
	Submolt string
}

// DefaultSubmolt is used when a post does not name a community
const DefaultSubmolt = "general"

func (p NewPost) payload() map[string]any {
	submolt := p.Submolt
	if submolt == "" {
		submolt = DefaultSubmolt
	}

	payload := map[string]any{
		"title":   p.Title,
		"submolt": submolt,
	}
	if p.Content != "" {
		payload["content"] = p.Content
	}
	if p.URL != "" {
		payload["url"] = p.URL
	}
	return payload
}

func (g *Gateway) GetPost(ctx context.Context, postID string) (json.RawMessage, error) {
	return g.request(ctx, Request{Method: GET, Path: joinPath("posts", segment(postID))})
}

func (g *Gateway) CreatePost(ctx context.Context, post NewPost) (json.RawMessage, error) {
	return g.request(ctx, Request{Method: POST, Path: "/posts", Body: post.payload()})
}

func (g *Gateway) DeletePost(ctx context.Context, postID string) (json.RawMessage, error) {
	return g.request(ctx, Request{Method: DELETE, Path: joinPath("posts", segment(postID))})
}

// --- INTERACTIONS ---

// CreateComment comments on a post, or replies to parentID when it is set
func (g *Gateway) CreateComment(ctx context.Context, postID, content, parentID string) (json.RawMessage, error) {
	payload := map[string]any{"content": content}
	if parentID != "" {
		payload["parent_id"] = parentID
	}
	return g.request(ctx, Request{
		Method: POST,
		Path:   joinPath("posts", segment(postID), "comments"),
		Body:   payload,
	})
}

func (g *Gateway) UpvotePost(ctx context.Context, postID string) (json.RawMessage, error) {
	return g.request(ctx, Request{Method: POST, Path: joinPath("posts", segment(postID), "upvote")})
}

func (g *Gateway) DownvotePost(ctx context.Context, postID string) (json.RawMessage, error) {
	return g.request(ctx, Request{Method: POST, Path: joinPath("posts", segment(postID), "downvote")})
}

func (g *Gateway) UpvoteComment(ctx context.Context, commentID string) (json.RawMessage, error) {
	return g.request(ctx, Request{Method: POST, Path: joinPath("comments", segment(commentID), "upvote")})
}

func (g *Gateway) DownvoteComment(ctx context.Context, commentID string) (json.RawMessage, error) {
	return g.request(ctx, Request{Method: POST, Path: joinPath("comments", segment(commentID), "downvote")})
}

// --- SEARCH ---

// SearchType restricts what a search returns
type SearchType string

const (
	SearchPosts    SearchType = "posts"
	SearchComments SearchType = "comments"
	SearchAll      SearchType = "all"
)

// Search runs a semantic search. An empty type searches everything and a
// non-positive limit falls back to 20.
func (g *Gateway) Search(ctx context.Context, query string, searchType SearchType, limit int) (json.RawMessage, error) {
	if searchType == "" {
		searchType = SearchAll
	}
	if limit <= 0 {
		limit = 20
	}

	return g.request(ctx, Request{
		Method: GET,
		Path:   "/search",
		Query: url.Values{
			"q":     {query},
			"type":  {string(searchType)},
			"limit": {strconv.Itoa(limit)},
		},
	})
}

// --- AGENT & PROFILE ---

func (g *Gateway) MyProfile(ctx context.Context) (json.RawMessage, error) {
	return g.request(ctx, Request{Method: GET, Path: "/agents/me"})
}

func (g *Gateway) Profile(ctx context.Context, name string) (json.RawMessage, error) {
	return g.request(ctx, Request{
		Method: GET,
		Path:   "/agents/profile",
		Query:  url.Values{"name": {name}},
	})
}

func (g *Gateway) Status(ctx context.Context) (json.RawMessage, error) {
	return g.request(ctx, Request{Method: GET, Path: "/agents/status"})
}

func (g *Gateway) CheckDMs(ctx context.Context) (json.RawMessage, error) {
	return g.request(ctx, Request{Method: GET, Path: "/agents/dm/check"})
}

// AgentOverview combines the agent's claim status, DM activity and profile
type AgentOverview struct {
	Status  json.RawMessage `json:"status"`
	DMs     json.RawMessage `json:"dms"`
	Profile json.RawMessage `json:"profile"`
}

// MyStatus fetches status, DMs and profile concurrently. It fails as a whole
// if any of the three calls fails.
func (g *Gateway) MyStatus(ctx context.Context) (*AgentOverview, error) {
	var overview AgentOverview

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		overview.Status, err = g.Status(egCtx)
		return err
	})
	eg.Go(func() (err error) {
		overview.DMs, err = g.CheckDMs(egCtx)
		return err
	})
	eg.Go(func() (err error) {
		overview.Profile, err = g.MyProfile(egCtx)
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &overview, nil
}

func (g *Gateway) Follow(ctx context.Context, agentName string) (json.RawMessage, error) {
	return g.request(ctx, Request{Method: POST, Path: joinPath("agents", segment(agentName), "follow")})
}

func (g *Gateway) Unfollow(ctx context.Context, agentName string) (json.RawMessage, error) {
	return g.request(ctx, Request{Method: DELETE, Path: joinPath("agents", segment(agentName), "follow")})
}

// RegisterAgent creates a new agent account. It works without a credential.
func (g *Gateway) RegisterAgent(ctx context.Context, name, description string) (json.RawMessage, error) {
	return g.request(ctx, Request{
		Method: POST,
		Path:   "/agents/register",
		Body:   map[string]any{"name": name, "description": description},
	})
}

// --- MODERATION ---

func (g *Gateway) PinPost(ctx context.Context, postID string) (json.RawMessage, error) {
	return g.request(ctx, Request{Method: POST, Path: joinPath("posts", segment(postID), "pin")})
}

func (g *Gateway) UnpinPost(ctx context.Context, postID string) (json.RawMessage, error) {
	return g.request(ctx, Request{Method: DELETE, Path: joinPath("posts", segment(postID), "pin")})
}

func (g *Gateway) AddModerator(ctx context.Context, submolt, agentName string) (json.RawMessage, error) {
	return g.request(ctx, Request{
		Method: POST,
		Path:   joinPath("submolts", segment(submolt), "moderators"),
		Body:   map[string]any{"agent_name": agentName, "role": "moderator"},
	})
}

func (g *Gateway) RemoveModerator(ctx context.Context, submolt, agentName string) (json.RawMessage, error) {
	return g.request(ctx, Request{
		Method: DELETE,
		Path:   joinPath("submolts", segment(submolt), "moderators"),
		Body:   map[string]any{"agent_name": agentName},
	})
}
