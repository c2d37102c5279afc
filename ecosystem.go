package moltbook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// DegradedHint is attached to every degraded ecosystem result
const DegradedHint = "This API might not be live or public yet."

// Degraded describes an ecosystem call that failed. It is returned as data,
// never raised, so one unreachable service cannot abort the caller.
type Degraded struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Hint    string `json:"hint"`
}

// EcosystemResult is either the passed-through response of an auxiliary
// backend or a Degraded value. Use Value and Degraded to tell them apart.
type EcosystemResult struct {
	value    json.RawMessage
	degraded *Degraded
}

// Ok wraps a successful ecosystem response
func Ok(value json.RawMessage) EcosystemResult {
	return EcosystemResult{value: value}
}

// Degrade wraps an ecosystem failure
func Degrade(message string) EcosystemResult {
	return EcosystemResult{degraded: &Degraded{Success: false, Error: message, Hint: DegradedHint}}
}

// Value returns the response body and true when the call succeeded
func (r EcosystemResult) Value() (json.RawMessage, bool) {
	if r.degraded != nil {
		return nil, false
	}
	return r.value, true
}

// Degraded returns the failure and true when the call failed
func (r EcosystemResult) Degraded() (*Degraded, bool) {
	return r.degraded, r.degraded != nil
}

// MarshalJSON renders the response unchanged, or the degraded envelope
func (r EcosystemResult) MarshalJSON() ([]byte, error) {
	if r.degraded != nil {
		return json.Marshal(r.degraded)
	}
	if r.value == nil {
		return []byte("null"), nil
	}
	return r.value, nil
}

// ecosystemRequest sends req to an auxiliary backend. Every failure is logged
// and folded into a degraded result.
func (g *Gateway) ecosystemRequest(ctx context.Context, name BackendName, req Request) EcosystemResult {
	backend, ok := g.backends[name]
	if !ok {
		return Degrade(fmt.Sprintf("unknown backend '%s'", name))
	}

	resp, err := g.client.Do(ctx, backend, req)
	if err != nil {
		g.logger.Warn("Ecosystem API error",
			"backend", backend.Name,
			"base_url", backend.BaseURL,
			"method", req.Method,
			"path", req.Path,
			"error", err,
		)
		var netErr *NetworkError
		if errors.As(err, &netErr) {
			return Degrade(netErr.Err.Error())
		}
		return Degrade(err.Error())
	}

	if !resp.OK() {
		g.logger.Warn("Ecosystem API error",
			"backend", backend.Name,
			"base_url", backend.BaseURL,
			"method", req.Method,
			"path", req.Path,
			"status", resp.Status,
			"response", serializeBody(resp.Body),
		)
		return Degrade(errorMessage(resp))
	}

	return Ok(decodeBody(resp.Body))
}

// errorMessage prefers the error field of a JSON error body
func errorMessage(resp *Response) string {
	var body struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(resp.Body, &body); err == nil && !emptyErrorField(body.Error) {
		var text string
		if err := json.Unmarshal(body.Error, &text); err == nil {
			return text
		}
		return string(body.Error)
	}

	return fmt.Sprintf("request failed with status code %d", resp.Status)
}

// emptyErrorField reports whether an error field carries no usable message
func emptyErrorField(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", `""`, "false", "0":
		return true
	}
	return false
}

// --- Moltiverse Hub ---

func (g *Gateway) MoltiverseStatus(ctx context.Context) EcosystemResult {
	return g.ecosystemRequest(ctx, Moltiverse, Request{Method: GET, Path: "/status"})
}

// --- Molt Place ---

func (g *Gateway) CanvasStatus(ctx context.Context) EcosystemResult {
	return g.ecosystemRequest(ctx, MoltPlace, Request{Method: GET, Path: "/status"})
}

// --- Molt Market ---

func (g *Gateway) SearchMarket(ctx context.Context, query string) EcosystemResult {
	return g.ecosystemRequest(ctx, MoltMarket, Request{
		Method: GET,
		Path:   "/search",
		Query:  url.Values{"q": {query}},
	})
}

// --- Craber News ---

// ItemType selects posts or comments on Craber News
type ItemType string

const (
	ItemPost    ItemType = "post"
	ItemComment ItemType = "comment"
)

func (g *Gateway) CraberNews(ctx context.Context, limit int) EcosystemResult {
	if limit <= 0 {
		limit = 5
	}
	return g.ecosystemRequest(ctx, CraberNews, Request{
		Method: GET,
		Path:   "/news",
		Query:  url.Values{"limit": {strconv.Itoa(limit)}},
	})
}

func (g *Gateway) CraberFeed(ctx context.Context, sort Sort, limit int) EcosystemResult {
	return g.ecosystemRequest(ctx, CraberNews, Request{Method: GET, Path: "/posts", Query: feedQuery(sort, limit)})
}

func (g *Gateway) RegisterCraberAgent(ctx context.Context, name, bio string) EcosystemResult {
	payload := map[string]any{"name": name}
	if bio != "" {
		payload["bio"] = bio
	}
	return g.ecosystemRequest(ctx, CraberNews, Request{Method: POST, Path: "/agents/register", Body: payload})
}

func (g *Gateway) SubmitCraberLink(ctx context.Context, title, link string) EcosystemResult {
	return g.ecosystemRequest(ctx, CraberNews, Request{
		Method: POST,
		Path:   "/posts",
		Body:   map[string]any{"title": title, "url": link},
	})
}

// VoteCraberItem upvotes a post or a comment
func (g *Gateway) VoteCraberItem(ctx context.Context, id string, itemType ItemType) EcosystemResult {
	collection := "posts"
	if itemType == ItemComment {
		collection = "comments"
	}
	return g.ecosystemRequest(ctx, CraberNews, Request{
		Method: POST,
		Path:   joinPath(collection, segment(id), "upvote"),
	})
}

func (g *Gateway) CommentCraber(ctx context.Context, postID, content, parentID string) EcosystemResult {
	payload := map[string]any{"content": content}
	if parentID != "" {
		payload["parent_id"] = parentID
	}
	return g.ecosystemRequest(ctx, CraberNews, Request{
		Method: POST,
		Path:   joinPath("posts", segment(postID), "comments"),
		Body:   payload,
	})
}

func (g *Gateway) CraberNotifications(ctx context.Context) EcosystemResult {
	return g.ecosystemRequest(ctx, CraberNews, Request{Method: GET, Path: "/notifications"})
}
