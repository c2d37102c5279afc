package moltbook

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// Sort orders feed results
type Sort string

const (
	SortHot Sort = "hot"
	SortNew Sort = "new"
	SortTop Sort = "top"
)

// DefaultFeedLimit is used when a feed read passes a non-positive limit
const DefaultFeedLimit = 25

func feedQuery(sort Sort, limit int) url.Values {
	if sort == "" {
		sort = SortNew
	}
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	return url.Values{
		"sort":  {string(sort)},
		"limit": {strconv.Itoa(limit)},
	}
}

// ResolveFeed reads the personalized feed. When the feed carries an empty
// posts array, which is what a brand-new agent with no follows gets, the
// global feed is returned instead. A missing or null posts field does not
// trigger the fallback, and the fallback is never repeated.
func (g *Gateway) ResolveFeed(ctx context.Context, sort Sort, limit int) (json.RawMessage, error) {
	feed, err := g.request(ctx, Request{Method: GET, Path: "/feed", Query: feedQuery(sort, limit)})
	if err != nil {
		return nil, err
	}

	if !hasEmptyPosts(feed) {
		return feed, nil
	}

	g.logger.Debug("Personalized feed is empty, falling back to global feed",
		"sort", sort,
		"limit", limit,
	)

	return g.GlobalPosts(ctx, sort, limit)
}

// GlobalPosts reads the public feed. It is the fallback target and never falls back itself.
func (g *Gateway) GlobalPosts(ctx context.Context, sort Sort, limit int) (json.RawMessage, error) {
	return g.request(ctx, Request{Method: GET, Path: "/posts", Query: feedQuery(sort, limit)})
}

// hasEmptyPosts reports whether body is an object whose posts field is a zero-length array
func hasEmptyPosts(body json.RawMessage) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return false
	}

	raw, ok := fields["posts"]
	if !ok {
		return false
	}

	// null decodes to a nil slice, [] to an empty non-nil one
	var posts []json.RawMessage
	if err := json.Unmarshal(raw, &posts); err != nil {
		return false
	}

	return posts != nil && len(posts) == 0
}
