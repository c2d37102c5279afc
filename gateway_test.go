package moltbook

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGateway_RejectsInvalidBaseURL(t *testing.T) {
	cfg := testConfig("not-a-url", "http://localhost:1")

	_, err := NewGateway(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "moltbook")
}

func TestRequest_AttachesBearerAndContentType(t *testing.T) {
	backend := newFakeBackend(t, jsonReply(http.StatusOK, `{"agent":{"name":"crab"}}`))
	g := newTestGateway(t, testConfig(backend.URL, backend.URL))

	body, err := g.MyProfile(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"agent":{"name":"crab"}}`, string(body))

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer test-key", reqs[0].Authorization)
	assert.Equal(t, "application/json", reqs[0].ContentType)
	assert.Equal(t, "/agents/me", reqs[0].Path)
}

func TestRequest_EmptyCredentialStillDispatches(t *testing.T) {
	backend := newFakeBackend(t, jsonReply(http.StatusCreated, `{"api_key":"new"}`))
	cfg := testConfig(backend.URL, backend.URL)
	cfg.APIKey = ""
	g := newTestGateway(t, cfg)

	assert.False(t, g.Authenticated())

	body, err := g.RegisterAgent(context.Background(), "crab", "pinches things")
	require.NoError(t, err)
	assert.JSONEq(t, `{"api_key":"new"}`, string(body))

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/agents/register", reqs[0].Path)
	assert.Equal(t, map[string]any{"name": "crab", "description": "pinches things"}, reqs[0].Body)
	assert.True(t, strings.HasPrefix(reqs[0].Authorization, "Bearer"))
}

func TestRequest_HTTPErrorCarriesStatusAndBody(t *testing.T) {
	backend := newFakeBackend(t, jsonReply(http.StatusNotFound, `{"error": "Post not found"}`))

	var logs bytes.Buffer
	cfg := testConfig(backend.URL, backend.URL)
	g, err := NewGateway(cfg, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	require.NoError(t, err)

	_, err = g.GetPost(context.Background(), "missing")
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, `{"error":"Post not found"}`, httpErr.Body)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), `{"error":"Post not found"}`)

	assert.Equal(t, 1, strings.Count(logs.String(), "\n"), "exactly one diagnostic line per failure")
	assert.Len(t, backend.Requests(), 1, "no retries")
}

func TestRequest_NetworkError(t *testing.T) {
	g := newTestGateway(t, testConfig(unreachableURL(t), unreachableURL(t)))

	_, err := g.Status(context.Background())
	require.Error(t, err)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, Moltbook, netErr.Backend)
	assert.Contains(t, err.Error(), "moltbook network error")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRequest_BuildFailureIsNotNetworkError(t *testing.T) {
	backend := newFakeBackend(t, jsonReply(http.StatusOK, `{}`))
	g := newTestGateway(t, testConfig(backend.URL, backend.URL))

	_, err := g.request(context.Background(), Request{Method: POST, Path: "/posts", Body: make(chan int)})
	require.Error(t, err)

	var netErr *NetworkError
	assert.False(t, errors.As(err, &netErr))
	var httpErr *HTTPError
	assert.False(t, errors.As(err, &httpErr))
	assert.Empty(t, backend.Requests())
}

func TestRequest_SuccessLogsNothing(t *testing.T) {
	backend := newFakeBackend(t, jsonReply(http.StatusOK, `{}`))

	var logs bytes.Buffer
	g, err := NewGateway(testConfig(backend.URL, backend.URL),
		WithLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelInfo}))))
	require.NoError(t, err)

	_, err = g.Status(context.Background())
	require.NoError(t, err)
	assert.Empty(t, logs.String())
}

func TestDecodeBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", "", "null"},
		{"whitespace", "  \n", "null"},
		{"object", `{"ok":true}`, `{"ok":true}`},
		{"text", "deleted", `"deleted"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, string(decodeBody([]byte(tt.body))))
		})
	}
}

func TestCreatePost_OmitsEmptyOptionalFields(t *testing.T) {
	backend := newFakeBackend(t, jsonReply(http.StatusOK, `{"success":true}`))
	g := newTestGateway(t, testConfig(backend.URL, backend.URL))

	_, err := g.CreatePost(context.Background(), NewPost{Title: "Hello", URL: "http://x", Submolt: "general"})
	require.NoError(t, err)

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/posts", reqs[0].Path)
	assert.Equal(t, map[string]any{"title": "Hello", "submolt": "general", "url": "http://x"}, reqs[0].Body)
	assert.NotContains(t, reqs[0].Body, "content")
}

func TestCreatePost_DefaultsSubmolt(t *testing.T) {
	backend := newFakeBackend(t, jsonReply(http.StatusOK, `{}`))
	g := newTestGateway(t, testConfig(backend.URL, backend.URL))

	_, err := g.CreatePost(context.Background(), NewPost{Title: "Hi", Content: "body"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"title": "Hi", "submolt": "general", "content": "body"}, backend.Requests()[0].Body)
}

func TestPrimaryOperations_Routes(t *testing.T) {
	backend := newFakeBackend(t, jsonReply(http.StatusOK, `{}`))
	g := newTestGateway(t, testConfig(backend.URL, backend.URL))
	ctx := context.Background()

	tests := []struct {
		name   string
		call   func() error
		method string
		path   string
		query  string
		body   map[string]any
	}{
		{"delete post", func() error { _, err := g.DeletePost(ctx, "p1"); return err }, "DELETE", "/posts/p1", "", nil},
		{"comment reply", func() error { _, err := g.CreateComment(ctx, "p1", "nice", "c9"); return err },
			"POST", "/posts/p1/comments", "", map[string]any{"content": "nice", "parent_id": "c9"}},
		{"comment", func() error { _, err := g.CreateComment(ctx, "p1", "nice", ""); return err },
			"POST", "/posts/p1/comments", "", map[string]any{"content": "nice"}},
		{"upvote post", func() error { _, err := g.UpvotePost(ctx, "p1"); return err }, "POST", "/posts/p1/upvote", "", nil},
		{"downvote post", func() error { _, err := g.DownvotePost(ctx, "p1"); return err }, "POST", "/posts/p1/downvote", "", nil},
		{"upvote comment", func() error { _, err := g.UpvoteComment(ctx, "c1"); return err }, "POST", "/comments/c1/upvote", "", nil},
		{"downvote comment", func() error { _, err := g.DownvoteComment(ctx, "c1"); return err }, "POST", "/comments/c1/downvote", "", nil},
		{"search", func() error { _, err := g.Search(ctx, "crab memes", SearchPosts, 5); return err },
			"GET", "/search", "limit=5&q=crab+memes&type=posts", nil},
		{"search defaults", func() error { _, err := g.Search(ctx, "x", "", 0); return err },
			"GET", "/search", "limit=20&q=x&type=all", nil},
		{"profile", func() error { _, err := g.Profile(ctx, "SniperBot"); return err }, "GET", "/agents/profile", "name=SniperBot", nil},
		{"dm check", func() error { _, err := g.CheckDMs(ctx); return err }, "GET", "/agents/dm/check", "", nil},
		{"follow", func() error { _, err := g.Follow(ctx, "crab"); return err }, "POST", "/agents/crab/follow", "", nil},
		{"unfollow", func() error { _, err := g.Unfollow(ctx, "crab"); return err }, "DELETE", "/agents/crab/follow", "", nil},
		{"pin", func() error { _, err := g.PinPost(ctx, "p1"); return err }, "POST", "/posts/p1/pin", "", nil},
		{"unpin", func() error { _, err := g.UnpinPost(ctx, "p1"); return err }, "DELETE", "/posts/p1/pin", "", nil},
		{"add moderator", func() error { _, err := g.AddModerator(ctx, "general", "crab"); return err },
			"POST", "/submolts/general/moderators", "", map[string]any{"agent_name": "crab", "role": "moderator"}},
		{"remove moderator", func() error { _, err := g.RemoveModerator(ctx, "general", "crab"); return err },
			"DELETE", "/submolts/general/moderators", "", map[string]any{"agent_name": "crab"}},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.call())

			reqs := backend.Requests()
			require.Len(t, reqs, i+1)
			got := reqs[i]
			assert.Equal(t, tt.method, got.Method)
			assert.Equal(t, tt.path, got.Path)
			assert.Equal(t, tt.query, got.RawQuery)
			assert.Equal(t, tt.body, got.Body)
		})
	}
}

func TestGetPost_EscapesPathSegment(t *testing.T) {
	backend := newFakeBackend(t, jsonReply(http.StatusOK, `{}`))
	g := newTestGateway(t, testConfig(backend.URL, backend.URL))

	_, err := g.GetPost(context.Background(), "../agents/me")
	require.NoError(t, err)

	assert.Equal(t, "/posts/..%2Fagents%2Fme", backend.Requests()[0].EscapedPath)
}

func TestMyStatus_CombinesAllThree(t *testing.T) {
	backend := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/agents/status":
			jsonReply(http.StatusOK, `{"status":"claimed"}`)(w, r)
		case "/agents/dm/check":
			jsonReply(http.StatusOK, `{"has_activity":false}`)(w, r)
		case "/agents/me":
			jsonReply(http.StatusOK, `{"name":"crab"}`)(w, r)
		default:
			http.NotFound(w, r)
		}
	})
	g := newTestGateway(t, testConfig(backend.URL, backend.URL))

	overview, err := g.MyStatus(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"claimed"}`, string(overview.Status))
	assert.JSONEq(t, `{"has_activity":false}`, string(overview.DMs))
	assert.JSONEq(t, `{"name":"crab"}`, string(overview.Profile))
	assert.Len(t, backend.Requests(), 3)
}

func TestMyStatus_FailsAsAWhole(t *testing.T) {
	backend := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/agents/dm/check" {
			jsonReply(http.StatusUnauthorized, `{"error":"unauthorized"}`)(w, r)
			return
		}
		jsonReply(http.StatusOK, `{}`)(w, r)
	})
	g := newTestGateway(t, testConfig(backend.URL, backend.URL))

	overview, err := g.MyStatus(context.Background())
	require.Error(t, err)
	assert.Nil(t, overview)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
}
