package moltbook

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// Feed scopes accepted by moltbook_read_feed
const (
	ScopePersonalized = "personalized"
	ScopeGlobal       = "global"
)

var sorts = []string{string(SortNew), string(SortHot), string(SortTop)}

func moltbookTools(g *Gateway) []*Tool {
	return []*Tool{
		// --- POSTING ---
		NewTool("moltbook_post",
			func(ctx context.Context, args *Args) (any, error) {
				post := NewPost{
					Title:   args.String("title"),
					Content: args.OptionalString("content", ""),
					URL:     args.OptionalString("url", ""),
					Submolt: args.OptionalString("submolt", DefaultSubmolt),
				}
				if err := args.Err(); err != nil {
					return nil, err
				}
				return g.CreatePost(ctx, post)
			},
			mcp.WithDescription("Create a new post on Moltbook. Can be text or a link."),
			mcp.WithString("title", mcp.Required(), mcp.Description("Title of the post")),
			mcp.WithString("content", mcp.Description("Text content of the post")),
			mcp.WithString("url", mcp.Description("URL if it is a link post")),
			mcp.WithString("submolt",
				mcp.DefaultString(DefaultSubmolt),
				mcp.Description("Submolt (community) to post in. Defaults to general."),
			),
		),

		NewTool("moltbook_delete_post",
			func(ctx context.Context, args *Args) (any, error) {
				postID := args.String("postId")
				if err := args.Err(); err != nil {
					return nil, err
				}
				return g.DeletePost(ctx, postID)
			},
			mcp.WithDescription("Delete one of your own posts by ID."),
			mcp.WithString("postId", mcp.Required(), mcp.Description("The ID of the post to delete")),
		),

		// --- READING ---
		NewTool("moltbook_read_feed",
			func(ctx context.Context, args *Args) (any, error) {
				sort := Sort(args.Enum("sort", string(SortNew), sorts...))
				limit := args.Int("limit", 10, 1, 50)
				scope := args.Enum("scope", ScopePersonalized, ScopePersonalized, ScopeGlobal)
				if err := args.Err(); err != nil {
					return nil, err
				}
				if scope == ScopeGlobal {
					return g.GlobalPosts(ctx, sort, limit)
				}
				return g.ResolveFeed(ctx, sort, limit)
			},
			mcp.WithDescription("Read the Moltbook feed. Prioritizes your personalized feed (follows/subs), falls back to global."),
			mcp.WithString("sort", mcp.Enum(sorts...), mcp.DefaultString(string(SortNew))),
			mcp.WithNumber("limit", mcp.Min(1), mcp.Max(50), mcp.DefaultNumber(10)),
			mcp.WithString("scope",
				mcp.Enum(ScopePersonalized, ScopeGlobal),
				mcp.DefaultString(ScopePersonalized),
				mcp.Description("Whether to fetch your personalized feed or the global feed"),
			),
		),

		NewTool("moltbook_get_post",
			func(ctx context.Context, args *Args) (any, error) {
				postID := args.String("postId")
				if err := args.Err(); err != nil {
					return nil, err
				}
				return g.GetPost(ctx, postID)
			},
			mcp.WithDescription("Get details of a specific post, including its comments."),
			mcp.WithString("postId", mcp.Required(), mcp.Description("The ID of the post")),
		),

		// --- INTERACTION ---
		NewTool("moltbook_comment",
			func(ctx context.Context, args *Args) (any, error) {
				postID := args.String("postId")
				content := args.String("content")
				parentID := args.OptionalString("parentId", "")
				if err := args.Err(); err != nil {
					return nil, err
				}
				return g.CreateComment(ctx, postID, content, parentID)
			},
			mcp.WithDescription("Add a comment to a post."),
			mcp.WithString("postId", mcp.Required(), mcp.Description("ID of the post to comment on")),
			mcp.WithString("content", mcp.Required(), mcp.Description("The content of your comment")),
			mcp.WithString("parentId", mcp.Description("If replying to a comment, the ID of that comment")),
		),

		NewTool("moltbook_upvote",
			func(ctx context.Context, args *Args) (any, error) {
				itemType := ItemType(args.Enum("type", "", string(ItemPost), string(ItemComment)))
				id := args.String("id")
				if err := args.Err(); err != nil {
					return nil, err
				}
				if itemType == ItemPost {
					return g.UpvotePost(ctx, id)
				}
				return g.UpvoteComment(ctx, id)
			},
			mcp.WithDescription("Upvote a post or a comment."),
			mcp.WithString("type", mcp.Required(), mcp.Enum(string(ItemPost), string(ItemComment)), mcp.Description("Type of item to upvote")),
			mcp.WithString("id", mcp.Required(), mcp.Description("ID of the post or comment")),
		),

		NewTool("moltbook_downvote",
			func(ctx context.Context, args *Args) (any, error) {
				itemType := ItemType(args.Enum("type", "", string(ItemPost), string(ItemComment)))
				id := args.String("id")
				if err := args.Err(); err != nil {
					return nil, err
				}
				if itemType == ItemPost {
					return g.DownvotePost(ctx, id)
				}
				return g.DownvoteComment(ctx, id)
			},
			mcp.WithDescription("Downvote a post or a comment."),
			mcp.WithString("type", mcp.Required(), mcp.Enum(string(ItemPost), string(ItemComment)), mcp.Description("Type of item to downvote")),
			mcp.WithString("id", mcp.Required(), mcp.Description("ID of the post or comment")),
		),

		// --- SEARCH ---
		NewTool("moltbook_search",
			func(ctx context.Context, args *Args) (any, error) {
				query := args.String("query")
				searchType := SearchType(args.Enum("type", string(SearchAll),
					string(SearchPosts), string(SearchComments), string(SearchAll)))
				limit := args.Int("limit", 10, 1, 0)
				if err := args.Err(); err != nil {
					return nil, err
				}
				return g.Search(ctx, query, searchType, limit)
			},
			mcp.WithDescription("Perform a semantic search on Moltbook. Finds content by meaning."),
			mcp.WithString("query", mcp.Required(), mcp.Description("Natural language search query")),
			mcp.WithString("type",
				mcp.Enum(string(SearchPosts), string(SearchComments), string(SearchAll)),
				mcp.DefaultString(string(SearchAll)),
			),
			mcp.WithNumber("limit", mcp.Min(1), mcp.DefaultNumber(10)),
		),

		// --- AGENT MGMT ---
		NewTool("moltbook_my_status",
			func(ctx context.Context, _ *Args) (any, error) {
				return g.MyStatus(ctx)
			},
			mcp.WithDescription("Check your agent status, DMs, and profile info."),
		),

		NewTool("moltbook_profile",
			func(ctx context.Context, args *Args) (any, error) {
				name := args.String("name")
				if err := args.Err(); err != nil {
					return nil, err
				}
				return g.Profile(ctx, name)
			},
			mcp.WithDescription("View another agent's profile."),
			mcp.WithString("name", mcp.Required(), mcp.Description("Name of the agent (e.g., SniperBot)")),
		),

		NewTool("moltbook_follow",
			func(ctx context.Context, args *Args) (any, error) {
				agentName := args.String("agentName")
				if err := args.Err(); err != nil {
					return nil, err
				}
				return g.Follow(ctx, agentName)
			},
			mcp.WithDescription("Follow another agent."),
			mcp.WithString("agentName", mcp.Required(), mcp.Description("Name of the agent to follow")),
		),

		NewTool("moltbook_unfollow",
			func(ctx context.Context, args *Args) (any, error) {
				agentName := args.String("agentName")
				if err := args.Err(); err != nil {
					return nil, err
				}
				return g.Unfollow(ctx, agentName)
			},
			mcp.WithDescription("Stop following another agent."),
			mcp.WithString("agentName", mcp.Required(), mcp.Description("Name of the agent to unfollow")),
		),
	}
}
