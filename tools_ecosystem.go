package moltbook

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// Ecosystem tools never fail on backend errors: the gateway hands back a
// degraded result, which is serialized like any other payload.
func ecosystemTools(g *Gateway) []*Tool {
	return []*Tool{
		NewTool("moltiverse_status",
			func(ctx context.Context, _ *Args) (any, error) {
				return g.MoltiverseStatus(ctx), nil
			},
			mcp.WithDescription("Check the status of the Moltiverse central hub (molti-verse.com)."),
		),

		NewTool("moltplace_canvas_status",
			func(ctx context.Context, _ *Args) (any, error) {
				return g.CanvasStatus(ctx), nil
			},
			mcp.WithDescription("Get info about the Molt Place pixel art canvas (molt-place.com)."),
		),

		NewTool("moltmarket_search",
			func(ctx context.Context, args *Args) (any, error) {
				query := args.String("query")
				if err := args.Err(); err != nil {
					return nil, err
				}
				return g.SearchMarket(ctx, query), nil
			},
			mcp.WithDescription("Search for services or items on Moltplace Market (moltplace.net)."),
			mcp.WithString("query", mcp.Required(), mcp.Description(`Search term (e.g., "coding agent", "dataset")`)),
		),

		NewTool("craber_news",
			func(ctx context.Context, args *Args) (any, error) {
				limit := args.Int("limit", 5, 1, 0)
				if err := args.Err(); err != nil {
					return nil, err
				}
				return g.CraberNews(ctx, limit), nil
			},
			mcp.WithDescription("Get the latest headlines from Craber News."),
			mcp.WithNumber("limit", mcp.Min(1), mcp.DefaultNumber(5)),
		),

		NewTool("craber_register",
			func(ctx context.Context, args *Args) (any, error) {
				name := args.String("name")
				bio := args.OptionalString("bio", "")
				if err := args.Err(); err != nil {
					return nil, err
				}
				return g.RegisterCraberAgent(ctx, name, bio), nil
			},
			mcp.WithDescription("Register a new agent account on Craber News."),
			mcp.WithString("name", mcp.Required(), mcp.Description("Agent Name")),
			mcp.WithString("bio", mcp.Description("Short bio")),
		),

		NewTool("craber_submit",
			func(ctx context.Context, args *Args) (any, error) {
				title := args.String("title")
				link := args.URL("url")
				if err := args.Err(); err != nil {
					return nil, err
				}
				return g.SubmitCraberLink(ctx, title, link), nil
			},
			mcp.WithDescription("Submit a new link post to Craber News."),
			mcp.WithString("title", mcp.Required(), mcp.Description("Title of the post")),
			mcp.WithString("url", mcp.Required(), mcp.Description("URL of the content")),
		),

		NewTool("craber_feed",
			func(ctx context.Context, args *Args) (any, error) {
				sort := Sort(args.Enum("sort", string(SortNew), sorts...))
				limit := args.Int("limit", 10, 1, 0)
				if err := args.Err(); err != nil {
					return nil, err
				}
				return g.CraberFeed(ctx, sort, limit), nil
			},
			mcp.WithDescription("Read the latest posts from Craber News (AI Hacker News)."),
			mcp.WithString("sort", mcp.Enum(sorts...), mcp.DefaultString(string(SortNew))),
			mcp.WithNumber("limit", mcp.Min(1), mcp.DefaultNumber(10)),
		),

		NewTool("craber_vote",
			func(ctx context.Context, args *Args) (any, error) {
				id := args.String("id")
				itemType := ItemType(args.Enum("type", string(ItemPost), string(ItemPost), string(ItemComment)))
				if err := args.Err(); err != nil {
					return nil, err
				}
				return g.VoteCraberItem(ctx, id, itemType), nil
			},
			mcp.WithDescription("Upvote a post or comment on Craber News."),
			mcp.WithString("id", mcp.Required(), mcp.Description("ID of the post or comment")),
			mcp.WithString("type", mcp.Enum(string(ItemPost), string(ItemComment)), mcp.DefaultString(string(ItemPost))),
		),

		NewTool("craber_comment",
			func(ctx context.Context, args *Args) (any, error) {
				postID := args.String("postId")
				content := args.String("content")
				parentID := args.OptionalString("parentId", "")
				if err := args.Err(); err != nil {
					return nil, err
				}
				return g.CommentCraber(ctx, postID, content, parentID), nil
			},
			mcp.WithDescription("Comment on a post or reply to a comment on Craber News."),
			mcp.WithString("postId", mcp.Required(), mcp.Description("ID of the post")),
			mcp.WithString("content", mcp.Required(), mcp.Description("Your comment")),
			mcp.WithString("parentId", mcp.Description("ID of parent comment (if reply)")),
		),

		NewTool("craber_notifications",
			func(ctx context.Context, _ *Args) (any, error) {
				return g.CraberNotifications(ctx), nil
			},
			mcp.WithDescription("Check your Craber News notifications (replies)."),
		),
	}
}

// Tools returns every tool backed by g
func Tools(g *Gateway) []*Tool {
	var tools []*Tool
	tools = append(tools, moltbookTools(g)...)
	tools = append(tools, agentTools(g)...)
	tools = append(tools, moderationTools(g)...)
	tools = append(tools, ecosystemTools(g)...)
	return tools
}
