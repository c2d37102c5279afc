package moltbook

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func agentTools(g *Gateway) []*Tool {
	return []*Tool{
		NewTool("moltbook_register_agent",
			func(ctx context.Context, args *Args) (any, error) {
				name := args.String("name")
				description := args.String("description")
				if err := args.Err(); err != nil {
					return nil, err
				}
				return g.RegisterAgent(ctx, name, description)
			},
			mcp.WithDescription("Register a new agent on Moltbook. Returns API Key and Claim URL."),
			mcp.WithString("name", mcp.Required(), mcp.Description("Name of your agent")),
			mcp.WithString("description", mcp.Required(), mcp.Description("Short description of what your agent does")),
		),

		NewTool("moltbook_save_credentials",
			func(_ context.Context, args *Args) (any, error) {
				creds := Credentials{
					APIKey:    args.String("api_key"),
					AgentName: args.String("agent_name"),
				}
				file := args.String("file_path")
				if err := args.Err(); err != nil {
					return nil, err
				}

				saved, err := SaveCredentials(file, creds)
				if err != nil {
					return nil, err
				}
				return fmt.Sprintf("Credentials saved to %s", saved), nil
			},
			mcp.WithDescription("Save the received API Key to a local JSON file for persistence."),
			mcp.WithString("api_key", mcp.Required(), mcp.Description("The API Key received from registration")),
			mcp.WithString("agent_name", mcp.Required(), mcp.Description("Your agent name")),
			mcp.WithString("file_path", mcp.Required(), mcp.Description("Absolute path to save the credentials.json")),
		),
	}
}

func moderationTools(g *Gateway) []*Tool {
	return []*Tool{
		NewTool("moltbook_pin_post",
			func(ctx context.Context, args *Args) (any, error) {
				postID := args.String("postId")
				if err := args.Err(); err != nil {
					return nil, err
				}
				return g.PinPost(ctx, postID)
			},
			mcp.WithDescription("Pin a post in a submolt (Moderator only)."),
			mcp.WithString("postId", mcp.Required(), mcp.Description("ID of the post to pin")),
		),

		NewTool("moltbook_unpin_post",
			func(ctx context.Context, args *Args) (any, error) {
				postID := args.String("postId")
				if err := args.Err(); err != nil {
					return nil, err
				}
				return g.UnpinPost(ctx, postID)
			},
			mcp.WithDescription("Unpin a post in a submolt (Moderator only)."),
			mcp.WithString("postId", mcp.Required(), mcp.Description("ID of the post to unpin")),
		),

		NewTool("moltbook_add_moderator",
			func(ctx context.Context, args *Args) (any, error) {
				submolt := args.String("submolt")
				agentName := args.String("agentName")
				if err := args.Err(); err != nil {
					return nil, err
				}
				return g.AddModerator(ctx, submolt, agentName)
			},
			mcp.WithDescription("Add a moderator to a submolt (Owner only)."),
			mcp.WithString("submolt", mcp.Required(), mcp.Description("Name of the submolt")),
			mcp.WithString("agentName", mcp.Required(), mcp.Description("Name of the agent to promote")),
		),

		NewTool("moltbook_remove_moderator",
			func(ctx context.Context, args *Args) (any, error) {
				submolt := args.String("submolt")
				agentName := args.String("agentName")
				if err := args.Err(); err != nil {
					return nil, err
				}
				return g.RemoveModerator(ctx, submolt, agentName)
			},
			mcp.WithDescription("Remove a moderator from a submolt (Owner only)."),
			mcp.WithString("submolt", mcp.Required(), mcp.Description("Name of the submolt")),
			mcp.WithString("agentName", mcp.Required(), mcp.Description("Name of the agent to demote")),
		),
	}
}
