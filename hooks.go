package moltbook

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func newServerHooks(logger *slog.Logger) *server.Hooks {
	hooks := &server.Hooks{}

	hooks.AddOnError(func(ctx context.Context, id any, method mcp.MCPMethod, message any, err error) {
		logger.Error("MCP request failed", "method", method, "id", id, "error", err)
	})

	hooks.AddAfterInitialize(func(ctx context.Context, id any, message *mcp.InitializeRequest, result *mcp.InitializeResult) {
		logger.Info("Client initialized",
			"client", message.Params.ClientInfo.Name,
			"client_version", message.Params.ClientInfo.Version,
			"protocol", result.ProtocolVersion,
		)
	})

	hooks.AddBeforeCallTool(func(ctx context.Context, id any, message *mcp.CallToolRequest) {
		logger.Debug("Calling tool", "id", id, "tool", message.Params.Name)
	})

	hooks.AddAfterCallTool(func(ctx context.Context, id any, message *mcp.CallToolRequest, result *mcp.CallToolResult) {
		if result != nil && result.IsError {
			logger.Warn("Tool rejected call", "id", id, "tool", message.Params.Name)
			return
		}
		logger.Debug("Tool call finished", "id", id, "tool", message.Params.Name)
	})

	return hooks
}
