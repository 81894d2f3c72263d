package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"concierge/app/config"
	"concierge/app/service/concierge"
	"concierge/app/service/provider"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/samber/do"
)

// Server exposes concierge operations as MCP tools over SSE so external
// agents can search services and follow orders.
type Server struct {
	cfg          *config.Config
	conciergeSvc *concierge.Service
	sse          *server.SSEServer
}

func New(di *do.Injector) (*Server, error) {
	s := &Server{
		cfg:          do.MustInvoke[*config.Config](di),
		conciergeSvc: do.MustInvoke[*concierge.Service](di),
	}

	mcpServer := server.NewMCPServer("concierge", "1.0.0",
		server.WithToolCapabilities(false))

	mcpServer.AddTool(
		mcp.NewTool("search_services",
			mcp.WithDescription("Search service providers by category. Returns options ranked by rating and delivery time."),
			mcp.WithString("category", mcp.Required(),
				mcp.Description("Service category: food, transportation, grocery, home_service, shopping, healthcare or entertainment")),
			mcp.WithString("query",
				mcp.Description("Optional free-text filter, e.g. 'pizza'")),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of results")),
		),
		s.searchServices,
	)

	mcpServer.AddTool(
		mcp.NewTool("get_order_status",
			mcp.WithDescription("Get the current status of a placed order."),
			mcp.WithString("provider", mcp.Required(),
				mcp.Description("Provider name the order was placed with")),
			mcp.WithString("order_id", mcp.Required(),
				mcp.Description("Order id")),
		),
		s.orderStatus,
	)

	s.sse = server.NewSSEServer(mcpServer)

	return s, nil
}

func (s *Server) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithCancel(context.Background())
		defer cancel()
		_ = s.sse.Shutdown(shutdownCtx)
	}()

	slog.Info("MCP server listening", "addr", s.cfg.MCP.Listen)

	if err := s.sse.Start(s.cfg.MCP.Listen); err != nil {
		slog.Error("MCP server stopped", "error", err)
	}
}

func (s *Server) searchServices(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	criteria := provider.SearchCriteria{
		Category: provider.Category(request.GetString("category", "")),
		Query:    request.GetString("query", ""),
		Limit:    int(request.GetFloat("limit", 0)),
	}

	results, err := s.conciergeSvc.SearchServices(ctx, criteria)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return toolResultJSON(results)
}

func (s *Server) orderStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	update, err := s.conciergeSvc.OrderStatus(ctx,
		request.GetString("provider", ""),
		request.GetString("order_id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return toolResultJSON(update)
}

func toolResultJSON(value any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}

	return mcp.NewToolResultText(string(data)), nil
}
