// cmd/mcp-server/main.go: MCP server exposing the tangent finder to AI agents.
//
// Speaks MCP over stdio and registers one tool, find_tangents, whose result
// is the same JSON document POST /calculate returns.
//
// Usage:
//
//	go run ./cmd/mcp-server -budget 10s
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	tangent "github.com/njchilds90/gotangent"
)

const version = "0.1.0"

func main() {
	budget := flag.Duration("budget", 10*time.Second, "wall-clock budget per tool call")
	debug := flag.Bool("debug", false, "log candidate points of tangency to stderr")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	// stdout carries the protocol.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	h := &toolHandler{
		finder: &tangent.Finder{Trace: *debug, Logger: logger},
		budget: *budget,
	}
	s := server.NewMCPServer("gotangent", version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.AddTool(findTangentsTool(), h.findTangents)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintln(os.Stderr, "mcp-server:", err)
		os.Exit(1)
	}
}

func findTangentsTool() mcp.Tool {
	return mcp.NewTool("find_tangents",
		mcp.WithDescription("Find dy/dx of an implicit curve F(x, y) = 0 and every tangent line to it through a point. "+
			"A curve without y is read as y = fcn."),
		mcp.WithString("fcn", mcp.Required(), mcp.Description("Curve expression, e.g. x^2 + y^2 - 25")),
		mcp.WithString("x", mcp.Required(), mcp.Description("x coordinate of the point, e.g. 5 or 1/2")),
		mcp.WithString("y", mcp.Required(), mcp.Description("y coordinate of the point")),
		mcp.WithString("output", mcp.Description("exact or decimal (default exact)"), mcp.Enum("exact", "decimal")),
	)
}

type toolHandler struct {
	finder *tangent.Finder
	budget time.Duration
}

func (h *toolHandler) findTangents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var q tangent.Query
	var err error
	if q.Fcn, err = req.RequireString("fcn"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if q.X, err = req.RequireString("x"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if q.Y, err = req.RequireString("y"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	q.Output = req.GetString("output", "exact")

	if h.budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.budget)
		defer cancel()
	}
	res, err := h.finder.FindQuery(ctx, q)
	if err != nil {
		msg := fmt.Sprintf("%s error: %v", tangent.KindOf(err), err)
		if res != nil {
			msg += "\ndy/dx = " + res.Derivative.String()
		}
		return mcp.NewToolResultError(msg), nil
	}
	out, err := json.MarshalIndent(res.Report(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}
