package main

// MCP stdio surface. Exposes the sanitizer to agent tooling as three
// tools: sanitize_docx, check_rtl, get_sanitizer_info.

import (
	"context"
	"log/slog"

	"github.com/Cortexa-LLC/mcp/src/docx-sanitizer/sanitizer"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCP tool parameter key constants — shared between schema definitions and
// argument extraction so a typo in one place is caught by the other.
const (
	argInput  = "input"
	argOutput = "output"
	argMode   = "mode"
)

// docxSanitizer is the surface the MCP tools need from the sanitizer.
// registerTools accepts this interface so tests can inject a mock.
type docxSanitizer interface {
	Sanitize(ctx context.Context, inputPath, outputPath string, mode sanitizer.Mode) error
	CheckRTL(ctx context.Context, inputPath string) (bool, error)
	Info(ctx context.Context) string
}

func serveMCP(san *sanitizer.Sanitizer, logger *slog.Logger) int {
	s := server.NewMCPServer(appName, appVersion)
	registerTools(s, san)

	if err := server.ServeStdio(s); err != nil {
		logger.Error("server error", "error", err)
		return 1
	}
	return 0
}

// registerTools binds MCP tool definitions to their handlers.
func registerTools(s *server.MCPServer, san docxSanitizer) {
	// sanitize_docx — repair a DOCX package in place or to a new path
	s.AddTool(
		mcp.NewTool("sanitize_docx",
			mcp.WithDescription("Repair a .docx file that makes document conversion hang or crash. "+
				"Fixes: compatibilityMode downgrade for RTL documents, corrupt glossary removal, "+
				"and <w:sdt> wrapper unwrapping from Google Docs exports."),
			mcp.WithString(argInput,
				mcp.Required(),
				mcp.Description("Absolute path to the input .docx file"),
			),
			mcp.WithString(argOutput,
				mcp.Description("Output path; when omitted the input is overwritten in place"),
			),
			mcp.WithString(argMode,
				mcp.Description("Which fixes to apply: rtl, sdt, or all (default all)"),
			),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			input, ok := req.Params.Arguments[argInput].(string)
			if !ok || input == "" {
				return mcp.NewToolResultError(argInput + " is required"), nil
			}
			output, _ := req.Params.Arguments[argOutput].(string)

			mode := sanitizer.ModeAll
			if ms, ok := req.Params.Arguments[argMode].(string); ok && ms != "" {
				var err error
				if mode, err = sanitizer.ParseMode(ms); err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
			}

			if err := san.Sanitize(ctx, input, output, mode); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if output == "" {
				output = input
			}
			return mcp.NewToolResultText("Sanitized DOCX written to: " + output), nil
		},
	)

	// check_rtl — inspect the document part for RTL markers, no mutation
	s.AddTool(
		mcp.NewTool("check_rtl",
			mcp.WithDescription("Report whether a .docx file contains right-to-left or "+
				"bidirectional text markers. Returns \"true\" or \"false\"."),
			mcp.WithString(argInput,
				mcp.Required(),
				mcp.Description("Absolute path to the .docx file to inspect"),
			),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			input, ok := req.Params.Arguments[argInput].(string)
			if !ok || input == "" {
				return mcp.NewToolResultError(argInput + " is required"), nil
			}
			has, err := san.CheckRTL(ctx, input)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if has {
				return mcp.NewToolResultText("true"), nil
			}
			return mcp.NewToolResultText("false"), nil
		},
	)

	// get_sanitizer_info — list fixes and configuration
	s.AddTool(
		mcp.NewTool("get_sanitizer_info",
			mcp.WithDescription("Return available sanitization modes and active configuration."),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText(san.Info(ctx)), nil
		},
	)
}
