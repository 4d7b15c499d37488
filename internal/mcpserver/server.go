// Package mcpserver exposes suite listing, validation and execution as Model
// Context Protocol tools served over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"llmcheck/internal/app"
	"llmcheck/internal/config"
	"llmcheck/internal/report"
	"llmcheck/internal/runner"
	"llmcheck/internal/suite"
	"llmcheck/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	subsystem   = "MCPServer"
	serverName  = "llmcheck"
	maxParallel = 32
)

// Server serves the llmcheck tools.
type Server struct {
	cfg config.Config
	mcp *server.MCPServer
}

// New creates a server whose tools run with cfg.
func New(cfg config.Config, version string) *Server {
	s := &Server{
		cfg: cfg,
		mcp: server.NewMCPServer(serverName, version, server.WithToolCapabilities(true)),
	}

	s.mcp.AddTool(mcp.NewTool("list_suites",
		mcp.WithDescription("List the suite files found in the tests directory"),
		mcp.WithString("tests_dir",
			mcp.Description("Directory to scan; defaults to TESTS_DIR"),
		),
	), s.handleListSuites)

	s.mcp.AddTool(mcp.NewTool("validate_suite",
		mcp.WithDescription("Check the structure of a suite file without running it"),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Path of the suite file"),
		),
	), s.handleValidateSuite)

	s.mcp.AddTool(mcp.NewTool("run_suite",
		mcp.WithDescription("Run a suite file against the configured endpoint and return the results"),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Path of the suite file"),
		),
		mcp.WithNumber("parallel",
			mcp.Description("Cases to run concurrently; defaults to PARALLEL_TESTS"),
		),
	), s.handleRunSuite)

	return s
}

// Serve handles MCP requests on in/out until ctx is done or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	logging.Info(subsystem, "Serving MCP tools over stdio")
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

type suiteEntry struct {
	File  string `json:"file"`
	Name  string `json:"name,omitempty"`
	Tests int    `json:"tests"`
	Error string `json:"error,omitempty"`
}

func (s *Server) handleListSuites(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	dir := s.cfg.TestsDir
	if d, ok := args["tests_dir"].(string); ok && d != "" {
		dir = d
	}

	files, err := suite.Discover(dir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list suites: %v", err)), nil
	}

	entries := make([]suiteEntry, 0, len(files))
	for _, f := range files {
		entry := suiteEntry{File: f}
		if loaded, err := suite.LoadFile(f); err != nil {
			entry.Error = err.Error()
		} else {
			entry.Name = loaded.Metadata.Name
			entry.Tests = len(loaded.Tests)
		}
		entries = append(entries, entry)
	}
	return jsonResult(entries)
}

func (s *Server) handleValidateSuite(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	file, ok := args["file"].(string)
	if !ok || file == "" {
		return mcp.NewToolResultError("file is required"), nil
	}
	return jsonResult(suite.ValidateFile(file))
}

type runSummary struct {
	Summary    report.Summary           `json:"summary"`
	Results    []*runner.SuiteRunReport `json:"results"`
	LoadErrors []report.LoadError       `json:"loadErrors"`
}

func (s *Server) handleRunSuite(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	file, ok := args["file"].(string)
	if !ok || file == "" {
		return mcp.NewToolResultError("file is required"), nil
	}

	cfg := s.cfg
	if parallel, ok := args["parallel"].(float64); ok {
		if parallel < 1 || parallel > maxParallel {
			return mcp.NewToolResultError(fmt.Sprintf("parallel must be between 1 and %d", maxParallel)), nil
		}
		cfg.Parallelism = int(parallel)
	}

	application, err := app.NewApplication(cfg, app.Options{UserAgent: serverName + "-mcp"})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to prepare run: %v", err)), nil
	}

	logging.Info(subsystem, "Running suite %s", filepath.Base(file))
	out := application.Run(ctx, []string{file})
	return jsonResult(runSummary{
		Summary:    out.Summary,
		Results:    out.Reports,
		LoadErrors: out.LoadErrors,
	})
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
