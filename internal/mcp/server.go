package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/klinikbm/review-pasien/internal/config"
	"github.com/klinikbm/review-pasien/internal/pipeline"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *pipeline.Service
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, service *pipeline.Service) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		service:   service,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	parseFileTool := mcp.NewTool(
		"patients_parse_file",
		mcp.WithDescription("Parse a clinic visit-report PDF into patient records"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file (relative paths resolve against the report directory)"),
		),
	)
	s.mcpServer.AddTool(parseFileTool, s.handleParseFile)

	renderTool := mcp.NewTool(
		"report_render",
		mcp.WithDescription("Render the follow-up message text for checked records of a parsed document"),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("Document handle returned by patients_parse_file"),
		),
		mcp.WithString("edits",
			mcp.Description("JSON array of row edits (sequence_number, checked, visit, gigi, telp, operator)"),
		),
	)
	s.mcpServer.AddTool(renderTool, s.handleRender)

	exportDocxTool := mcp.NewTool(
		"report_export_docx",
		mcp.WithDescription("Render the follow-up message text and write it as a DOCX file"),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("Document handle returned by patients_parse_file"),
		),
		mcp.WithString("output",
			mcp.Required(),
			mcp.Description("Path of the DOCX file to write (relative paths resolve against the report directory)"),
		),
		mcp.WithString("edits",
			mcp.Description("JSON array of row edits (sequence_number, checked, visit, gigi, telp, operator)"),
		),
	)
	s.mcpServer.AddTool(exportDocxTool, s.handleExportDocx)

	forgetTool := mcp.NewTool(
		"patients_forget",
		mcp.WithDescription("Drop a parsed document from the server"),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("Document handle returned by patients_parse_file"),
		),
	)
	s.mcpServer.AddTool(forgetTool, s.handleForget)
}

// Handler functions
func (s *Server) handleParseFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.service.ParseFile(s.resolvePath(path))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Parsed visit report: %s\n", path)
	responseText += fmt.Sprintf("Document ID: %s\n", doc.ID)
	responseText += fmt.Sprintf("Pages: %d\n", doc.Pages)
	responseText += fmt.Sprintf("Records: %d\n", len(doc.Records))
	if doc.PeriodDate != nil {
		responseText += fmt.Sprintf("Period start: %s\n", doc.PeriodDate.Format("02/01/2006"))
	} else {
		responseText += "Period start: not found\n"
	}

	records, err := json.MarshalIndent(doc.Records, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	responseText += "\nRecords:\n"
	responseText += string(records)

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleRender(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docID, err := request.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	edits, err := parseEdits(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := s.service.Render(docID, edits)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if text == "" {
		return mcp.NewToolResultText("No checked records, nothing to render"), nil
	}

	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleExportDocx(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docID, err := request.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	output, err := request.RequireString("output")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	edits, err := parseEdits(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	outPath := s.resolvePath(output)
	f, err := os.Create(outPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot create output file: %v", err)), nil
	}

	// Don't leave a partial file behind on failure.
	if err := s.service.ExportDocx(f, docID, edits); err != nil {
		f.Close()
		os.Remove(outPath)
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := f.Close(); err != nil {
		os.Remove(outPath)
		return mcp.NewToolResultError(fmt.Sprintf("cannot finalize output file: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Wrote DOCX report to %s", outPath)), nil
}

func (s *Server) handleForget(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docID, err := request.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.service.Forget(docID)
	return mcp.NewToolResultText(fmt.Sprintf("Forgot document %s", docID)), nil
}

// parseEdits decodes the optional edits argument, a JSON array of row
// edits. A missing or empty argument means no edits.
func parseEdits(request mcp.CallToolRequest) ([]pipeline.RowEdit, error) {
	args := request.GetArguments()
	raw, ok := args["edits"].(string)
	if !ok || raw == "" {
		return nil, nil
	}

	var edits []pipeline.RowEdit
	if err := json.Unmarshal([]byte(raw), &edits); err != nil {
		return nil, fmt.Errorf("invalid edits JSON: %w", err)
	}
	return edits, nil
}

// resolvePath anchors relative paths at the configured report directory.
func (s *Server) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.config.PDFDirectory, path)
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting review-pasien MCP server in stdio mode")
		log.Printf("Report directory: %s", s.config.PDFDirectory)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server over SSE on the configured address
func (s *Server) runServerMode(ctx context.Context) error {
	log.Printf("Starting review-pasien MCP server on %s", s.config.Address())

	sseServer := server.NewSSEServer(s.mcpServer)

	errCh := make(chan error, 1)
	go func() {
		errCh <- sseServer.Start(s.config.Address())
	}()

	select {
	case <-ctx.Done():
		return sseServer.Shutdown(context.Background())
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to serve SSE: %w", err)
		}
		return nil
	}
}
