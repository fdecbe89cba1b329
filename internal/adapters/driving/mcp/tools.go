package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the knowledge base"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer      string `json:"answer"`
	ContextUsed bool   `json:"context_used"`
	ChunkCount  int    `json:"chunk_count"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	DocID string `json:"doc_id" jsonschema:"unique identifier for the document"`
	Text  string `json:"text" jsonschema:"the document text to ingest"`
	Title string `json:"title,omitempty" jsonschema:"human-readable document title"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	DocID      string `json:"doc_id"`
	ChunkCount int    `json:"chunk_count"`
}

// DeleteInput is the input schema for the delete_document tool.
type DeleteInput struct {
	DocID string `json:"doc_id" jsonschema:"identifier of the document to delete"`
}

// DeleteOutput is the output schema for the delete_document tool.
type DeleteOutput struct {
	Deleted bool `json:"deleted"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using the indexed documents",
	}, s.handleAsk)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest",
			Description: "Ingest a document into the knowledge base",
		}, s.handleIngest)

		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "delete_document",
			Description: "Delete a document from the knowledge base",
		}, s.handleDelete)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Query.Query(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:      answer.Text,
		ContextUsed: answer.ContextUsed,
		ChunkCount:  answer.ChunkCount,
	}, nil
}

// handleIngest handles the ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	meta := map[string]any{}
	if input.Title != "" {
		meta["source"] = input.Title
	}

	result, err := s.ports.Ingest.ProcessDocument(ctx, input.Text, input.DocID, meta)
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		DocID:      result.DocID,
		ChunkCount: result.ChunkCount,
	}, nil
}

// handleDelete handles the delete_document tool invocation.
func (s *Server) handleDelete(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteInput,
) (*mcp.CallToolResult, DeleteOutput, error) {
	if err := s.ports.Ingest.DeleteDocument(ctx, input.DocID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, DeleteOutput{Deleted: false}, nil
		}
		return nil, DeleteOutput{}, err
	}
	return nil, DeleteOutput{Deleted: true}, nil
}
