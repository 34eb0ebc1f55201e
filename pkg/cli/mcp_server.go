package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/githubnext/validata/internal/mapper"
	"github.com/githubnext/validata/pkg/codec"
	"github.com/githubnext/validata/pkg/defaults"
	"github.com/githubnext/validata/pkg/livecheck"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ValidateDocumentArgs are the arguments of the validate_document tool.
type ValidateDocumentArgs struct {
	Schema string `json:"schema" jsonschema:"schema locator in the form <source>:<name>"`
	Text   string `json:"text" jsonschema:"document text to validate"`
	Format string `json:"format" jsonschema:"document format: json or yaml"`
}

// DefaultDocumentArgs are the arguments of the default_document tool.
type DefaultDocumentArgs struct {
	Schema string `json:"schema" jsonschema:"schema locator in the form <source>:<name>"`
	Format string `json:"format" jsonschema:"document format: json or yaml"`
}

// NewMCPServer creates the MCP server exposing the validation tools.
func NewMCPServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "validata", Version: GetVersion()}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_document",
		Description: "Validate a JSON or YAML document against a JSON Schema and list every problem found",
	}, validateDocumentTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "default_document",
		Description: "Produce the smallest document that satisfies the required fields of a JSON Schema",
	}, defaultDocumentTool)

	return server
}

// RunMCPServer serves the tools over stdio until ctx is cancelled or the
// client disconnects.
func RunMCPServer(ctx context.Context) error {
	return NewMCPServer().Run(ctx, mcp.NewStdioTransport())
}

func validateDocumentTool(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[ValidateDocumentArgs]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments

	format, err := codec.ParseFormat(args.Format)
	if err != nil {
		return toolError(err), nil
	}
	s, err := LoadSchema(args.Schema, false)
	if err != nil {
		return toolError(err), nil
	}

	r := livecheck.Run(args.Text, format, s)
	if r.OK() {
		return toolText("Document is valid"), nil
	}

	var b strings.Builder
	for _, l := range r.Lines {
		b.WriteString(l.Text)
		if l.Line > 0 {
			fmt.Fprintf(&b, " (line %d, column %d", l.Line, l.Column)
			if len(l.Path) > 0 {
				fmt.Fprintf(&b, ", pointer %s", mapper.Pointer(l.Path))
			}
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	return toolText(b.String()), nil
}

func defaultDocumentTool(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[DefaultDocumentArgs]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments

	format, err := codec.ParseFormat(args.Format)
	if err != nil {
		return toolError(err), nil
	}
	s, err := LoadSchema(args.Schema, false)
	if err != nil {
		return toolError(err), nil
	}

	doc, err := defaults.Synthesize(s)
	if err != nil {
		return toolError(fmt.Errorf("default serialization failed for %s: %w", s.Name(), err)), nil
	}
	return toolText(codec.Encode(doc, format)), nil
}

func toolText(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func toolError(err error) *mcp.CallToolResultFor[any] {
	res := toolText(err.Error())
	res.IsError = true
	return res
}
