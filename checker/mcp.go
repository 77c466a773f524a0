package checker

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/khojlab/tathya/kit"
)

// RegisterMCP registers the verification tools on an MCP server.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	s.registerVerifyTool(srv)
	s.registerGetTool(srv)
	s.registerListTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// --- verify ---

type verifyReq struct {
	Claim string `json:"claim"`
	Lang  string `json:"lang"`
}

func (s *Service) registerVerifyTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "tathya_verify_claim",
		Description: "Verify a claim (Nepali or English) against credible news sources and return a weighted verdict with evidence.",
		InputSchema: inputSchema(map[string]any{
			"claim": map[string]any{"type": "string", "description": "The claim to verify"},
			"lang":  map[string]any{"type": "string", "description": "Language code (en, ne, hi); auto-detected when omitted"},
		}, []string{"claim"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*verifyReq)
		return s.Verify(ctx, r.Claim, r.Lang)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r verifyReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- get ---

type getReq struct {
	ID string `json:"id"`
}

func (s *Service) registerGetTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "tathya_get_verification",
		Description: "Fetch a stored verification by id.",
		InputSchema: inputSchema(map[string]any{
			"id": map[string]any{"type": "string", "description": "Verification id (vrf_...)"},
		}, []string{"id"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*getReq)
		return s.GetVerification(ctx, r.ID)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r getReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- list ---

type listReq struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func (s *Service) registerListTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "tathya_list_history",
		Description: "List past verifications, newest first.",
		InputSchema: inputSchema(map[string]any{
			"limit":  map[string]any{"type": "integer", "description": "Max records (default 20)"},
			"offset": map[string]any{"type": "integer", "description": "Records to skip"},
		}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*listReq)
		records, err := s.ListHistory(ctx, r.Limit, r.Offset)
		if err != nil {
			return nil, err
		}
		return map[string]any{"verifications": records, "count": len(records)}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r listReq
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
				return nil, err
			}
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
