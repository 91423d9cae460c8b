package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"profilemcp/profile"
)

var emptySchema = json.RawMessage(`{"type":"object","properties":{},"required":[]}`)

var sectionSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"format": {
			"type": "string",
			"description": "Output format for the section text",
			"enum": ["text", "markdown"]
		}
	},
	"required": []
}`)

func toolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "get_profile_overview",
			Description: "Fetch the professional overview and background information",
			InputSchema: sectionSchema,
		},
		{
			Name:        "get_experience",
			Description: "Fetch detailed work experience and professional history",
			InputSchema: sectionSchema,
		},
		{
			Name:        "get_publications",
			Description: "Fetch scientific publications and conference presentations",
			InputSchema: sectionSchema,
		},
		{
			Name:        "get_career_timeline",
			Description: "Fetch career timeline and professional milestones",
			InputSchema: sectionSchema,
		},
		{
			Name:        "get_social_links",
			Description: "Get social media profiles and links",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"platform": {
						"type": "string",
						"description": "Specific platform (linkedin, instagram, facebook, youtube) or 'all' for all platforms"
					}
				},
				"required": []
			}`),
		},
		{
			Name:        "search_profile_content",
			Description: "Search across all profile content for specific information",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"query": {
						"type": "string",
						"description": "Search query to find specific information"
					},
					"sources": {
						"type": "array",
						"items": {"type": "string"},
						"description": "Optional subset of profile sections to search"
					}
				},
				"required": ["query"]
			}`),
		},
	}
}

// callTool dispatches one tools/call invocation. The returned error means
// the tool name itself was unknown; tool-level failures come back as
// error results, never as protocol errors.
func (s *Server) callTool(ctx context.Context, name string, args map[string]any) (CallToolResult, error) {
	format := profile.Format(stringArg(args, "format"))

	switch name {
	case "get_profile_overview":
		return render(s.svc.ProfileOverview(ctx, format)), nil
	case "get_experience":
		return render(s.svc.Experience(ctx, format)), nil
	case "get_publications":
		return render(s.svc.Publications(ctx, format)), nil
	case "get_career_timeline":
		return render(s.svc.CareerTimeline(ctx, format)), nil
	case "get_social_links":
		return render(s.svc.SocialLinks(stringArg(args, "platform"))), nil
	case "search_profile_content":
		query := stringArg(args, "query")
		return render(s.svc.SearchContent(ctx, query, stringSliceArg(args, "sources"))), nil
	default:
		return CallToolResult{}, fmt.Errorf("unknown tool: %s", name)
	}
}

// render maps degraded "Error: ..." tool output onto an error result so
// clients see the isError flag without losing the message.
func render(text string) CallToolResult {
	if strings.HasPrefix(text, "Error:") {
		return errorResult(text)
	}
	return textResult(text)
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func stringSliceArg(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
