package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"profilemcp/aggregator"
	"profilemcp/cache"
	"profilemcp/config"
	"profilemcp/extractor"
	"profilemcp/fetcher"
	"profilemcp/profile"
	"profilemcp/search"
)

type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	page, ok := f.pages[url]
	if !ok {
		return "", &fetcher.Error{Kind: fetcher.KindHTTPStatus, URL: url, StatusCode: 404}
	}
	return page, nil
}

func newTestServer(out *bytes.Buffer, lines ...string) *Server {
	cfg := &config.Config{
		CacheTTL:     time.Hour,
		SnippetWidth: 150,
		Sources: []config.Source{
			{Name: "overview", URL: "https://example.com/overview", Category: config.CategoryProfile},
			{Name: "linkedin", URL: "https://linkedin.com/in/someone/", Category: config.CategorySocial},
		},
	}
	f := &fakeFetcher{pages: map[string]string{
		"https://example.com/overview": "<body><p>Hello World, this is the overview.</p></body>",
	}}

	logger := zap.NewNop()
	agg := aggregator.New(cfg.Sources, f, extractor.New(logger), cache.New(cfg.CacheTTL), logger)
	engine := search.NewEngine(agg, cfg.SnippetWidth, logger)
	svc := profile.NewService(cfg, agg, engine, logger)

	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	return NewServerIO(svc, logger, in, out)
}

// roundTrip feeds newline-delimited requests through a server and decodes
// each response line.
func roundTrip(t *testing.T, lines ...string) []response {
	t.Helper()
	var out bytes.Buffer
	srv := newTestServer(&out, lines...)
	if err := srv.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var responses []response
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var resp response
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("bad response line %q: %v", line, err)
		}
		responses = append(responses, resp)
	}
	return responses
}

func resultJSON(t *testing.T, resp response) map[string]any {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("unexpected rpc error: %+v", resp.Error)
	}
	data, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	return m
}

func contentText(t *testing.T, resp response) string {
	t.Helper()
	m := resultJSON(t, resp)
	content, ok := m["content"].([]any)
	if !ok || len(content) == 0 {
		t.Fatalf("no content in result: %v", m)
	}
	first := content[0].(map[string]any)
	text, _ := first["text"].(string)
	return text
}

func TestInitialize(t *testing.T) {
	responses := roundTrip(t, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	if len(responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(responses))
	}

	m := resultJSON(t, responses[0])
	if m["protocolVersion"] != protocolVersion {
		t.Errorf("protocolVersion = %v", m["protocolVersion"])
	}
	info := m["serverInfo"].(map[string]any)
	if info["name"] != "profilemcp" {
		t.Errorf("serverInfo.name = %v", info["name"])
	}
}

func TestToolsList(t *testing.T) {
	responses := roundTrip(t, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	m := resultJSON(t, responses[0])

	tools := m["tools"].([]any)
	if len(tools) != 6 {
		t.Fatalf("expected 6 tools, got %d", len(tools))
	}

	names := make(map[string]bool)
	for _, raw := range tools {
		tool := raw.(map[string]any)
		names[tool["name"].(string)] = true
		if tool["description"] == "" {
			t.Errorf("tool %v has empty description", tool["name"])
		}
	}
	for _, want := range []string{
		"get_profile_overview", "get_experience", "get_publications",
		"get_career_timeline", "get_social_links", "search_profile_content",
	} {
		if !names[want] {
			t.Errorf("missing tool %q", want)
		}
	}
}

func TestCallTool(t *testing.T) {
	t.Run("Overview", func(t *testing.T) {
		responses := roundTrip(t,
			`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"get_profile_overview","arguments":{}}}`)
		text := contentText(t, responses[0])
		if !strings.Contains(text, "Hello World") {
			t.Errorf("unexpected tool output: %q", text)
		}
	})

	t.Run("SocialLinksWithPlatform", func(t *testing.T) {
		responses := roundTrip(t,
			`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"get_social_links","arguments":{"platform":"linkedin"}}}`)
		text := contentText(t, responses[0])
		if !strings.Contains(text, "https://linkedin.com/in/someone/") {
			t.Errorf("unexpected tool output: %q", text)
		}
	})

	t.Run("Search", func(t *testing.T) {
		responses := roundTrip(t,
			`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"search_profile_content","arguments":{"query":"overview"}}}`)
		text := contentText(t, responses[0])
		if !strings.Contains(text, "Search results for") {
			t.Errorf("unexpected tool output: %q", text)
		}
	})

	t.Run("UnknownTool", func(t *testing.T) {
		responses := roundTrip(t,
			`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"bogus_tool","arguments":{}}}`)
		if responses[0].Error == nil {
			t.Fatal("expected rpc error")
		}
		if responses[0].Error.Code != codeInvalidParams {
			t.Errorf("code = %d", responses[0].Error.Code)
		}
	})
}

func TestNotificationGetsNoResponse(t *testing.T) {
	responses := roundTrip(t,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":1,"method":"ping"}`)
	if len(responses) != 1 {
		t.Fatalf("expected only the ping response, got %d", len(responses))
	}
}

func TestParseError(t *testing.T) {
	responses := roundTrip(t, `{not json`)
	if responses[0].Error == nil || responses[0].Error.Code != codeParseError {
		t.Fatalf("expected parse error, got %+v", responses[0])
	}
}

func TestMethodNotFound(t *testing.T) {
	responses := roundTrip(t, `{"jsonrpc":"2.0","id":1,"method":"resources/list"}`)
	if responses[0].Error == nil || responses[0].Error.Code != codeMethodNotFound {
		t.Fatalf("expected method-not-found, got %+v", responses[0])
	}
}

func TestPrompts(t *testing.T) {
	t.Run("List", func(t *testing.T) {
		responses := roundTrip(t, `{"jsonrpc":"2.0","id":1,"method":"prompts/list"}`)
		m := resultJSON(t, responses[0])
		prompts := m["prompts"].([]any)
		if len(prompts) != 1 {
			t.Fatalf("expected 1 prompt, got %d", len(prompts))
		}
	})

	t.Run("Get", func(t *testing.T) {
		responses := roundTrip(t,
			`{"jsonrpc":"2.0","id":1,"method":"prompts/get","params":{"name":"profile_assistant","arguments":{"query_type":"experience"}}}`)
		m := resultJSON(t, responses[0])
		messages := m["messages"].([]any)
		if len(messages) != 1 {
			t.Fatalf("expected 1 message, got %d", len(messages))
		}
	})

	t.Run("GetUnknown", func(t *testing.T) {
		responses := roundTrip(t,
			`{"jsonrpc":"2.0","id":1,"method":"prompts/get","params":{"name":"nope"}}`)
		if responses[0].Error == nil || responses[0].Error.Code != codeInvalidParams {
			t.Fatalf("expected invalid-params, got %+v", responses[0])
		}
	})
}
