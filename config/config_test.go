package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSourcesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing sources file: %v", err)
	}
	return path
}

func TestLoadSources(t *testing.T) {
	path := writeSourcesFile(t, `
sources:
  - name: overview
    url: https://example.com/home
    category: profile
  - name: blog
    url: https://example.com/blog
    category: profile
    strategy: article
  - name: linkedin
    url: https://linkedin.com/in/someone
    category: social
`)

	sources, err := LoadSources(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sources) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(sources))
	}
	if sources[1].Strategy != "article" {
		t.Errorf("strategy not parsed: %+v", sources[1])
	}
	if sources[2].Category != CategorySocial {
		t.Errorf("category not parsed: %+v", sources[2])
	}
}

func TestLoadSourcesValidation(t *testing.T) {
	testCases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			"Empty",
			`sources: []`,
			"no sources",
		},
		{
			"DuplicateName",
			"sources:\n  - {name: a, url: https://x, category: profile}\n  - {name: a, url: https://y, category: profile}",
			"duplicate source name",
		},
		{
			"MissingURL",
			"sources:\n  - {name: a, category: profile}",
			"has no URL",
		},
		{
			"BadCategory",
			"sources:\n  - {name: a, url: https://x, category: banana}",
			"unknown category",
		},
		{
			"NotYAML",
			"{{{{",
			"parsing sources file",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeSourcesFile(t, tc.yaml)
			_, err := LoadSources(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SOURCES_PATH", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("SNIPPET_WIDTH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CacheTTL.Minutes() != 60 {
		t.Errorf("default TTL = %v, want 60m", cfg.CacheTTL)
	}
	if cfg.HTTPTimeout.Seconds() != 30 {
		t.Errorf("default timeout = %v, want 30s", cfg.HTTPTimeout)
	}
	if cfg.SnippetWidth != 150 {
		t.Errorf("default snippet width = %d, want 150", cfg.SnippetWidth)
	}
	if len(cfg.ProfileSources()) != 4 {
		t.Errorf("expected 4 profile sources, got %d", len(cfg.ProfileSources()))
	}
	if len(cfg.SocialSources()) != 4 {
		t.Errorf("expected 4 social sources, got %d", len(cfg.SocialSources()))
	}
}

func TestLoadRejectsBadKnobs(t *testing.T) {
	testCases := []struct {
		key   string
		value string
	}{
		{"CACHE_TTL", "soon"},
		{"HTTP_TIMEOUT", "whenever"},
		{"SNIPPET_WIDTH", "wide"},
		{"SNIPPET_WIDTH", "-10"},
	}

	for _, tc := range testCases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSourceLookup(t *testing.T) {
	cfg := &Config{Sources: DefaultSources()}

	src, ok := cfg.Source("overview")
	if !ok || src.Category != CategoryProfile {
		t.Errorf("lookup failed: %+v ok=%v", src, ok)
	}
	if _, ok := cfg.Source("missing"); ok {
		t.Error("expected miss for unknown name")
	}
}
