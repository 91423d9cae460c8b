package search

import "testing"

func TestExtractDropsStopWords(t *testing.T) {
	ke := NewKeywordExtractor()

	keywords := ke.Extract("what is the experience of a researcher")
	for _, k := range keywords {
		switch k {
		case "what", "is", "the", "of", "a":
			t.Errorf("stop word %q survived extraction", k)
		}
	}
	if len(keywords) == 0 {
		t.Fatal("expected content keywords to remain")
	}
}

func TestExtractStemsWords(t *testing.T) {
	ke := NewKeywordExtractor()

	testCases := []struct {
		query string
		want  string
	}{
		{"running", "run"},
		{"quickly", "quick"},
		{"research", "research"},
	}

	for _, tc := range testCases {
		keywords := ke.Extract(tc.query)
		if len(keywords) != 1 {
			t.Fatalf("query %q: expected 1 keyword, got %v", tc.query, keywords)
		}
		if keywords[0] != tc.want {
			t.Errorf("query %q: got stem %q, want %q", tc.query, keywords[0], tc.want)
		}
	}
}

func TestExtractDeduplicates(t *testing.T) {
	ke := NewKeywordExtractor()

	keywords := ke.Extract("research researching researched")
	if len(keywords) != 1 {
		t.Errorf("expected stems to collapse into 1 keyword, got %v", keywords)
	}
}

func TestExtractStripsPunctuation(t *testing.T) {
	ke := NewKeywordExtractor()

	keywords := ke.Extract("speech-recognition, tokyo!")
	for _, k := range keywords {
		for _, r := range k {
			if r == ',' || r == '!' || r == '-' {
				t.Errorf("punctuation survived in keyword %q", k)
			}
		}
	}
	if len(keywords) < 2 {
		t.Errorf("expected multiple keywords, got %v", keywords)
	}
}

func TestExtractEmptyQuery(t *testing.T) {
	ke := NewKeywordExtractor()
	if keywords := ke.Extract("   "); len(keywords) != 0 {
		t.Errorf("expected no keywords, got %v", keywords)
	}
}
