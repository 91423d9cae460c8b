package relevance

import "testing"

func TestKeywordFilterScore(t *testing.T) {
	longText := `Apple and banana are fruits that many people enjoy every day. They are found in markets
	around the world and are part of a healthy diet. Eating fruits like apple and banana provides vitamins,
	fiber, and natural sugars which are beneficial. Many recipes include these fruits, from pies to smoothies,
	and children often love them as snacks neural networks, long short term memory.`

	testCases := []struct {
		name      string
		keywords  []string
		content   string
		wantMatch bool
		wantScore float32
	}{
		{"PhraseMatch", []string{"neural networks"}, longText, true, 1.0},
		{"LongPhraseMatch", []string{"long short term memory"}, longText, true, 1.0},
		{"NoMatch", []string{"grape", "orange"}, longText, false, 0.0},
		{"PartialMatch", []string{"apple", "grape"}, longText, true, 0.5},
		{"CaseInsensitive", []string{"APPLE"}, longText, true, 1.0},
		{"EmptyContent", []string{"apple"}, "", false, 0.0},
		{"EmptyKeywords", nil, longText, false, 0.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			filter := NewKeywordFilter(tc.keywords)

			score := filter.Score(tc.content)
			if score != tc.wantScore {
				t.Errorf("expected score %v, got %v", tc.wantScore, score)
			}
			if filter.Matches(tc.content) != tc.wantMatch {
				t.Errorf("expected match %v", tc.wantMatch)
			}
		})
	}
}
