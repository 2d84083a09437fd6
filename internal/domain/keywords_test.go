package domain

import (
	"strings"
	"testing"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		want     []string
		wantNone []string
	}{
		{
			name:  "technical phrases survive",
			query: "find top 5 golang developers with kubernetes",
			want:  []string{"golang", "kubernetes", "golang developers"},
		},
		{
			name:  "marker tokens kept regardless of length",
			query: "c++ and 5+ years",
			want:  []string{"c++", "5+"},
		},
		{
			name:  "dotted names survive tokenization",
			query: "node.js backend engineer",
			want:  []string{"node.js", "node.js backend"},
		},
		{
			name:     "pure noise dropped",
			query:    "find the candidates",
			wantNone: []string{"find", "the", "candidates", "find the"},
		},
		{
			name:  "full query included",
			query: "python data engineer",
			want:  []string{"python data engineer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractKeywords(tt.query)
			set := make(map[string]struct{}, len(got))
			for _, k := range got {
				set[k] = struct{}{}
			}
			for _, w := range tt.want {
				if _, ok := set[w]; !ok {
					t.Errorf("ExtractKeywords(%q) missing %q, got %v", tt.query, w, got)
				}
			}
			for _, w := range tt.wantNone {
				if _, ok := set[w]; ok {
					t.Errorf("ExtractKeywords(%q) should not contain %q", tt.query, w)
				}
			}
		})
	}
}

func TestExtractKeywordsEmpty(t *testing.T) {
	if got := ExtractKeywords(""); got != nil {
		t.Errorf("expected nil for empty query, got %v", got)
	}
	if got := ExtractKeywords("   "); got != nil {
		t.Errorf("expected nil for blank query, got %v", got)
	}
}

func TestExtractKeywordsOrderedByLength(t *testing.T) {
	got := ExtractKeywords("senior golang engineer with docker and kubernetes experience")
	for i := 1; i < len(got); i++ {
		if len(got[i]) > len(got[i-1]) {
			t.Fatalf("keywords not sorted by descending length at %d: %v", i, got)
		}
	}
}

func TestExtractKeywordsDeduplicates(t *testing.T) {
	got := ExtractKeywords("golang golang golang")
	seen := make(map[string]int)
	for _, k := range got {
		seen[k]++
		if seen[k] > 1 {
			t.Fatalf("duplicate keyword %q in %v", k, got)
		}
	}
}

func TestExtractKeywordsLowercases(t *testing.T) {
	for _, k := range ExtractKeywords("Senior GoLang Engineer") {
		if k != strings.ToLower(k) {
			t.Fatalf("keyword %q not lower-cased", k)
		}
	}
}
