package domain

import (
	"regexp"
	"sort"
	"strings"
)

// noiseTokens are role and filler words that carry no search signal on their own.
// A candidate phrase built entirely from these is dropped unless it carries a
// technical marker character.
var noiseTokens = map[string]struct{}{
	"find": {}, "finds": {}, "top": {}, "show": {}, "showing": {}, "list": {},
	"get": {}, "return": {}, "candidates": {}, "candidate": {}, "resume": {},
	"resumes": {}, "page": {}, "out": {}, "of": {}, "the": {}, "a": {}, "an": {},
	"for": {}, "with": {}, "and": {}, "or": {}, "in": {}, "on": {}, "by": {},
	"role": {}, "position": {}, "need": {}, "looking": {}, "seeking": {},
	"hire": {}, "hiring": {}, "please": {}, "these": {}, "that": {}, "is": {},
	"are": {}, "i": {}, "me": {}, "my": {}, "developer": {}, "developers": {},
	"engineer": {}, "engineers": {}, "dev": {}, "years": {}, "year": {},
}

// wordPattern tokenizes a query, keeping marker characters inside tokens so that
// phrases like "c++", "node.js" or "3.5" survive intact.
var wordPattern = regexp.MustCompile(`[\w+#./-]+`)

// ExtractKeywords turns a free-text query into an ordered set of search phrases.
// It generates the full query plus all 1..3-gram token windows, keeps anything
// with a technical marker (digit, '.', '-', '#', '/', '+'), drops the rest when
// shorter than 3 characters or made entirely of noise tokens, deduplicates, and
// sorts by non-increasing phrase length so multi-word technical phrases are
// matched before single words.
func ExtractKeywords(query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	tokens := wordPattern.FindAllString(query, -1)

	candidates := []string{query}
	for n := 1; n <= 3; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			candidates = append(candidates, strings.Join(tokens[i:i+n], " "))
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	keywords := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c]; dup {
			continue
		}
		if !keepPhrase(c) {
			continue
		}
		seen[c] = struct{}{}
		keywords = append(keywords, c)
	}

	sort.SliceStable(keywords, func(i, j int) bool {
		return len(keywords[i]) > len(keywords[j])
	})

	if len(keywords) == 0 {
		return nil
	}
	return keywords
}

func keepPhrase(phrase string) bool {
	if hasTechnicalMarker(phrase) {
		return true
	}
	if len(phrase) < 3 {
		return false
	}
	return !allNoise(phrase)
}

// hasTechnicalMarker reports whether the phrase contains a character typical of
// technology names and versions ("c++", "node.js", "3.5", "ci/cd").
func hasTechnicalMarker(phrase string) bool {
	return strings.ContainsAny(phrase, "0123456789.-#/+")
}

func allNoise(phrase string) bool {
	for _, tok := range strings.Fields(phrase) {
		if _, ok := noiseTokens[tok]; !ok {
			return false
		}
	}
	return true
}
