package domain

import (
	"regexp"
	"strings"
)

// Interpretation modes. A "new" query starts a fresh search; "continue" pages
// through the previous one.
const (
	ModeNew      = "new"
	ModeContinue = "continue"
)

// Interpretation is the structured reading of a free-text hiring query. TopK
// of zero means the client did not ask for an explicit cutoff.
type Interpretation struct {
	Mode        string
	Requirement string
	Page        int
	PageSize    int
	TopK        int
	Skills      []string
	Role        string
}

var topNPattern = regexp.MustCompile(`(?i)\btop\s+(\d+)\b`)

var continueWords = map[string]struct{}{
	"next": {}, "more": {}, "continue": {},
}

// FallbackInterpret is the deterministic reading used when no language model
// is available or its answer cannot be parsed. A query containing a
// continuation marker ("next 20 candidates", "show me more") pages forward
// through the previous requirement; everything else starts a new search. An
// explicit "top N" cutoff is honored on both branches.
func FallbackInterpret(query, prevRequirement string, prevPage, prevPageSize int) Interpretation {
	topK := 0
	if m := topNPattern.FindStringSubmatch(query); m != nil {
		topK = atoiSafe(m[1])
	}

	if hasContinuationMarker(query) && prevRequirement != "" {
		page := prevPage + 1
		if prevPage < 1 {
			page = 2
		}
		size := prevPageSize
		if size < 1 {
			size = DefaultPageSize
		}
		return Interpretation{
			Mode:        ModeContinue,
			Requirement: prevRequirement,
			Page:        page,
			PageSize:    size,
			TopK:        topK,
		}
	}

	return Interpretation{
		Mode:        ModeNew,
		Requirement: strings.TrimSpace(query),
		Page:        1,
		PageSize:    DefaultPageSize,
		TopK:        topK,
	}
}

// hasContinuationMarker matches marker words per token, not per substring, so
// "sophomore" does not read as "more".
func hasContinuationMarker(query string) bool {
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		tok = strings.Trim(tok, ".,!?;:")
		if _, ok := continueWords[tok]; ok {
			return true
		}
	}
	return false
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
		if n > 1_000_000 {
			return 1_000_000
		}
	}
	return n
}
