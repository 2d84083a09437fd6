// Package intent turns a free-text hiring query into a structured reading:
// new search vs continuation, requirement text, paging, and wanted skills.
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/domain"
	"github.com/kailas-cloud/resumatch/internal/metrics"
)

const promptTemplate = `You are a query parser for a resume search service.
Read the user query and the previous search state, then answer with a single
JSON object and nothing else:

{"mode": "new" or "continue", "requirement": "search text", "page": 1, "page_size": 20, "top_k": 0, "skills": ["skill", ...], "role": "job title or empty"}

Rules:
- "continue" only when the query asks for the next page of the previous search
  (e.g. "next", "more", "show the rest"); then keep the previous requirement
  and increment the previous page.
- Otherwise mode is "new" with page 1.
- top_k is the explicit result cutoff ("top 5" -> 5), 0 when not requested.
- skills are concrete technologies mentioned in the query, lower-case.

Previous requirement: %q
Previous page: %d
Previous page size: %d

User query: %q`

// Service interprets queries via a chat model, falling back to a
// deterministic reading whenever the model is missing or misbehaves.
type Service struct {
	generator domain.Generator
	logger    *zap.Logger
}

// New creates an interpreter. generator may be nil; interpretation then always
// uses the fallback.
func New(generator domain.Generator, logger *zap.Logger) *Service {
	return &Service{generator: generator, logger: logger}
}

// Interpret is total: it always produces a usable Interpretation.
func (s *Service) Interpret(
	ctx context.Context, query, prevRequirement string, prevPage, prevPageSize int,
) domain.Interpretation {
	if s.generator == nil {
		metrics.FallbackTotal.WithLabelValues("disabled").Inc()
		return domain.FallbackInterpret(query, prevRequirement, prevPage, prevPageSize)
	}

	prompt := fmt.Sprintf(promptTemplate, prevRequirement, prevPage, prevPageSize, query)
	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("Intent generation failed, using fallback", zap.Error(err))
		metrics.FallbackTotal.WithLabelValues("error").Inc()
		return domain.FallbackInterpret(query, prevRequirement, prevPage, prevPageSize)
	}

	interp, ok := parseResponse(raw, query, prevRequirement, prevPage, prevPageSize)
	if !ok {
		s.logger.Warn("Intent response unparseable, using fallback", zap.String("response", truncate(raw, 200)))
		metrics.FallbackTotal.WithLabelValues("parse").Inc()
		return domain.FallbackInterpret(query, prevRequirement, prevPage, prevPageSize)
	}
	return interp
}

type llmInterpretation struct {
	Mode        string   `json:"mode"`
	Requirement string   `json:"requirement"`
	Page        int      `json:"page"`
	PageSize    int      `json:"page_size"`
	TopK        int      `json:"top_k"`
	Skills      []string `json:"skills"`
	Role        string   `json:"role"`
}

// parseResponse validates the model output; anything malformed selects the
// fallback so both branches produce the same typed result.
func parseResponse(
	raw, query, prevRequirement string, prevPage, prevPageSize int,
) (domain.Interpretation, bool) {
	var parsed llmInterpretation
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		return domain.Interpretation{}, false
	}

	if parsed.Mode != domain.ModeNew && parsed.Mode != domain.ModeContinue {
		return domain.Interpretation{}, false
	}
	if parsed.Mode == domain.ModeContinue && prevRequirement == "" {
		return domain.Interpretation{}, false
	}

	out := domain.Interpretation{
		Mode:        parsed.Mode,
		Requirement: strings.TrimSpace(parsed.Requirement),
		Page:        parsed.Page,
		PageSize:    parsed.PageSize,
		TopK:        parsed.TopK,
		Skills:      normalizeSkills(parsed.Skills),
		Role:        strings.TrimSpace(parsed.Role),
	}

	if out.Requirement == "" {
		if parsed.Mode == domain.ModeContinue {
			out.Requirement = prevRequirement
		} else {
			out.Requirement = strings.TrimSpace(query)
		}
	}
	if out.Requirement == "" {
		return domain.Interpretation{}, false
	}
	if out.Page < 1 {
		out.Page = 1
	}
	if out.PageSize < 1 {
		out.PageSize = domain.DefaultPageSize
	}
	if out.TopK < 0 {
		out.TopK = 0
	}
	return out, true
}

func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, sk := range skills {
		sk = strings.ToLower(strings.TrimSpace(sk))
		if sk != "" {
			out = append(out, sk)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// stripFences removes a markdown code fence around a JSON answer.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
