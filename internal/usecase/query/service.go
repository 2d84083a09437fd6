// Package query is the end-to-end flow behind the search endpoint: interpret
// the recruiter's text, widen the skill set with rule-based keywords, retrieve
// ranked candidates, and narrate the result.
package query

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/domain"
	"github.com/kailas-cloud/resumatch/internal/usecase/retriever"
)

const summaryCandidateLimit = 10

const summaryPromptTemplate = `You are assisting a recruiter. In two or three
plain sentences, summarize this resume search outcome. Mention the strongest
candidates by filename and their experience. Do not use markdown.

Requirement: %s
Total matching candidates: %d
Returned page:
%s`

// Response is the assembled answer to one query, including the effective
// search state the client needs to ask for the next page.
type Response struct {
	Requirement string
	Page        int
	PageSize    int
	Candidates  []domain.Candidate
	TotalCount  int
	Summary     string
}

// Service orchestrates interpretation, retrieval, and summarization.
type Service struct {
	interpreter Interpreter
	searcher    Searcher
	generator   domain.Generator
	logger      *zap.Logger
}

// New creates the orchestrator. generator may be nil; summaries then use the
// static fallback sentence.
func New(interpreter Interpreter, searcher Searcher, generator domain.Generator, logger *zap.Logger) *Service {
	return &Service{
		interpreter: interpreter,
		searcher:    searcher,
		generator:   generator,
		logger:      logger,
	}
}

// Query runs one search round trip. Previous state comes from the client so
// the service itself stays stateless.
func (s *Service) Query(
	ctx context.Context, text, prevRequirement string, prevPage, prevPageSize int,
) (Response, error) {
	interp := s.interpreter.Interpret(ctx, text, prevRequirement, prevPage, prevPageSize)

	skills := mergeSkills(interp.Skills, domain.ExtractKeywords(interp.Requirement))

	result, err := s.searcher.Search(ctx, retriever.Query{
		Requirement: interp.Requirement,
		Skills:      skills,
		TopK:        interp.TopK,
		Page:        interp.Page,
		PageSize:    interp.PageSize,
	})
	if err != nil {
		return Response{}, fmt.Errorf("search %q: %w", interp.Requirement, err)
	}

	return Response{
		Requirement: interp.Requirement,
		Page:        interp.Page,
		PageSize:    interp.PageSize,
		Candidates:  result.Candidates,
		TotalCount:  result.TotalCount,
		Summary:     s.summarize(ctx, interp.Requirement, result),
	}, nil
}

// mergeSkills unions the interpreter's skills with rule-derived keywords,
// case-insensitively, keeping the interpreter's entries first. The union
// widens recall: both sources feed the same any-match filter downstream.
func mergeSkills(interpreted, extracted []string) []string {
	seen := make(map[string]struct{}, len(interpreted)+len(extracted))
	out := make([]string, 0, len(interpreted)+len(extracted))
	for _, group := range [][]string{interpreted, extracted} {
		for _, skill := range group {
			key := strings.ToLower(strings.TrimSpace(skill))
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, key)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// summarize narrates the result page via the chat model, degrading to a fixed
// sentence whenever the model is missing or fails.
func (s *Service) summarize(ctx context.Context, requirement string, result domain.SearchResult) string {
	fallback := staticSummary(requirement, result.TotalCount)
	if s.generator == nil {
		return fallback
	}

	prompt := fmt.Sprintf(summaryPromptTemplate,
		requirement, result.TotalCount, formatCandidates(result.Candidates))
	summary, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("Summary generation failed, using fallback", zap.Error(err))
		return fallback
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return fallback
	}
	return summary
}

func staticSummary(requirement string, total int) string {
	switch total {
	case 0:
		return fmt.Sprintf("No candidates matched %q.", requirement)
	case 1:
		return fmt.Sprintf("Found 1 candidate matching %q.", requirement)
	default:
		return fmt.Sprintf("Found %d candidates matching %q.", total, requirement)
	}
}

func formatCandidates(cands []domain.Candidate) string {
	if len(cands) == 0 {
		return "(empty)"
	}
	if len(cands) > summaryCandidateLimit {
		cands = cands[:summaryCandidateLimit]
	}
	var b strings.Builder
	for i, c := range cands {
		fmt.Fprintf(&b, "%d. %s, %.1f years of experience\n", i+1, c.FileName, c.ExperienceYears)
	}
	return b.String()
}
