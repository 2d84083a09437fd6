// Package retriever owns the search pipeline: keeping the chunk index in sync
// with stored résumés, running KNN retrieval, and ranking candidates by
// experience and relevance.
package retriever

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/domain"
	"github.com/kailas-cloud/resumatch/internal/extract"
	"github.com/kailas-cloud/resumatch/internal/repository/chunks"
)

// Options tunes the retrieval pipeline. Zero fields fall back to defaults.
type Options struct {
	ChunkSize       int
	ChunkOverlap    int
	MaxSearchChunks int
	RecencyDays     int
	DefaultPageSize int
	MaxPageSize     int
	UploadDir       string
}

const (
	defaultMaxSearchChunks = 250
	defaultRecencyDays     = 30
	defaultMaxPageSize     = 100
	defaultUploadDir       = "uploads"
)

// Query describes one ranked retrieval request.
type Query struct {
	Requirement string
	Skills      []string
	TopK        int
	Page        int
	PageSize    int
}

// Service runs search and index synchronization over stored résumés.
type Service struct {
	records  RecordStore
	index    ChunkIndex
	embedder domain.Embedder
	extract  TextExtractor
	opts     Options
	logger   *zap.Logger
}

// New creates a retriever. extractor may be nil; PDF extraction is then used.
func New(
	records RecordStore,
	index ChunkIndex,
	embedder domain.Embedder,
	extractor TextExtractor,
	opts Options,
	logger *zap.Logger,
) *Service {
	if extractor == nil {
		extractor = extract.PDFText
	}
	if opts.MaxSearchChunks <= 0 {
		opts.MaxSearchChunks = defaultMaxSearchChunks
	}
	if opts.RecencyDays <= 0 {
		opts.RecencyDays = defaultRecencyDays
	}
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = domain.DefaultPageSize
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = defaultMaxPageSize
	}
	if opts.UploadDir == "" {
		opts.UploadDir = defaultUploadDir
	}
	return &Service{
		records:  records,
		index:    index,
		embedder: embedder,
		extract:  extractor,
		opts:     opts,
		logger:   logger,
	}
}

// Search synchronizes the index, retrieves the nearest chunks to the
// requirement, aggregates them per candidate, filters by recency and skills,
// and returns the requested result window.
func (s *Service) Search(ctx context.Context, q Query) (domain.SearchResult, error) {
	if err := s.index.EnsureIndex(ctx); err != nil {
		return domain.SearchResult{}, err
	}
	if _, err := s.Sync(ctx); err != nil {
		return domain.SearchResult{}, err
	}

	total, err := s.index.Count(ctx)
	if err != nil {
		return domain.SearchResult{}, err
	}
	if total == 0 {
		return domain.SearchResult{Candidates: []domain.Candidate{}}, nil
	}

	emb, err := s.embedder.Embed(ctx, q.Requirement)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("embed requirement: %w", err)
	}

	k := s.opts.MaxSearchChunks
	if total < k {
		k = total
	}
	hits, err := s.index.SearchNearest(ctx, emb.Embedding, k)
	if err != nil {
		return domain.SearchResult{}, err
	}

	candidates := s.collectCandidates(ctx, aggregateRelevance(hits), q.Skills)
	sortCandidates(candidates)

	windowed := window(candidates, q.TopK, q.Page, q.PageSize, s.opts.DefaultPageSize, s.opts.MaxPageSize)
	return domain.SearchResult{Candidates: windowed, TotalCount: len(candidates)}, nil
}

// Sync indexes every stored record that has no chunks yet. Records that fail
// to yield text are skipped, not retried. Returns the number of chunks added.
func (s *Service) Sync(ctx context.Context) (int, error) {
	ids, err := s.records.IDs(ctx)
	if err != nil {
		return 0, err
	}
	indexed, err := s.index.IndexedUploadIDs(ctx)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, id := range ids {
		if _, ok := indexed[id]; ok {
			continue
		}
		n, err := s.indexRecord(ctx, id)
		if err != nil {
			s.logger.Warn("Skipping record during sync", zap.String("id", id), zap.Error(err))
			continue
		}
		added += n
	}
	return added, nil
}

func (s *Service) indexRecord(ctx context.Context, id string) (int, error) {
	rec, err := s.records.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	text, err := s.resolveText(ctx, rec)
	if err != nil {
		return 0, err
	}

	pieces := domain.SplitText(text, s.opts.ChunkSize, s.opts.ChunkOverlap)
	added := 0
	for _, piece := range pieces {
		emb, err := s.embedder.Embed(ctx, piece)
		if err != nil {
			return added, fmt.Errorf("embed chunk: %w", err)
		}
		chunk := domain.Chunk{
			UploadID: rec.ID,
			FileName: rec.FileName,
			Content:  piece,
			Vector:   emb.Embedding,
		}
		if err := s.index.Add(ctx, chunk); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// resolveText returns the record's plain text, materializing the base64
// payload to the upload directory on first use so later reads hit the disk
// copy instead of re-decoding.
func (s *Service) resolveText(ctx context.Context, rec domain.Record) (string, error) {
	if rec.FilePath != "" {
		data, err := os.ReadFile(rec.FilePath)
		if err == nil {
			return s.extract(data)
		}
		s.logger.Warn("Cached file unreadable, falling back to stored payload",
			zap.String("id", rec.ID), zap.String("path", rec.FilePath), zap.Error(err))
	}

	if rec.File == "" {
		return "", fmt.Errorf("record %s: %w", rec.ID, domain.ErrNoText)
	}
	data, err := base64.StdEncoding.DecodeString(rec.File)
	if err != nil {
		return "", fmt.Errorf("decode record %s payload: %w", rec.ID, err)
	}

	s.cacheToDisk(ctx, rec.ID, data)

	return s.extract(data)
}

// cacheToDisk is best effort: extraction proceeds from memory either way.
func (s *Service) cacheToDisk(ctx context.Context, id string, data []byte) {
	if err := os.MkdirAll(s.opts.UploadDir, 0o750); err != nil {
		s.logger.Warn("Cannot create upload dir", zap.Error(err))
		return
	}
	path := filepath.Join(s.opts.UploadDir, id+".pdf")
	if _, err := os.Stat(path); err != nil {
		if err := os.WriteFile(path, data, 0o600); err != nil {
			s.logger.Warn("Cannot cache file", zap.String("path", path), zap.Error(err))
			return
		}
	}
	if err := s.records.SetFilePathIfAbsent(ctx, id, path); err != nil {
		s.logger.Warn("Cannot record cached path", zap.String("id", id), zap.Error(err))
	}
}

// collectCandidates resolves aggregated hits into candidates, dropping records
// that are missing, stale, or mention none of the required skills.
func (s *Service) collectCandidates(
	ctx context.Context, relevance map[string]candidateHit, skills []string,
) []domain.Candidate {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.opts.RecencyDays)

	out := make([]domain.Candidate, 0, len(relevance))
	for id, hit := range relevance {
		rec, err := s.records.Get(ctx, id)
		if err != nil {
			if !errors.Is(err, domain.ErrRecordNotFound) {
				s.logger.Warn("Cannot load hit record", zap.String("id", id), zap.Error(err))
			}
			continue
		}
		if rec.UpdatedAt.Before(cutoff) {
			continue
		}

		text, err := s.resolveText(ctx, rec)
		if err != nil {
			s.logger.Warn("Cannot read hit record text", zap.String("id", id), zap.Error(err))
			continue
		}
		if !matchesAnySkill(text, skills) {
			continue
		}

		out = append(out, domain.Candidate{
			ID:              rec.ID,
			FileName:        rec.FileName,
			Relevance:       hit.relevance,
			ExperienceYears: domain.EstimateYears(text),
			LastUpdated:     rec.UpdatedAt,
		})
	}
	return out
}

type candidateHit struct {
	relevance float64
}

// aggregateRelevance sums per-chunk relevance by owning record. A raw cosine
// distance d maps to 1/(1+d), so a record with several close chunks outranks
// one with a single close chunk.
func aggregateRelevance(hits []chunks.ChunkHit) map[string]candidateHit {
	out := make(map[string]candidateHit)
	for _, hit := range hits {
		if hit.UploadID == "" {
			continue
		}
		agg := out[hit.UploadID]
		agg.relevance += 1 / (1 + hit.Distance)
		out[hit.UploadID] = agg
	}
	return out
}

// sortCandidates orders by experience descending, then relevance descending.
// The sort is stable so equal candidates keep their incoming order.
func sortCandidates(cands []domain.Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].ExperienceYears != cands[j].ExperienceYears {
			return cands[i].ExperienceYears > cands[j].ExperienceYears
		}
		return cands[i].Relevance > cands[j].Relevance
	})
}

// window applies the result cutoff: topK when positive, otherwise a 1-indexed
// page of pageSize. pageSize is defaulted and capped by the configured limits.
func window(cands []domain.Candidate, topK, page, pageSize, defaultSize, maxSize int) []domain.Candidate {
	if topK > 0 {
		if topK > len(cands) {
			topK = len(cands)
		}
		return cands[:topK]
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}
	start := (page - 1) * pageSize
	if start >= len(cands) {
		return []domain.Candidate{}
	}
	end := start + pageSize
	if end > len(cands) {
		end = len(cands)
	}
	return cands[start:end]
}

// matchesAnySkill reports whether text mentions at least one skill as a whole
// word, case-insensitively. An empty skill list keeps everyone: the filter
// widens recall, it never replaces vector similarity.
func matchesAnySkill(text string, skills []string) bool {
	if len(skills) == 0 {
		return true
	}
	lower := strings.ToLower(text)
	for _, skill := range skills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" {
			continue
		}
		if containsWholeWord(lower, skill) {
			return true
		}
	}
	return false
}

// containsWholeWord reports whether needle occurs in haystack bounded by
// non-alphanumeric runes. Boundaries are checked manually instead of with a
// regexp word boundary, which mishandles terms like "c++" and "f#".
func containsWholeWord(haystack, needle string) bool {
	for from := 0; ; {
		idx := strings.Index(haystack[from:], needle)
		if idx < 0 {
			return false
		}
		idx += from

		before, _ := utf8.DecodeLastRuneInString(haystack[:idx])
		after, _ := utf8.DecodeRuneInString(haystack[idx+len(needle):])
		if !isWordRune(before) && !isWordRune(after) {
			return true
		}
		from = idx + 1
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
