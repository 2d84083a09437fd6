package query

import (
	"context"

	"github.com/kailas-cloud/resumatch/internal/domain"
	"github.com/kailas-cloud/resumatch/internal/usecase/retriever"
)

// Interpreter turns a free-text query plus previous search state into a
// structured reading. Total: it never fails, only falls back.
type Interpreter interface {
	Interpret(ctx context.Context, query, prevRequirement string, prevPage, prevPageSize int) domain.Interpretation
}

// Searcher runs the ranked retrieval pipeline.
type Searcher interface {
	Search(ctx context.Context, q retriever.Query) (domain.SearchResult, error)
}
