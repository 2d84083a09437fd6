package query

import (
	"context"

	"github.com/kailas-cloud/resumatch/internal/domain"
	"github.com/kailas-cloud/resumatch/internal/usecase/retriever"
)

// --- Mocks ---

type mockInterpreter struct {
	result domain.Interpretation
}

func (m *mockInterpreter) Interpret(
	_ context.Context, _, _ string, _, _ int,
) domain.Interpretation {
	return m.result
}

type mockSearcher struct {
	result domain.SearchResult
	err    error
	gotQ   retriever.Query
}

func (m *mockSearcher) Search(_ context.Context, q retriever.Query) (domain.SearchResult, error) {
	m.gotQ = q
	return m.result, m.err
}

type mockGenerator struct {
	response string
	err      error
	calls    int
}

func (m *mockGenerator) Generate(_ context.Context, _ string) (string, error) {
	m.calls++
	return m.response, m.err
}
