package chi

import (
	"context"

	"github.com/kailas-cloud/resumatch/internal/domain"
	healthuc "github.com/kailas-cloud/resumatch/internal/usecase/health"
	queryuc "github.com/kailas-cloud/resumatch/internal/usecase/query"
)

// --- Mocks ---

type mockQueryService struct {
	resp queryuc.Response
	err  error

	gotText     string
	gotPrevReq  string
	gotPrevPage int
}

func (m *mockQueryService) Query(
	_ context.Context, text, prevRequirement string, prevPage, _ int,
) (queryuc.Response, error) {
	m.gotText = text
	m.gotPrevReq = prevRequirement
	m.gotPrevPage = prevPage
	return m.resp, m.err
}

type mockSyncer struct {
	added int
	err   error
}

func (m *mockSyncer) Sync(_ context.Context) (int, error) { return m.added, m.err }

type mockRecordLister struct {
	metas []domain.RecordMeta
	total int
	err   error
}

func (m *mockRecordLister) List(_ context.Context, _, _ int) ([]domain.RecordMeta, int, error) {
	return m.metas, m.total, m.err
}

type mockHealthService struct {
	report healthuc.Report
}

func (m *mockHealthService) Check(_ context.Context) healthuc.Report { return m.report }
