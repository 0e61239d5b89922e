package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"prelanding-studio/internal/client"
	"prelanding-studio/internal/models"
)

// Mock StudioClient
type StudioClient struct {
	mock.Mock
}

func (m *StudioClient) Generate(ctx context.Context, endpoint string, payload any) (*client.RawGeneration, error) {
	args := m.Called(ctx, endpoint, payload)
	raw, _ := args.Get(0).(*client.RawGeneration)
	return raw, args.Error(1)
}
func (m *StudioClient) GetGeneration(ctx context.Context, genID string) (*client.RawGeneration, error) {
	args := m.Called(ctx, genID)
	raw, _ := args.Get(0).(*client.RawGeneration)
	return raw, args.Error(1)
}
func (m *StudioClient) Export(ctx context.Context, genID, format string) (*client.ExportPayload, error) {
	args := m.Called(ctx, genID, format)
	p, _ := args.Get(0).(*client.ExportPayload)
	return p, args.Error(1)
}
func (m *StudioClient) SubmitFeedback(ctx context.Context, submission models.FeedbackSubmission) (*models.FeedbackResponse, error) {
	args := m.Called(ctx, submission)
	resp, _ := args.Get(0).(*models.FeedbackResponse)
	return resp, args.Error(1)
}
func (m *StudioClient) ListScenarios(ctx context.Context) ([]models.Scenario, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]models.Scenario)
	return list, args.Error(1)
}
func (m *StudioClient) GetScenario(ctx context.Context, id int64) (*models.Scenario, error) {
	args := m.Called(ctx, id)
	sc, _ := args.Get(0).(*models.Scenario)
	return sc, args.Error(1)
}
func (m *StudioClient) CreateScenario(ctx context.Context, draft models.ScenarioDraft) (*models.Scenario, error) {
	args := m.Called(ctx, draft)
	sc, _ := args.Get(0).(*models.Scenario)
	return sc, args.Error(1)
}
func (m *StudioClient) UpdateScenario(ctx context.Context, id int64, draft models.ScenarioDraft) (*models.Scenario, error) {
	args := m.Called(ctx, id, draft)
	sc, _ := args.Get(0).(*models.Scenario)
	return sc, args.Error(1)
}
func (m *StudioClient) DeleteScenario(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *StudioClient) ListPrelandings(ctx context.Context, vertical string) ([]models.CatalogEntry, error) {
	args := m.Called(ctx, vertical)
	list, _ := args.Get(0).([]models.CatalogEntry)
	return list, args.Error(1)
}
func (m *StudioClient) UploadZip(ctx context.Context, filename string, r io.Reader) (*models.UploadSummary, error) {
	args := m.Called(ctx, filename, r)
	s, _ := args.Get(0).(*models.UploadSummary)
	return s, args.Error(1)
}
func (m *StudioClient) DeletePrelanding(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *StudioClient) TopPrelandings(ctx context.Context, q models.TopQuery) ([]models.CatalogEntry, error) {
	args := m.Called(ctx, q)
	list, _ := args.Get(0).([]models.CatalogEntry)
	return list, args.Error(1)
}
func (m *StudioClient) GenerateNames(ctx context.Context, req models.NameRequest) ([]models.NameRecord, error) {
	args := m.Called(ctx, req)
	names, _ := args.Get(0).([]models.NameRecord)
	return names, args.Error(1)
}
func (m *StudioClient) GenerateReviews(ctx context.Context, req models.ReviewRequest) ([]models.ReviewRecord, error) {
	args := m.Called(ctx, req)
	reviews, _ := args.Get(0).([]models.ReviewRecord)
	return reviews, args.Error(1)
}

var _ client.StudioClient = (*StudioClient)(nil)

func (m *StudioClient) FeedbackHistory(ctx context.Context, genID string) (*models.FeedbackHistory, error) {
	args := m.Called(ctx, genID)
	h, _ := args.Get(0).(*models.FeedbackHistory)
	return h, args.Error(1)
}

func (m *StudioClient) GetPrelanding(ctx context.Context, id string) (*models.CatalogEntry, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*models.CatalogEntry)
	return e, args.Error(1)
}
