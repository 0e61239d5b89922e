package client

import (
	"context"
	"io"

	"prelanding-studio/internal/models"
)

// GenerationClient - операции генерации, экспорта и обратной связи.
type GenerationClient interface {
	// Generate отправляет запрос на указанный эндпоинт генерации и возвращает сырой ответ.
	Generate(ctx context.Context, endpoint string, payload any) (*RawGeneration, error)
	// GetGeneration запрашивает ранее сгенерированный текст по id.
	GetGeneration(ctx context.Context, genID string) (*RawGeneration, error)
	// Export возвращает содержимое в формате text или html.
	Export(ctx context.Context, genID, format string) (*ExportPayload, error)
	// SubmitFeedback отправляет фактические метрики по генерации.
	SubmitFeedback(ctx context.Context, submission models.FeedbackSubmission) (*models.FeedbackResponse, error)
	// FeedbackHistory возвращает все отправленные метрики по генерации.
	FeedbackHistory(ctx context.Context, genID string) (*models.FeedbackHistory, error)
}

// ScenarioClient - CRUD сценариев.
type ScenarioClient interface {
	ListScenarios(ctx context.Context) ([]models.Scenario, error)
	GetScenario(ctx context.Context, id int64) (*models.Scenario, error)
	CreateScenario(ctx context.Context, draft models.ScenarioDraft) (*models.Scenario, error)
	UpdateScenario(ctx context.Context, id int64, draft models.ScenarioDraft) (*models.Scenario, error)
	DeleteScenario(ctx context.Context, id int64) error
}

// CatalogClient - операции с библиотекой эталонных prelanding'ов.
type CatalogClient interface {
	// ListPrelandings возвращает записи; пустая vertical означает все вертикали.
	ListPrelandings(ctx context.Context, vertical string) ([]models.CatalogEntry, error)
	GetPrelanding(ctx context.Context, id string) (*models.CatalogEntry, error)
	UploadZip(ctx context.Context, filename string, r io.Reader) (*models.UploadSummary, error)
	DeletePrelanding(ctx context.Context, id string) error
	TopPrelandings(ctx context.Context, q models.TopQuery) ([]models.CatalogEntry, error)
}

// GeneratorsClient - вспомогательные генераторы имён и отзывов.
type GeneratorsClient interface {
	GenerateNames(ctx context.Context, req models.NameRequest) ([]models.NameRecord, error)
	GenerateReviews(ctx context.Context, req models.ReviewRequest) ([]models.ReviewRecord, error)
}

// StudioClient объединяет все операции удалённого сервиса.
type StudioClient interface {
	GenerationClient
	ScenarioClient
	CatalogClient
	GeneratorsClient
}
