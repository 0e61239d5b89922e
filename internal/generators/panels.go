package generators

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"prelanding-studio/internal/client"
	"prelanding-studio/internal/models"
)

// Сообщения по умолчанию для панелей.
const (
	FallbackNamesMessage   = "Ошибка генерации имён"
	FallbackReviewsMessage = "Ошибка генерации отзывов"
)

// NameState - состояние панели имён.
type NameState struct {
	Busy    bool                `json:"busy"`
	Names   []models.NameRecord `json:"names"`
	Message string              `json:"message,omitempty"`
}

// NamePanel - генератор имён. Каждая пачка заменяет предыдущую.
type NamePanel struct {
	api    client.GeneratorsClient
	logger *zap.Logger

	mu      sync.Mutex
	busy    bool
	names   []models.NameRecord
	message string
}

// NewNamePanel создает панель генерации имён.
func NewNamePanel(api client.GeneratorsClient, logger *zap.Logger) *NamePanel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NamePanel{api: api, logger: logger.Named("NamePanel"), names: []models.NameRecord{}}
}

// Generate запрашивает новую пачку имён. При ошибке прежняя пачка остаётся.
func (p *NamePanel) Generate(ctx context.Context, req models.NameRequest) ([]models.NameRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.busy {
		p.mu.Unlock()
		return nil, models.ErrOperationInProgress
	}
	p.busy = true
	p.message = ""
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.busy = false
		p.mu.Unlock()
	}()

	names, err := p.api.GenerateNames(ctx, req)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.message = client.UserMessage(err, FallbackNamesMessage)
		p.logger.Error("Name generation failed", zap.String("geo", req.Geo), zap.Int("count", req.Count), zap.Error(err))
		return nil, fmt.Errorf("name generation failed: %w", err)
	}
	if names == nil {
		names = []models.NameRecord{}
	}
	p.names = names
	p.logger.Info("Names generated", zap.String("geo", req.Geo), zap.Int("count", len(names)))
	return append([]models.NameRecord(nil), names...), nil
}

// State возвращает снимок панели.
func (p *NamePanel) State() NameState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return NameState{Busy: p.busy, Names: append([]models.NameRecord{}, p.names...), Message: p.message}
}

// ClipboardText - текущая пачка в формате для копирования.
func (p *NamePanel) ClipboardText() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return models.FormatNames(p.names)
}

// ReviewState - состояние панели отзывов.
type ReviewState struct {
	Busy    bool                  `json:"busy"`
	Reviews []models.ReviewRecord `json:"reviews"`
	Message string                `json:"message,omitempty"`
}

// ReviewPanel - генератор отзывов. Не зависит от панели имён.
type ReviewPanel struct {
	api    client.GeneratorsClient
	logger *zap.Logger

	mu      sync.Mutex
	busy    bool
	reviews []models.ReviewRecord
	message string
}

// NewReviewPanel создает панель генерации отзывов.
func NewReviewPanel(api client.GeneratorsClient, logger *zap.Logger) *ReviewPanel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewPanel{api: api, logger: logger.Named("ReviewPanel"), reviews: []models.ReviewRecord{}}
}

// Generate запрашивает новую пачку отзывов.
func (p *ReviewPanel) Generate(ctx context.Context, req models.ReviewRequest) ([]models.ReviewRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.busy {
		p.mu.Unlock()
		return nil, models.ErrOperationInProgress
	}
	p.busy = true
	p.message = ""
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.busy = false
		p.mu.Unlock()
	}()

	reviews, err := p.api.GenerateReviews(ctx, req)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.message = client.UserMessage(err, FallbackReviewsMessage)
		p.logger.Error("Review generation failed", zap.String("geo", req.Geo), zap.Int("count", req.Count), zap.Error(err))
		return nil, fmt.Errorf("review generation failed: %w", err)
	}
	if reviews == nil {
		reviews = []models.ReviewRecord{}
	}
	p.reviews = reviews
	p.logger.Info("Reviews generated", zap.String("geo", req.Geo), zap.Int("count", len(reviews)))
	return append([]models.ReviewRecord(nil), reviews...), nil
}

// State возвращает снимок панели.
func (p *ReviewPanel) State() ReviewState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ReviewState{Busy: p.busy, Reviews: append([]models.ReviewRecord{}, p.reviews...), Message: p.message}
}
