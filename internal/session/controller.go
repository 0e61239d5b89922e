package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"prelanding-studio/internal/client"
	"prelanding-studio/internal/models"
)

// Phase - состояние сессии генерации.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseSuccess    Phase = "success"
	PhaseFailed     Phase = "failed"
)

// Сообщения по умолчанию, если сервис не прислал detail.
const (
	FallbackGenerationMessage = "Ошибка генерации копирайта"
	FallbackExportMessage     = "Ошибка экспорта"
	FallbackFeedbackMessage   = "Ошибка отправки метрик"
)

// State - снимок состояния контроллера для отображения.
type State struct {
	Config    models.GenerationConfig  `json:"config"`
	Phase     Phase                    `json:"phase"`
	Busy      bool                     `json:"busy"`
	Message   string                   `json:"message,omitempty"`
	Result    *models.GenerationResult `json:"result,omitempty"`
	Scenarios []models.Scenario        `json:"scenarios"`
}

// Controller управляет одной сессией генерации: конфигурация, отправка,
// отображаемый результат и экспорт. Одновременно выполняется не больше одной отправки.
type Controller struct {
	mu        sync.Mutex
	gen       client.GenerationClient
	logger    *zap.Logger
	cfg       models.GenerationConfig
	phase     Phase
	busy      bool
	message   string
	result    *models.GenerationResult
	scenarios []models.Scenario
	closed    bool
}

// NewController создает контроллер с конфигурацией по умолчанию.
func NewController(gen client.GenerationClient, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		gen:       gen,
		logger:    logger.Named("SessionController"),
		cfg:       models.DefaultGenerationConfig(),
		phase:     PhaseIdle,
		scenarios: []models.Scenario{},
	}
}

// Restore подставляет ранее сохранённые конфигурацию и результат.
func (c *Controller) Restore(cfg models.GenerationConfig, result *models.GenerationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cfg.TargetLength = models.SnapTargetLength(cfg.TargetLength)
	c.cfg = cfg.Clone()
	c.result = result
	if result != nil {
		c.phase = PhaseSuccess
	}
}

// Config возвращает копию текущей конфигурации.
func (c *Controller) Config() models.GenerationConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.Clone()
}

// SetConfig заменяет конфигурацию. Длина приводится к шагу слайдера,
// перечисления проверяются; оффер может быть пустым до отправки.
// Отображаемый результат не сбрасывается.
func (c *Controller) SetConfig(cfg models.GenerationConfig) (models.GenerationConfig, error) {
	cfg.TargetLength = models.SnapTargetLength(cfg.TargetLength)
	if err := cfg.ValidateFields(); err != nil {
		return models.GenerationConfig{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg.Clone()
	if c.phase == PhaseSuccess || c.phase == PhaseFailed {
		c.phase = PhaseIdle
		c.message = ""
	}
	return c.cfg.Clone(), nil
}

// SetScenarios получает свежий список сценариев от менеджера.
// Выбранный сценарий при этом не сбрасывается.
func (c *Controller) SetScenarios(list []models.Scenario) {
	cp := models.CloneScenarios(list)
	if cp == nil {
		cp = []models.Scenario{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.scenarios = cp
}

// State возвращает снимок состояния.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Config:    c.cfg.Clone(),
		Phase:     c.phase,
		Busy:      c.busy,
		Message:   c.message,
		Result:    c.result,
		Scenarios: models.CloneScenarios(c.scenarios),
	}
}

// Result возвращает отображаемый результат или nil.
func (c *Controller) Result() *models.GenerationResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Busy сообщает, выполняется ли отправка.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Close отключает контроллер: результаты, пришедшие позже, отбрасываются.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Submit отправляет текущую конфигурацию на генерацию.
// Ошибки валидации возвращаются до обращения к сервису и не меняют фазу.
func (c *Controller) Submit(ctx context.Context) (*models.GenerationResult, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, models.ErrSessionClosed
	}
	cfg := c.cfg.Clone()
	if err := cfg.Validate(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if c.busy {
		c.mu.Unlock()
		return nil, models.ErrSubmissionInProgress
	}
	c.busy = true
	c.phase = PhaseSubmitting
	c.message = ""
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.busy = false
		if c.phase == PhaseSubmitting {
			// Сюда попадаем только при панике в вызове
			c.phase = PhaseFailed
			c.message = FallbackGenerationMessage
		}
		c.mu.Unlock()
	}()

	req := BuildRequest(cfg)
	log := c.logger.With(
		zap.String("endpoint", req.Endpoint()),
		zap.String("geo", string(cfg.Geo)),
		zap.String("vertical", string(cfg.Vertical)),
		zap.Bool("scenario", cfg.HasScenario()),
	)
	log.Info("Submitting generation")

	res, err := c.generate(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		log.Info("Session closed while generation was in flight, dropping outcome")
		c.phase = PhaseIdle
		return nil, models.ErrSessionClosed
	}
	if err != nil {
		c.phase = PhaseFailed
		c.message = UserMessage(err, FallbackGenerationMessage)
		log.Error("Generation failed", zap.Error(err))
		return nil, err
	}
	c.result = res
	c.phase = PhaseSuccess
	log.Info("Generation succeeded",
		zap.String("genID", res.GenerationID),
		zap.String("kind", string(res.Body.Kind())),
		zap.Bool("compliancePassed", res.Compliance.Passed),
	)
	return res, nil
}

func (c *Controller) generate(ctx context.Context, req Request) (*models.GenerationResult, error) {
	raw, err := c.gen.Generate(ctx, req.Endpoint(), req)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}
	res, err := Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize generation response: %w", err)
	}
	return res, nil
}

// SubmitFeedback отправляет метрики по отображаемой генерации.
func (c *Controller) SubmitFeedback(ctx context.Context, metrics models.FeedbackMetrics) (*models.FeedbackResponse, error) {
	c.mu.Lock()
	result := c.result
	c.mu.Unlock()
	if result == nil {
		return nil, models.ErrNoResult
	}

	resp, err := c.gen.SubmitFeedback(ctx, models.FeedbackSubmission{
		GenerationID:    result.GenerationID,
		FeedbackMetrics: metrics,
	})
	if err != nil {
		c.logger.Error("Feedback submission failed", zap.String("genID", result.GenerationID), zap.Error(err))
		return nil, fmt.Errorf("feedback request failed: %w", err)
	}
	c.logger.Info("Feedback submitted",
		zap.String("genID", result.GenerationID),
		zap.Bool("promoted", resp.PromotedToSource),
	)
	return resp, nil
}

// UserMessage - текст ошибки для пользователя: detail сервиса, подсказка
// для пустого оффера или fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, models.ErrOfferRequired) {
		return "Введите оффер"
	}
	return client.UserMessage(err, fallback)
}
