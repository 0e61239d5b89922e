package scenario

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"prelanding-studio/internal/client"
	"prelanding-studio/internal/models"
)

// Confirmer спрашивает у пользователя подтверждение необратимого действия.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc позволяет использовать функцию как Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// AlwaysConfirm - подтверждение уже получено (например, ?confirm=true или --yes).
var AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, string) bool { return true })

// DeletePrompt - текст запроса подтверждения удаления сценария.
const DeletePrompt = "Удалить этот сценарий?"

// Listener получает копию актуального списка сценариев.
type Listener func(list []models.Scenario)

// Manager - CRUD сценариев без оптимистичных обновлений: после любой мутации
// список перечитывается с сервиса и рассылается подписчикам.
type Manager struct {
	api    client.ScenarioClient
	logger *zap.Logger

	mu        sync.RWMutex
	scenarios []models.Scenario
	loaded    bool

	subMu     sync.Mutex
	listeners map[int]Listener
	nextID    int
}

// NewManager создает менеджер сценариев.
func NewManager(api client.ScenarioClient, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		api:       api,
		logger:    logger.Named("ScenarioManager"),
		scenarios: []models.Scenario{},
		listeners: make(map[int]Listener),
	}
}

// Subscribe регистрирует подписчика и возвращает функцию отписки.
// Если список уже загружен, подписчик сразу получает его копию.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	m.subMu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.subMu.Unlock()

	m.mu.RLock()
	loaded := m.loaded
	snapshot := models.CloneScenarios(m.scenarios)
	m.mu.RUnlock()
	if loaded {
		fn(snapshot)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			m.subMu.Lock()
			delete(m.listeners, id)
			m.subMu.Unlock()
		})
	}
}

// Scenarios возвращает копию последнего успешно загруженного списка.
func (m *Manager) Scenarios() []models.Scenario {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return models.CloneScenarios(m.scenarios)
}

// List загружает список с сервиса. Локальный список заменяется только при успехе.
func (m *Manager) List(ctx context.Context) ([]models.Scenario, error) {
	list, err := m.api.ListScenarios(ctx)
	if err != nil {
		m.logger.Error("Failed to load scenarios", zap.Error(err))
		return nil, fmt.Errorf("failed to load scenarios: %w", err)
	}
	list = models.CloneScenarios(list)
	models.SortScenarios(list)

	m.mu.Lock()
	m.scenarios = list
	m.loaded = true
	m.mu.Unlock()

	m.logger.Debug("Scenarios loaded", zap.Int("count", len(list)))
	m.notify(list)
	return models.CloneScenarios(list), nil
}

// Create создаёт сценарий и перечитывает список.
func (m *Manager) Create(ctx context.Context, draft models.ScenarioDraft) (*models.Scenario, error) {
	if err := draft.ValidateForCreate(); err != nil {
		return nil, err
	}
	sc, err := m.api.CreateScenario(ctx, draft)
	m.refresh(ctx)
	if err != nil {
		m.logger.Error("Failed to create scenario", zap.Error(err))
		return nil, fmt.Errorf("failed to create scenario: %w", err)
	}
	return sc, nil
}

// Update частично обновляет сценарий и перечитывает список.
func (m *Manager) Update(ctx context.Context, id int64, draft models.ScenarioDraft) (*models.Scenario, error) {
	if draft.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", models.ErrInvalidScenario)
	}
	sc, err := m.api.UpdateScenario(ctx, id, draft)
	m.refresh(ctx)
	if err != nil {
		m.logger.Error("Failed to update scenario", zap.Int64("scenarioID", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update scenario %d: %w", id, err)
	}
	return sc, nil
}

// Delete удаляет сценарий после подтверждения и перечитывает список.
// Отказ пользователя возвращает ErrCancelled без обращения к сервису.
func (m *Manager) Delete(ctx context.Context, id int64, confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm(ctx, DeletePrompt) {
		return models.ErrCancelled
	}
	err := m.api.DeleteScenario(ctx, id)
	m.refresh(ctx)
	if err != nil {
		m.logger.Error("Failed to delete scenario", zap.Int64("scenarioID", id), zap.Error(err))
		return fmt.Errorf("failed to delete scenario %d: %w", id, err)
	}
	return nil
}

// refresh перечитывает список после мутации; ошибка только логируется.
func (m *Manager) refresh(ctx context.Context) {
	if _, err := m.List(ctx); err != nil && !errors.Is(err, context.Canceled) {
		m.logger.Warn("Scenario list refresh after mutation failed", zap.Error(err))
	}
}

func (m *Manager) notify(list []models.Scenario) {
	m.subMu.Lock()
	listeners := make([]Listener, 0, len(m.listeners))
	for _, fn := range m.listeners {
		listeners = append(listeners, fn)
	}
	m.subMu.Unlock()

	for _, fn := range listeners {
		fn(models.CloneScenarios(list))
	}
}
