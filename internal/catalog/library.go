package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"prelanding-studio/internal/client"
	"prelanding-studio/internal/models"
)

// PageSize - количество карточек на странице библиотеки.
const PageSize = 9

// Confirmer спрашивает подтверждение удаления.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// UploadMessage - итог последней загрузки для показа пользователю.
type UploadMessage struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
}

// View - всё, что нужно для отрисовки библиотеки.
type View struct {
	Entries       []models.CatalogEntry `json:"entries"`
	Page          int                   `json:"page"`
	TotalPages    int                   `json:"total_pages"`
	FilteredCount int                   `json:"filtered_count"`
	TotalCount    int                   `json:"total_count"`
	Query         Query                 `json:"query"`
	Vertical      string                `json:"vertical"`
	Facets        Facets                `json:"facets"`
	Loading       bool                  `json:"loading"`
	Uploading     bool                  `json:"uploading"`
	Deleting      []string              `json:"deleting"`
	UploadMessage *UploadMessage        `json:"upload_message,omitempty"`
	LoadError     string                `json:"load_error,omitempty"`
}

// Library - состояние страницы библиотеки одного пользователя.
// Записи загружаются по серверной вертикали, остальные фильтры применяются локально.
type Library struct {
	api    client.CatalogClient
	logger *zap.Logger

	mu        sync.Mutex
	entries   []models.CatalogEntry
	facets    Facets
	query     Query
	vertical  string
	page      int
	loads     int // незавершённые Refresh
	uploading bool
	deleting  map[string]struct{}
	uploadMsg *UploadMessage
	loadErr   string
	loaded    bool
}

// NewLibrary создает пустую библиотеку; данные появятся после Refresh.
func NewLibrary(api client.CatalogClient, logger *zap.Logger) *Library {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Library{
		api:      api,
		logger:   logger.Named("Library"),
		entries:  []models.CatalogEntry{},
		facets:   Aggregate(nil),
		page:     1,
		deleting: make(map[string]struct{}),
	}
}

// Refresh перечитывает записи текущей вертикали. Распределения пересчитываются
// только при успешной загрузке.
func (l *Library) Refresh(ctx context.Context) error {
	l.mu.Lock()
	vertical := l.vertical
	l.loads++
	l.mu.Unlock()

	entries, err := l.api.ListPrelandings(ctx, vertical)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loads--
	if l.vertical != vertical {
		// Пока шёл запрос, вертикаль сменили; устаревший ответ не применяем, даже ошибку
		l.logger.Debug("Stale prelandings response dropped", zap.String("vertical", vertical), zap.Error(err))
		return nil
	}
	if err != nil {
		l.loadErr = "Ошибка загрузки prelandings"
		l.logger.Error("Failed to load prelandings", zap.String("vertical", vertical), zap.Error(err))
		return fmt.Errorf("failed to load prelandings: %w", err)
	}
	l.entries = entries
	l.facets = Aggregate(entries)
	l.loadErr = ""
	l.loaded = true
	l.logger.Debug("Prelandings loaded", zap.String("vertical", vertical), zap.Int("count", len(entries)))
	return nil
}

// EnsureLoaded выполняет первую загрузку, если её ещё не было.
func (l *Library) EnsureLoaded(ctx context.Context) error {
	l.mu.Lock()
	loaded := l.loaded
	l.mu.Unlock()
	if loaded {
		return nil
	}
	return l.Refresh(ctx)
}

// SetSearch меняет строку поиска и возвращает на первую страницу.
func (l *Library) SetSearch(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query.Search = s
	l.page = 1
}

// SetGeo меняет фильтр по гео и возвращает на первую страницу.
func (l *Library) SetGeo(geo string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query.Geo = geo
	l.page = 1
}

// SetLanguage меняет фильтр по языку и возвращает на первую страницу.
func (l *Library) SetLanguage(lang string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query.Language = lang
	l.page = 1
}

// SetQuery применяет все локальные фильтры разом. Страница сбрасывается,
// только если фильтры действительно изменились.
func (l *Library) SetQuery(q Query) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.query != q {
		l.query = q
		l.page = 1
	}
}

// SetVertical меняет серверный фильтр и перечитывает записи.
func (l *Library) SetVertical(ctx context.Context, vertical string) error {
	l.mu.Lock()
	changed := l.vertical != vertical
	l.vertical = vertical
	l.page = 1
	l.mu.Unlock()
	if !changed {
		return nil
	}
	return l.Refresh(ctx)
}

// SetPage переключает страницу.
func (l *Library) SetPage(page int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if page < 1 {
		page = 1
	}
	l.page = page
}

// View строит представление текущей страницы.
func (l *Library) View() View {
	l.mu.Lock()
	defer l.mu.Unlock()

	filtered := Filter(l.entries, l.query)
	deleting := make([]string, 0, len(l.deleting))
	for id := range l.deleting {
		deleting = append(deleting, id)
	}
	sort.Strings(deleting)

	v := View{
		Entries:       Paginate(filtered, PageSize, l.page),
		Page:          l.page,
		TotalPages:    TotalPages(len(filtered), PageSize),
		FilteredCount: len(filtered),
		TotalCount:    len(l.entries),
		Query:         l.query,
		Vertical:      l.vertical,
		Facets:        l.facets,
		Loading:       l.loads > 0,
		Uploading:     l.uploading,
		Deleting:      deleting,
		LoadError:     l.loadErr,
	}
	if l.uploadMsg != nil {
		msg := *l.uploadMsg
		v.UploadMessage = &msg
	}
	return v
}

// Delete удаляет запись после подтверждения. Пока идёт запрос, id находится
// в множестве удаляемых, чтобы заблокировать только эту строку.
func (l *Library) Delete(ctx context.Context, id, name string, confirm Confirmer) error {
	label := name
	if label == "" {
		label = id
	}
	if confirm == nil || !confirm.Confirm(ctx, fmt.Sprintf("Удалить %q?", label)) {
		return models.ErrCancelled
	}

	l.mu.Lock()
	if _, ok := l.deleting[id]; ok {
		l.mu.Unlock()
		return models.ErrOperationInProgress
	}
	l.deleting[id] = struct{}{}
	l.mu.Unlock()

	err := func() error {
		defer func() {
			l.mu.Lock()
			delete(l.deleting, id)
			l.mu.Unlock()
		}()
		return l.api.DeletePrelanding(ctx, id)
	}()
	if err != nil {
		l.logger.Error("Failed to delete prelanding", zap.String("prelandingID", id), zap.Error(err))
		return fmt.Errorf("failed to delete prelanding %s: %w", id, err)
	}

	l.logger.Info("Prelanding deleted", zap.String("prelandingID", id))
	return l.Refresh(ctx)
}

// TopPerformers - лучшие записи по метрике, без изменения состояния библиотеки.
func (l *Library) TopPerformers(ctx context.Context, q models.TopQuery) ([]models.CatalogEntry, error) {
	if q.Metric == "" {
		q.Metric = "lead_rate"
	}
	list, err := l.api.TopPrelandings(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to load top prelandings: %w", err)
	}
	return list, nil
}
