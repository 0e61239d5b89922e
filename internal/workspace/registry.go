package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"prelanding-studio/internal/catalog"
	"prelanding-studio/internal/client"
	"prelanding-studio/internal/generators"
	"prelanding-studio/internal/scenario"
	"prelanding-studio/internal/session"
	"prelanding-studio/internal/store"
)

// Workspace - состояние интерфейса одного браузера.
type Workspace struct {
	ID      string
	Session *session.Controller
	Library *catalog.Library
	Names   *generators.NamePanel
	Reviews *generators.ReviewPanel

	unsubscribe func()
	mu          sync.Mutex
	lastSeen    time.Time
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// Registry создаёт, хранит и выселяет рабочие пространства.
type Registry struct {
	api       client.StudioClient
	scenarios *scenario.Manager
	snapshots store.SnapshotStore
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time

	mu    sync.Mutex
	items map[string]*Workspace
}

// NewRegistry создает реестр рабочих пространств.
func NewRegistry(api client.StudioClient, scenarios *scenario.Manager, snapshots store.SnapshotStore, ttl time.Duration, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		api:       api,
		scenarios: scenarios,
		snapshots: snapshots,
		ttl:       ttl,
		logger:    logger.Named("WorkspaceRegistry"),
		now:       time.Now,
		items:     make(map[string]*Workspace),
	}
}

// Get возвращает рабочее пространство или создаёт его, восстанавливая снимок.
func (r *Registry) Get(ctx context.Context, id string) (*Workspace, error) {
	if id == "" {
		return nil, fmt.Errorf("workspace id is required")
	}

	r.mu.Lock()
	if ws, ok := r.items[id]; ok {
		r.mu.Unlock()
		ws.touch(r.now())
		return ws, nil
	}
	r.mu.Unlock()

	ws := r.build(id)
	snap, err := r.snapshots.Load(ctx, id)
	switch {
	case err == nil:
		ws.Session.Restore(snap.Config, snap.Result)
		r.logger.Debug("Workspace restored from snapshot", zap.String("workspaceID", id))
	case errors.Is(err, store.ErrSnapshotNotFound):
	default:
		// Без снимка пространство всё равно работоспособно
		r.logger.Warn("Failed to load workspace snapshot", zap.String("workspaceID", id), zap.Error(err))
	}

	r.mu.Lock()
	if existing, ok := r.items[id]; ok {
		r.mu.Unlock()
		ws.Session.Close()
		existing.touch(r.now())
		return existing, nil
	}
	ws.unsubscribe = r.scenarios.Subscribe(ws.Session.SetScenarios)
	ws.touch(r.now())
	r.items[id] = ws
	r.mu.Unlock()

	r.logger.Info("Workspace created", zap.String("workspaceID", id))
	return ws, nil
}

func (r *Registry) build(id string) *Workspace {
	log := r.logger.With(zap.String("workspaceID", id))
	return &Workspace{
		ID:      id,
		Session: session.NewController(r.api, log),
		Library: catalog.NewLibrary(r.api, log),
		Names:   generators.NewNamePanel(r.api, log),
		Reviews: generators.NewReviewPanel(r.api, log),
	}
}

// Save сохраняет форму и последний результат пространства.
func (r *Registry) Save(ctx context.Context, ws *Workspace) error {
	st := ws.Session.State()
	snap := &store.Snapshot{
		WorkspaceID: ws.ID,
		Config:      st.Config,
		Result:      st.Result,
		UpdatedAt:   r.now().UTC(),
	}
	if err := r.snapshots.Save(ctx, snap, r.ttl); err != nil {
		return fmt.Errorf("failed to save workspace %s: %w", ws.ID, err)
	}
	return nil
}

// Evict закрывает пространство: поздние результаты генерации будут отброшены.
func (r *Registry) Evict(id string) bool {
	r.mu.Lock()
	ws, ok := r.items[id]
	if ok {
		delete(r.items, id)
	}
	r.mu.Unlock()
	if !ok {
		return false
	}
	r.teardown(ws)
	r.logger.Info("Workspace evicted", zap.String("workspaceID", id))
	return true
}

func (r *Registry) teardown(ws *Workspace) {
	if ws.unsubscribe != nil {
		ws.unsubscribe()
	}
	ws.Session.Close()
}

// EvictIdle выселяет пространства, не использовавшиеся дольше TTL.
func (r *Registry) EvictIdle() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var stale []*Workspace
	for id, ws := range r.items {
		if ws.idleSince().Before(cutoff) {
			stale = append(stale, ws)
			delete(r.items, id)
		}
	}
	r.mu.Unlock()

	for _, ws := range stale {
		r.teardown(ws)
	}
	if len(stale) > 0 {
		r.logger.Info("Idle workspaces evicted", zap.Int("count", len(stale)))
	}
	// Снимки закрытых пространств живут до TTL, чтобы браузер мог вернуться
	if sw, ok := r.snapshots.(store.Sweeper); ok {
		if n := sw.Sweep(); n > 0 {
			r.logger.Info("Expired snapshots removed", zap.Int("count", n))
		}
	}
	return len(stale)
}

// RunJanitor периодически выселяет простаивающие пространства до отмены ctx.
func (r *Registry) RunJanitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.EvictIdle()
		}
	}
}

// Close выселяет все пространства.
func (r *Registry) Close() {
	r.mu.Lock()
	all := make([]*Workspace, 0, len(r.items))
	for id, ws := range r.items {
		all = append(all, ws)
		delete(r.items, id)
	}
	r.mu.Unlock()
	for _, ws := range all {
		r.teardown(ws)
	}
}

// Len - количество активных пространств.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
