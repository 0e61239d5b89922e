package store

import (
	"context"
	"errors"
	"time"

	"prelanding-studio/internal/models"
)

// ErrSnapshotNotFound - снимок рабочего пространства отсутствует или истёк.
var ErrSnapshotNotFound = errors.New("workspace snapshot not found")

// Snapshot - сохраняемая часть рабочего пространства: форма и последний результат.
type Snapshot struct {
	WorkspaceID string                   `json:"workspace_id"`
	Config      models.GenerationConfig  `json:"config"`
	Result      *models.GenerationResult `json:"result,omitempty"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// SnapshotStore хранит снимки рабочих пространств с TTL.
type SnapshotStore interface {
	Load(ctx context.Context, workspaceID string) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot, ttl time.Duration) error
	Delete(ctx context.Context, workspaceID string) error
}

// Sweeper реализуют хранилища, которые сами не удаляют истёкшие снимки.
// Redis удаляет ключи по TTL, поэтому ему это не нужно.
type Sweeper interface {
	Sweep() int
}
