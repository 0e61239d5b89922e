//go:build integration

package store_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"prelanding-studio/internal/models"
	"prelanding-studio/internal/store"
)

// RedisStoreSuite поднимает Redis в контейнере и проверяет хранилище снимков.
type RedisStoreSuite struct {
	suite.Suite
	ctx         context.Context
	container   *tcredis.RedisContainer
	redisClient *redis.Client
	store       store.SnapshotStore
	logger      *zap.Logger
}

func (s *RedisStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = zap.NewNop()

	var err error
	s.container, err = tcredis.Run(s.ctx,
		"docker.io/redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("* Ready to accept connections").
				WithOccurrence(1).
				WithStartupTimeout(1*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to start redis container")

	host, err := s.container.Host(s.ctx)
	require.NoError(s.T(), err)
	port, err := s.container.MappedPort(s.ctx, "6379/tcp")
	require.NoError(s.T(), err)

	s.redisClient = redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	require.NoError(s.T(), s.redisClient.Ping(s.ctx).Err(), "Failed to connect to test redis")

	s.store = store.NewRedisStore(s.redisClient, s.logger)
}

func (s *RedisStoreSuite) TearDownSuite() {
	if s.redisClient != nil {
		_ = s.redisClient.Close()
	}
	if s.container != nil {
		if err := s.container.Terminate(s.ctx); err != nil {
			s.T().Logf("failed to terminate redis container: %v", err)
		}
	}
}

func (s *RedisStoreSuite) SetupTest() {
	require.NoError(s.T(), s.redisClient.FlushAll(s.ctx).Err())
}

func (s *RedisStoreSuite) TestSaveLoadKeepsVariant() {
	id := int64(3)
	cfg := models.DefaultGenerationConfig()
	cfg.Offer = "Bitcoin Pro"
	cfg.ScenarioID = &id

	snap := &store.Snapshot{
		WorkspaceID: "ws-1",
		Config:      cfg,
		Result: &models.GenerationResult{
			GenerationID: "g1",
			Body:         models.ScenarioResult{Beginning: "A", Middle: "B", End: "C"},
			Compliance:   models.ComplianceStatus{Passed: true, Warnings: []string{}, Issues: []string{}},
			CreatedAt:    time.Now().UTC().Truncate(time.Second),
		},
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(s.T(), s.store.Save(s.ctx, snap, time.Hour))

	ttl, err := s.redisClient.TTL(s.ctx, "studio:workspace:ws-1").Result()
	require.NoError(s.T(), err)
	s.Greater(ttl, time.Duration(0))

	got, err := s.store.Load(s.ctx, "ws-1")
	require.NoError(s.T(), err)
	s.Equal(int64(3), *got.Config.ScenarioID)
	body, ok := got.Result.Body.(models.ScenarioResult)
	s.Require().True(ok)
	s.Equal("A\n\nB\n\nC", body.DisplayText())
}

func (s *RedisStoreSuite) TestMissingSnapshot() {
	_, err := s.store.Load(s.ctx, "absent")
	s.True(errors.Is(err, store.ErrSnapshotNotFound))
}

func (s *RedisStoreSuite) TestDelete() {
	require.NoError(s.T(), s.store.Save(s.ctx, &store.Snapshot{WorkspaceID: "ws-2"}, time.Minute))
	require.NoError(s.T(), s.store.Delete(s.ctx, "ws-2"))
	_, err := s.store.Load(s.ctx, "ws-2")
	s.True(errors.Is(err, store.ErrSnapshotNotFound))
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}
