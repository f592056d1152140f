//go:build integration
// +build integration

package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/d60-Lab/mutual-circle/config"
	"github.com/d60-Lab/mutual-circle/internal/model"
	"github.com/d60-Lab/mutual-circle/pkg/database"
)

// setupPostgres 启动 PostgreSQL 容器并完成迁移
func setupPostgres(t *testing.T) *gorm.DB {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("circle"),
		postgres.WithUsername("circle"),
		postgres.WithPassword("circle"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open(config.DatabaseConfig{Driver: "postgres", DSN: dsn, MaxOpenConns: 16, LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestPostgres_FollowAndFeed(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	follows := NewFollowRepository(db)
	posts := NewPostRepository(db)

	alice := &model.User{Username: "alice", PasswordHash: "x"}
	bob := &model.User{Username: "bob", PasswordHash: "x"}
	require.NoError(t, users.Create(ctx, alice))
	require.NoError(t, users.Create(ctx, bob))
	assert.ErrorIs(t, users.Create(ctx, &model.User{Username: "alice", PasswordHash: "x"}), ErrDuplicate)

	// 并发重复关注只有一条成功
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		dups    int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := follows.Create(ctx, alice.ID, bob.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, ErrDuplicate):
				dups++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, created)
	assert.Equal(t, 7, dups)

	assert.Error(t, follows.Create(ctx, alice.ID, alice.ID), "self follow must hit the check constraint")

	require.NoError(t, posts.Create(ctx, &model.Post{AuthorID: alice.ID, Title: "hello", Content: "c"}))
	require.NoError(t, posts.Create(ctx, &model.Post{AuthorID: alice.ID, Title: "world", Content: "c"}))

	feed, err := posts.ListFeed(ctx, bob.ID, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, feed)

	require.NoError(t, follows.Create(ctx, bob.ID, alice.ID))
	ok, err := follows.IsMutual(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	feed, err = posts.ListFeed(ctx, bob.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"world", "hello"}, titles(feed))

	rows, err := users.Search(ctx, bob.ID, "ali", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsMutual)

	require.NoError(t, users.Delete(ctx, alice.ID))
	cnt, err := follows.CountFollowers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, cnt)
	cnt, err = posts.CountFeed(ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, cnt)
}
