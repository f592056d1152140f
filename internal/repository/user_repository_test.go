package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/mutual-circle/internal/model"
	"github.com/d60-Lab/mutual-circle/internal/testutil"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &model.User{Username: "alice", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	assert.ErrorIs(t, repo.Create(ctx, &model.User{Username: "alice", PasswordHash: "other"}), ErrDuplicate)

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_Search(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob_al")
	carol := testutil.CreateUser(t, db, "carol_x")
	testutil.CreateUser(t, db, "dave")
	testutil.CreateUser(t, db, "malory")

	testutil.Mutual(t, db, alice, bob)
	testutil.Follow(t, db, alice, carol)

	rows, err := repo.Search(ctx, alice.ID, "al", 10)
	require.NoError(t, err)
	// 查看者自己不在结果中
	require.Len(t, rows, 2)
	assert.Equal(t, "bob_al", rows[0].Username)
	assert.True(t, rows[0].IsFollowing)
	assert.True(t, rows[0].IsMutual)
	assert.Equal(t, "malory", rows[1].Username)
	assert.False(t, rows[1].IsFollowing)
	assert.False(t, rows[1].IsMutual)

	rows, err = repo.Search(ctx, alice.ID, "carol", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsFollowing)
	assert.False(t, rows[0].IsMutual)

	// 下划线按字面匹配
	rows, err = repo.Search(ctx, alice.ID, "_", 10)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = repo.Search(ctx, alice.ID, "%", 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	db := testutil.NewDB(t)
	users := NewUserRepository(db)
	follows := NewFollowRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	testutil.Mutual(t, db, alice, bob)
	testutil.CreatePost(t, db, bob, "hello")

	require.NoError(t, users.Delete(ctx, bob.ID))
	assert.ErrorIs(t, users.Delete(ctx, bob.ID), ErrNotFound)

	cnt, err := follows.CountFollowings(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, cnt)
	cnt, err = follows.CountFollowers(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, cnt)

	cnt, err = posts.CountByAuthor(ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, cnt)
}
