package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/mutual-circle/internal/model"
	"github.com/d60-Lab/mutual-circle/internal/testutil"
)

func usernames(users []*model.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Username
	}
	return out
}

func TestFollowRepository_CreateDuplicate(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	require.NoError(t, repo.Create(ctx, alice.ID, bob.ID))
	assert.ErrorIs(t, repo.Create(ctx, alice.ID, bob.ID), ErrDuplicate)

	ok, err := repo.Exists(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	cnt, err := repo.CountFollowings(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)
}

func TestFollowRepository_Constraints(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")

	// 自关注被 CHECK 约束拒绝
	assert.Error(t, repo.Create(ctx, alice.ID, alice.ID))
	// 目标用户不存在时被外键拒绝
	assert.Error(t, repo.Create(ctx, alice.ID, alice.ID+100))

	cnt, err := repo.CountFollowings(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, cnt)
}

func TestFollowRepository_Delete(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	assert.ErrorIs(t, repo.Delete(ctx, alice.ID, bob.ID), ErrNotFound)

	testutil.Follow(t, db, alice, bob)
	require.NoError(t, repo.Delete(ctx, alice.ID, bob.ID))
	assert.ErrorIs(t, repo.Delete(ctx, alice.ID, bob.ID), ErrNotFound)

	// 删除后可以再次关注
	require.NoError(t, repo.Create(ctx, alice.ID, bob.ID))
}

func TestFollowRepository_IsMutual(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	check := func(a, b uint64) bool {
		ok, err := repo.IsMutual(ctx, a, b)
		require.NoError(t, err)
		return ok
	}

	assert.False(t, check(alice.ID, bob.ID))

	testutil.Follow(t, db, alice, bob)
	assert.False(t, check(alice.ID, bob.ID))
	assert.False(t, check(bob.ID, alice.ID))

	testutil.Follow(t, db, bob, alice)
	assert.True(t, check(alice.ID, bob.ID))
	assert.True(t, check(bob.ID, alice.ID))

	assert.False(t, check(alice.ID, alice.ID))

	require.NoError(t, repo.Delete(ctx, bob.ID, alice.ID))
	assert.False(t, check(alice.ID, bob.ID))
	assert.False(t, check(bob.ID, alice.ID))
}

func TestFollowRepository_ListMutuals(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")
	dave := testutil.CreateUser(t, db, "dave")
	erin := testutil.CreateUser(t, db, "erin")

	testutil.Follow(t, db, alice, bob)
	testutil.Follow(t, db, alice, carol)
	testutil.Follow(t, db, alice, dave)
	testutil.Follow(t, db, bob, alice)
	testutil.Follow(t, db, carol, alice)
	// erin 单向关注 alice
	testutil.Follow(t, db, erin, alice)

	list, err := repo.ListMutuals(ctx, alice.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"carol", "bob"}, usernames(list))

	// 与逐个 IsMutual 判定一致
	for _, u := range []*model.User{bob, carol, dave, erin} {
		ok, err := repo.IsMutual(ctx, alice.ID, u.ID)
		require.NoError(t, err)
		assert.Equal(t, ok, u == bob || u == carol, u.Username)
	}

	list, err = repo.ListMutuals(ctx, alice.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"carol"}, usernames(list))

	list, err = repo.ListMutuals(ctx, dave.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFollowRepository_ListFollowingsAndFollowers(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")
	dave := testutil.CreateUser(t, db, "dave")

	testutil.Follow(t, db, alice, bob)
	testutil.Follow(t, db, alice, carol)
	testutil.Follow(t, db, alice, dave)
	testutil.Follow(t, db, bob, dave)

	list, err := repo.ListFollowings(ctx, alice.ID, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"dave", "carol"}, usernames(list))

	list, err = repo.ListFollowings(ctx, alice.ID, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, usernames(list))

	list, err = repo.ListFollowers(ctx, dave.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "alice"}, usernames(list))

	followers, err := repo.CountFollowers(ctx, dave.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, followers)

	followings, err := repo.CountFollowings(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, followings)
}
