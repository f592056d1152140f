package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/mutual-circle/internal/model"
	"github.com/d60-Lab/mutual-circle/internal/testutil"
)

func titles(posts []*model.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Title
	}
	return out
}

func TestPostRepository_GetByIDLoadsAuthor(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")

	p := &model.Post{AuthorID: alice.ID, Title: "hello", Content: "world"}
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Title)
	require.NotNil(t, got.Author)
	assert.Equal(t, "alice", got.Author.Username)

	_, err = repo.GetByID(ctx, p.ID+1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostRepository_ListByAuthorAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	first := testutil.CreatePost(t, db, alice, "p1")
	testutil.CreatePost(t, db, alice, "p2")
	testutil.CreatePost(t, db, bob, "b1")

	list, err := repo.ListByAuthor(ctx, alice.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p1"}, titles(list))

	cnt, err := repo.CountByAuthor(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, cnt)

	assert.ErrorIs(t, repo.DeleteByAuthor(ctx, first.ID, bob.ID), ErrNotFound)
	require.NoError(t, repo.DeleteByAuthor(ctx, first.ID, alice.ID))
	assert.ErrorIs(t, repo.DeleteByAuthor(ctx, first.ID, alice.ID), ErrNotFound)

	cnt, err = repo.CountByAuthor(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)
}

func TestPostRepository_ListFeed(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	viewer := testutil.CreateUser(t, db, "viewer")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")
	dave := testutil.CreateUser(t, db, "dave")

	testutil.Mutual(t, db, viewer, bob)
	testutil.Mutual(t, db, viewer, carol)
	// 单向关注的作者不进入 feed
	testutil.Follow(t, db, viewer, dave)

	testutil.CreatePost(t, db, bob, "b1")
	testutil.CreatePost(t, db, dave, "d1")
	testutil.CreatePost(t, db, carol, "c1")
	testutil.CreatePost(t, db, viewer, "own")
	testutil.CreatePost(t, db, bob, "b2")

	list, err := repo.ListFeed(ctx, viewer.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"b2", "c1", "b1"}, titles(list))
	for _, p := range list {
		require.NotNil(t, p.Author)
		assert.Equal(t, p.AuthorID, p.Author.ID)
	}

	cnt, err := repo.CountFeed(ctx, viewer.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, cnt)

	// 分页拼接与一次读取一致
	var paged []string
	for off := 0; off < 3; off++ {
		page, err := repo.ListFeed(ctx, viewer.ID, off, 1)
		require.NoError(t, err)
		paged = append(paged, titles(page)...)
	}
	assert.Equal(t, titles(list), paged)

	empty, err := repo.ListFeed(ctx, viewer.ID, 3, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)

	// 取消互关后立即从 feed 消失
	require.NoError(t, NewFollowRepository(db).Delete(ctx, bob.ID, viewer.ID))
	list, err = repo.ListFeed(ctx, viewer.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, titles(list))
}

func TestPostRepository_FeedTieBreakByID(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	viewer := testutil.CreateUser(t, db, "viewer")
	bob := testutil.CreateUser(t, db, "bob")
	testutil.Mutual(t, db, viewer, bob)

	p1 := testutil.CreatePost(t, db, bob, "first")
	p2 := testutil.CreatePost(t, db, bob, "second")
	// 两篇帖子时间戳相同
	require.NoError(t, db.Model(&model.Post{}).Where("id IN ?", []uint64{p1.ID, p2.ID}).
		Update("created_at", p1.CreatedAt).Error)

	list, err := repo.ListFeed(ctx, viewer.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first"}, titles(list))
}
