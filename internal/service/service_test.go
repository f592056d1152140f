package service

import (
	"testing"

	"gorm.io/gorm"

	"github.com/d60-Lab/mutual-circle/internal/repository"
	"github.com/d60-Lab/mutual-circle/internal/testutil"
)

type testEnv struct {
	db       *gorm.DB
	users    repository.UserRepository
	follows  repository.FollowRepository
	postRepo repository.PostRepository
	gate     AccessGate
	rel      RelationshipService
	posts    PostService
	feed     FeedService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)
	follows := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)
	gate := NewAccessGate(follows)
	return &testEnv{
		db:       db,
		users:    users,
		follows:  follows,
		postRepo: postRepo,
		gate:     gate,
		rel:      NewRelationshipService(users, follows, gate),
		posts:    NewPostService(users, postRepo, gate),
		feed:     NewFeedService(postRepo),
	}
}
