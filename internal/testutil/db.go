// Package testutil provides an in-memory database and seed helpers for tests.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/mutual-circle/config"
	"github.com/d60-Lab/mutual-circle/internal/model"
	"github.com/d60-Lab/mutual-circle/pkg/database"
)

// NewDB 打开一个迁移好的内存 sqlite，测试结束时关闭
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"})
	require.NoError(tb, err)
	require.NoError(tb, database.Migrate(db))
	tb.Cleanup(func() { _ = database.Close(db) })
	return db
}

// CreateUser 直接写入用户，密码哈希为占位值
func CreateUser(tb testing.TB, db *gorm.DB, username string) *model.User {
	tb.Helper()
	u := &model.User{Username: username, PasswordHash: "x"}
	require.NoError(tb, db.WithContext(context.Background()).Create(u).Error)
	return u
}

// Follow 写入一条 follower -> following 的关注边
func Follow(tb testing.TB, db *gorm.DB, follower, following *model.User) {
	tb.Helper()
	require.NoError(tb, db.Create(&model.Follow{FollowerID: follower.ID, FollowingID: following.ID}).Error)
}

// Mutual 让 a、b 互相关注
func Mutual(tb testing.TB, db *gorm.DB, a, b *model.User) {
	tb.Helper()
	Follow(tb, db, a, b)
	Follow(tb, db, b, a)
}

// CreatePost 以 author 身份发帖
func CreatePost(tb testing.TB, db *gorm.DB, author *model.User, title string) *model.Post {
	tb.Helper()
	p := &model.Post{AuthorID: author.ID, Title: title, Content: title + " content"}
	require.NoError(tb, db.Create(p).Error)
	return p
}
