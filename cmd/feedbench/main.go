package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/mutual-circle/config"
	"github.com/d60-Lab/mutual-circle/internal/model"
	"github.com/d60-Lab/mutual-circle/internal/repository"
	"github.com/d60-Lab/mutual-circle/internal/service"
	"github.com/d60-Lab/mutual-circle/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

// feedbench 以 u0 为中心造数据：u0 关注全部 N 个用户，其中每 MUTUAL_EVERY 个回关形成互关，
// 每个用户发 POSTS 篇帖子，然后测量互关判定、Feed 读取和互关列表的延迟
func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	defer database.Close(db)

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)
	relSvc := service.NewRelationshipService(userRepo, followRepo, service.NewAccessGate(followRepo))
	feedSvc := service.NewFeedService(postRepo)

	ctx := context.Background()

	N := envInt("N", 2000)
	MUTUAL := envInt("MUTUAL_EVERY", 4)
	POSTS := envInt("POSTS", 5)
	PAGE := envInt("PAGE", 20)
	ROUNDS := envInt("ROUNDS", 200)

	run := uuid.New().String()[:8]
	center := &model.User{Username: "u0_" + run, PasswordHash: "x"}
	if err := userRepo.Create(ctx, center); err != nil {
		panic(err)
	}

	users := make([]model.User, N)
	for i := range users {
		users[i] = model.User{Username: fmt.Sprintf("u%d_%s", i+1, run), PasswordHash: "x"}
	}
	must(0, db.CreateInBatches(&users, 500).Error)

	t0 := time.Now()
	follows := make([]model.Follow, 0, N+N/MUTUAL)
	for i, u := range users {
		follows = append(follows, model.Follow{FollowerID: center.ID, FollowingID: u.ID})
		if i%MUTUAL == 0 {
			follows = append(follows, model.Follow{FollowerID: u.ID, FollowingID: center.ID})
		}
	}
	must(0, db.CreateInBatches(&follows, 500).Error)

	posts := make([]model.Post, 0, N*POSTS)
	for _, u := range users {
		for j := 0; j < POSTS; j++ {
			posts = append(posts, model.Post{AuthorID: u.ID, Title: fmt.Sprintf("post %d", j), Content: "bench"})
		}
	}
	must(0, db.CreateInBatches(&posts, 500).Error)
	seedDur := time.Since(t0)

	mutualRecs := make([]time.Duration, 0, ROUNDS)
	for i := 0; i < ROUNDS; i++ {
		other := users[i%N].ID
		st := time.Now()
		_ = must(relSvc.IsMutual(ctx, center.ID, other))
		mutualRecs = append(mutualRecs, time.Since(st))
	}

	feedRecs := make([]time.Duration, 0, ROUNDS)
	var total int64
	for i := 0; i < ROUNDS; i++ {
		st := time.Now()
		page := must(feedSvc.GetFeed(ctx, center.ID, PAGE, (i%10)*PAGE))
		feedRecs = append(feedRecs, time.Since(st))
		total = page.Total
	}

	q0 := time.Now()
	mutuals := must(relSvc.ListMutuals(ctx, center.ID, 200))
	listDur := time.Since(q0)

	fmt.Printf("N=%d, MUTUAL_EVERY=%d, POSTS=%d, PAGE=%d, ROUNDS=%d\n", N, MUTUAL, POSTS, PAGE, ROUNDS)
	fmt.Printf("Seed: users=%d follows=%d posts=%d in %v\n", N+1, len(follows), len(posts), seedDur)
	fmt.Printf("IsMutual latency p50: %v, p95: %v, p99: %v\n",
		pct(mutualRecs, 0.50), pct(mutualRecs, 0.95), pct(mutualRecs, 0.99))
	fmt.Printf("Feed(%d) latency p50: %v, p95: %v, p99: %v, visible posts: %d\n",
		PAGE, pct(feedRecs, 0.50), pct(feedRecs, 0.95), pct(feedRecs, 0.99), total)
	fmt.Printf("ListMutuals(200) latency: %v, returned: %d\n", listDur, len(mutuals))
}
