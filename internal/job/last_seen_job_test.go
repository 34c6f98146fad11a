package job

import (
	"Microblog/internal/model"
	"Microblog/internal/pkg/consts"
	"Microblog/internal/pkg/testutil"
	"Microblog/internal/service"
	"context"
	"strconv"
	"testing"
	"time"
)

func TestLastSeenJobFlush(t *testing.T) {
	mr := testutil.NewTestRedis(t)
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	user := &model.User{Username: "john", Email: "john@example.com", LastSeen: old}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	seen := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mr.HSet(consts.UserLastSeenDirty, strconv.FormatUint(user.ID, 10), strconv.FormatInt(seen.UnixMilli(), 10))
	mr.HSet(consts.UserLastSeenDirty, "not-a-number", "1")

	j := NewLastSeenJob(service.NewUserService(db))
	flushed, err := j.Flush(ctx)
	if err != nil {
		t.Fatalf("flush: %v", err)
	}
	if flushed != 1 {
		t.Fatalf("expected 1 flushed, got %d", flushed)
	}

	var reloaded model.User
	if err = db.First(&reloaded, user.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.LastSeen.Equal(seen) {
		t.Fatalf("expected last_seen %v, got %v", seen, reloaded.LastSeen)
	}
	if mr.Exists(consts.UserLastSeenDirty) || mr.Exists(consts.UserLastSeenDirty+":processing") {
		t.Fatalf("expected dirty keys cleared")
	}

	// 没有脏数据时什么都不做
	if flushed, err = j.Flush(ctx); err != nil || flushed != 0 {
		t.Fatalf("expected empty flush, got %d %v", flushed, err)
	}

	// 旧时间不会覆盖新时间
	mr.HSet(consts.UserLastSeenDirty, strconv.FormatUint(user.ID, 10), strconv.FormatInt(old.UnixMilli(), 10))
	if _, err = j.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	db.First(&reloaded, user.ID)
	if !reloaded.LastSeen.Equal(seen) {
		t.Fatalf("last_seen moved backwards to %v", reloaded.LastSeen)
	}
}

func TestLastSeenJobRunHoldsLock(t *testing.T) {
	mr := testutil.NewTestRedis(t)
	db := testutil.NewTestDB(t)

	mr.Set(consts.LastSeenFlushLock, "other")
	mr.HSet(consts.UserLastSeenDirty, "1", "1")

	NewLastSeenJob(service.NewUserService(db)).Run()

	if !mr.Exists(consts.UserLastSeenDirty) {
		t.Fatalf("expected job to skip while another instance holds the lock")
	}
}
