package job

import (
	"Microblog/internal/pkg/consts"
	"Microblog/internal/pkg/logger"
	"Microblog/internal/pkg/metrics"
	"Microblog/internal/pkg/redis"
	"Microblog/internal/service"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// LastSeenJob 把 redis 中的 last_seen 脏数据批量写回 users 表
type LastSeenJob struct {
	userSvc service.UserService
}

func NewLastSeenJob(userSvc service.UserService) *LastSeenJob {
	return &LastSeenJob{userSvc: userSvc}
}

func (s *LastSeenJob) Run() {
	traceID := "job-" + uuid.NewString()
	ctx := logger.WithTraceID(context.Background(), traceID)
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	// 多实例部署时只允许一个实例执行
	ok, err := redis.TryLock(ctx, consts.LastSeenFlushLock, traceID, time.Minute, 1)
	if err != nil || !ok {
		return
	}
	defer redis.UnLock(ctx, consts.LastSeenFlushLock, traceID)

	flushed, err := s.Flush(ctx)
	if err != nil {
		log.ErrorContext(ctx, "flush last_seen error", "err", err)
		return
	}
	if flushed > 0 {
		log.InfoContext(ctx, "flush last_seen success", "count", flushed)
	}
}

// Flush 先 rename 再处理，处理期间的新写入进入新的脏 key
func (s *LastSeenJob) Flush(ctx context.Context) (int, error) {
	processingKey := consts.UserLastSeenDirty + ":processing"

	// 上次失败残留的 processing key 优先处理
	exists, err := redis.Exists(ctx, processingKey)
	if err != nil {
		return 0, err
	}
	if !exists {
		dirty, err := redis.Exists(ctx, consts.UserLastSeenDirty)
		if err != nil || !dirty {
			return 0, err
		}
		if err = redis.Rename(ctx, consts.UserLastSeenDirty, processingKey); err != nil {
			return 0, err
		}
	}

	entries, err := redis.HGetAll(ctx, processingKey)
	if err != nil {
		return 0, err
	}

	flushed := 0
	for field, value := range entries {
		userID, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			log.WarnContext(ctx, "invalid last_seen field", "field", field)
			continue
		}
		millis, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			log.WarnContext(ctx, "invalid last_seen value", "user_id", userID, "value", value)
			continue
		}
		if err = s.userSvc.UpdateLastSeen(ctx, userID, time.UnixMilli(millis).UTC()); err != nil {
			log.ErrorContext(ctx, "update last_seen error", "user_id", userID, "err", err)
			continue
		}
		flushed++
	}
	metrics.LastSeenFlushed.Add(float64(flushed))

	if err = redis.DeleteKey(ctx, processingKey); err != nil {
		return flushed, err
	}
	return flushed, nil
}
