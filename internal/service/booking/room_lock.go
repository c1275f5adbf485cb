package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/EduRoDev/quantum-saas/internal/common/cache"
	"github.com/EduRoDev/quantum-saas/internal/common/errors"
	"github.com/EduRoDev/quantum-saas/internal/common/logger"
)

// RoomLock 基于 Redis SetNX 的房间级分布式锁。
// 数据库行锁已保证单实例正确性，此锁用于多实例部署时减少事务冲突重试。
// client 为 nil 时降级为空操作。
type RoomLock struct {
	client      *redis.Client
	ttl         time.Duration
	waitTimeout time.Duration
}

// NewRoomLock 创建房间锁
func NewRoomLock(client *redis.Client, ttl, waitTimeout time.Duration) *RoomLock {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if waitTimeout <= 0 {
		waitTimeout = 3 * time.Second
	}
	return &RoomLock{
		client:      client,
		ttl:         ttl,
		waitTimeout: waitTimeout,
	}
}

func (l *RoomLock) key(roomID int64) string {
	return fmt.Sprintf("%s%d", cache.KeyPrefixRoomLock, roomID)
}

// Acquire 获取房间锁，返回持有令牌。
// 等待超时后返回 ErrTxConflict，由调用方提示稍后重试。
func (l *RoomLock) Acquire(ctx context.Context, roomID int64) (string, error) {
	if l.client == nil {
		return "", nil
	}

	token := uuid.NewString()
	deadline := time.Now().Add(l.waitTimeout)
	for {
		ok, err := l.client.SetNX(ctx, l.key(roomID), token, l.ttl).Result()
		if err != nil {
			// Redis 故障时放行，由数据库行锁兜底
			logger.Warn("房间锁获取失败，降级为数据库行锁", logger.RoomID(roomID), logger.Err(err))
			return "", nil
		}
		if ok {
			return token, nil
		}
		if time.Now().After(deadline) {
			return "", errors.ErrTxConflict
		}

		select {
		case <-ctx.Done():
			return "", errors.ErrTxConflict.WithError(ctx.Err())
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// releaseScript 仅持有者可释放
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Release 释放房间锁，令牌不匹配时不做任何操作
func (l *RoomLock) Release(ctx context.Context, roomID int64, token string) {
	if l.client == nil || token == "" {
		return
	}
	if err := releaseScript.Run(ctx, l.client, []string{l.key(roomID)}, token).Err(); err != nil {
		logger.Warn("房间锁释放失败", logger.RoomID(roomID), logger.Err(err))
	}
}
