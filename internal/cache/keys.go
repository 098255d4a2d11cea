package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ThreadKeyPrefix     = "thread:%s"
	ThreadListKeyPrefix = "threads:%s:%d"
	BulletinKeyPrefix   = "bulletin:%s"
)

const (
	ThreadTTL     = 5 * time.Minute
	ThreadListTTL = 30 * time.Second
	BulletinTTL   = 10 * time.Minute
)

func ThreadKey(threadID string) string {
	return fmt.Sprintf(ThreadKeyPrefix, threadID)
}

// ThreadListKey keys a page of the thread index by sort order and page number.
func ThreadListKey(sort string, page int) string {
	return fmt.Sprintf(ThreadListKeyPrefix, sort, page)
}

func BulletinKey(key string) string {
	return fmt.Sprintf(BulletinKeyPrefix, key)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateThread(ctx context.Context, threadID string) {
	Invalidate(ctx, ThreadKey(threadID))

	InvalidateThreadLists(ctx)
}

// InvalidateThreadLists clears all cached thread index pages.
func InvalidateThreadLists(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "threads:*", 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}

func InvalidateBulletin(ctx context.Context, key string) {
	Invalidate(ctx, BulletinKey(key))
}
