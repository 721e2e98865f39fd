package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyWebhookDedup = "dedup:webhook:%s:%s:%s"
	TTLWebhookDedup = 48 * time.Hour
)

func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// Deduper remembers gateway notifications that were processed. A nil Deduper
// or one without a client never reports a duplicate.
type Deduper struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDeduper(rdb *redis.Client) *Deduper {
	return &Deduper{rdb: rdb, ttl: TTLWebhookDedup}
}

func webhookKey(orderID, status, statusCode string) string {
	return fmt.Sprintf(keyWebhookDedup, orderID, status, statusCode)
}

func (d *Deduper) Seen(ctx context.Context, orderID, status, statusCode string) (bool, error) {
	if d == nil || d.rdb == nil {
		return false, nil
	}
	n, err := d.rdb.Exists(ctx, webhookKey(orderID, status, statusCode)).Result()
	return n > 0, err
}

func (d *Deduper) Mark(ctx context.Context, orderID, status, statusCode string) error {
	if d == nil || d.rdb == nil {
		return nil
	}
	return d.rdb.Set(ctx, webhookKey(orderID, status, statusCode), time.Now().UTC().Format(time.RFC3339), d.ttl).Err()
}
