package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const defaultTTL = 10 * time.Second

// Availability caches remaining-ticket counts in Redis. Every operation is
// best-effort: a Redis failure degrades to a cache miss, never to a request
// failure.
type Availability struct {
	rdb *redis.Client
	ttl time.Duration
	log *logrus.Logger
}

type AvailabilityOption func(*Availability)

// WithTTL overrides the default entry lifetime.
func WithTTL(d time.Duration) AvailabilityOption {
	return func(c *Availability) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithLogger overrides the default logger.
func WithLogger(log *logrus.Logger) AvailabilityOption {
	return func(c *Availability) {
		if log != nil {
			c.log = log
		}
	}
}

func NewAvailability(rdb *redis.Client, opts ...AvailabilityOption) *Availability {
	c := &Availability{
		rdb: rdb,
		ttl: defaultTTL,
		log: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func key(eventID string) string {
	return "tickets:remaining:" + eventID
}

func (c *Availability) GetRemaining(ctx context.Context, eventID string) (int, bool) {
	val, err := c.rdb.Get(ctx, key(eventID)).Result()
	if err == redis.Nil {
		return 0, false
	}
	if err != nil {
		c.log.WithError(err).WithField("event_id", eventID).Warn("availability cache get")
		return 0, false
	}
	remaining, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return remaining, true
}

func (c *Availability) SetRemaining(ctx context.Context, eventID string, remaining int) {
	if err := c.rdb.Set(ctx, key(eventID), strconv.Itoa(remaining), c.ttl).Err(); err != nil {
		c.log.WithError(err).WithField("event_id", eventID).Warn("availability cache set")
	}
}

func (c *Availability) Invalidate(ctx context.Context, eventID string) {
	if err := c.rdb.Del(ctx, key(eventID)).Err(); err != nil {
		c.log.WithError(err).WithField("event_id", eventID).Warn("availability cache invalidate")
	}
}
