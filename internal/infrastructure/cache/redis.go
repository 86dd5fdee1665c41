package cache

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

type Options struct {
	Addr     string
	DB       int
	PoolSize int // 0 keeps the go-redis default
}

const pingTimeout = 5 * time.Second

// OpenRedis connects and pings once; the client is closed if the ping fails.
func OpenRedis(ctx context.Context, o Options) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: o.Addr, DB: o.DB, PoolSize: o.PoolSize})
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}

// RegisterPoolMetrics exposes the client's connection pool stats on reg.
func RegisterPoolMetrics(reg prometheus.Registerer, c *redis.Client) {
	f := promauto.With(reg)
	stat := func(pick func(*redis.PoolStats) uint32) func() float64 {
		return func() float64 { return float64(pick(c.PoolStats())) }
	}
	f.NewCounterFunc(prometheus.CounterOpts{
		Name: "credit_redis_pool_hits_total",
		Help: "Times a free connection was found in the pool",
	}, stat(func(s *redis.PoolStats) uint32 { return s.Hits }))
	f.NewCounterFunc(prometheus.CounterOpts{
		Name: "credit_redis_pool_misses_total",
		Help: "Times no free connection was found in the pool",
	}, stat(func(s *redis.PoolStats) uint32 { return s.Misses }))
	f.NewCounterFunc(prometheus.CounterOpts{
		Name: "credit_redis_pool_timeouts_total",
		Help: "Times waiting for a connection timed out",
	}, stat(func(s *redis.PoolStats) uint32 { return s.Timeouts }))
	f.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "credit_redis_pool_total_conns",
		Help: "Connections currently in the pool",
	}, stat(func(s *redis.PoolStats) uint32 { return s.TotalConns }))
	f.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "credit_redis_pool_idle_conns",
		Help: "Idle connections in the pool",
	}, stat(func(s *redis.PoolStats) uint32 { return s.IdleConns }))
}
