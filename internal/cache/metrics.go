package cache

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	hits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Cache lookups served from Redis.",
	}, []string{"key"})

	misses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Cache lookups that fell through to the store.",
	}, []string{"key"})
)

func init() {
	prometheus.MustRegister(hits, misses)
}

func kindOf(key string) string {
	switch {
	case strings.HasPrefix(key, "orders_user_"):
		return "orders_user"
	case strings.HasPrefix(key, "user_"):
		return "user"
	default:
		return "other"
	}
}
