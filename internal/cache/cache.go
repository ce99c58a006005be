package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache is the key value cache used in front of slow lookups
type Cache interface {
	// Get returns the cached value and whether it was found
	Get(ctx context.Context, key string) (interface{}, bool)
	// Set stores value under key. A zero expiration uses the backend default.
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)
	Delete(ctx context.Context, key string)
	DeleteByPrefix(ctx context.Context, prefix string)
	Flush(ctx context.Context)
}

const (
	PrefixInvoiceConfig = "invoice_config"
)

// GenerateKey joins a prefix and its parts into a cache key: prefix:part1:part2
func GenerateKey(prefix string, parts ...interface{}) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, p := range parts {
		b.WriteString(":")
		b.WriteString(fmt.Sprint(p))
	}
	return b.String()
}
