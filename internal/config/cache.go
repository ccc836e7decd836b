package config

import (
	"fmt"
	"strings"
	"time"
)

// Catalog cache backends accepted in CATALOG_CACHE_BACKEND.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// CatalogConfig configures the remote catalog client and its cache.
// The redis backend falls back to memory when Redis is unreachable.
type CatalogConfig struct {
	BaseURL      string
	ClientName   string
	Timeout      time.Duration
	CacheBackend string
	CacheTTL     time.Duration
	CachePrefix  string
}

func loadCatalogConfig(p *parser) CatalogConfig {
	c := CatalogConfig{
		BaseURL:      envStr("CATALOG_BASE_URL", "https://movie.pequla.com/api"),
		ClientName:   envStr("CATALOG_CLIENT_NAME", "cinema-ticketing"),
		Timeout:      p.getDuration("CATALOG_TIMEOUT", 10*time.Second),
		CacheBackend: strings.ToLower(envStr("CATALOG_CACHE_BACKEND", CacheMemory)),
		CacheTTL:     p.getDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		CachePrefix:  envStr("CATALOG_CACHE_PREFIX", "catalog"),
	}
	if c.CacheBackend != CacheMemory && c.CacheBackend != CacheRedis {
		p.fail("CATALOG_CACHE_BACKEND", fmt.Sprintf("unknown backend %q", c.CacheBackend))
	}
	if c.CacheTTL <= 0 {
		p.fail("CATALOG_CACHE_TTL", "must be positive")
	}
	return c
}
