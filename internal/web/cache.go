package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	cacheKeyPrefix  = "cache:"
	defaultCacheTTL = 10 * time.Minute
	maxCacheBody    = 1 << 20
)

// Cache stores JSON documents. caching.Cacher satisfies it.
type Cache interface {
	Store(ctx context.Context, key string, value any, ttl time.Duration) error
	Fetch(ctx context.Context, key string, destination any) (bool, error)
}

// FetchCacheEntry returns the stored document or 404 on a miss.
func FetchCacheEntry(cache Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var document json.RawMessage

		hit, err := cache.Fetch(c.Request.Context(), cacheKeyPrefix+c.Param("key"), &document)
		if err != nil {
			HandleError(c, http.StatusServiceUnavailable, "Cache unavailable", err)
			return
		}

		if !hit {
			HandleError(c, http.StatusNotFound, "Cache entry not found", nil)
			return
		}

		c.Data(http.StatusOK, gin.MIMEJSON, document)
	}
}

// StoreCacheEntry stores the JSON request body. The ttl query parameter is a
// Go duration and defaults to ten minutes.
func StoreCacheEntry(cache Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ttl := defaultCacheTTL
		if raw := c.Query("ttl"); raw != "" {
			parsed, err := time.ParseDuration(raw)
			if err != nil || parsed <= 0 {
				HandleError(c, http.StatusBadRequest, "Invalid ttl", err)
				return
			}
			ttl = parsed
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCacheBody+1))
		if err != nil {
			HandleError(c, http.StatusBadRequest, "Unable to read request body", err)
			return
		}

		if len(body) > maxCacheBody {
			HandleError(c, http.StatusRequestEntityTooLarge, "Request body too large", nil)
			return
		}

		if !json.Valid(body) {
			HandleError(c, http.StatusBadRequest, "Request body must be JSON", nil)
			return
		}

		err = cache.Store(c.Request.Context(), cacheKeyPrefix+c.Param("key"), json.RawMessage(body), ttl)
		if err != nil {
			HandleError(c, http.StatusServiceUnavailable, "Cache unavailable", err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}
