package middleware

import (
	"bytes"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/trackit-app/trackit/internal/cache"
	"github.com/trackit-app/trackit/pkg/logger"
	"github.com/trackit-app/trackit/pkg/metrics"
)

// CacheStrategy selects how the request cache interacts with the handler.
type CacheStrategy int

const (
	// CacheFirst serves a cached response when present and only invokes the
	// handler on a miss. Best for read-heavy data that tolerates staleness.
	CacheFirst CacheStrategy = iota
	// NetworkFirst always invokes the handler and falls back to the cached
	// response when the handler fails. Best for data that should be fresh.
	NetworkFirst
)

// CacheOptions configures the request-cache middleware for one route group.
type CacheOptions struct {
	// Resource names the cached resource; it prefixes every key so mutations
	// can invalidate it wholesale.
	Resource string
	// Class selects the TTL bucket: "item", "list" or "search".
	Class string
	// Strategy selects cache-first or network-first behaviour.
	Strategy CacheStrategy
	// PerUser scopes keys by the authenticated user, for endpoints whose
	// responses differ between users.
	PerUser bool
}

const cacheHeader = "X-Cache"

// RequestCache caches successful JSON GET responses in the shared cache and
// replays them on subsequent requests. Non-GET requests pass through
// untouched. Cache failures degrade to normal handler execution.
func RequestCache(svc *cache.Service, opts CacheOptions) gin.HandlerFunc {
	log := logger.WithModule("cache.http")

	return func(c *gin.Context) {
		if !svc.Enabled() || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := requestCacheKey(c, opts)
		ctx := c.Request.Context()

		if opts.Strategy == CacheFirst {
			payload, outcome := svc.GetRaw(ctx, key)
			metrics.CacheRequests.WithLabelValues(opts.Resource, outcome.String()).Inc()
			if outcome == cache.Hit {
				c.Header(cacheHeader, "HIT")
				c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
				c.Abort()
				return
			}
			c.Header(cacheHeader, "MISS")
		}

		writer := &bufferedWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()
		c.Writer = writer.ResponseWriter

		if opts.Strategy == NetworkFirst && (writer.statusCode() >= http.StatusInternalServerError || len(c.Errors) > 0) {
			payload, outcome := svc.GetRaw(ctx, key)
			metrics.CacheRequests.WithLabelValues(opts.Resource, outcome.String()).Inc()
			if outcome == cache.Hit {
				log.Debug("serving stale cached response",
					zap.String("key", key),
					zap.Int("handler_status", writer.statusCode()),
				)
				c.Writer.Header().Del("Content-Type")
				c.Header(cacheHeader, "STALE")
				c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
				return
			}
			writer.flush()
			return
		}

		writer.flush()

		if writer.statusCode() == http.StatusOK && isJSONResponse(c.Writer.Header().Get("Content-Type")) {
			svc.SetRaw(ctx, key, writer.body(), svc.TTL().For(opts.Class))
		}
	}
}

// InvalidateCache flushes the named resources after a successful mutation.
// It runs after the handler and only acts on non-GET requests that returned
// a 2xx status.
func InvalidateCache(svc *cache.Service, resources ...string) gin.HandlerFunc {
	log := logger.WithModule("cache.http")

	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}

		status := c.Writer.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices || !svc.Enabled() {
			return
		}

		ctx := c.Request.Context()
		for _, resource := range resources {
			removed := svc.FlushResource(ctx, resource)
			metrics.CacheInvalidations.WithLabelValues(resource).Inc()
			log.Debug("invalidated resource cache",
				zap.String("resource", resource),
				zap.Int64("removed", removed),
			)
		}
	}
}

// requestCacheKey derives a deterministic key from the request route, its
// query parameters and, optionally, the authenticated user.
func requestCacheKey(c *gin.Context, opts CacheOptions) string {
	signature := map[string]string{
		"path": c.Request.URL.Path,
	}
	if query := canonicalQuery(c.Request.URL.Query()); query != "" {
		signature["query"] = query
	}
	if opts.PerUser {
		signature["user"] = UserID(c)
	}

	operation := strings.TrimSpace(opts.Class)
	if operation == "" {
		operation = "get"
	}
	return cache.QueryKey(opts.Resource, operation, signature)
}

func canonicalQuery(values map[string][]string) string {
	if len(values) == 0 {
		return ""
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for _, key := range keys {
		vals := append([]string(nil), values[key]...)
		sort.Strings(vals)
		for _, val := range vals {
			if builder.Len() > 0 {
				builder.WriteByte('&')
			}
			builder.WriteString(key)
			builder.WriteByte('=')
			builder.WriteString(val)
		}
	}
	return builder.String()
}

func isJSONResponse(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "application/json")
}

// bufferedWriter holds back the response body so the middleware can decide
// whether to deliver, cache or replace it after the handler runs.
type bufferedWriter struct {
	gin.ResponseWriter
	buf     bytes.Buffer
	status  int
	flushed bool
}

func (w *bufferedWriter) WriteHeader(code int) {
	w.status = code
}

func (w *bufferedWriter) WriteHeaderNow() {
	// Deferred until flush
}

func (w *bufferedWriter) Write(data []byte) (int, error) {
	return w.buf.Write(data)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.buf.WriteString(s)
}

func (w *bufferedWriter) Status() int {
	return w.statusCode()
}

func (w *bufferedWriter) Written() bool {
	return w.flushed || w.status != 0 || w.buf.Len() > 0
}

func (w *bufferedWriter) Size() int {
	return w.buf.Len()
}

func (w *bufferedWriter) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *bufferedWriter) body() []byte {
	return append([]byte(nil), w.buf.Bytes()...)
}

// flush writes the buffered status and body to the underlying writer.
func (w *bufferedWriter) flush() {
	if w.flushed {
		return
	}
	w.flushed = true
	w.ResponseWriter.WriteHeader(w.statusCode())
	if w.buf.Len() > 0 {
		_, _ = w.ResponseWriter.Write(w.buf.Bytes())
	}
}
