package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// cacheMiddleware caches successful GET responses in Redis. Entries are
// keyed on the dataset version, so a reload never serves stale charts.
func (h *Handler) cacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.cache == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := h.cacheKey(c)
		ctx := c.Request.Context()

		if cached, err := h.cache.Get(ctx, key).Bytes(); err == nil {
			if ct, body, ok := splitCached(cached); ok {
				c.Data(http.StatusOK, ct, body)
				c.Abort()
				return
			}
		}

		recorder := &responseRecorder{
			ResponseWriter: c.Writer,
			status:         http.StatusOK,
			body:           &bytes.Buffer{},
		}
		c.Writer = recorder

		c.Next()

		if recorder.status == http.StatusOK && recorder.body.Len() > 0 {
			entry := joinCached(recorder.Header().Get("Content-Type"), recorder.body.Bytes())
			if err := h.cache.Set(ctx, key, entry, h.cacheTTL).Err(); err != nil {
				h.log.WithError(err).WithField("key", key).Warn("cache set")
			}
		}
	}
}

type responseRecorder struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if len(data) > 0 {
		r.body.Write(data)
	}
	return r.ResponseWriter.Write(data)
}

func (h *Handler) cacheKey(c *gin.Context) string {
	return fmt.Sprintf("cache:%s:%s?%s#%d", c.Request.Method, c.Request.URL.Path, c.Request.URL.RawQuery, h.store.Version())
}

// A cache entry is the content type, a newline, then the body.
func joinCached(contentType string, body []byte) []byte {
	out := make([]byte, 0, len(contentType)+1+len(body))
	out = append(out, contentType...)
	out = append(out, '\n')
	return append(out, body...)
}

func splitCached(entry []byte) (contentType string, body []byte, ok bool) {
	i := bytes.IndexByte(entry, '\n')
	if i < 0 {
		return "", nil, false
	}
	contentType = string(entry[:i])
	if !strings.Contains(contentType, "/") {
		return "", nil, false
	}
	return contentType, entry[i+1:], true
}
