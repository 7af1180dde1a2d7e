package mw

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

type cachedResponse struct {
	status  int
	headers http.Header
	body    []byte
}

type bodyCapturingWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyCapturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w bodyCapturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CacheGET serves repeated GET requests for the same URI from an in-memory
// store for the given duration. Calendar and fleet views are read-heavy and
// tolerate a few seconds of staleness; writes go through redis invalidation,
// so keep the duration short.
func CacheGET(store *cache.Cache, duration time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.RequestURI
		if resp, found := store.Get(key); found {
			cached := resp.(cachedResponse)
			for k, v := range cached.headers {
				c.Writer.Header()[k] = v
			}
			c.Writer.WriteHeader(cached.status)
			c.Writer.Write(cached.body)
			c.Abort()
			return
		}

		w := &bodyCapturingWriter{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		if w.Status() >= 200 && w.Status() < 300 {
			store.Set(key, cachedResponse{
				status:  w.Status(),
				headers: w.Header().Clone(),
				body:    w.body.Bytes(),
			}, duration)
		}
	}
}
