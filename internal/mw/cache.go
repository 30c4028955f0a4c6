package mw

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// CacheHeader reports whether a response was served from the cache.
const CacheHeader = "X-Cache"

// renderedPage is a catalog response as it was sent the first time.
type renderedPage struct {
	status      int
	contentType string
	body        []byte
}

type pageRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (r *pageRecorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *pageRecorder) WriteString(s string) (int, error) {
	r.buf.WriteString(s)
	return r.ResponseWriter.WriteString(s)
}

// ResponseCache holds rendered catalog pages until they expire or the catalog is re-imported.
type ResponseCache struct {
	pages *cache.Cache
	ttl   time.Duration
}

func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{pages: cache.New(ttl, 2*ttl), ttl: ttl}
}

// Flush forgets every page. Call it whenever the catalog changes.
func (rc *ResponseCache) Flush() {
	rc.pages.Flush()
}

// Len is the number of stored pages.
func (rc *ResponseCache) Len() int {
	return rc.pages.ItemCount()
}

// pageKey ignores the order of query parameters, so ?b=1&a=2 and ?a=2&b=1 share an entry.
func pageKey(r *http.Request) string {
	key := r.URL.Path
	if q := r.URL.Query(); len(q) > 0 {
		key += "?" + q.Encode()
	}
	return key
}

// Handler answers GET requests from the cache and stores successful ones.
func (rc *ResponseCache) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := pageKey(c.Request)
		if v, found := rc.pages.Get(key); found {
			page := v.(renderedPage)
			c.Header(CacheHeader, "HIT")
			c.Data(page.status, page.contentType, page.body)
			c.Abort()
			return
		}

		c.Header(CacheHeader, "MISS")
		rec := &pageRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if status := rec.Status(); status >= 200 && status < 300 {
			rc.pages.Set(key, renderedPage{
				status:      status,
				contentType: rec.Header().Get("Content-Type"),
				body:        append([]byte(nil), rec.buf.Bytes()...),
			}, rc.ttl)
		}
	}
}
