package redis

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

const (
	HeaderCache   = "X-Cache"
	defaultTTL    = 30 * time.Second
	defaultPrefix = "courtly:http"
)

// ResponseCache stores successful GET responses keyed by route and query.
type ResponseCache struct {
	Client *goredis.Client
	TTL    time.Duration
	Prefix string
	Logger *slog.Logger
}

// Middleware is a passthrough when no client is configured.
func (rc *ResponseCache) Middleware() gin.HandlerFunc {
	if rc == nil || rc.Client == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		key := CacheKey(rc.prefix(), c.FullPath(), c.Request.URL.RawQuery)

		if raw, err := rc.Client.Get(ctx, key).Bytes(); err == nil {
			if status, header, body, ok := decodePayload(raw); ok {
				for k, vals := range header {
					if strings.EqualFold(k, "Content-Length") || strings.EqualFold(k, HeaderCache) {
						continue
					}
					for _, v := range vals {
						c.Writer.Header().Add(k, v)
					}
				}
				c.Header(HeaderCache, "HIT")
				c.Data(status, header.Get("Content-Type"), body)
				c.Abort()
				return
			}
		}

		w := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Header(HeaderCache, "MISS")
		c.Next()

		if w.Status() != http.StatusOK {
			return
		}
		payload, err := encodePayload(w.Status(), w.Header().Clone(), w.buf.Bytes())
		if err != nil {
			return
		}
		if err := rc.Client.SetEx(context.WithoutCancel(ctx), key, payload, rc.ttl()).Err(); err != nil && rc.Logger != nil {
			rc.Logger.Warn("response cache store failed", "key", key, "error", err)
		}
	}
}

func (rc *ResponseCache) ttl() time.Duration {
	if rc.TTL <= 0 {
		return defaultTTL
	}
	return rc.TTL
}

func (rc *ResponseCache) prefix() string {
	if rc.Prefix == "" {
		return defaultPrefix
	}
	return rc.Prefix
}

// CacheKey hashes route and query under prefix.
func CacheKey(prefix, route, query string) string {
	sum := sha1.Sum([]byte("route:" + route + ":q:" + query))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// encodePayload packs [4 bytes status][4 bytes header length][header JSON][body].
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdr, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdr)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdr)))
	copy(out[8:], hdr)
	copy(out[8+len(hdr):], body)
	return out, nil
}

func decodePayload(raw []byte) (int, http.Header, []byte, bool) {
	if len(raw) < 8 {
		return 0, nil, nil, false
	}
	status := int(binary.BigEndian.Uint32(raw[0:4]))
	hlen := int(binary.BigEndian.Uint32(raw[4:8]))
	if 8+hlen > len(raw) {
		return 0, nil, nil, false
	}
	header := http.Header{}
	if hlen > 0 {
		if err := json.Unmarshal(raw[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, raw[8+hlen:], true
}
