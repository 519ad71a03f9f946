package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerRequestAt      = "X-Request-At"

	provisionalLockTTL = 60 * time.Second
	maxClockSkew       = 10 * time.Minute
)

type idempEntry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	Body        []byte    `json:"body"`
	BodySHA256  string    `json:"body_sha256"`
	Key         string    `json:"key"`
	RequestAtMS int64     `json:"request_at_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

type respRecorder struct {
	w    http.ResponseWriter
	buf  *bytes.Buffer
	code int
}

func (r *respRecorder) Header() http.Header { return r.w.Header() }
func (r *respRecorder) Write(b []byte) (int, error) {
	if r.buf != nil {
		r.buf.Write(b)
	}
	return r.w.Write(b)
}
func (r *respRecorder) WriteHeader(statusCode int) { r.code = statusCode; r.w.WriteHeader(statusCode) }

// Idempotency replays the stored response of a mutating request that
// carries an Idempotency-Key already seen for the same user and route.
// Requests without the header pass straight through. Must run after Auth.
func Idempotency(rdb *redis.Client, ttl time.Duration, log *zap.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			method := req.Method

			switch method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			idemKey := strings.TrimSpace(req.Header.Get(headerIdempotencyKey))
			if idemKey == "" {
				return next(c)
			}
			if !validKey(idemKey) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid " + headerIdempotencyKey + " format"})
			}

			reqAt, err := parseRequestAt(req.Header.Get(headerRequestAt))
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}
			now := nowUTC()
			if reqAt.Before(now.Add(-maxClockSkew)) || reqAt.After(now.Add(maxClockSkew)) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": headerRequestAt + " too skewed"})
			}

			p, ok := PrincipalFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
			}

			body, err := readBody(req)
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable body"})
			}
			g := guard{
				rdb:  rdb,
				key:  buildKey(method, c.Path(), p.ID, idemKey),
				hash: bodyHash(body),
				base: idempEntry{Key: idemKey, RequestAtMS: reqAt.UnixMilli()},
			}

			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()
			claimed, err := g.claim(ctx)
			if err != nil {
				log.Error("idempotency store", zap.String("key", g.key), zap.Error(err))
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
			}
			if !claimed {
				return g.answerDuplicate(ctx, c, log)
			}

			rec := &respRecorder{w: c.Response().Writer, buf: &bytes.Buffer{}, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}
			// detached: the client may already be gone
			if err := g.finish(context.Background(), rec, ttl); err != nil {
				log.Warn("idempotency save", zap.String("key", g.key), zap.Error(err))
			}
			return nil
		}
	}
}

func readBody(req *http.Request) ([]byte, error) {
	if req.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

// guard is one request's hold on an idempotency key.
type guard struct {
	rdb  *redis.Client
	key  string
	hash string
	base idempEntry
}

func (g guard) entry(inProgress bool) idempEntry {
	e := g.base
	e.InProgress = inProgress
	e.BodySHA256 = g.hash
	e.CreatedAt = nowUTC()
	return e
}

func (g guard) claim(ctx context.Context) (bool, error) {
	return provisionalSet(ctx, g.rdb, g.key, g.entry(true))
}

// answerDuplicate replays a finished response, or refuses a reused key.
func (g guard) answerDuplicate(ctx context.Context, c echo.Context, log *zap.Logger) error {
	cur, err := loadEntry(ctx, g.rdb, g.key)
	if err != nil {
		log.Warn("idempotency load", zap.String("key", g.key), zap.Error(err))
	}
	switch {
	case cur.BodySHA256 != "" && cur.BodySHA256 != g.hash:
		return c.JSON(http.StatusConflict, map[string]string{"error": headerIdempotencyKey + " reused with different body"})
	case !cur.InProgress && cur.Code != 0 && len(cur.Body) > 0:
		return c.Blob(cur.Code, echo.MIMEApplicationJSON, cur.Body)
	default:
		return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
	}
}

func (g guard) finish(ctx context.Context, rec *respRecorder, ttl time.Duration) error {
	e := g.entry(false)
	e.Code = rec.code
	e.Body = rec.buf.Bytes()
	return saveFinal(ctx, g.rdb, g.key, e, ttl)
}
