package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"
	replayedHeader    = "Idempotent-Replayed"
	idempotencyTTL    = 24 * time.Hour
	maxKeyLength      = 128
	maxReplayBody     = 1 << 20
)

// replay is what gets stored under an idempotency key.
type replay struct {
	Fingerprint string `json:"fingerprint"`
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
}

type replayStore struct {
	client *redis.Client
	ttl    time.Duration
}

func (s replayStore) load(ctx context.Context, key string) (*replay, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var r replay
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s replayStore) save(ctx context.Context, key string, r *replay) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

// capturingWriter tees the response body so it can be stored for replay.
type capturingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	if w.body.Len() < maxReplayBody {
		w.body.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the stored response for a repeated
// Idempotency-Key. Keys are scoped to the caller and route, so two users
// cannot collide. Reusing a key with a different body is rejected with 422.
// Without Redis the middleware is a no-op.
func IdempotencyMiddleware(redisClient *redis.Client) gin.HandlerFunc {
	store := replayStore{client: redisClient, ttl: idempotencyTTL}

	return func(c *gin.Context) {
		key := c.GetHeader(idempotencyHeader)
		if redisClient == nil || key == "" || !mutating(c.Request.Method) {
			c.Next()
			return
		}
		if len(key) > maxKeyLength {
			abort(c, http.StatusBadRequest, "idempotency key too long")
			return
		}

		fingerprint, err := fingerprintBody(c.Request)
		if err != nil {
			abort(c, http.StatusBadRequest, "unreadable request body")
			return
		}

		ctx := c.Request.Context()
		storeKey := idempotencyStoreKey(c, key)

		prev, err := store.load(ctx, storeKey)
		if err != nil {
			log.Printf("idempotency lookup %s: %v", storeKey, err)
			c.Next()
			return
		}
		if prev != nil {
			if prev.Fingerprint != fingerprint {
				abort(c, http.StatusUnprocessableEntity, "idempotency key reused with a different request")
				return
			}
			c.Header(replayedHeader, "true")
			contentType := prev.ContentType
			if contentType == "" {
				contentType = "application/json"
			}
			c.Data(prev.Status, contentType, prev.Body)
			c.Abort()
			return
		}

		w := &capturingWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		status := w.Status()
		if !replayable(status) || w.body.Len() >= maxReplayBody {
			return
		}
		err = store.save(ctx, storeKey, &replay{
			Fingerprint: fingerprint,
			Status:      status,
			ContentType: w.Header().Get("Content-Type"),
			Body:        w.body.Bytes(),
		})
		if err != nil {
			log.Printf("idempotency store %s: %v", storeKey, err)
		}
	}
}

// replayable reports whether a response is final for its key. Server errors,
// conflicts and rate limits can change on retry, so they are never stored.
func replayable(status int) bool {
	switch {
	case status < 200 || status >= 500:
		return false
	case status == http.StatusConflict || status == http.StatusTooManyRequests:
		return false
	}
	return true
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// fingerprintBody hashes the request body and restores it for the handler.
func fingerprintBody(r *http.Request) (string, error) {
	if r.Body == nil {
		return "", nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", err
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:]), nil
}

func idempotencyStoreKey(c *gin.Context, key string) string {
	scope := "anonymous"
	if id, ok := GetIdentity(c); ok {
		scope = id.UserID
	}
	return "idempotency:" + scope + ":" + c.Request.Method + ":" + c.FullPath() + ":" + key
}
