package scanguard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Guard suppresses duplicate kiosk submissions. A fingerprint is derived
// from the borrower card and the scanned lines; Claim reports true the
// first time a fingerprint is seen inside the window and false for
// repeats.
type Guard interface {
	Claim(ctx context.Context, fingerprint string) (bool, error)
}

const dedupeWindow = 30 * time.Second

// Fingerprint builds a stable key for one kiosk submission. Lines are
// sorted so the same cart scanned in a different order still collides.
func Fingerprint(rfid string, lines []string) string {
	sorted := make([]string, len(lines))
	copy(sorted, lines)
	sort.Strings(sorted)

	bucket := time.Now().Unix() / int64(dedupeWindow.Seconds())
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", rfid, strings.Join(sorted, "|"), bucket)))
	return hex.EncodeToString(h[:])
}

type redisGuard struct {
	client *redis.Client
}

// NewRedisGuard shares the dedupe window across replicas via SETNX.
func NewRedisGuard(client *redis.Client) Guard {
	return &redisGuard{client: client}
}

func (g *redisGuard) Claim(ctx context.Context, fingerprint string) (bool, error) {
	ok, err := g.client.SetNX(ctx, "scan:"+fingerprint, 1, dedupeWindow).Result()
	if err != nil {
		return false, fmt.Errorf("scan guard: %w", err)
	}
	return ok, nil
}

type memoryGuard struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

// NewMemoryGuard is the single-process fallback used when no Redis
// address is configured.
func NewMemoryGuard() Guard {
	return &memoryGuard{seen: make(map[string]time.Time)}
}

func (g *memoryGuard) Claim(_ context.Context, fingerprint string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	for k, expiry := range g.seen {
		if now.After(expiry) {
			delete(g.seen, k)
		}
	}

	if _, dup := g.seen[fingerprint]; dup {
		return false, nil
	}
	g.seen[fingerprint] = now.Add(dedupeWindow)
	return true, nil
}
