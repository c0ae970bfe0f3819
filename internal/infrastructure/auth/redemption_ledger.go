package auth

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/ever-co/invoicing/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
)

// RedemptionLedger remembers capability tokens that were already used so a
// mailed link can act only once. Entries expire with the token.
type RedemptionLedger interface {
	// MarkRedeemed records the token and reports whether this call was the first.
	MarkRedeemed(ctx context.Context, token string, ttl time.Duration) (bool, error)
	IsRedeemed(ctx context.Context, token string) (bool, error)
	// Release forgets a mark whose redemption did not complete.
	Release(ctx context.Context, token string) error
}

// ledgerKey never stores the raw token
func ledgerKey(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// RedisRedemptionLedger implements RedemptionLedger using Redis
type RedisRedemptionLedger struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisRedemptionLedger creates a ledger on an existing Redis client
func NewRedisRedemptionLedger(client *redis.Client) *RedisRedemptionLedger {
	return &RedisRedemptionLedger{
		client:    client,
		keyPrefix: "estimate:redeemed:",
	}
}

// MarkRedeemed implements RedemptionLedger
func (l *RedisRedemptionLedger) MarkRedeemed(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, nil
	}
	first, err := l.client.SetNX(ctx, l.keyPrefix+ledgerKey(token), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record redemption: %w", err)
	}
	return first, nil
}

// IsRedeemed implements RedemptionLedger
func (l *RedisRedemptionLedger) IsRedeemed(ctx context.Context, token string) (bool, error) {
	n, err := l.client.Exists(ctx, l.keyPrefix+ledgerKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check redemption: %w", err)
	}
	return n > 0, nil
}

// Release implements RedemptionLedger
func (l *RedisRedemptionLedger) Release(ctx context.Context, token string) error {
	if err := l.client.Del(ctx, l.keyPrefix+ledgerKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to release redemption: %w", err)
	}
	return nil
}

var _ RedemptionLedger = (*RedisRedemptionLedger)(nil)

// InMemoryRedemptionLedger is a single-instance RedemptionLedger
type InMemoryRedemptionLedger struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewInMemoryRedemptionLedger creates an empty in-memory ledger
func NewInMemoryRedemptionLedger() *InMemoryRedemptionLedger {
	return &InMemoryRedemptionLedger{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// MarkRedeemed implements RedemptionLedger
func (l *InMemoryRedemptionLedger) MarkRedeemed(_ context.Context, token string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	key := ledgerKey(token)
	now := l.now()
	if exp, ok := l.entries[key]; ok && exp.After(now) {
		return false, nil
	}
	l.entries[key] = now.Add(ttl)
	l.purgeLocked(now)
	return true, nil
}

// IsRedeemed implements RedemptionLedger
func (l *InMemoryRedemptionLedger) IsRedeemed(_ context.Context, token string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	exp, ok := l.entries[ledgerKey(token)]
	return ok && exp.After(l.now()), nil
}

// Release implements RedemptionLedger
func (l *InMemoryRedemptionLedger) Release(_ context.Context, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.entries, ledgerKey(token))
	return nil
}

func (l *InMemoryRedemptionLedger) purgeLocked(now time.Time) {
	for k, exp := range l.entries {
		if !exp.After(now) {
			delete(l.entries, k)
		}
	}
}

var _ RedemptionLedger = (*InMemoryRedemptionLedger)(nil)
