// internal/domain/cart/persistence.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Persistence stores the cart's persisted representation: a JSON array
// of {product_id, quantity} under one key per cart session.
type Persistence interface {
	Load(ctx context.Context, sessionID string) ([]StoredLine, error)
	Save(ctx context.Context, sessionID string, lines []StoredLine) error
	Delete(ctx context.Context, sessionID string) error
}

type redisPersistence struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPersistence creates the redis-backed cart persistence.
func NewRedisPersistence(client *redis.Client, ttl time.Duration) Persistence {
	return &redisPersistence{client: client, ttl: ttl}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

func (p *redisPersistence) Load(ctx context.Context, sessionID string) ([]StoredLine, error) {
	data, err := p.client.Get(ctx, cartKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return []StoredLine{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var lines []StoredLine
	if err := json.Unmarshal([]byte(data), &lines); err != nil {
		// A corrupt value is treated as an empty cart rather than a
		// permanently broken session.
		return []StoredLine{}, nil
	}
	return lines, nil
}

func (p *redisPersistence) Save(ctx context.Context, sessionID string, lines []StoredLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := p.client.Set(ctx, cartKey(sessionID), data, p.ttl).Err(); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

func (p *redisPersistence) Delete(ctx context.Context, sessionID string) error {
	if err := p.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// MemoryPersistence keeps carts in a process-local map. Used by tests
// and local development without redis.
type MemoryPersistence struct {
	mu    sync.Mutex
	carts map[string][]StoredLine
}

// NewMemoryPersistence creates an empty in-memory cart persistence.
func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{carts: make(map[string][]StoredLine)}
}

func (p *MemoryPersistence) Load(ctx context.Context, sessionID string) ([]StoredLine, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	lines := p.carts[sessionID]
	out := make([]StoredLine, len(lines))
	copy(out, lines)
	return out, nil
}

func (p *MemoryPersistence) Save(ctx context.Context, sessionID string, lines []StoredLine) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	stored := make([]StoredLine, len(lines))
	copy(stored, lines)
	p.carts[sessionID] = stored
	return nil
}

func (p *MemoryPersistence) Delete(ctx context.Context, sessionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.carts, sessionID)
	return nil
}
