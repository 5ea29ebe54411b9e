package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"benefitsportal/internal/llm"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// MaxWindowMessages bounds the rolling conversation window: the last ten
// turns (a user message and the assistant reply each count as one message).
const MaxWindowMessages = 20

// ConversationCache keeps the assistant's short-term memory per
// (company, user) pair. The window is prompt context only; the durable chat
// log lives in the content store.
type ConversationCache interface {
	// Window returns the current rolling window, oldest first
	Window(ctx context.Context, companyID, userID uuid.UUID) ([]llm.Message, error)

	// Append adds messages to the window, trimming it to the cap
	Append(ctx context.Context, companyID, userID uuid.UUID, messages ...llm.Message) error

	// Clear drops the window for one conversation
	Clear(ctx context.Context, companyID, userID uuid.UUID) error
}

// trimWindow drops the oldest messages beyond the cap
func trimWindow(window []llm.Message) []llm.Message {
	if len(window) > MaxWindowMessages {
		return window[len(window)-MaxWindowMessages:]
	}
	return window
}

func conversationKey(companyID, userID uuid.UUID) string {
	return fmt.Sprintf("chat:window:%s:%s", companyID, userID)
}

// MemoryConversationCache is the single-instance backend: a bounded
// in-process map. Interleaved requests for the same conversation race with
// last-write-wins semantics, and the state does not survive a restart.
type MemoryConversationCache struct {
	mu      sync.Mutex
	windows map[string][]llm.Message
}

// NewMemoryConversationCache creates an in-process conversation cache
func NewMemoryConversationCache() *MemoryConversationCache {
	return &MemoryConversationCache{
		windows: make(map[string][]llm.Message),
	}
}

// Window returns a copy of the current rolling window
func (c *MemoryConversationCache) Window(_ context.Context, companyID, userID uuid.UUID) ([]llm.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	window := c.windows[conversationKey(companyID, userID)]
	out := make([]llm.Message, len(window))
	copy(out, window)
	return out, nil
}

// Append adds messages and trims the window to the cap
func (c *MemoryConversationCache) Append(_ context.Context, companyID, userID uuid.UUID, messages ...llm.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := conversationKey(companyID, userID)
	c.windows[key] = trimWindow(append(c.windows[key], messages...))
	return nil
}

// Clear drops the window for one conversation
func (c *MemoryConversationCache) Clear(_ context.Context, companyID, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.windows, conversationKey(companyID, userID))
	return nil
}

// RedisConversationCache is the multi-instance backend, sharing the rolling
// window across horizontally scaled processes.
type RedisConversationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisConversationCache creates a redis-backed conversation cache
func NewRedisConversationCache(client *redis.Client, ttl time.Duration) *RedisConversationCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisConversationCache{client: client, ttl: ttl}
}

// Window returns the current rolling window
func (c *RedisConversationCache) Window(ctx context.Context, companyID, userID uuid.UUID) ([]llm.Message, error) {
	raw, err := c.client.Get(ctx, conversationKey(companyID, userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var window []llm.Message
	if err := json.Unmarshal([]byte(raw), &window); err != nil {
		return nil, fmt.Errorf("failed to decode conversation window: %w", err)
	}
	return window, nil
}

// Append adds messages and trims the window to the cap
func (c *RedisConversationCache) Append(ctx context.Context, companyID, userID uuid.UUID, messages ...llm.Message) error {
	window, err := c.Window(ctx, companyID, userID)
	if err != nil {
		return err
	}

	window = trimWindow(append(window, messages...))
	data, err := json.Marshal(window)
	if err != nil {
		return fmt.Errorf("failed to encode conversation window: %w", err)
	}

	return c.client.Set(ctx, conversationKey(companyID, userID), data, c.ttl).Err()
}

// Clear drops the window for one conversation
func (c *RedisConversationCache) Clear(ctx context.Context, companyID, userID uuid.UUID) error {
	return c.client.Del(ctx, conversationKey(companyID, userID)).Err()
}
