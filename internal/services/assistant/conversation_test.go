package assistant

import (
	"context"
	"fmt"
	"testing"

	"benefitsportal/internal/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMemoryCacheWindowOrdering(t *testing.T) {
	cache := NewMemoryConversationCache()
	ctx := context.Background()
	companyID, userID := uuid.New(), uuid.New()

	err := cache.Append(ctx, companyID, userID,
		llm.Message{Role: llm.RoleUser, Content: "first"},
		llm.Message{Role: llm.RoleAssistant, Content: "second"},
	)
	assert.NoError(t, err)

	window, err := cache.Window(ctx, companyID, userID)
	assert.NoError(t, err)
	assert.Len(t, window, 2)
	assert.Equal(t, "first", window[0].Content)
	assert.Equal(t, "second", window[1].Content)
}

func TestMemoryCacheTrimsToCap(t *testing.T) {
	cache := NewMemoryConversationCache()
	ctx := context.Background()
	companyID, userID := uuid.New(), uuid.New()

	for i := 0; i < 15; i++ {
		err := cache.Append(ctx, companyID, userID,
			llm.Message{Role: llm.RoleUser, Content: fmt.Sprintf("u%d", i)},
			llm.Message{Role: llm.RoleAssistant, Content: fmt.Sprintf("a%d", i)},
		)
		assert.NoError(t, err)
	}

	window, err := cache.Window(ctx, companyID, userID)
	assert.NoError(t, err)
	assert.Len(t, window, MaxWindowMessages)
	// oldest turns dropped, newest kept
	assert.Equal(t, "u5", window[0].Content)
	assert.Equal(t, "a14", window[len(window)-1].Content)
}

func TestMemoryCacheIsolatesConversations(t *testing.T) {
	cache := NewMemoryConversationCache()
	ctx := context.Background()
	companyID := uuid.New()
	alice, bob := uuid.New(), uuid.New()

	assert.NoError(t, cache.Append(ctx, companyID, alice,
		llm.Message{Role: llm.RoleUser, Content: "alice asks"}))

	window, err := cache.Window(ctx, companyID, bob)
	assert.NoError(t, err)
	assert.Empty(t, window)
}

func TestMemoryCacheClear(t *testing.T) {
	cache := NewMemoryConversationCache()
	ctx := context.Background()
	companyID, userID := uuid.New(), uuid.New()

	assert.NoError(t, cache.Append(ctx, companyID, userID,
		llm.Message{Role: llm.RoleUser, Content: "hi"}))
	assert.NoError(t, cache.Clear(ctx, companyID, userID))

	window, err := cache.Window(ctx, companyID, userID)
	assert.NoError(t, err)
	assert.Empty(t, window)
}

func TestMemoryCacheWindowReturnsCopy(t *testing.T) {
	cache := NewMemoryConversationCache()
	ctx := context.Background()
	companyID, userID := uuid.New(), uuid.New()

	assert.NoError(t, cache.Append(ctx, companyID, userID,
		llm.Message{Role: llm.RoleUser, Content: "original"}))

	window, _ := cache.Window(ctx, companyID, userID)
	window[0].Content = "mutated"

	fresh, _ := cache.Window(ctx, companyID, userID)
	assert.Equal(t, "original", fresh[0].Content)
}
