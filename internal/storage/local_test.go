package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalStoreSaveAndOpen(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	assert.NoError(t, err)

	storedName, err := store.Save("Benefits Guide.PDF", strings.NewReader("file body"))
	assert.NoError(t, err)
	assert.True(t, strings.HasSuffix(storedName, ".pdf"))
	assert.NotContains(t, storedName, "Benefits")

	f, err := store.Open(storedName)
	assert.NoError(t, err)
	defer f.Close()
	body, err := io.ReadAll(f)
	assert.NoError(t, err)
	assert.Equal(t, "file body", string(body))
}

func TestLocalStoreUniqueNames(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	assert.NoError(t, err)

	first, err := store.Save("report.txt", strings.NewReader("one"))
	assert.NoError(t, err)
	second, err := store.Save("report.txt", strings.NewReader("two"))
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestLocalStoreRejectsPathEscape(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	assert.NoError(t, err)

	_, err = store.Open("../outside.txt")
	assert.Error(t, err)
	assert.Error(t, store.Remove("../outside.txt"))
}

func TestLocalStoreRemove(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	assert.NoError(t, err)

	storedName, err := store.Save("notes.txt", strings.NewReader("gone soon"))
	assert.NoError(t, err)
	assert.NoError(t, store.Remove(storedName))

	_, err = store.Open(storedName)
	assert.Error(t, err)
}
