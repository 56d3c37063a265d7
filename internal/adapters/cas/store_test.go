package cas_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/weave/internal/adapters/cas"
	"go.trai.ch/weave/internal/core/domain"
)

func TestStore_PutAndGet(t *testing.T) {
	store, err := cas.NewStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	record := domain.GenerationRecord{
		Injector:   "com.example.AppInjector",
		InputHash:  "abc",
		OutputHash: "def",
		OutputPath: "gen/AppInjector.yaml",
		Timestamp:  time.Now(),
	}
	require.NoError(t, store.Put(record))

	got, err := store.Get("com.example.AppInjector")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "abc", got.InputHash)
	assert.Equal(t, "gen/AppInjector.yaml", got.OutputPath)
}

func TestStore_GetMissing(t *testing.T) {
	store, err := cas.NewStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	got, err := store.Get("com.example.Nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	first, err := cas.NewStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Put(domain.GenerationRecord{Injector: "com.example.AppInjector", InputHash: "in"}))

	second, err := cas.NewStore(path)
	require.NoError(t, err)
	got, err := second.Get("com.example.AppInjector")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "in", got.InputHash)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestStore_PutRequiresInjector(t *testing.T) {
	store, err := cas.NewStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	assert.Error(t, store.Put(domain.GenerationRecord{InputHash: "x"}))
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := cas.NewStore(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal generation store")
}

func TestStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, err := cas.NewStore(path)
	require.NoError(t, err)
}

func TestStore_ConcurrentPut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store, err := cas.NewStore(path)
	require.NoError(t, err)

	names := []string{"a.One", "a.Two", "a.Three", "a.Four"}
	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Put(domain.GenerationRecord{Injector: name, InputHash: name}))
		}()
	}
	wg.Wait()

	reopened, err := cas.NewStore(path)
	require.NoError(t, err)
	for _, name := range names {
		got, err := reopened.Get(name)
		require.NoError(t, err)
		require.NotNil(t, got, name)
	}
}
