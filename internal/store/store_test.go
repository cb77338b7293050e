package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/interview-simulator/internal/db"
)

// fakeSessionValues is an in-memory stand-in for the session_values table.
type fakeSessionValues struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]map[string]string
	failGet error
}

func newFakeSessionValues() *fakeSessionValues {
	return &fakeSessionValues{rows: make(map[uuid.UUID]map[string]string)}
}

func (f *fakeSessionValues) GetSessionValue(_ context.Context, ns uuid.UUID, key string) (*db.SessionValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet != nil {
		return nil, f.failGet
	}
	v, ok := f.rows[ns][key]
	if !ok {
		return nil, nil
	}
	return &db.SessionValue{Namespace: ns, Key: key, Value: v, UpdatedAt: time.Now()}, nil
}

func (f *fakeSessionValues) PutSessionValue(_ context.Context, ns uuid.UUID, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows[ns] == nil {
		f.rows[ns] = make(map[string]string)
	}
	f.rows[ns][key] = value
	return nil
}

func (f *fakeSessionValues) DeleteSessionValue(_ context.Context, ns uuid.UUID, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows[ns], key)
	return nil
}

func (f *fakeSessionValues) DeleteSessionValuesExcept(_ context.Context, ns uuid.UUID, keep []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for key := range f.rows[ns] {
		kept := false
		for _, k := range keep {
			if k == key {
				kept = true
			}
		}
		if !kept {
			delete(f.rows[ns], key)
			n++
		}
	}
	return n, nil
}

func backends(t *testing.T) map[string]Store {
	t.Helper()
	file, err := OpenFile(filepath.Join(t.TempDir(), "profile", DefaultFileName), zap.NewNop())
	require.NoError(t, err)

	return map[string]Store{
		"memory":   NewMemory(),
		"file":     file,
		"postgres": newPostgres(newFakeSessionValues(), uuid.New(), zap.NewNop()),
	}
}

func TestStore_GetAbsent(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			v, ok := s.Get("setup")
			assert.False(t, ok)
			assert.Empty(t, v)
		})
	}
}

func TestStore_PutOverwriteRemove(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put("coding-submission", "first"))
			require.NoError(t, s.Put("coding-submission", "second"))

			v, ok := s.Get("coding-submission")
			require.True(t, ok)
			assert.Equal(t, "second", v)

			require.NoError(t, s.Remove("coding-submission"))
			_, ok = s.Get("coding-submission")
			assert.False(t, ok)

			require.NoError(t, s.Remove("never-written"))
		})
	}
}

func TestStore_ResetPreservesCredentialAndTheme(t *testing.T) {
	keys := []string{"setup", "mcq-answers", "coding-submission", "system-design-answer",
		"hr-answers", "feedback-report", "content:mcq", "draft:hr"}

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(KeyCredential, "AIza-test"))
			require.NoError(t, s.Put(KeyTheme, "true"))
			for _, k := range keys {
				require.NoError(t, s.Put(k, "value-"+k))
			}

			require.NoError(t, s.Reset())

			cred, ok := s.Get(KeyCredential)
			require.True(t, ok)
			assert.Equal(t, "AIza-test", cred)
			theme, ok := s.Get(KeyTheme)
			require.True(t, ok)
			assert.Equal(t, "true", theme)

			for _, k := range keys {
				_, ok := s.Get(k)
				assert.False(t, ok, "key %s should be cleared", k)
			}
		})
	}
}

func TestFile_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)

	first, err := OpenFile(path, nil)
	require.NoError(t, err)
	require.NoError(t, first.Put("hr-answers", `{"Tell me about yourself.":"I build things"}`))
	require.NoError(t, first.Put(KeyTheme, "false"))

	second, err := OpenFile(path, nil)
	require.NoError(t, err)
	v, ok := second.Get("hr-answers")
	require.True(t, ok)
	assert.Equal(t, `{"Tell me about yourself.":"I build things"}`, v)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	assert.Equal(t, []string{DefaultFileName}, names, "no temp files should remain")
}

func TestFile_CorruptDocumentStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := OpenFile(path, zap.NewNop())
	require.NoError(t, err)

	_, ok := s.Get("setup")
	assert.False(t, ok)
	require.NoError(t, s.Put("setup", "{}"))
}

func TestPostgres_ReadFailureIsAbsent(t *testing.T) {
	fake := newFakeSessionValues()
	s := newPostgres(fake, uuid.New(), zap.NewNop())
	require.NoError(t, s.Put("setup", "{}"))

	fake.failGet = errors.New("connection reset")
	_, ok := s.Get("setup")
	assert.False(t, ok)
}

func TestPostgres_NamespacesAreIsolated(t *testing.T) {
	fake := newFakeSessionValues()
	a := newPostgres(fake, uuid.New(), nil)
	b := newPostgres(fake, uuid.New(), nil)

	require.NoError(t, a.Put("setup", "a"))
	_, ok := b.Get("setup")
	assert.False(t, ok)

	require.NoError(t, b.Reset())
	v, ok := a.Get("setup")
	require.True(t, ok)
	assert.Equal(t, "a", v)
}

func TestMemory_ConcurrentWriters(t *testing.T) {
	s := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Put("system-design-answer", "draft")
			_, _ = s.Get("system-design-answer")
		}()
	}
	wg.Wait()

	assert.Equal(t, map[string]string{"system-design-answer": "draft"}, s.Snapshot())
}
