package templatestore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend permet de simuler des pannes.
type fakeBackend struct {
	GetFunc func(ctx context.Context, key string) (string, bool, error)
	SetFunc func(ctx context.Context, key, value string) error
}

func (f *fakeBackend) Get(ctx context.Context, key string) (string, bool, error) {
	if f.GetFunc != nil {
		return f.GetFunc(ctx, key)
	}
	return "", false, nil
}

func (f *fakeBackend) Set(ctx context.Context, key, value string) error {
	if f.SetFunc != nil {
		return f.SetFunc(ctx, key, value)
	}
	return nil
}

var errBoom = errors.New("boom")

func TestMerge(t *testing.T) {
	tests := []struct {
		name       string
		template   string
		transcript string
		want       string
	}{
		{"no placeholder is a no-op", "Summarize please.", "hello", "Summarize please."},
		{"single placeholder", "T: {{ transcript }}!", "hello world", "T: hello world!"},
		{"only first occurrence", "{{ transcript }} / {{ transcript }}", "x", "x / {{ transcript }}"},
		{"transcript verbatim", "[{{ transcript }}]", "a $1 {{ transcript }}", "[a $1 {{ transcript }}]"},
		{"no spaces variant untouched", "{{transcript}}", "x", "{{transcript}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Merge(tt.template, tt.transcript))
		})
	}
}

func TestStore_GetDefaults(t *testing.T) {
	ctx := context.Background()

	s := New(NewMemory(), NewMemory())
	assert.Equal(t, s.Default(), s.Get(ctx))
	assert.Contains(t, s.Get(ctx), Placeholder)

	custom := New(nil, NewMemory(), WithDefault("D"))
	assert.Equal(t, "D", custom.Get(ctx))
}

func TestStore_SetThenGetMirrorsBothSurfaces(t *testing.T) {
	ctx := context.Background()
	primary := NewMemory()
	fallback := NewMemory()

	writer := New(primary, fallback)
	require.NoError(t, writer.Set(ctx, "X {{ transcript }}"))
	assert.Equal(t, "X {{ transcript }}", writer.Get(ctx))

	// un autre contexte qui n'a pas accès au primaire voit la même valeur
	pageSide := New(nil, fallback)
	assert.Equal(t, "X {{ transcript }}", pageSide.Get(ctx))

	v, found, err := primary.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "X {{ transcript }}", v)
}

func TestStore_PrimaryFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	broken := &fakeBackend{
		GetFunc: func(context.Context, string) (string, bool, error) { return "", false, errBoom },
		SetFunc: func(context.Context, string, string) error { return errBoom },
	}
	fallback := NewMemory()
	s := New(broken, fallback, WithDefault("D"))

	assert.Equal(t, "D", s.Get(ctx))
	require.NoError(t, s.Set(ctx, "saved"))
	assert.Equal(t, "saved", s.Get(ctx))
}

func TestStore_EmptyPrimaryFallsThrough(t *testing.T) {
	ctx := context.Background()
	primary := NewMemory()
	require.NoError(t, primary.Set(ctx, DefaultKey, ""))
	fallback := NewMemory()
	require.NoError(t, fallback.Set(ctx, DefaultKey, "from fallback"))

	s := New(primary, fallback)
	assert.Equal(t, "from fallback", s.Get(ctx))
}

func TestStore_FallbackErrors(t *testing.T) {
	ctx := context.Background()
	broken := &fakeBackend{
		GetFunc: func(context.Context, string) (string, bool, error) { return "", false, errBoom },
		SetFunc: func(context.Context, string, string) error { return errBoom },
	}
	primary := NewMemory()
	s := New(primary, broken, WithDefault("D"))

	err := s.Set(ctx, "v")
	require.ErrorIs(t, err, errBoom)
	// le primaire a quand même été écrit et reste lisible
	assert.Equal(t, "v", s.Get(ctx))

	onlyBroken := New(nil, broken, WithDefault("D"))
	assert.Equal(t, "D", onlyBroken.Get(ctx))
}

func TestStore_WithKey(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	s := New(nil, mem, WithKey("other-key"), WithKey("  "))
	assert.Equal(t, "other-key", s.Key())

	require.NoError(t, s.Set(ctx, "v"))
	_, found, _ := mem.Get(ctx, DefaultKey)
	assert.False(t, found)
}

func TestFileBackend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	fb := NewFileBackend(path)

	_, found, err := fb.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.False(t, found)

	multi := "line 1\n\nTranscript: {{ transcript }}\n"
	require.NoError(t, fb.Set(ctx, DefaultKey, multi))
	require.NoError(t, fb.Set(ctx, "other", "kept"))

	reopened := NewFileBackend(path)
	v, found, err := reopened.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, multi, v)

	v, _, _ = reopened.Get(ctx, "other")
	assert.Equal(t, "kept", v)

	_, _, err = NewFileBackend("").Get(ctx, DefaultKey)
	assert.Error(t, err)
}

func TestOriginStore_ScopesByOrigin(t *testing.T) {
	ctx := context.Background()
	store, err := OpenOriginStore(filepath.Join(t.TempDir(), "origin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	udemy := store.Scope("https://www.udemy.com")
	other := store.Scope("https://example.test")

	require.NoError(t, udemy.Set(ctx, DefaultKey, "first"))
	require.NoError(t, udemy.Set(ctx, DefaultKey, "second"))

	v, found, err := udemy.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "second", v)

	_, found, err = other.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_FileAndOriginTogether(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	origin, err := OpenOriginStore(filepath.Join(dir, "origin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = origin.Close() })

	settings := New(NewFileBackend(filepath.Join(dir, "settings.yaml")), origin.Scope("https://www.udemy.com"))
	require.NoError(t, settings.Set(ctx, "mirrored {{ transcript }}"))

	page := New(nil, origin.Scope("https://www.udemy.com"))
	assert.Equal(t, "mirrored {{ transcript }}", page.Get(ctx))
}
