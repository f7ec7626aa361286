package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	_, err := s.Get("selection-store")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put("selection-store", []byte(`{"history":[]}`)))
	got, err := s.Get("selection-store")
	require.NoError(t, err)
	assert.JSONEq(t, `{"history":[]}`, string(got))

	require.NoError(t, s.Put("selection-store", []byte(`{"history":[1]}`)))
	got, err = s.Get("selection-store")
	require.NoError(t, err)
	assert.JSONEq(t, `{"history":[1]}`, string(got))

	require.NoError(t, s.Delete("selection-store"))
	_, err = s.Get("selection-store")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	m := NewMemory()
	buf := []byte("abc")
	require.NoError(t, m.Put("k", buf))
	buf[0] = 'z'

	got, err := m.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	exerciseStore(t, s)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Put("navigation-store", []byte(`["/jobs"]`)))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	got, err := s.Get("navigation-store")
	require.NoError(t, err)
	assert.Equal(t, `["/jobs"]`, string(got))
}
