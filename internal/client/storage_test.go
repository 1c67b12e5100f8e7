package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage_RoundTripAndClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s := NewFileStorage(path)

	_, ok, err := s.Get("user")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("user", []byte(`{"token":"t"}`)))
	got, ok, err := s.Get("user")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"token":"t"}`, string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// a second instance sees the same data
	got, ok, err = NewFileStorage(path).Get("user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"token":"t"}`, string(got))

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStorage_RejectsInvalidJSON(t *testing.T) {
	s := NewFileStorage(filepath.Join(t.TempDir(), "s.json"))
	assert.Error(t, s.Set("user", []byte("plain")))
}

func TestMemoryStorage(t *testing.T) {
	s := NewMemoryStorage()
	buf := []byte(`1`)
	require.NoError(t, s.Set("k", buf))
	buf[0] = '2'

	got, ok, _ := s.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "1", string(got))

	require.NoError(t, s.Clear())
	_, ok, _ = s.Get("k")
	assert.False(t, ok)
}
