package tokens

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T, opts ...FileStoreOption) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "tokens.json"), opts...)
}

// Раунд-трип: что записали, то и прочитали.
func TestFileStore_RoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestFileStore(t)

	require.NoError(t, s.SetTokens("access-1", "refresh-1"))

	access, ok := s.AccessToken()
	require.True(t, ok)
	require.Equal(t, "access-1", access)

	refresh, ok := s.RefreshToken()
	require.True(t, ok)
	require.Equal(t, "refresh-1", refresh)

	require.True(t, s.Authenticated())
}

func TestFileStore_EmptyStore(t *testing.T) {
	t.Parallel()

	s := newTestFileStore(t)

	_, ok := s.AccessToken()
	require.False(t, ok)

	_, ok = s.RefreshToken()
	require.False(t, ok)

	require.False(t, s.Authenticated())
}

func TestFileStore_Clear_RemovesBoth(t *testing.T) {
	t.Parallel()

	s := newTestFileStore(t)
	require.NoError(t, s.SetTokens("a", "r"))

	require.NoError(t, s.Clear())

	_, ok := s.AccessToken()
	require.False(t, ok)
	_, ok = s.RefreshToken()
	require.False(t, ok)
}

// Идемпотентность: повторная чистка пустого хранилища — no-op, не ошибка.
func TestFileStore_Clear_Idempotent(t *testing.T) {
	t.Parallel()

	s := newTestFileStore(t)
	require.NoError(t, s.SetTokens("a", "r"))

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())

	require.False(t, s.Authenticated())
}

// SetAccess не трогает refresh-запись (протокол bare refresh).
func TestFileStore_SetAccess_KeepsRefresh(t *testing.T) {
	t.Parallel()

	s := newTestFileStore(t)
	require.NoError(t, s.SetTokens("old-access", "refresh-orig"))

	require.NoError(t, s.SetAccess("new-access"))

	access, ok := s.AccessToken()
	require.True(t, ok)
	require.Equal(t, "new-access", access)

	refresh, ok := s.RefreshToken()
	require.True(t, ok)
	require.Equal(t, "refresh-orig", refresh)
}

func TestFileStore_SetTokens_Overwrites(t *testing.T) {
	t.Parallel()

	s := newTestFileStore(t)
	require.NoError(t, s.SetTokens("a1", "r1"))
	require.NoError(t, s.SetTokens("a2", "r2"))

	access, _ := s.AccessToken()
	refresh, _ := s.RefreshToken()
	require.Equal(t, "a2", access)
	require.Equal(t, "r2", refresh)
}

// Протухшая запись читается как отсутствующая: access живёт сутки,
// refresh — неделю, между ними окно, где жив только refresh.
func TestFileStore_Expiry(t *testing.T) {
	t.Parallel()

	now := time.Now()
	clock := &now

	s := newTestFileStore(t, withNow(func() time.Time { return *clock }))
	require.NoError(t, s.SetTokens("a", "r"))

	later := now.Add(25 * time.Hour)
	clock = &later

	_, ok := s.AccessToken()
	require.False(t, ok)
	require.False(t, s.Authenticated())

	refresh, ok := s.RefreshToken()
	require.True(t, ok)
	require.Equal(t, "r", refresh)

	week := now.Add(8 * 24 * time.Hour)
	clock = &week

	_, ok = s.RefreshToken()
	require.False(t, ok)
}

// Битый файл состояния эквивалентен пустому хранилищу, а не ошибке.
func TestFileStore_CorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := NewFileStore(path)

	require.False(t, s.Authenticated())
	require.NoError(t, s.SetTokens("a", "r"))
	require.True(t, s.Authenticated())
}

func TestMemoryStore_RoundTripAndClear(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()

	require.NoError(t, s.SetTokens("a", "r"))

	access, ok := s.AccessToken()
	require.True(t, ok)
	require.Equal(t, "a", access)

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())

	_, ok = s.AccessToken()
	require.False(t, ok)
	_, ok = s.RefreshToken()
	require.False(t, ok)
}

func TestMemoryStore_SetAccess_KeepsRefresh(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	require.NoError(t, s.SetTokens("a", "r"))
	require.NoError(t, s.SetAccess("a2"))

	access, _ := s.AccessToken()
	refresh, _ := s.RefreshToken()
	require.Equal(t, "a2", access)
	require.Equal(t, "r", refresh)
}
