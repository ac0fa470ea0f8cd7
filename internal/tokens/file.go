package tokens

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// fileState — формат файла состояния (две записи, как две куки оригинала).
type fileState struct {
	Access  entry `json:"access_token"`
	Refresh entry `json:"refresh_token"`
}

// FileStore — файловое хранилище токенов (~/.config/.../tokens.json).
// Операции атомарны относительно вызывающих: запись идёт через temp+rename,
// параллельный доступ внутри процесса сериализуется мьютексом.
type FileStore struct {
	mu         sync.Mutex
	path       string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// FileStoreOption — настройка FileStore.
type FileStoreOption func(*FileStore)

// WithTTL задаёт сроки жизни записей (по умолчанию сутки/неделя).
func WithTTL(access, refresh time.Duration) FileStoreOption {
	return func(s *FileStore) {
		if access > 0 {
			s.accessTTL = access
		}
		if refresh > 0 {
			s.refreshTTL = refresh
		}
	}
}

// withNow — инъекция часов для тестов.
func withNow(now func() time.Time) FileStoreOption {
	return func(s *FileStore) { s.now = now }
}

// NewFileStore создаёт хранилище поверх файла path.
func NewFileStore(path string, opts ...FileStoreOption) *FileStore {
	s := &FileStore{
		path:       path,
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *FileStore) SetTokens(access, refresh string) error {
	const op = "tokens/FileStore.SetTokens"

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	st := fileState{
		Access:  entry{Value: access, ExpiresAt: now.Add(s.accessTTL)},
		Refresh: entry{Value: refresh, ExpiresAt: now.Add(s.refreshTTL)},
	}

	if err := s.write(st); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *FileStore) SetAccess(access string) error {
	const op = "tokens/FileStore.SetAccess"

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.read()
	st.Access = entry{Value: access, ExpiresAt: s.now().Add(s.accessTTL)}

	if err := s.write(st); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *FileStore) AccessToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.read().Access; e.live(s.now()) {
		return e.Value, true
	}

	return "", false
}

func (s *FileStore) RefreshToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.read().Refresh; e.live(s.now()) {
		return e.Value, true
	}

	return "", false
}

func (s *FileStore) Clear() error {
	const op = "tokens/FileStore.Clear"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *FileStore) Authenticated() bool {
	_, ok := s.AccessToken()
	return ok
}

// read возвращает текущее состояние файла; битый или отсутствующий файл
// эквивалентен пустому хранилищу.
func (s *FileStore) read() fileState {
	var st fileState

	data, err := os.ReadFile(s.path)
	if err != nil {
		return st
	}

	if err := json.Unmarshal(data, &st); err != nil {
		return fileState{}
	}

	return st
}

// write пишет состояние атомарно: temp-файл в том же каталоге + rename.
func (s *FileStore) write(st fileState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tokens-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, s.path)
}
