// Package session keeps state that lives as long as an editing session:
// a key/value storage and the undo log mirrored into it.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// Storage is a string key/value store scoped to one session
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

func NewSessionID() string {
	return uuid.NewString()
}

// MemoryStorage keeps values in memory. Entries expire after the session
// TTL; a TTL <= 0 keeps them for the lifetime of the process.
type MemoryStorage struct {
	cache *gocache.Cache
}

func NewMemoryStorage(ttl time.Duration) *MemoryStorage {
	if ttl <= 0 {
		return &MemoryStorage{cache: gocache.New(gocache.NoExpiration, 0)}
	}
	return &MemoryStorage{cache: gocache.New(ttl, ttl)}
}

func (s *MemoryStorage) Get(key string) (string, bool, error) {
	v, found := s.cache.Get(key)
	if !found {
		return "", false, nil
	}
	str, ok := v.(string)
	if !ok {
		return "", false, fmt.Errorf("value for '%s' is %T, not string", key, v)
	}
	return str, true, nil
}

func (s *MemoryStorage) Set(key, value string) error {
	s.cache.Set(key, value, gocache.DefaultExpiration)
	return nil
}

func (s *MemoryStorage) Remove(key string) error {
	s.cache.Delete(key)
	return nil
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// FileStorage keeps one file per key under dir/<session id>/, so a session
// can be resumed by a later process.
type FileStorage struct {
	dir string
}

func NewFileStorage(root, sessionID string) (*FileStorage, error) {
	if len(sessionID) == 0 {
		return nil, errors.New("Empty session id")
	}
	dir := filepath.Join(root, unsafeKeyChars.ReplaceAllString(sessionID, "_"))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileStorage{dir: dir}, nil
}

func (s *FileStorage) Dir() string {
	return s.dir
}

func (s *FileStorage) path(key string) string {
	return filepath.Join(s.dir, unsafeKeyChars.ReplaceAllString(key, "_")+".json")
}

func (s *FileStorage) Get(key string) (string, bool, error) {
	content, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(content), true, nil
}

func (s *FileStorage) Set(key, value string) error {
	return os.WriteFile(s.path(key), []byte(value), 0o600)
}

func (s *FileStorage) Remove(key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
