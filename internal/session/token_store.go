package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Token is a stored credential with its cookie-equivalent expiry.
type Token struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (t Token) valid() bool {
	return t.Value != "" && time.Now().Before(t.ExpiresAt)
}

// TokenStore persists the access/refresh token pair between runs, the way
// the browser portal keeps them in cookies.
type TokenStore interface {
	Save(access, refresh Token) error
	AccessToken() (string, bool)
	RefreshToken() (string, bool)
	Clear() error
}

type tokenFile struct {
	Access  Token `json:"access"`
	Refresh Token `json:"refresh"`
}

// FileTokenStore keeps tokens in a mode-0600 JSON file, written atomically
// via a temp file and rename.
type FileTokenStore struct {
	mu   sync.Mutex
	path string
}

// NewFileTokenStore creates a store rooted at path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Save writes both tokens to disk.
func (s *FileTokenStore) Save(access, refresh Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}

	data, err := json.Marshal(tokenFile{Access: access, Refresh: refresh})
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// AccessToken returns the access token unless missing or expired.
func (s *FileTokenStore) AccessToken() (string, bool) {
	tf, err := s.load()
	if err != nil || !tf.Access.valid() {
		return "", false
	}
	return tf.Access.Value, true
}

// RefreshToken returns the refresh token unless missing or expired.
func (s *FileTokenStore) RefreshToken() (string, bool) {
	tf, err := s.load()
	if err != nil || !tf.Refresh.valid() {
		return "", false
	}
	return tf.Refresh.Value, true
}

// Clear removes the token file.
func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FileTokenStore) load() (tokenFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tf tokenFile
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return tf, nil
		}
		return tf, err
	}
	if err := json.Unmarshal(data, &tf); err != nil {
		return tokenFile{}, err
	}
	return tf, nil
}
