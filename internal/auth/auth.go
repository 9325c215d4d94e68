// Package auth implements the single-admin account model: exactly one
// user, stored as a JSON file with a bcrypt password hash. Registration
// only succeeds while no user exists yet.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Sentinel errors for account operations.
var (
	ErrUserExists       = errors.New("a user already exists")
	ErrEmptyCredentials = errors.New("username and password cannot be empty")
)

// userRecord is the on-disk account shape.
type userRecord struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
}

// Store manages the single admin account file.
type Store struct {
	mu   sync.Mutex
	path string
}

// New creates a Store backed by the given JSON file path.
func New(path string) *Store {
	return &Store{path: path}
}

// HasUser reports whether an account has been registered.
func (s *Store) HasUser() bool {
	_, err := s.load()
	return err == nil
}

// Register creates the first (and only) account. Fails once a user exists.
func (s *Store) Register(username, password string) error {
	if username == "" || password == "" {
		return ErrEmptyCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.load(); err == nil {
		return ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	data, err := json.MarshalIndent(userRecord{Username: username, PasswordHash: string(hash)}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing user file: %w", err)
	}
	return nil
}

// Verify checks a username/password pair against the stored account.
func (s *Store) Verify(username, password string) bool {
	user, err := s.load()
	if err != nil || user.Username != username {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

func (s *Store) load() (userRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return userRecord{}, err
	}
	var user userRecord
	if err := json.Unmarshal(data, &user); err != nil {
		return userRecord{}, err
	}
	if user.Username == "" {
		return userRecord{}, errors.New("empty user record")
	}
	return user, nil
}
