// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth manages the user session: the persisted JWT token pair and
// the login/logout lifecycle around it.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jeranaias/chatterm/internal/api"
	"github.com/jeranaias/chatterm/internal/util"
)

// tokenFilePerm keeps the token file readable by the owner only.
// SECURITY: Tokens are credentials; 0600 prevents other users reading them.
const tokenFilePerm = 0600

// TokenStore holds the JWT access/refresh pair in memory and persists it to
// a JSON file. The pair is an atomic unit: both tokens are saved together
// and cleared together, never independently.
//
// TokenStore implements api.TokenSource, so the API client always sees the
// current access token without any header mutation.
type TokenStore struct {
	mu   sync.RWMutex
	path string
	pair api.TokenPair
}

// NewTokenStore creates a store persisting to path. Nothing is read from
// disk until Load is called.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// DefaultTokenPath returns the standard token file location,
// ~/.chatterm/tokens.json.
func DefaultTokenPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".chatterm", "tokens.json"), nil
}

// Load reads the persisted pair from disk into memory. A missing file is not
// an error; the store just stays empty.
func (s *TokenStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read token file: %w", err)
	}

	var pair api.TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("failed to parse token file: %w", err)
	}

	s.mu.Lock()
	s.pair = pair
	s.mu.Unlock()
	return nil
}

// Save stores the pair in memory and persists it to disk atomically.
func (s *TokenStore) Save(pair api.TokenPair) error {
	data, err := json.MarshalIndent(pair, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}
	if err := util.AtomicWriteFile(s.path, data, tokenFilePerm); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	s.mu.Lock()
	s.pair = pair
	s.mu.Unlock()
	return nil
}

// Clear wipes both tokens from memory and removes the file. The pair is
// never half-cleared: a failure to remove the file still leaves memory
// empty, and the stale file is overwritten on the next Save.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	s.pair = api.TokenPair{}
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// AccessToken implements api.TokenSource.
func (s *TokenStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair.Access
}

// RefreshToken returns the current refresh token.
func (s *TokenStore) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair.Refresh
}

// HasTokens reports whether a pair is currently held.
func (s *TokenStore) HasTokens() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair.Access != "" && s.pair.Refresh != ""
}
