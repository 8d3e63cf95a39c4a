// Package auth guards the mutating API surface with a shared operator
// key. Operators exchange the key for a short-lived bearer token; the
// key itself is only ever held as a bcrypt hash in memory.
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/irisgate/irisgate/internal/dependencies/clock"
)

// Errors
var (
	ErrInvalidKey   = errors.New("invalid operator key")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Token represents an issued operator token.
type Token struct {
	Value     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Config holds configuration for the auth service
type Config struct {
	// OperatorKey is the shared secret operators present to log in.
	// Empty disables authentication entirely.
	OperatorKey string

	// TokenDuration bounds how long an issued token stays valid
	TokenDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		TokenDuration: 12 * time.Hour,
	}
}

// Service issues and validates operator tokens.
type Service struct {
	clock clock.Clock

	keyHash       []byte // nil when auth is disabled
	tokenDuration time.Duration

	mu     sync.RWMutex
	tokens map[string]*Token
}

// New creates an auth service. Hashing the configured key can fail only
// on degenerate bcrypt inputs, surfaced here rather than at login time.
func New(clk clock.Clock, cfg Config) (*Service, error) {
	if cfg.TokenDuration == 0 {
		cfg.TokenDuration = DefaultConfig().TokenDuration
	}

	s := &Service{
		clock:         clk,
		tokenDuration: cfg.TokenDuration,
		tokens:        make(map[string]*Token),
	}

	if cfg.OperatorKey != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.OperatorKey), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		s.keyHash = hash
	}

	return s, nil
}

// Enabled reports whether an operator key is configured.
func (s *Service) Enabled() bool {
	return s.keyHash != nil
}

// Login exchanges the operator key for a bearer token.
func (s *Service) Login(key string) (*Token, error) {
	if !s.Enabled() {
		return nil, ErrInvalidKey
	}

	if err := bcrypt.CompareHashAndPassword(s.keyHash, []byte(key)); err != nil {
		return nil, ErrInvalidKey
	}

	now := s.clock.Now()
	token := &Token{
		Value:     generateToken(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenDuration),
	}

	s.mu.Lock()
	s.tokens[token.Value] = token
	s.mu.Unlock()

	return token, nil
}

// ValidateToken checks a bearer token. With auth disabled every token,
// including the empty one, is accepted.
func (s *Service) ValidateToken(value string) error {
	if !s.Enabled() {
		return nil
	}

	s.mu.RLock()
	token, ok := s.tokens[value]
	s.mu.RUnlock()

	if !ok {
		return ErrInvalidToken
	}

	if s.clock.Now().After(token.ExpiresAt) {
		s.mu.Lock()
		delete(s.tokens, value)
		s.mu.Unlock()
		return ErrInvalidToken
	}

	return nil
}

// InvalidateToken removes a token
func (s *Service) InvalidateToken(value string) {
	s.mu.Lock()
	delete(s.tokens, value)
	s.mu.Unlock()
}

// CleanExpiredTokens removes expired tokens (call periodically)
func (s *Service) CleanExpiredTokens() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for value, token := range s.tokens {
		if now.After(token.ExpiresAt) {
			delete(s.tokens, value)
		}
	}
}

func generateToken() string {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	return "tok_" + base64.RawURLEncoding.EncodeToString(b)
}
