package auth

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/pixelcanvas/internal/dependencies/clock"
	"github.com/mcoot/pixelcanvas/internal/dependencies/random"
	"github.com/mcoot/pixelcanvas/internal/model"
	"github.com/mcoot/pixelcanvas/internal/services/actors"
)

// Errors
var (
	ErrInvalidSession = errors.New("invalid or expired session")
	ErrEmptyPassword  = errors.New("password must not be empty")
	// ErrPasswordTooLong is returned for passwords bcrypt would refuse
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
)

// MaxPasswordBytes is bcrypt's input limit, counted in bytes not runes
const MaxPasswordBytes = 72

// Session represents an authenticated session
type Session struct {
	Token     string
	ActorID   model.ActorID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service handles credential hashing and session management. It is the only
// place passwords are seen; the registry stores the hash opaquely.
type Service struct {
	registry *actors.Registry
	clock    clock.Clock
	tokens   random.TokenSource
	logger   *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
	cost            int
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost
	BcryptCost int
	// Tokens issues session tokens; defaults to crypto/rand
	Tokens random.TokenSource
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
		BcryptCost:      bcrypt.DefaultCost,
	}
}

// New creates a new AuthService
func New(registry *actors.Registry, clock clock.Clock, logger *slog.Logger, cfg Config) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultConfig().BcryptCost
	}
	if cfg.Tokens == nil {
		cfg.Tokens = random.New()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		registry:        registry,
		clock:           clock,
		tokens:          cfg.Tokens,
		logger:          logger,
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
		cost:            cfg.BcryptCost,
	}
}

// Register creates an actor with a hashed password and opens a session
func (s *Service) Register(name, password string) (*Session, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	if len(password) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}

	id, err := s.registry.Register(name, string(hash))
	if err != nil {
		return nil, err
	}

	return s.createSession(id), nil
}

// Login verifies a name and password and opens a session
func (s *Service) Login(name, password string) (*Session, error) {
	id, err := s.registry.Authenticate(name, func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	})
	if err != nil {
		s.logger.Info("login failed", slog.String("name", name))
		return nil, err
	}

	return s.createSession(id), nil
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if !s.clock.Now().Before(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// createSession creates a new session for an actor
func (s *Service) createSession(id model.ActorID) *Session {
	token := s.tokens.Token("sess_")
	now := s.clock.Now()

	session := &Session{
		Token:     token,
		ActorID:   id,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

	return session
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if !now.Before(session.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}
