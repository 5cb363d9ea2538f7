package session

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"draw-poker/internal/config"
	pkgAuth "draw-poker/pkg/auth"
	appErr "draw-poker/pkg/errors"
	"draw-poker/pkg/logger"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

const maxNameLength = 24

type Session struct {
	Identity  string    `json:"identity"`
	Name      string    `json:"name"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service issues identities and resolves them back to display names.
type Service struct {
	store NameStore
	names *lru.Cache
	ttl   time.Duration
}

func NewService(store NameStore, cfg config.SessionConfig) (*Service, error) {
	size := cfg.NameCacheSize
	if size <= 0 {
		size = config.DefaultSessionConfig().NameCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Service{store: store, names: cache, ttl: cfg.TTL}, nil
}

// Issue mints a fresh identity for name and signs a token for it.
func (s *Service) Issue(ctx context.Context, name string) (*Session, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return nil, appErr.ErrInvalidName
	}

	identity := uuid.NewString()
	if err := s.store.SaveName(ctx, identity, name, s.ttl); err != nil {
		return nil, fmt.Errorf("save session name: %w", err)
	}
	s.names.Add(identity, name)

	token, expireAt, err := pkgAuth.GenerateSessionToken(identity)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("session issued", zap.String(logger.IdentityKey, identity))
	return &Session{
		Identity:  identity,
		Name:      name,
		Token:     token,
		ExpiresAt: expireAt,
	}, nil
}

// Resolve validates token and returns the identity it was issued for.
func (s *Service) Resolve(ctx context.Context, token string) (string, error) {
	claims, err := pkgAuth.ParseSessionToken(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", appErr.ErrInvalidToken, err)
	}
	if _, err := uuid.Parse(claims.Identity); err != nil {
		return "", appErr.ErrInvalidToken
	}
	return claims.Identity, nil
}

// Name loads identity's display name, warming the cache.
func (s *Service) Name(ctx context.Context, identity string) (string, error) {
	if name, ok := s.DisplayName(identity); ok {
		return name, nil
	}
	name, err := s.store.LoadName(ctx, identity)
	if err != nil {
		return "", err
	}
	s.names.Add(identity, name)
	return name, nil
}

// DisplayName answers from the cache only. Tables call it with their lock
// held, so it must never reach the store.
func (s *Service) DisplayName(identity string) (string, bool) {
	v, ok := s.names.Get(identity)
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}
