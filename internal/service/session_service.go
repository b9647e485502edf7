package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-course-platform/internal/model"
	"go-course-platform/internal/token"
	"go-course-platform/pkg/apierror"
)

type SessionConfig struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
}

// SessionService mints token pairs and keeps the cached user snapshot that
// makes an access token usable. Deleting the snapshot revokes every token
// issued for the user.
type SessionService struct {
	cache  sessionCache
	tokens *token.Service
	cfg    SessionConfig
	now    func() time.Time
}

func NewSessionService(cache sessionCache, tokens *token.Service, cfg SessionConfig) *SessionService {
	return &SessionService{cache: cache, tokens: tokens, cfg: cfg, now: time.Now}
}

func (s *SessionService) AccessTTL() time.Duration  { return s.cfg.AccessTTL }
func (s *SessionService) RefreshTTL() time.Duration { return s.cfg.RefreshTTL }

// Establish issues a fresh token pair for user and caches its snapshot.
func (s *SessionService) Establish(ctx context.Context, user model.User) (model.Session, error) {
	session, err := s.mint(user)
	if err != nil {
		return model.Session{}, err
	}

	if err := s.StoreSnapshot(ctx, user); err != nil {
		return model.Session{}, err
	}

	return session, nil
}

// Refresh rotates both tokens. The cached snapshot keeps its content; only
// its expiry moves to the new refresh window.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (model.Session, error) {
	claims := token.ExpectSession(token.KindRefresh)
	if err := s.tokens.Verify(refreshToken, s.cfg.RefreshSecret, claims); err != nil {
		return model.Session{}, apierror.Unauthorized("Invalid refresh token")
	}

	user, err := s.lookup(ctx, claims.UserID)
	if err != nil {
		return model.Session{}, err
	}
	if user == nil {
		return model.Session{}, apierror.Unauthorized("Could not refresh token")
	}

	session, err := s.mint(*user)
	if err != nil {
		return model.Session{}, err
	}

	found, err := s.cache.Touch(ctx, claims.UserID, s.cfg.RefreshTTL)
	if err != nil {
		return model.Session{}, err
	}
	if !found {
		// logged out between lookup and touch
		return model.Session{}, apierror.Unauthorized("Could not refresh token")
	}

	return session, nil
}

// Authenticate resolves an access token to the cached identity. It never
// writes to the cache.
func (s *SessionService) Authenticate(ctx context.Context, accessToken string) (model.User, error) {
	if accessToken == "" {
		return model.User{}, apierror.Unauthorized("Please login to access this resource")
	}

	claims := token.ExpectSession(token.KindAccess)
	if err := s.tokens.Verify(accessToken, s.cfg.AccessSecret, claims); err != nil {
		return model.User{}, apierror.Unauthorized("Access token is invalid or expired")
	}

	user, err := s.lookup(ctx, claims.UserID)
	if err != nil {
		return model.User{}, err
	}
	if user == nil {
		return model.User{}, apierror.Unauthorized("Session expired, please login again")
	}

	return *user, nil
}

// Terminate drops the cached session. It is a no-op when none exists.
func (s *SessionService) Terminate(ctx context.Context, userID string) error {
	return s.cache.Delete(ctx, userID)
}

// StoreSnapshot overwrites the cached identity for user.
func (s *SessionService) StoreSnapshot(ctx context.Context, user model.User) error {
	user.Password = ""
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session snapshot: %w", err)
	}
	return s.cache.Put(ctx, user.ID.Hex(), data, s.cfg.RefreshTTL)
}

// lookup returns nil when no usable snapshot exists for userID.
func (s *SessionService) lookup(ctx context.Context, userID string) (*model.User, error) {
	data, ok, err := s.cache.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil || user.ID.IsZero() || user.ID.Hex() != userID {
		return nil, nil
	}
	return &user, nil
}

func (s *SessionService) mint(user model.User) (model.Session, error) {
	id := user.ID.Hex()
	now := s.now()

	access, err := s.tokens.Issue(token.NewSessionClaims(id, token.KindAccess), s.cfg.AccessSecret, s.cfg.AccessTTL)
	if err != nil {
		return model.Session{}, err
	}

	refresh, err := s.tokens.Issue(token.NewSessionClaims(id, token.KindRefresh), s.cfg.RefreshSecret, s.cfg.RefreshTTL)
	if err != nil {
		return model.Session{}, err
	}

	user.Password = ""
	return model.Session{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  now.Add(s.cfg.AccessTTL),
		RefreshExpiresAt: now.Add(s.cfg.RefreshTTL),
		User:             user,
	}, nil
}
