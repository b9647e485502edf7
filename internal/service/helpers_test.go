package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"go-course-platform/internal/cache"
	"go-course-platform/internal/mail"
	"go-course-platform/internal/model"
	"go-course-platform/internal/repository"
	"go-course-platform/internal/token"
)

const (
	testAccessTTL  = 5 * time.Minute
	testRefreshTTL = 7 * 24 * time.Hour
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// fakeUserStore mimics the users collection including its unique email index.
type fakeUserStore struct {
	mu    sync.Mutex
	byID  map[bson.ObjectID]model.User
	blind bool // ExistsByEmail always reports false, as in a registration race
	err   error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: map[bson.ObjectID]model.User{}}
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	oid, err := repository.ParseID(id)
	if err != nil {
		return model.User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return model.User{}, f.err
	}
	u, ok := f.byID[oid]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return model.User{}, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (f *fakeUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if f.blind {
		return false, nil
	}
	_, err := f.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (f *fakeUserStore) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.emailTakenLocked(u.Email, bson.NilObjectID) {
		return repository.TranslateWriteError(duplicateEmail())
	}
	u.ID = bson.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUserStore) Update(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[u.ID]; !ok {
		return model.ErrUserNotFound
	}
	if f.emailTakenLocked(u.Email, u.ID) {
		return repository.TranslateWriteError(duplicateEmail())
	}
	u.UpdatedAt = time.Now().UTC()
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUserStore) emailTakenLocked(email string, except bson.ObjectID) bool {
	for id, existing := range f.byID {
		if id != except && existing.Email == email {
			return true
		}
	}
	return false
}

func (f *fakeUserStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

func (f *fakeUserStore) seed(t *testing.T, u model.User) model.User {
	t.Helper()
	require.NoError(t, f.Create(context.Background(), &u))
	return u
}

func duplicateEmail() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: "E11000 duplicate key error collection: lms.users index: email_1 dup key",
	}}}
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Activation
	to   []string
	err  error
}

func (m *recordingMailer) SendActivation(_ context.Context, to string, data mail.Activation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.to = append(m.to, to)
	m.sent = append(m.sent, data)
	return nil
}

func (m *recordingMailer) lastCode(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1].Code
}

type testEnv struct {
	clock    *fakeClock
	redis    *miniredis.Miniredis
	users    *fakeUserStore
	mailer   *recordingMailer
	tokens   *token.Service
	sessions *SessionService
	auth     *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := &fakeClock{t: time.Now().UTC().Truncate(time.Second)}
	tokens := token.NewService().WithClock(clock.Now)
	sessions := NewSessionService(cache.NewSessionCache(client), tokens, SessionConfig{
		AccessSecret:  "access-secret",
		AccessTTL:     testAccessTTL,
		RefreshSecret: "refresh-secret",
		RefreshTTL:    testRefreshTTL,
	})

	users := newFakeUserStore()
	mailer := &recordingMailer{}
	auth := NewAuthService(users, sessions, tokens, mailer, ActivationConfig{Secret: "activation-secret", TTL: 5 * time.Minute})

	return &testEnv{
		clock:    clock,
		redis:    mr,
		users:    users,
		mailer:   mailer,
		tokens:   tokens,
		sessions: sessions,
		auth:     auth,
	}
}

func sessionKey(u model.User) string {
	return "session:" + u.ID.Hex()
}
