package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"faithconnect/community-api/db"
	"faithconnect/community-api/internal/store"
	"faithconnect/community-api/pkg/security"

	"github.com/stretchr/testify/require"
)

type sentMail struct {
	To, Name, Token string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendVerification(_ context.Context, to, name, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	m.sent = append(m.sent, sentMail{to, name, token})
	return nil
}

func (m *fakeMailer) last(t *testing.T) sentMail {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	require.NotEmpty(t, m.sent, "no mail sent")
	return m.sent[len(m.sent)-1]
}

type env struct {
	users   *store.UserStore
	auth    *AuthService
	posts   *PostService
	prayers *PrayerService
	mailer  *fakeMailer
	tokens  *security.TokenIssuer
}

func newEnv(t *testing.T) *env {
	t.Helper()

	d, err := db.NewMemory()
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := d.DB(); err == nil {
			sqlDB.Close()
		}
	})

	hasher := security.NewFast()
	tokens, err := security.NewTokenIssuer("test-secret", 0)
	require.NoError(t, err)

	e := &env{
		users:  store.NewUserStore(d, hasher),
		mailer: &fakeMailer{},
		tokens: tokens,
	}

	e.auth = NewAuthService(AuthOptions{
		Users:           e.users,
		Passwords:       hasher,
		Tokens:          tokens,
		Mailer:          e.mailer,
		VerificationTTL: time.Hour,
	})
	e.posts = NewPostService(store.NewPostStore(d))
	e.prayers = NewPrayerService(store.NewPrayerStore(d))

	return e
}

var errBoom = errors.New("boom")

func requireKind(t *testing.T, err error, k Kind) {
	t.Helper()

	require.Error(t, err)
	require.Equal(t, k, KindOf(err), "got %v", err)
}
