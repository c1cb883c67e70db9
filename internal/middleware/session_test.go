package middleware

import (
	"testing"
	"time"

	"accessfirst/internal/domain"
	"accessfirst/internal/i18n"
	"accessfirst/internal/repository/memory"
	"accessfirst/internal/service"
	"accessfirst/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	tele "gopkg.in/telebot.v3"
)

type silentOutput struct {
	testutil.RecordingNotifier
	testutil.RecordingPresenter
}

func (o *silentOutput) Speak(text string) {
	o.RecordingNotifier.Speak(text)
}

func newTestRegistry(t *testing.T) *service.SessionRegistry {
	t.Helper()

	cfg := service.SessionConfig{
		Hasher:       service.NewBcryptHasher(bcrypt.MinCost),
		Catalog:      i18n.Default(),
		StoreTimeout: time.Second,
		NewTicker: func(time.Duration) service.Ticker {
			return testutil.NewManualTicker()
		},
	}
	outputs := func(string, service.LanguageSource) service.SessionOutput {
		return &silentOutput{}
	}
	registry := service.NewSessionRegistry(memory.NewBackend(), cfg, outputs, testutil.NewTestLogger())
	t.Cleanup(registry.Close)
	return registry
}

func TestChatNamespace(t *testing.T) {
	tests := []struct {
		name   string
		chatID int64
		ns     string
	}{
		{name: "private chat", chatID: 42, ns: "chat:42"},
		{name: "group chat", chatID: -100123, ns: "chat:-100123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ns, ChatNamespace(tt.chatID))

			id, ok := ChatID(tt.ns)
			assert.True(t, ok)
			assert.Equal(t, tt.chatID, id)
		})
	}
}

func TestChatID_Invalid(t *testing.T) {
	for _, ns := range []string{"", "test", "chat:", "chat:abc", "user:1"} {
		_, ok := ChatID(ns)
		assert.False(t, ok, ns)
	}
}

func TestSessionMiddleware(t *testing.T) {
	registry := newTestRegistry(t)
	mw := SessionMiddleware(registry, testutil.NewTestLogger())

	c := testutil.NewFakeContext(11, "/start")
	c.SenderValue.LanguageCode = "am-ET"

	var got *service.Session
	err := mw(func(c tele.Context) error {
		got = Session(c)
		return nil
	})(c)

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "chat:11", got.Namespace)
	assert.Equal(t, domain.LanguageAmharic, got.Language.Get())
	assert.Same(t, got, registry.Open("chat:11"))
}

func TestSessionMiddleware_NoChat(t *testing.T) {
	registry := newTestRegistry(t)
	mw := SessionMiddleware(registry, testutil.NewTestLogger())

	c := testutil.NewFakeContext(0, "")
	c.ChatValue = nil

	called := false
	err := mw(func(tele.Context) error {
		called = true
		return nil
	})(c)

	assert.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, 0, registry.Len())
}

func TestRequireProfile(t *testing.T) {
	registry := newTestRegistry(t)
	logger := testutil.NewTestLogger()
	chain := SessionMiddleware(registry, logger)

	calls := 0
	next := RequireProfile(i18n.Default(), logger)(func(tele.Context) error {
		calls++
		return nil
	})

	c := testutil.NewFakeContext(12, "/voice")
	require.NoError(t, chain(next)(c))
	assert.Equal(t, 0, calls)
	assert.Equal(t, "Continue as guest or log in first.", c.LastSent())

	registry.Open(ChatNamespace(12)).EnsureProfile()

	c = testutil.NewFakeContext(12, "/voice")
	require.NoError(t, chain(next)(c))
	assert.Equal(t, 1, calls)
	assert.Empty(t, c.Sent)
}

func TestRequireProfile_WithoutSession(t *testing.T) {
	called := false
	next := RequireProfile(i18n.Default(), testutil.NewTestLogger())(func(tele.Context) error {
		called = true
		return nil
	})

	assert.NoError(t, next(testutil.NewFakeContext(13, "/voice")))
	assert.False(t, called)
}
