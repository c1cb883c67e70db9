package store_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"accessfirst/internal/domain"
	"accessfirst/internal/repository/memory"
	"accessfirst/internal/store"
	"accessfirst/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestGet_DefaultOnBadValues(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		raw         string
		store       bool
		expectWarn  bool
		expectedErr error
	}{
		{
			name:  "missing key",
			key:   domain.KeyPreferences,
			store: false,
		},
		{
			name:        "not json",
			key:         domain.KeyPreferences,
			raw:         "{contrast:",
			store:       true,
			expectWarn:  true,
			expectedErr: domain.ErrCorrupted,
		},
		{
			name:        "wrong field type",
			key:         domain.KeyPreferences,
			raw:         `{"contrast":"yes"}`,
			store:       true,
			expectWarn:  true,
			expectedErr: domain.ErrCorrupted,
		},
		{
			name:        "enum violation",
			key:         domain.KeyPreferences,
			raw:         `{"fontSize":"gigantic"}`,
			store:       true,
			expectWarn:  true,
			expectedErr: domain.ErrCorrupted,
		},
		{
			name:        "array instead of object",
			key:         domain.KeyPreferences,
			raw:         `[1,2,3]`,
			store:       true,
			expectWarn:  true,
			expectedErr: domain.ErrCorrupted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := memory.NewBackend()
			if tt.store {
				require.NoError(t, backend.Set(context.Background(), "test", tt.key, tt.raw))
			}
			logger, logs := testutil.NewObservedLogger()
			s := testutil.NewTestStore(backend, logger)

			got := store.Get(s, tt.key, domain.DefaultPreferences())

			assert.Equal(t, domain.DefaultPreferences(), got)

			warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
			if !tt.expectWarn {
				assert.Empty(t, warnings)
				return
			}
			require.Len(t, warnings, 1)
			err, ok := warnings[0].ContextMap()["error"]
			require.True(t, ok)
			assert.Contains(t, err, tt.expectedErr.Error())
		})
	}
}

func TestGet_PartialRecordIsDefaultFilled(t *testing.T) {
	backend := memory.NewBackend()
	require.NoError(t, backend.Set(context.Background(), "test", domain.KeyPreferences, `{"contrast":true}`))
	s := testutil.NewTestStore(backend, testutil.NewTestLogger())

	got := store.Get(s, domain.KeyPreferences, domain.DefaultPreferences())

	assert.Equal(t, domain.Preferences{Contrast: true, FontSize: domain.FontMedium}, got)
}

func TestLookup_ProfilePrefixSchema(t *testing.T) {
	backend := memory.NewBackend()
	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, "test", "profile:amina", `{"id":"amina","kind":"registered","accessibilityMode":"blind"}`))
	require.NoError(t, backend.Set(ctx, "test", "profile:broken", `{"id":"broken","kind":"admin"}`))
	require.NoError(t, backend.Set(ctx, "test", domain.KeyCurrentProfile, `"amina"`))
	s := testutil.NewTestStore(backend, testutil.NewTestLogger())

	p, found := store.Lookup[domain.Profile](s, "profile:amina")
	assert.True(t, found)
	assert.Equal(t, domain.ModeBlind, p.AccessibilityMode)

	_, found = store.Lookup[domain.Profile](s, "profile:broken")
	assert.False(t, found)

	// exact pattern wins over the profile: prefix
	id, found := store.Lookup[string](s, domain.KeyCurrentProfile)
	assert.True(t, found)
	assert.Equal(t, "amina", id)
}

func TestSet_RoundTrip(t *testing.T) {
	s, backend := testutil.NewMemoryStore()

	entries := []domain.HistoryEntry{{Kind: domain.EntryTextToSpeech, Text: "Hello", Timestamp: 42}}
	s.Set(domain.KeyHistory, entries)

	raw, found, err := backend.Get(context.Background(), "test", domain.KeyHistory)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `[{"kind":"text_to_speech","text":"Hello","timestamp":42}]`, raw)

	assert.Equal(t, entries, store.Get[[]domain.HistoryEntry](s, domain.KeyHistory, nil))
}

func TestSet_CorruptedValueOverwritten(t *testing.T) {
	backend := memory.NewBackend()
	require.NoError(t, backend.Set(context.Background(), "test", domain.KeyLanguage, `"fr"`))
	s := testutil.NewTestStore(backend, testutil.NewTestLogger())

	assert.Equal(t, domain.LanguageEnglish, store.Get(s, domain.KeyLanguage, domain.LanguageEnglish))

	s.Set(domain.KeyLanguage, domain.LanguageAmharic)

	assert.Equal(t, domain.LanguageAmharic, store.Get(s, domain.KeyLanguage, domain.LanguageEnglish))
}

func TestStore_BackendFailuresAreSwallowed(t *testing.T) {
	backend := new(testutil.MockBackend)
	backendErr := errors.New("quota exceeded")
	backend.On("Get", mock.Anything, "test", domain.KeyPreferences).Return("", false, backendErr)
	backend.On("Set", mock.Anything, "test", domain.KeyPreferences, mock.Anything).Return(backendErr)
	backend.On("Delete", mock.Anything, "test", domain.KeyPreferences).Return(backendErr)

	logger, logs := testutil.NewObservedLogger()
	s := testutil.NewTestStore(backend, logger)

	got := store.Get(s, domain.KeyPreferences, domain.DefaultPreferences())
	assert.Equal(t, domain.DefaultPreferences(), got)

	assert.NotPanics(t, func() {
		s.Set(domain.KeyPreferences, domain.DefaultPreferences())
		s.Remove(domain.KeyPreferences)
	})

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 3)
	for _, w := range warnings {
		assert.Contains(t, w.ContextMap()["error"], domain.ErrStorageUnavailable.Error())
		assert.Equal(t, "test", w.ContextMap()["namespace"])
	}
	backend.AssertExpectations(t)
}

func TestStore_TimeoutIsApplied(t *testing.T) {
	backend := new(testutil.MockBackend)
	backend.On("Set", mock.MatchedBy(func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		return ok && time.Until(deadline) <= 50*time.Millisecond
	}), "test", "k", `"v"`).Return(nil)

	s := store.New(backend, "test", testutil.NewTestLogger(), store.WithTimeout(50*time.Millisecond))
	s.Set("k", "v")

	backend.AssertExpectations(t)
}

func TestStore_UnencodableValue(t *testing.T) {
	backend := new(testutil.MockBackend)
	logger, logs := testutil.NewObservedLogger()
	s := store.New(backend, "test", logger)

	s.Set("bad", make(chan int))

	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	backend.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStore_NoSchemaAcceptsAnything(t *testing.T) {
	backend := memory.NewBackend()
	s := store.New(backend, "plain", testutil.NewTestLogger())

	s.Set("counter", 7)
	assert.Equal(t, 7, store.Get(s, "counter", 0))
	assert.Equal(t, "plain", s.Namespace())
}

func TestSchemaSet_For(t *testing.T) {
	set := store.NewSchemaSet()
	require.NoError(t, set.Add("profile:*", []byte(`{"type":"object"}`)))
	require.NoError(t, set.Add("profile:current", []byte(`{"type":"string"}`)))
	require.NoError(t, set.Add("prof*", []byte(`{"type":"array"}`)))

	assert.NotNil(t, set.For("profile:amina"))
	assert.NotNil(t, set.For("profile:current"))
	assert.NotNil(t, set.For("profession"))
	assert.Nil(t, set.For("history"))

	var nilSet *store.SchemaSet
	assert.Nil(t, nilSet.For("anything"))

	assert.Error(t, set.Add("broken", []byte(`{"type": 12}`)))
}

func ExampleGet() {
	s, _ := testutil.NewMemoryStore()
	s.Set(domain.KeyLanguage, domain.LanguageAmharic)
	fmt.Println(store.Get(s, domain.KeyLanguage, domain.LanguageEnglish))
	// Output: am
}

func TestFetch_SeparatesMissingFromUnknown(t *testing.T) {
	backend := new(testutil.MockBackend)
	backend.On("Get", mock.Anything, "test", "profile:missing").Return("", false, nil)
	backend.On("Get", mock.Anything, "test", "profile:down").Return("", false, errors.New("connection reset"))
	backend.On("Get", mock.Anything, "test", "profile:bad").Return(`{"id":"bad","kind":"superuser"}`, true, nil)
	backend.On("Get", mock.Anything, "test", "profile:ok").Return(`{"id":"ok","kind":"guest"}`, true, nil)

	s := testutil.NewTestStore(backend, testutil.NewTestLogger())

	tests := []struct {
		name        string
		key         string
		found       bool
		expectedErr error
	}{
		{name: "missing", key: "profile:missing"},
		{name: "backend fault", key: "profile:down", expectedErr: domain.ErrStorageUnavailable},
		{name: "corrupted", key: "profile:bad", expectedErr: domain.ErrCorrupted},
		{name: "present", key: "profile:ok", found: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, found, err := store.Fetch[domain.Profile](s, tt.key)
			assert.Equal(t, tt.found, found)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			assert.NoError(t, err)
			if tt.found {
				assert.Equal(t, "ok", p.ID)
			}
		})
	}
	backend.AssertExpectations(t)
}
