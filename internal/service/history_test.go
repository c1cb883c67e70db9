package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"accessfirst/internal/domain"
	"accessfirst/internal/repository/memory"
	"accessfirst/internal/store"
	"accessfirst/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistoryService() (*HistoryService, *store.Store) {
	s, _ := testutil.NewMemoryStore()
	return NewHistoryService(s, testutil.NewTestLogger()), s
}

func TestHistoryService_CapacityEvictsOldest(t *testing.T) {
	for _, k := range []int{0, 1, 7, domain.HistoryCapacity, domain.HistoryCapacity + 3} {
		t.Run(fmt.Sprintf("overflow %d", k), func(t *testing.T) {
			svc, s := newTestHistoryService()
			total := domain.HistoryCapacity + k
			for i := 0; i < total; i++ {
				_, err := svc.Append(domain.HistoryEntry{Kind: domain.EntrySpeechToText, Text: fmt.Sprint(i), Timestamp: 1})
				require.NoError(t, err)
			}

			got := svc.List()

			require.Len(t, got, domain.HistoryCapacity)
			for i, e := range got {
				assert.Equal(t, fmt.Sprint(total-1-i), e.Text)
			}
			assert.Len(t, store.Get[[]domain.HistoryEntry](s, domain.KeyHistory, nil), domain.HistoryCapacity)
		})
	}
}

func TestHistoryService_AppendStampsTimestamp(t *testing.T) {
	svc, _ := newTestHistoryService()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	e, err := svc.Append(domain.HistoryEntry{Kind: domain.EntryTextToSpeech, Text: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, fixed.UnixMilli(), e.Timestamp)

	e, err = svc.Append(domain.HistoryEntry{Kind: domain.EntryTextToSpeech, Text: "Kept", Timestamp: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(5), e.Timestamp)

	// order follows insertion, not timestamps
	got := svc.List()
	assert.Equal(t, "Kept", got[0].Text)
	assert.Equal(t, "Hello", got[1].Text)
}

func TestHistoryService_AppendRejectsUnknownKind(t *testing.T) {
	svc, _ := newTestHistoryService()

	_, err := svc.Append(domain.HistoryEntry{Kind: "gesture", Text: "x"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, svc.List())
}

func TestHistoryService_ListFilters(t *testing.T) {
	svc, _ := newTestHistoryService()
	svc.Log(domain.EntrySpeechToText, "stt")
	svc.Log(domain.EntryTextToSpeech, "tts")
	svc.Log(domain.EntrySignToSpeech, "s2s")
	svc.Log(domain.EntrySpeechToSign, "stsign")

	tests := []struct {
		name     string
		kinds    []domain.EntryKind
		expected []string
	}{
		{name: "all", expected: []string{"stsign", "s2s", "tts", "stt"}},
		{name: "one kind", kinds: []domain.EntryKind{domain.EntryTextToSpeech}, expected: []string{"tts"}},
		{name: "blind kinds", kinds: domain.BlindHistoryKinds, expected: []string{"stsign", "tts", "stt"}},
		{name: "deaf kinds", kinds: domain.DeafHistoryKinds, expected: []string{"stsign", "s2s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var texts []string
			for _, e := range svc.List(tt.kinds...) {
				texts = append(texts, e.Text)
			}
			assert.Equal(t, tt.expected, texts)
		})
	}
}

func TestHistoryService_Views(t *testing.T) {
	svc, _ := newTestHistoryService()
	for i := 0; i < 30; i++ {
		svc.Log(domain.EntrySpeechToSign, fmt.Sprint(i))
		svc.Log(domain.EntrySignToSpeech, fmt.Sprint(i))
	}

	blind := svc.BlindView()
	require.Len(t, blind, 20)
	for _, e := range blind {
		assert.Equal(t, domain.EntrySpeechToSign, e.Kind)
	}
	assert.Equal(t, "29", blind[0].Text)

	assert.Len(t, svc.DeafView(), 20)
	assert.Len(t, svc.Recent(3), 3)
}

func TestHistoryService_Clear(t *testing.T) {
	svc, s := newTestHistoryService()
	svc.Log(domain.EntrySpeechToText, "x")

	svc.Clear()

	assert.Empty(t, svc.List())
	_, found := store.Lookup[[]domain.HistoryEntry](s, domain.KeyHistory)
	assert.False(t, found)
}

func TestHistoryService_LoadCapsOversizedLog(t *testing.T) {
	entries := make([]string, domain.HistoryCapacity+5)
	for i := range entries {
		entries[i] = fmt.Sprintf(`{"kind":"speech_to_text","text":"%d","timestamp":1}`, i)
	}
	backend := memory.NewBackend()
	require.NoError(t, backend.Set(context.Background(), "test", domain.KeyHistory, "["+strings.Join(entries, ",")+"]"))

	svc := NewHistoryService(testutil.NewTestStore(backend, testutil.NewTestLogger()), testutil.NewTestLogger())

	got := svc.List()
	require.Len(t, got, domain.HistoryCapacity)
	assert.Equal(t, "0", got[0].Text)
}
