package service

import (
	"strings"
	"testing"

	"accessfirst/internal/domain"
	"accessfirst/internal/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestSpeechToSign(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []domain.SignCard
	}{
		{
			name:     "empty",
			text:     "   ",
			expected: []domain.SignCard{},
		},
		{
			name: "known and unknown words",
			text: "Hello thank you help",
			expected: []domain.SignCard{
				{Word: "Hello", Emoji: "👋"},
				{Word: "thank", Emoji: "🙏"},
				{Word: "you", Emoji: "🤟"},
				{Word: "help", Emoji: "🆘"},
			},
		},
		{
			name: "case insensitive",
			text: "YES no Good hi",
			expected: []domain.SignCard{
				{Word: "YES", Emoji: "👍"},
				{Word: "no", Emoji: "👎"},
				{Word: "Good", Emoji: "🌟"},
				{Word: "hi", Emoji: "👋"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.expected, SpeechToSign(tt.text)); diff != "" {
				t.Errorf("SpeechToSign() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSpeechToSign_FirstTwelveWords(t *testing.T) {
	cards := SpeechToSign(strings.Repeat("word ", 20))
	assert.Len(t, cards, 12)
}

func TestSignService_TranslateLogs(t *testing.T) {
	history, _ := newTestHistoryService()
	svc := NewSignService(history)

	cards := svc.Translate("hello friend")
	assert.Len(t, cards, 2)

	assert.Empty(t, svc.Translate(""))

	entries := history.List()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, domain.EntrySpeechToSign, entries[0].Kind)
		assert.Equal(t, "hello friend", entries[0].Text)
	}
}

func TestSignService_SpeakPhrase(t *testing.T) {
	s, _ := testutil.NewMemoryStore()
	history := NewHistoryService(s, testutil.NewTestLogger())
	svc := NewSignService(history)
	phrase := &Phrase{}

	_, ok := svc.SpeakPhrase(phrase)
	assert.False(t, ok)

	phrase.Append("hello")
	phrase.Append("  ")
	assert.Equal(t, "hello thank", phrase.Append("thank"))

	text, ok := svc.SpeakPhrase(phrase)
	assert.True(t, ok)
	assert.Equal(t, "hello thank", text)
	assert.Equal(t, domain.EntrySignToSpeech, history.List()[0].Kind)

	phrase.Clear()
	assert.Empty(t, phrase.Text())
}

func TestPaletteWordsHaveSigns(t *testing.T) {
	for _, w := range Palette {
		assert.NotEqual(t, fallbackSign, SpeechToSign(w)[0].Emoji, w)
	}
}
