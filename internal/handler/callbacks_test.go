package handler

import (
	"errors"
	"testing"
	"time"

	"accessfirst/internal/testutil"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v3"
)

func TestCleanCallbackData(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "normal string",
			input:    "sign_hello",
			expected: "sign_hello",
		},
		{
			name:     "string with whitespace",
			input:    "  sign_hello  ",
			expected: "sign_hello",
		},
		{
			name:     "string with newline",
			input:    "sign\nhello",
			expected: "signhello",
		},
		{
			name:     "string with form feed prefix",
			input:    "\fback",
			expected: "back",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "string with unprintable characters",
			input:    "sign\x00_yes\x01",
			expected: "sign_yes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cleanCallbackData(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCallbackKey(t *testing.T) {
	tests := []struct {
		name     string
		callback *tele.Callback
		expected string
	}{
		{
			name:     "unique wins",
			callback: &tele.Callback{Unique: "back", Data: "ignored"},
			expected: "back",
		},
		{
			name:     "falls back to data",
			callback: &tele.Callback{Data: " sign_help\n"},
			expected: "sign_help",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, callbackKey(tt.callback))
		})
	}
}

func TestHandleCallback_PaletteBuildsPhrase(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, word := range []string{"hello", "thank"} {
		c := testutil.NewFakeContext(7, "")
		c.CallbackValue = &tele.Callback{ID: "cb", Data: "\f" + signPrefix + word}
		runWithSession(t, h, h.handleCallback, c)

		if assert.Len(t, c.Responses, 1) && c.Responses[0] != nil {
			assert.Contains(t, c.Responses[0].Text, word)
		}
	}

	c := testutil.NewFakeContext(7, "/speak")
	runWithSession(t, h, h.handleSpeakPhrase, c)
	assert.Equal(t, []string{"🔊 hello thank", "Phrase spoken"}, c.Sent)
}

func TestHandleCallback_Routing(t *testing.T) {
	h, _ := newTestHandler(t)

	c := testutil.NewFakeContext(7, "")
	c.CallbackValue = &tele.Callback{ID: "cb", Data: "\fget_started"}
	runWithSession(t, h, h.handleCallback, c)

	assert.Contains(t, c.LastSent(), "Choose your experience")
	assert.Len(t, c.Responses, 1)

	c = testutil.NewFakeContext(7, "")
	c.CallbackValue = &tele.Callback{ID: "cb", Data: "\fback"}
	runWithSession(t, h, h.handleCallback, c)
	assert.Contains(t, c.LastSent(), "AccessFirst")

	c = testutil.NewFakeContext(7, "")
	c.CallbackValue = &tele.Callback{ID: "cb", Unique: "mystery"}
	runWithSession(t, h, h.handleCallback, c)
	assert.Empty(t, c.Sent)
	assert.Len(t, c.Responses, 1)
}

func TestHandleEditError(t *testing.T) {
	h, _ := newTestHandler(t)

	c := testutil.NewFakeContext(7, "")
	c.CallbackValue = &tele.Callback{ID: "cb"}
	assert.NoError(t, h.handleEditError(errors.New("telegram: message is not modified (400)"), c, 7))
	assert.Len(t, c.Responses, 1)

	other := errors.New("telegram: message to edit not found (400)")
	assert.Equal(t, other, h.handleEditError(other, c, 7))
	assert.Len(t, c.Responses, 2)

	assert.NoError(t, h.handleEditError(nil, c, 7))
}

func TestRender_EditFailureFallsBackToSend(t *testing.T) {
	h, _ := newTestHandler(t)

	c := testutil.NewFakeContext(7, "")
	c.CallbackValue = &tele.Callback{ID: "cb", Unique: "settings"}
	c.EditErr = errors.New("telegram: message can't be edited (400)")
	runWithSession(t, h, h.handleSettings, c)

	assert.Len(t, c.Sent, 1)
	assert.Contains(t, c.Sent[0], "Settings")
}

func TestSerializeChat(t *testing.T) {
	h, _ := newTestHandler(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	firstDone := make(chan struct{})
	secondRan := make(chan struct{})
	otherRan := make(chan struct{})

	first := h.serializeChat(func(tele.Context) error {
		close(entered)
		<-release
		return nil
	})
	second := h.serializeChat(func(tele.Context) error {
		close(secondRan)
		return nil
	})
	other := h.serializeChat(func(tele.Context) error {
		close(otherRan)
		return nil
	})

	go func() {
		defer close(firstDone)
		_ = first(testutil.NewFakeContext(7, "/contrast"))
	}()
	<-entered

	go func() { _ = second(testutil.NewFakeContext(7, "/contrast")) }()
	assert.NoError(t, other(testutil.NewFakeContext(8, "/contrast")))
	<-otherRan

	select {
	case <-secondRan:
		t.Fatal("second update of the chat ran while the first held the lock")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-firstDone
	select {
	case <-secondRan:
	case <-time.After(time.Second):
		t.Fatal("second update never ran")
	}
}
