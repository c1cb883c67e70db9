package testutil

import (
	"fmt"
	"strings"
	"sync"

	tele "gopkg.in/telebot.v3"
)

// FakeContext is a tele.Context for handler tests. Only the methods the
// handlers use are implemented; others panic through the nil embedded
// interface.
type FakeContext struct {
	tele.Context

	ChatValue     *tele.Chat
	SenderValue   *tele.User
	TextValue     string
	CallbackValue *tele.Callback
	MessageValue  *tele.Message
	EditErr       error

	mu        sync.Mutex
	Sent      []string
	Markups   []*tele.ReplyMarkup
	Responses []*tele.CallbackResponse
	values    map[string]interface{}
}

// NewFakeContext creates a context for a private chat message
func NewFakeContext(chatID int64, text string) *FakeContext {
	return &FakeContext{
		ChatValue:   &tele.Chat{ID: chatID, Type: tele.ChatPrivate},
		SenderValue: &tele.User{ID: chatID, LanguageCode: "en"},
		TextValue:   text,
	}
}

func (c *FakeContext) Chat() *tele.Chat         { return c.ChatValue }
func (c *FakeContext) Sender() *tele.User       { return c.SenderValue }
func (c *FakeContext) Text() string             { return c.TextValue }
func (c *FakeContext) Callback() *tele.Callback { return c.CallbackValue }
func (c *FakeContext) Message() *tele.Message   { return c.MessageValue }

// Args splits the text after the command like telebot does for commands
func (c *FakeContext) Args() []string {
	if c.CallbackValue != nil {
		return nil
	}
	fields := strings.Fields(c.TextValue)
	if len(fields) > 0 && strings.HasPrefix(fields[0], "/") {
		return fields[1:]
	}
	return fields
}

func (c *FakeContext) Send(what interface{}, opts ...interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Sent = append(c.Sent, fmt.Sprint(what))
	var markup *tele.ReplyMarkup
	for _, opt := range opts {
		if m, ok := opt.(*tele.ReplyMarkup); ok {
			markup = m
		}
	}
	c.Markups = append(c.Markups, markup)
	return nil
}

func (c *FakeContext) Edit(what interface{}, opts ...interface{}) error {
	if c.EditErr != nil {
		return c.EditErr
	}
	return c.Send(what, opts...)
}

func (c *FakeContext) Respond(resp ...*tele.CallbackResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(resp) == 0 {
		c.Responses = append(c.Responses, nil)
		return nil
	}
	c.Responses = append(c.Responses, resp[0])
	return nil
}

func (c *FakeContext) Get(key string) interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key]
}

func (c *FakeContext) Set(key string, val interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[string]interface{})
	}
	c.values[key] = val
}

// LastSent returns the last sent text or ""
func (c *FakeContext) LastSent() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Sent) == 0 {
		return ""
	}
	return c.Sent[len(c.Sent)-1]
}

// SentMessage is one message delivered through a RecordingSender
type SentMessage struct {
	To   string
	Text string
}

// RecordingSender records messages sent to chats
type RecordingSender struct {
	mu       sync.Mutex
	Messages []SentMessage
	Err      error
}

func (s *RecordingSender) Send(to tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	s.Messages = append(s.Messages, SentMessage{To: to.Recipient(), Text: fmt.Sprint(what)})
	return &tele.Message{}, nil
}

// Snapshot returns a copy of the recorded messages
func (s *RecordingSender) Snapshot() []SentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SentMessage(nil), s.Messages...)
}
