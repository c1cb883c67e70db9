package handler

import (
	"accessfirst/internal/domain"
	"accessfirst/internal/i18n"
	"accessfirst/internal/middleware"
	"accessfirst/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Sender delivers messages to a chat; *tele.Bot implements it
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// ChatOutput renders reminders and the demo tour as chat messages
type ChatOutput struct {
	sender    Sender
	chat      tele.Recipient
	enabled   bool
	catalog   *i18n.Catalog
	languages service.LanguageSource
	logger    *zap.Logger
}

// NewChatOutput creates the output of one chat
func NewChatOutput(sender Sender, chatID int64, catalog *i18n.Catalog, languages service.LanguageSource, logger *zap.Logger) *ChatOutput {
	return &ChatOutput{
		sender:    sender,
		chat:      tele.ChatID(chatID),
		enabled:   chatID != 0,
		catalog:   catalog,
		languages: languages,
		logger:    logger.With(zap.Int64("chat_id", chatID)),
	}
}

// OutputFactory returns a service.OutputFactory that writes to chats
// addressed by their namespace.
func OutputFactory(sender Sender, catalog *i18n.Catalog, logger *zap.Logger) service.OutputFactory {
	return func(namespace string, languages service.LanguageSource) service.SessionOutput {
		chatID, ok := middleware.ChatID(namespace)
		if !ok {
			logger.Warn("Namespace is not a chat, output disabled", zap.String("namespace", namespace))
		}
		return NewChatOutput(sender, chatID, catalog, languages, logger)
	}
}

func (o *ChatOutput) send(text string) {
	if !o.enabled {
		return
	}
	if _, err := o.sender.Send(o.chat, text); err != nil {
		o.logger.Warn("Failed to deliver message", zap.Error(err))
	}
}

func (o *ChatOutput) t(key string) string {
	return o.catalog.T(o.languages.Get(), key)
}

// Banner shows the reminder banner
func (o *ChatOutput) Banner(text string) {
	o.send("🔔 " + o.t("login_reminder_title") + "\n" + text)
}

// Speak is the spoken side channel
func (o *ChatOutput) Speak(text string) {
	o.send(speakPrefix + text)
}

// SignCue shows the sign-style reminder
func (o *ChatOutput) SignCue(text string) {
	o.send("🤟 " + text)
}

func (o *ChatOutput) ShowView(view domain.ViewID) {
	o.send(viewText(o.catalog, o.languages.Get(), view))
}

func (o *ChatOutput) ShowSigns(cards []domain.SignCard) {
	o.send(formatSigns(cards))
}

func (o *ChatOutput) Announce(text string) {
	o.send("📣 " + text)
}
