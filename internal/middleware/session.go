package middleware

import (
	"strconv"
	"strings"

	"accessfirst/internal/i18n"
	"accessfirst/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	sessionKey      = "session"
	namespacePrefix = "chat:"
)

// ChatNamespace returns the store namespace of a chat
func ChatNamespace(chatID int64) string {
	return namespacePrefix + strconv.FormatInt(chatID, 10)
}

// ChatID extracts the chat id from a namespace built by ChatNamespace
func ChatID(namespace string) (int64, bool) {
	raw, ok := strings.CutPrefix(namespace, namespacePrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Session returns the session attached by SessionMiddleware
func Session(c tele.Context) *service.Session {
	s, _ := c.Get(sessionKey).(*service.Session)
	return s
}

// SessionMiddleware opens the session of the update's chat and attaches it
// to the context. The UI language is detected from the sender on first use.
func SessionMiddleware(sessions *service.SessionRegistry, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			chat := c.Chat()
			if chat == nil {
				logger.Warn("Update without chat, skipping")
				return nil
			}

			s := sessions.Open(ChatNamespace(chat.ID))
			if sender := c.Sender(); sender != nil {
				s.Language.Init(sender.LanguageCode)
			}
			c.Set(sessionKey, s)

			return next(c)
		}
	}
}

// RequireProfile rejects updates from chats without a current profile
func RequireProfile(catalog *i18n.Catalog, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			s := Session(c)
			if s == nil {
				logger.Error("RequireProfile used without SessionMiddleware")
				return nil
			}

			if s.Profiles.Current() == nil {
				return c.Send(catalog.T(s.Language.Get(), i18n.KeyErrNoCurrentProfile))
			}

			return next(c)
		}
	}
}
