package handler

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// signPrefix marks palette button callbacks
const signPrefix = "sign_"

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, chatID int64) error {
	if err == nil {
		return nil
	}

	// Already edited by another callback
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("chat_id", chatID),
			zap.String("callback_id", c.Callback().ID),
		)
		if ackErr := c.Respond(); ackErr != nil {
			h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
		}
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("chat_id", chatID),
		zap.String("callback_id", c.Callback().ID),
	)
	// Always acknowledge callback before sending new message
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// callbackKey returns the routing key of a callback. Buttons have no
// handlers of their own, so telebot leaves the unique inside the data.
func callbackKey(cb *tele.Callback) string {
	if cb.Unique != "" {
		return cleanCallbackData(cb.Unique)
	}
	return cleanCallbackData(cb.Data)
}

// handleCallback handles ALL callback queries; serializeChat holds the chat lock
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	key := callbackKey(callback)
	h.logger.Debug("handleCallback: Processing callback",
		zap.String("key", key),
		zap.String("data_raw", callback.Data),
		zap.String("id", callback.ID),
		zap.Int64("chat_id", c.Chat().ID),
	)

	switch key {
	case btnGetStarted.Unique:
		return h.handleGetStarted(c)
	case btnGuest.Unique:
		return h.handleGuest(c)
	case btnBlind.Unique:
		return h.handleBlind(c)
	case btnDeaf.Unique:
		return h.handleDeaf(c)
	case btnBack.Unique:
		return h.handleBack(c)
	case btnSettings.Unique:
		return h.handleSettings(c)
	}

	// Palette buttons
	if word, ok := strings.CutPrefix(key, signPrefix); ok && word != "" {
		s := h.session(c)
		phrase := s.Phrase.Append(word)
		return c.Respond(&tele.CallbackResponse{Text: phrase})
	}

	// If it's not handled, acknowledge it anyway
	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("key", key),
	)
	return c.Respond()
}
