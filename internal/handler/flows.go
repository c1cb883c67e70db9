package handler

import (
	"strings"

	"accessfirst/internal/domain"
	"accessfirst/internal/service"

	tele "gopkg.in/telebot.v3"
)

// handleText handles plain text based on the current view
func (h *Handler) handleText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if text == "" || strings.HasPrefix(text, "/") {
		return nil
	}

	s := h.session(c)
	switch s.Navigator.Current() {
	case domain.ViewBlindFlow:
		// transcribed speech arrives as text
		s.History.Log(domain.EntrySpeechToText, text)
		return c.Send("📝 " + text)
	case domain.ViewDeafFlow:
		return h.showSigns(c, s, text)
	}
	return h.render(c, s, s.Navigator.Current())
}

// handleSay speaks text back and logs it as text_to_speech
func (h *Handler) handleSay(c tele.Context) error {
	s := h.session(c)

	text := strings.Join(c.Args(), " ")
	if text == "" {
		return h.sendKey(c, s, "usage_say")
	}
	s.History.Log(domain.EntryTextToSpeech, text)
	return c.Send(speakPrefix + text)
}

// handleSign adds a palette word to the assembled phrase
func (h *Handler) handleSign(c tele.Context) error {
	s := h.session(c)

	args := c.Args()
	if len(args) == 0 {
		return h.sendKey(c, s, "usage_sign")
	}
	return c.Send("🤟 " + s.Phrase.Append(strings.Join(args, " ")))
}

// handleSpeakPhrase speaks the assembled phrase
func (h *Handler) handleSpeakPhrase(c tele.Context) error {
	s := h.session(c)

	text, ok := s.Signs.SpeakPhrase(s.Phrase)
	if !ok {
		return h.sendKey(c, s, "no_signs")
	}
	if err := c.Send(speakPrefix + text); err != nil {
		return err
	}
	return h.sendKey(c, s, "phrase_spoken")
}

// handleClearPhrase empties the assembled phrase
func (h *Handler) handleClearPhrase(c tele.Context) error {
	s := h.session(c)
	s.Phrase.Clear()
	return c.Send("🤟 …")
}

// handleHistory shows the history of the current flow
func (h *Handler) handleHistory(c tele.Context) error {
	s := h.session(c)
	lang := s.Language.Get()

	var entries []domain.HistoryEntry
	switch s.Navigator.Current() {
	case domain.ViewBlindFlow:
		entries = s.History.BlindView()
	case domain.ViewDeafFlow:
		entries = s.History.DeafView()
	default:
		return h.render(c, s, s.Navigator.GoTo(domain.ViewHistory))
	}
	return c.Send(formatHistory(h.catalog, lang, entries), h.backMarkup(lang))
}

// handleClearHistory empties the history log
func (h *Handler) handleClearHistory(c tele.Context) error {
	s := h.session(c)
	s.History.Clear()
	return h.sendKey(c, s, "history_cleared")
}

func (h *Handler) showSigns(c tele.Context, s *service.Session, text string) error {
	cards := s.Signs.Translate(text)
	return c.Send(formatSigns(cards), h.paletteMarkup(s.Language.Get()))
}
