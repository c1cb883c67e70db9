package handler

import (
	"accessfirst/internal/domain"
	"accessfirst/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	s := h.session(c)

	h.logger.Info("User started bot",
		zap.Int64("user_id", c.Sender().ID),
		zap.String("username", c.Sender().Username),
		zap.String("namespace", s.Namespace),
	)

	s.Navigator.Reset()
	return h.render(c, s, domain.ViewHome)
}

// handleHome handles /home command
func (h *Handler) handleHome(c tele.Context) error {
	s := h.session(c)
	s.Navigator.Reset()
	return h.render(c, s, domain.ViewHome)
}

// handleBack handles /back and the back button
func (h *Handler) handleBack(c tele.Context) error {
	s := h.session(c)
	return h.render(c, s, s.Navigator.GoBack())
}

// handleGetStarted opens the access choice page
func (h *Handler) handleGetStarted(c tele.Context) error {
	s := h.session(c)
	return h.render(c, s, s.Navigator.GoTo(domain.ViewAccessChoice))
}

// handleSettings opens the settings page
func (h *Handler) handleSettings(c tele.Context) error {
	s := h.session(c)
	return h.render(c, s, s.Navigator.GoTo(domain.ViewSettings))
}

// handleGuest creates a guest profile and opens the access choice page
func (h *Handler) handleGuest(c tele.Context) error {
	s := h.session(c)
	p := s.Profiles.CreateGuest(s.Language.Get())

	if err := c.Send(h.t(s, "continue_guest") + " " + p.DisplayName); err != nil {
		return err
	}
	return h.render(c, s, s.Navigator.GoTo(domain.ViewAccessChoice))
}

// handleBlind selects the blind flow, creating a guest when needed
func (h *Handler) handleBlind(c tele.Context) error {
	return h.selectMode(c, domain.ModeBlind, domain.ViewBlindFlow)
}

// handleDeaf selects the deaf flow, creating a guest when needed
func (h *Handler) handleDeaf(c tele.Context) error {
	return h.selectMode(c, domain.ModeDeaf, domain.ViewDeafFlow)
}

func (h *Handler) selectMode(c tele.Context, mode domain.AccessibilityMode, view domain.ViewID) error {
	s := h.session(c)
	s.EnsureProfile()

	if _, err := s.Profiles.SetAccessibilityMode(mode); err != nil {
		return h.sendError(c, s, err)
	}
	return h.render(c, s, s.Navigator.GoTo(view))
}

// handleVoice toggles voice feedback on the current profile
func (h *Handler) handleVoice(c tele.Context) error {
	s := h.session(c)

	p, err := s.Profiles.ToggleVoiceFeedback()
	if err != nil {
		return h.sendError(c, s, err)
	}
	if p.VoiceFeedbackEnabled {
		return h.sendKey(c, s, "enable_voice")
	}
	return h.sendKey(c, s, "disable_voice")
}

// handleLang handles /lang <en|am>
func (h *Handler) handleLang(c tele.Context) error {
	s := h.session(c)

	args := c.Args()
	if len(args) != 1 {
		return h.sendKey(c, s, "usage_lang")
	}
	lang, ok := domain.ParseLanguage(args[0])
	if !ok {
		return h.sendKey(c, s, "usage_lang")
	}
	if err := s.SetLanguage(lang); err != nil {
		return h.sendError(c, s, err)
	}
	return h.render(c, s, s.Navigator.Current())
}

// render sends the page of view with its keyboard
func (h *Handler) render(c tele.Context, s *service.Session, view domain.ViewID) error {
	lang := s.Language.Get()
	text := viewText(h.catalog, lang, view)

	var markup *tele.ReplyMarkup
	switch view {
	case domain.ViewHome:
		markup = h.homeMarkup(lang)
	case domain.ViewAccessChoice:
		markup = h.accessChoiceMarkup(lang)
	case domain.ViewDeafFlow:
		markup = h.paletteMarkup(lang)
	case domain.ViewSettings:
		text += "\n\n" + formatPreferences(h.catalog, lang, s.Preferences.Get())
		markup = h.backMarkup(lang)
	case domain.ViewHistory:
		text += "\n\n" + formatHistory(h.catalog, lang, s.History.List())
		markup = h.backMarkup(lang)
	default:
		markup = h.backMarkup(lang)
	}

	// Edit message if callback, send new if command
	if c.Callback() != nil {
		if err := c.Edit(text, markup); err != nil {
			if handleErr := h.handleEditError(err, c, c.Chat().ID); handleErr == nil {
				return nil
			}
			return c.Send(text, markup)
		}
		return c.Respond()
	}
	return c.Send(text, markup)
}
