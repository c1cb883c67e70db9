package handler

import (
	"strings"

	"accessfirst/internal/domain"
	"accessfirst/internal/service"

	tele "gopkg.in/telebot.v3"
)

// handlePrefs shows the current preferences
func (h *Handler) handlePrefs(c tele.Context) error {
	s := h.session(c)
	return h.render(c, s, s.Navigator.GoTo(domain.ViewSettings))
}

// handleContrast toggles high contrast
func (h *Handler) handleContrast(c tele.Context) error {
	s := h.session(c)
	return h.sendPrefs(c, s, s.Preferences.ToggleContrast())
}

// handleMotion toggles reduced motion
func (h *Handler) handleMotion(c tele.Context) error {
	s := h.session(c)
	return h.sendPrefs(c, s, s.Preferences.ToggleReduceMotion())
}

// handleFont handles /font small|medium|large
func (h *Handler) handleFont(c tele.Context) error {
	s := h.session(c)

	args := c.Args()
	if len(args) != 1 {
		return h.sendKey(c, s, "usage_font")
	}
	size := domain.FontSize(strings.ToLower(args[0]))
	if !size.Valid() {
		return h.sendKey(c, s, "usage_font")
	}
	return h.savePrefs(c, domain.PreferencesPatch{FontSize: &size})
}

// handleDemo toggles demo mode, running the tour while it is on
func (h *Handler) handleDemo(c tele.Context) error {
	s := h.session(c)

	if s.Preferences.Get().DemoMode || s.Demo.Running() {
		s.Demo.Stop()
		return h.sendKey(c, s, "prefs_saved")
	}

	on := true
	s.Preferences.Update(domain.PreferencesPatch{DemoMode: &on})
	s.Demo.Start()
	return nil
}

// handleResetPrefs restores the default preferences
func (h *Handler) handleResetPrefs(c tele.Context) error {
	s := h.session(c)
	if s.Demo.Running() {
		s.Demo.Stop()
	}
	return h.sendPrefs(c, s, s.Preferences.Reset())
}

func (h *Handler) savePrefs(c tele.Context, patch domain.PreferencesPatch) error {
	s := h.session(c)
	return h.sendPrefs(c, s, s.Preferences.Update(patch))
}

func (h *Handler) sendPrefs(c tele.Context, s *service.Session, prefs domain.Preferences) error {
	lang := s.Language.Get()
	return c.Send(h.t(s, "prefs_saved")+"\n\n"+formatPreferences(h.catalog, lang, prefs), h.backMarkup(lang))
}
