package handler

import (
	"context"

	"accessfirst/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// credentials extracts "<name> <password>" from command arguments.
// The password may not contain spaces; the name is the first argument.
func credentials(args []string) (name, password string, ok bool) {
	if len(args) != 2 {
		return "", "", false
	}
	return args[0], args[1], true
}

// handleSignup handles /signup <name> <password>
func (h *Handler) handleSignup(c tele.Context) error {
	s := h.session(c)

	name, password, ok := credentials(c.Args())
	if !ok {
		return h.sendKey(c, s, "usage_signup")
	}
	h.deleteCredentialMessage(c)

	p, err := s.SignUp(context.Background(), name, password)
	if err != nil {
		h.logger.Info("Signup failed", zap.String("namespace", s.Namespace), zap.Error(err))
		return h.sendError(c, s, err)
	}

	h.logger.Info("User signed up", zap.String("namespace", s.Namespace), zap.String("profile_id", p.ID))
	if err := c.Send(h.t(s, "profile_saved") + ": " + p.DisplayName); err != nil {
		return err
	}
	return h.render(c, s, s.Navigator.GoTo(domain.ViewAccessChoice))
}

// handleLogin handles /login <name> <password>
func (h *Handler) handleLogin(c tele.Context) error {
	s := h.session(c)

	name, password, ok := credentials(c.Args())
	if !ok {
		return h.sendKey(c, s, "usage_login")
	}
	h.deleteCredentialMessage(c)

	p, err := s.LogIn(context.Background(), name, password)
	if err != nil {
		return h.sendError(c, s, err)
	}

	if err := c.Send(h.t(s, "logged_in") + ": " + p.DisplayName); err != nil {
		return err
	}
	switch p.AccessibilityMode {
	case domain.ModeBlind:
		return h.render(c, s, s.Navigator.GoTo(domain.ViewBlindFlow))
	case domain.ModeDeaf:
		return h.render(c, s, s.Navigator.GoTo(domain.ViewDeafFlow))
	}
	return h.render(c, s, s.Navigator.GoTo(domain.ViewAccessChoice))
}

// handleLogout handles /logout
func (h *Handler) handleLogout(c tele.Context) error {
	s := h.session(c)
	s.Profiles.SignOut()
	s.Navigator.Reset()
	return h.sendKey(c, s, "logged_out", h.homeMarkup(s.Language.Get()))
}

// deleteCredentialMessage removes a message that carried a password
func (h *Handler) deleteCredentialMessage(c tele.Context) {
	msg := c.Message()
	if msg == nil || h.bot == nil {
		return
	}
	if err := h.bot.Delete(msg); err != nil {
		h.logger.Debug("Failed to delete credential message", zap.Error(err))
	}
}
