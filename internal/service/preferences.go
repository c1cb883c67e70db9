package service

import (
	"sync"

	"accessfirst/internal/domain"
	"accessfirst/internal/store"

	"go.uber.org/zap"
)

// PreferenceService owns the accessibility preferences of one namespace
type PreferenceService struct {
	store  *store.Store
	logger *zap.Logger

	mu    sync.Mutex
	prefs domain.Preferences
}

// NewPreferenceService loads the stored preferences, defaulting what is missing
func NewPreferenceService(s *store.Store, logger *zap.Logger) *PreferenceService {
	return &PreferenceService{
		store:  s,
		logger: logger,
		prefs:  store.Get(s, domain.KeyPreferences, domain.DefaultPreferences()),
	}
}

// Get returns the current preferences
func (s *PreferenceService) Get() domain.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// Update merges the fields set in patch and persists the result
func (s *PreferenceService) Update(patch domain.PreferencesPatch) domain.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.FontSize != nil && !patch.FontSize.Valid() {
		s.logger.Warn("Ignoring unknown font size", zap.String("font_size", string(*patch.FontSize)))
		patch.FontSize = nil
	}
	if patch.Empty() {
		return s.prefs
	}

	s.prefs = s.prefs.Apply(patch)
	s.store.Set(domain.KeyPreferences, s.prefs)
	return s.prefs
}

// ToggleContrast flips high contrast and persists the result
func (s *PreferenceService) ToggleContrast() domain.Preferences {
	return s.toggle(func(p *domain.Preferences) { p.Contrast = !p.Contrast })
}

// ToggleReduceMotion flips reduced motion and persists the result
func (s *PreferenceService) ToggleReduceMotion() domain.Preferences {
	return s.toggle(func(p *domain.Preferences) { p.ReduceMotion = !p.ReduceMotion })
}

func (s *PreferenceService) toggle(flip func(p *domain.Preferences)) domain.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	flip(&s.prefs)
	s.store.Set(domain.KeyPreferences, s.prefs)
	return s.prefs
}

// Reset restores and persists the defaults
func (s *PreferenceService) Reset() domain.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs = domain.DefaultPreferences()
	s.store.Set(domain.KeyPreferences, s.prefs)
	return s.prefs
}

// Adopt replaces the preferences with a profile's embedded snapshot
func (s *PreferenceService) Adopt(p domain.Preferences) domain.Preferences {
	if !p.FontSize.Valid() {
		p.FontSize = domain.FontMedium
	}
	return s.Update(domain.PatchFrom(p))
}
