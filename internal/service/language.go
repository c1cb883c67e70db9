package service

import (
	"fmt"
	"strings"
	"sync"

	"accessfirst/internal/domain"
	"accessfirst/internal/store"

	"go.uber.org/zap"
)

// LanguageService owns the persisted UI language
type LanguageService struct {
	store  *store.Store
	logger *zap.Logger

	mu     sync.Mutex
	lang   domain.Language
	stored bool
}

// NewLanguageService loads the stored language, defaulting to English
func NewLanguageService(s *store.Store, logger *zap.Logger) *LanguageService {
	lang, ok := store.Lookup[domain.Language](s, domain.KeyLanguage)
	if !ok || !lang.Valid() {
		lang, ok = domain.LanguageEnglish, false
	}
	return &LanguageService{store: s, logger: logger, lang: lang, stored: ok}
}

// DetectLanguage maps a locale tag such as "am-ET" to a supported language
func DetectLanguage(localeTag string) domain.Language {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(localeTag)), "am") {
		return domain.LanguageAmharic
	}
	return domain.LanguageEnglish
}

// Init persists the language detected from localeTag when none is stored yet
func (s *LanguageService) Init(localeTag string) domain.Language {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stored {
		return s.lang
	}
	s.lang = DetectLanguage(localeTag)
	s.stored = true
	s.store.Set(domain.KeyLanguage, s.lang)
	s.logger.Debug("Language detected", zap.String("locale", localeTag), zap.String("language", string(s.lang)))
	return s.lang
}

func (s *LanguageService) Get() domain.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

// Set changes and persists the language
func (s *LanguageService) Set(lang domain.Language) error {
	if !lang.Valid() {
		return fmt.Errorf("language %q: %w", lang, domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lang = lang
	s.stored = true
	s.store.Set(domain.KeyLanguage, lang)
	return nil
}
