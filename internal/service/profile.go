package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"accessfirst/internal/domain"
	"accessfirst/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	guestDisplayName    = "Guest"
	minDisplayNameRunes = 2
	maxCredentialBytes  = 72
)

// ProfileService owns the profile records and the current profile pointer
type ProfileService struct {
	store  *store.Store
	hasher CredentialHasher
	logger *zap.Logger
	newID  func() string

	// Per-id locks serialize signup and login for one identity
	idLocks map[string]*sync.Mutex
	idMux   sync.Mutex

	mu       sync.Mutex
	current  *domain.Profile
	profiles map[string]domain.Profile
}

// NewProfileService creates the service and restores the current profile
func NewProfileService(s *store.Store, hasher CredentialHasher, logger *zap.Logger) *ProfileService {
	svc := &ProfileService{
		store:    s,
		hasher:   hasher,
		logger:   logger,
		newID:    func() string { return "guest-" + uuid.NewString() },
		idLocks:  make(map[string]*sync.Mutex),
		profiles: make(map[string]domain.Profile),
	}
	svc.loadCurrent()
	return svc
}

func (s *ProfileService) loadCurrent() {
	id, ok := store.Lookup[string](s.store, domain.KeyCurrentProfile)
	if !ok || id == "" {
		return
	}
	p, ok, err := s.lookup(id)
	if !ok {
		s.logger.Warn("Current profile record missing", zap.String("profile_id", id), zap.Error(err))
		return
	}
	s.current = &p
}

// getIDLock returns or creates a mutex for the given profile id
func (s *ProfileService) getIDLock(id string) *sync.Mutex {
	s.idMux.Lock()
	defer s.idMux.Unlock()

	if lock, exists := s.idLocks[id]; exists {
		return lock
	}

	lock := &sync.Mutex{}
	s.idLocks[id] = lock
	return lock
}

// lookup reads a record, preferring copies written in this process.
// A corrupted record counts as missing; a backend fault is returned.
func (s *ProfileService) lookup(id string) (domain.Profile, bool, error) {
	s.mu.Lock()
	p, ok := s.profiles[id]
	s.mu.Unlock()
	if ok {
		return p, true, nil
	}

	p, ok, err := store.Fetch[domain.Profile](s.store, domain.ProfileKey(id))
	if errors.Is(err, domain.ErrCorrupted) {
		s.logger.Warn("Profile record corrupted", zap.String("profile_id", id), zap.Error(err))
		return domain.Profile{}, false, nil
	}
	return p, ok, err
}

// save writes a record; the caller holds s.mu
func (s *ProfileService) save(p domain.Profile) {
	s.profiles[p.ID] = p
	s.store.Set(domain.ProfileKey(p.ID), p)
}

// setCurrent saves p and points the current profile at it; the caller holds s.mu
func (s *ProfileService) setCurrent(p domain.Profile) {
	s.save(p)
	s.current = &p
	s.store.Set(domain.KeyCurrentProfile, p.ID)
}

// CreateGuest creates a guest profile and makes it current
func (s *ProfileService) CreateGuest(lang domain.Language) domain.Profile {
	if !lang.Valid() {
		lang = domain.LanguageEnglish
	}
	p := domain.Profile{
		ID:                 s.newID(),
		DisplayName:        guestDisplayName,
		Kind:               domain.KindGuest,
		AccessibilityMode:  domain.ModeNone,
		LanguagePreference: lang,
		Preferences:        domain.DefaultPreferences(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCurrent(p)

	s.logger.Info("Guest profile created", zap.String("profile_id", p.ID))
	return p
}

// RegisterLocal creates a registered profile and makes it current. The
// language, mode and voice setting of a current guest carry over.
func (s *ProfileService) RegisterLocal(ctx context.Context, displayName, credential string, prefs domain.Preferences) (domain.Profile, error) {
	id := domain.NormalizeProfileID(displayName)
	if utf8.RuneCountInString(id) < minDisplayNameRunes {
		return domain.Profile{}, fmt.Errorf("display name too short: %w", domain.ErrInvalidInput)
	}
	if domain.ReservedProfileID(id) {
		return domain.Profile{}, fmt.Errorf("display name %q is reserved: %w", displayName, domain.ErrInvalidInput)
	}
	if credential == "" || len(credential) > maxCredentialBytes {
		return domain.Profile{}, fmt.Errorf("credential must be 1-%d bytes: %w", maxCredentialBytes, domain.ErrInvalidInput)
	}

	lock := s.getIDLock(id)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.Profile{}, err
	}
	_, exists, err := s.lookup(id)
	if err != nil {
		// An unreadable record may hold someone else's credential
		s.logger.Warn("Cannot verify profile id, refusing signup", zap.String("profile_id", id), zap.Error(err))
		return domain.Profile{}, fmt.Errorf("profile %q: %w", id, err)
	}
	if exists {
		return domain.Profile{}, fmt.Errorf("profile %q: %w", id, domain.ErrDuplicateIdentity)
	}

	hash, err := s.hasher.Hash(credential)
	if err != nil {
		return domain.Profile{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Profile{}, err
	}

	if !prefs.FontSize.Valid() {
		prefs.FontSize = domain.FontMedium
	}
	p := domain.Profile{
		ID:                 id,
		DisplayName:        displayName,
		Kind:               domain.KindRegistered,
		AccessibilityMode:  domain.ModeNone,
		LanguagePreference: domain.LanguageEnglish,
		Preferences:        prefs,
		CredentialHash:     hash,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		p.AccessibilityMode = s.current.AccessibilityMode
		p.LanguagePreference = s.current.LanguagePreference
		p.VoiceFeedbackEnabled = s.current.VoiceFeedbackEnabled
	}
	s.setCurrent(p)

	s.logger.Info("Profile registered", zap.String("profile_id", id))
	return p.Public(), nil
}

// AuthenticateLocal verifies the credential of a registered profile and
// makes it current.
func (s *ProfileService) AuthenticateLocal(ctx context.Context, id, credential string) (domain.Profile, error) {
	id = domain.NormalizeProfileID(id)

	lock := s.getIDLock(id)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.Profile{}, err
	}

	if domain.ReservedProfileID(id) {
		return domain.Profile{}, fmt.Errorf("profile %q: %w", id, domain.ErrNotFound)
	}

	p, ok, err := s.lookup(id)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("profile %q: %w", id, err)
	}
	if !ok || !p.IsRegistered() || p.CredentialHash == "" {
		return domain.Profile{}, fmt.Errorf("profile %q: %w", id, domain.ErrNotFound)
	}
	if err := s.hasher.Compare(p.CredentialHash, credential); err != nil {
		s.logger.Info("Login rejected", zap.String("profile_id", id))
		return domain.Profile{}, fmt.Errorf("profile %q: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCurrent(p)

	return p.Public(), nil
}

// mutateCurrent applies fn to the current profile and persists it
func (s *ProfileService) mutateCurrent(fn func(p *domain.Profile)) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return domain.Profile{}, domain.ErrNoCurrentProfile
	}
	p := *s.current
	fn(&p)
	s.save(p)
	s.current = &p
	return p.Public(), nil
}

// SetAccessibilityMode changes the mode of the current profile
func (s *ProfileService) SetAccessibilityMode(mode domain.AccessibilityMode) (domain.Profile, error) {
	if !mode.Valid() {
		return domain.Profile{}, fmt.Errorf("accessibility mode %q: %w", mode, domain.ErrInvalidInput)
	}
	return s.mutateCurrent(func(p *domain.Profile) {
		p.AccessibilityMode = mode
	})
}

// ToggleVoiceFeedback flips voice feedback on the current profile
func (s *ProfileService) ToggleVoiceFeedback() (domain.Profile, error) {
	return s.mutateCurrent(func(p *domain.Profile) {
		p.VoiceFeedbackEnabled = !p.VoiceFeedbackEnabled
	})
}

// SetLanguage changes the language preference of the current profile
func (s *ProfileService) SetLanguage(lang domain.Language) (domain.Profile, error) {
	if !lang.Valid() {
		return domain.Profile{}, fmt.Errorf("language %q: %w", lang, domain.ErrInvalidInput)
	}
	return s.mutateCurrent(func(p *domain.Profile) {
		p.LanguagePreference = lang
	})
}

// Current returns a copy of the current profile without its hash, or nil
func (s *ProfileService) Current() *domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	p := s.current.Public()
	return &p
}

// SignOut clears the current profile; records are kept
func (s *ProfileService) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return
	}
	s.logger.Info("Signed out", zap.String("profile_id", s.current.ID))
	s.current = nil
	s.store.Remove(domain.KeyCurrentProfile)
}
