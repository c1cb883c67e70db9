package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"accessfirst/internal/domain"
	"accessfirst/internal/i18n"
	"accessfirst/internal/repository"
	"accessfirst/internal/store"

	"go.uber.org/zap"
)

// Session bundles the managers of one namespace
type Session struct {
	Namespace   string
	Store       *store.Store
	Preferences *PreferenceService
	Profiles    *ProfileService
	History     *HistoryService
	Navigator   *Navigator
	Language    *LanguageService
	Signs       *SignService
	Phrase      *Phrase
	Reminder    *ReminderScheduler
	Demo        *DemoTour
	Output      SessionOutput

	logger *zap.Logger
}

// SessionOutput is the UI a session talks to
type SessionOutput interface {
	Notifier
	Presenter
}

// OutputFactory builds the UI of a namespace; languages is the session's
// language setting.
type OutputFactory func(namespace string, languages LanguageSource) SessionOutput

// SessionConfig holds what every session of a registry shares
type SessionConfig struct {
	Hasher           CredentialHasher
	Catalog          *i18n.Catalog
	Schemas          *store.SchemaSet
	StoreTimeout     time.Duration
	ReminderInterval time.Duration
	DemoStep         time.Duration
	NewTicker        TickerFactory
}

// NewSession builds the managers over s. Nothing is started.
func NewSession(s *store.Store, cfg SessionConfig, outputs OutputFactory, logger *zap.Logger) *Session {
	if cfg.Hasher == nil {
		cfg.Hasher = NewBcryptHasher(0)
	}
	if cfg.Catalog == nil {
		cfg.Catalog = i18n.Default()
	}
	logger = logger.With(zap.String("namespace", s.Namespace()))

	prefs := NewPreferenceService(s, logger)
	profiles := NewProfileService(s, cfg.Hasher, logger)
	history := NewHistoryService(s, logger)
	nav := NewNavigator()
	lang := NewLanguageService(s, logger)
	signs := NewSignService(history)
	output := outputs(s.Namespace(), lang)

	return &Session{
		Namespace:   s.Namespace(),
		Store:       s,
		Preferences: prefs,
		Profiles:    profiles,
		History:     history,
		Navigator:   nav,
		Language:    lang,
		Signs:       signs,
		Phrase:      &Phrase{},
		Reminder:    NewReminderScheduler(profiles, cfg.NewTicker, logger),
		Output:      output,
		logger:      logger,
		Demo: NewDemoTour(DemoDeps{
			Navigator:   nav,
			Preferences: prefs,
			History:     history,
			Signs:       signs,
			Languages:   lang,
			Catalog:     cfg.Catalog,
			Presenter:   output,
			NewTicker:   cfg.NewTicker,
			Step:        cfg.DemoStep,
		}, logger),
	}
}

// EnsureProfile returns the current profile, creating a guest when there is none
func (s *Session) EnsureProfile() domain.Profile {
	if p := s.Profiles.Current(); p != nil {
		return *p
	}
	return s.Profiles.CreateGuest(s.Language.Get())
}

// SignUp registers a profile with the current preferences
func (s *Session) SignUp(ctx context.Context, displayName, credential string) (domain.Profile, error) {
	p, err := s.Profiles.RegisterLocal(ctx, displayName, credential, s.Preferences.Get())
	if err != nil {
		return domain.Profile{}, err
	}
	s.adopt(p)
	return p, nil
}

// LogIn authenticates and applies the profile's settings
func (s *Session) LogIn(ctx context.Context, id, credential string) (domain.Profile, error) {
	p, err := s.Profiles.AuthenticateLocal(ctx, id, credential)
	if err != nil {
		return domain.Profile{}, err
	}
	s.adopt(p)
	return p, nil
}

func (s *Session) adopt(p domain.Profile) {
	s.Preferences.Adopt(p.Preferences)
	if err := s.Language.Set(p.LanguagePreference); err != nil {
		s.logger.Warn("Profile has unsupported language", zap.String("profile_id", p.ID), zap.Error(err))
	}
}

// SetLanguage changes the UI language and the current profile's preference
func (s *Session) SetLanguage(lang domain.Language) error {
	if err := s.Language.Set(lang); err != nil {
		return err
	}
	if _, err := s.Profiles.SetLanguage(lang); err != nil && !errors.Is(err, domain.ErrNoCurrentProfile) {
		return err
	}
	return nil
}

// Close stops the reminder and the demo tour and waits for both
func (s *Session) Close() {
	s.Reminder.Stop()
	if s.Demo.Running() {
		s.Demo.Stop()
	}
	s.Reminder.Wait()
	s.Demo.Wait()
}

// SessionRegistry lazily opens one Session per namespace
type SessionRegistry struct {
	backend repository.Backend
	cfg     SessionConfig
	outputs OutputFactory
	logger  *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionRegistry creates a registry; outputs builds the UI of each namespace
func NewSessionRegistry(backend repository.Backend, cfg SessionConfig, outputs OutputFactory, logger *zap.Logger) *SessionRegistry {
	if cfg.Catalog == nil {
		cfg.Catalog = i18n.Default()
	}
	if cfg.ReminderInterval <= 0 {
		cfg.ReminderInterval = domain.DefaultReminderInterval
	}
	return &SessionRegistry{
		backend:  backend,
		cfg:      cfg,
		outputs:  outputs,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Open returns the session of namespace, building it and starting its
// login reminder on first use.
func (r *SessionRegistry) Open(namespace string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[namespace]; ok {
		return s
	}

	st := store.New(r.backend, namespace, r.logger,
		store.WithTimeout(r.cfg.StoreTimeout),
		store.WithSchemas(r.cfg.Schemas),
	)
	s := NewSession(st, r.cfg, r.outputs, r.logger)
	s.Reminder.Start(r.cfg.ReminderInterval, LoginReminder(s.Output, r.cfg.Catalog, s.Language))
	r.sessions[namespace] = s

	r.logger.Info("Session opened", zap.String("namespace", namespace))
	return s
}

// Len returns the number of open sessions
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close shuts down every session
func (r *SessionRegistry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
