package service

import (
	"context"
	"sync"
	"time"

	"accessfirst/internal/domain"
	"accessfirst/internal/i18n"

	"go.uber.org/zap"
)

// Ticker is the periodic timer the schedulers run on
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a ticker firing every d
type TickerFactory func(d time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker is the TickerFactory backed by time.NewTicker
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// ProfileSource exposes the live current profile
type ProfileSource interface {
	Current() *domain.Profile
}

// ReminderScheduler fires a callback with the current profile on every tick
// while running.
type ReminderScheduler struct {
	profiles  ProfileSource
	newTicker TickerFactory
	logger    *zap.Logger
	now       func() time.Time

	mu        sync.Mutex
	interval  time.Duration
	cancel    context.CancelFunc
	done      chan struct{}
	lastFired *time.Time
}

// NewReminderScheduler creates an idle scheduler; a nil factory means NewTimeTicker
func NewReminderScheduler(profiles ProfileSource, newTicker TickerFactory, logger *zap.Logger) *ReminderScheduler {
	if newTicker == nil {
		newTicker = NewTimeTicker
	}
	return &ReminderScheduler{
		profiles:  profiles,
		newTicker: newTicker,
		logger:    logger,
		now:       time.Now,
		interval:  domain.DefaultReminderInterval,
	}
}

// Start begins firing onFire every interval. It returns false when the
// scheduler is already running.
func (s *ReminderScheduler) Start(interval time.Duration, onFire func(*domain.Profile)) bool {
	if interval <= 0 {
		interval = domain.DefaultReminderInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.interval = interval
	s.cancel = cancel
	s.done = done

	go s.run(ctx, s.newTicker(interval), onFire, done)

	s.logger.Debug("Reminder started", zap.Duration("interval", interval))
	return true
}

func (s *ReminderScheduler) run(ctx context.Context, ticker Ticker, onFire func(*domain.Profile), done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if ctx.Err() != nil {
				return
			}
			s.fire(onFire)
		}
	}
}

func (s *ReminderScheduler) fire(onFire func(*domain.Profile)) {
	now := s.now()
	s.mu.Lock()
	s.lastFired = &now
	s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Reminder callback panicked", zap.Any("panic", r))
		}
	}()
	onFire(s.profiles.Current())
}

// Stop cancels future ticks. An in-flight callback is left to finish.
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
	s.logger.Debug("Reminder stopped")
}

// Wait blocks until the last started loop has exited
func (s *ReminderScheduler) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Running reports whether the scheduler is started
func (s *ReminderScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Schedule returns a snapshot of the scheduler state
func (s *ReminderScheduler) Schedule() domain.ReminderSchedule {
	s.mu.Lock()
	defer s.mu.Unlock()

	sched := domain.ReminderSchedule{
		Interval: s.interval,
		Active:   s.cancel != nil,
	}
	if s.lastFired != nil {
		t := *s.lastFired
		sched.LastFiredAt = &t
	}
	return sched
}

// Notifier is the UI side channel used by reminders
type Notifier interface {
	Banner(text string)
	Speak(text string)
	SignCue(text string)
}

// LanguageSource exposes the UI language
type LanguageSource interface {
	Get() domain.Language
}

// LoginReminder returns the reminder callback: nothing for registered
// profiles, otherwise a banner, spoken for blind profiles with voice
// feedback and signed for deaf profiles.
func LoginReminder(notifier Notifier, catalog *i18n.Catalog, languages LanguageSource) func(*domain.Profile) {
	return func(p *domain.Profile) {
		if p.IsRegistered() {
			return
		}

		lang := domain.LanguageEnglish
		if languages != nil {
			lang = languages.Get()
		}
		text := catalog.T(lang, i18n.KeyLoginReminder)

		notifier.Banner(text)
		if p == nil {
			return
		}
		switch p.AccessibilityMode {
		case domain.ModeBlind:
			if p.VoiceFeedbackEnabled {
				notifier.Speak(text)
			}
		case domain.ModeDeaf:
			notifier.SignCue(text)
		}
	}
}
