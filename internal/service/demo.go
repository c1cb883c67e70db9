package service

import (
	"context"
	"sync"
	"time"

	"accessfirst/internal/domain"
	"accessfirst/internal/i18n"

	"go.uber.org/zap"
)

// DefaultDemoStep is the delay between demo tour steps
const DefaultDemoStep = 1800 * time.Millisecond

const demoSignText = "Hello thank you help"

var demoSpeech = map[domain.Language]string{
	domain.LanguageEnglish: "Hello, how are you?",
	domain.LanguageAmharic: "ሰላም እንዴት ነህ",
}

// Presenter renders the demo tour
type Presenter interface {
	ShowView(view domain.ViewID)
	Speak(text string)
	ShowSigns(cards []domain.SignCard)
	Announce(text string)
}

// DemoTour walks through the app while demo mode is on
type DemoTour struct {
	nav       *Navigator
	prefs     *PreferenceService
	history   *HistoryService
	signs     *SignService
	languages LanguageSource
	catalog   *i18n.Catalog
	presenter Presenter
	newTicker TickerFactory
	step      time.Duration
	logger    *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	loops  sync.WaitGroup
}

// DemoDeps groups the collaborators of a DemoTour
type DemoDeps struct {
	Navigator   *Navigator
	Preferences *PreferenceService
	History     *HistoryService
	Signs       *SignService
	Languages   LanguageSource
	Catalog     *i18n.Catalog
	Presenter   Presenter
	NewTicker   TickerFactory
	Step        time.Duration
}

func NewDemoTour(deps DemoDeps, logger *zap.Logger) *DemoTour {
	if deps.NewTicker == nil {
		deps.NewTicker = NewTimeTicker
	}
	if deps.Step <= 0 {
		deps.Step = DefaultDemoStep
	}
	return &DemoTour{
		nav:       deps.Navigator,
		prefs:     deps.Preferences,
		history:   deps.History,
		signs:     deps.Signs,
		languages: deps.Languages,
		catalog:   deps.Catalog,
		presenter: deps.Presenter,
		newTicker: deps.NewTicker,
		step:      deps.Step,
		logger:    logger,
	}
}

// Start runs the tour; it returns false if one is already running
func (d *DemoTour) Start() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	d.cancel = cancel
	d.done = done

	d.presenter.Announce(d.catalog.T(d.languages.Get(), i18n.KeyDemoStart))
	d.loops.Add(1)
	go d.run(ctx, d.newTicker(d.step), done)
	return true
}

func (d *DemoTour) run(ctx context.Context, ticker Ticker, done chan struct{}) {
	defer d.loops.Done()
	defer close(done)
	defer ticker.Stop()
	defer d.finish(done)

	step := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if ctx.Err() != nil {
				return
			}
			step++
			if !d.advance(step) {
				return
			}
		}
	}
}

// advance performs one step and reports whether the tour continues
func (d *DemoTour) advance(step int) bool {
	lang := d.languages.Get()

	switch step {
	case 1:
		d.show(domain.ViewAccessChoice)
	case 2:
		d.show(domain.ViewBlindFlow)
	case 3:
		text := demoSpeech[lang]
		d.presenter.Speak(text)
		d.history.Log(domain.EntryTextToSpeech, text)
	case 4:
		d.show(domain.ViewDeafFlow)
	case 5:
		d.presenter.ShowSigns(d.signs.Translate(demoSignText))
	case 6:
		d.show(domain.ViewHome)
	default:
		d.presenter.Announce(d.catalog.T(lang, i18n.KeyDemoEnd))
		return false
	}
	return true
}

func (d *DemoTour) show(view domain.ViewID) {
	d.presenter.ShowView(d.nav.GoTo(view))
}

// finish clears the running state and switches demo mode off, unless a
// newer tour has been started since.
func (d *DemoTour) finish(done chan struct{}) {
	d.mu.Lock()
	latest := d.done == done
	if latest {
		d.cancel = nil
	}
	d.mu.Unlock()

	if latest {
		d.disableDemoMode()
	}
}

func (d *DemoTour) disableDemoMode() {
	off := false
	d.prefs.Update(domain.PreferencesPatch{DemoMode: &off})
}

// Stop cancels a running tour. Demo mode is switched off either way.
func (d *DemoTour) Stop() {
	d.mu.Lock()
	cancel := d.cancel
	d.cancel = nil
	d.mu.Unlock()

	if cancel == nil {
		d.disableDemoMode()
		return
	}
	cancel()
	d.logger.Debug("Demo tour stopped")
}

// Wait blocks until every started tour has exited
func (d *DemoTour) Wait() {
	d.loops.Wait()
}

// Running reports whether a tour is in progress
func (d *DemoTour) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancel != nil
}
