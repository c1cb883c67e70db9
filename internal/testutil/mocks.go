package testutil

import (
	"context"
	"sync"

	"accessfirst/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockBackend is a mock for repository.Backend
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	args := m.Called(ctx, namespace, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockBackend) Set(ctx context.Context, namespace, key, value string) error {
	args := m.Called(ctx, namespace, key, value)
	return args.Error(0)
}

func (m *MockBackend) Delete(ctx context.Context, namespace, key string) error {
	args := m.Called(ctx, namespace, key)
	return args.Error(0)
}

func (m *MockBackend) List(ctx context.Context, namespace string) (map[string]string, error) {
	args := m.Called(ctx, namespace)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

// RecordingNotifier records reminder side-channel calls
type RecordingNotifier struct {
	mu       sync.Mutex
	Banners  []string
	Spoken   []string
	SignCues []string
}

func (n *RecordingNotifier) Banner(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Banners = append(n.Banners, text)
}

func (n *RecordingNotifier) Speak(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Spoken = append(n.Spoken, text)
}

func (n *RecordingNotifier) SignCue(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.SignCues = append(n.SignCues, text)
}

// Counts returns the number of banner, speech and sign calls
func (n *RecordingNotifier) Counts() (banners, spoken, signs int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Banners), len(n.Spoken), len(n.SignCues)
}

// RecordingPresenter records demo tour output
type RecordingPresenter struct {
	mu        sync.Mutex
	Views     []domain.ViewID
	Spoken    []string
	Signs     [][]domain.SignCard
	Announced []string
}

func (p *RecordingPresenter) ShowView(view domain.ViewID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Views = append(p.Views, view)
}

func (p *RecordingPresenter) Speak(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Spoken = append(p.Spoken, text)
}

func (p *RecordingPresenter) ShowSigns(cards []domain.SignCard) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Signs = append(p.Signs, cards)
}

func (p *RecordingPresenter) Announce(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Announced = append(p.Announced, text)
}

// ViewsSnapshot returns a copy of the recorded views
func (p *RecordingPresenter) ViewsSnapshot() []domain.ViewID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.ViewID(nil), p.Views...)
}
