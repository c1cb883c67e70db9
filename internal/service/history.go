package service

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"accessfirst/internal/domain"
	"accessfirst/internal/store"

	"go.uber.org/zap"
)

// historyViewSize is the number of entries shown per history panel
const historyViewSize = 20

// HistoryService is the capped, newest-first interaction log
type HistoryService struct {
	store  *store.Store
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	entries []domain.HistoryEntry
}

// NewHistoryService loads the stored log
func NewHistoryService(s *store.Store, logger *zap.Logger) *HistoryService {
	entries := store.Get[[]domain.HistoryEntry](s, domain.KeyHistory, nil)
	if len(entries) > domain.HistoryCapacity {
		entries = entries[:domain.HistoryCapacity]
	}
	return &HistoryService{
		store:   s,
		logger:  logger,
		now:     time.Now,
		entries: entries,
	}
}

// Append prepends entry, stamping it when it has no timestamp, and
// evicts the oldest entries beyond capacity.
func (s *HistoryService) Append(entry domain.HistoryEntry) (domain.HistoryEntry, error) {
	if !entry.Kind.Valid() {
		return domain.HistoryEntry{}, fmt.Errorf("history kind %q: %w", entry.Kind, domain.ErrInvalidInput)
	}
	if entry.Timestamp == 0 {
		entry.Timestamp = s.now().UnixMilli()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.HistoryEntry, 0, min(len(s.entries)+1, domain.HistoryCapacity))
	next = append(next, entry)
	next = append(next, s.entries...)
	if len(next) > domain.HistoryCapacity {
		next = next[:domain.HistoryCapacity]
	}
	s.entries = next
	s.store.Set(domain.KeyHistory, s.entries)

	return entry, nil
}

// Log appends an entry of the given kind with the current time
func (s *HistoryService) Log(kind domain.EntryKind, text string) {
	if _, err := s.Append(domain.HistoryEntry{Kind: kind, Text: text}); err != nil {
		s.logger.Error("Failed to log interaction", zap.Error(err))
	}
}

// List returns entries newest first, restricted to kinds when given
func (s *HistoryService) List(kinds ...domain.EntryKind) []domain.HistoryEntry {
	return s.Recent(0, kinds...)
}

// Recent is List capped to limit entries; limit <= 0 means no cap
func (s *HistoryService) Recent(limit int, kinds ...domain.EntryKind) []domain.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.HistoryEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if len(kinds) > 0 && !slices.Contains(kinds, e.Kind) {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// BlindView returns the entries shown on the blind flow panel
func (s *HistoryService) BlindView() []domain.HistoryEntry {
	return s.Recent(historyViewSize, domain.BlindHistoryKinds...)
}

// DeafView returns the entries shown on the deaf flow panel
func (s *HistoryService) DeafView() []domain.HistoryEntry {
	return s.Recent(historyViewSize, domain.DeafHistoryKinds...)
}

// Clear empties the log
func (s *HistoryService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.store.Remove(domain.KeyHistory)
}
