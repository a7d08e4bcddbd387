package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"agrilog/internal/activity/models"
	id "agrilog/pkg/domain"
)

// InMemoryStore implements ports.HistoryStore with a per-user slice. It is
// the test fake and the zero-configuration default for local runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.UserID][]*models.ActivityRecord
}

// NewInMemory creates an empty in-memory history store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[id.UserID][]*models.ActivityRecord),
	}
}

// Append stores a copy of the record so later caller mutations cannot leak
// into history.
func (s *InMemoryStore) Append(_ context.Context, record *models.ActivityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *record
	if record.Location != nil {
		loc := *record.Location
		cp.Location = &loc
	}
	cp.Reasons = append([]string(nil), record.Reasons...)

	s.records[record.UserID] = append(s.records[record.UserID], &cp)
	return nil
}

func (s *InMemoryStore) ListByUserSince(_ context.Context, userID id.UserID, since time.Time) ([]*models.ActivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.ActivityRecord
	for _, r := range s.records[userID] {
		if !r.CreatedAt.Before(since) {
			out = append(out, r)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemoryStore) CountByUserSince(ctx context.Context, userID id.UserID, since time.Time) (int, error) {
	records, err := s.ListByUserSince(ctx, userID, since)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func (s *InMemoryStore) ListRecent(_ context.Context, userID id.UserID, limit int) ([]*models.ActivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]*models.ActivityRecord(nil), s.records[userID]...)
	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortNewestFirst(records []*models.ActivityRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
}
