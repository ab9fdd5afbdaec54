package retrieval

import (
	"context"
	"strings"

	"go-crisislens/types"
)

// MemoryStore is an in-process EventStore over a fixed slice. It backs the
// demo endpoint and the test suites; filtering semantics mirror the
// Firestore store.
type MemoryStore struct {
	Events []types.Event

	// Err, when set, is returned from every Query. Lets tests exercise the
	// retrieval failure path.
	Err error
}

func NewMemoryStore(events []types.Event) *MemoryStore {
	return &MemoryStore{Events: events}
}

func (m *MemoryStore) Query(_ context.Context, f Filter) ([]types.Event, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	var out []types.Event
	for _, e := range m.Events {
		if f.Category != "" && strings.ToLower(e.Category) != f.Category {
			continue
		}
		if f.Country != "" && strings.ToLower(e.Country) != f.Country {
			continue
		}
		if f.Region != "" && strings.ToLower(e.Region) != f.Region {
			continue
		}
		if f.Years != nil && (e.StartYear < f.Years.Start || e.StartYear > f.Years.End) {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out, nil
}
