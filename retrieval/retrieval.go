// Package retrieval pulls matching disaster events out of the event store
// and digests them into summary statistics for the rest of the run.
package retrieval

import (
	"context"
	"log"
	"strings"

	"go-crisislens/types"
)

// DefaultLimit is the hard row cap applied when the caller does not supply
// one. Callers needing more must paginate on their own.
const DefaultLimit = 10000

// YearRange is an inclusive year filter; an exact-year filter is a range
// with Start == End.
type YearRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Exact builds the single-year range.
func Exact(year int) *YearRange {
	return &YearRange{Start: year, End: year}
}

// Filter is the structured query handed to an EventStore. Category and
// Country match case-insensitively; empty fields are not filtered on.
type Filter struct {
	Category string
	Country  string
	Region   string
	Years    *YearRange
	Limit    int
}

// EventStore is the tabular data-store collaborator. Implementations:
// db.FirestoreStore (production) and MemoryStore (tests, demo seeding).
type EventStore interface {
	Query(ctx context.Context, f Filter) ([]types.Event, error)
}

// Retriever wraps an EventStore with input normalization and the row cap.
type Retriever struct {
	store EventStore
}

func NewRetriever(store EventStore) *Retriever {
	return &Retriever{store: store}
}

// Retrieve queries the store for events matching the criteria. On a store
// failure it logs the fault and returns an empty slice along with the error;
// the caller decides whether emptiness is recoverable.
func (r *Retriever) Retrieve(ctx context.Context, category, country string, years *YearRange, limit int) ([]types.Event, error) {
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}

	f := Filter{
		Category: strings.ToLower(strings.TrimSpace(category)),
		Country:  strings.ToLower(strings.TrimSpace(country)),
		Years:    years,
		Limit:    limit,
	}

	records, err := r.store.Query(ctx, f)
	if err != nil {
		log.Printf("Error retrieving data: %v", err)
		return []types.Event{}, err
	}
	return records, nil
}

// Summarize digests a retrieval result. An empty input yields the sentinel
// summary (Message set, numeric fields zero); callers must check HasData
// before consuming the numbers. Nil impact metrics count as 0 in the sums.
func Summarize(records []types.Event) types.SummaryStats {
	if len(records) == 0 {
		return types.SummaryStats{Message: types.NoDataMessage}
	}

	stats := types.SummaryStats{
		TotalEvents: len(records),
		Years:       types.YearSpan{Min: records[0].StartYear, Max: records[0].StartYear},
	}

	seenCategory := make(map[string]bool)
	seenCountry := make(map[string]bool)

	for i := range records {
		e := &records[i]

		if !seenCategory[e.Category] {
			seenCategory[e.Category] = true
			stats.Categories = append(stats.Categories, e.Category)
		}
		if !seenCountry[e.Country] {
			seenCountry[e.Country] = true
			stats.Countries = append(stats.Countries, e.Country)
		}

		if e.StartYear < stats.Years.Min {
			stats.Years.Min = e.StartYear
		}
		if e.StartYear > stats.Years.Max {
			stats.Years.Max = e.StartYear
		}

		stats.TotalDeaths += e.DeathsOrZero()
		stats.TotalAffected += e.AffectedOrZero()
		stats.TotalDamageUSD += e.DamageOrZero()
	}

	sample := len(records)
	if sample > types.SampleLimit() {
		sample = types.SampleLimit()
	}
	stats.SampleEvents = append([]types.Event(nil), records[:sample]...)

	return stats
}
