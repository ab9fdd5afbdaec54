package db

import (
	"context"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go-crisislens/retrieval"
	"go-crisislens/types"
)

const eventsCollection = "events"

// eventDoc mirrors types.Event plus the lowercase key fields that make the
// category/country equality filters case-insensitive. Firestore cannot
// LOWER() inside a query, so the keys are written alongside the record.
type eventDoc struct {
	types.Event
	CategoryKey string `firestore:"categoryKey"`
	CountryKey  string `firestore:"countryKey"`
	RegionKey   string `firestore:"regionKey"`
}

// FirestoreStore implements retrieval.EventStore over the events collection.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// Query builds the filtered query and collects up to f.Limit rows.
func (s *FirestoreStore) Query(ctx context.Context, f retrieval.Filter) ([]types.Event, error) {
	q := s.client.Collection(eventsCollection).Query

	if f.Category != "" {
		q = q.Where("categoryKey", "==", f.Category)
	}
	if f.Country != "" {
		q = q.Where("countryKey", "==", f.Country)
	}
	if f.Region != "" {
		q = q.Where("regionKey", "==", f.Region)
	}
	if f.Years != nil {
		q = q.Where("startYear", ">=", f.Years.Start).
			Where("startYear", "<=", f.Years.End)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var events []types.Event
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating events collection: %w", err)
		}

		var ed eventDoc
		if err := doc.DataTo(&ed); err != nil {
			log.Printf("Warning: Error converting document %s to Event: %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		events = append(events, ed.Event)
	}

	return events, nil
}

// GetEvent retrieves a single event by its DisNo identifier.
func (s *FirestoreStore) GetEvent(ctx context.Context, disNo string) (types.Event, error) {
	var ed eventDoc

	docSnap, err := s.client.Collection(eventsCollection).Doc(disNo).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ed.Event, fmt.Errorf("event %s not found", disNo)
		}
		return ed.Event, fmt.Errorf("error getting event %s: %w", disNo, err)
	}

	if err := docSnap.DataTo(&ed); err != nil {
		return ed.Event, fmt.Errorf("error converting document %s: %w", disNo, err)
	}
	return ed.Event, nil
}

// SaveEvents writes a batch of events with BulkWriter, using DisNo as the
// document ID and filling the lowercase key fields.
func (s *FirestoreStore) SaveEvents(ctx context.Context, events []types.Event) error {
	if len(events) == 0 {
		log.Println("No events to save.")
		return nil
	}

	bw := s.client.BulkWriter(ctx)
	collRef := s.client.Collection(eventsCollection)

	saved := 0
	for i := range events {
		e := events[i]
		if e.DisNo == "" {
			log.Printf("Warning: Skipping event with empty DisNo: %+v", e)
			continue
		}

		ed := eventDoc{
			Event:       e,
			CategoryKey: strings.ToLower(e.Category),
			CountryKey:  strings.ToLower(e.Country),
			RegionKey:   strings.ToLower(e.Region),
		}

		if _, err := bw.Set(collRef.Doc(e.DisNo), ed); err != nil {
			log.Printf("Error enqueueing event %s for save: %v", e.DisNo, err)
		} else {
			saved++
		}
	}

	if saved == 0 {
		log.Println("No valid events were enqueued for saving.")
		return nil
	}

	// Flush sends any remaining writes and waits for them to complete.
	bw.Flush()
	log.Printf("BulkWriter flushed. Attempted to save %d events.", saved)

	return nil
}
