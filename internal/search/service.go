package search

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/util"
)

var errMeiliUnhealthy = errors.New("meilisearch unhealthy")

// LocationSource is the relational fallback and the reindex feed.
type LocationSource interface {
	SearchLocations(ctx context.Context, query string, limit int) ([]Suggestion, error)
	ListLocations(ctx context.Context) ([]LocationRecord, error)
	UpsertLocation(ctx context.Context, l LocationRecord) (LocationRecord, error)
}

// Service is the facade that tries Meilisearch first and falls back to the
// Postgres ILIKE lookup.
type Service struct {
	meili  *Meili
	source LocationSource
}

// NewService creates a search service. meili may be nil if Meilisearch is not configured.
func NewService(meili *Meili, source LocationSource) *Service {
	return &Service{meili: meili, source: source}
}

// Search tries Meilisearch if healthy, otherwise falls back to Postgres.
func (s *Service) Search(ctx context.Context, q Query) Response {
	if s.meili != nil && s.meili.Healthy() {
		suggestions, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Suggestions: nonNil(suggestions), Total: total, Query: q.Text}
		}
		log.Printf("search: meilisearch error, falling back to postgres: %v", err)
	}

	suggestions, err := s.source.SearchLocations(ctx, q.Text, q.Limit)
	if err != nil {
		log.Printf("search: postgres location lookup error: %v", err)
		return Response{Suggestions: []Suggestion{}, Total: 0, Query: q.Text}
	}
	return Response{Suggestions: nonNil(suggestions), Total: len(suggestions), Query: q.Text}
}

// RecordLocation remembers a free-text location so future autocompletes can
// suggest it. Best-effort on both stores.
func (s *Service) RecordLocation(ctx context.Context, name string) {
	name = strings.TrimSpace(name)
	if name == "" || s.source == nil {
		return
	}
	record, err := s.source.UpsertLocation(ctx, LocationRecord{ID: util.NewID("loc"), Name: name})
	if err != nil {
		log.Printf("search: record location %q: %v", name, err)
		return
	}
	s.IndexLocation(record)
}

// IndexLocation indexes a location (fire-and-forget to Meilisearch).
func (s *Service) IndexLocation(location LocationRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexLocation(location); err != nil {
			log.Printf("search: index location %s: %v", location.ID, err)
		}
	}()
}

// ReindexAll reads every location from Postgres and pushes it to Meilisearch.
// Called during bootstrap when Meilisearch is healthy.
func (s *Service) ReindexAll(ctx context.Context) {
	if s.meili == nil || !s.meili.Healthy() || s.source == nil {
		return
	}
	locations, err := s.source.ListLocations(ctx)
	if err != nil {
		log.Printf("search: reindex load failed: %v", err)
		return
	}
	if err := s.meili.IndexLocations(locations); err != nil {
		log.Printf("search: reindex locations: %v", err)
	}
}

func nonNil(suggestions []Suggestion) []Suggestion {
	if suggestions == nil {
		return []Suggestion{}
	}
	return suggestions
}
