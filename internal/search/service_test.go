package search

import (
	"context"
	"strings"
	"testing"
)

type fakeSource struct {
	suggestions []Suggestion
	upserted    []LocationRecord
}

func (f *fakeSource) SearchLocations(_ context.Context, query string, _ int) ([]Suggestion, error) {
	var out []Suggestion
	for _, s := range f.suggestions {
		if strings.Contains(strings.ToLower(s.Name), strings.ToLower(query)) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSource) ListLocations(context.Context) ([]LocationRecord, error) {
	return nil, nil
}

func (f *fakeSource) UpsertLocation(_ context.Context, l LocationRecord) (LocationRecord, error) {
	f.upserted = append(f.upserted, l)
	return l, nil
}

func TestSearchFallsBackToSource(t *testing.T) {
	source := &fakeSource{suggestions: []Suggestion{
		{ID: "loc_leeds", Name: "Leeds", City: "Leeds"},
		{ID: "loc_london", Name: "London", City: "London"},
	}}
	svc := NewService(nil, source)

	response := svc.Search(context.Background(), Query{Text: "lee", Limit: 5})
	if len(response.Suggestions) != 1 || response.Suggestions[0].ID != "loc_leeds" {
		t.Fatalf("expected Leeds, got %+v", response.Suggestions)
	}
	if response.Query != "lee" {
		t.Fatalf("expected query echoed back, got %q", response.Query)
	}
}

func TestSearchNeverReturnsNilSuggestions(t *testing.T) {
	svc := NewService(nil, &fakeSource{})

	response := svc.Search(context.Background(), Query{Text: "nowhere"})
	if response.Suggestions == nil {
		t.Fatalf("suggestions must serialize as [], not null")
	}
}

func TestRecordLocationUpserts(t *testing.T) {
	source := &fakeSource{}
	svc := NewService(nil, source)

	svc.RecordLocation(context.Background(), "  Durham  ")
	if len(source.upserted) != 1 || source.upserted[0].Name != "Durham" {
		t.Fatalf("expected trimmed Durham upsert, got %+v", source.upserted)
	}

	svc.RecordLocation(context.Background(), "   ")
	if len(source.upserted) != 1 {
		t.Fatalf("blank locations must not be recorded")
	}
}
