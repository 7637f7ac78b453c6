package search

import (
	"encoding/json"
	"log"
	"sync/atomic"
	"time"

	meili "github.com/meilisearch/meilisearch-go"
)

const idxLocations = "hitchbuddy_locations"

// Meili implements Searcher via Meilisearch.
type Meili struct {
	client  meili.ServiceManager
	healthy atomic.Bool
	done    chan struct{}
}

// NewMeili creates a Meilisearch client and configures the locations index.
// The caller should proceed without it if the instance never comes up.
func NewMeili(url, apiKey string) *Meili {
	client := meili.New(url, meili.WithAPIKey(apiKey))

	m := &Meili{
		client: client,
		done:   make(chan struct{}),
	}

	if _, err := client.Health(); err != nil {
		log.Printf("search: meilisearch unavailable at %s: %v", url, err)
		m.healthy.Store(false)
	} else {
		m.healthy.Store(true)
		m.configureIndex()
	}

	go m.healthLoop()
	return m
}

func (m *Meili) configureIndex() {
	if _, err := m.client.CreateIndex(&meili.IndexConfig{
		Uid:        idxLocations,
		PrimaryKey: "id",
	}); err != nil {
		log.Printf("search: create index %s (may already exist): %v", idxLocations, err)
	}

	index := m.client.Index(idxLocations)
	searchable := []string{"name", "city", "postcode"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		log.Printf("search: update searchable attrs for %s: %v", idxLocations, err)
	}
}

func (m *Meili) healthLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !wasHealthy {
				log.Println("search: meilisearch recovered, reconfiguring index")
				m.configureIndex()
			}
		}
	}
}

// Close stops the background health monitor.
func (m *Meili) Close() {
	close(m.done)
}

// Healthy reports whether Meilisearch is reachable.
func (m *Meili) Healthy() bool {
	return m.healthy.Load()
}

// Search queries the locations index.
func (m *Meili) Search(q Query) ([]Suggestion, int, error) {
	if !m.healthy.Load() {
		return nil, 0, errMeiliUnhealthy
	}

	limit := int64(q.Limit)
	if limit == 0 {
		limit = 10
	}

	resp, err := m.client.Index(idxLocations).Search(q.Text, &meili.SearchRequest{
		Limit: limit,
	})
	if err != nil {
		m.healthy.Store(false)
		return nil, 0, err
	}

	suggestions := make([]Suggestion, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		suggestions = append(suggestions, Suggestion{
			ID:       decodeString(hit, "id"),
			Name:     decodeString(hit, "name"),
			City:     decodeString(hit, "city"),
			Postcode: decodeString(hit, "postcode"),
		})
	}
	return suggestions, int(resp.EstimatedTotalHits), nil
}

func decodeString(hit meili.Hit, key string) string {
	raw, ok := hit[key]
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

// IndexLocations bulk-indexes locations.
func (m *Meili) IndexLocations(locations []LocationRecord) error {
	if len(locations) == 0 {
		return nil
	}
	_, err := m.client.Index(idxLocations).AddDocuments(locations, nil)
	return err
}

// IndexLocation adds or updates a single location in the index.
func (m *Meili) IndexLocation(location LocationRecord) error {
	_, err := m.client.Index(idxLocations).AddDocuments([]LocationRecord{location}, nil)
	return err
}
