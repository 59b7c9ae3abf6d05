package candidates

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"

	"swellyo-workers/internal/models"
)

// ElasticsearchRepository searches a profile index where each document is a
// CandidateProfile plus a lowercase "destinations" keyword array.
type ElasticsearchRepository struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchRepository(client *elasticsearch.Client, index string) *ElasticsearchRepository {
	return &ElasticsearchRepository{client: client, index: index}
}

func (r *ElasticsearchRepository) Source() string { return "elasticsearch" }

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string                  `json:"_id"`
			Source models.CandidateProfile `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func buildSearchBody(q Query) map[string]interface{} {
	query := map[string]interface{}{"match_all": map[string]interface{}{}}
	if q.Destination != "" {
		query = map[string]interface{}{
			"term": map[string]interface{}{"destinations": q.Destination},
		}
	}
	return map[string]interface{}{
		"query": query,
		"size":  q.Limit,
		"sort":  []interface{}{map[string]interface{}{"id": "asc"}},
	}
}

func (r *ElasticsearchRepository) FindCandidates(ctx context.Context, q Query) ([]models.CandidateProfile, error) {
	q = q.normalized()

	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(buildSearchBody(q)); err != nil {
		return nil, fmt.Errorf("%w: encode query: %v", ErrQueryFailed, err)
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(&body),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", ErrQueryFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, r.index)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: search error: %s", ErrQueryFailed, res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrQueryFailed, err)
	}

	profiles := make([]models.CandidateProfile, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		p := hit.Source
		if p.ID == "" {
			p.ID = hit.ID
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}
