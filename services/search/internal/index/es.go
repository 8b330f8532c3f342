package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
)

type ESIndexer struct {
	Client    *elasticsearch.Client
	IndexName string
}

func (e *ESIndexer) Index(ctx context.Context, doc Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	res, err := e.Client.Index(
		e.IndexName,
		bytes.NewReader(body),
		e.Client.Index.WithDocumentID(doc.PostID),
		e.Client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index document %s: %w", doc.PostID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index document %s: %s", doc.PostID, res.Status())
	}
	return nil
}

func (e *ESIndexer) Remove(ctx context.Context, postID string) error {
	res, err := e.Client.Delete(
		e.IndexName,
		postID,
		e.Client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete document %s: %w", postID, err)
	}
	defer res.Body.Close()
	// Already gone counts as removed; deletion events can be replayed.
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete document %s: %s", postID, res.Status())
	}
	return nil
}

func (e *ESIndexer) Search(ctx context.Context, query string, from, size int) (int64, []Document, error) {
	body := map[string]any{
		"query": map[string]any{
			"match": map[string]any{
				"content": map[string]any{
					"query":     query,
					"fuzziness": "AUTO",
				},
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := e.Client.Search(
		e.Client.Search.WithContext(ctx),
		e.Client.Search.WithIndex(e.IndexName),
		e.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source Document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	docs := make([]Document, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		docs[i] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}
