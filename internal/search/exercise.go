package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/workout_tracker/internal/models"
)

type ExerciseIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewExerciseIndex(es *elasticsearch.Client, index string) *ExerciseIndex {
	return &ExerciseIndex{ES: es, Index: index}
}

// IndexAll upserts every exercise with a single bulk request.
func (x *ExerciseIndex) IndexAll(ctx context.Context, exercises []models.Exercise) error {
	if len(exercises) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, e := range exercises {
		meta := map[string]any{"index": map[string]any{"_index": x.Index, "_id": e.ID.String()}}
		if err := enc.Encode(meta); err != nil {
			return err
		}
		if err := enc.Encode(e); err != nil {
			return err
		}
	}

	res, err := x.ES.Bulk(
		bytes.NewReader(buf.Bytes()),
		x.ES.Bulk.WithContext(ctx),
		x.ES.Bulk.WithIndex(x.Index),
		x.ES.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("bulk index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("bulk index: %s", responseError(res.Status(), res.Body))
	}

	var r struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return fmt.Errorf("bulk index: decode: %w", err)
	}
	if r.Errors {
		return fmt.Errorf("bulk index: some documents were rejected")
	}
	return nil
}

func (x *ExerciseIndex) Search(ctx context.Context, query string, from, size int) (int64, []models.Exercise, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "category", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode: %w", err)
	}

	res, err := x.ES.Search(
		x.ES.Search.WithContext(ctx),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", responseError(res.Status(), res.Body))
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Exercise `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search: decode: %w", err)
	}

	out := make([]models.Exercise, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		out[i] = hit.Source
	}
	return r.Hits.Total.Value, out, nil
}

func responseError(status string, body io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(body, 512))
	return strings.TrimSpace(status + " " + string(b))
}
