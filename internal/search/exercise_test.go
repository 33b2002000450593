package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/workout_tracker/internal/models"
)

type fakeES struct {
	mu       sync.Mutex
	paths    []string
	bodies   []string
	response string
	status   int
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.paths = append(f.paths, r.Method+" "+r.URL.Path)
	f.bodies = append(f.bodies, string(body))
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, f.response)
}

func (f *fakeES) last() (path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.paths) == 0 {
		return "", ""
	}
	return f.paths[len(f.paths)-1], f.bodies[len(f.bodies)-1]
}

func newFake(t *testing.T, f *fakeES) *ExerciseIndex {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewExerciseIndex(es, "exercises")
}

func TestExerciseIndex_Search(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	f := &fakeES{response: `{"hits":{"total":{"value":1},"hits":[{"_source":{"id":"` + id.String() + `","name":"Bench Press","category":"Strength"}}]}}`}
	x := newFake(t, f)

	total, got, err := x.Search(context.Background(), "bench", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, "Bench Press", got[0].Name)

	path, body := f.last()
	assert.Equal(t, "POST /exercises/_search", path)

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &sent))
	mm := sent["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "bench", mm["query"])
	assert.EqualValues(t, 10, sent["size"])
}

func TestExerciseIndex_SearchError(t *testing.T) {
	t.Parallel()

	f := &fakeES{status: http.StatusInternalServerError, response: `{"error":"boom"}`}
	x := newFake(t, f)

	_, _, err := x.Search(context.Background(), "bench", 0, 10)
	require.Error(t, err)
}

func TestExerciseIndex_IndexAll(t *testing.T) {
	t.Parallel()

	f := &fakeES{response: `{"errors":false,"items":[]}`}
	x := newFake(t, f)

	exercises := []models.Exercise{
		{ID: uuid.New(), Name: "Squat", Category: "Strength"},
		{ID: uuid.New(), Name: "Running", Category: "Cardio"},
	}
	require.NoError(t, x.IndexAll(context.Background(), exercises))

	_, body := f.last()
	assert.Equal(t, 4, strings.Count(body, "\n"))
	assert.Contains(t, body, exercises[0].ID.String())
	assert.Contains(t, body, `"name":"Running"`)
}

func TestExerciseIndex_IndexAllRejected(t *testing.T) {
	t.Parallel()

	f := &fakeES{response: `{"errors":true,"items":[]}`}
	x := newFake(t, f)

	err := x.IndexAll(context.Background(), []models.Exercise{{ID: uuid.New(), Name: "Squat"}})
	require.Error(t, err)
}
