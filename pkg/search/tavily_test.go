package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTavilySearchFormatsAnswerAndResults(t *testing.T) {
	var gotPayload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"answer": "Readers who liked Dune often pick up Hyperion.",
			"results": []map[string]string{
				{"title": "Best books like Dune", "url": "http://example.com/1", "content": "Hyperion, Foundation, and more."},
				{"title": "r/printSF thread", "url": "http://example.com/2", "content": "Try The Left Hand of Darkness."},
			},
		})
	}))
	defer srv.Close()

	client := NewTavilyClient("key", srv.Client())
	client.SetBaseURL(srv.URL)

	out, err := client.Search(context.Background(), "books similar to Dune")
	require.NoError(t, err)

	assert.Contains(t, out, "AI Summary: Readers who liked Dune often pick up Hyperion.")
	assert.Contains(t, out, "Result 1: Best books like Dune\nURL: http://example.com/1\nContent: Hyperion, Foundation, and more.")
	assert.Contains(t, out, "Result 2: r/printSF thread")

	assert.Equal(t, "books similar to Dune", gotPayload["query"])
	assert.Equal(t, "advanced", gotPayload["search_depth"])
	assert.Equal(t, float64(10), gotPayload["max_results"])
	assert.Equal(t, true, gotPayload["include_answer"])
	assert.Equal(t, false, gotPayload["include_raw_content"])
}

func TestTavilySearchNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"answer": "", "results": []any{}})
	}))
	defer srv.Close()

	client := NewTavilyClient("key", srv.Client())
	client.SetBaseURL(srv.URL)

	out, err := client.Search(context.Background(), "nothing at all")
	require.NoError(t, err)
	assert.Equal(t, "No results found for this query.", out)
}

func TestTavilySearchUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewTavilyClient("key", srv.Client())
	client.SetBaseURL(srv.URL)

	_, err := client.Search(context.Background(), "books similar to Dune")
	assert.Error(t, err)
}
