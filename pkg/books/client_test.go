package books

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarian/pkg/inference"
)

const englishBlurb = "A sweeping story of politics, religion, and ecology on a desert planet, widely considered one of the greatest science fiction novels ever written."

const germanBlurb = "Dies ist eine wunderbare Geschichte über eine Familie, die in den Bergen lebt und dort gemeinsam viele Abenteuer und Schwierigkeiten erlebt."

type rawVolume struct {
	ID         string         `json:"id"`
	VolumeInfo map[string]any `json:"volumeInfo"`
}

func volumeFixture(id, title, blurb string, thumbnail bool, authors ...string) rawVolume {
	info := map[string]any{"title": title}
	if len(authors) > 0 {
		info["authors"] = authors
	}
	if blurb != "" {
		info["description"] = blurb
	}
	if thumbnail {
		info["imageLinks"] = map[string]any{"thumbnail": "http://books.example/" + id + ".jpg"}
	}
	return rawVolume{ID: id, VolumeInfo: info}
}

func newVolumesServer(t *testing.T, items []rawVolume, gotQuery *map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotQuery != nil {
			params := make(map[string]string)
			for key := range r.URL.Query() {
				params[key] = r.URL.Query().Get(key)
			}
			*gotQuery = params
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	}))
}

func TestSearchFiltersAndDedupes(t *testing.T) {
	items := []rawVolume{
		volumeFixture("1", "Dune", englishBlurb, true, "Frank Herbert"),
		volumeFixture("2", "No Cover", englishBlurb, false, "Someone"),
		volumeFixture("3", "No Blurb", "", true, "Someone"),
		volumeFixture("4", "Heidi", germanBlurb, true, "Johanna Spyri"),
		volumeFixture("5", "DUNE", englishBlurb, true, "FRANK HERBERT"),
		volumeFixture("6", "Hyperion", englishBlurb, true, "Dan", "Simmons"),
	}
	srv := newVolumesServer(t, items, nil)
	defer srv.Close()

	client := NewClient("", nil)
	client.SetBaseURL(srv.URL)
	defer client.Close()

	results, err := client.Search(context.Background(), "dune", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "1", results[0].BookID)
	assert.Equal(t, "Dune", results[0].Title)
	assert.Equal(t, "Frank Herbert", results[0].Author)
	assert.Equal(t, englishBlurb, results[0].Blurb)
	assert.NotEmpty(t, results[0].Thumbnail)

	assert.Equal(t, "Hyperion", results[1].Title)
	assert.Equal(t, "Dan, Simmons", results[1].Author)
}

func TestSearchCapsResults(t *testing.T) {
	var items []rawVolume
	titles := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}
	for i, title := range titles {
		items = append(items, volumeFixture(title, "Book "+title, englishBlurb, true, "Author "+titles[i]))
	}
	var got map[string]string
	srv := newVolumesServer(t, items, &got)
	defer srv.Close()

	client := NewClient("", nil)
	client.SetBaseURL(srv.URL)
	defer client.Close()

	results, err := client.Search(context.Background(), "x", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "Book A", results[0].Title)
	assert.Equal(t, "Book B", results[1].Title)
	assert.Equal(t, "Book C", results[2].Title)

	// Twice max_results are requested up front to compensate for filtering.
	assert.Equal(t, "6", got["maxResults"])
	assert.Equal(t, "en", got["langRestrict"])
}

func TestSearchMissingAuthorDefaultsUnknown(t *testing.T) {
	srv := newVolumesServer(t, []rawVolume{volumeFixture("1", "Orphaned", englishBlurb, true)}, nil)
	defer srv.Close()

	client := NewClient("", nil)
	client.SetBaseURL(srv.URL)
	defer client.Close()

	results, err := client.Search(context.Background(), "orphaned", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Unknown", results[0].Author)
}

func TestSearchUsesParsedQuery(t *testing.T) {
	var got map[string]string
	srv := newVolumesServer(t, nil, &got)
	defer srv.Close()

	inf := &stubInferencer{out: `{"title":"Dune","author":"Frank Herbert"}`}
	client := NewClient("", NewQueryParser(inf))
	client.SetBaseURL(srv.URL)
	defer client.Close()

	_, err := client.Search(context.Background(), "dune frank herbert", 10)
	require.NoError(t, err)
	assert.Equal(t, `intitle:"Dune" inauthor:"Frank Herbert"`, got["q"])
}

func TestSearchSurvivesParserFailure(t *testing.T) {
	var got map[string]string
	srv := newVolumesServer(t, nil, &got)
	defer srv.Close()

	inf := &stubInferencer{err: errors.New("model unavailable")}
	client := NewClient("", NewQueryParser(inf))
	client.SetBaseURL(srv.URL)
	defer client.Close()

	_, err := client.Search(context.Background(), "dune frank herbert", 10)
	require.NoError(t, err)
	assert.Equal(t, "dune frank herbert", got["q"])
}

func TestSearchUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient("", nil)
	client.SetBaseURL(srv.URL)
	defer client.Close()

	_, err := client.Search(context.Background(), "dune", 10)
	assert.Error(t, err)
}

func TestGetBook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/found":
			_ = json.NewEncoder(w).Encode(volumeFixture("found", "Dune", englishBlurb, true, "Frank Herbert"))
		case "/filtered":
			_ = json.NewEncoder(w).Encode(volumeFixture("filtered", "No Cover", englishBlurb, false, "Someone"))
		case "/broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient("", nil)
	client.SetBaseURL(srv.URL)
	defer client.Close()

	ctx := context.Background()

	book, err := client.GetBook(ctx, "found")
	require.NoError(t, err)
	require.NotNil(t, book)
	assert.Equal(t, "Dune", book.Title)

	book, err = client.GetBook(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, book)

	book, err = client.GetBook(ctx, "filtered")
	require.NoError(t, err)
	assert.Nil(t, book)

	_, err = client.GetBook(ctx, "broken")
	assert.Error(t, err)
}

type stubInferencer struct {
	out   string
	err   error
	calls int
}

func (s *stubInferencer) Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error) {
	s.calls++
	return s.out, s.err
}

func (s *stubInferencer) InferWithTools(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string, tools []inference.Tool) (string, error) {
	return s.Infer(ctx, params, system, user)
}
