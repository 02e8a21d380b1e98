package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"librarian/pkg/utils"
)

const exaBaseURL = "https://api.exa.ai"

// Content about a book is only pulled from domains known for substantive
// reviews and discussion.
var bookDomains = []string{"goodreads.com", "reddit.com", "bookish.com", "theguardian.com", "nytimes.com"}

const (
	maxSourceChars     = 5000
	maxParallelQueries = 3
)

// ExaClient is a thin adapter over the Exa content-search API.
type ExaClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewExaClient(apiKey string, httpClient *http.Client) *ExaClient {
	return &ExaClient{apiKey: apiKey, baseURL: exaBaseURL, http: httpClient}
}

// SetBaseURL points the client at a different endpoint. Used by tests.
func (c *ExaClient) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
}

type exaSearchResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}

type exaResponse struct {
	Results []exaSearchResult `json:"results"`
}

func (c *ExaClient) post(ctx context.Context, path string, body any, out *exaResponse) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("exa request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("exa %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Search runs one Exa search and returns the fetched source texts as a single
// block, each source capped at 5,000 characters.
func (c *ExaClient) Search(ctx context.Context, query string, numResults int) (string, error) {
	if numResults <= 0 {
		numResults = 3
	}
	log.Info("exa search", "query", utils.LimitStr(query, 50))

	var found exaResponse
	err := c.post(ctx, "/search", map[string]any{
		"query":          query,
		"numResults":     numResults,
		"includeDomains": bookDomains,
	}, &found)
	if err != nil {
		return "", err
	}
	if len(found.Results) == 0 {
		return "No relevant content found for this query.", nil
	}

	urls := make([]string, 0, len(found.Results))
	for _, r := range found.Results {
		urls = append(urls, r.URL)
	}

	var contents exaResponse
	if err := c.post(ctx, "/contents", map[string]any{"urls": urls}, &contents); err != nil {
		return "", err
	}

	var combined []string
	for i, result := range contents.Results {
		title := "Unknown"
		if i < len(found.Results) {
			title = found.Results[i].Title
		}
		if result.Text == "" {
			continue
		}
		text := utils.LimitStr(result.Text, maxSourceChars)
		combined = append(combined, "Source: "+title+"\n"+text+"\n")
		log.Debug("exa source retrieved", "title", title, "chars", len(text))
	}
	if len(combined) == 0 {
		return "No relevant content found for this query.", nil
	}
	return strings.Join(combined, "\n---\n"), nil
}

// SearchParallel runs up to three searches concurrently and concatenates the
// successful results in input order regardless of completion order.
func (c *ExaClient) SearchParallel(ctx context.Context, queries []string, numResults int) (string, error) {
	if len(queries) == 0 {
		return "No search queries provided", nil
	}
	log.Info("exa parallel search", "queries", len(queries))

	results := make([]string, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelQueries)
	for i, query := range queries {
		g.Go(func() error {
			content, err := c.Search(gctx, query, numResults)
			if err != nil {
				log.Warn("exa search failed", "query", utils.LimitStr(query, 50), "error", err)
				return nil
			}
			results[i] = content
			return nil
		})
	}
	_ = g.Wait()

	var combined []string
	var total int
	for i, content := range results {
		if content == "" || content == "No relevant content found for this query." {
			continue
		}
		combined = append(combined, fmt.Sprintf("=== Search %d Results ===\n%s", i+1, content))
		total += len(content)
	}
	log.Info("exa parallel search complete", "chars", total)
	if len(combined) == 0 {
		return "No relevant content found for this book.", nil
	}
	return strings.Join(combined, "\n\n"), nil
}
