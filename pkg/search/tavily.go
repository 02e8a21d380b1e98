package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
)

const tavilyBaseURL = "https://api.tavily.com"

// TavilyClient is a thin adapter over the Tavily web-search API.
type TavilyClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewTavilyClient(apiKey string, httpClient *http.Client) *TavilyClient {
	return &TavilyClient{apiKey: apiKey, baseURL: tavilyBaseURL, http: httpClient}
}

// SetBaseURL points the client at a different endpoint. Used by tests.
func (c *TavilyClient) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
}

type tavilyResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type tavilyResponse struct {
	Answer  string         `json:"answer"`
	Results []tavilyResult `json:"results"`
}

// Search runs one advanced-depth Tavily search and formats the synthesized
// answer plus the individual result snippets for the model.
func (c *TavilyClient) Search(ctx context.Context, query string) (string, error) {
	log.Info("tavily search", "query", query)

	payload, err := json.Marshal(map[string]any{
		"api_key":             c.apiKey,
		"query":               query,
		"search_depth":        "advanced",
		"max_results":         10,
		"include_answer":      true,
		"include_raw_content": false,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("tavily request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tavily search: unexpected status %d", resp.StatusCode)
	}

	var body tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	log.Info("tavily results", "count", len(body.Results), "answer_chars", len(body.Answer))

	var formatted []string
	if body.Answer != "" {
		formatted = append(formatted, "AI Summary: "+body.Answer)
	}
	for i, result := range body.Results {
		formatted = append(formatted, strings.TrimSpace(fmt.Sprintf(
			"Result %d: %s\nURL: %s\nContent: %s",
			i+1, result.Title, result.URL, result.Content,
		)))
	}
	if len(formatted) == 0 {
		return "No results found for this query.", nil
	}
	return strings.Join(formatted, "\n\n"), nil
}
