package books

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/charmbracelet/log"

	"librarian/pkg/schema"
)

const googleBooksBaseURL = "https://www.googleapis.com/books/v1/volumes"

const defaultMaxResults = 10

// Client is a Google Books API client with LLM-powered query parsing.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	parser  *QueryParser
}

// NewClient creates a Google Books client. parser may be nil to disable LLM
// query parsing.
func NewClient(apiKey string, parser *QueryParser) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: googleBooksBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		parser:  parser,
	}
}

// SetBaseURL points the client at a different endpoint. Used by tests.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
}

// Close releases the outbound connection pool. Call at process shutdown.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

type volume struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title       string   `json:"title"`
		Authors     []string `json:"authors"`
		Description string   `json:"description"`
		ImageLinks  struct {
			Thumbnail string `json:"thumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

type volumeList struct {
	Items []volume `json:"items"`
}

// Search looks up books for a free-text query. The query is first parsed into
// structured fields when a parser is configured; any parser failure falls back
// to the raw query. Results are filtered to covered, English-described books,
// deduplicated by (title, author), and capped at maxResults.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]schema.BookSummary, error) {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	log.Info("BOOK SEARCH", "query", query)

	searchQuery := query
	if c.parser != nil {
		if parsed, err := c.parser.Parse(ctx, query); err != nil {
			log.Warn("query parser failed, falling back to raw query", "error", err)
		} else if structured := parsed.ToGoogleQuery(); structured != "" {
			searchQuery = structured
		}
	}
	log.Info("google books query", "q", searchQuery)

	params := url.Values{}
	params.Set("q", searchQuery)
	params.Set("maxResults", strconv.Itoa(maxResults*2))
	params.Set("langRestrict", "en")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google books request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google books search: unexpected status %d", resp.StatusCode)
	}

	var data volumeList
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("google books response decode: %w", err)
	}
	log.Info("google books raw response", "items", len(data.Items))

	results := make([]schema.BookSummary, 0, maxResults)
	seen := make(map[[2]string]struct{})
	var filtered int

	for _, item := range data.Items {
		book := parseVolume(item)
		if book == nil {
			filtered++
			continue
		}
		key := [2]string{strings.ToLower(book.Title), strings.ToLower(book.Author)}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		results = append(results, *book)
		if len(results) >= maxResults {
			break
		}
	}

	log.Info("book search complete", "results", len(results), "filtered", filtered)
	return results, nil
}

// GetBook fetches one book by provider id. A provider 404 maps to (nil, nil).
func (c *Client) GetBook(ctx context.Context, bookID string) (*schema.BookSummary, error) {
	params := url.Values{}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	endpoint := c.baseURL + "/" + url.PathEscape(bookID)
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google books request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google books get: unexpected status %d", resp.StatusCode)
	}

	var item volume
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, fmt.Errorf("google books response decode: %w", err)
	}
	return parseVolume(item), nil
}

// parseVolume converts a raw provider item into a BookSummary. It returns nil
// when the item should be filtered out: no cover thumbnail, no description,
// or a description whose detected language is not English.
func parseVolume(item volume) *schema.BookSummary {
	info := item.VolumeInfo

	if info.ImageLinks.Thumbnail == "" {
		return nil
	}
	if info.Description == "" {
		return nil
	}
	if whatlanggo.Detect(info.Description).Lang != whatlanggo.Eng {
		log.Debug("filtered non-English description", "title", info.Title)
		return nil
	}

	title := info.Title
	if title == "" {
		title = "Unknown"
	}
	author := "Unknown"
	if len(info.Authors) > 0 {
		author = strings.Join(info.Authors, ", ")
	}

	return &schema.BookSummary{
		BookID:    item.ID,
		Title:     title,
		Author:    author,
		Blurb:     info.Description,
		Thumbnail: info.ImageLinks.Thumbnail,
	}
}
