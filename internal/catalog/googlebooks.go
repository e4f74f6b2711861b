// Package catalog looks up candidate books in the Google Books volumes API.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	maxResults = 10

	placeholderValue       = "N/A"
	placeholderDescription = "No description available"
)

// BookSummary is one candidate book returned by a catalog search.
type BookSummary struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	PublicationYear string `json:"publication_year"`
	Description     string `json:"description"`
	Category        string `json:"category"`
}

// Client fetches book summaries from the Google Books API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rateLimiter
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		time.Sleep(r.interval - since)
	}
	r.lastCall = time.Now()
}

// NewClient creates a Google Books client with a bounded request timeout
// and in-process rate limiting.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		rateLimiter: newRateLimiter(time.Second),
	}
}

// Search queries the catalog for a field of interest plus an optional
// sub-topic and returns up to ten book summaries with the field echoed
// back as each summary's category. Transport and decode failures surface
// as errors; callers on the request path degrade them to empty results.
func (c *Client) Search(ctx context.Context, field, topic string) ([]BookSummary, error) {
	query := strings.TrimSpace(field + " " + topic)
	if query == "" {
		return nil, fmt.Errorf("empty search query")
	}

	c.rateLimiter.wait()

	searchURL := fmt.Sprintf("%s/volumes?q=%s", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Booktrail/1.0 (https://github.com/booktrail/booktrail)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	books := make([]BookSummary, 0, maxResults)
	for _, item := range result.Items {
		if len(books) == maxResults {
			break
		}
		books = append(books, convertVolume(item.VolumeInfo, field))
	}

	return books, nil
}

type volumesResponse struct {
	Items []struct {
		VolumeInfo volumeInfo `json:"volumeInfo"`
	} `json:"items"`
}

type volumeInfo struct {
	Title               string   `json:"title"`
	Authors             []string `json:"authors"`
	PublishedDate       string   `json:"publishedDate"`
	Description         string   `json:"description"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
}

func convertVolume(info volumeInfo, category string) BookSummary {
	summary := BookSummary{
		Title:           info.Title,
		Author:          strings.Join(info.Authors, ", "),
		PublicationYear: info.PublishedDate,
		Description:     info.Description,
		Category:        category,
		ISBN:            placeholderValue,
	}

	// The first reported identifier is the primary ISBN.
	if len(info.IndustryIdentifiers) > 0 {
		summary.ISBN = info.IndustryIdentifiers[0].Identifier
	}

	if summary.Title == "" {
		summary.Title = placeholderValue
	}
	if summary.Author == "" {
		summary.Author = placeholderValue
	}
	if summary.PublicationYear == "" {
		summary.PublicationYear = placeholderValue
	}
	if summary.Description == "" {
		summary.Description = placeholderDescription
	}

	return summary
}
