// Package catalog fetches exercises from a wger-style paginated REST
// catalog. The client normalizes raw records into models.CatalogExercise
// and exposes opaque continuation cursors; it never retries on its own.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/claude/repbook/internal/models"
)

// englishLanguageID is the wger language id for English translations.
const englishLanguageID = 2

// FetchError reports a non-success response from the catalog.
type FetchError struct {
	Status int
	URL    string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("catalog fetch failed (status %d): %s", e.Status, e.URL)
}

// Client talks to the remote exercise catalog.
type Client struct {
	baseURL    string
	pageSize   int
	httpClient *http.Client
}

// New creates a catalog client for the given base URL (e.g.
// "https://wger.de/api/v2"). pageSize bounds each exercise page; values
// below 1 fall back to 20.
func New(baseURL string, pageSize int) *Client {
	if pageSize < 1 {
		pageSize = 20
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// PageRequest describes one exercise page fetch. A non-empty Cursor is an
// opaque continuation token from a prior Page and is requested verbatim;
// Query is then ignored, since the token already encodes the original
// request's parameters.
type PageRequest struct {
	Query  string
	Cursor string
}

// Page is one page of catalog results. An empty NextCursor means the
// listing is exhausted.
type Page struct {
	Items      []models.CatalogExercise
	NextCursor string
}

// pagedResponse is the wire envelope shared by all catalog listings.
type pagedResponse[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// exerciseInfo is a raw /exerciseinfo record.
type exerciseInfo struct {
	ID               int           `json:"id"`
	Category         *namedItem    `json:"category"`
	Muscles          []muscle      `json:"muscles"`
	MusclesSecondary []muscle      `json:"muscles_secondary"`
	Equipment        []namedItem   `json:"equipment"`
	Translations     []translation `json:"translations"`
}

type namedItem struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type muscle struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	NameEn string `json:"name_en"`
}

type translation struct {
	ID       int    `json:"id"`
	Language int    `json:"language"`
	Name     string `json:"name"`
}

// FetchPage retrieves one page of exercises. Without a cursor it builds a
// first-page request and applies the free-text query client-side after
// name normalization; with a cursor it follows the token as-is.
func (c *Client) FetchPage(ctx context.Context, req PageRequest) (*Page, error) {
	u := req.Cursor
	if u == "" {
		u = fmt.Sprintf("%s/exerciseinfo/?limit=%d", c.baseURL, c.pageSize)
	}

	var resp pagedResponse[exerciseInfo]
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	items := make([]models.CatalogExercise, 0, len(resp.Results))
	for _, raw := range resp.Results {
		items = append(items, normalizeExercise(raw))
	}

	// The query never changes which URL is fetched when a cursor is set,
	// but the client-side name filter still applies to every page.
	if q := strings.ToLower(strings.TrimSpace(req.Query)); q != "" {
		filtered := items[:0]
		for _, it := range items {
			if strings.Contains(strings.ToLower(it.Name), q) {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}

	next := ""
	if resp.Next != nil {
		next = *resp.Next
	}
	return &Page{Items: items, NextCursor: next}, nil
}

// normalizeExercise maps a raw record to the domain shape: English name
// (trimmed), category name, muscle names preferring name_en, equipment
// names.
func normalizeExercise(raw exerciseInfo) models.CatalogExercise {
	ex := models.CatalogExercise{ID: raw.ID, Muscles: []string{}}

	for _, tr := range raw.Translations {
		if tr.Language == englishLanguageID {
			ex.Name = strings.TrimSpace(tr.Name)
			break
		}
	}
	if raw.Category != nil {
		ex.Category = raw.Category.Name
	}
	for _, m := range raw.Muscles {
		if name := muscleName(m); name != "" {
			ex.Muscles = append(ex.Muscles, name)
		}
	}
	for _, eq := range raw.Equipment {
		if eq.Name != "" {
			ex.Equipment = append(ex.Equipment, eq.Name)
		}
	}
	return ex
}

func muscleName(m muscle) string {
	if m.NameEn != "" {
		return m.NameEn
	}
	return m.Name
}

// getJSON performs a GET and decodes a JSON body, converting non-2xx
// statuses into *FetchError.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{Status: resp.StatusCode, URL: url}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", url, err)
	}
	return nil
}
