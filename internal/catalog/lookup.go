package catalog

import (
	"context"
	"fmt"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Categories returns every exercise category name, fully paginated and
// sorted for display.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	names, err := c.fetchAllNames(ctx, "/exercisecategory/")
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return names, nil
}

// Equipment returns every equipment name.
func (c *Client) Equipment(ctx context.Context) ([]string, error) {
	names, err := c.fetchAllNames(ctx, "/equipment/")
	if err != nil {
		return nil, fmt.Errorf("listing equipment: %w", err)
	}
	return names, nil
}

// Muscles returns every muscle name, preferring the English name.
func (c *Client) Muscles(ctx context.Context) ([]string, error) {
	var out []string
	u := fmt.Sprintf("%s/muscle/?limit=%d", c.baseURL, c.pageSize)
	for u != "" {
		var resp pagedResponse[muscle]
		if err := c.getJSON(ctx, u, &resp); err != nil {
			return nil, fmt.Errorf("listing muscles: %w", err)
		}
		for _, m := range resp.Results {
			if name := muscleName(m); name != "" {
				out = append(out, name)
			}
		}
		u = nextOrEmpty(resp.Next)
	}
	sortNames(out)
	return out, nil
}

// fetchAllNames follows continuation cursors until the listing is
// exhausted. Only used for bounded reference lists small enough to
// materialize in full.
func (c *Client) fetchAllNames(ctx context.Context, path string) ([]string, error) {
	var out []string
	u := fmt.Sprintf("%s%s?limit=%d", c.baseURL, path, c.pageSize)
	for u != "" {
		var resp pagedResponse[namedItem]
		if err := c.getJSON(ctx, u, &resp); err != nil {
			return nil, err
		}
		for _, item := range resp.Results {
			if item.Name != "" {
				out = append(out, item.Name)
			}
		}
		u = nextOrEmpty(resp.Next)
	}
	sortNames(out)
	return out, nil
}

func nextOrEmpty(next *string) string {
	if next == nil {
		return ""
	}
	return *next
}

// sortNames orders display names with a case-insensitive English collator.
func sortNames(names []string) {
	collate.New(language.English, collate.IgnoreCase).SortStrings(names)
}
