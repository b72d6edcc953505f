// Package news answers "news:" queries via the GNews search API.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://gnews.io/api/v4"

// Client is a minimal GNews search client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for the given API base URL. An empty baseURL
// uses the public GNews endpoint. An empty apiKey disables outbound calls.
func NewClient(baseURL, apiKey string, requestTimeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type searchResponse struct {
	Articles []struct {
		Title  string `json:"title"`
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Search returns up to max headlines for query as bullet lines. Without an
// API key it returns a canned line instead of calling out.
func (c *Client) Search(ctx context.Context, query string, max int) (string, error) {
	if c.apiKey == "" {
		return fmt.Sprintf("(no news API key) You searched: %s", query), nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("token", c.apiKey)
	params.Set("lang", "en")
	params.Set("max", strconv.Itoa(max))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("news search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("news search returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to parse news response: %w", err)
	}

	if len(parsed.Articles) == 0 {
		return "No news found.", nil
	}

	lines := make([]string, 0, len(parsed.Articles))
	for _, article := range parsed.Articles {
		headline := article.Title
		if headline == "" {
			headline = "No title"
		}
		source := article.Source.Name
		if source == "" {
			source = "source"
		}
		lines = append(lines, fmt.Sprintf("• %s (%s)", headline, source))
	}
	return strings.Join(lines, "\n"), nil
}
