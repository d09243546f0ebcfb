package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/azharlabs/locas/pkg/logx"
)

const (
	serperSearchURL = "https://google.serper.dev/search"

	// maxPageContent caps the extracted text of a single fetched page.
	maxPageContent = 10000
)

// SearchResult is one web search hit with its extracted page text.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Content string `json:"content"`
}

// SearchResultSet pairs search hits with the query that produced them.
type SearchResultSet struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

// SearchClient searches the web through the Serper API and extracts text
// from result pages.
type SearchClient struct {
	APIKey    string
	SerperURL string
	Client    *http.Client
}

func NewSearchClient(apiKey string) *SearchClient {
	return &SearchClient{
		APIKey:    apiKey,
		SerperURL: serperSearchURL,
		Client:    &http.Client{Timeout: serviceTimeout},
	}
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

func (s *SearchClient) searchWeb(ctx context.Context, query string, num int) (*serperResponse, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("search: missing API key")
	}

	body, err := json.Marshal(map[string]any{"q": query, "num": num})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.SerperURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search: unexpected status %d", resp.StatusCode)
	}

	var payload serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("search: decode: %w", err)
	}
	return &payload, nil
}

// fetchPageText downloads a result page and extracts its visible text.
func (s *SearchClient) fetchPageText(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", link, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: unexpected status %d", link, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("fetch %s: parse: %w", link, err)
	}
	doc.Find("script, style, noscript").Remove()

	return collapseWhitespace(doc.Text()), nil
}

// SearchAndExtract searches for the query and pulls the page text of the top
// maxResults hits. Pages that cannot be fetched fall back to the search
// snippet.
func (s *SearchClient) SearchAndExtract(ctx context.Context, query string, maxResults int) (*SearchResultSet, error) {
	if maxResults <= 0 {
		maxResults = 2
	}

	payload, err := s.searchWeb(ctx, query, 8)
	if err != nil {
		return nil, err
	}

	set := &SearchResultSet{Query: query}
	for i, hit := range payload.Organic {
		if i >= maxResults {
			break
		}
		content := hit.Snippet
		if hit.Link != "" {
			text, err := s.fetchPageText(ctx, hit.Link)
			if err != nil {
				logx.Warn().Err(err).Str("link", hit.Link).Msg("page fetch failed, using snippet")
			} else if text != "" {
				content = text
			}
		}
		if len(content) > maxPageContent {
			content = content[:maxPageContent] + "..."
		}
		set.Results = append(set.Results, SearchResult{
			Title:   hit.Title,
			Link:    hit.Link,
			Content: content,
		})
	}
	return set, nil
}

func collapseWhitespace(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		for _, chunk := range strings.Split(strings.TrimSpace(line), "  ") {
			if c := strings.TrimSpace(chunk); c != "" {
				lines = append(lines, c)
			}
		}
	}
	return strings.Join(lines, "\n")
}
