package locas

import (
	"fmt"
	"strings"
)

// FormatToolResult renders any tool result to the text fed back to the
// model. It is total: an unrecognized variant yields a diagnostic string
// rather than a failure.
func FormatToolResult(result ToolResult) string {
	switch r := result.(type) {
	case PlaceList:
		return formatPlaceList(r)
	case EnvironmentalReport:
		return r.Message
	case AnalysisText:
		return r.Text
	case SearchResultSet:
		return formatSearchResults(r)
	case ToolError:
		return "Error: " + r.Message
	default:
		return fmt.Sprintf("Unexpected result type: %T", result)
	}
}

func formatPlaceList(r PlaceList) string {
	var lines []string
	for _, place := range r.Places {
		line := fmt.Sprintf("- %s: %s", place.Name, place.Address)
		if place.Rating > 0 {
			line += fmt.Sprintf(" (Rating: %v/5)", place.Rating)
		}
		lines = append(lines, line)
	}
	return fmt.Sprintf("Found %d %s:\n%s", r.TotalFound, r.SearchTerm, strings.Join(lines, "\n"))
}

func formatSearchResults(r SearchResultSet) string {
	query := r.Query
	if query == "" {
		query = "Unknown query"
	}
	if len(r.Results) == 0 {
		return "No web search results found for query: " + query
	}

	parts := []string{"Web search results for: " + query}
	for idx, hit := range r.Results {
		title := hit.Title
		if title == "" {
			title = "No title"
		}
		link := hit.Link
		if link == "" {
			link = "No link"
		}
		summary := hit.Content
		if summary == "" {
			summary = "No content"
		}
		if len(summary) > 200 {
			summary = summary[:200]
		}
		parts = append(parts, fmt.Sprintf("\n%d. %s", idx+1, title))
		parts = append(parts, "   URL: "+link)
		parts = append(parts, "   Summary: "+summary+"...")
	}
	return strings.Join(parts, "\n")
}
