package locas

import "github.com/azharlabs/locas/pkg/services"

// ToolResult is the closed set of outcomes a tool dispatch can produce.
// Every variant is rendered to text by FormatToolResult before it re-enters
// the conversation.
type ToolResult interface {
	isToolResult()
}

// PlaceList is the outcome of a find_places call.
type PlaceList struct {
	services.PlaceResults
}

// EnvironmentalReport is the outcome of a get_environmental_data call.
type EnvironmentalReport struct {
	Message string
}

// AnalysisText is the outcome of a land or business analysis.
type AnalysisText struct {
	Text string
}

// SearchResultSet is the outcome of a search_web call.
type SearchResultSet struct {
	services.SearchResultSet
}

// ToolError is the failure variant. Every collaborator or argument failure
// becomes one of these; tools never surface raw errors to the model.
type ToolError struct {
	Message string
}

func (PlaceList) isToolResult()           {}
func (EnvironmentalReport) isToolResult() {}
func (AnalysisText) isToolResult()        {}
func (SearchResultSet) isToolResult()     {}
func (ToolError) isToolResult()           {}
