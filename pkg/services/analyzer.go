package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/azharlabs/locas/pkg/logx"
	"github.com/azharlabs/locas/pkg/models"
)

const landAnalysisSystemPrompt = `You are a real estate location analyst providing insights about locations.
Your analysis should be detailed, balanced, and objective, focusing on both
advantages and potential concerns for land purchase decisions.

For each factor you analyze, you must provide a numeric rating on a scale of 1-10,
where 1 is extremely poor and 10 is excellent. You must also provide an overall
rating for the location at the end of your analysis.

Present the ratings in a clear format like:
- Factor Name: Description of analysis... [Rating: X/10]

End with an "Overall Rating: X/10" that takes all factors into account.`

const businessAnalysisSystemPrompt = `You are a small business location analyst specializing in retail and food service businesses.
You provide insights about locations for business opportunities, with
consideration for foot traffic, competition, and business viability.

For each factor you analyze, you must provide a numeric rating on a scale of 1-10,
where 1 is extremely poor and 10 is excellent. You must also provide an overall
rating for the location at the end of your analysis.

Present the ratings in a clear format like:
- Factor Name: Description of analysis... [Rating: X/10]

End with an "Overall Rating: X/10" that takes all factors into account.`

// Place categories surveyed before an analysis. Keys are Google place types,
// values the label used in the gathered data.
var landSurveyCategories = []surveyCategory{
	{"school", "schools"},
	{"hospital", "hospitals"},
	{"police", "police stations"},
	{"park", "parks"},
	{"shopping_mall", "shopping malls"},
	{"transit_station", "transit stations"},
	{"restaurant", "restaurants"},
}

var businessSurveyCategories = []surveyCategory{
	{"school", "schools"},
	{"transit_station", "transit stations"},
	{"restaurant", "restaurants"},
	{"cafe", "cafes"},
	{"store", "stores"},
	{"bank", "banks"},
}

type surveyCategory struct {
	placeType string
	label     string
}

type placesFinder interface {
	FindPlaces(ctx context.Context, lat, lng float64, placeType string, radius int, keyword string) (*PlaceResults, error)
}

type environmentalSource interface {
	GetEnvironmentalData(ctx context.Context, lat, lng float64, dataType string) (*EnvReport, error)
}

// Analyzer produces land-purchase and business-viability assessments by
// surveying the surroundings and prompting the chat model with a rating
// rubric.
type Analyzer struct {
	Places      placesFinder
	Environment environmentalSource
	Model       models.ChatModel
}

func NewAnalyzer(places placesFinder, environment environmentalSource, model models.ChatModel) *Analyzer {
	return &Analyzer{Places: places, Environment: environment, Model: model}
}

// AnalyzeLand rates the location for a land purchase.
func (a *Analyzer) AnalyzeLand(ctx context.Context, lat, lng float64, userQuery string, radius int) (string, error) {
	locationData := a.surveySurroundings(ctx, lat, lng, radius, landSurveyCategories)

	prompt := fmt.Sprintf(`A user at coordinates (%v, %v) is asking: %q

They want to know if this is a good place to buy land.

Here is data about the surrounding area:

%s

Please provide a detailed analysis of the suitability of this location for land purchase.

For each of the following factors, provide a detailed analysis AND a numeric rating on a scale of 1-10:

1. Essential Services [Rating: X/10] - Proximity to schools, hospitals, police, fire stations
2. Amenities [Rating: X/10] - Access to shopping, restaurants, parks, entertainment
3. Transportation [Rating: X/10] - Public transit options, road access, walkability
4. Environmental Factors [Rating: X/10] - Air quality, green spaces, water bodies, pollution
5. Neighborhood Profile [Rating: X/10] - Overall character, development stage, growth potential

Highlight both advantages and potential concerns for each factor.

Conclude with an Overall Rating (scale of 1-10) and a summary assessment of whether this location would be good for land purchase.

Format your response with clear section headings and make the ratings visually distinguishable.

VERY IMPORTANT: When you mention any specific place (school, hospital, park, mall, etc.), include the place's exact name and put [PLACE] tag before it, like this: [PLACE]Central Park. This will be used to generate map links.

Include a Google Maps link for the main location at the beginning of your analysis in this format: "Location: [MAP]%v,%v"`,
		lat, lng, userQuery, locationData, lat, lng)

	return a.runAnalysis(ctx, landAnalysisSystemPrompt, prompt, lat, lng, locationData)
}

// AnalyzeBusiness rates the location for opening a business of the given
// type.
func (a *Analyzer) AnalyzeBusiness(ctx context.Context, lat, lng float64, userQuery, businessType string, radius int) (string, error) {
	if businessType == "" {
		businessType = "business"
	}
	locationData := a.surveySurroundings(ctx, lat, lng, radius, businessSurveyCategories)

	prompt := fmt.Sprintf(`A user at coordinates (%v, %v) is asking: %q

They want to know if this is a good place to open a %s.

Here is data about the surrounding area:

%s

Please provide a detailed analysis of the viability of opening a %s at this location.

For each of the following factors, provide a detailed analysis AND a numeric rating on a scale of 1-10:

1. Customer Traffic [Rating: X/10] - Foot traffic generators like schools, offices, transit stations
2. Competition [Rating: X/10] - Existing similar businesses, market saturation, competitive advantage
3. Demographics [Rating: X/10] - Population density, income levels, target customer presence
4. Location Accessibility [Rating: X/10] - Visibility, parking, public transit, walkability
5. Growth Potential [Rating: X/10] - Area development plans, economic trends, future prospects

Highlight both advantages and potential challenges for each factor.

Conclude with an Overall Rating (scale of 1-10) and a summary assessment of whether this location would be good for a %s.

Format your response with clear section headings and make the ratings visually distinguishable.

VERY IMPORTANT: When you mention any specific place (school, hospital, park, mall, etc.), include the place's exact name and put [PLACE] tag before it, like this: [PLACE]Central Park. This will be used to generate map links.

Include a Google Maps link for the main location at the beginning of your analysis in this format: "Location: [MAP]%v,%v"`,
		lat, lng, userQuery, businessType, locationData, businessType, businessType, lat, lng)

	return a.runAnalysis(ctx, businessAnalysisSystemPrompt, prompt, lat, lng, locationData)
}

// surveySurroundings gathers nearby places per category plus environmental
// data. Failing categories are skipped; an analysis with partial data beats
// no analysis.
func (a *Analyzer) surveySurroundings(ctx context.Context, lat, lng float64, radius int, categories []surveyCategory) string {
	if radius <= 0 {
		radius = DefaultRadius
	}

	var parts []string
	for _, cat := range categories {
		results, err := a.Places.FindPlaces(ctx, lat, lng, cat.placeType, radius, "")
		if err != nil {
			logx.Warn().Err(err).Str("category", cat.placeType).Msg("category survey failed")
			continue
		}
		if results.TotalFound == 0 {
			continue
		}
		var lines []string
		for i, place := range results.Places {
			if i >= 3 {
				lines = append(lines, fmt.Sprintf("  ...and %d more", results.TotalFound-3))
				break
			}
			line := fmt.Sprintf("- %s: %s", place.Name, place.Address)
			if place.Rating > 0 {
				line += fmt.Sprintf(" (Rating: %v/5)", place.Rating)
			}
			lines = append(lines, line)
		}
		parts = append(parts, fmt.Sprintf("Found %d %s:\n%s", results.TotalFound, cat.label, strings.Join(lines, "\n")))
	}

	if a.Environment != nil {
		report, err := a.Environment.GetEnvironmentalData(ctx, lat, lng, "both")
		if err != nil {
			logx.Warn().Err(err).Msg("environmental survey failed")
		} else if report.Message != "" {
			parts = append(parts, "Environmental Data:\n"+report.Message)
		}
	}

	if len(parts) == 0 {
		return "No data could be gathered about the surrounding area."
	}
	return strings.Join(parts, "\n\n")
}

func (a *Analyzer) runAnalysis(ctx context.Context, systemPrompt, prompt string, lat, lng float64, locationData string) (string, error) {
	resp, err := a.Model.Complete(ctx, models.Request{
		Messages: []models.Message{
			{Role: models.RoleSystem, Content: systemPrompt},
			{Role: models.RoleUser, Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   1500,
	})
	if err != nil {
		return "", fmt.Errorf("analysis: %w", err)
	}

	refs := extractPlaceRefs(locationData)
	return addMapLinks(resp.Content, lat, lng, refs), nil
}
