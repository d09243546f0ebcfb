package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/azharlabs/locas/pkg/logx"
	"github.com/azharlabs/locas/pkg/models"
)

const (
	airQualityURL = "https://airquality.googleapis.com/v1/currentConditions:lookup"
	pollenURL     = "https://pollen.googleapis.com/v1/forecast:lookup"

	// NoEnvironmentalData is returned when neither API has anything for the
	// coordinates.
	NoEnvironmentalData = "No environmental data available for this location."
)

const envFormatterSystemPrompt = `You are a helpful assistant that formats environmental data into clear, readable messages.
Your job is to take structured data about air quality and pollen forecasts and present it
in a way that's informative, well-organized, and easy for people to understand.

- Make the information scannable with bullet points or sections
- Highlight key information that would be important to people with allergies or sensitivity to air pollution
- Use plain language that anyone can understand
- If there are health recommendations, make them clear and actionable`

// EnvReport is the human-readable rendering of raw environmental data.
type EnvReport struct {
	Message string `json:"message"`
}

// EnvironmentClient fetches air quality and pollen data from the Google
// environment APIs and renders it with the chat model.
type EnvironmentClient struct {
	APIKey        string
	AirQualityURL string
	PollenURL     string
	Client        *http.Client
	Model         models.ChatModel
}

func NewEnvironmentClient(apiKey string, model models.ChatModel) *EnvironmentClient {
	return &EnvironmentClient{
		APIKey:        apiKey,
		AirQualityURL: airQualityURL,
		PollenURL:     pollenURL,
		Client:        &http.Client{Timeout: serviceTimeout},
		Model:         model,
	}
}

// GetEnvironmentalData fetches the requested dataType (air_quality, pollen,
// or both) and returns a formatted report. Individual feed failures degrade
// to whatever data remains.
func (e *EnvironmentClient) GetEnvironmentalData(ctx context.Context, lat, lng float64, dataType string) (*EnvReport, error) {
	if e.APIKey == "" {
		return nil, fmt.Errorf("environment: missing API key")
	}
	if dataType == "" {
		dataType = "both"
	}

	raw := map[string]any{}

	if dataType == "air_quality" || dataType == "both" {
		air, err := e.fetchAirQuality(ctx, lat, lng)
		if err != nil {
			logx.Warn().Err(err).Msg("air quality fetch failed")
		} else if len(air) > 0 {
			raw["air_quality"] = air
		}
	}
	if dataType == "pollen" || dataType == "both" {
		pollen, err := e.fetchPollen(ctx, lat, lng)
		if err != nil {
			logx.Warn().Err(err).Msg("pollen fetch failed")
		} else if len(pollen) > 0 {
			raw["pollen_forecast"] = pollen
		}
	}

	if len(raw) == 0 {
		return &EnvReport{Message: NoEnvironmentalData}, nil
	}

	return &EnvReport{Message: e.formatReport(ctx, raw)}, nil
}

func (e *EnvironmentClient) fetchAirQuality(ctx context.Context, lat, lng float64) (map[string]any, error) {
	body, err := json.Marshal(map[string]any{
		"location": map[string]float64{"latitude": lat, "longitude": lng},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.AirQualityURL+"?key="+e.APIKey, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("air quality: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("air quality: unexpected status %d", resp.StatusCode)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("air quality: decode: %w", err)
	}
	return payload, nil
}

func (e *EnvironmentClient) fetchPollen(ctx context.Context, lat, lng float64) (map[string]any, error) {
	u := fmt.Sprintf("%s?key=%s&location.latitude=%f&location.longitude=%f&days=1", e.PollenURL, e.APIKey, lat, lng)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pollen: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pollen: unexpected status %d", resp.StatusCode)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("pollen: decode: %w", err)
	}
	return payload, nil
}

// formatReport renders the raw payloads with the chat model and falls back
// to a terse deterministic summary when the model is unavailable.
func (e *EnvironmentClient) formatReport(ctx context.Context, raw map[string]any) string {
	encoded, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fallbackReport(raw)
	}

	if e.Model != nil {
		prompt := fmt.Sprintf(`Please format the following environmental data into a human-readable message:

%s

The message should be clear, informative, and easy to understand.
Highlight key information and use formatting like bullet points to make it scannable.
If there are health recommendations, make them prominent.`, encoded)

		resp, err := e.Model.Complete(ctx, models.Request{
			Messages: []models.Message{
				{Role: models.RoleSystem, Content: envFormatterSystemPrompt},
				{Role: models.RoleUser, Content: prompt},
			},
			Temperature: 0.7,
			MaxTokens:   1000,
		})
		if err == nil && strings.TrimSpace(resp.Content) != "" {
			return resp.Content
		}
		logx.Warn().Err(err).Msg("environmental formatting fell back to summary")
	}

	return fallbackReport(raw)
}

func fallbackReport(raw map[string]any) string {
	var parts []string

	if air, ok := raw["air_quality"].(map[string]any); ok {
		if indexes, ok := air["indexes"].([]any); ok && len(indexes) > 0 {
			if idx, ok := indexes[0].(map[string]any); ok {
				category, _ := idx["category"].(string)
				if category == "" {
					category = "Unknown"
				}
				aqi := "N/A"
				if v, ok := idx["aqi"].(float64); ok {
					aqi = fmt.Sprintf("%.0f", v)
				}
				parts = append(parts, fmt.Sprintf("Air Quality: %s (%s)", category, aqi))
			}
		}
	}

	if pollen, ok := raw["pollen_forecast"].(map[string]any); ok {
		if levels := pollenLevels(pollen); len(levels) > 0 {
			parts = append(parts, "Pollen Levels: "+strings.Join(levels, ", "))
		}
	}

	if len(parts) == 0 {
		return "Environmental data available but could not be formatted."
	}
	return strings.Join(parts, " | ")
}

func pollenLevels(pollen map[string]any) []string {
	daily, ok := pollen["dailyInfo"].([]any)
	if !ok || len(daily) == 0 {
		return nil
	}
	day, ok := daily[0].(map[string]any)
	if !ok {
		return nil
	}
	types, ok := day["pollenTypeInfo"].([]any)
	if !ok {
		return nil
	}

	var levels []string
	for _, t := range types {
		info, ok := t.(map[string]any)
		if !ok {
			continue
		}
		name, _ := info["displayName"].(string)
		if name == "" {
			name = "Unknown"
		}
		level := "Unknown"
		if idx, ok := info["indexInfo"].(map[string]any); ok {
			if c, ok := idx["category"].(string); ok && c != "" {
				level = c
			}
		}
		levels = append(levels, fmt.Sprintf("%s: %s", name, level))
	}
	return levels
}
