package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/azharlabs/locas/pkg/models"
)

type stubModel struct {
	reply string
	err   error
	last  models.Request
}

func (s *stubModel) Complete(ctx context.Context, req models.Request) (*models.Response, error) {
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.Response{Content: s.reply}, nil
}

func TestFindPlaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("type") != "cafe" || q.Get("radius") != "500" {
			t.Errorf("unexpected query params: %v", q)
		}
		w.Write([]byte(`{"status":"OK","results":[
			{"name":"Blue Tokai","vicinity":"Church Street","rating":4.5},
			{"name":"Third Wave","vicinity":"MG Road","rating":4.2}
		]}`))
	}))
	defer srv.Close()

	c := NewPlacesClient("test-key")
	c.BaseURL = srv.URL

	results, err := c.FindPlaces(context.Background(), 12.97, 77.59, "cafe", 500, "")
	if err != nil {
		t.Fatalf("FindPlaces returned error: %v", err)
	}
	if results.TotalFound != 2 || results.SearchTerm != "cafe" {
		t.Fatalf("results = %+v", results)
	}
	if results.Places[0].Name != "Blue Tokai" || results.Places[0].Rating != 4.5 {
		t.Errorf("first place = %+v", results.Places[0])
	}
}

func TestFindPlacesDefaultsRadius(t *testing.T) {
	var gotRadius string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRadius = r.URL.Query().Get("radius")
		w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	}))
	defer srv.Close()

	c := NewPlacesClient("test-key")
	c.BaseURL = srv.URL

	if _, err := c.FindPlaces(context.Background(), 0, 0, "park", 0, ""); err != nil {
		t.Fatalf("FindPlaces returned error: %v", err)
	}
	if gotRadius != "1000" {
		t.Errorf("radius = %s, want 1000", gotRadius)
	}
}

func TestGetEnvironmentalDataNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewEnvironmentClient("test-key", &stubModel{reply: "should not be used"})
	c.AirQualityURL = srv.URL
	c.PollenURL = srv.URL

	report, err := c.GetEnvironmentalData(context.Background(), 12.97, 77.59, "both")
	if err != nil {
		t.Fatalf("GetEnvironmentalData returned error: %v", err)
	}
	if report.Message != NoEnvironmentalData {
		t.Errorf("message = %q", report.Message)
	}
}

func TestGetEnvironmentalDataFormatsWithModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"indexes":[{"category":"Good air quality","aqi":82}]}`))
	}))
	defer srv.Close()

	model := &stubModel{reply: "Air quality is good today."}
	c := NewEnvironmentClient("test-key", model)
	c.AirQualityURL = srv.URL
	c.PollenURL = srv.URL

	report, err := c.GetEnvironmentalData(context.Background(), 12.97, 77.59, "air_quality")
	if err != nil {
		t.Fatalf("GetEnvironmentalData returned error: %v", err)
	}
	if report.Message != "Air quality is good today." {
		t.Errorf("message = %q", report.Message)
	}
	if len(model.last.Messages) != 2 {
		t.Errorf("expected system+user prompt, got %d messages", len(model.last.Messages))
	}
}

func TestGetEnvironmentalDataFallbackSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"indexes":[{"category":"Moderate","aqi":55}]}`))
	}))
	defer srv.Close()

	c := NewEnvironmentClient("test-key", &stubModel{err: errors.New("model down")})
	c.AirQualityURL = srv.URL
	c.PollenURL = srv.URL

	report, err := c.GetEnvironmentalData(context.Background(), 12.97, 77.59, "air_quality")
	if err != nil {
		t.Fatalf("GetEnvironmentalData returned error: %v", err)
	}
	if report.Message != "Air Quality: Moderate (55)" {
		t.Errorf("fallback message = %q", report.Message)
	}
}

func TestSearchAndExtract(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><style>body{}</style></head><body><script>var x=1;</script><p>Zoning rules changed in 2024.</p></body></html>`))
	}))
	defer page.Close()

	serper := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-KEY") != "test-key" {
			t.Errorf("missing X-API-KEY header")
		}
		w.Write([]byte(`{"organic":[
			{"title":"Zoning update","link":"` + page.URL + `","snippet":"snippet one"},
			{"title":"Old news","link":"","snippet":"snippet two"},
			{"title":"Ignored","link":"","snippet":"past max results"}
		]}`))
	}))
	defer serper.Close()

	c := NewSearchClient("test-key")
	c.SerperURL = serper.URL

	set, err := c.SearchAndExtract(context.Background(), "zoning rules", 2)
	if err != nil {
		t.Fatalf("SearchAndExtract returned error: %v", err)
	}
	if len(set.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(set.Results))
	}
	if !strings.Contains(set.Results[0].Content, "Zoning rules changed in 2024.") {
		t.Errorf("page text not extracted: %q", set.Results[0].Content)
	}
	if strings.Contains(set.Results[0].Content, "var x=1") {
		t.Errorf("script text leaked into content: %q", set.Results[0].Content)
	}
	if set.Results[1].Content != "snippet two" {
		t.Errorf("linkless result should keep its snippet, got %q", set.Results[1].Content)
	}
}

func TestAddMapLinksReplacesTags(t *testing.T) {
	refs := map[string]placeRef{
		"lalbagh": {Lat: "12.9507", Lng: "77.5848"},
	}
	text := "Location: [MAP]12.9716,77.5946\nNear [PLACE]Lalbagh and [PLACE]Koramangala."

	out := addMapLinks(text, 12.9716, 77.5946, refs)
	if strings.Contains(out, "[MAP]") || strings.Contains(out, "[PLACE]") {
		t.Fatalf("tags survived: %q", out)
	}
	if !strings.Contains(out, "https://www.google.com/maps?q=12.9507,77.5848") {
		t.Errorf("known place should use its coordinates: %q", out)
	}
	if !strings.Contains(out, "https://www.google.com/maps/search/?api=1&query=") {
		t.Errorf("unknown place should get a search link: %q", out)
	}
}

func TestAddMapLinksPrependsMainLocation(t *testing.T) {
	out := addMapLinks("A quiet area.", 12.9716, 77.5946, nil)
	if !strings.HasPrefix(out, "\n**Location: [View on Google Maps](https://www.google.com/maps?q=12.9716,77.5946)**") {
		t.Errorf("main location link not prepended: %q", out)
	}
}

type stubFinder struct {
	results *PlaceResults
	err     error
}

func (s stubFinder) FindPlaces(ctx context.Context, lat, lng float64, placeType string, radius int, keyword string) (*PlaceResults, error) {
	return s.results, s.err
}

type stubEnv struct {
	report *EnvReport
	err    error
}

func (s stubEnv) GetEnvironmentalData(ctx context.Context, lat, lng float64, dataType string) (*EnvReport, error) {
	return s.report, s.err
}

func TestAnalyzeLand(t *testing.T) {
	model := &stubModel{reply: "Location: [MAP]12.9716,77.5946\nGood area near [PLACE]Bishop Cotton. Overall Rating: 8/10"}
	a := NewAnalyzer(
		stubFinder{results: &PlaceResults{
			Places:     []Place{{Name: "Bishop Cotton", Address: "Residency Road", Rating: 4.4}},
			TotalFound: 1,
			SearchTerm: "school",
		}},
		stubEnv{report: &EnvReport{Message: "Air Quality: Good (80)"}},
		model,
	)

	out, err := a.AnalyzeLand(context.Background(), 12.9716, 77.5946, "can I buy land here", 0)
	if err != nil {
		t.Fatalf("AnalyzeLand returned error: %v", err)
	}
	if strings.Contains(out, "[MAP]") || strings.Contains(out, "[PLACE]") {
		t.Errorf("tags not rewritten: %q", out)
	}
	prompt := model.last.Messages[1].Content
	if !strings.Contains(prompt, "Bishop Cotton") || !strings.Contains(prompt, "Air Quality: Good (80)") {
		t.Errorf("survey data missing from prompt")
	}
	if !strings.Contains(prompt, "good place to buy land") {
		t.Errorf("land framing missing from prompt")
	}
}

func TestAnalyzeBusinessDefaultsType(t *testing.T) {
	model := &stubModel{reply: "Overall Rating: 6/10"}
	a := NewAnalyzer(stubFinder{results: &PlaceResults{}}, stubEnv{report: &EnvReport{}}, model)

	if _, err := a.AnalyzeBusiness(context.Background(), 1, 2, "start something here", "", 0); err != nil {
		t.Fatalf("AnalyzeBusiness returned error: %v", err)
	}
	if !strings.Contains(model.last.Messages[1].Content, "open a business") {
		t.Errorf("default business type not applied")
	}
}

func TestAnalyzeLandModelFailure(t *testing.T) {
	a := NewAnalyzer(stubFinder{results: &PlaceResults{}}, stubEnv{report: &EnvReport{}}, &stubModel{err: errors.New("model down")})

	if _, err := a.AnalyzeLand(context.Background(), 1, 2, "q", 0); err == nil {
		t.Fatal("expected error when the model fails")
	}
}
