package services

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	placeTagPattern  = regexp.MustCompile(`\[PLACE\](.*?)(\s|\.|,|\)|\]|$)`)
	lineCoordPattern = regexp.MustCompile(`(\d+\.\d+),\s*(\d+\.\d+)`)
)

// placeRef is a place mentioned in formatted location data, keyed by
// lowercased name.
type placeRef struct {
	Lat string
	Lng string
}

// extractPlaceRefs scans formatted location data for place listings and any
// inline coordinates so map links can point at the exact spot.
func extractPlaceRefs(locationData string) map[string]placeRef {
	refs := map[string]placeRef{}
	for _, line := range strings.Split(locationData, "\n") {
		if !strings.Contains(line, ":") || strings.Contains(strings.ToLower(line), "found") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(strings.SplitN(line, ":", 2)[0], "-"))
		if name == "" {
			continue
		}
		ref := placeRef{}
		if m := lineCoordPattern.FindStringSubmatch(line); m != nil {
			ref.Lat, ref.Lng = m[1], m[2]
		}
		refs[strings.ToLower(name)] = ref
	}
	return refs
}

// addMapLinks rewrites [MAP]lat,lng and [PLACE]Name tags in an analysis into
// Google Maps markdown links. The main location link is prepended when the
// model forgot the tag.
func addMapLinks(analysis string, lat, lng float64, refs map[string]placeRef) string {
	mainTag := fmt.Sprintf("[MAP]%v,%v", lat, lng)
	mainLink := fmt.Sprintf("[View on Google Maps](https://www.google.com/maps?q=%v,%v)", lat, lng)

	if strings.Contains(analysis, "[MAP]") {
		analysis = strings.ReplaceAll(analysis, mainTag, mainLink)
	} else {
		analysis = fmt.Sprintf("\n**Location: %s**\n\n%s", mainLink, analysis)
	}

	return placeTagPattern.ReplaceAllStringFunc(analysis, func(match string) string {
		m := placeTagPattern.FindStringSubmatch(match)
		name := strings.TrimSpace(m[1])
		trailing := m[2]

		var mapURL string
		if ref, ok := refs[strings.ToLower(name)]; ok && ref.Lat != "" && ref.Lng != "" {
			mapURL = fmt.Sprintf("https://www.google.com/maps?q=%s,%s", ref.Lat, ref.Lng)
		} else {
			query := url.QueryEscape(fmt.Sprintf("%s near %v,%v", name, lat, lng))
			mapURL = "https://www.google.com/maps/search/?api=1&query=" + query
		}
		return fmt.Sprintf("%s ([Map](%s))%s", name, mapURL, trailing)
	})
}
