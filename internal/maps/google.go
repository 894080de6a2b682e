package maps

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const googleBaseURL = "https://maps.googleapis.com/maps/api"

// GoogleClient implements Geocoder against the Google Maps web APIs.
type GoogleClient struct {
	http *resty.Client
	key  string
}

// NewGoogleClient builds the Google Maps geocoder.
func NewGoogleClient(apiKey string) *GoogleClient {
	client := resty.New().
		SetBaseURL(googleBaseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Accept", "application/json")
	return &GoogleClient{http: client, key: apiKey}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location LatLng `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves an address to coordinates.
func (g *GoogleClient) Geocode(ctx context.Context, address string) (LatLng, error) {
	var out geocodeResponse
	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"address": address, "key": g.key}).
		SetResult(&out).
		Get("/geocode/json")
	if err != nil {
		return LatLng{}, fmt.Errorf("geocode request: %w", err)
	}
	if !resp.IsSuccess() || out.Status != "OK" || len(out.Results) == 0 {
		return LatLng{}, ErrNoResults
	}
	return out.Results[0].Geometry.Location, nil
}

type distanceResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Text  string `json:"text"`
				Value int    `json:"value"`
			} `json:"distance"`
			Duration struct {
				Text  string `json:"text"`
				Value int    `json:"value"`
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// Distance resolves the route between two addresses.
func (g *GoogleClient) Distance(ctx context.Context, origin, destination string) (Route, error) {
	var out distanceResponse
	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"origins": origin, "destinations": destination, "key": g.key}).
		SetResult(&out).
		Get("/distancematrix/json")
	if err != nil {
		return Route{}, fmt.Errorf("distance request: %w", err)
	}
	if !resp.IsSuccess() || out.Status != "OK" || len(out.Rows) == 0 || len(out.Rows[0].Elements) == 0 {
		return Route{}, ErrNoResults
	}
	el := out.Rows[0].Elements[0]
	if el.Status != "OK" {
		return Route{}, ErrNoResults
	}
	return Route{
		DistanceMeters:  el.Distance.Value,
		DurationSeconds: el.Duration.Value,
		DistanceText:    el.Distance.Text,
		DurationText:    el.Duration.Text,
	}, nil
}

type autocompleteResponse struct {
	Status      string `json:"status"`
	Predictions []struct {
		Description string `json:"description"`
	} `json:"predictions"`
}

// Autocomplete suggests address completions for a partial input.
func (g *GoogleClient) Autocomplete(ctx context.Context, input string) ([]string, error) {
	var out autocompleteResponse
	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"input": input, "key": g.key}).
		SetResult(&out).
		Get("/place/autocomplete/json")
	if err != nil {
		return nil, fmt.Errorf("autocomplete request: %w", err)
	}
	if !resp.IsSuccess() || out.Status != "OK" {
		return nil, ErrNoResults
	}
	suggestions := make([]string, 0, len(out.Predictions))
	for _, p := range out.Predictions {
		suggestions = append(suggestions, p.Description)
	}
	return suggestions, nil
}
