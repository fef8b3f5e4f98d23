// Package places proxies the Google Places web service so the API key
// never reaches a browser. Responses are trimmed to the fields the
// frontends consume.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// ErrUpstream indicates the Places service returned a non-OK status.
var ErrUpstream = errors.New("places: upstream error")

// Suggestion is one autocomplete hit.
type Suggestion struct {
	PlaceID     string `json:"placeId"`
	Description string `json:"description"`
	MainText    string `json:"mainText"`
	SecondText  string `json:"secondaryText"`
}

// Details is the resolved location of one place.
type Details struct {
	PlaceID   string  `json:"placeId"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Client calls the Places web service. Results are restricted to India,
// matching the catalog's market.
type Client struct {
	key     string
	baseURL string
	http    *http.Client
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL redirects requests, useful for tests.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient overrides the underlying transport.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// NewClient creates a Places client with a bounded request timeout.
func NewClient(key string, opts ...ClientOption) *Client {
	c := &Client{
		key:     key,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type autocompleteResponse struct {
	Status      string `json:"status"`
	Predictions []struct {
		PlaceID              string `json:"place_id"`
		Description          string `json:"description"`
		StructuredFormatting struct {
			MainText      string `json:"main_text"`
			SecondaryText string `json:"secondary_text"`
		} `json:"structured_formatting"`
	} `json:"predictions"`
	ErrorMessage string `json:"error_message"`
}

// Autocomplete returns location suggestions for a partial input.
func (c *Client) Autocomplete(ctx context.Context, input string) ([]Suggestion, error) {
	q := url.Values{
		"input":      {input},
		"components": {"country:in"},
		"key":        {c.key},
	}
	var resp autocompleteResponse
	if err := c.get(ctx, "/autocomplete/json", q, &resp); err != nil {
		return nil, err
	}
	// ZERO_RESULTS is a valid empty answer, not a failure.
	if resp.Status != "OK" && resp.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("%w: %s %s", ErrUpstream, resp.Status, resp.ErrorMessage)
	}
	out := make([]Suggestion, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		out = append(out, Suggestion{
			PlaceID:     p.PlaceID,
			Description: p.Description,
			MainText:    p.StructuredFormatting.MainText,
			SecondText:  p.StructuredFormatting.SecondaryText,
		})
	}
	return out, nil
}

type detailsResponse struct {
	Status string `json:"status"`
	Result struct {
		PlaceID          string `json:"place_id"`
		Name             string `json:"name"`
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"result"`
	ErrorMessage string `json:"error_message"`
}

// Details resolves a place id to its name, address, and coordinates.
func (c *Client) Details(ctx context.Context, placeID string) (Details, error) {
	q := url.Values{
		"place_id": {placeID},
		"fields":   {"place_id,name,formatted_address,geometry"},
		"key":      {c.key},
	}
	var resp detailsResponse
	if err := c.get(ctx, "/details/json", q, &resp); err != nil {
		return Details{}, err
	}
	if resp.Status != "OK" {
		return Details{}, fmt.Errorf("%w: %s %s", ErrUpstream, resp.Status, resp.ErrorMessage)
	}
	return Details{
		PlaceID:   resp.Result.PlaceID,
		Name:      resp.Result.Name,
		Address:   resp.Result.FormattedAddress,
		Latitude:  resp.Result.Geometry.Location.Lat,
		Longitude: resp.Result.Geometry.Location.Lng,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("places: request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: http %d", ErrUpstream, res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		return fmt.Errorf("places: decode response: %w", err)
	}
	return nil
}
