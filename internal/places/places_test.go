package places

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAutocomplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/autocomplete/json" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("input") != "gurgaon" || q.Get("components") != "country:in" || q.Get("key") != "secret" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`{
			"status": "OK",
			"predictions": [{
				"place_id": "p1",
				"description": "Gurgaon, Haryana, India",
				"structured_formatting": {"main_text": "Gurgaon", "secondary_text": "Haryana, India"}
			}]
		}`))
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL))
	got, err := c.Autocomplete(context.Background(), "gurgaon")
	if err != nil {
		t.Fatalf("Autocomplete: %v", err)
	}
	if len(got) != 1 || got[0].PlaceID != "p1" || got[0].MainText != "Gurgaon" {
		t.Fatalf("suggestions = %+v", got)
	}
}

func TestAutocompleteZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ZERO_RESULTS", "predictions": []}`))
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL))
	got, err := c.Autocomplete(context.Background(), "zzzz")
	if err != nil {
		t.Fatalf("Autocomplete: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("suggestions = %+v", got)
	}
}

func TestDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("place_id") != "p1" {
			t.Errorf("query = %v", r.URL.Query())
		}
		w.Write([]byte(`{
			"status": "OK",
			"result": {
				"place_id": "p1",
				"name": "Gurgaon",
				"formatted_address": "Gurgaon, Haryana, India",
				"geometry": {"location": {"lat": 28.4595, "lng": 77.0266}}
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL))
	got, err := c.Details(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if got.Name != "Gurgaon" || got.Latitude != 28.4595 || got.Longitude != 77.0266 {
		t.Fatalf("details = %+v", got)
	}
}

func TestUpstreamDenied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "key invalid"}`))
	}))
	defer srv.Close()

	c := NewClient("bad", WithBaseURL(srv.URL))
	if _, err := c.Details(context.Background(), "p1"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}
