package scoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestSafeBrowsingFlagsThreats(t *testing.T) {
	var gotURL string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req sbRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if len(req.ThreatInfo.ThreatEntries) == 1 {
			gotURL = req.ThreatInfo.ThreatEntries[0]["url"]
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"matches":[{"threatType":"SOCIAL_ENGINEERING","platformType":"ANY_PLATFORM"}]}`))
	}))
	defer ts.Close()

	c := NewSafeBrowsingChecker("test-key", zerolog.Nop())
	c.endpoint = ts.URL

	flagged, reason, err := c.Check(context.Background(), "scam-site.com")
	if err != nil {
		t.Fatal(err)
	}
	if !flagged {
		t.Fatal("threat match not flagged")
	}
	if reason != "SOCIAL_ENGINEERING" {
		t.Errorf("reason = %q, want SOCIAL_ENGINEERING", reason)
	}
	if gotURL != "http://scam-site.com" {
		t.Errorf("queried url = %q", gotURL)
	}
}

func TestSafeBrowsingCleanDomain(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := NewSafeBrowsingChecker("test-key", zerolog.Nop())
	c.endpoint = ts.URL

	flagged, _, err := c.Check(context.Background(), "example.com")
	if err != nil {
		t.Fatal(err)
	}
	if flagged {
		t.Fatal("clean domain flagged")
	}
}

func TestSafeBrowsingDisabledWithoutKey(t *testing.T) {
	c := NewSafeBrowsingChecker("", zerolog.Nop())

	flagged, _, err := c.Check(context.Background(), "example.com")
	if err != nil {
		t.Fatal(err)
	}
	if flagged {
		t.Fatal("disabled checker flagged a domain")
	}
}

func TestSafeBrowsingUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	c := NewSafeBrowsingChecker("test-key", zerolog.Nop())
	c.endpoint = ts.URL

	if _, _, err := c.Check(context.Background(), "example.com"); err == nil {
		t.Fatal("expected error from a 400 upstream")
	}
}
