package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

const reputationEndpoint = "https://www.virustotal.com/api/v3/domains"

// Reputation classifications derived from vendor counts.
const (
	ReputationClean      = "clean"
	ReputationSuspicious = "suspicious"
	ReputationMalicious  = "malicious"
)

// ReputationFinding is the third-party feed's answer for a domain: how many
// security vendors rate it malicious or suspicious, and the classification
// those counts map to under the configured thresholds.
type ReputationFinding struct {
	MaliciousCount  int    `json:"malicious_count"`
	SuspiciousCount int    `json:"suspicious_count"`
	Classification  string `json:"classification"`
}

// ReputationFeed queries a vendor-aggregating reputation API. All calls run
// through a circuit breaker so a dead upstream stops costing a timeout per
// request.
type ReputationFeed struct {
	apiKey     string
	endpoint   string
	client     *http.Client
	cb         *gobreaker.CircuitBreaker
	thresholds ReputationThresholds
	log        zerolog.Logger
}

// NewReputationFeed builds a feed client. An empty API key disables it;
// Query then returns an error the combiner treats as an absent signal.
func NewReputationFeed(apiKey string, thresholds ReputationThresholds, log zerolog.Logger) *ReputationFeed {
	l := log.With().Str("component", "reputation-feed").Logger()
	settings := gobreaker.Settings{
		Name:     "reputation-feed",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			l.Warn().Str("from", from.String()).Str("to", to.String()).Msg("breaker state changed")
		},
	}
	return &ReputationFeed{
		apiKey:     apiKey,
		endpoint:   reputationEndpoint,
		client:     &http.Client{Timeout: 8 * time.Second},
		cb:         gobreaker.NewCircuitBreaker(settings),
		thresholds: thresholds,
		log:        l,
	}
}

// Query fetches vendor verdict counts for the domain and classifies them.
func (f *ReputationFeed) Query(ctx context.Context, domain string) (ReputationFinding, error) {
	if f.apiKey == "" {
		return ReputationFinding{}, fmt.Errorf("reputation feed disabled")
	}

	out, err := f.cb.Execute(func() (any, error) {
		return f.fetch(ctx, domain)
	})
	if err != nil {
		return ReputationFinding{}, err
	}

	finding := out.(ReputationFinding)
	finding.Classification = f.classify(finding)
	return finding, nil
}

func (f *ReputationFeed) fetch(ctx context.Context, domain string) (ReputationFinding, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint+"/"+domain, nil)
	if err != nil {
		return ReputationFinding{}, err
	}
	req.Header.Set("x-apikey", f.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return ReputationFinding{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ReputationFinding{}, fmt.Errorf("reputation feed: %s", resp.Status)
	}

	var raw struct {
		Data struct {
			Attributes struct {
				LastAnalysisStats struct {
					Malicious  int `json:"malicious"`
					Suspicious int `json:"suspicious"`
				} `json:"last_analysis_stats"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return ReputationFinding{}, err
	}

	return ReputationFinding{
		MaliciousCount:  raw.Data.Attributes.LastAnalysisStats.Malicious,
		SuspiciousCount: raw.Data.Attributes.LastAnalysisStats.Suspicious,
	}, nil
}

func (f *ReputationFeed) classify(finding ReputationFinding) string {
	switch {
	case finding.MaliciousCount > f.thresholds.MaliciousVendors:
		return ReputationMalicious
	case finding.SuspiciousCount > f.thresholds.SuspiciousVendors:
		return ReputationSuspicious
	default:
		return ReputationClean
	}
}
