package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const safeBrowsingEndpoint = "https://safebrowsing.googleapis.com/v4/threatMatches:find"

// SafeBrowsingChecker queries the Google Safe Browsing v4 lookup API.
type SafeBrowsingChecker struct {
	apiKey   string
	endpoint string
	client   *http.Client
	log      zerolog.Logger
}

// NewSafeBrowsingChecker builds a checker. An empty API key disables it;
// Check then reports not-flagged.
func NewSafeBrowsingChecker(apiKey string, log zerolog.Logger) *SafeBrowsingChecker {
	return &SafeBrowsingChecker{
		apiKey:   apiKey,
		endpoint: safeBrowsingEndpoint,
		client:   &http.Client{Timeout: 6 * time.Second},
		log:      log.With().Str("component", "safe-browsing").Logger(),
	}
}

type sbRequest struct {
	Client struct {
		ClientID      string `json:"clientId"`
		ClientVersion string `json:"clientVersion"`
	} `json:"client"`
	ThreatInfo struct {
		ThreatTypes      []string            `json:"threatTypes"`
		PlatformTypes    []string            `json:"platformTypes"`
		ThreatEntryTypes []string            `json:"threatEntryTypes"`
		ThreatEntries    []map[string]string `json:"threatEntries"`
	} `json:"threatInfo"`
}

// Check reports whether Safe Browsing flags the domain and for what.
func (c *SafeBrowsingChecker) Check(ctx context.Context, domain string) (bool, string, error) {
	if c.apiKey == "" {
		return false, "lookup disabled", nil
	}

	var body sbRequest
	body.Client.ClientID = "cryptoguardian"
	body.Client.ClientVersion = "1.0"
	body.ThreatInfo.ThreatTypes = []string{"MALWARE", "SOCIAL_ENGINEERING", "UNWANTED_SOFTWARE"}
	body.ThreatInfo.PlatformTypes = []string{"ANY_PLATFORM"}
	body.ThreatInfo.ThreatEntryTypes = []string{"URL"}
	body.ThreatInfo.ThreatEntries = []map[string]string{{"url": "http://" + domain}}

	payload, err := json.Marshal(body)
	if err != nil {
		return false, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"?key="+c.apiKey, bytes.NewReader(payload))
	if err != nil {
		return false, "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return false, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, "", fmt.Errorf("safe browsing: %s", resp.Status)
	}

	var result struct {
		Matches []struct {
			ThreatType string `json:"threatType"`
		} `json:"matches"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, "", err
	}

	if len(result.Matches) > 0 {
		c.log.Warn().Str("domain", domain).Str("threat", result.Matches[0].ThreatType).Msg("flagged")
		return true, result.Matches[0].ThreatType, nil
	}
	return false, "no threats", nil
}
