package scoring

import "time"

// RiskLevel classifies how dangerous a single signal looks.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Status is the final 3-tier verdict for a domain.
type Status string

const (
	StatusSafe    Status = "safe"
	StatusWarning Status = "warning"
	StatusDanger  Status = "danger"
)

// RequestType selects which ruleset and gates apply to a validation request.
type RequestType string

const (
	RequestGeneral RequestType = "general"
	RequestCrypto  RequestType = "crypto"
)

// Check is the common output shape shared by every detector: a 0-100 score,
// a risk level derived from it, and detector-specific evidence.
type Check struct {
	Score     int       `json:"score"`
	RiskLevel RiskLevel `json:"risk_level"`
	Details   any       `json:"details,omitempty"`
}

// Checks collects the named detector outputs that contributed to a verdict.
// A nil entry means the detector did not run or failed and was skipped.
type Checks struct {
	MaliciousSite *Check `json:"malicious_site,omitempty"`
	Exchange      *Check `json:"exchange,omitempty"`
	UserReports   *Check `json:"user_reports,omitempty"`
	DomainAge     *Check `json:"domain_age,omitempty"`
	Certificate   *Check `json:"certificate,omitempty"`
	SafeBrowsing  *Check `json:"safe_browsing,omitempty"`
	Typosquatting *Check `json:"typosquatting,omitempty"`
	Patterns      *Check `json:"suspicious_patterns,omitempty"`
}

// ValidationResult is the final artifact produced once per request. It is
// never mutated after being returned and serializes directly to JSON.
type ValidationResult struct {
	Domain          string    `json:"domain"`
	OriginalInput   string    `json:"original_input"`
	FinalScore      int       `json:"final_score"`
	Status          Status    `json:"status"`
	Checks          Checks    `json:"checks"`
	Summary         string    `json:"summary"`
	Recommendations []string  `json:"recommendations"`
	Timestamp       time.Time `json:"timestamp"`
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// riskForScore maps a 0-100 score onto the shared risk ladder.
func riskForScore(score int) RiskLevel {
	switch {
	case score < 40:
		return RiskHigh
	case score < 70:
		return RiskMedium
	default:
		return RiskLow
	}
}
