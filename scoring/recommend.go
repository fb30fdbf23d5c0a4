package scoring

import (
	"fmt"
	"strings"
)

// recommendationsFor selects static advisory strings based on which checks
// fired and on the final verdict tier.
func recommendationsFor(status Status, checks Checks) []string {
	var recs []string

	if checks.MaliciousSite != nil {
		recs = append(recs,
			"This domain is on the blacklist. Avoid it entirely.",
			"Do not enter personal information, passwords or wallet seed phrases on this site.")
		return recs
	}

	if checks.Exchange != nil {
		recs = append(recs,
			"This is a recognized exchange.",
			"Verify the address matches your bookmark before signing in.")
		return recs
	}

	if c := checks.Typosquatting; c != nil && c.RiskLevel == RiskHigh {
		recs = append(recs, "The domain imitates a well-known brand. Type the official address manually instead of following links.")
	}
	if c := checks.Patterns; c != nil && c.RiskLevel != RiskLow {
		recs = append(recs, "The domain name shows patterns common in scam registrations.")
	}
	if c := checks.Certificate; c != nil && c.Score < 50 {
		recs = append(recs, "The connection is not properly secured. Do not transmit sensitive data.")
	}
	if c := checks.DomainAge; c != nil && c.RiskLevel == RiskHigh {
		recs = append(recs, "The domain was registered very recently, which is typical of scam campaigns.")
	}
	if c := checks.SafeBrowsing; c != nil && c.Score == 0 {
		recs = append(recs, "The domain is flagged by a browsing-protection service.")
	}
	if c := checks.UserReports; c != nil && c.RiskLevel != RiskLow {
		recs = append(recs, "Users have reported this domain. Review the reports before proceeding.")
	}

	switch status {
	case StatusDanger:
		recs = append(recs, "Avoid entering personal information on this site.")
	case StatusWarning:
		recs = append(recs, "Mixed signals. Double-check the site through an independent source before trusting it.")
	case StatusSafe:
		if len(recs) == 0 {
			recs = append(recs, "No significant risk signals were found. Stay alert for unusual requests anyway.")
		}
	}

	return recs
}

// summarize builds the one-line human summary, in the style of the verdict
// reason strings elsewhere in this package.
func summarize(finalScore int, status Status, checks Checks) string {
	var issues []string

	if checks.MaliciousSite != nil {
		return fmt.Sprintf("Score: %d, Status: %s. Domain is blacklisted.", finalScore, status)
	}
	if checks.Exchange != nil {
		return fmt.Sprintf("Score: %d, Status: %s. Verified exchange.", finalScore, status)
	}

	add := func(c *Check, label string) {
		if c != nil && c.RiskLevel != RiskLow {
			issues = append(issues, label)
		}
	}
	add(checks.Typosquatting, "resembles a known brand")
	add(checks.Patterns, "suspicious name patterns")
	add(checks.SafeBrowsing, "flagged by safe browsing")
	add(checks.DomainAge, "recently registered")
	add(checks.Certificate, "weak or missing TLS")
	add(checks.UserReports, "user reports on file")

	if len(issues) == 0 {
		return fmt.Sprintf("Score: %d, Status: %s. All checks passed.", finalScore, status)
	}
	return fmt.Sprintf("Score: %d, Status: %s. Issues: %s.", finalScore, status, strings.Join(issues, ", "))
}
