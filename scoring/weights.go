package scoring

// CheckWeights defines how much each detector contributes to the combined
// score. The combiner normalizes by the weight sum of the checks that
// actually produced a result, so the values do not have to add up to 100.
type CheckWeights struct {
	Typosquatting int `json:"typosquatting"`
	Patterns      int `json:"suspicious_patterns"`
	SafeBrowsing  int `json:"safe_browsing"`
	DomainAge     int `json:"domain_age"`
	Certificate   int `json:"certificate"`
	UserReports   int `json:"user_reports"`
}

// DefaultCheckWeights returns the weights used in production.
func DefaultCheckWeights() CheckWeights {
	return CheckWeights{
		Typosquatting: 25,
		Patterns:      20,
		SafeBrowsing:  20,
		DomainAge:     15,
		Certificate:   10,
		UserReports:   10,
	}
}

// StatusThresholds defines the score cutoffs for the 3-tier verdict.
type StatusThresholds struct {
	DangerMax  int `json:"danger_max"`  // danger: score <= DangerMax
	WarningMax int `json:"warning_max"` // warning: score <= WarningMax
	// Safe: above WarningMax
}

// DefaultStatusThresholds returns the default cutoffs.
func DefaultStatusThresholds() StatusThresholds {
	return StatusThresholds{
		DangerMax:  40,
		WarningMax: 70,
	}
}

// StatusFor maps a final score onto a verdict tier.
func (t StatusThresholds) StatusFor(score int) Status {
	switch {
	case score <= t.DangerMax:
		return StatusDanger
	case score <= t.WarningMax:
		return StatusWarning
	default:
		return StatusSafe
	}
}

// DistanceTierPenalties holds the confidence penalties applied by edit
// distance to the closest legitimate site. The values were chosen
// empirically; keep them tunable rather than deriving "correct" ones.
type DistanceTierPenalties struct {
	Distance1 int `json:"distance_1"`
	Distance2 int `json:"distance_2"`
	Distance3 int `json:"distance_3"`
}

// DefaultDistanceTierPenalties returns the production tier penalties.
func DefaultDistanceTierPenalties() DistanceTierPenalties {
	return DistanceTierPenalties{
		Distance1: 50,
		Distance2: 30,
		Distance3: 10,
	}
}

// ReputationThresholds are the vendor-count cutoffs for classifying a
// third-party reputation feed answer.
type ReputationThresholds struct {
	MaliciousVendors  int `json:"malicious_vendors"`  // classify malicious above this count
	SuspiciousVendors int `json:"suspicious_vendors"` // classify suspicious above this count
}

// DefaultReputationThresholds returns the default cutoffs.
func DefaultReputationThresholds() ReputationThresholds {
	return ReputationThresholds{
		MaliciousVendors:  2,
		SuspiciousVendors: 4,
	}
}
