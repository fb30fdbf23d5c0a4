package scoring

import (
	"fmt"
	"sort"
	"strings"
)

const (
	visualPenaltyFull    = 60 // swap where every difference is a confusable pair
	visualPenaltyPerChar = 20 // per confusable swap on the near-identical length-tolerant path
	similarSiteFloor     = 60.0
	similarSiteStrong    = 80.0
	typosquatPenaltyBar  = -25
)

// VisualMatch records one legitimate site a candidate visually imitates and
// the penalty the imitation accumulated.
type VisualMatch struct {
	Site    string `json:"site"`
	Penalty int    `json:"penalty"`
}

// SimilarSite records a legitimate site the candidate is close to without
// being a confusable-swap attack.
type SimilarSite struct {
	Site       string  `json:"site"`
	Similarity float64 `json:"similarity"`
	Distance   int     `json:"distance"`
}

// TyposquatResult is the typosquatting detector's evidence bundle.
type TyposquatResult struct {
	IsPhishing        bool          `json:"is_phishing"`
	Confidence        int           `json:"confidence"`
	RiskLevel         RiskLevel     `json:"risk_level"`
	Reason            string        `json:"reason,omitempty"`
	ClosestSite       string        `json:"closest_site,omitempty"`
	MinDistance       int           `json:"min_distance"`
	MaxSimilarity     float64       `json:"max_similarity"`
	SimilarSites      []SimilarSite `json:"similar_sites,omitempty"`
	VisualMatches     []VisualMatch `json:"visual_matches,omitempty"`
	SuspiciousMatches []string      `json:"suspicious_matches,omitempty"`
}

// TyposquatDetector compares candidate domains against the legitimate-site
// list using edit distance and the confusable-character table.
type TyposquatDetector struct {
	sites       []string
	confusables map[string][]string
	tiers       DistanceTierPenalties
}

// NewTyposquatDetector builds a detector over the given reference data.
// Passing nil for sites or confusables selects the built-in tables.
func NewTyposquatDetector(sites []string, confusables map[string][]string, tiers DistanceTierPenalties) *TyposquatDetector {
	if sites == nil {
		sites = LegitimateSites
	}
	if confusables == nil {
		confusables = Confusables
	}
	return &TyposquatDetector{sites: sites, confusables: confusables, tiers: tiers}
}

// Check analyzes a cleaned, case-preserved domain for typosquatting and
// homograph attacks against the legitimate-site list.
func (d *TyposquatDetector) Check(domain string) TyposquatResult {
	lower := strings.ToLower(domain)

	res := TyposquatResult{
		Confidence:  100,
		RiskLevel:   RiskLow,
		MinDistance: -1,
	}

	totalPenalty := 0
	minDist := -1
	closest := ""
	var similar []SimilarSite

	for _, site := range d.sites {
		siteLower := strings.ToLower(site)

		// Exact match against a legitimate entry wins over everything:
		// the detector must short-circuit before any penalty accumulates.
		if lower == siteLower {
			res.Reason = fmt.Sprintf("%s is a known legitimate site", site)
			res.MinDistance = 0
			res.MaxSimilarity = 100
			res.ClosestSite = site
			return res
		}

		distCased := Distance(domain, site)
		distFolded := Distance(lower, siteLower)
		dist := minInt(distCased, distFolded)

		if p := d.visualPenalty(domain, site, dist); p > 0 {
			totalPenalty -= p
			res.VisualMatches = append(res.VisualMatches, VisualMatch{Site: site, Penalty: p})
			res.SuspiciousMatches = append(res.SuspiciousMatches,
				fmt.Sprintf("%s uses characters visually confusable with %s", domain, site))
		}

		maxLen := maxInt(len(lower), len(siteLower))
		sim := float64(maxLen-dist) / float64(maxLen) * 100
		if sim >= similarSiteFloor && sim < 100 {
			similar = append(similar, SimilarSite{Site: site, Similarity: sim, Distance: dist})
		}
		if sim > res.MaxSimilarity {
			res.MaxSimilarity = sim
		}

		if minDist < 0 || dist < minDist {
			minDist = dist
			closest = site
		}
	}

	switch minDist {
	case 1:
		totalPenalty -= d.tiers.Distance1
	case 2:
		totalPenalty -= d.tiers.Distance2
	case 3:
		totalPenalty -= d.tiers.Distance3
	}
	if minDist >= 1 && minDist <= 3 {
		res.SuspiciousMatches = append(res.SuspiciousMatches,
			fmt.Sprintf("%s is %d edit(s) away from %s", domain, minDist, closest))
	}

	sort.Slice(similar, func(i, j int) bool { return similar[i].Similarity > similar[j].Similarity })
	if len(similar) > 3 {
		similar = similar[:3]
	}

	res.SimilarSites = similar
	res.MinDistance = minDist
	res.ClosestSite = closest
	res.Confidence = clampScore(100 + totalPenalty)

	switch {
	case len(res.VisualMatches) > 0:
		res.IsPhishing = true
		res.RiskLevel = RiskHigh
		res.Reason = fmt.Sprintf("visual similarity attack mimicking %s", res.VisualMatches[0].Site)
	case minDist >= 1 && minDist <= 2 && totalPenalty < typosquatPenaltyBar:
		res.IsPhishing = true
		if minDist == 1 {
			res.RiskLevel = RiskHigh
		} else {
			res.RiskLevel = RiskMedium
		}
		res.Reason = fmt.Sprintf("possible typosquatting of %s", closest)
	case strongestSimilarity(similar) >= similarSiteStrong:
		res.IsPhishing = true
		res.RiskLevel = RiskMedium
		res.Reason = fmt.Sprintf("closely resembles %s", similar[0].Site)
	}

	return res
}

func strongestSimilarity(sites []SimilarSite) float64 {
	if len(sites) == 0 {
		return 0
	}
	return sites[0].Similarity
}

// visualPenalty scores how strongly candidate imitates site through
// confusable characters. Zero means no visual imitation. Confusable pairs
// only count when the strings are otherwise near-identical; a coincidental
// pair inside an unrelated name is noise, not an attack.
func (d *TyposquatDetector) visualPenalty(candidate, site string, dist int) int {
	lc := strings.ToLower(candidate)
	ls := strings.ToLower(site)
	if lc == ls {
		return 0
	}

	// Multi-character glyph pairs first: rn->m, vv->w, cl->d. Replacing the
	// sequence must reproduce the legitimate domain exactly.
	for from, subs := range d.confusables {
		if len(from) < 2 || !strings.Contains(lc, from) {
			continue
		}
		for _, to := range subs {
			if strings.ReplaceAll(lc, from, to) == ls {
				return visualPenaltyFull
			}
		}
	}

	rc := []rune(candidate)
	rs := []rune(site)
	lenDiff := len(rc) - len(rs)
	if lenDiff < -1 || lenDiff > 1 {
		return 0
	}

	if lenDiff == 0 {
		diffs, confused := 0, 0
		for i := range rc {
			if toLowerRune(rc[i]) == toLowerRune(rs[i]) {
				continue
			}
			diffs++
			if d.confusable(rc[i], rs[i]) {
				confused++
			}
		}
		if confused > 0 && confused == diffs {
			// Every difference is a confusable swap: the string looks
			// identical to the legitimate one.
			return visualPenaltyFull
		}
		return 0
	}

	// Length-tolerant path: count positional confusable swaps over the
	// overlapping prefix, but only for strings a couple of edits apart.
	if dist > 2 {
		return 0
	}
	n := minInt(len(rc), len(rs))
	confused := 0
	for i := 0; i < n; i++ {
		if toLowerRune(rc[i]) != toLowerRune(rs[i]) && d.confusable(rc[i], rs[i]) {
			confused++
		}
	}
	return visualPenaltyPerChar * confused
}

// confusable reports whether a and b are visually mistakable, checking the
// table in both directions.
func (d *TyposquatDetector) confusable(a, b rune) bool {
	for _, s := range d.confusables[string(a)] {
		if s == string(b) {
			return true
		}
	}
	for _, s := range d.confusables[string(b)] {
		if s == string(a) {
			return true
		}
	}
	return false
}

func toLowerRune(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
