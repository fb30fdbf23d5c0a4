package scoring

import (
	"regexp"
	"strings"
)

// Factor weights for the suspicious-pattern detector. Empirically chosen;
// kept as named constants rather than re-derived.
const (
	weightExcessiveNumbers = 20
	weightMultipleHyphens  = 15
	weightVeryLongDomain   = 10
	weightKeywords         = 25
	weightRandomPattern    = 20
	weightSuspiciousTLD    = 30
	weightPhishingRegex    = 25

	suspiciousRiskFloor = 25
	highRiskFloor       = 50
)

// phishingPatterns are lexical shapes typical of bulk-registered phishing
// domains: long digit runs, triple hyphen-separated words, digit-letter
// interleaving, and short prefixes padded with digits.
var phishingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[0-9]{4,}`),
	regexp.MustCompile(`^[a-z]+-[a-z]+-[a-z]+`),
	regexp.MustCompile(`[0-9]+[a-z]+[0-9]+`),
	regexp.MustCompile(`^[a-z]{1,3}[0-9]+[a-z]+`),
}

// RiskFactor is one named, weighted, boolean-gated contributor to the
// accumulated pattern risk. Recomputed per request, never persisted.
type RiskFactor struct {
	Name     string `json:"name"`
	Weight   int    `json:"weight"`
	Detected bool   `json:"detected"`
}

// Ruleset selects which factor groups the pattern detector applies. The
// general ruleset runs all seven factors; the crypto ruleset drops the TLD
// and regex factors and demands two keyword hits instead of one.
type Ruleset struct {
	Name             string
	Keywords         []string
	KeywordThreshold int
	CheckTLD         bool
	CheckRegex       bool
}

// RulesetGeneral returns the full seven-factor ruleset.
func RulesetGeneral() Ruleset {
	return Ruleset{
		Name:             "general",
		Keywords:         GeneralKeywords,
		KeywordThreshold: 1,
		CheckTLD:         true,
		CheckRegex:       true,
	}
}

// RulesetCrypto returns the crypto-focused five-factor ruleset.
func RulesetCrypto() Ruleset {
	return Ruleset{
		Name:             "crypto",
		Keywords:         CryptoKeywords,
		KeywordThreshold: 2,
		CheckTLD:         false,
		CheckRegex:       false,
	}
}

// PatternResult is the suspicious-pattern detector's output.
type PatternResult struct {
	Score        int          `json:"score"`
	RiskLevel    RiskLevel    `json:"risk_level"`
	TotalRisk    int          `json:"total_risk"`
	IsSuspicious bool         `json:"is_suspicious"`
	Factors      []RiskFactor `json:"factors"`
}

// PatternDetector scans a domain's lexical structure and accumulates a
// weighted risk total across its ruleset's factors.
type PatternDetector struct {
	rules Ruleset
	tlds  []string
}

// NewPatternDetector builds a detector for the given ruleset over the
// built-in abused-TLD list.
func NewPatternDetector(rules Ruleset) *PatternDetector {
	return &PatternDetector{rules: rules, tlds: SuspiciousTLDs}
}

// Check analyzes a cleaned, lower-cased domain. The TLD is stripped for the
// lexical checks and examined separately against the abused-TLD list.
func (d *PatternDetector) Check(domain string) PatternResult {
	name, tld := splitTLD(domain)

	factors := []RiskFactor{
		{Name: "excessive_numbers", Weight: weightExcessiveNumbers, Detected: excessiveNumbers(name)},
		{Name: "multiple_hyphens", Weight: weightMultipleHyphens, Detected: strings.Count(name, "-") >= 3},
		{Name: "very_long_domain", Weight: weightVeryLongDomain, Detected: len(name) > 20},
		{Name: "suspicious_keywords", Weight: weightKeywords, Detected: d.keywordHits(name) >= d.rules.KeywordThreshold},
		{Name: "random_characters", Weight: weightRandomPattern, Detected: looksRandom(name)},
	}
	if d.rules.CheckTLD {
		factors = append(factors, RiskFactor{
			Name: "suspicious_tld", Weight: weightSuspiciousTLD, Detected: d.suspiciousTLD(tld),
		})
	}
	if d.rules.CheckRegex {
		factors = append(factors, RiskFactor{
			Name: "phishing_pattern", Weight: weightPhishingRegex, Detected: matchesPhishingPattern(name),
		})
	}

	total := 0
	for _, f := range factors {
		if f.Detected {
			total += f.Weight
		}
	}

	level := RiskLow
	switch {
	case total >= highRiskFloor:
		level = RiskHigh
	case total >= suspiciousRiskFloor:
		level = RiskMedium
	}

	score := 100 - total
	if score < 0 {
		score = 0
	}

	return PatternResult{
		Score:        score,
		RiskLevel:    level,
		TotalRisk:    total,
		IsSuspicious: total >= suspiciousRiskFloor,
		Factors:      factors,
	}
}

func (d *PatternDetector) keywordHits(name string) int {
	hits := 0
	for _, kw := range d.rules.Keywords {
		if strings.Contains(name, kw) {
			hits++
		}
	}
	return hits
}

func (d *PatternDetector) suspiciousTLD(tld string) bool {
	for _, t := range d.tlds {
		if tld == t {
			return true
		}
	}
	return false
}

// excessiveNumbers triggers when digits make up more than 30% of the name.
func excessiveNumbers(name string) bool {
	if name == "" {
		return false
	}
	digits := 0
	for _, r := range name {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return float64(digits)/float64(len(name)) > 0.3
}

// looksRandom triggers on names without the consonant-vowel alternation of
// natural words: no vowels at all, a consonant:vowel ratio above 4:1, or no
// CVC/VCV adjacency anywhere in a name longer than 6 characters.
func looksRandom(name string) bool {
	letters := []rune{}
	for _, r := range name {
		if r >= 'a' && r <= 'z' {
			letters = append(letters, r)
		}
	}
	if len(letters) == 0 {
		return false
	}

	vowels := 0
	for _, r := range letters {
		if isVowel(r) {
			vowels++
		}
	}
	if vowels == 0 {
		return true
	}
	consonants := len(letters) - vowels
	if float64(consonants)/float64(vowels) > 4 {
		return true
	}

	if len(letters) > 6 && !hasNaturalPattern(letters) {
		return true
	}
	return false
}

// hasNaturalPattern looks for any consonant-vowel-consonant or
// vowel-consonant-vowel window.
func hasNaturalPattern(letters []rune) bool {
	for i := 0; i+2 < len(letters); i++ {
		a, b, c := isVowel(letters[i]), isVowel(letters[i+1]), isVowel(letters[i+2])
		if (!a && b && !c) || (a && !b && c) {
			return true
		}
	}
	return false
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

func matchesPhishingPattern(name string) bool {
	for _, re := range phishingPatterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}
