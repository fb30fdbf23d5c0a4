package scoring

import (
	"strings"
	"testing"
)

func TestTyposquatExactMatchIsLegitimate(t *testing.T) {
	d := NewTyposquatDetector(nil, nil, DefaultDistanceTierPenalties())

	res := d.Check("binance.com")
	if res.IsPhishing {
		t.Fatal("exact match against a legitimate site flagged as phishing")
	}
	if res.Confidence != 100 {
		t.Errorf("confidence = %d, want 100", res.Confidence)
	}
	if res.MinDistance != 0 {
		t.Errorf("min distance = %d, want 0", res.MinDistance)
	}
	if res.ClosestSite != "binance.com" {
		t.Errorf("closest site = %q, want binance.com", res.ClosestSite)
	}
}

func TestTyposquatSingleEditFlagsHigh(t *testing.T) {
	d := NewTyposquatDetector(nil, nil, DefaultDistanceTierPenalties())

	res := d.Check("binanse.com")
	if !res.IsPhishing {
		t.Fatal("binanse.com not flagged as phishing")
	}
	if res.RiskLevel != RiskHigh {
		t.Errorf("risk = %s, want high", res.RiskLevel)
	}
	if res.MinDistance != 1 {
		t.Errorf("min distance = %d, want 1", res.MinDistance)
	}
	if res.ClosestSite != "binance.com" {
		t.Errorf("closest site = %q, want binance.com", res.ClosestSite)
	}
	if res.Confidence != 50 {
		t.Errorf("confidence = %d, want 50 (100 - distance-1 penalty)", res.Confidence)
	}
	if !strings.Contains(res.Reason, "binance.com") {
		t.Errorf("reason %q does not name the imitated site", res.Reason)
	}
}

func TestTyposquatMultiCharGlyphAttack(t *testing.T) {
	d := NewTyposquatDetector(nil, nil, DefaultDistanceTierPenalties())

	// rn renders like m, so rnetamask.io imitates metamask.io.
	res := d.Check("rnetamask.io")
	if !res.IsPhishing || res.RiskLevel != RiskHigh {
		t.Fatalf("rnetamask.io: phishing=%v risk=%s, want high-risk phishing", res.IsPhishing, res.RiskLevel)
	}
	found := false
	for _, m := range res.VisualMatches {
		if m.Site == "metamask.io" && m.Penalty == visualPenaltyFull {
			found = true
		}
	}
	if !found {
		t.Errorf("no full visual match for metamask.io in %+v", res.VisualMatches)
	}
}

func TestTyposquatConfusableSubstitution(t *testing.T) {
	// Dedicated site list keeps the visual-penalty assertions exact.
	d := NewTyposquatDetector([]string{"paypal.com"}, nil, DefaultDistanceTierPenalties())

	res := d.Check("paypa1.com")
	if !res.IsPhishing || res.RiskLevel != RiskHigh {
		t.Fatalf("paypa1.com: phishing=%v risk=%s, want high-risk phishing", res.IsPhishing, res.RiskLevel)
	}
	if len(res.VisualMatches) != 1 || res.VisualMatches[0].Penalty != visualPenaltyFull {
		t.Fatalf("visual matches = %+v, want one full-penalty match", res.VisualMatches)
	}
	// Full visual penalty plus the distance-1 tier drives confidence to 0.
	if res.Confidence != 0 {
		t.Errorf("confidence = %d, want 0", res.Confidence)
	}
}

func TestTyposquatCasedConfusable(t *testing.T) {
	d := NewTyposquatDetector([]string{"apple.com"}, nil, DefaultDistanceTierPenalties())

	// Capital I imitates lowercase l, which only case-preserved input reveals.
	res := d.Check("appIe.com")
	if !res.IsPhishing || res.RiskLevel != RiskHigh {
		t.Fatalf("appIe.com: phishing=%v risk=%s, want high-risk phishing", res.IsPhishing, res.RiskLevel)
	}
	if len(res.VisualMatches) != 1 || res.VisualMatches[0].Penalty != visualPenaltyFull {
		t.Fatalf("visual matches = %+v, want one full-penalty match", res.VisualMatches)
	}
}

func TestTyposquatSimilarSiteMediumRisk(t *testing.T) {
	d := NewTyposquatDetector(nil, nil, DefaultDistanceTierPenalties())

	// Three edits from coinmarketcap.com: too far for the typo tiers to
	// classify alone, close enough for the similarity rule.
	res := d.Check("coinmarket.com")
	if !res.IsPhishing {
		t.Fatal("coinmarket.com not flagged")
	}
	if res.RiskLevel != RiskMedium {
		t.Errorf("risk = %s, want medium", res.RiskLevel)
	}
	if len(res.SimilarSites) == 0 || res.SimilarSites[0].Site != "coinmarketcap.com" {
		t.Errorf("similar sites = %+v, want coinmarketcap.com first", res.SimilarSites)
	}
	if res.SimilarSites[0].Similarity < similarSiteStrong {
		t.Errorf("similarity = %.1f, want >= %.1f", res.SimilarSites[0].Similarity, similarSiteStrong)
	}
}

func TestTyposquatUnrelatedDomainPasses(t *testing.T) {
	d := NewTyposquatDetector(nil, nil, DefaultDistanceTierPenalties())

	res := d.Check("example.org")
	if res.IsPhishing {
		t.Fatalf("example.org flagged: %+v", res)
	}
	if res.RiskLevel != RiskLow {
		t.Errorf("risk = %s, want low", res.RiskLevel)
	}
	if len(res.VisualMatches) != 0 {
		t.Errorf("unexpected visual matches: %+v", res.VisualMatches)
	}
}

func TestTyposquatIgnoresCoincidentalConfusables(t *testing.T) {
	// example.org shares a lone confusable position with each of these
	// sites (l/i against netflix.com same-length, l/i against gemini.com on
	// the length-tolerant path) but is otherwise unrelated. That is noise,
	// not a visual attack.
	d := NewTyposquatDetector([]string{"netflix.com", "gemini.com"}, nil, DefaultDistanceTierPenalties())

	res := d.Check("example.org")
	if len(res.VisualMatches) != 0 {
		t.Fatalf("unexpected visual matches: %+v", res.VisualMatches)
	}
	if res.IsPhishing {
		t.Fatalf("example.org flagged: %+v", res)
	}
	if res.RiskLevel != RiskLow {
		t.Errorf("risk = %s, want low", res.RiskLevel)
	}
}

func TestTyposquatSimilarSitesSortedAndCapped(t *testing.T) {
	d := NewTyposquatDetector(nil, nil, DefaultDistanceTierPenalties())

	res := d.Check("bitmark.com") // close to bitmart.com and several bit* sites
	if len(res.SimilarSites) > 3 {
		t.Fatalf("similar sites not capped at 3: %d entries", len(res.SimilarSites))
	}
	for i := 1; i < len(res.SimilarSites); i++ {
		if res.SimilarSites[i].Similarity > res.SimilarSites[i-1].Similarity {
			t.Fatalf("similar sites not sorted by similarity: %+v", res.SimilarSites)
		}
	}
}

func TestConfusableBothDirections(t *testing.T) {
	d := NewTyposquatDetector(nil, nil, DefaultDistanceTierPenalties())
	pairs := [][2]rune{{'0', 'o'}, {'o', '0'}, {'1', 'l'}, {'l', '1'}, {'I', 'l'}, {'5', 's'}}
	for _, p := range pairs {
		if !d.confusable(p[0], p[1]) {
			t.Errorf("confusable(%q, %q) = false, want true", p[0], p[1])
		}
	}
	if d.confusable('a', 'z') {
		t.Error("confusable('a', 'z') = true, want false")
	}
}
