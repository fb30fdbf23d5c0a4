package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/miracle380301/cryptoguardian/store"
)

const (
	defaultDetectorTimeout = 10 * time.Second
	reportPenaltyPerEntry  = 25
	neutralScore           = 50
)

// ResultCache stores finished validation results for a short TTL.
type ResultCache interface {
	GetResult(ctx context.Context, domain string, rtype RequestType) (*ValidationResult, bool)
	SetResult(ctx context.Context, res *ValidationResult, rtype RequestType)
}

// ReputationQuerier is the third-party reputation feed's read interface.
type ReputationQuerier interface {
	Query(ctx context.Context, domain string) (ReputationFinding, error)
}

// SafeBrowsingQuerier resolves browsing-protection verdicts.
type SafeBrowsingQuerier interface {
	Check(ctx context.Context, domain string) (bool, string, error)
}

// AgeChecker resolves registration-data scores.
type AgeChecker interface {
	Check(ctx context.Context, domain string) (DomainAgeInfo, error)
}

// ValidatorConfig wires the validator's collaborators. Stores are required;
// every external checker and the cache may be nil, in which case the
// corresponding check is simply absent from results.
type ValidatorConfig struct {
	Blacklist    store.Blacklist
	Exchanges    store.ExchangeRegistry
	Reports      store.Reports
	Reputation   ReputationQuerier
	SafeBrowsing SafeBrowsingQuerier
	DomainAge    AgeChecker
	CertProbe    CertProbe
	Cache        ResultCache

	Weights         CheckWeights
	Thresholds      StatusThresholds
	DetectorTimeout time.Duration
	Logger          zerolog.Logger
}

// Validator runs the gate pipeline and combines detector outputs into one
// ValidationResult per request. It holds no per-request state.
type Validator struct {
	cfg       ValidatorConfig
	typosquat *TyposquatDetector
	general   *PatternDetector
	crypto    *PatternDetector
	now       func() time.Time
	log       zerolog.Logger
}

// NewValidator builds a validator. Zero-value weights, thresholds and
// timeout fall back to the defaults.
func NewValidator(cfg ValidatorConfig) *Validator {
	if cfg.Weights == (CheckWeights{}) {
		cfg.Weights = DefaultCheckWeights()
	}
	if cfg.Thresholds == (StatusThresholds{}) {
		cfg.Thresholds = DefaultStatusThresholds()
	}
	if cfg.DetectorTimeout <= 0 {
		cfg.DetectorTimeout = defaultDetectorTimeout
	}
	return &Validator{
		cfg:       cfg,
		typosquat: NewTyposquatDetector(nil, nil, DefaultDistanceTierPenalties()),
		general:   NewPatternDetector(RulesetGeneral()),
		crypto:    NewPatternDetector(RulesetCrypto()),
		now:       time.Now,
		log:       cfg.Logger.With().Str("component", "validator").Logger(),
	}
}

// Validate scores one domain. Input errors surface to the caller; every
// external failure past normalization degrades to an absent check instead.
func (v *Validator) Validate(ctx context.Context, rawDomain string, rtype RequestType) (*ValidationResult, error) {
	lower, cased, err := NormalizeDomain(rawDomain)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDomain, rawDomain)
	}
	if rtype == "" {
		rtype = RequestGeneral
	}

	if v.cfg.Cache != nil {
		if res, ok := v.cfg.Cache.GetResult(ctx, lower, rtype); ok {
			return res, nil
		}
	}

	// Ordered gate pipeline: each gate may terminate the request with a
	// final verdict; otherwise the general detector phase runs.
	res := v.blacklistGate(ctx, rawDomain, lower)
	if res == nil && rtype == RequestCrypto {
		res = v.exchangeGate(ctx, rawDomain, lower)
	}
	if res == nil {
		res = v.runDetectors(ctx, rawDomain, lower, cased, rtype)
	}

	if v.cfg.Cache != nil {
		v.cfg.Cache.SetResult(ctx, res, rtype)
	}
	return res, nil
}

// blacklistGate resolves the domain against the local blacklist, then the
// third-party reputation feed. Any hit terminates the request with a danger
// verdict. The write-on-detect persistence of feed hits lives here, at the
// combiner's single write boundary, so the feed client itself stays
// read-only.
func (v *Validator) blacklistGate(ctx context.Context, raw, domain string) *ValidationResult {
	rec, err := v.cfg.Blacklist.Lookup(ctx, domain)
	switch {
	case err == nil:
		return v.terminalDanger(raw, domain, rec)
	case !errors.Is(err, store.ErrNotFound):
		// Store unreachable reads as "not found": fail open toward
		// unknown, never toward malicious.
		v.log.Warn().Str("domain", domain).Err(err).Msg("blacklist lookup failed")
	}

	if v.cfg.Reputation == nil {
		return nil
	}
	finding, err := v.cfg.Reputation.Query(ctx, domain)
	if err != nil {
		v.log.Warn().Str("domain", domain).Err(err).Msg("reputation feed unavailable")
		return nil
	}
	if finding.Classification == ReputationClean || finding.Classification == "" {
		return nil
	}

	rec = store.BlacklistRecord{
		Domain:   domain,
		Reason:   fmt.Sprintf("flagged by %d security vendors", finding.MaliciousCount+finding.SuspiciousCount),
		Severity: finding.Classification,
		RiskLevel: map[string]string{
			ReputationMalicious:  string(RiskHigh),
			ReputationSuspicious: string(RiskMedium),
		}[finding.Classification],
		Category: "reputation-feed",
		Evidence: []string{
			fmt.Sprintf("malicious vendors: %d", finding.MaliciousCount),
			fmt.Sprintf("suspicious vendors: %d", finding.SuspiciousCount),
		},
		ReportedBy:         "reputation-feed",
		VerificationStatus: "automated",
		CreatedAt:          v.now(),
	}
	if err := v.cfg.Blacklist.Insert(ctx, rec); err != nil {
		v.log.Warn().Str("domain", domain).Err(err).Msg("blacklist insert failed")
	}
	return v.terminalDanger(raw, domain, rec)
}

// exchangeGate resolves crypto requests against the verified exchange
// registry; a match terminates the request with a safe verdict.
func (v *Validator) exchangeGate(ctx context.Context, raw, domain string) *ValidationResult {
	rec, err := v.cfg.Exchanges.Lookup(ctx, domain)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			v.log.Warn().Str("domain", domain).Err(err).Msg("exchange lookup failed")
		}
		return nil
	}

	checks := Checks{Exchange: &Check{Score: 100, RiskLevel: RiskLow, Details: rec}}
	return &ValidationResult{
		Domain:          domain,
		OriginalInput:   raw,
		FinalScore:      100,
		Status:          StatusSafe,
		Checks:          checks,
		Summary:         summarize(100, StatusSafe, checks),
		Recommendations: recommendationsFor(StatusSafe, checks),
		Timestamp:       v.now(),
	}
}

func (v *Validator) terminalDanger(raw, domain string, rec store.BlacklistRecord) *ValidationResult {
	checks := Checks{MaliciousSite: &Check{Score: 0, RiskLevel: RiskHigh, Details: rec}}
	return &ValidationResult{
		Domain:          domain,
		OriginalInput:   raw,
		FinalScore:      0,
		Status:          StatusDanger,
		Checks:          checks,
		Summary:         summarize(0, StatusDanger, checks),
		Recommendations: recommendationsFor(StatusDanger, checks),
		Timestamp:       v.now(),
	}
}

// runDetectors launches the remaining checks concurrently under a bounded
// timeout and reduces the survivors to one weighted verdict. Each check's
// failure is recovered independently; a failing detector contributes an
// absent result, never a failed request.
func (v *Validator) runDetectors(ctx context.Context, raw, lower, cased string, rtype RequestType) *ValidationResult {
	dctx, cancel := context.WithTimeout(ctx, v.cfg.DetectorTimeout)
	defer cancel()

	var (
		mu     sync.Mutex
		checks Checks
	)
	g, gctx := errgroup.WithContext(dctx)

	launch := func(target **Check, name string, fn func() (*Check, error)) {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					v.log.Error().Str("check", name).Interface("panic", r).Msg("check panicked")
				}
			}()
			c, err := fn()
			if err != nil {
				v.log.Warn().Str("check", name).Str("domain", lower).Err(err).Msg("check skipped")
				return nil
			}
			mu.Lock()
			*target = c
			mu.Unlock()
			return nil
		})
	}

	launch(&checks.Typosquatting, "typosquatting", func() (*Check, error) {
		tr := v.typosquat.Check(cased)
		return &Check{Score: tr.Confidence, RiskLevel: tr.RiskLevel, Details: tr}, nil
	})

	launch(&checks.Patterns, "patterns", func() (*Check, error) {
		detector := v.general
		if rtype == RequestCrypto {
			detector = v.crypto
		}
		pr := detector.Check(lower)
		return &Check{Score: pr.Score, RiskLevel: pr.RiskLevel, Details: pr}, nil
	})

	if v.cfg.Reports != nil {
		launch(&checks.UserReports, "user-reports", func() (*Check, error) {
			count, err := v.cfg.Reports.CountByDomain(gctx, lower)
			if err != nil {
				return nil, err
			}
			score := clampScore(100 - count*reportPenaltyPerEntry)
			return &Check{Score: score, RiskLevel: riskForScore(score), Details: map[string]int{"report_count": count}}, nil
		})
	}

	if v.cfg.DomainAge != nil {
		launch(&checks.DomainAge, "domain-age", func() (*Check, error) {
			info, err := v.cfg.DomainAge.Check(gctx, RegistrableDomain(lower))
			if err != nil {
				return nil, err
			}
			return &Check{Score: info.Score, RiskLevel: riskForScore(info.Score), Details: info}, nil
		})
	}

	if v.cfg.CertProbe != nil {
		launch(&checks.Certificate, "certificate", func() (*Check, error) {
			info := v.cfg.CertProbe(gctx, lower)
			return &Check{Score: info.Score, RiskLevel: riskForScore(info.Score), Details: info}, nil
		})
	}

	if v.cfg.SafeBrowsing != nil {
		launch(&checks.SafeBrowsing, "safe-browsing", func() (*Check, error) {
			flagged, reason, err := v.cfg.SafeBrowsing.Check(gctx, lower)
			if err != nil {
				return nil, err
			}
			score := 100
			level := RiskLow
			if flagged {
				score = 0
				level = RiskHigh
			}
			return &Check{Score: score, RiskLevel: level, Details: map[string]any{"flagged": flagged, "reason": reason}}, nil
		})
	}

	// Bounded join: once the timeout fires, stragglers count as failed and
	// any result they produce later is discarded.
	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-dctx.Done():
		v.log.Warn().Str("domain", lower).Dur("timeout", v.cfg.DetectorTimeout).Msg("detector phase timed out")
	}

	mu.Lock()
	snapshot := checks
	mu.Unlock()

	final := v.combine(snapshot)
	status := v.cfg.Thresholds.StatusFor(final)

	return &ValidationResult{
		Domain:          lower,
		OriginalInput:   raw,
		FinalScore:      final,
		Status:          status,
		Checks:          snapshot,
		Summary:         summarize(final, status, snapshot),
		Recommendations: recommendationsFor(status, snapshot),
		Timestamp:       v.now(),
	}
}

// combine reduces the surviving checks to one 0-100 score, normalizing by
// the weight sum of checks that produced a result. With no survivors the
// verdict is a neutral default.
func (v *Validator) combine(checks Checks) int {
	w := v.cfg.Weights
	entries := []struct {
		check  *Check
		weight int
	}{
		{checks.Typosquatting, w.Typosquatting},
		{checks.Patterns, w.Patterns},
		{checks.SafeBrowsing, w.SafeBrowsing},
		{checks.DomainAge, w.DomainAge},
		{checks.Certificate, w.Certificate},
		{checks.UserReports, w.UserReports},
	}

	sum, weightSum := 0, 0
	for _, e := range entries {
		if e.check == nil || e.weight <= 0 {
			continue
		}
		sum += e.check.Score * e.weight
		weightSum += e.weight
	}
	if weightSum == 0 {
		return neutralScore
	}
	return clampScore(int(math.Round(float64(sum) / float64(weightSum))))
}
