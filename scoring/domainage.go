package scoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	whois "github.com/likexian/whois"
	parser "github.com/likexian/whois-parser"
	"github.com/rs/zerolog"
)

// Registration age penalties. Newly registered domains dominate scam
// campaigns, so age carries most of the weight here.
const (
	penaltyAgeUnder30Days  = 60
	penaltyAgeUnder90Days  = 40
	penaltyAgeUnder180Days = 25
	penaltyAgeUnder1Year   = 10
	penaltyHoldStatus      = 30
	penaltyPendingDelete   = 40
)

var whoisDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2006.01.02",
}

// DomainAgeInfo is the domain-age check's evidence.
type DomainAgeInfo struct {
	AgeDays   int      `json:"age_days"`
	CreatedOn string   `json:"created_on,omitempty"`
	Statuses  []string `json:"statuses,omitempty"`
	Score     int      `json:"score"`
}

// WhoisCache stores raw WHOIS responses; registration data changes rarely,
// so records are kept for up to 30 days.
type WhoisCache interface {
	GetWhois(ctx context.Context, domain string) (string, bool)
	SetWhois(ctx context.Context, domain, raw string)
}

// DomainAgeChecker scores a domain's registration age and status from
// WHOIS-like data.
type DomainAgeChecker struct {
	lookup func(domain string) (string, error)
	cache  WhoisCache
	log    zerolog.Logger
}

// NewDomainAgeChecker builds a checker backed by live WHOIS. The cache may
// be nil.
func NewDomainAgeChecker(cache WhoisCache, log zerolog.Logger) *DomainAgeChecker {
	return &DomainAgeChecker{
		lookup: func(domain string) (string, error) {
			return whois.Whois(domain)
		},
		cache: cache,
		log:   log.With().Str("component", "domain-age").Logger(),
	}
}

// Check resolves the domain's registration record and normalizes it to a
// 0-100 score. Returns an error only when no record could be fetched at
// all; the caller treats that as an absent check.
func (c *DomainAgeChecker) Check(ctx context.Context, domain string) (DomainAgeInfo, error) {
	raw, err := c.fetch(ctx, domain)
	if err != nil {
		return DomainAgeInfo{}, err
	}

	p, err := parser.Parse(raw)
	if err != nil || p.Domain == nil {
		// Subdomains often have no record of their own; retry the parent.
		parts := strings.Split(domain, ".")
		if len(parts) > 2 {
			return c.Check(ctx, strings.Join(parts[1:], "."))
		}
		if err == nil {
			err = fmt.Errorf("whois: unparseable record for %s", domain)
		}
		return DomainAgeInfo{}, err
	}

	created := parseWhoisDate(p.Domain.CreatedDate)
	if created.IsZero() {
		// No usable creation date means no age verdict; an absent check is
		// better than scoring the domain as brand new.
		return DomainAgeInfo{}, fmt.Errorf("whois: no parseable creation date for %s", domain)
	}

	info := DomainAgeInfo{
		Statuses:  p.Domain.Status,
		AgeDays:   int(time.Since(created).Hours() / 24),
		CreatedOn: created.Format("02/01/2006"),
	}
	info.Score = scoreRegistration(info)
	return info, nil
}

func (c *DomainAgeChecker) fetch(ctx context.Context, domain string) (string, error) {
	if c.cache != nil {
		if raw, ok := c.cache.GetWhois(ctx, domain); ok {
			return raw, nil
		}
	}
	raw, err := c.lookup(domain)
	if err != nil {
		return "", err
	}
	if c.cache != nil {
		c.cache.SetWhois(ctx, domain, raw)
	}
	return raw, nil
}

func parseWhoisDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, l := range whoisDateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func scoreRegistration(info DomainAgeInfo) int {
	score := 100

	switch {
	case info.AgeDays < 30:
		score -= penaltyAgeUnder30Days
	case info.AgeDays < 90:
		score -= penaltyAgeUnder90Days
	case info.AgeDays < 180:
		score -= penaltyAgeUnder180Days
	case info.AgeDays < 365:
		score -= penaltyAgeUnder1Year
	}

	for _, st := range info.Statuses {
		s := strings.ToLower(st)
		if strings.Contains(s, "hold") {
			score -= penaltyHoldStatus
		}
		if strings.Contains(s, "pendingdelete") {
			score -= penaltyPendingDelete
		}
	}

	return clampScore(score)
}
