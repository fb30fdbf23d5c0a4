// Package store defines the external record stores the scoring core
// consults: the blacklist, the verified-exchange registry and user-submitted
// scam reports. The core only ever reads these; the single write path is the
// combiner persisting reputation-feed hits into the blacklist.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by lookups that matched nothing.
var ErrNotFound = errors.New("not found")

// BlacklistRecord is a known-bad domain entry.
type BlacklistRecord struct {
	Domain             string    `json:"domain"`
	Reason             string    `json:"reason"`
	Severity           string    `json:"severity"`
	RiskLevel          string    `json:"risk_level"`
	Category           string    `json:"category"`
	Evidence           []string  `json:"evidence,omitempty"`
	ReportedBy         string    `json:"reported_by"`
	VerificationStatus string    `json:"verification_status"`
	CreatedAt          time.Time `json:"created_at"`
}

// ExchangeRecord is a known-good, verified exchange entry. Existence in the
// registry implies trust.
type ExchangeRecord struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	TrustScore     float64 `json:"trust_score"`
	TrustScoreRank int     `json:"trust_score_rank"`
	URL            string  `json:"url"`
	IsActive       bool    `json:"is_active"`
}

// Report is a user-submitted scam report.
type Report struct {
	ID        string    `json:"id"`
	Domain    string    `json:"domain"`
	Reason    string    `json:"reason"`
	Category  string    `json:"category"`
	Status    string    `json:"status"` // pending|verified|rejected
	CreatedAt time.Time `json:"created_at"`
}

// Blacklist stores known-bad domains.
type Blacklist interface {
	// Lookup returns the record for an exact domain match, or ErrNotFound.
	Lookup(ctx context.Context, domain string) (BlacklistRecord, error)
	// Insert adds a record, idempotent by domain.
	Insert(ctx context.Context, rec BlacklistRecord) error
}

// ExchangeRegistry resolves domains against the verified exchange list.
type ExchangeRegistry interface {
	// Lookup matches a domain against stored exchange URLs and name-derived
	// tokens, returning ErrNotFound when nothing matches.
	Lookup(ctx context.Context, domain string) (ExchangeRecord, error)
}

// Reports stores user-submitted scam reports.
type Reports interface {
	Insert(ctx context.Context, rep Report) error
	// CountByDomain counts non-rejected reports against a domain.
	CountByDomain(ctx context.Context, domain string) (int, error)
}
