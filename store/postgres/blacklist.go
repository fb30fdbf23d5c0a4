package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/miracle380301/cryptoguardian/store"
)

// BlacklistStore implements store.Blacklist on the blacklist table.
type BlacklistStore struct {
	db *DB
}

// NewBlacklist returns a blacklist adapter over db.
func NewBlacklist(db *DB) *BlacklistStore {
	return &BlacklistStore{db: db}
}

// Lookup resolves an exact domain match.
func (s *BlacklistStore) Lookup(ctx context.Context, domain string) (store.BlacklistRecord, error) {
	var rec store.BlacklistRecord
	err := s.db.Pool.QueryRow(ctx, `
		SELECT domain, reason, severity, risk_level, category,
		       COALESCE(evidence, '{}'), reported_by, verification_status, created_at
		FROM blacklist
		WHERE domain = $1
	`, strings.ToLower(domain)).Scan(
		&rec.Domain, &rec.Reason, &rec.Severity, &rec.RiskLevel, &rec.Category,
		&rec.Evidence, &rec.ReportedBy, &rec.VerificationStatus, &rec.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.BlacklistRecord{}, store.ErrNotFound
	}
	return rec, err
}

// Insert adds a record. Idempotent by domain: an existing record wins,
// automated re-detections never overwrite it.
func (s *BlacklistStore) Insert(ctx context.Context, rec store.BlacklistRecord) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO blacklist
			(domain, reason, severity, risk_level, category, evidence,
			 reported_by, verification_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (domain) DO NOTHING
	`, strings.ToLower(rec.Domain), rec.Reason, rec.Severity, rec.RiskLevel,
		rec.Category, rec.Evidence, rec.ReportedBy, rec.VerificationStatus, rec.CreatedAt)
	return err
}
