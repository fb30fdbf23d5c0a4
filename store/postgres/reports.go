package postgres

import (
	"context"
	"strings"

	"github.com/miracle380301/cryptoguardian/store"
)

// ReportStore implements store.Reports on the reports table.
type ReportStore struct {
	db *DB
}

// NewReports returns a report adapter over db.
func NewReports(db *DB) *ReportStore {
	return &ReportStore{db: db}
}

// Insert stores a user-submitted report.
func (s *ReportStore) Insert(ctx context.Context, rep store.Report) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO reports (id, domain, reason, category, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rep.ID, strings.ToLower(rep.Domain), rep.Reason, rep.Category, rep.Status, rep.CreatedAt)
	return err
}

// CountByDomain counts non-rejected reports against a domain.
func (s *ReportStore) CountByDomain(ctx context.Context, domain string) (int, error) {
	var count int
	err := s.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM reports
		WHERE domain = $1 AND status <> 'rejected'
	`, strings.ToLower(domain)).Scan(&count)
	return count, err
}
