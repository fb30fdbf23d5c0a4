package postgres

import (
	"context"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/miracle380301/cryptoguardian/store"
)

// ExchangeStore implements store.ExchangeRegistry on the exchanges table.
type ExchangeStore struct {
	db *DB
}

// NewExchanges returns an exchange registry adapter over db.
func NewExchanges(db *DB) *ExchangeStore {
	return &ExchangeStore{db: db}
}

// Lookup matches a domain against stored exchange URLs and name-derived
// tokens. Presence in the registry implies the exchange is verified.
func (s *ExchangeStore) Lookup(ctx context.Context, domain string) (store.ExchangeRecord, error) {
	domain = strings.ToLower(domain)
	label := domain
	if i := strings.Index(label, "."); i > 0 {
		label = label[:i]
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, name, trust_score, trust_score_rank, url, is_active
		FROM exchanges
		WHERE is_active
		ORDER BY trust_score_rank
	`)
	if err != nil {
		return store.ExchangeRecord{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var rec store.ExchangeRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.TrustScore, &rec.TrustScoreRank, &rec.URL, &rec.IsActive); err != nil {
			return store.ExchangeRecord{}, err
		}
		if matchesExchange(domain, label, rec) {
			return rec, nil
		}
	}
	if err := rows.Err(); err != nil {
		return store.ExchangeRecord{}, err
	}
	return store.ExchangeRecord{}, store.ErrNotFound
}

func matchesExchange(domain, label string, rec store.ExchangeRecord) bool {
	host := strings.ToLower(rec.URL)
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	host = strings.TrimPrefix(host, "www.")
	if i := strings.IndexAny(host, "/?"); i >= 0 {
		host = host[:i]
	}
	// Host equality or a dot-boundary subdomain of the stored host; a raw
	// substring match would verify any suffix of the exchange's name.
	if host != "" && (domain == host || strings.HasSuffix(domain, "."+host)) {
		return true
	}

	token := nameToken(rec.Name)
	if token == "" {
		return false
	}
	if label == token {
		return true
	}
	// Tight fuzzy fallback for one-word label variants of the exchange name
	// (gateio for Gate.io, binanceus for Binance). The rank bound keeps
	// lookalikes with extra words out.
	rank := fuzzy.RankMatch(token, label)
	return rank >= 0 && rank <= 2
}

// nameToken reduces an exchange name to a matchable lowercase token
// ("Gate.io" -> "gate", "Crypto.com Exchange" -> "crypto").
func nameToken(name string) string {
	token := strings.ToLower(strings.TrimSpace(name))
	if i := strings.IndexAny(token, " ."); i > 0 {
		token = token[:i]
	}
	return token
}
