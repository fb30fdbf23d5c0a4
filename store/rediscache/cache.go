// Package rediscache layers a TTL cache over the combiner's external reads:
// finished validation results for a few minutes, raw WHOIS records for up to
// 30 days. Every redis failure reads as a cache miss, so a lost cache only
// costs latency, never correctness.
package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/miracle380301/cryptoguardian/scoring"
)

const (
	defaultResultTTL = 10 * time.Minute
	defaultWhoisTTL  = 30 * 24 * time.Hour
)

// Cache implements scoring.ResultCache and scoring.WhoisCache on redis.
type Cache struct {
	rdb       *redis.Client
	resultTTL time.Duration
	whoisTTL  time.Duration
	log       zerolog.Logger
}

// New connects to redis at addr and verifies it with a ping.
func New(addr string, log zerolog.Logger) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Cache{
		rdb:       rdb,
		resultTTL: defaultResultTTL,
		whoisTTL:  defaultWhoisTTL,
		log:       log.With().Str("component", "cache").Logger(),
	}, nil
}

// Close releases the client.
func (c *Cache) Close() error { return c.rdb.Close() }

func resultKey(domain string, rtype scoring.RequestType) string {
	return "result:" + string(rtype) + ":" + domain
}

// GetResult returns a cached validation result, if any.
func (c *Cache) GetResult(ctx context.Context, domain string, rtype scoring.RequestType) (*scoring.ValidationResult, bool) {
	raw, err := c.rdb.Get(ctx, resultKey(domain, rtype)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("result get failed")
		}
		return nil, false
	}
	var res scoring.ValidationResult
	if err := json.Unmarshal(raw, &res); err != nil {
		c.log.Warn().Err(err).Msg("cached result corrupt")
		return nil, false
	}
	return &res, true
}

// SetResult caches a finished validation result.
func (c *Cache) SetResult(ctx context.Context, res *scoring.ValidationResult, rtype scoring.RequestType) {
	raw, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, resultKey(res.Domain, rtype), raw, c.resultTTL).Err(); err != nil {
		c.log.Warn().Err(err).Msg("result set failed")
	}
}

// GetWhois returns a cached raw WHOIS record, if any.
func (c *Cache) GetWhois(ctx context.Context, domain string) (string, bool) {
	raw, err := c.rdb.Get(ctx, "whois:"+domain).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("whois get failed")
		}
		return "", false
	}
	return raw, true
}

// SetWhois caches a raw WHOIS record.
func (c *Cache) SetWhois(ctx context.Context, domain, raw string) {
	if err := c.rdb.Set(ctx, "whois:"+domain, raw, c.whoisTTL).Err(); err != nil {
		c.log.Warn().Err(err).Msg("whois set failed")
	}
}
