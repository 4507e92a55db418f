package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"vivah/pkg/match"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ScoreCache keeps computed CandidateScores in Redis keyed by
// (searcher, candidate, criteria-hash). It is a pure optimization: every
// method degrades to a miss/no-op on any Redis fault, and entries for a
// profile are invalidated whenever that profile (or its preference) mutates,
// via per-profile key index sets.
type ScoreCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func newScoreCache(rdb *redis.Client, cfg *Config, log *zap.Logger) *ScoreCache {
	ttl := time.Duration(cfg.Search.ScoreCacheTTL) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ScoreCache{rdb: rdb, ttl: ttl, log: log}
}

// CriteriaHash canonicalizes the criteria so identical searches share cache
// entries.
func CriteriaHash(crit match.Criteria, w match.Weights) string {
	b, _ := json.Marshal(struct {
		C match.Criteria
		W match.Weights
	}{crit, w})
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8])
}

func scoreKey(searcher, candidate uuid.UUID, critHash string) string {
	return fmt.Sprintf("vivah:score:%s:%s:%s", searcher, candidate, critHash)
}

func indexKey(profile uuid.UUID) string {
	return fmt.Sprintf("vivah:score:idx:%s", profile)
}

func (c *ScoreCache) Get(ctx context.Context, searcher, candidate uuid.UUID, critHash string) (match.CandidateScore, bool) {
	var s match.CandidateScore
	if c == nil || c.rdb == nil {
		return s, false
	}
	raw, err := c.rdb.Get(ctx, scoreKey(searcher, candidate, critHash)).Bytes()
	if err != nil {
		return s, false
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return s, false
	}
	return s, true
}

func (c *ScoreCache) Put(ctx context.Context, searcher, candidate uuid.UUID, critHash string, s match.CandidateScore) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	key := scoreKey(searcher, candidate, critHash)
	pipe := c.rdb.Pipeline()
	pipe.Set(ctx, key, raw, c.ttl)
	// Track the key under both profiles so mutation of either side drops it.
	pipe.SAdd(ctx, indexKey(searcher), key)
	pipe.Expire(ctx, indexKey(searcher), c.ttl)
	pipe.SAdd(ctx, indexKey(candidate), key)
	pipe.Expire(ctx, indexKey(candidate), c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Debug("score cache put failed", zap.Error(err))
	}
}

// Invalidate drops every cached score that involves the given profile.
// Called on profile and preference mutation; staleness beyond that is not
// acceptable.
func (c *ScoreCache) Invalidate(ctx context.Context, profile uuid.UUID) {
	if c == nil || c.rdb == nil {
		return
	}
	idx := indexKey(profile)
	keys, err := c.rdb.SMembers(ctx, idx).Result()
	if err != nil {
		c.log.Debug("score cache invalidate failed", zap.Error(err))
		return
	}
	if len(keys) > 0 {
		c.rdb.Del(ctx, keys...)
	}
	c.rdb.Del(ctx, idx)
}
