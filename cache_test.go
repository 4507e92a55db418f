package main

import (
	"context"
	"testing"
	"time"

	"vivah/pkg/match"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) (*ScoreCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return &ScoreCache{rdb: rdb, ttl: time.Minute, log: zap.NewNop()}, mr
}

func TestScoreCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	in := match.CandidateScore{ProfileID: candidateID, Raw: 0.75, Matched: []string{"religion"}}
	hash := CriteriaHash(match.Criteria{AgeMin: 24}, match.UniformWeights())

	_, ok := cache.Get(ctx, searcherID, candidateID, hash)
	assert.False(t, ok)

	cache.Put(ctx, searcherID, candidateID, hash, in)
	out, ok := cache.Get(ctx, searcherID, candidateID, hash)
	require.True(t, ok)
	assert.Equal(t, in.Raw, out.Raw)
	assert.Equal(t, in.Matched, out.Matched)
}

func TestScoreCacheKeyedByCriteria(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	h1 := CriteriaHash(match.Criteria{AgeMin: 24}, match.UniformWeights())
	h2 := CriteriaHash(match.Criteria{AgeMin: 25}, match.UniformWeights())
	require.NotEqual(t, h1, h2)

	cache.Put(ctx, searcherID, candidateID, h1, match.CandidateScore{ProfileID: candidateID, Raw: 0.5})
	_, ok := cache.Get(ctx, searcherID, candidateID, h2)
	assert.False(t, ok)
}

func TestScoreCacheInvalidateEitherSide(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	hash := CriteriaHash(match.Criteria{}, match.UniformWeights())
	s := match.CandidateScore{ProfileID: candidateID, Raw: 0.5}

	cache.Put(ctx, searcherID, candidateID, hash, s)
	cache.Invalidate(ctx, candidateID)
	if _, ok := cache.Get(ctx, searcherID, candidateID, hash); ok {
		t.Fatal("candidate-side invalidation left a stale score")
	}

	cache.Put(ctx, searcherID, candidateID, hash, s)
	cache.Invalidate(ctx, searcherID)
	if _, ok := cache.Get(ctx, searcherID, candidateID, hash); ok {
		t.Fatal("searcher-side invalidation left a stale score")
	}
}

func TestScoreCacheEntriesExpire(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	hash := CriteriaHash(match.Criteria{}, match.UniformWeights())

	cache.Put(ctx, searcherID, candidateID, hash, match.CandidateScore{ProfileID: candidateID, Raw: 1})
	mr.FastForward(2 * time.Minute)
	_, ok := cache.Get(ctx, searcherID, candidateID, hash)
	assert.False(t, ok)
}

func TestScoreCacheNilIsNoop(t *testing.T) {
	var cache *ScoreCache
	ctx := context.Background()
	hash := CriteriaHash(match.Criteria{}, match.UniformWeights())

	cache.Put(ctx, searcherID, candidateID, hash, match.CandidateScore{})
	_, ok := cache.Get(ctx, searcherID, candidateID, hash)
	assert.False(t, ok)
	cache.Invalidate(ctx, searcherID)
}
