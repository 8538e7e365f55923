package damsa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoissonMean(t *testing.T) {
	mean, err := PoissonMean(4, 100)
	assert.InDelta(t, 0.04, mean, 1e-12)
	assert.InDelta(t, 0.02, err, 1e-12)

	mean, err = PoissonMean(4, 0)
	assert.Zero(t, mean)
	assert.Zero(t, err)
}

func TestReduceStatistics(t *testing.T) {
	table := BuildLayerBoundaries(DefaultThickness())
	buckets := make(Buckets)
	for i := 0; i < 4; i++ {
		buckets.add(BucketKey{Kind: Gap, Index: 2, Tier: Entrance}, BucketEntry{Count: 4})
	}
	buckets.add(BucketKey{Kind: Gap, Index: 2, Tier: Pure}, BucketEntry{Count: 1})

	stats := ReduceStatistics(table, buckets, 100)

	require.Len(t, stats, 12)
	for i := 1; i < len(stats); i++ {
		assert.Less(t, stats[i-1].Z, stats[i].Z)
	}
	assert.Equal(t, Absorber, stats[0].Kind)
	assert.Equal(t, Gap, stats[1].Kind)

	var gap2 LayerStatistic
	for _, s := range stats {
		if s.Kind == Gap && s.Index == 2 {
			gap2 = s
		}
	}
	assert.Equal(t, "Gap_102", gap2.Label())
	assert.Equal(t, 4, gap2.EntranceCount)
	assert.InDelta(t, 0.04, gap2.EntranceMean, 1e-12)
	assert.InDelta(t, 0.02, gap2.EntranceErr, 1e-12)
	assert.InDelta(t, 0.01, gap2.PureMean, 1e-12)
	assert.InDelta(t, 0.01, gap2.PureErr, 1e-12)
}

func TestReduceStatistics_ZeroNormalization(t *testing.T) {
	table := BuildLayerBoundaries(DefaultThickness())
	buckets := make(Buckets)
	buckets.add(absorber0Entrance, BucketEntry{Count: 1})

	for _, s := range ReduceStatistics(table, buckets, 0) {
		assert.Zero(t, s.EntranceMean)
		assert.Zero(t, s.EntranceErr)
	}
}
