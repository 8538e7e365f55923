package damsa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketKeyLabels(t *testing.T) {
	assert.Equal(t, "Absorber_3_Pure", BucketKey{Kind: Absorber, Index: 3, Tier: Pure}.String())
	assert.Equal(t, "Gap_100_Entrance", BucketKey{Kind: Gap, Index: 0, Tier: Entrance}.String())

	for _, key := range AllBucketKeys(6) {
		parsed, err := ParseBucketKey(key.String())
		require.NoError(t, err)
		assert.Equal(t, key, parsed)
	}
}

func TestParseBucketKey_Invalid(t *testing.T) {
	for _, label := range []string{"", "Absorber_0", "Wall_0_Pure", "Gap_x_Pure", "Gap_5_Pure", "Absorber_0_Dirty"} {
		_, err := ParseBucketKey(label)
		assert.Error(t, err, label)
	}
}

func TestAllBucketKeys_Order(t *testing.T) {
	keys := AllBucketKeys(2)
	require.Len(t, keys, 8)
	assert.Equal(t, BucketKey{Kind: Absorber, Index: 0, Tier: Entrance}, keys[0])
	assert.Equal(t, BucketKey{Kind: Absorber, Index: 0, Tier: Pure}, keys[1])
	assert.Equal(t, BucketKey{Kind: Gap, Index: 1, Tier: Pure}, keys[7])
}

func TestBucketsOrdered(t *testing.T) {
	buckets := make(Buckets)
	buckets.add(BucketKey{Kind: Gap, Index: 0, Tier: Pure}, BucketEntry{})
	buckets.add(absorber0Entrance, BucketEntry{}, BucketEntry{})

	ordered := buckets.Ordered(6)
	require.Len(t, ordered, 2)
	assert.Equal(t, absorber0Entrance, ordered[0].Key)
	assert.Equal(t, 2, buckets.Size(absorber0Entrance))
	assert.Equal(t, 0, buckets.Size(absorber0Pure))
}
