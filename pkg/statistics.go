package damsa

import (
	"fmt"
	"math"

	"golang.org/x/exp/slices"
)

type LayerStatistic struct {
	Kind          LayerKind
	Index         int
	Z             float64
	EntranceCount int
	EntranceMean  float64
	EntranceErr   float64
	PureCount     int
	PureMean      float64
	PureErr       float64
}

// PoissonMean returns count/n and sqrt(count)/n, or zeros when n is not positive.
func PoissonMean(count int, n int) (float64, float64) {
	if n <= 0 {
		return 0, 0
	}
	return float64(count) / float64(n), math.Sqrt(float64(count)) / float64(n)
}

// ReduceStatistics summarizes every layer of the table, sorted by Z.
func ReduceStatistics(table LayerBoundaryTable, buckets Buckets, n int) []LayerStatistic {
	stats := make([]LayerStatistic, 0, 2*table.NumLayers())
	for _, kind := range []LayerKind{Absorber, Gap} {
		for i, z := range table.planes(kind) {
			entrance := buckets.Size(BucketKey{Kind: kind, Index: i, Tier: Entrance})
			pure := buckets.Size(BucketKey{Kind: kind, Index: i, Tier: Pure})

			stat := LayerStatistic{
				Kind:          kind,
				Index:         i,
				Z:             z,
				EntranceCount: entrance,
				PureCount:     pure,
			}
			stat.EntranceMean, stat.EntranceErr = PoissonMean(entrance, n)
			stat.PureMean, stat.PureErr = PoissonMean(pure, n)
			stats = append(stats, stat)
		}
	}

	slices.SortStableFunc(stats, func(a, b LayerStatistic) int {
		switch {
		case a.Z < b.Z:
			return -1
		case a.Z > b.Z:
			return 1
		default:
			return 0
		}
	})
	return stats
}

// Label matches BucketKey labels without the tier suffix.
func (s LayerStatistic) Label() string {
	index := s.Index
	if s.Kind == Gap {
		index += GapLabelOffset
	}
	return fmt.Sprintf("%s_%d", s.Kind, index)
}
