package plots

import (
	"path/filepath"
	"testing"

	damsa "github.com/damsa-exp/damsa_go/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnergyEdges(t *testing.T) {
	edges := EnergyEdges([]float64{-3, 10, 1000}, 4)
	require.Len(t, edges, 5)
	assert.InDelta(t, 0.1, edges[0], 1e-9)
	assert.InDelta(t, 1000, edges[4], 1e-6)
	for i := 1; i < len(edges); i++ {
		assert.Less(t, edges[i-1], edges[i])
	}

	edges = EnergyEdges([]float64{5, 5}, 2)
	assert.InDelta(t, 4.5, edges[0], 1e-9)
	assert.InDelta(t, 5.5, edges[2], 1e-9)
}

func TestValueRange(t *testing.T) {
	lo, hi := valueRange([]float64{3, -1, 2})
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 3.0, hi)

	lo, hi = valueRange([]float64{-2, -2})
	assert.InDelta(t, -2.2, lo, 1e-12)
	assert.InDelta(t, -1.8, hi, 1e-12)

	lo, hi = valueRange([]float64{0})
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 1.0, hi)
}

func TestSpeciesName(t *testing.T) {
	assert.NotEqual(t, "PID 22", SpeciesName(22))
	assert.NotEmpty(t, SpeciesName(22))
	assert.NotContains(t, SpeciesName(11), "PID")
	assert.Equal(t, "PID 999999", SpeciesName(999999))
	assert.Equal(t, "PID 987654321", SpeciesName(987654321))
}

func TestBucketPlots(t *testing.T) {
	pl := Plotter{Dir: t.TempDir(), Prefix: "plot_"}

	files, err := pl.BucketPlots(&damsa.Bucket{Key: damsa.BucketKey{Kind: damsa.Gap, Index: 1, Tier: damsa.Pure}})
	require.NoError(t, err)
	assert.Empty(t, files)

	bucket := &damsa.Bucket{
		Key: damsa.BucketKey{Kind: damsa.Absorber, Index: 0, Tier: damsa.Entrance},
		Entries: []damsa.BucketEntry{
			{Count: 2, Energy: 150, Species: 22, X: 0.1, Y: 0.2, Z: 0},
			{Count: 2, Energy: 3, Species: 11, X: -0.5, Y: 1.0, Z: 0},
			{Count: 1, Energy: 0, Species: 2112, X: 0, Y: 0, Z: 0},
		},
	}
	files, err = pl.BucketPlots(bucket)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, filepath.Join(pl.Dir, "plot_Absorber_0_Entrance_scatter.png"), files[0])
	for _, f := range files {
		assert.FileExists(t, f)
	}
}

func TestBucketPlots_SingleEntry(t *testing.T) {
	pl := Plotter{Dir: t.TempDir()}
	bucket := &damsa.Bucket{
		Key:     damsa.BucketKey{Kind: damsa.Gap, Index: 0, Tier: damsa.Pure},
		Entries: []damsa.BucketEntry{{Count: 1, Energy: 42, Species: 13}},
	}
	files, err := pl.BucketPlots(bucket)
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestStatisticsAndDepositPlots(t *testing.T) {
	pl := Plotter{Dir: t.TempDir(), Prefix: "run_"}
	table := damsa.BuildLayerBoundaries(damsa.DefaultThickness())

	stats := damsa.ReduceStatistics(table, damsa.Buckets{}, 10)
	stats[0].EntranceMean, stats[0].EntranceErr = 0.4, 0.2
	stats[1].PureMean, stats[1].PureErr = 0.1, 0.1
	file, err := pl.Statistics(stats)
	require.NoError(t, err)
	assert.FileExists(t, file)

	points := []damsa.DepositPoint{
		{X: 1, Y: 2, Z: 5, Deposit: 0.5},
		{X: -3, Y: 0, Z: 8, Deposit: 1.5},
		{X: 2, Y: 1, Z: 35, Deposit: 0.2},
	}
	slices := damsa.SliceVolumes(table, points, damsa.DefaultLengthScale)
	files, err := pl.DepositMaps(points, slices, damsa.DefaultLengthScale)
	require.NoError(t, err)
	assert.Len(t, files, 1+2*len(slices))
	for _, f := range files {
		assert.FileExists(t, f)
	}
}

func TestShowerPlots(t *testing.T) {
	pl := Plotter{Dir: t.TempDir(), Prefix: "cmp_"}
	cfg := damsa.ShowerConfig{Species: []int{11}, ZMax: 40, ZStep: 10, LengthStep: 10}

	first := damsa.NewShowerAnalysis(cfg)
	first.AddFile([]damsa.ParticleRecord{
		{EventID: 1, Species: 11, X: 3, Y: 4, Z: 5, Energy: 1},
		{EventID: 1, Species: -11, X: 0, Y: 1, Z: 18, Energy: 3},
		{EventID: 1, Species: 22, Z: 2, Energy: 40},
	})
	second := damsa.NewShowerAnalysis(cfg)
	second.AddFile([]damsa.ParticleRecord{{EventID: 4, Species: 2112, Z: 30, Energy: 1}})

	files, err := pl.ShowerPlots([]damsa.ShowerSummary{first.Summary("3T"), second.Summary("5T")}, cfg.LengthStep)
	require.NoError(t, err)
	require.Len(t, files, 6)
	assert.Equal(t, filepath.Join(pl.Dir, "cmp_shower_species.png"), files[0])
	for _, f := range files {
		assert.FileExists(t, f)
	}

	files, err = pl.ShowerPlots(nil, cfg.LengthStep)
	require.NoError(t, err)
	assert.Empty(t, files)
}
