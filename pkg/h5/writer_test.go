//go:build cgo

package h5

import (
	"path/filepath"
	"testing"

	damsa "github.com/damsa-exp/damsa_go/pkg"
	"github.com/jmbenlloch/go-hdf5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readTable[T any](t *testing.T, f *hdf5.File, group, name string) []T {
	t.Helper()
	g, err := f.OpenGroup(group)
	require.NoError(t, err)
	defer g.Close()
	dset, err := g.OpenDataset(name)
	require.NoError(t, err)
	defer dset.Close()

	space := dset.Space()
	defer space.Close()
	rows := make([]T, space.SimpleExtentNPoints())
	if len(rows) > 0 {
		require.NoError(t, dset.Read(&rows))
	}
	return rows
}

func TestWriter(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "results.h5")
	w, err := NewWriter(filename)
	require.NoError(t, err)

	key := damsa.BucketKey{Kind: damsa.Gap, Index: 1, Tier: damsa.Pure}
	bucket := &damsa.Bucket{Key: key, Entries: []damsa.BucketEntry{
		{Count: 2, Energy: 10.5, Species: 11, X: 0.1, Y: -0.2, Z: 27},
		{Count: 2, Energy: 3, Species: -11, X: 1, Y: 2, Z: 27},
	}}
	require.NoError(t, w.WriteBucket(bucket))
	require.NoError(t, w.WriteBucket(bucket))

	stats := []damsa.LayerStatistic{
		{Kind: damsa.Absorber, Index: 0, Z: 0, EntranceCount: 4, EntranceMean: 0.04, EntranceErr: 0.02},
		{Kind: damsa.Gap, Index: 0, Z: 2, PureCount: 1, PureMean: 0.01, PureErr: 0.01},
	}
	require.NoError(t, w.WriteStatistics(stats))
	require.NoError(t, w.WritePathStats([]damsa.PathStats{{Origin: "batch_330/*.root", EnergySum: 9, Records: 3}}))
	require.NoError(t, w.WriteDeposits(nil))
	require.NoError(t, w.WriteDeposits([]damsa.DepositPoint{{X: 1, Y: 2, Z: 3, Deposit: 0.5}}))
	require.NoError(t, w.Close())

	f, err := hdf5.OpenFile(filename, hdf5.F_ACC_RDONLY)
	require.NoError(t, err)
	defer f.Close()

	entries := readTable[BucketEntryHDF5](t, f, "Buckets", key.String())
	require.Len(t, entries, 4)
	assert.Equal(t, BucketEntryHDF5{count: 2, energy: 10.5, species: 11, x: 0.1, y: -0.2, z: 27}, entries[0])
	assert.Equal(t, int32(-11), entries[3].species)

	layers := readTable[LayerStatisticHDF5](t, f, "Statistics", "layers")
	require.Len(t, layers, 2)
	assert.Equal(t, convertToHdf5String(stats[0].Label()), layers[0].label)
	assert.Equal(t, int32(4), layers[0].entranceCount)
	assert.InDelta(t, 0.02, layers[0].entranceErr, 1e-12)
	assert.InDelta(t, 0.01, layers[1].pureMean, 1e-12)

	paths := readTable[PathStatsHDF5](t, f, "Consistency", "paths")
	require.Len(t, paths, 1)
	assert.Equal(t, convertToHdf5Path("batch_330"), paths[0].path)
	assert.InDelta(t, 3.0, paths[0].avgEnergy, 1e-12)
	assert.Equal(t, int32(3), paths[0].count)

	deposits := readTable[DepositHDF5](t, f, "Deposits", "points")
	assert.Equal(t, []DepositHDF5{{x: 1, y: 2, z: 3, deposit: 0.5}}, deposits)
}

func TestConvertToHdf5String(t *testing.T) {
	s := convertToHdf5String("Absorber_0_Entrance_and_more")
	assert.Equal(t, "Absorber_0_Entrance_", string(s[:]))

	p := convertToHdf5Path("batch_330")
	assert.Equal(t, byte(0), p[len("batch_330")])
}
