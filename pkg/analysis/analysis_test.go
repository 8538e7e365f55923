package analysis

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	damsa "github.com/damsa-exp/damsa_go/pkg"
	"github.com/damsa-exp/damsa_go/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	records map[string][]damsa.ParticleRecord
	calls   int
}

func (f *fakeLoader) load(path string, schema damsa.Schema) ([]damsa.ParticleRecord, error) {
	f.calls++
	records, ok := f.records[filepath.Base(path)]
	if !ok {
		return nil, &damsa.ErrOpenFile{Filename: path, Err: errors.New("corrupt")}
	}
	return records, nil
}

type fakeWriter struct {
	buckets  int
	stats    int
	paths    int
	deposits int
	closed   bool
}

func (w *fakeWriter) WriteBucket(b *damsa.Bucket) error { w.buckets++; return nil }
func (w *fakeWriter) WriteStatistics(s []damsa.LayerStatistic) error { w.stats = len(s); return nil }
func (w *fakeWriter) WritePathStats(p []damsa.PathStats) error { w.paths = len(p); return nil }
func (w *fakeWriter) WriteDeposits(points []damsa.DepositPoint) error { w.deposits = len(points); return nil }
func (w *fakeWriter) Close() error { w.closed = true; return nil }

func setupInputs(t *testing.T) (string, *fakeLoader) {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"a.root", "b.root", "broken.root"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	photon := damsa.ParticleRecord{Species: 22, Energy: 10, Z: 0, Pz: 1}
	electron := damsa.ParticleRecord{Species: 11, Energy: 2, Z: 20, Pz: 1}
	deposit := damsa.ParticleRecord{Species: 11, Energy: 1, Z: 5, Deposit: 0.3}
	loader := &fakeLoader{records: map[string][]damsa.ParticleRecord{
		"a.root": {photon, electron, deposit},
		"b.root": {photon},
	}}
	return dir, loader
}

func baseConfiguration(dir string) damsa.Configuration {
	config := damsa.DefaultConfiguration()
	config.Inputs = []string{filepath.Join(dir, "*.root")}
	config.WritePlots = false
	config.OutputDir = dir
	return config
}

func TestRun_FileMode(t *testing.T) {
	dir, loader := setupInputs(t)
	config := baseConfiguration(dir)
	writer := &fakeWriter{}
	config.FileOut = filepath.Join(dir, "results.h5")
	var out bytes.Buffer

	result, err := Run(config, Options{
		GroupBy:   damsa.GroupByFile,
		Loader:    loader.load,
		Stdout:    &out,
		NewWriter: func(string) (ResultsWriter, error) { return writer, nil },
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Files)
	assert.Equal(t, 1, result.FilesSkipped)
	assert.Equal(t, 2, result.Normalization)
	assert.Equal(t, 2, result.Buckets.Size(damsa.BucketKey{Kind: damsa.Absorber, Index: 0, Tier: damsa.Entrance}))
	assert.Equal(t, 1, result.Buckets.Size(damsa.BucketKey{Kind: damsa.Gap, Index: 0, Tier: damsa.Pure}))
	assert.Len(t, result.Statistics, 12)
	assert.InDelta(t, 1.0, result.Statistics[0].EntranceMean, 1e-12)
	assert.Len(t, result.Deposits, 1)
	assert.Contains(t, out.String(), "Total Count")

	assert.True(t, writer.closed)
	assert.Equal(t, 12, writer.stats)
	assert.Equal(t, 1, writer.deposits)
	assert.Equal(t, len(result.Buckets), writer.buckets)
}

func TestRun_CommandLineFilesGroupedByDirectory(t *testing.T) {
	dir, loader := setupInputs(t)
	config := baseConfiguration(dir)
	loader.records["c.root"] = []damsa.ParticleRecord{{Species: 22, Energy: 4, Z: 0, Pz: 1}}

	first := filepath.Join(dir, "batch_330")
	second := filepath.Join(dir, "batch_660")
	require.NoError(t, os.MkdirAll(first, 0o755))
	require.NoError(t, os.MkdirAll(second, 0o755))
	files := []string{
		filepath.Join(first, "a.root"),
		filepath.Join(first, "b.root"),
		filepath.Join(second, "c.root"),
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(f, nil, 0o644))
	}

	result, err := Run(config, Options{Inputs: files, Loader: loader.load, Stdout: &bytes.Buffer{}})
	require.NoError(t, err)

	require.Len(t, result.PathStats, 2)
	assert.Equal(t, first, result.PathStats[0].Origin)
	assert.Equal(t, 4, result.PathStats[0].Records)
	assert.Equal(t, second, result.PathStats[1].Origin)
	assert.Equal(t, 1, result.PathStats[1].Records)
}

func TestRun_InvalidGeometryReadsNothing(t *testing.T) {
	dir, loader := setupInputs(t)
	config := baseConfiguration(dir)
	config.Geometry.Absorber = -1

	_, err := Run(config, Options{Loader: loader.load, Stdout: &bytes.Buffer{}})

	var geomErr *damsa.ErrInvalidGeometry
	assert.ErrorAs(t, err, &geomErr)
	assert.Zero(t, loader.calls)
}

func TestRun_WithCatalog(t *testing.T) {
	dir, loader := setupInputs(t)
	config := baseConfiguration(dir)
	config.NoDB = false
	config.DBDriver = "sqlite"
	config.DBPath = filepath.Join(dir, "catalog.db")
	config.GeometryName = "four_layers"
	config.RunLabel = "test"

	thick := damsa.DefaultThickness()
	thick.NumLayers = 4
	db, err := catalog.OpenSQLite(config.DBPath)
	require.NoError(t, err)
	require.NoError(t, db.CreateSchema())
	require.NoError(t, db.SaveGeometry("four_layers", thick))
	require.NoError(t, db.Close())

	result, err := Run(config, Options{GroupBy: damsa.GroupByEvent, Loader: loader.load, Stdout: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Table.NumLayers())
	assert.Positive(t, result.RunID)

	db, err = catalog.OpenSQLite(config.DBPath)
	require.NoError(t, err)
	defer db.Close()
	stats, err := db.LoadStatistics(result.RunID)
	require.NoError(t, err)
	assert.Len(t, stats, 8)
}

func TestRun_UnknownDriver(t *testing.T) {
	dir, loader := setupInputs(t)
	config := baseConfiguration(dir)
	config.NoDB = false
	config.DBDriver = "postgres"

	_, err := Run(config, Options{Loader: loader.load})
	assert.ErrorContains(t, err, "unknown database driver")
}
