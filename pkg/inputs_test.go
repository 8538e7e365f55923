package damsa

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b", "2.root"))
	touch(t, filepath.Join(dir, "b", "1.root"))
	touch(t, filepath.Join(dir, "a", "9.root"))
	touch(t, filepath.Join(dir, "a", "notes.txt"))

	patterns := []string{filepath.Join(dir, "b", "*.root"), filepath.Join(dir, "a", "*.root")}

	files, err := ExpandInputs(patterns, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "b", "1.root"),
		filepath.Join(dir, "b", "2.root"),
		filepath.Join(dir, "a", "9.root"),
	}, files)

	files, err = ExpandInputs(patterns, 2)
	require.NoError(t, err)
	assert.Len(t, files, 2)

	_, err = ExpandInputs([]string{"[bad"}, 0)
	assert.Error(t, err)
}

func TestExpandInputs_NoMatches(t *testing.T) {
	l := &recordingLogger{}
	SetLogger(l)
	defer SetLogger(nil)

	dir := t.TempDir()
	touch(t, filepath.Join(dir, "run.root"))
	missing := filepath.Join(dir, "typo", "run.root")

	files, err := ExpandInputs([]string{missing, filepath.Join(dir, "*.root")}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "run.root")}, files)
	require.Len(t, l.warns, 1)
	assert.Contains(t, l.warns[0], missing)
}

func TestSliceVolumes(t *testing.T) {
	table := BuildLayerBoundaries(DefaultThickness())
	points := []DepositPoint{
		{Z: 5, Deposit: 1},    // 0.5 cm, absorber 0
		{Z: 20, Deposit: 2},   // exactly on gap 0 entrance
		{Z: 26.9, Deposit: 3}, // before absorber 1
		{Z: 500, Deposit: 4},  // behind the stack
	}

	slices := SliceVolumes(table, points, DefaultLengthScale)

	require.Len(t, slices, 2)
	assert.Equal(t, 0, slices[0].Index)
	assert.Equal(t, []DepositPoint{{Z: 5, Deposit: 1}}, slices[0].Points)
	assert.Equal(t, 1, slices[1].Index)
	assert.InDelta(t, 2.0, slices[1].ZMin, 1e-12)
	assert.InDelta(t, 2.7, slices[1].ZMax, 1e-12)
	assert.Len(t, slices[1].Points, 2)
}

func TestRenderConsistency(t *testing.T) {
	var buf bytes.Buffer
	err := RenderConsistency(&buf, []PathStats{
		{Origin: "batch_330_CsIFull/eBeam/*.root", EnergySum: 10, Records: 4},
		{Origin: "batch_660_CsIFull/eBeam/*.root"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Avg E per Part")
	assert.Contains(t, out, "batch_330_CsIFull")
	assert.Contains(t, out, "2.500000")
	assert.Contains(t, out, "0.000000")
}
