package jobs

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSubmitter struct {
	dirs []string
	err  error
}

func (r *recordingSubmitter) Submit(ctx context.Context, dir string) error {
	r.dirs = append(r.dirs, dir)
	return r.err
}

func smallScan(base string) ScanConfig {
	c := DefaultScanConfig()
	c.Base = base
	c.Energies = []string{"1", "2"}
	c.Thicknesses = []string{"3", "10"}
	c.Layers = []string{"60", "20"}
	c.Materials = []string{"G4_W"}
	return c
}

func TestJobsExpansion(t *testing.T) {
	jobs := smallScan("/data").Jobs()

	require.Len(t, jobs, 4)
	assert.Equal(t, "photon_1_GeV_G4_WT_AT_3_GT_10T", jobs[0].BatchName)
	assert.Equal(t, "60", jobs[0].Layers)
	assert.Equal(t, "20", jobs[1].Layers)
	assert.Equal(t, filepath.Join("/data", "batch", "photon_2_GeV_G4_WT_AT_10_GT_10T"), jobs[3].Dir)
	assert.Equal(t, "DAMSA_photon_2_GeV", jobs[3].Name)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultScanConfig().Validate())

	c := DefaultScanConfig()
	c.Layers = c.Layers[:1]
	c.Mode = "batch"
	err := c.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "layer counts")
	assert.ErrorContains(t, err, "unknown mode")
}

func TestPrepare_ShellMode(t *testing.T) {
	c := smallScan(t.TempDir())
	c.G4Exe = "/opt/g4/ALPGun"
	job := c.Jobs()[0]

	require.NoError(t, Prepare(c, job, rand.New(rand.NewPCG(1, 2))))

	macro, err := os.ReadFile(filepath.Join(job.Dir, job.Name+".mac"))
	require.NoError(t, err)
	lines := strings.Split(string(macro), "\n")
	assert.Len(t, strings.Fields(lines[0]), 1+NumSeeds)
	assert.Contains(t, string(macro), "/detector/absorberLength 3 mm")
	assert.Contains(t, string(macro), "/detector/numLayers 60")
	assert.Contains(t, string(macro), "/gun/energy 1 GeV")
	assert.Contains(t, string(macro), "/run/beamOn 10000")

	info, err := os.Stat(filepath.Join(job.Dir, job.Name+".sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	sub, err := os.ReadFile(filepath.Join(job.Dir, "condor.sub"))
	require.NoError(t, err)
	assert.Contains(t, string(sub), "executable              = $(filename)")
	assert.Contains(t, string(sub), `+JobBatchName = "photon_1_GeV_G4_WT_AT_3_GT_10T"`)
	assert.Contains(t, string(sub), "queue filename matching DAMSA_*.sh")
	assert.NoDirExists(t, filepath.Join(job.Dir, "log"))
}

func TestPrepare_DirectMode(t *testing.T) {
	c := smallScan(t.TempDir())
	c.Mode = ModeDirect
	c.Threads = 10
	c.G4Exe = "/opt/g4/ALPGun"
	job := c.Jobs()[0]

	require.NoError(t, Prepare(c, job, rand.New(rand.NewPCG(1, 2))))

	assert.DirExists(t, filepath.Join(job.Dir, "log"))
	assert.NoFileExists(t, filepath.Join(job.Dir, job.Name+".sh"))
	sub, err := os.ReadFile(filepath.Join(job.Dir, "condor.sub"))
	require.NoError(t, err)
	assert.Contains(t, string(sub), "executable              = /opt/g4/ALPGun")
	assert.Contains(t, string(sub), "RequestCpus             = 10")
	assert.Contains(t, string(sub), "output                  = log/$(filename)_$(Process).out")
	assert.Contains(t, string(sub), "queue filename matching DAMSA_*.mac")
}

func TestRun(t *testing.T) {
	base := t.TempDir()
	submitter := &recordingSubmitter{}

	jobs, err := Run(context.Background(), smallScan(base), submitter, 7)
	require.NoError(t, err)
	require.Len(t, jobs, 4)
	require.Len(t, submitter.dirs, 4)
	assert.Equal(t, jobs[2].Dir, submitter.dirs[2])

	script, err := os.ReadFile(filepath.Join(jobs[0].Dir, jobs[0].Name+".sh"))
	require.NoError(t, err)
	assert.Contains(t, string(script), filepath.Join(base, "ALPGun")+" DAMSA_photon_1_GeV.mac")
	assert.Contains(t, string(script), "cd "+jobs[0].Dir)
}

func TestRun_StopsOnSubmitError(t *testing.T) {
	submitter := &recordingSubmitter{err: errors.New("schedd unreachable")}

	jobs, err := Run(context.Background(), smallScan(t.TempDir()), submitter, 7)
	assert.ErrorContains(t, err, "schedd unreachable")
	assert.Empty(t, jobs)
	assert.Len(t, submitter.dirs, 1)
}

func TestDryRunSubmitter(t *testing.T) {
	assert.NoError(t, DryRunSubmitter{}.Submit(context.Background(), "/nowhere"))
}
