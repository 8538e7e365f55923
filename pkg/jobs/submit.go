package jobs

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os/exec"
	"path/filepath"
	"strings"

	damsa "github.com/damsa-exp/damsa_go/pkg"
)

// Submitter hands a prepared job directory to the batch system.
type Submitter interface {
	Submit(ctx context.Context, dir string) error
}

// CondorSubmitter runs condor_submit condor.sub inside the job directory.
type CondorSubmitter struct {
	Command string
}

func (s CondorSubmitter) Submit(ctx context.Context, dir string) error {
	command := s.Command
	if command == "" {
		command = "condor_submit"
	}
	cmd := exec.CommandContext(ctx, command, "condor.sub")
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed in %s: %w: %s", command, dir, err, strings.TrimSpace(string(out)))
	}
	damsa.GetLogger().Info(strings.TrimSpace(string(out)), "jobs")
	return nil
}

// DryRunSubmitter only logs the directories it would submit.
type DryRunSubmitter struct{}

func (DryRunSubmitter) Submit(ctx context.Context, dir string) error {
	damsa.GetLogger().Info(fmt.Sprintf("dry run, not submitting %s", dir), "jobs")
	return nil
}

// Run prepares and submits every job of the scan in order. Relative Base and
// G4Exe paths are made absolute first, the batch system does not run from
// the current directory.
func Run(ctx context.Context, c ScanConfig, submitter Submitter, seed uint64) ([]Job, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	base, err := filepath.Abs(c.Base)
	if err != nil {
		return nil, err
	}
	c.Base = base
	if !filepath.IsAbs(c.G4Exe) {
		c.G4Exe = filepath.Join(base, c.G4Exe)
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	jobs := c.Jobs()
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			return jobs[:i], err
		}
		if err := Prepare(c, job, rng); err != nil {
			return jobs[:i], err
		}
		if err := submitter.Submit(ctx, job.Dir); err != nil {
			return jobs[:i], err
		}
	}
	return jobs, nil
}
