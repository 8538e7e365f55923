package jobs

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	damsa "github.com/damsa-exp/damsa_go/pkg"
)

type Mode string

const (
	// ModeShell wraps every macro in a shell script that condor executes.
	ModeShell Mode = "shell"
	// ModeDirect runs the Geant4 executable with the macro as argument.
	ModeDirect Mode = "direct"
)

const (
	NumSeeds   = 11
	FilePrefix = "DAMSA_"
	SeedRange  = 1000000
)

// ScanConfig describes a photon scan. Thicknesses and Layers are paired by
// position.
type ScanConfig struct {
	Energies        []string
	Thicknesses     []string
	Layers          []string
	Materials       []string
	Events          int
	Threads         int
	Mode            Mode
	G4Exe           string
	Base            string
	EnvSetup        string
	GapLength       string
	TargetLength    string
	RequestMemory   int
	AccountingGroup string
	Verbosity       int
}

func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Energies:        []string{"1", "2", "3", "4", "5"},
		Thicknesses:     []string{"3", "5", "10"},
		Layers:          []string{"60", "40", "20"},
		Materials:       []string{"G4_Cu", "G4_W", "G4_Pb"},
		Events:          10000,
		Threads:         1,
		Mode:            ModeShell,
		G4Exe:           "ALPGun",
		Base:            ".",
		EnvSetup:        "/cvmfs/sft.cern.ch/lcg/views/LCG_106/x86_64-el9-gcc13-dbg/setup.sh",
		GapLength:       "10",
		TargetLength:    "20",
		RequestMemory:   15360,
		AccountingGroup: "group_cms",
	}
}

func (c ScanConfig) Validate() error {
	var errs []error
	if len(c.Thicknesses) != len(c.Layers) {
		errs = append(errs, fmt.Errorf("got %d thicknesses and %d layer counts", len(c.Thicknesses), len(c.Layers)))
	}
	if len(c.Energies) == 0 || len(c.Thicknesses) == 0 || len(c.Materials) == 0 {
		errs = append(errs, errors.New("energies, thicknesses and materials must not be empty"))
	}
	if c.Mode != ModeShell && c.Mode != ModeDirect {
		errs = append(errs, fmt.Errorf("unknown mode %q", c.Mode))
	}
	if c.Events <= 0 {
		errs = append(errs, fmt.Errorf("events must be positive, got %d", c.Events))
	}
	if c.Threads <= 0 {
		errs = append(errs, fmt.Errorf("threads must be positive, got %d", c.Threads))
	}
	return errors.Join(errs...)
}

// Job is one point of the scan and the directory it runs in.
type Job struct {
	Energy    string
	Thickness string
	Layers    string
	Material  string
	BatchName string
	Dir       string
	Name      string
}

// Jobs expands the scan in energy, thickness, material order.
func (c ScanConfig) Jobs() []Job {
	var jobs []Job
	for _, energy := range c.Energies {
		for i, thickness := range c.Thicknesses {
			for _, material := range c.Materials {
				batch := fmt.Sprintf("photon_%s_GeV_%sT_AT_%s_GT_10T", energy, material, thickness)
				jobs = append(jobs, Job{
					Energy:    energy,
					Thickness: thickness,
					Layers:    c.Layers[i],
					Material:  material,
					BatchName: batch,
					Dir:       filepath.Join(c.Base, "batch", batch),
					Name:      fmt.Sprintf("%sphoton_%s_GeV", FilePrefix, energy),
				})
			}
		}
	}
	return jobs
}

type jobFile struct {
	name string
	tmpl *template.Template
	perm os.FileMode
}

type templateData struct {
	ScanConfig
	Job        Job
	Seeds      []int
	FilePrefix string
}

// Prepare writes the macro, the shell wrapper in shell mode and condor.sub
// into the job directory.
func Prepare(c ScanConfig, job Job, rng *rand.Rand) error {
	if err := os.MkdirAll(job.Dir, 0o755); err != nil {
		return fmt.Errorf("could not create %s: %w", job.Dir, err)
	}
	if c.Mode == ModeDirect {
		if err := os.MkdirAll(filepath.Join(job.Dir, "log"), 0o755); err != nil {
			return fmt.Errorf("could not create log directory in %s: %w", job.Dir, err)
		}
	}

	seeds := make([]int, NumSeeds)
	for i := range seeds {
		seeds[i] = rng.IntN(SeedRange)
	}
	data := templateData{ScanConfig: c, Job: job, Seeds: seeds, FilePrefix: FilePrefix}

	files := []jobFile{
		{job.Name + ".mac", macroTemplate, 0o644},
		{"condor.sub", condorTemplate, 0o644},
	}
	if c.Mode == ModeShell {
		files = append(files, jobFile{job.Name + ".sh", shellTemplate, 0o755})
	}

	for _, f := range files {
		var b strings.Builder
		if err := f.tmpl.Execute(&b, data); err != nil {
			return fmt.Errorf("could not render %s: %w", f.name, err)
		}
		path := filepath.Join(job.Dir, f.name)
		if err := os.WriteFile(path, []byte(b.String()), f.perm); err != nil {
			return fmt.Errorf("could not write %s: %w", path, err)
		}
		// WriteFile keeps the mode of existing files
		if err := os.Chmod(path, f.perm); err != nil {
			return err
		}
	}
	if c.Verbosity > 0 {
		damsa.GetLogger().Info(fmt.Sprintf("Prepared %s", job.Dir), "jobs")
	}
	return nil
}
