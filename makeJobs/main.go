package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	damsa "github.com/damsa-exp/damsa_go/pkg"
	"github.com/damsa-exp/damsa_go/pkg/jobs"
	"github.com/spf13/pflag"
)

func main() {
	defaults := jobs.DefaultScanConfig()

	energies := pflag.StringSliceP("energies", "e", defaults.Energies, "Photon energies in GeV")
	thickness := pflag.StringSliceP("thickness", "t", defaults.Thicknesses, "Absorber thicknesses in mm")
	layers := pflag.StringSliceP("layers", "l", defaults.Layers, "Number of layers, one per thickness")
	materials := pflag.StringSliceP("materials", "m", defaults.Materials, "Absorber materials")
	events := pflag.Int("events", defaults.Events, "Events per job (/run/beamOn)")
	threads := pflag.Int("threads", defaults.Threads, "Geant4 threads and requested CPUs per job")
	mode := pflag.String("mode", string(defaults.Mode), "Submission mode: shell or direct")
	g4Exe := pflag.String("g4-exe", defaults.G4Exe, "Geant4 executable, relative paths are resolved against --base")
	base := pflag.String("base", defaults.Base, "Directory holding the batch/ tree")
	dryRun := pflag.Bool("dry-run", false, "Write the job files without calling condor_submit")
	verbosity := pflag.IntP("verbosity", "v", 1, "Verbosity level")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: makeJobs [options]\n\nPrepares and submits DAMSA photon scan jobs.\n\nOptions:\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	logger := damsa.NewSlogLogger(os.Stdout, os.Stderr, slog.LevelDebug)
	damsa.SetLogger(logger)

	config := defaults
	config.Energies = *energies
	config.Thicknesses = *thickness
	config.Layers = *layers
	config.Materials = *materials
	config.Events = *events
	config.Threads = *threads
	config.Mode = jobs.Mode(*mode)
	config.G4Exe = *g4Exe
	config.Base = *base
	config.Verbosity = *verbosity

	var submitter jobs.Submitter = jobs.CondorSubmitter{}
	if *dryRun {
		submitter = jobs.DryRunSubmitter{}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	prepared, err := jobs.Run(ctx, config, submitter, uint64(time.Now().UnixNano()))
	if err != nil {
		message := fmt.Errorf("Error preparing jobs (%d submitted): %w", len(prepared), err)
		logger.Error(message.Error())
		os.Exit(1)
	}
	logger.Info(fmt.Sprintf("%d jobs submitted", len(prepared)), "main")
}
