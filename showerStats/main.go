package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	damsa "github.com/damsa-exp/damsa_go/pkg"
	"github.com/damsa-exp/damsa_go/pkg/analysis"
)

var configuration damsa.Configuration

var logger damsa.SlogLogger

func init() {
	logger = damsa.NewSlogLogger(os.Stdout, os.Stderr, slog.LevelDebug)
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	limit := flag.Int("limit", 0, "Maximum number of files to read per dataset, overrides max_files")
	noPlots := flag.Bool("no-plots", false, "Do not write plots")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: showerStats [options] [dataset dir or pattern...]\noptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	var err error
	configuration, err = damsa.LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		os.Exit(1)
	}
	damsa.SetLogger(logger)

	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Reading configuration file: %s", *configFilename)
		logger.Info(message, "main")
		damsa.PrintConfiguration(configuration, logger)
	}

	result, err := analysis.Shower(configuration, analysis.ShowerOptions{
		Datasets: flag.Args(),
		Limit:    *limit,
		NoPlots:  *noPlots,
	})
	if err != nil {
		message := fmt.Errorf("Error computing shower statistics: %w", err)
		logger.Error(message.Error())
		os.Exit(1)
	}
	if len(result.Summaries) == 0 {
		logger.Error("No dataset could be read")
		os.Exit(1)
	}

	for _, s := range result.Summaries {
		message := fmt.Sprintf("%s: %d files, %d events with followed particles", s.Label, s.Files, s.Events)
		logger.Info(message, "shower")
		for _, c := range s.Species {
			message := fmt.Sprintf("%s: PDG %d count %d ± %.1f", s.Label, c.Species, c.Count, c.Err)
			logger.Info(message, "species")
		}
	}
}
