package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	damsa "github.com/damsa-exp/damsa_go/pkg"
	"github.com/damsa-exp/damsa_go/pkg/analysis"
	"github.com/damsa-exp/damsa_go/pkg/h5"
)

var configuration damsa.Configuration

var logger damsa.SlogLogger

func init() {
	logger = damsa.NewSlogLogger(os.Stdout, os.Stderr, slog.LevelDebug)
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	noPlots := flag.Bool("no-plots", false, "Do not write plots")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: eventStats [options] <file.root>\noptions:\n")
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

	// a single file given on the command line wins over the configured inputs
	var inputs []string
	if flag.NArg() > 0 {
		inputs = flag.Args()[:1]
	} else if len(configuration.Inputs) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Reading configuration file: %s", *configFilename)
		logger.Info(message, "main")
		damsa.PrintConfiguration(configuration, logger)
	}

	result, err := analysis.Run(configuration, analysis.Options{
		GroupBy:   damsa.GroupByEvent,
		Inputs:    inputs,
		NoPlots:   *noPlots,
		NewWriter: openResults,
	})
	if err != nil {
		message := fmt.Errorf("Error computing event statistics: %w", err)
		logger.Error(message.Error())
		os.Exit(1)
	}

	if result.Files == 0 {
		logger.Error("No input file could be read")
		os.Exit(1)
	}

	message := fmt.Sprintf("Files read: %d, skipped: %d, events: %d",
		result.Files, result.FilesSkipped, result.Normalization)
	logger.Info(message, "main")
	for _, s := range result.Statistics {
		message := fmt.Sprintf("%-12s z=%7.3f cm  Entrance %d (%.6f/event)  Pure %d (%.6f/event)",
			s.Label(), s.Z, s.EntranceCount, s.EntranceMean, s.PureCount, s.PureMean)
		logger.Info(message, "statistics")
	}
}

func openResults(filename string) (analysis.ResultsWriter, error) {
	w, err := h5.NewWriter(filename)
	if err != nil {
		return nil, err
	}
	return w, nil
}
