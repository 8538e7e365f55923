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
	limit := flag.Int("limit", 0, "Maximum number of files to read, overrides max_files")
	scan := flag.Bool("scan", false, "Only report the entries of every input tree")
	noPlots := flag.Bool("no-plots", false, "Do not write plots")
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

	if *scan {
		if err := scanInputs(flag.Args(), *limit); err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}
		return
	}

	result, err := analysis.Run(configuration, analysis.Options{
		GroupBy:   damsa.GroupByFile,
		Inputs:    flag.Args(),
		Limit:     *limit,
		NoPlots:   *noPlots,
		NewWriter: openResults,
	})
	if err != nil {
		message := fmt.Errorf("Error computing layer statistics: %w", err)
		logger.Error(message.Error())
		os.Exit(1)
	}

	if result.Files == 0 {
		logger.Error("No input file could be read")
		os.Exit(1)
	}

	message := fmt.Sprintf("Files read: %d, skipped: %d, normalization: %d",
		result.Files, result.FilesSkipped, result.Normalization)
	logger.Info(message, "main")
	for _, s := range result.Statistics {
		message := fmt.Sprintf("%-12s z=%7.3f cm  Entrance %.6f ± %.6f  Pure %.6f ± %.6f",
			s.Label(), s.Z, s.EntranceMean, s.EntranceErr, s.PureMean, s.PureErr)
		logger.Info(message, "statistics")
	}
}

// scanInputs reports trees that are missing or empty without aggregating.
func scanInputs(args []string, limit int) error {
	inputs := configuration.Inputs
	if len(args) > 0 {
		inputs = args
	}
	if limit <= 0 {
		limit = configuration.MaxFiles
	}
	files, err := damsa.ExpandInputs(inputs, limit)
	if err != nil {
		return err
	}

	invalid := 0
	for _, check := range damsa.ScanTrees(files, configuration.TreeName) {
		switch {
		case check.Err != nil:
			invalid++
			logger.Warn(fmt.Sprintf("%s: %v", check.Path, check.Err), "scan")
		case !check.Valid():
			invalid++
			logger.Warn(fmt.Sprintf("%s: tree %s is empty", check.Path, configuration.TreeName), "scan")
		case configuration.Verbosity > 1:
			logger.Info(fmt.Sprintf("%s: %d entries", check.Path, check.Entries), "scan")
		}
	}
	logger.Info(fmt.Sprintf("%d of %d files are usable", len(files)-invalid, len(files)), "scan")
	return nil
}

func openResults(filename string) (analysis.ResultsWriter, error) {
	w, err := h5.NewWriter(filename)
	if err != nil {
		return nil, err
	}
	return w, nil
}
