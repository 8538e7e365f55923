package analysis

import (
	"fmt"
	"os"
	"path/filepath"

	damsa "github.com/damsa-exp/damsa_go/pkg"
	"github.com/damsa-exp/damsa_go/pkg/plots"
)

type ShowerOptions struct {
	// Datasets replaces the configured input patterns when not empty. Every
	// pattern, or directory of ROOT files, is one dataset.
	Datasets []string
	// Limit caps the files read per dataset.
	Limit   int
	NoPlots bool
	Loader  damsa.FileLoader
}

type ShowerResult struct {
	Summaries    []damsa.ShowerSummary
	FilesSkipped int
	Plots        []string
}

// DatasetLabel names a dataset after the directory holding its files.
func DatasetLabel(pattern string) string {
	if info, err := os.Stat(pattern); err == nil && info.IsDir() {
		return filepath.Base(filepath.Clean(pattern))
	}
	return filepath.Base(filepath.Dir(pattern))
}

// Shower reduces every dataset independently and overlays them in the plots.
// Datasets without a readable file are left out.
func Shower(config damsa.Configuration, opts ShowerOptions) (*ShowerResult, error) {
	logger := damsa.GetLogger()
	if opts.Loader == nil {
		opts.Loader = damsa.LoadROOTFile
	}
	datasets := config.Inputs
	if len(opts.Datasets) > 0 {
		datasets = opts.Datasets
	}
	limit := config.MaxFiles
	if opts.Limit > 0 {
		limit = opts.Limit
	}
	schema := damsa.ShowerSchema(config.TreeName)

	result := &ShowerResult{}
	for _, dataset := range datasets {
		pattern := dataset
		if info, err := os.Stat(dataset); err == nil && info.IsDir() {
			pattern = filepath.Join(dataset, "*.root")
		}
		files, err := damsa.ExpandInputs([]string{pattern}, limit)
		if err != nil {
			return result, err
		}

		label := DatasetLabel(dataset)
		shower := damsa.NewShowerAnalysis(config.Shower)
		for _, path := range files {
			records, err := opts.Loader(path, schema)
			if err != nil {
				result.FilesSkipped++
				logger.Warn(fmt.Sprintf("skipping file %s: %v", path, err), "shower")
				continue
			}
			shower.AddFile(records)
		}

		summary := shower.Summary(label)
		if summary.Files == 0 {
			logger.Warn(fmt.Sprintf("dataset %s has no valid %s tree", label, config.TreeName), "shower")
			continue
		}
		if config.Verbosity > 0 {
			message := fmt.Sprintf("Dataset %s: %d files, %d events with followed particles",
				label, summary.Files, summary.Events)
			logger.Info(message, "shower")
		}
		result.Summaries = append(result.Summaries, summary)
	}

	if config.WritePlots && !opts.NoPlots && len(result.Summaries) > 0 {
		if err := os.MkdirAll(config.OutputDir, 0o755); err != nil {
			return result, fmt.Errorf("could not create output directory: %w", err)
		}
		pl := plots.Plotter{Dir: config.OutputDir, Prefix: config.PlotPrefix}
		files, err := pl.ShowerPlots(result.Summaries, config.Shower.LengthStep)
		result.Plots = files
		if err != nil {
			return result, err
		}
	}
	return result, nil
}
