package analysis

import (
	"fmt"
	"io"
	"os"

	damsa "github.com/damsa-exp/damsa_go/pkg"
	"github.com/damsa-exp/damsa_go/pkg/catalog"
	"github.com/damsa-exp/damsa_go/pkg/plots"
)

// ResultsWriter persists the outcome of a run, e.g. h5.Writer.
type ResultsWriter interface {
	WriteBucket(bucket *damsa.Bucket) error
	WriteStatistics(stats []damsa.LayerStatistic) error
	WritePathStats(stats []damsa.PathStats) error
	WriteDeposits(points []damsa.DepositPoint) error
	Close() error
}

type Options struct {
	GroupBy damsa.GroupBy
	// Inputs replaces the configured input patterns when not empty.
	Inputs  []string
	Limit   int
	NoPlots bool
	Loader  damsa.FileLoader
	// NewWriter opens the results file when the configuration names one.
	NewWriter func(filename string) (ResultsWriter, error)
	Stdout    io.Writer
}

type Result struct {
	Table         damsa.LayerBoundaryTable
	Buckets       damsa.Buckets
	Statistics    []damsa.LayerStatistic
	PathStats     []damsa.PathStats
	Deposits      []damsa.DepositPoint
	Normalization int
	Files         int
	FilesSkipped  int
	Plots         []string
	RunID         int64
}

// OpenCatalog connects to the configured catalog backend.
func OpenCatalog(config damsa.Configuration) (*catalog.Catalog, error) {
	var c *catalog.Catalog
	var err error
	switch config.DBDriver {
	case "mysql":
		c, err = catalog.ConnectToDatabase(config.User, config.Passwd, config.Host, config.DBName)
	case "sqlite":
		c, err = catalog.OpenSQLite(config.DBPath)
	default:
		return nil, fmt.Errorf("unknown database driver %q", config.DBDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	c.Verbosity = config.Verbosity
	if err := c.CreateSchema(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Run aggregates the configured inputs and writes every enabled output.
// An invalid geometry stops the run before any file is read.
func Run(config damsa.Configuration, opts Options) (*Result, error) {
	logger := damsa.GetLogger()
	if opts.Loader == nil {
		opts.Loader = damsa.LoadROOTFile
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	var db *catalog.Catalog
	if !config.NoDB {
		var err error
		db, err = OpenCatalog(config)
		if err != nil {
			return nil, err
		}
		defer db.Close()
	}

	geometry := config.Geometry
	if db != nil && config.GeometryName != "" {
		var err error
		geometry, err = db.LoadGeometry(config.GeometryName)
		if err != nil {
			return nil, err
		}
	}
	table := damsa.BuildLayerBoundaries(geometry)
	if err := table.Validate(); err != nil {
		return nil, err
	}

	// Configured patterns group the consistency report. Files named on the
	// command line are grouped by their directory instead.
	inputs, origins := config.Inputs, config.Inputs
	if len(opts.Inputs) > 0 {
		inputs, origins = opts.Inputs, nil
	}
	limit := config.MaxFiles
	if opts.Limit > 0 {
		limit = opts.Limit
	}
	files, err := damsa.ExpandInputs(inputs, limit)
	if err != nil {
		return nil, err
	}
	if config.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Processing %d files grouped by %s", len(files), opts.GroupBy), "analysis")
	}

	classifier := damsa.NewClassifier(table, config.Classifier)
	schema := damsa.FileBatchedSchema(config.TreeName)
	if opts.GroupBy == damsa.GroupByEvent {
		schema = damsa.EventResolvedSchema(config.TreeName)
	}
	aggregator := damsa.NewAggregator(classifier, opts.GroupBy, opts.Loader, schema, origins)
	aggregator.ProcessFiles(files)

	n := aggregator.Normalization(config.NumFiles)
	if n == 0 {
		logger.Warn("normalization is zero, all means are reported as zero", "analysis")
	}
	result := &Result{
		Table:         table,
		Buckets:       aggregator.Buckets(),
		Statistics:    damsa.ReduceStatistics(table, aggregator.Buckets(), n),
		PathStats:     aggregator.PathStats(),
		Deposits:      aggregator.Deposits(),
		Normalization: n,
		Files:         aggregator.FilesProcessed,
		FilesSkipped:  aggregator.FilesSkipped,
	}

	if err := damsa.RenderConsistency(opts.Stdout, result.PathStats); err != nil {
		return result, err
	}

	if config.WritePlots && !opts.NoPlots {
		if err := writePlots(config, classifier, result); err != nil {
			return result, err
		}
	}

	if config.FileOut != "" && opts.NewWriter != nil {
		if err := writeResults(config.FileOut, opts.NewWriter, result); err != nil {
			return result, err
		}
	}

	if db != nil {
		run := catalog.RunSummary{
			Label:          config.RunLabel,
			Mode:           opts.GroupBy.String(),
			FilesProcessed: result.Files,
			FilesSkipped:   result.FilesSkipped,
			Normalization:  n,
		}
		result.RunID, err = db.SaveRun(run, result.Statistics, result.PathStats)
		if err != nil {
			return result, err
		}
		if config.Verbosity > 0 {
			logger.Info(fmt.Sprintf("Run saved with id %d", result.RunID), "analysis")
		}
	}
	return result, nil
}

func writePlots(config damsa.Configuration, classifier *damsa.Classifier, result *Result) error {
	if err := os.MkdirAll(config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}
	pl := plots.Plotter{Dir: config.OutputDir, Prefix: config.PlotPrefix}

	for _, bucket := range result.Buckets.Ordered(result.Table.NumLayers()) {
		files, err := pl.BucketPlots(bucket)
		result.Plots = append(result.Plots, files...)
		if err != nil {
			return err
		}
	}

	file, err := pl.Statistics(result.Statistics)
	if err != nil {
		return err
	}
	result.Plots = append(result.Plots, file)

	slices := damsa.SliceVolumes(result.Table, result.Deposits, classifier.LengthScale())
	files, err := pl.DepositMaps(result.Deposits, slices, classifier.LengthScale())
	result.Plots = append(result.Plots, files...)
	return err
}

func writeResults(filename string, open func(string) (ResultsWriter, error), result *Result) (err error) {
	w, err := open(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for _, bucket := range result.Buckets.Ordered(result.Table.NumLayers()) {
		if err := w.WriteBucket(bucket); err != nil {
			return err
		}
	}
	if err := w.WriteStatistics(result.Statistics); err != nil {
		return err
	}
	if err := w.WritePathStats(result.PathStats); err != nil {
		return err
	}
	return w.WriteDeposits(result.Deposits)
}
