package damsa

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
)

type GroupBy int

const (
	// GroupByFile counts siblings within a single file.
	GroupByFile GroupBy = iota
	// GroupByEvent counts siblings within one event of a file.
	GroupByEvent
)

func (g GroupBy) String() string {
	switch g {
	case GroupByFile:
		return "file"
	case GroupByEvent:
		return "event"
	default:
		return "unknown"
	}
}

// ProgressEvery is the number of files between progress messages.
const ProgressEvery = 100

type PathStats struct {
	Origin    string
	EnergySum float64
	Records   int
}

func (p PathStats) AverageEnergy() float64 {
	if p.Records == 0 {
		return 0
	}
	return p.EnergySum / float64(p.Records)
}

// Name is the top-level directory of the origin pattern.
func (p PathStats) Name() string {
	return topLevelDir(p.Origin)
}

type Aggregator struct {
	classifier *Classifier
	groupBy    GroupBy
	load       FileLoader
	schema     Schema
	origins    []string

	buckets   Buckets
	pathStats map[string]*PathStats
	deposits  []DepositPoint

	FilesProcessed int
	FilesSkipped   int
	Events         int
}

// NewAggregator builds an aggregator. origins are the input patterns used to
// group files for the consistency report; they may be empty.
func NewAggregator(classifier *Classifier, groupBy GroupBy, load FileLoader, schema Schema, origins []string) *Aggregator {
	a := &Aggregator{
		classifier: classifier,
		groupBy:    groupBy,
		load:       load,
		schema:     schema,
		buckets:    make(Buckets),
		pathStats:  make(map[string]*PathStats),
	}
	for _, origin := range origins {
		if _, ok := a.pathStats[origin]; ok {
			continue
		}
		a.origins = append(a.origins, origin)
		a.pathStats[origin] = &PathStats{Origin: origin}
	}
	return a
}

func (a *Aggregator) Buckets() Buckets {
	return a.buckets
}

func (a *Aggregator) Deposits() []DepositPoint {
	return a.deposits
}

// PathStats returns the per-origin sums in origin order. Files that matched no
// configured origin are reported after them.
func (a *Aggregator) PathStats() []PathStats {
	stats := make([]PathStats, 0, len(a.pathStats))
	seen := make(map[string]bool)
	for _, origin := range a.origins {
		stats = append(stats, *a.pathStats[origin])
		seen[origin] = true
	}
	var others []string
	for origin := range a.pathStats {
		if !seen[origin] {
			others = append(others, origin)
		}
	}
	slices.Sort(others)
	for _, origin := range others {
		stats = append(stats, *a.pathStats[origin])
	}
	return stats
}

// ProcessFiles runs ProcessFile over every path in order. A file that fails
// is logged and skipped.
func (a *Aggregator) ProcessFiles(paths []string) {
	for i, path := range paths {
		err := a.ProcessFile(path)
		if err != nil {
			message := fmt.Sprintf("skipping file %s: %v", path, err)
			logger.Warn(message, "aggregator")
		}
		if (i+1)%ProgressEvery == 0 || i+1 == len(paths) {
			message := fmt.Sprintf("Processed %d/%d files (%d skipped)", i+1, len(paths), a.FilesSkipped)
			logger.Info(message, "aggregator")
		}
	}
}

// ProcessFile classifies every record of a file. Nothing is merged unless the
// whole file was read.
func (a *Aggregator) ProcessFile(path string) error {
	records, err := a.load(path, a.schema)
	if err != nil {
		a.FilesSkipped++
		return err
	}

	local := make(map[groupKey][]BucketEntry)
	var order []groupKey
	events := make(map[int64]struct{})
	var energySum float64
	var deposits []DepositPoint

	for _, r := range records {
		energySum += r.Energy
		events[r.EventID] = struct{}{}
		if r.Deposit > 0 {
			deposits = append(deposits, DepositPoint{X: r.X, Y: r.Y, Z: r.Z, Deposit: r.Deposit})
		}

		keys := a.classifier.Classify(r)
		for _, key := range keys {
			gk := groupKey{key: key}
			if a.groupBy == GroupByEvent {
				gk.event = r.EventID
			}
			if _, ok := local[gk]; !ok {
				order = append(order, gk)
			}
			local[gk] = append(local[gk], BucketEntry{
				Energy:  r.Energy,
				Species: r.Species,
				X:       r.X / a.classifier.LengthScale(),
				Y:       r.Y / a.classifier.LengthScale(),
				Z:       r.Z,
			})
		}
	}

	for _, gk := range order {
		entries := local[gk]
		for i := range entries {
			entries[i].Count = len(entries)
		}
		a.buckets.add(gk.key, entries...)
	}

	origin := a.originOf(path)
	stats, ok := a.pathStats[origin]
	if !ok {
		stats = &PathStats{Origin: origin}
		a.pathStats[origin] = stats
	}
	stats.EnergySum += energySum
	stats.Records += len(records)

	a.deposits = append(a.deposits, deposits...)
	a.Events += len(events)
	a.FilesProcessed++
	return nil
}

// Normalization returns the denominator for the statistics: the distinct
// event count when grouping by event, otherwise numFiles when positive or
// the number of files read.
func (a *Aggregator) Normalization(numFiles int) int {
	if a.groupBy == GroupByEvent {
		return a.Events
	}
	if numFiles > 0 {
		return numFiles
	}
	return a.FilesProcessed
}

type groupKey struct {
	key   BucketKey
	event int64
}

func (a *Aggregator) originOf(path string) string {
	for _, origin := range a.origins {
		if strings.Contains(path, topLevelDir(origin)) {
			return origin
		}
	}
	if len(a.origins) > 0 {
		return a.origins[0]
	}
	return filepath.Dir(path)
}

func topLevelDir(pattern string) string {
	clean := strings.TrimPrefix(filepath.ToSlash(pattern), "/")
	if i := strings.Index(clean, "/"); i >= 0 {
		return clean[:i]
	}
	return clean
}
