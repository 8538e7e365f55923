package h5

import (
	"errors"
	"fmt"

	damsa "github.com/damsa-exp/damsa_go/pkg"
	"github.com/jmbenlloch/go-hdf5"
)

const DefaultCompression = 4

type Writer struct {
	File             *hdf5.File
	Filename         string
	Compression      int
	BucketsGroup     *hdf5.Group
	StatisticsGroup  *hdf5.Group
	ConsistencyGroup *hdf5.Group
	DepositsGroup    *hdf5.Group
	BucketTables     map[damsa.BucketKey]*table
	StatisticsTable  *table
	PathStatsTable   *table
	DepositsTable    *table
}

func NewWriter(filename string) (*Writer, error) {
	writer := &Writer{
		Filename:     filename,
		Compression:  DefaultCompression,
		BucketTables: make(map[damsa.BucketKey]*table),
	}

	var err error
	writer.File, err = openFile(filename)
	if err != nil {
		return nil, err
	}
	groups := []struct {
		dst  **hdf5.Group
		name string
	}{
		{&writer.BucketsGroup, "Buckets"},
		{&writer.StatisticsGroup, "Statistics"},
		{&writer.ConsistencyGroup, "Consistency"},
		{&writer.DepositsGroup, "Deposits"},
	}
	for _, g := range groups {
		*g.dst, err = createGroup(writer.File, g.name)
		if err != nil {
			return nil, errors.Join(err, writer.Close())
		}
	}
	return writer, nil
}

// WriteBucket appends the entries of a bucket to a table named after its label.
func (w *Writer) WriteBucket(bucket *damsa.Bucket) error {
	t, ok := w.BucketTables[bucket.Key]
	if !ok {
		var err error
		t, err = createTable(w.BucketsGroup, bucket.Key.String(), BucketEntryHDF5{}, w.Compression)
		if err != nil {
			return err
		}
		w.BucketTables[bucket.Key] = t
	}

	// The array MUST be allocated at creation, HDF5 reads it by length
	rows := make([]BucketEntryHDF5, len(bucket.Entries))
	for i, e := range bucket.Entries {
		rows[i] = BucketEntryHDF5{
			count:   int32(e.Count),
			energy:  e.Energy,
			species: int32(e.Species),
			x:       e.X,
			y:       e.Y,
			z:       e.Z,
		}
	}
	if err := writeArrayToTable(t, &rows); err != nil {
		return fmt.Errorf("error writing bucket %s: %w", bucket.Key, err)
	}
	return nil
}

func (w *Writer) WriteStatistics(stats []damsa.LayerStatistic) error {
	if w.StatisticsTable == nil {
		var err error
		w.StatisticsTable, err = createTable(w.StatisticsGroup, "layers", LayerStatisticHDF5{}, w.Compression)
		if err != nil {
			return err
		}
	}
	rows := make([]LayerStatisticHDF5, len(stats))
	for i, s := range stats {
		rows[i] = LayerStatisticHDF5{
			label:         convertToHdf5String(s.Label()),
			z:             s.Z,
			entranceCount: int32(s.EntranceCount),
			entranceMean:  s.EntranceMean,
			entranceErr:   s.EntranceErr,
			pureCount:     int32(s.PureCount),
			pureMean:      s.PureMean,
			pureErr:       s.PureErr,
		}
	}
	if err := writeArrayToTable(w.StatisticsTable, &rows); err != nil {
		return fmt.Errorf("error writing layer statistics: %w", err)
	}
	return nil
}

func (w *Writer) WritePathStats(stats []damsa.PathStats) error {
	if w.PathStatsTable == nil {
		var err error
		w.PathStatsTable, err = createTable(w.ConsistencyGroup, "paths", PathStatsHDF5{}, w.Compression)
		if err != nil {
			return err
		}
	}
	rows := make([]PathStatsHDF5, len(stats))
	for i, s := range stats {
		rows[i] = PathStatsHDF5{
			path:      convertToHdf5Path(s.Name()),
			avgEnergy: s.AverageEnergy(),
			count:     int32(s.Records),
		}
	}
	if err := writeArrayToTable(w.PathStatsTable, &rows); err != nil {
		return fmt.Errorf("error writing consistency table: %w", err)
	}
	return nil
}

func (w *Writer) WriteDeposits(points []damsa.DepositPoint) error {
	if w.DepositsTable == nil {
		var err error
		w.DepositsTable, err = createTable(w.DepositsGroup, "points", DepositHDF5{}, w.Compression)
		if err != nil {
			return err
		}
	}
	rows := make([]DepositHDF5, len(points))
	for i, p := range points {
		rows[i] = DepositHDF5{x: p.X, y: p.Y, z: p.Z, deposit: p.Deposit}
	}
	if err := writeArrayToTable(w.DepositsTable, &rows); err != nil {
		return fmt.Errorf("error writing deposits: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	var errs []error

	for key, t := range w.BucketTables {
		if err := t.dset.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing bucket table %s: %w", key, err))
		}
	}
	tables := []struct {
		t    *table
		name string
	}{
		{w.StatisticsTable, "statistics"},
		{w.PathStatsTable, "consistency"},
		{w.DepositsTable, "deposits"},
	}
	for _, entry := range tables {
		if entry.t == nil {
			continue
		}
		if err := entry.t.dset.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing %s table: %w", entry.name, err))
		}
	}
	groups := []struct {
		g    *hdf5.Group
		name string
	}{
		{w.BucketsGroup, "buckets"},
		{w.StatisticsGroup, "statistics"},
		{w.ConsistencyGroup, "consistency"},
		{w.DepositsGroup, "deposits"},
	}
	for _, entry := range groups {
		if entry.g == nil {
			continue
		}
		if err := entry.g.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing %s group: %w", entry.name, err))
		}
	}
	if w.File != nil {
		if err := w.File.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing file: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
