package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	damsa "github.com/damsa-exp/damsa_go/pkg"
	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
	_ "modernc.org/sqlite"
)

// Catalog stores named detector geometries and the statistics of every run.
type Catalog struct {
	DB        *sqlx.DB
	Verbosity int
}

func ConnectToDatabase(user string, pass string, host string, dbname string) (*Catalog, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	if err != nil {
		return nil, err
	}
	return &Catalog{DB: db}, nil
}

func OpenSQLite(path string) (*Catalog, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases alive between queries
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}
	return &Catalog{DB: db}, nil
}

func (c *Catalog) Close() error {
	return c.DB.Close()
}

// RunSummary describes one aggregation run.
type RunSummary struct {
	Label          string    `db:"Label"`
	Mode           string    `db:"Mode"`
	FilesProcessed int       `db:"FilesProcessed"`
	FilesSkipped   int       `db:"FilesSkipped"`
	Normalization  int       `db:"Normalization"`
	CreatedAt      time.Time `db:"CreatedAt"`
}

type geometryRow struct {
	Name string `db:"Name"`
	damsa.ThicknessConfig
}

type layerRow struct {
	RunID         int64   `db:"RunID"`
	Kind          int     `db:"Kind"`
	LayerIndex    int     `db:"LayerIndex"`
	Z             float64 `db:"Z"`
	EntranceCount int     `db:"EntranceCount"`
	EntranceMean  float64 `db:"EntranceMean"`
	EntranceErr   float64 `db:"EntranceErr"`
	PureCount     int     `db:"PureCount"`
	PureMean      float64 `db:"PureMean"`
	PureErr       float64 `db:"PureErr"`
}

type pathRow struct {
	RunID     int64   `db:"RunID"`
	Path      string  `db:"Path"`
	EnergySum float64 `db:"EnergySum"`
	Records   int     `db:"Records"`
}

func (c *Catalog) autoIncrement() string {
	if c.DB.DriverName() == "mysql" {
		return "AUTO_INCREMENT"
	}
	return "AUTOINCREMENT"
}

func (c *Catalog) CreateSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS DetectorGeometry (
			Name VARCHAR(64) PRIMARY KEY,
			FirstAbsorber DOUBLE NOT NULL,
			FirstGap DOUBLE NOT NULL,
			CommonGap DOUBLE NOT NULL,
			Conductor DOUBLE NOT NULL,
			Backing DOUBLE NOT NULL,
			Absorber DOUBLE NOT NULL,
			NumLayers INTEGER NOT NULL)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS Runs (
			RunID INTEGER PRIMARY KEY %s,
			Label VARCHAR(255) NOT NULL,
			Mode VARCHAR(16) NOT NULL,
			FilesProcessed INTEGER NOT NULL,
			FilesSkipped INTEGER NOT NULL,
			Normalization INTEGER NOT NULL,
			CreatedAt DATETIME NOT NULL)`, c.autoIncrement()),
		`CREATE TABLE IF NOT EXISTS LayerStatistics (
			RunID INTEGER NOT NULL REFERENCES Runs(RunID),
			Kind INTEGER NOT NULL,
			LayerIndex INTEGER NOT NULL,
			Z DOUBLE NOT NULL,
			EntranceCount INTEGER NOT NULL,
			EntranceMean DOUBLE NOT NULL,
			EntranceErr DOUBLE NOT NULL,
			PureCount INTEGER NOT NULL,
			PureMean DOUBLE NOT NULL,
			PureErr DOUBLE NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS PathStatistics (
			RunID INTEGER NOT NULL REFERENCES Runs(RunID),
			Path VARCHAR(255) NOT NULL,
			EnergySum DOUBLE NOT NULL,
			Records INTEGER NOT NULL)`,
	}
	for _, statement := range statements {
		if _, err := c.DB.Exec(statement); err != nil {
			return fmt.Errorf("error creating catalog schema: %w", err)
		}
	}
	return nil
}

func (c *Catalog) SaveGeometry(name string, cfg damsa.ThicknessConfig) error {
	query := `INSERT INTO DetectorGeometry
		(Name, FirstAbsorber, FirstGap, CommonGap, Conductor, Backing, Absorber, NumLayers)
		VALUES (:Name, :FirstAbsorber, :FirstGap, :CommonGap, :Conductor, :Backing, :Absorber, :NumLayers)`
	if _, err := c.DB.NamedExec(query, geometryRow{Name: name, ThicknessConfig: cfg}); err != nil {
		return fmt.Errorf("error saving geometry %q: %w", name, err)
	}
	return nil
}

// LoadGeometry reads the thickness configuration stored under name.
func (c *Catalog) LoadGeometry(name string) (damsa.ThicknessConfig, error) {
	query := `SELECT Name, FirstAbsorber, FirstGap, CommonGap, Conductor, Backing, Absorber, NumLayers
		FROM DetectorGeometry WHERE Name = ?`
	if c.Verbosity > 0 {
		damsa.GetLogger().Info(fmt.Sprintf("Reading geometry %s from database", name), "catalog")
	}
	if c.Verbosity > 2 {
		damsa.GetLogger().Info(fmt.Sprintf("Query: %s", query), "catalog")
	}

	var row geometryRow
	err := c.DB.Get(&row, c.DB.Rebind(query), name)
	if errors.Is(err, sql.ErrNoRows) {
		return damsa.ThicknessConfig{}, fmt.Errorf("geometry %q not found in database", name)
	}
	if err != nil {
		return damsa.ThicknessConfig{}, fmt.Errorf("error querying database: %w", err)
	}
	return row.ThicknessConfig, nil
}

// SaveRun inserts the run with its layer and path statistics in a single
// transaction and returns the new run id.
func (c *Catalog) SaveRun(run RunSummary, stats []damsa.LayerStatistic, paths []damsa.PathStats) (int64, error) {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := c.DB.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.NamedExec(`INSERT INTO Runs
		(Label, Mode, FilesProcessed, FilesSkipped, Normalization, CreatedAt)
		VALUES (:Label, :Mode, :FilesProcessed, :FilesSkipped, :Normalization, :CreatedAt)`, run)
	if err != nil {
		return 0, fmt.Errorf("error inserting run: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("error reading run id: %w", err)
	}

	for _, s := range stats {
		row := layerRow{
			RunID:         runID,
			Kind:          int(s.Kind),
			LayerIndex:    s.Index,
			Z:             s.Z,
			EntranceCount: s.EntranceCount,
			EntranceMean:  s.EntranceMean,
			EntranceErr:   s.EntranceErr,
			PureCount:     s.PureCount,
			PureMean:      s.PureMean,
			PureErr:       s.PureErr,
		}
		_, err := tx.NamedExec(`INSERT INTO LayerStatistics
			(RunID, Kind, LayerIndex, Z, EntranceCount, EntranceMean, EntranceErr, PureCount, PureMean, PureErr)
			VALUES (:RunID, :Kind, :LayerIndex, :Z, :EntranceCount, :EntranceMean, :EntranceErr, :PureCount, :PureMean, :PureErr)`, row)
		if err != nil {
			return 0, fmt.Errorf("error inserting statistics of %s: %w", s.Label(), err)
		}
	}

	for _, p := range paths {
		row := pathRow{RunID: runID, Path: p.Name(), EnergySum: p.EnergySum, Records: p.Records}
		_, err := tx.NamedExec(`INSERT INTO PathStatistics (RunID, Path, EnergySum, Records)
			VALUES (:RunID, :Path, :EnergySum, :Records)`, row)
		if err != nil {
			return 0, fmt.Errorf("error inserting path statistics of %s: %w", p.Name(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing run: %w", err)
	}
	if c.Verbosity > 0 {
		damsa.GetLogger().Info(fmt.Sprintf("Run %d saved with %d layers", runID, len(stats)), "catalog")
	}
	return runID, nil
}

// LoadStatistics returns the layer statistics of a run sorted by Z.
func (c *Catalog) LoadStatistics(runID int64) ([]damsa.LayerStatistic, error) {
	query := `SELECT RunID, Kind, LayerIndex, Z, EntranceCount, EntranceMean, EntranceErr,
		PureCount, PureMean, PureErr FROM LayerStatistics WHERE RunID = ? ORDER BY Z`
	rows, err := c.DB.Queryx(c.DB.Rebind(query), runID)
	if err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	defer rows.Close()

	var stats []damsa.LayerStatistic
	for rows.Next() {
		result := layerRow{}
		if err := rows.StructScan(&result); err != nil {
			return nil, fmt.Errorf("error scanning DB row: %w", err)
		}
		stats = append(stats, damsa.LayerStatistic{
			Kind:          damsa.LayerKind(result.Kind),
			Index:         result.LayerIndex,
			Z:             result.Z,
			EntranceCount: result.EntranceCount,
			EntranceMean:  result.EntranceMean,
			EntranceErr:   result.EntranceErr,
			PureCount:     result.PureCount,
			PureMean:      result.PureMean,
			PureErr:       result.PureErr,
		})
	}
	return stats, rows.Err()
}

// LoadPathStatistics returns the consistency rows of a run in insertion order.
func (c *Catalog) LoadPathStatistics(runID int64) ([]damsa.PathStats, error) {
	var rows []pathRow
	query := `SELECT RunID, Path, EnergySum, Records FROM PathStatistics WHERE RunID = ?`
	if err := c.DB.Select(&rows, c.DB.Rebind(query), runID); err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	stats := make([]damsa.PathStats, len(rows))
	for i, r := range rows {
		stats[i] = damsa.PathStats{Origin: r.Path, EnergySum: r.EnergySum, Records: r.Records}
	}
	return stats, nil
}
