package damsa

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Thicknesses of one repeating detector unit, in cm.
type ThicknessConfig struct {
	FirstAbsorber float64 `json:"first_absorber" db:"FirstAbsorber"`
	FirstGap      float64 `json:"first_gap" db:"FirstGap"`
	CommonGap     float64 `json:"common_gap" db:"CommonGap"`
	Conductor     float64 `json:"conductor" db:"Conductor"`
	Backing       float64 `json:"backing" db:"Backing"`
	Absorber      float64 `json:"absorber" db:"Absorber"`
	NumLayers     int     `json:"num_layers" db:"NumLayers"`
}

func DefaultThickness() ThicknessConfig {
	return ThicknessConfig{
		FirstAbsorber: 2.0,
		FirstGap:      0.3,
		CommonGap:     0.3,
		Conductor:     0.1,
		Backing:       0.3,
		Absorber:      1.0,
		NumLayers:     6,
	}
}

const (
	DefaultTolerance   = 1e-4
	DefaultLengthScale = 10.0
	DefaultTreeName    = "DAMSA"
)

var (
	NeutrinoIDs  = []int{12, -12, 14, -14}
	PureExtraIDs = []int{2112, 22}
)

type ClassifierConfig struct {
	Tolerance    float64 `json:"tolerance"`
	LengthScale  float64 `json:"length_scale"`
	NeutrinoIDs  []int   `json:"neutrino_ids"`
	PureExtraIDs []int   `json:"pure_extra_ids"`
}

func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Tolerance:    DefaultTolerance,
		LengthScale:  DefaultLengthScale,
		NeutrinoIDs:  append([]int(nil), NeutrinoIDs...),
		PureExtraIDs: append([]int(nil), PureExtraIDs...),
	}
}

// ShowerConfig selects the particles followed by the shower analysis and
// its binning along z, in mm.
type ShowerConfig struct {
	Species    []int   `json:"species"`
	ZMax       float64 `json:"z_max"`
	ZStep      float64 `json:"z_step"`
	LengthStep float64 `json:"length_step"`
}

func DefaultShowerConfig() ShowerConfig {
	return ShowerConfig{
		Species:    []int{11},
		ZMax:       400,
		ZStep:      13,
		LengthStep: 10,
	}
}

type Configuration struct {
	Inputs       []string         `json:"inputs"`
	TreeName     string           `json:"tree_name"`
	MaxFiles     int              `json:"max_files"`
	NumFiles     int              `json:"num_files"`
	Verbosity    int              `json:"verbosity"`
	Geometry     ThicknessConfig  `json:"geometry"`
	GeometryName string           `json:"geometry_name"`
	Classifier   ClassifierConfig `json:"classifier"`
	Shower       ShowerConfig     `json:"shower"`
	OutputDir    string           `json:"output_dir"`
	PlotPrefix   string           `json:"plot_prefix"`
	WritePlots   bool             `json:"write_plots"`
	FileOut      string           `json:"file_out"`
	NoDB         bool             `json:"no_db"`
	DBDriver     string           `json:"db_driver"`
	DBPath       string           `json:"db_path"`
	Host         string           `json:"host"`
	User         string           `json:"user"`
	Passwd       string           `json:"pass"`
	DBName       string           `json:"dbname"`
	RunLabel     string           `json:"run_label"`
}

// DefaultConfiguration holds the values used when the configuration file
// leaves a field out.
func DefaultConfiguration() Configuration {
	return Configuration{
		TreeName:   DefaultTreeName,
		MaxFiles:   1000,
		NumFiles:   0,
		Verbosity:  0,
		Geometry:   DefaultThickness(),
		Classifier: DefaultClassifierConfig(),
		Shower:     DefaultShowerConfig(),
		OutputDir:  ".",
		PlotPrefix: "plot_",
		WritePlots: true,
		NoDB:       true,
		DBDriver:   "mysql",
		DBPath:     "damsa.db",
		Host:       "localhost",
		User:       "damsa",
		Passwd:     "readonly",
		DBName:     "DAMSA",
	}
}

// LoadConfiguration overlays the JSON file on the defaults. An empty
// filename returns the defaults.
func LoadConfiguration(filename string) (Configuration, error) {
	config := DefaultConfiguration()
	if filename == "" {
		return config, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, err
	}
	return config, nil
}

func PrintConfiguration(config Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("Inputs: %s", strings.Join(config.Inputs, ", ")), "config")
	logger.Info(fmt.Sprintf("Tree name: %s", config.TreeName), "config")
	logger.Info(fmt.Sprintf("Max files: %d", config.MaxFiles), "config")
	logger.Info(fmt.Sprintf("Num files: %d", config.NumFiles), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Geometry: %+v", config.Geometry), "config")
	logger.Info(fmt.Sprintf("Geometry name: %s", config.GeometryName), "config")
	logger.Info(fmt.Sprintf("Tolerance: %g", config.Classifier.Tolerance), "config")
	logger.Info(fmt.Sprintf("Length scale: %g", config.Classifier.LengthScale), "config")
	logger.Info(fmt.Sprintf("Neutrino IDs: %v", config.Classifier.NeutrinoIDs), "config")
	logger.Info(fmt.Sprintf("Pure extra IDs: %v", config.Classifier.PureExtraIDs), "config")
	logger.Info(fmt.Sprintf("Shower: %+v", config.Shower), "config")
	logger.Info(fmt.Sprintf("Output dir: %s", config.OutputDir), "config")
	logger.Info(fmt.Sprintf("Plot prefix: %s", config.PlotPrefix), "config")
	logger.Info(fmt.Sprintf("Write plots: %t", config.WritePlots), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	logger.Info(fmt.Sprintf("DB driver: %s", config.DBDriver), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("Run label: %s", config.RunLabel), "config")
}
