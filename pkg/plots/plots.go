package plots

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	damsa "github.com/damsa-exp/damsa_go/pkg"
	"go-hep.org/x/hep/heppdt"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	plotWidth  = 8 * vg.Inch
	plotHeight = 6 * vg.Inch
	energyBins = 50
)

// Plotter writes png files named <Prefix><name>.png under Dir.
type Plotter struct {
	Dir    string
	Prefix string
}

func (pl Plotter) path(name string) string {
	return filepath.Join(pl.Dir, pl.Prefix+name+".png")
}

func (pl Plotter) save(p *hplot.Plot, name string) (string, error) {
	file := pl.path(name)
	if err := p.Save(plotWidth, plotHeight, file); err != nil {
		return "", fmt.Errorf("could not save plot %s: %w", file, err)
	}
	damsa.GetLogger().Info(fmt.Sprintf("Plot saved: %s", file), "plots")
	return file, nil
}

// saveTiles draws the plots side by side in a single row.
func (pl Plotter) saveTiles(plots []*plot.Plot, name string) (string, error) {
	img := vgimg.New(vg.Length(len(plots))*plotWidth, plotHeight)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 1,
		Cols: len(plots),
		PadX: vg.Millimeter,
		PadY: vg.Millimeter,
	}
	canvases := plot.Align([][]*plot.Plot{plots}, tiles, dc)
	for j, p := range plots {
		p.Draw(canvases[0][j])
	}

	file := pl.path(name)
	f, err := os.Create(file)
	if err != nil {
		return "", fmt.Errorf("could not create %s: %w", file, err)
	}
	defer f.Close()
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		return "", fmt.Errorf("could not write %s: %w", file, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	damsa.GetLogger().Info(fmt.Sprintf("Plot saved: %s", file), "plots")
	return file, nil
}

// SpeciesName returns the particle name for a PDG code, or "PID <code>".
func SpeciesName(pdg int) string {
	p := heppdt.ParticleByID(heppdt.PID(pdg))
	if p == nil || p.Name == "" {
		return fmt.Sprintf("PID %d", pdg)
	}
	return p.Name
}

// valueRange returns the extent of values, widened by 10% on each side when
// it is degenerate.
func valueRange(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 1
	}
	lo, hi := floats.Min(values), floats.Max(values)
	if lo == hi {
		if lo == 0 {
			return -1, 1
		}
		lo, hi = math.Min(lo*0.9, lo*1.1), math.Max(lo*0.9, lo*1.1)
	}
	return lo, hi
}

// EnergyEdges returns log-spaced bin edges covering the energies. The lower
// edge is clamped to 0.1 when it is not positive.
func EnergyEdges(energies []float64, bins int) []float64 {
	lo, hi := 0.1, 1.0
	if len(energies) > 0 {
		lo, hi = floats.Min(energies), floats.Max(energies)
	}
	if lo <= 0 {
		lo = 0.1
	}
	if hi <= lo {
		lo, hi = lo*0.9, lo*1.1
	}
	return floats.LogSpan(make([]float64, bins+1), lo, hi)
}
