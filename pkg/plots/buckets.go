package plots

import (
	"fmt"
	"math"

	damsa "github.com/damsa-exp/damsa_go/pkg"
	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg/draw"
)

// Jitter spreads the integer sibling counts horizontally in scatter plots.
const Jitter = 0.15

// BucketPlots draws the species scatter, the count/energy histogram and the
// XY profile of a bucket. Empty buckets produce no plots.
func (pl Plotter) BucketPlots(bucket *damsa.Bucket) ([]string, error) {
	if bucket.Len() == 0 {
		return nil, nil
	}
	label := bucket.Key.String()

	var files []string
	for _, d := range []struct {
		name string
		fn   func(*damsa.Bucket) (*hplot.Plot, error)
	}{
		{label + "_scatter", speciesScatter},
		{label + "_hist2d", countEnergyHistogram},
		{label + "_xy", xyProfile},
	} {
		p, err := d.fn(bucket)
		if err != nil {
			return files, fmt.Errorf("could not draw %s: %w", d.name, err)
		}
		file, err := pl.save(p, d.name)
		if err != nil {
			return files, err
		}
		files = append(files, file)
	}
	return files, nil
}

func speciesScatter(bucket *damsa.Bucket) (*hplot.Plot, error) {
	p := hplot.New()
	p.Title.Text = fmt.Sprintf("%s: particle count vs energy", bucket.Key)
	p.X.Label.Text = "particles per group"
	p.Y.Label.Text = "E (MeV)"
	p.Legend.Top = true

	jitter := distuv.Uniform{Min: -Jitter, Max: Jitter}
	bySpecies := make(map[int]plotter.XYs)
	for _, e := range bucket.Entries {
		if e.Energy <= 0 {
			continue
		}
		bySpecies[e.Species] = append(bySpecies[e.Species], plotter.XY{
			X: float64(e.Count) + jitter.Rand(),
			Y: e.Energy,
		})
	}

	species := make([]int, 0, len(bySpecies))
	for pdg := range bySpecies {
		species = append(species, pdg)
	}
	slices.Sort(species)

	for i, pdg := range species {
		s, err := plotter.NewScatter(bySpecies[pdg])
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Color = plotutil.Color(i)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add(SpeciesName(pdg), s)
	}
	if len(species) > 0 {
		if p.Y.Min == p.Y.Max {
			p.Y.Min, p.Y.Max = p.Y.Min*0.9, p.Y.Max*1.1
		}
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	return p, nil
}

func countEnergyHistogram(bucket *damsa.Bucket) (*hplot.Plot, error) {
	energies := make([]float64, len(bucket.Entries))
	maxCount := 1
	for i, e := range bucket.Entries {
		energies[i] = e.Energy
		if e.Count > maxCount {
			maxCount = e.Count
		}
	}
	yedges := EnergyEdges(energies, energyBins)
	xedges := make([]float64, maxCount+1)
	for i := range xedges {
		xedges[i] = float64(i) + 0.5
	}

	h := hbook.NewH2DFromEdges(xedges, yedges)
	for _, e := range bucket.Entries {
		// out of range energies land in the first or last bin
		y := math.Max(e.Energy, yedges[0])
		y = math.Min(y, math.Nextafter(yedges[len(yedges)-1], 0))
		h.Fill(float64(e.Count), y, 1)
	}

	p := hplot.New()
	p.Title.Text = fmt.Sprintf("%s: energy vs particle count", bucket.Key)
	p.X.Label.Text = "particles per group"
	p.Y.Label.Text = "E (MeV)"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(hplot.NewH2D(h, palette.Heat(16, 1)))
	return p, nil
}

func xyProfile(bucket *damsa.Bucket) (*hplot.Plot, error) {
	xys := make(plotter.XYs, len(bucket.Entries))
	for i, e := range bucket.Entries {
		xys[i] = plotter.XY{X: e.X, Y: e.Y}
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Radius = 1

	p := hplot.New()
	p.Title.Text = fmt.Sprintf("%s: XY profile", bucket.Key)
	p.X.Label.Text = "x (cm)"
	p.Y.Label.Text = "y (cm)"
	p.Add(s)
	return p, nil
}
