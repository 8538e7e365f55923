package plots

import (
	"fmt"
	"image/color"

	damsa "github.com/damsa-exp/damsa_go/pkg"
	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"golang.org/x/exp/slices"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg/draw"
)

// ShowerPlots overlays the shower summaries of every dataset in six plots.
func (pl Plotter) ShowerPlots(summaries []damsa.ShowerSummary, lengthStep float64) ([]string, error) {
	if len(summaries) == 0 {
		return nil, nil
	}

	var files []string
	for _, d := range []struct {
		name string
		fn   func([]damsa.ShowerSummary) (*hplot.Plot, error)
	}{
		{"shower_species", speciesDistribution},
		{"shower_radius", radialProfile},
		{"shower_z", zPositions},
		{"shower_multiplicity", multiplicity},
		{"shower_length", func(s []damsa.ShowerSummary) (*hplot.Plot, error) { return showerLength(s, lengthStep) }},
		{"shower_energy", energyProfile},
	} {
		p, err := d.fn(summaries)
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

func addErrorPoints(p *hplot.Plot, label string, c color.Color, points errorPoints) error {
	sc, err := plotter.NewScatter(points.XYs)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = c
	sc.GlyphStyle.Shape = draw.CircleGlyph{}

	bars, err := plotter.NewYErrorBars(points)
	if err != nil {
		return err
	}
	bars.LineStyle.Color = c

	p.Add(sc, bars)
	p.Legend.Add(label, sc)
	return nil
}

// speciesDistribution puts every PDG code seen in any dataset on its own tick.
func speciesDistribution(summaries []damsa.ShowerSummary) (*hplot.Plot, error) {
	var codes []int
	for _, s := range summaries {
		for _, c := range s.Species {
			codes = append(codes, c.Species)
		}
	}
	slices.Sort(codes)
	codes = slices.Compact(codes)

	p := hplot.New()
	p.Title.Text = "Particle type distribution"
	p.Y.Label.Text = "entries"
	p.Legend.Top = true

	ticks := make(plot.ConstantTicks, len(codes))
	for i, code := range codes {
		ticks[i] = plot.Tick{Value: float64(i), Label: SpeciesName(code)}
	}
	p.X.Tick.Marker = ticks

	points := 0
	for i, s := range summaries {
		var pts errorPoints
		for _, c := range s.Species {
			x, _ := slices.BinarySearch(codes, c.Species)
			pts.add(float64(x), float64(c.Count), c.Err)
		}
		if len(pts.XYs) == 0 {
			continue
		}
		points += len(pts.XYs)
		if err := addErrorPoints(p, s.Label, plotutil.Color(i), pts); err != nil {
			return nil, err
		}
	}
	if points > 0 {
		p.X.Min, p.X.Max = -0.5, float64(len(codes))-0.5
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	return p, nil
}

func radialProfile(summaries []damsa.ShowerSummary) (*hplot.Plot, error) {
	p := hplot.New()
	p.Title.Text = "Energy weighted <R> vs z"
	p.X.Label.Text = "z (mm)"
	p.Y.Label.Text = "<R> (mm)"
	p.Legend.Top = true

	for i, s := range summaries {
		if len(s.RadialProfile) == 0 {
			continue
		}
		var pts errorPoints
		for _, pp := range s.RadialProfile {
			pts.XYs = append(pts.XYs, plotter.XY{X: pp.Z, Y: pp.Mean})
			pts.YErrors = append(pts.YErrors, struct{ Low, High float64 }{pp.Std, pp.Std})
		}
		if err := addErrorPoints(p, s.Label, plotutil.Color(i), pts); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// overlay draws one outlined histogram per dataset.
func overlay(p *hplot.Plot, summaries []damsa.ShowerSummary, fill func(damsa.ShowerSummary) *hbook.H1D) {
	p.Legend.Top = true
	for i, s := range summaries {
		h := hplot.NewH1D(fill(s))
		h.LineStyle.Color = plotutil.Color(i)
		h.LineStyle.Width = 1.5
		p.Add(h)
		p.Legend.Add(s.Label, h)
	}
}

func zPositions(summaries []damsa.ShowerSummary) (*hplot.Plot, error) {
	p := hplot.New()
	p.Title.Text = "z position of followed particles"
	p.X.Label.Text = "z (mm)"
	p.Y.Label.Text = "entries"
	overlay(p, summaries, func(s damsa.ShowerSummary) *hbook.H1D {
		edges := s.ZEdges
		if len(edges) < 2 {
			edges = []float64{0, 1}
		}
		h := hbook.NewH1DFromEdges(edges)
		for b, n := range s.ZCounts {
			h.Fill((edges[b]+edges[b+1])/2, n)
		}
		return h
	})
	return p, nil
}

func multiplicity(summaries []damsa.ShowerSummary) (*hplot.Plot, error) {
	maxN := 0
	for _, s := range summaries {
		for _, n := range s.Multiplicity {
			maxN = max(maxN, n)
		}
	}
	edges := make([]float64, maxN+10)
	for i := range edges {
		edges[i] = float64(i)
	}

	p := hplot.New()
	p.Title.Text = "Followed particles per event"
	p.X.Label.Text = "N"
	p.Y.Label.Text = "events"
	overlay(p, summaries, func(s damsa.ShowerSummary) *hbook.H1D {
		h := hbook.NewH1DFromEdges(edges)
		for _, n := range s.Multiplicity {
			h.Fill(float64(n), 1)
		}
		return h
	})
	return p, nil
}

func showerLength(summaries []damsa.ShowerSummary, step float64) (*hplot.Plot, error) {
	zmax := 0.0
	for _, s := range summaries {
		if len(s.ZEdges) > 0 {
			zmax = max(zmax, s.ZEdges[len(s.ZEdges)-1])
		}
	}
	edges := damsa.BinEdges(zmax, step)
	if len(edges) < 2 {
		edges = []float64{0, max(zmax, 1)}
	}

	p := hplot.New()
	p.Title.Text = "Shower length"
	p.X.Label.Text = "maximum z per event (mm)"
	p.Y.Label.Text = "events"
	overlay(p, summaries, func(s damsa.ShowerSummary) *hbook.H1D {
		h := hbook.NewH1DFromEdges(edges)
		for _, z := range s.ShowerLength {
			h.Fill(z, 1)
		}
		return h
	})
	return p, nil
}

func energyProfile(summaries []damsa.ShowerSummary) (*hplot.Plot, error) {
	p := hplot.New()
	p.Title.Text = "Energy deposition along z"
	p.X.Label.Text = "z (mm)"
	p.Y.Label.Text = "mean summed E per event (MeV)"
	p.Legend.Top = true

	for i, s := range summaries {
		if len(s.EnergyProfile) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(s.EnergyProfile))
		for j, pp := range s.EnergyProfile {
			xys[j] = plotter.XY{X: pp.Z, Y: pp.Mean}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.Label, line)
	}
	return p, nil
}
