package plots

import (
	damsa "github.com/damsa-exp/damsa_go/pkg"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
)

type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

type series struct {
	name   string
	points errorPoints
}

// Statistics draws the per-layer means with their errors: every layer and
// both tiers on the left, Pure gaps only on the right.
func (pl Plotter) Statistics(stats []damsa.LayerStatistic) (string, error) {
	var entrance, pure, gapPure errorPoints
	for _, s := range stats {
		entrance.add(s.Z, s.EntranceMean, s.EntranceErr)
		pure.add(s.Z, s.PureMean, s.PureErr)
		if s.Kind == damsa.Gap {
			gapPure.add(s.Z, s.PureMean, s.PureErr)
		}
	}

	left, err := statisticsPanel("Mean particle count per layer", []series{
		{"Entrance", entrance},
		{"Pure", pure},
	})
	if err != nil {
		return "", err
	}
	right, err := statisticsPanel("Pure particles at gap entrances", []series{
		{"Pure (gaps)", gapPure},
	})
	if err != nil {
		return "", err
	}
	return pl.saveTiles([]*plot.Plot{left.Plot, right.Plot}, "statistics")
}

// add keeps only positive means so they can be drawn on a log axis.
func (e *errorPoints) add(z, mean, err float64) {
	if mean <= 0 {
		return
	}
	e.XYs = append(e.XYs, plotter.XY{X: z, Y: mean})
	low := err
	if mean-low <= 0 {
		low = 0
	}
	e.YErrors = append(e.YErrors, struct{ Low, High float64 }{low, err})
}

func statisticsPanel(title string, all []series) (*hplot.Plot, error) {
	p := hplot.New()
	p.Title.Text = title
	p.X.Label.Text = "z (cm)"
	p.Y.Label.Text = "mean count per normalization unit"
	p.Legend.Top = true

	points := 0
	for i, s := range all {
		if len(s.points.XYs) == 0 {
			continue
		}
		points += len(s.points.XYs)
		if err := addErrorPoints(p, s.name, plotutil.Color(i), s.points); err != nil {
			return nil, err
		}
	}
	if points == 0 {
		return p, nil
	}

	p.Add(plotter.NewGrid())
	if p.Y.Min == p.Y.Max {
		p.Y.Min, p.Y.Max = p.Y.Min*0.9, p.Y.Max*1.1
	}
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	return p, nil
}
