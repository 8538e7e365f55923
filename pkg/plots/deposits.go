package plots

import (
	"fmt"

	damsa "github.com/damsa-exp/damsa_go/pkg"
	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/palette"
)

const depositBins = 100

type projection struct {
	name   string
	xLabel string
	yLabel string
	x      func(damsa.DepositPoint) float64
	y      func(damsa.DepositPoint) float64
}

var (
	projectionZX = projection{"ZX", "z (cm)", "x (cm)",
		func(p damsa.DepositPoint) float64 { return p.Z },
		func(p damsa.DepositPoint) float64 { return p.X }}
	projectionXY = projection{"XY", "x (cm)", "y (cm)",
		func(p damsa.DepositPoint) float64 { return p.X },
		func(p damsa.DepositPoint) float64 { return p.Y }}
	projectionYZ = projection{"YZ", "y (cm)", "z (cm)",
		func(p damsa.DepositPoint) float64 { return p.Y },
		func(p damsa.DepositPoint) float64 { return p.Z }}
)

// DepositMaps draws the global ZX map of every deposit and XY/YZ maps for
// every volume slice. Positions are divided by scale.
func (pl Plotter) DepositMaps(points []damsa.DepositPoint, slices []damsa.VolumeSlice, scale float64) ([]string, error) {
	if len(points) == 0 {
		return nil, nil
	}
	if scale == 0 {
		scale = damsa.DefaultLengthScale
	}

	var files []string
	p := depositMap(points, scale, projectionZX, "Energy deposits")
	file, err := pl.save(p, "deposits_ZX")
	if err != nil {
		return files, err
	}
	files = append(files, file)

	for _, slice := range slices {
		for _, proj := range []projection{projectionXY, projectionYZ} {
			title := fmt.Sprintf("Deposits in %.2f <= z < %.2f cm", slice.ZMin, slice.ZMax)
			p := depositMap(slice.Points, scale, proj, title)
			file, err := pl.save(p, fmt.Sprintf("deposits_slice%d_%s", slice.Index, proj.name))
			if err != nil {
				return files, err
			}
			files = append(files, file)
		}
	}
	return files, nil
}

func depositMap(points []damsa.DepositPoint, scale float64, proj projection, title string) *hplot.Plot {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, pt := range points {
		xs[i] = proj.x(pt) / scale
		ys[i] = proj.y(pt) / scale
	}
	xmin, xmax := valueRange(xs)
	ymin, ymax := valueRange(ys)

	// widen the upper edge so the largest value is not an overflow
	h := hbook.NewH2D(depositBins, xmin, xmax+(xmax-xmin)*1e-6, depositBins, ymin, ymax+(ymax-ymin)*1e-6)
	for i, pt := range points {
		h.Fill(xs[i], ys[i], pt.Deposit)
	}

	p := hplot.New()
	p.Title.Text = title
	p.X.Label.Text = proj.xLabel
	p.Y.Label.Text = proj.yLabel
	p.Add(hplot.NewH2D(h, palette.Heat(32, 1)))
	return p
}
