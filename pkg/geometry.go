package damsa

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// LayerBoundaryTable holds the entrance plane of every absorber and gap, in cm.
type LayerBoundaryTable struct {
	AbsorberStart []float64
	GapStart      []float64
}

// BuildLayerBoundaries walks the stack-up in construction order:
// absorber, (backing), gap, conductor, backing. The first unit has no
// backing before its gap.
func BuildLayerBoundaries(cfg ThicknessConfig) LayerBoundaryTable {
	table := LayerBoundaryTable{
		AbsorberStart: make([]float64, 0, cfg.NumLayers),
		GapStart:      make([]float64, 0, cfg.NumLayers),
	}

	z := 0.0
	for i := 0; i < cfg.NumLayers; i++ {
		if i == 0 {
			table.AbsorberStart = append(table.AbsorberStart, z)
			z += cfg.FirstAbsorber

			table.GapStart = append(table.GapStart, z)
			z += cfg.FirstGap

			z += cfg.Conductor
			z += cfg.Backing
			continue
		}
		table.AbsorberStart = append(table.AbsorberStart, z)
		z += cfg.Absorber
		z += cfg.Backing

		table.GapStart = append(table.GapStart, z)
		z += cfg.CommonGap

		z += cfg.Conductor
		z += cfg.Backing
	}
	return table
}

func (t LayerBoundaryTable) NumLayers() int {
	return len(t.AbsorberStart)
}

// Validate checks absorberStart[i] < gapStart[i] < absorberStart[i+1].
func (t LayerBoundaryTable) Validate() error {
	if len(t.AbsorberStart) != len(t.GapStart) {
		return &ErrInvalidGeometry{
			Index:  -1,
			Reason: fmt.Sprintf("%d absorbers but %d gaps", len(t.AbsorberStart), len(t.GapStart)),
		}
	}
	if len(t.AbsorberStart) == 0 {
		return &ErrInvalidGeometry{Index: -1, Reason: "no layers"}
	}
	for i := range t.AbsorberStart {
		if !(t.AbsorberStart[i] < t.GapStart[i]) {
			return &ErrInvalidGeometry{
				Index:  i,
				Reason: fmt.Sprintf("absorber start %g not below gap start %g", t.AbsorberStart[i], t.GapStart[i]),
			}
		}
		if i+1 < len(t.AbsorberStart) && !(t.GapStart[i] < t.AbsorberStart[i+1]) {
			return &ErrInvalidGeometry{
				Index:  i,
				Reason: fmt.Sprintf("gap start %g not below next absorber start %g", t.GapStart[i], t.AbsorberStart[i+1]),
			}
		}
	}
	return nil
}

// Z returns the entrance plane of a layer, and false when the index is out of range.
func (t LayerBoundaryTable) Z(kind LayerKind, index int) (float64, bool) {
	planes := t.planes(kind)
	if index < 0 || index >= len(planes) {
		return 0, false
	}
	return planes[index], true
}

func (t LayerBoundaryTable) planes(kind LayerKind) []float64 {
	if kind == Gap {
		return t.GapStart
	}
	return t.AbsorberStart
}

// Boundaries returns all entrance planes sorted and without duplicates.
func (t LayerBoundaryTable) Boundaries() []float64 {
	all := make([]float64, 0, len(t.AbsorberStart)+len(t.GapStart))
	all = append(all, t.AbsorberStart...)
	all = append(all, t.GapStart...)
	slices.Sort(all)
	return slices.Compact(all)
}
