package damsa

import (
	"math"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type SpeciesCount struct {
	Species int
	Count   int
	Err     float64
}

// ProfilePoint is a value at the center of a z bin.
type ProfilePoint struct {
	Z    float64
	Mean float64
	Std  float64
}

// ShowerSummary describes the showers of one dataset. Positions are in mm.
type ShowerSummary struct {
	Label string
	Files int
	// Events counts the events holding at least one followed particle.
	Events  int
	Species []SpeciesCount
	// RadialProfile is the energy weighted mean radius per z bin.
	RadialProfile []ProfilePoint
	ZEdges        []float64
	// ZCounts holds the followed particles per z bin.
	ZCounts      []float64
	Multiplicity []int
	ShowerLength []float64
	// EnergyProfile is the energy summed per event and z bin, averaged over events.
	EnergyProfile []ProfilePoint
}

// ShowerAnalysis follows a set of species, regardless of charge sign, through
// the records of a dataset.
type ShowerAnalysis struct {
	follow SpeciesSet
	edges  []float64

	species map[int]int
	radii   [][]float64
	weights [][]float64
	zCounts []float64
	events  map[eventKey]*eventShower
	order   []eventKey
	files   int
}

// Geant4 restarts event numbering in every job, so events are told apart by file.
type eventKey struct {
	file  int
	event int64
}

type eventShower struct {
	count  int
	maxZ   float64
	energy []float64
}

func NewShowerAnalysis(cfg ShowerConfig) *ShowerAnalysis {
	follow := make([]int, 0, len(cfg.Species))
	for _, code := range cfg.Species {
		follow = append(follow, absInt(code))
	}
	edges := BinEdges(cfg.ZMax, cfg.ZStep)
	nbins := max(len(edges)-1, 0)
	return &ShowerAnalysis{
		follow:  NewSpeciesSet(follow),
		edges:   edges,
		species: make(map[int]int),
		radii:   make([][]float64, nbins),
		weights: make([][]float64, nbins),
		zCounts: make([]float64, nbins),
		events:  make(map[eventKey]*eventShower),
	}
}

// BinEdges returns 0, step, 2*step, ... up to zmax included.
func BinEdges(zmax, step float64) []float64 {
	if step <= 0 || zmax < 0 {
		return nil
	}
	n := int(math.Floor(zmax/step)) + 1
	edges := make([]float64, n)
	for i := range edges {
		edges[i] = float64(i) * step
	}
	return edges
}

func (s *ShowerAnalysis) Follows(code int) bool {
	return s.follow.Contains(absInt(code))
}

// bin returns the index of the [lo, hi) bin holding z, or -1.
func (s *ShowerAnalysis) bin(z float64) int {
	if len(s.edges) < 2 || z < s.edges[0] || z >= s.edges[len(s.edges)-1] {
		return -1
	}
	i, found := slices.BinarySearch(s.edges, z)
	if !found {
		i--
	}
	return i
}

// AddFile accumulates the records of one file.
func (s *ShowerAnalysis) AddFile(records []ParticleRecord) {
	file := s.files
	s.files++

	for _, r := range records {
		s.species[r.Species]++
		if !s.Follows(r.Species) {
			continue
		}

		key := eventKey{file: file, event: r.EventID}
		ev, ok := s.events[key]
		if !ok {
			ev = &eventShower{maxZ: r.Z, energy: make([]float64, len(s.zCounts))}
			s.events[key] = ev
			s.order = append(s.order, key)
		}
		ev.count++
		ev.maxZ = math.Max(ev.maxZ, r.Z)

		b := s.bin(r.Z)
		if b < 0 {
			continue
		}
		s.zCounts[b]++
		s.radii[b] = append(s.radii[b], math.Hypot(r.X, r.Y))
		s.weights[b] = append(s.weights[b], r.Energy)
		ev.energy[b] += r.Energy
	}
}

func (s *ShowerAnalysis) Summary(label string) ShowerSummary {
	summary := ShowerSummary{
		Label:   label,
		Files:   s.files,
		Events:  len(s.order),
		ZEdges:  slices.Clone(s.edges),
		ZCounts: slices.Clone(s.zCounts),
	}

	codes := make([]int, 0, len(s.species))
	for code := range s.species {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	for _, code := range codes {
		n := s.species[code]
		summary.Species = append(summary.Species, SpeciesCount{Species: code, Count: n, Err: math.Sqrt(float64(n))})
	}

	for b := range s.radii {
		if floats.Sum(s.weights[b]) <= 0 {
			continue
		}
		mean, std := stat.PopMeanStdDev(s.radii[b], s.weights[b])
		summary.RadialProfile = append(summary.RadialProfile, ProfilePoint{Z: s.center(b), Mean: mean, Std: std})
	}

	sums := make([][]float64, len(s.zCounts))
	for _, key := range s.order {
		ev := s.events[key]
		summary.Multiplicity = append(summary.Multiplicity, ev.count)
		summary.ShowerLength = append(summary.ShowerLength, ev.maxZ)
		for b, e := range ev.energy {
			sums[b] = append(sums[b], e)
		}
	}
	if len(s.order) > 0 {
		for b := range sums {
			mean, std := stat.PopMeanStdDev(sums[b], nil)
			summary.EnergyProfile = append(summary.EnergyProfile, ProfilePoint{Z: s.center(b), Mean: mean, Std: std})
		}
	}
	return summary
}

func (s *ShowerAnalysis) center(b int) float64 {
	return (s.edges[b] + s.edges[b+1]) / 2
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
