package damsa

import "math"

// Classifier decides which entrance planes a record crosses and in which tiers.
type Classifier struct {
	table       LayerBoundaryTable
	tolerance   float64
	lengthScale float64
	entrance    SpeciesSet
	pure        SpeciesSet
}

func NewClassifier(table LayerBoundaryTable, cfg ClassifierConfig) *Classifier {
	scale := cfg.LengthScale
	if scale == 0 {
		scale = DefaultLengthScale
	}
	return &Classifier{
		table:       table,
		tolerance:   cfg.Tolerance,
		lengthScale: scale,
		entrance:    NewSpeciesSet(cfg.NeutrinoIDs),
		pure:        NewSpeciesSet(cfg.NeutrinoIDs, cfg.PureExtraIDs),
	}
}

func (c *Classifier) Table() LayerBoundaryTable {
	return c.table
}

func (c *Classifier) LengthScale() float64 {
	return c.lengthScale
}

// IsCrossing tells whether a record is a forward-moving crossing marker.
// Records carrying an energy deposit are deposit markers, not crossings.
func (c *Classifier) IsCrossing(r ParticleRecord) bool {
	return r.Pz > 0 && r.Deposit == 0
}

// Classify returns every bucket the record belongs to. The two tiers are
// evaluated against their own exclusion sets.
func (c *Classifier) Classify(r ParticleRecord) []BucketKey {
	if !c.IsCrossing(r) {
		return nil
	}
	inEntrance := !c.entrance.Contains(r.Species)
	inPure := !c.pure.Contains(r.Species)
	if !inEntrance && !inPure {
		return nil
	}

	z := r.Z / c.lengthScale
	var keys []BucketKey
	for _, kind := range []LayerKind{Absorber, Gap} {
		for i, start := range c.table.planes(kind) {
			if math.Abs(z-start) >= c.tolerance {
				continue
			}
			if inEntrance {
				keys = append(keys, BucketKey{Kind: kind, Index: i, Tier: Entrance})
			}
			if inPure {
				keys = append(keys, BucketKey{Kind: kind, Index: i, Tier: Pure})
			}
		}
	}
	return keys
}
