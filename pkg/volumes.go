package damsa

// VolumeSlice holds the deposits between two consecutive entrance planes.
type VolumeSlice struct {
	Index  int
	ZMin   float64
	ZMax   float64
	Points []DepositPoint
}

// SliceVolumes assigns deposits to [ZMin, ZMax) intervals of the sorted
// boundaries, comparing z/scale. Empty slices are left out.
func SliceVolumes(table LayerBoundaryTable, points []DepositPoint, scale float64) []VolumeSlice {
	if scale == 0 {
		scale = DefaultLengthScale
	}
	boundaries := table.Boundaries()

	var slices []VolumeSlice
	for i := 0; i+1 < len(boundaries); i++ {
		zMin, zMax := boundaries[i], boundaries[i+1]
		var inside []DepositPoint
		for _, p := range points {
			z := p.Z / scale
			if z >= zMin && z < zMax {
				inside = append(inside, p)
			}
		}
		if len(inside) == 0 {
			continue
		}
		slices = append(slices, VolumeSlice{Index: i, ZMin: zMin, ZMax: zMax, Points: inside})
	}
	return slices
}
