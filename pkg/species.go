package damsa

// SpeciesSet is a set of PDG codes.
type SpeciesSet map[int]struct{}

func NewSpeciesSet(groups ...[]int) SpeciesSet {
	set := make(SpeciesSet)
	for _, ids := range groups {
		for _, id := range ids {
			set[id] = struct{}{}
		}
	}
	return set
}

func (s SpeciesSet) Contains(code int) bool {
	_, ok := s[code]
	return ok
}
