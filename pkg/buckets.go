package damsa

import (
	"fmt"
	"strconv"
	"strings"
)

type LayerKind int

const (
	Absorber LayerKind = iota
	Gap
)

func (k LayerKind) String() string {
	switch k {
	case Absorber:
		return "Absorber"
	case Gap:
		return "Gap"
	default:
		return "Unknown"
	}
}

type Tier int

const (
	// Entrance excludes neutrinos only.
	Entrance Tier = iota
	// Pure also excludes neutrons and photons.
	Pure
)

func (t Tier) String() string {
	switch t {
	case Entrance:
		return "Entrance"
	case Pure:
		return "Pure"
	default:
		return "Unknown"
	}
}

// Gap labels are numbered from 100 so they sort after absorbers in plot archives.
const GapLabelOffset = 100

type BucketKey struct {
	Kind  LayerKind
	Index int
	Tier  Tier
}

func (k BucketKey) String() string {
	index := k.Index
	if k.Kind == Gap {
		index += GapLabelOffset
	}
	return fmt.Sprintf("%s_%d_%s", k.Kind, index, k.Tier)
}

func ParseBucketKey(label string) (BucketKey, error) {
	parts := strings.Split(label, "_")
	if len(parts) != 3 {
		return BucketKey{}, fmt.Errorf("invalid bucket label %q", label)
	}

	var key BucketKey
	switch parts[0] {
	case Absorber.String():
		key.Kind = Absorber
	case Gap.String():
		key.Kind = Gap
	default:
		return BucketKey{}, fmt.Errorf("invalid layer kind in bucket label %q", label)
	}

	index, err := strconv.Atoi(parts[1])
	if err != nil {
		return BucketKey{}, fmt.Errorf("invalid layer index in bucket label %q: %w", label, err)
	}
	if key.Kind == Gap {
		index -= GapLabelOffset
	}
	if index < 0 {
		return BucketKey{}, fmt.Errorf("invalid layer index in bucket label %q", label)
	}
	key.Index = index

	switch parts[2] {
	case Entrance.String():
		key.Tier = Entrance
	case Pure.String():
		key.Tier = Pure
	default:
		return BucketKey{}, fmt.Errorf("invalid tier in bucket label %q", label)
	}
	return key, nil
}

// AllBucketKeys enumerates every key for n layers: absorbers then gaps,
// Entrance before Pure within a layer.
func AllBucketKeys(n int) []BucketKey {
	keys := make([]BucketKey, 0, 4*n)
	for _, kind := range []LayerKind{Absorber, Gap} {
		for i := 0; i < n; i++ {
			keys = append(keys,
				BucketKey{Kind: kind, Index: i, Tier: Entrance},
				BucketKey{Kind: kind, Index: i, Tier: Pure})
		}
	}
	return keys
}

// BucketEntry is one classified crossing. X and Y are in cm, Z keeps the
// native unit of the input file.
type BucketEntry struct {
	Count   int
	Energy  float64
	Species int
	X       float64
	Y       float64
	Z       float64
}

type Bucket struct {
	Key     BucketKey
	Entries []BucketEntry
}

func (b *Bucket) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Entries)
}

// Buckets maps keys to their accumulated entries. Keys without entries are absent.
type Buckets map[BucketKey]*Bucket

func (bs Buckets) Size(key BucketKey) int {
	return bs[key].Len()
}

func (bs Buckets) add(key BucketKey, entries ...BucketEntry) {
	b, ok := bs[key]
	if !ok {
		b = &Bucket{Key: key}
		bs[key] = b
	}
	b.Entries = append(b.Entries, entries...)
}

// Ordered returns the non-empty buckets in AllBucketKeys order.
func (bs Buckets) Ordered(n int) []*Bucket {
	ordered := make([]*Bucket, 0, len(bs))
	for _, key := range AllBucketKeys(n) {
		if b, ok := bs[key]; ok && b.Len() > 0 {
			ordered = append(ordered, b)
		}
	}
	return ordered
}
