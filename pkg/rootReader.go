package damsa

import (
	"fmt"
	"math"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rtree"
)

// LoadROOTFile reads the schema columns of every entry of a ROOT tree.
// All columns are stored as doubles by the simulation.
func LoadROOTFile(path string, schema Schema) ([]ParticleRecord, error) {
	f, err := groot.Open(path)
	if err != nil {
		return nil, &ErrOpenFile{Filename: path, Err: err}
	}
	defer f.Close()

	tree, err := getTree(f, path, schema.Tree)
	if err != nil {
		return nil, err
	}
	if tree.Entries() == 0 {
		return nil, &ErrEmptyTree{Filename: path, Tree: schema.Tree}
	}

	values := make(map[string]*float64, len(schema.Branches))
	rvars := make([]rtree.ReadVar, 0, len(schema.Branches))
	for _, name := range schema.Branches {
		if tree.Branch(name) == nil {
			return nil, &ErrMissingBranch{Filename: path, Branch: name}
		}
		value := new(float64)
		values[name] = value
		rvars = append(rvars, rtree.ReadVar{Name: name, Value: value})
	}

	r, err := rtree.NewReader(tree, rvars)
	if err != nil {
		return nil, fmt.Errorf("could not create reader for tree %q in %q: %w", schema.Tree, path, err)
	}
	defer r.Close()

	records := make([]ParticleRecord, 0, tree.Entries())
	err = r.Read(func(ctx rtree.RCtx) error {
		records = append(records, recordFromColumns(values))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not read tree %q in %q: %w", schema.Tree, path, err)
	}
	return records, nil
}

// InspectROOTFile returns the number of entries of a tree.
func InspectROOTFile(path string, treeName string) (int64, error) {
	f, err := groot.Open(path)
	if err != nil {
		return 0, &ErrOpenFile{Filename: path, Err: err}
	}
	defer f.Close()

	tree, err := getTree(f, path, treeName)
	if err != nil {
		return 0, err
	}
	return tree.Entries(), nil
}

func getTree(f *groot.File, path string, name string) (rtree.Tree, error) {
	obj, err := f.Get(name)
	if err != nil {
		return nil, &ErrMissingTree{Filename: path, Tree: name, Err: err}
	}
	tree, ok := obj.(rtree.Tree)
	if !ok {
		return nil, &ErrMissingTree{Filename: path, Tree: name}
	}
	return tree, nil
}

func recordFromColumns(values map[string]*float64) ParticleRecord {
	get := func(name string) float64 {
		if v, ok := values[name]; ok {
			return *v
		}
		return 0
	}
	return ParticleRecord{
		EventID: int64(math.Round(get(BranchEventID))),
		Species: int(math.Round(get(BranchSpecies))),
		Energy:  get(BranchEnergy),
		X:       get(BranchX),
		Y:       get(BranchY),
		Z:       get(BranchZ),
		Pz:      get(BranchPz),
		Charge:  get(BranchCharge),
		Deposit: get(BranchDeposit),
	}
}
