package damsa

type ParticleRecord struct {
	EventID int64
	Species int
	Energy  float64
	X       float64
	Y       float64
	Z       float64
	Pz      float64
	Charge  float64
	Deposit float64
}

// Column names written by the Geant4 stepping action.
const (
	BranchEventID = "evtID"
	BranchSpecies = "PDGID"
	BranchEnergy  = "E"
	BranchX       = "x"
	BranchY       = "y"
	BranchZ       = "z"
	BranchPz      = "pz"
	BranchCharge  = "Charge"
	BranchDeposit = "PPIPZ"
)

// Schema names the tree to read and the columns a file must provide.
type Schema struct {
	Tree     string
	Branches []string
}

func FileBatchedSchema(tree string) Schema {
	return Schema{
		Tree: tree,
		Branches: []string{BranchSpecies, BranchEnergy, BranchZ, BranchX, BranchY,
			BranchPz, BranchDeposit, BranchCharge},
	}
}

func EventResolvedSchema(tree string) Schema {
	return Schema{
		Tree: tree,
		Branches: []string{BranchSpecies, BranchEnergy, BranchZ, BranchX, BranchY,
			BranchPz, BranchDeposit, BranchEventID},
	}
}

// ShowerSchema reads every record with its event and position.
func ShowerSchema(tree string) Schema {
	return Schema{
		Tree:     tree,
		Branches: []string{BranchEventID, BranchSpecies, BranchEnergy, BranchX, BranchY, BranchZ},
	}
}

// FileLoader reads every record of one file. The file is closed before it returns.
type FileLoader func(path string, schema Schema) ([]ParticleRecord, error)

// DepositPoint is an energy deposit marker, positions in the native unit.
type DepositPoint struct {
	X       float64
	Y       float64
	Z       float64
	Deposit float64
}
