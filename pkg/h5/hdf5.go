package h5

import (
	"fmt"

	"github.com/jmbenlloch/go-hdf5"
)

const STRLEN = 20
const PATHLEN = 128

type BucketEntryHDF5 struct {
	count   int32
	energy  float64
	species int32
	x       float64
	y       float64
	z       float64
}

type LayerStatisticHDF5 struct {
	label         [STRLEN]byte
	z             float64
	entranceCount int32
	entranceMean  float64
	entranceErr   float64
	pureCount     int32
	pureMean      float64
	pureErr       float64
}

type PathStatsHDF5 struct {
	path      [PATHLEN]byte
	avgEnergy float64
	count     int32
}

type DepositHDF5 struct {
	x       float64
	y       float64
	z       float64
	deposit float64
}

func convertToHdf5String(s string) [STRLEN]byte {
	var byteArray [STRLEN]byte
	copy(byteArray[:], s)
	return byteArray
}

func convertToHdf5Path(s string) [PATHLEN]byte {
	var byteArray [PATHLEN]byte
	copy(byteArray[:], s)
	return byteArray
}

// table is an extensible one dimensional dataset and the number of rows written so far.
type table struct {
	dset *hdf5.Dataset
	rows int
}

func openFile(fname string) (*hdf5.File, error) {
	f, err := hdf5.CreateFile(fname, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, fmt.Errorf("could not create %s: %w", fname, err)
	}
	return f, nil
}

func createGroup(file *hdf5.File, groupName string) (*hdf5.Group, error) {
	g, err := file.CreateGroup(groupName)
	if err != nil {
		return nil, fmt.Errorf("could not create group %s: %w", groupName, err)
	}
	return g, nil
}

func createTable(group *hdf5.Group, name string, datatype interface{}, compression int) (*table, error) {
	dims := []uint{0}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	maxDims := []uint{uint(unlimitedDims)}
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		return nil, err
	}
	defer fileSpace.Close()

	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, err
	}
	defer plist.Close()

	chunks := []uint{4096}
	if err := plist.SetChunk(chunks); err != nil {
		return nil, err
	}
	if err := plist.SetDeflate(compression); err != nil {
		return nil, err
	}

	dtype, err := hdf5.NewDatatypeFromValue(datatype)
	if err != nil {
		return nil, err
	}
	defer dtype.Close()

	dset, err := group.CreateDatasetWith(name, dtype, fileSpace, plist)
	if err != nil {
		return nil, fmt.Errorf("could not create table %s: %w", name, err)
	}
	return &table{dset: dset}, nil
}

func writeArrayToTable[T any](t *table, data *[]T) error {
	length := uint(len(*data))
	if length == 0 {
		return nil
	}
	dims := []uint{length}
	dataspace, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return err
	}
	defer dataspace.Close()

	// extend
	rows := uint(t.rows)
	newsize := []uint{rows + length}
	if err := t.dset.Resize(newsize); err != nil {
		return err
	}
	filespace := t.dset.Space()
	defer filespace.Close()

	start := []uint{rows}
	count := []uint{length}
	if err := filespace.SelectHyperslab(start, nil, count, nil); err != nil {
		return err
	}

	if err := t.dset.WriteSubset(data, dataspace, filespace); err != nil {
		return err
	}
	t.rows += int(length)
	return nil
}
