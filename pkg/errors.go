package damsa

import "fmt"

// ErrOpenFile represents an error when opening an input file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

func (e *ErrOpenFile) Unwrap() error {
	return e.Err
}

// ErrMissingTree represents a file without the expected tree.
type ErrMissingTree struct {
	Filename string
	Tree     string
	Err      error
}

func (e *ErrMissingTree) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tree %q not found in %q: %v", e.Tree, e.Filename, e.Err)
	}
	return fmt.Sprintf("tree %q not found in %q", e.Tree, e.Filename)
}

func (e *ErrMissingTree) Unwrap() error {
	return e.Err
}

// ErrEmptyTree represents a tree with no entries.
type ErrEmptyTree struct {
	Filename string
	Tree     string
}

func (e *ErrEmptyTree) Error() string {
	return fmt.Sprintf("tree %q in %q has no entries", e.Tree, e.Filename)
}

// ErrMissingBranch represents a tree lacking a required column.
type ErrMissingBranch struct {
	Filename string
	Branch   string
}

func (e *ErrMissingBranch) Error() string {
	return fmt.Sprintf("branch %q not found in %q", e.Branch, e.Filename)
}

// ErrInvalidGeometry represents a boundary table breaking the stack ordering.
type ErrInvalidGeometry struct {
	Index  int
	Reason string
}

func (e *ErrInvalidGeometry) Error() string {
	return fmt.Sprintf("invalid layer geometry at layer %d: %s", e.Index, e.Reason)
}
